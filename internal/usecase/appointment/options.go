package appointment

import (
	"time"

	"github.com/NovaClinicas/clinic-scheduler/internal/config"
)

// Options carries the booking-engine policy knobs. Values come from
// config in production; tests set them directly.
type Options struct {
	HoldWindow           time.Duration
	LockTTL              time.Duration
	IdempotencyTTL       time.Duration
	CancellationDeadline time.Duration
	Timezone             string
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		HoldWindow:           cfg.HoldWindow,
		LockTTL:              cfg.SlotLockTTL,
		IdempotencyTTL:       cfg.IdempotencyTTL,
		CancellationDeadline: cfg.CancellationDeadline,
		Timezone:             cfg.ClinicTimezone,
	}
}
