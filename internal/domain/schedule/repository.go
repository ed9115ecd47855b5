package schedule

import (
	"context"

	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

// Repository is the durable schedule store. Mutations go through
// UpdateVersioned, which must fail with a conflict when the aggregate
// version moved underneath the caller.
type Repository interface {
	Get(ctx context.Context, doctorID uint) (*models.DoctorSchedule, error)

	Create(ctx context.Context, sched *models.DoctorSchedule) error

	// UpdateVersioned persists the aggregate with
	// WHERE version = sched.Version and bumps the version on success.
	UpdateVersioned(ctx context.Context, sched *models.DoctorSchedule) error
}
