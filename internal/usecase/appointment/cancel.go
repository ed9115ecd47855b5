package appointment

import (
	"context"
	"time"

	"github.com/NovaClinicas/clinic-scheduler/internal/audit"
	domain "github.com/NovaClinicas/clinic-scheduler/internal/domain/appointment"
	"github.com/NovaClinicas/clinic-scheduler/internal/httperr"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

type CancelAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	opts  Options

	now func() time.Time
}

func NewCancelAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	opts Options,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		audit: audit,
		opts:  opts,
		now:   time.Now,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	patientID uint,
	appointmentID uint,
	reason string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentForPatient(ctx, appointmentID, patientID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	if !domain.WithinDeadline(ap.StartAt, now, uc.opts.CancellationDeadline) {
		return nil, httperr.ErrForbidden("cancellation_deadline_passed")
	}

	if err := domain.Cancel(ap, models.RolePatient, reason, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   &patientID,
		ActorRole: models.RolePatient,
		Action:    "appointment_cancelled",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})

	return ap, nil
}
