package appointment

import (
	"context"
	"time"

	"github.com/NovaClinicas/clinic-scheduler/internal/audit"
	domain "github.com/NovaClinicas/clinic-scheduler/internal/domain/appointment"
	"github.com/NovaClinicas/clinic-scheduler/internal/httperr"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

type ConfirmAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	opts  Options

	now func() time.Time
}

func NewConfirmAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	opts Options,
) *ConfirmAppointment {
	return &ConfirmAppointment{
		repo:  repo,
		audit: audit,
		opts:  opts,
		now:   time.Now,
	}
}

// Execute confirms a pending appointment as its doctor. The slot is
// validated one final time against the current schedule and against other
// bookings, so a schedule edit made after the hold was created cannot
// confirm into a now-closed interval.
func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	doctorID uint,
	appointmentID uint,
	notes string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentForDoctor(ctx, appointmentID, doctorID)
	if err != nil {
		return nil, err
	}

	now := uc.now()

	if _, err := resolveSlot(
		ctx, uc.repo,
		ap.DoctorID, ap.ServiceID, ap.StartAt,
		uc.opts.Timezone,
	); err != nil {
		return nil, err
	}

	conflict, err := uc.repo.HasActiveConflict(ctx, ap.DoctorID, ap.StartAt, ap.EndAt, ap.ID, now)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, httperr.ErrConflict("time_conflict")
	}

	if err := domain.Confirm(ap, now); err != nil {
		return nil, err
	}
	if notes != "" {
		ap.Notes = notes
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   &doctorID,
		ActorRole: models.RoleDoctor,
		Action:    "appointment_confirmed",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})

	return ap, nil
}
