package appointment

import (
	"context"
	"time"

	"github.com/NovaClinicas/clinic-scheduler/internal/audit"
	domain "github.com/NovaClinicas/clinic-scheduler/internal/domain/appointment"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

type RejectAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher

	now func() time.Time
}

func NewRejectAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *RejectAppointment {
	return &RejectAppointment{
		repo:  repo,
		audit: audit,
		now:   time.Now,
	}
}

func (uc *RejectAppointment) Execute(
	ctx context.Context,
	doctorID uint,
	appointmentID uint,
	reason string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentForDoctor(ctx, appointmentID, doctorID)
	if err != nil {
		return nil, err
	}

	if err := domain.Reject(ap, reason, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   &doctorID,
		ActorRole: models.RoleDoctor,
		Action:    "appointment_rejected",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})

	return ap, nil
}
