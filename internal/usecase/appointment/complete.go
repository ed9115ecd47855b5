package appointment

import (
	"context"
	"time"

	"github.com/NovaClinicas/clinic-scheduler/internal/audit"
	domain "github.com/NovaClinicas/clinic-scheduler/internal/domain/appointment"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

// ======================================================
// COMPLETE
// ======================================================

type CompleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher

	now func() time.Time
}

func NewCompleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:  repo,
		audit: audit,
		now:   time.Now,
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	doctorID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentForDoctor(ctx, appointmentID, doctorID)
	if err != nil {
		return nil, err
	}

	if err := domain.Complete(ap, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   &doctorID,
		ActorRole: models.RoleDoctor,
		Action:    "appointment_completed",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})

	return ap, nil
}

// ======================================================
// NO-SHOW
// ======================================================

type MarkNoShow struct {
	repo  domain.Repository
	audit *audit.Dispatcher

	now func() time.Time
}

func NewMarkNoShow(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *MarkNoShow {
	return &MarkNoShow{
		repo:  repo,
		audit: audit,
		now:   time.Now,
	}
}

func (uc *MarkNoShow) Execute(
	ctx context.Context,
	doctorID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentForDoctor(ctx, appointmentID, doctorID)
	if err != nil {
		return nil, err
	}

	if err := domain.MarkNoShow(ap, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   &doctorID,
		ActorRole: models.RoleDoctor,
		Action:    "appointment_no_show",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})

	return ap, nil
}
