package schedule

import (
	"context"
	"errors"

	"github.com/NovaClinicas/clinic-scheduler/internal/audit"
	domain "github.com/NovaClinicas/clinic-scheduler/internal/domain/schedule"
	"github.com/NovaClinicas/clinic-scheduler/internal/httperr"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type UpsertScheduleInput struct {
	DoctorID uint

	WeeklyTemplate []models.WeekdayTemplate

	DefaultBufferBeforeMin int
	DefaultBufferAfterMin  int

	ServiceBuffers []models.ServiceBuffer
}

// ======================================================
// USE CASE
// ======================================================

type UpsertSchedule struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpsertSchedule(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpsertSchedule {
	return &UpsertSchedule{
		repo:  repo,
		audit: audit,
	}
}

func (uc *UpsertSchedule) Execute(
	ctx context.Context,
	in UpsertScheduleInput,
) (*models.DoctorSchedule, error) {

	if err := domain.ValidateWeeklyTemplate(in.WeeklyTemplate); err != nil {
		return nil, err
	}
	if err := domain.ValidateBuffers(in.DefaultBufferBeforeMin, in.DefaultBufferAfterMin); err != nil {
		return nil, err
	}
	for _, sb := range in.ServiceBuffers {
		if err := domain.ValidateBuffers(sb.BufferBeforeMin, sb.BufferAfterMin); err != nil {
			return nil, err
		}
	}

	sched, err := uc.repo.Get(ctx, in.DoctorID)

	switch {
	case err == nil:
		// Wholesale replace of the configurable fields; exceptions and
		// holidays survive an upsert.
		sched.WeeklyTemplate = in.WeeklyTemplate
		sched.DefaultBufferBeforeMin = in.DefaultBufferBeforeMin
		sched.DefaultBufferAfterMin = in.DefaultBufferAfterMin
		sched.ServiceBuffers = in.ServiceBuffers

		if err := uc.repo.UpdateVersioned(ctx, sched); err != nil {
			return nil, err
		}

	case isNotFound(err):
		sched = &models.DoctorSchedule{
			DoctorID:               in.DoctorID,
			WeeklyTemplate:         in.WeeklyTemplate,
			DefaultBufferBeforeMin: in.DefaultBufferBeforeMin,
			DefaultBufferAfterMin:  in.DefaultBufferAfterMin,
			ServiceBuffers:         in.ServiceBuffers,
		}
		if err := uc.repo.Create(ctx, sched); err != nil {
			return nil, err
		}

	default:
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   &in.DoctorID,
		ActorRole: models.RoleDoctor,
		Action:    "schedule_upserted",
		Entity:    "doctor_schedule",
		EntityID:  &sched.ID,
	})

	return sched, nil
}

func isNotFound(err error) bool {
	var be httperr.BusinessError
	return errors.As(err, &be) && be.Kind == httperr.KindNotFound
}
