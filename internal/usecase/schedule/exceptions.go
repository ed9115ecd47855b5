package schedule

import (
	"context"

	"github.com/NovaClinicas/clinic-scheduler/internal/audit"
	domain "github.com/NovaClinicas/clinic-scheduler/internal/domain/schedule"
	"github.com/NovaClinicas/clinic-scheduler/internal/httperr"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

// ======================================================
// ADD EXCEPTION
// ======================================================

type AddExceptionInput struct {
	DoctorID    uint
	Date        string // "2006-01-02"
	Slots       []models.DaySlot
	IsAvailable bool
	Reason      string
}

type AddException struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewAddException(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *AddException {
	return &AddException{
		repo:  repo,
		audit: audit,
	}
}

func (uc *AddException) Execute(
	ctx context.Context,
	in AddExceptionInput,
) (*models.DoctorSchedule, error) {

	if err := domain.ValidateExceptionDate(in.Date); err != nil {
		return nil, err
	}
	if in.IsAvailable {
		if err := domain.ValidateDaySlots(in.Date, in.Slots); err != nil {
			return nil, err
		}
	}

	sched, err := uc.repo.Get(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}

	// at most one exception per calendar date
	if sched.ExceptionFor(in.Date) != nil {
		return nil, httperr.ErrConflict("exception_already_exists")
	}

	sched.Exceptions = append(sched.Exceptions, models.ScheduleException{
		Date:        in.Date,
		Slots:       in.Slots,
		IsAvailable: in.IsAvailable,
		Reason:      in.Reason,
	})

	if err := uc.repo.UpdateVersioned(ctx, sched); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   &in.DoctorID,
		ActorRole: models.RoleDoctor,
		Action:    "schedule_exception_added",
		Entity:    "doctor_schedule",
		EntityID:  &sched.ID,
		Metadata:  map[string]string{"date": in.Date},
	})

	return sched, nil
}

// ======================================================
// REMOVE EXCEPTION
// ======================================================

type RemoveException struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewRemoveException(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *RemoveException {
	return &RemoveException{
		repo:  repo,
		audit: audit,
	}
}

func (uc *RemoveException) Execute(
	ctx context.Context,
	doctorID uint,
	date string,
) (*models.DoctorSchedule, error) {

	sched, err := uc.repo.Get(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	found := false
	kept := sched.Exceptions[:0]
	for _, exc := range sched.Exceptions {
		if exc.Date == date {
			found = true
			continue
		}
		kept = append(kept, exc)
	}
	if !found {
		return nil, httperr.ErrNotFound("exception_not_found")
	}
	sched.Exceptions = kept

	if err := uc.repo.UpdateVersioned(ctx, sched); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   &doctorID,
		ActorRole: models.RoleDoctor,
		Action:    "schedule_exception_removed",
		Entity:    "doctor_schedule",
		EntityID:  &sched.ID,
		Metadata:  map[string]string{"date": date},
	})

	return sched, nil
}
