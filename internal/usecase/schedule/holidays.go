package schedule

import (
	"context"

	"github.com/google/uuid"

	"github.com/NovaClinicas/clinic-scheduler/internal/audit"
	domain "github.com/NovaClinicas/clinic-scheduler/internal/domain/schedule"
	"github.com/NovaClinicas/clinic-scheduler/internal/httperr"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

// ======================================================
// ADD HOLIDAY
// ======================================================

type AddHolidayInput struct {
	DoctorID  uint
	StartDate string // "2006-01-02", inclusive
	EndDate   string // inclusive
	Reason    string
}

type AddHoliday struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewAddHoliday(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *AddHoliday {
	return &AddHoliday{
		repo:  repo,
		audit: audit,
	}
}

func (uc *AddHoliday) Execute(
	ctx context.Context,
	in AddHolidayInput,
) (*models.DoctorSchedule, error) {

	if err := domain.ValidateHolidayRange(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}

	sched, err := uc.repo.Get(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}

	holiday := models.Holiday{
		ID:        uuid.NewString(),
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Reason:    in.Reason,
	}
	sched.Holidays = append(sched.Holidays, holiday)

	if err := uc.repo.UpdateVersioned(ctx, sched); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   &in.DoctorID,
		ActorRole: models.RoleDoctor,
		Action:    "schedule_holiday_added",
		Entity:    "doctor_schedule",
		EntityID:  &sched.ID,
		Metadata:  map[string]string{"holiday_id": holiday.ID},
	})

	return sched, nil
}

// ======================================================
// REMOVE HOLIDAY
// ======================================================

type RemoveHoliday struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewRemoveHoliday(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *RemoveHoliday {
	return &RemoveHoliday{
		repo:  repo,
		audit: audit,
	}
}

func (uc *RemoveHoliday) Execute(
	ctx context.Context,
	doctorID uint,
	holidayID string,
) (*models.DoctorSchedule, error) {

	sched, err := uc.repo.Get(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	found := false
	kept := sched.Holidays[:0]
	for _, h := range sched.Holidays {
		if h.ID == holidayID {
			found = true
			continue
		}
		kept = append(kept, h)
	}
	if !found {
		return nil, httperr.ErrNotFound("holiday_not_found")
	}
	sched.Holidays = kept

	if err := uc.repo.UpdateVersioned(ctx, sched); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   &doctorID,
		ActorRole: models.RoleDoctor,
		Action:    "schedule_holiday_removed",
		Entity:    "doctor_schedule",
		EntityID:  &sched.ID,
		Metadata:  map[string]string{"holiday_id": holidayID},
	})

	return sched, nil
}
