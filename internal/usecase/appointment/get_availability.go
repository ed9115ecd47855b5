package appointment

import (
	"context"
	"time"

	domain "github.com/NovaClinicas/clinic-scheduler/internal/domain/appointment"
	scheddomain "github.com/NovaClinicas/clinic-scheduler/internal/domain/schedule"
	"github.com/NovaClinicas/clinic-scheduler/internal/httperr"
	"github.com/NovaClinicas/clinic-scheduler/internal/timezone"
)

type AvailabilityInput struct {
	DoctorID  uint
	ServiceID uint

	// Date selects the week: slots are computed for the 7-day window
	// starting at the Sunday of this date's week.
	Date time.Time
}

type GetAvailability struct {
	repo domain.Repository
	opts Options
}

func NewGetAvailability(repo domain.Repository, opts Options) *GetAvailability {
	return &GetAvailability{repo: repo, opts: opts}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) ([]scheddomain.Slot, error) {

	doctor, err := uc.repo.GetDoctor(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}
	if !doctor.IsApprovedDoctor() {
		return nil, httperr.ErrValidation("doctor_not_available")
	}

	svc, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}

	link, err := uc.repo.GetDoctorService(ctx, in.DoctorID, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if !link.Active || !svc.Active {
		return nil, httperr.ErrValidation("service_not_offered")
	}

	sched, err := uc.repo.GetSchedule(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}

	local := in.Date.In(timezone.Location(uc.opts.Timezone))
	slots := scheddomain.ComputeWeek(scheddomain.WeekInput{
		Schedule:    sched,
		ServiceID:   in.ServiceID,
		DurationMin: link.ResolvedDuration(svc),
		WeekStart:   timezone.StartOfWeek(local),
	})

	if slots == nil {
		slots = []scheddomain.Slot{}
	}
	return slots, nil
}
