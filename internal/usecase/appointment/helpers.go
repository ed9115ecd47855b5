package appointment

import (
	"context"
	"time"

	domain "github.com/NovaClinicas/clinic-scheduler/internal/domain/appointment"
	scheddomain "github.com/NovaClinicas/clinic-scheduler/internal/domain/schedule"
	"github.com/NovaClinicas/clinic-scheduler/internal/httperr"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
	"github.com/NovaClinicas/clinic-scheduler/internal/timezone"
)

// resolvedBooking bundles the directory lookups and the computed interval
// for one validated slot request.
type resolvedBooking struct {
	doctor      *models.User
	service     *models.Service
	schedule    *models.DoctorSchedule
	durationMin int
	price       float64
	endAt       time.Time
}

// resolveSlot validates the directory linkage (doctor approved, service
// active, doctor offers it), resolves duration/price from the
// doctor-service override, and confirms startAt matches a candidate slot
// computed for its week.
func resolveSlot(
	ctx context.Context,
	repo domain.Repository,
	doctorID uint,
	serviceID uint,
	startAt time.Time,
	tz string,
) (*resolvedBooking, error) {

	doctor, err := repo.GetDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !doctor.IsApprovedDoctor() {
		return nil, httperr.ErrValidation("doctor_not_available")
	}

	svc, err := repo.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if !svc.Active {
		return nil, httperr.ErrValidation("service_not_offered")
	}

	link, err := repo.GetDoctorService(ctx, doctorID, serviceID)
	if err != nil {
		return nil, err
	}
	if !link.Active {
		return nil, httperr.ErrValidation("service_not_offered")
	}

	duration := link.ResolvedDuration(svc)
	if duration <= 0 {
		return nil, httperr.ErrValidation("invalid_service_duration")
	}

	sched, err := repo.GetSchedule(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	local := startAt.In(timezone.Location(tz))
	slots := scheddomain.ComputeWeek(scheddomain.WeekInput{
		Schedule:    sched,
		ServiceID:   serviceID,
		DurationMin: duration,
		WeekStart:   timezone.StartOfWeek(local),
	})

	matched := false
	for _, s := range slots {
		if s.StartAt.Equal(startAt) {
			matched = true
			break
		}
	}
	if !matched {
		return nil, httperr.ErrValidation("slot_not_available")
	}

	return &resolvedBooking{
		doctor:      doctor,
		service:     svc,
		schedule:    sched,
		durationMin: duration,
		price:       link.ResolvedPrice(svc),
		endAt:       startAt.Add(time.Duration(duration) * time.Minute),
	}, nil
}
