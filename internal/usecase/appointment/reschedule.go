package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/NovaClinicas/clinic-scheduler/internal/audit"
	"github.com/NovaClinicas/clinic-scheduler/internal/coordination"
	domain "github.com/NovaClinicas/clinic-scheduler/internal/domain/appointment"
	"github.com/NovaClinicas/clinic-scheduler/internal/httperr"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

type RescheduleAppointment struct {
	repo  domain.Repository
	coord coordination.Store
	audit *audit.Dispatcher
	opts  Options

	now func() time.Time
}

func NewRescheduleAppointment(
	repo domain.Repository,
	coord coordination.Store,
	audit *audit.Dispatcher,
	opts Options,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:  repo,
		coord: coord,
		audit: audit,
		opts:  opts,
		now:   time.Now,
	}
}

// Execute moves an appointment to a new start time. The new slot runs
// through the same validation, lock and conflict-recheck sequence as a
// fresh booking; the appointment comes out pending with a refreshed hold.
func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	patientID uint,
	appointmentID uint,
	newStartAt time.Time,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentForPatient(ctx, appointmentID, patientID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanReschedule(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	now := uc.now()
	if !domain.WithinDeadline(ap.StartAt, now, uc.opts.CancellationDeadline) {
		return nil, httperr.ErrForbidden("reschedule_deadline_passed")
	}

	resolved, err := resolveSlot(
		ctx, uc.repo,
		ap.DoctorID, ap.ServiceID, newStartAt,
		uc.opts.Timezone,
	)
	if err != nil {
		return nil, err
	}

	lockKey := coordination.SlotLockKey(ap.DoctorID, newStartAt)
	token := uuid.NewString()

	acquired, err := uc.coord.TryAcquire(ctx, lockKey, token, uc.opts.LockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, httperr.ErrConflict("slot_locked")
	}
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = uc.coord.Release(releaseCtx, lockKey, token)
	}()

	if err := uc.repo.ExpireLapsedHolds(ctx, ap.DoctorID, newStartAt, resolved.endAt, now); err != nil {
		return nil, err
	}

	conflict, err := uc.repo.HasActiveConflict(ctx, ap.DoctorID, newStartAt, resolved.endAt, ap.ID, now)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, httperr.ErrConflict("time_conflict")
	}

	holdExpiry := now.Add(uc.opts.HoldWindow)

	ap.StartAt = newStartAt
	ap.EndAt = resolved.endAt
	ap.DurationMin = resolved.durationMin
	ap.Status = string(domain.StatusPendingConfirm)
	ap.HoldExpiresAt = &holdExpiry
	ap.ConfirmedAt = nil

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   &patientID,
		ActorRole: models.RolePatient,
		Action:    "appointment_rescheduled",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})

	return ap, nil
}
