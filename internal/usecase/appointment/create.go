package appointment

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/NovaClinicas/clinic-scheduler/internal/audit"
	"github.com/NovaClinicas/clinic-scheduler/internal/coordination"
	domain "github.com/NovaClinicas/clinic-scheduler/internal/domain/appointment"
	"github.com/NovaClinicas/clinic-scheduler/internal/httperr"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	DoctorID  uint
	ServiceID uint
	PatientID uint

	StartAt time.Time
	Type    domain.Type

	// IdempotencyKey is optional; identical keys within the retention
	// window replay the original result.
	IdempotencyKey string

	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	coord coordination.Store
	audit *audit.Dispatcher
	opts  Options

	now func() time.Time
}

func NewCreateAppointment(
	repo domain.Repository,
	coord coordination.Store,
	audit *audit.Dispatcher,
	opts Options,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		coord: coord,
		audit: audit,
		opts:  opts,
		now:   time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	if !domain.IsValidType(in.Type) {
		return nil, httperr.ErrValidation("invalid_appointment_type")
	}

	// --------------------------------------------------
	// 1. Idempotent replay: same key, same result, no re-validation
	// --------------------------------------------------
	if in.IdempotencyKey != "" {
		if ap, err := uc.replay(ctx, in.IdempotencyKey); err != nil {
			return nil, err
		} else if ap != nil {
			return ap, nil
		}
	}

	// --------------------------------------------------
	// 2-4. Directory linkage, slot validation, duration/price
	// --------------------------------------------------
	resolved, err := resolveSlot(
		ctx, uc.repo,
		in.DoctorID, in.ServiceID, in.StartAt,
		uc.opts.Timezone,
	)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5. Slot lock: single non-blocking attempt, fail fast on contention
	// --------------------------------------------------
	lockKey := coordination.SlotLockKey(in.DoctorID, in.StartAt)
	token := uuid.NewString()

	acquired, err := uc.coord.TryAcquire(ctx, lockKey, token, uc.opts.LockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, httperr.ErrConflict("slot_locked")
	}
	// release on every exit path; fresh context so a cancelled request
	// still frees the lock
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = uc.coord.Release(releaseCtx, lockKey, token)
	}()

	now := uc.now()

	// --------------------------------------------------
	// 6. Authoritative conflict recheck under the lock
	// --------------------------------------------------
	// flip lapsed holds first so the unique index cannot trip on a dead
	// reservation the reaper has not visited yet
	if err := uc.repo.ExpireLapsedHolds(ctx, in.DoctorID, in.StartAt, resolved.endAt, now); err != nil {
		return nil, err
	}

	conflict, err := uc.repo.HasActiveConflict(ctx, in.DoctorID, in.StartAt, resolved.endAt, 0, now)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, httperr.ErrConflict("time_conflict")
	}

	// --------------------------------------------------
	// 7. Persist with a hold
	// --------------------------------------------------
	holdExpiry := now.Add(uc.opts.HoldWindow)

	requiresPayment := domain.TypeRequiresPayment(in.Type)
	paymentStatus := domain.PaymentNotRequired
	if requiresPayment {
		paymentStatus = domain.PaymentPending
	}

	ap := &models.Appointment{
		DoctorID:  in.DoctorID,
		PatientID: in.PatientID,
		ServiceID: in.ServiceID,

		StartAt: in.StartAt,
		EndAt:   resolved.endAt,

		Status: string(domain.InitialStatus()),
		Type:   string(in.Type),

		DurationMin: resolved.durationMin,
		Price:       resolved.price,

		RequiresPayment: requiresPayment,
		PaymentStatus:   paymentStatus,

		HoldExpiresAt: &holdExpiry,
		Notes:         in.Notes,
	}
	if in.IdempotencyKey != "" {
		key := in.IdempotencyKey
		ap.IdempotencyKey = &key
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 8. Idempotency record, best-effort: a failed write must not roll
	//    back the booking
	// --------------------------------------------------
	if in.IdempotencyKey != "" {
		_ = uc.coord.PutResult(
			ctx,
			coordination.IdempotencyResultKey(in.IdempotencyKey),
			strconv.FormatUint(uint64(ap.ID), 10),
			uc.opts.IdempotencyTTL,
		)
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   &in.PatientID,
		ActorRole: models.RolePatient,
		Action:    "appointment_created",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})

	return ap, nil
}

// replay returns the previously created appointment for the key, nil when
// there is no usable prior result (no record, or the appointment has been
// reaped since).
func (uc *CreateAppointment) replay(
	ctx context.Context,
	key string,
) (*models.Appointment, error) {

	cached, err := uc.coord.GetResult(ctx, coordination.IdempotencyResultKey(key))
	if err != nil {
		return nil, err
	}
	if cached == "" {
		return nil, nil
	}

	id, err := strconv.ParseUint(cached, 10, 64)
	if err != nil {
		return nil, nil
	}

	ap, err := uc.repo.GetAppointment(ctx, uint(id))
	if err != nil {
		if httperr.IsKind(err, httperr.KindNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ap, nil
}
