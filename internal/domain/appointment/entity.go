package appointment

import (
	"time"

	"github.com/NovaClinicas/clinic-scheduler/internal/httperr"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Confirm flips a pending appointment to confirmed. Payment-gated: a
// payment-requiring appointment cannot confirm until the payment
// collaborator marked it completed.
func Confirm(ap *models.Appointment, now time.Time) error {
	if err := CanConfirm(Status(ap.Status)); err != nil {
		return err
	}
	if HoldLapsed(ap, now) {
		return httperr.ErrValidation("hold_expired")
	}
	if ap.RequiresPayment && ap.PaymentStatus != PaymentCompleted {
		return httperr.ErrValidation("payment_pending")
	}

	ap.Status = string(StatusConfirmed)
	ap.ConfirmedAt = &now
	ap.HoldExpiresAt = nil
	return nil
}

func Reject(ap *models.Appointment, reason string, now time.Time) error {
	if err := CanReject(Status(ap.Status)); err != nil {
		return err
	}
	if reason == "" {
		return httperr.ErrValidation("reason_required")
	}

	ap.Status = string(StatusRejected)
	ap.CancellationReason = reason
	ap.CancelledBy = models.RoleDoctor
	ap.CancelledAt = &now
	ap.HoldExpiresAt = nil
	return nil
}

func Cancel(ap *models.Appointment, actorRole, reason string, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancellationReason = reason
	ap.CancelledBy = actorRole
	ap.CancelledAt = &now
	ap.HoldExpiresAt = nil
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

func MarkNoShow(ap *models.Appointment, now time.Time) error {
	if err := CanMarkNoShow(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusNoShow)
	ap.CompletedAt = &now
	return nil
}

// MarkPaid records the external payment collaborator's callback.
func MarkPaid(ap *models.Appointment, paymentRef string) error {
	if !ap.RequiresPayment {
		return httperr.ErrValidation("payment_not_required")
	}
	if ap.PaymentStatus == PaymentCompleted {
		return httperr.ErrValidation("payment_already_completed")
	}

	ap.PaymentStatus = PaymentCompleted
	ap.PaymentRef = paymentRef
	return nil
}

func Expire(ap *models.Appointment, now time.Time) error {
	if Status(ap.Status) != StatusPendingConfirm {
		return httperr.ErrValidation("invalid_state")
	}

	ap.Status = string(StatusExpired)
	ap.CancelledAt = &now
	ap.HoldExpiresAt = nil
	return nil
}

// ===============================
// Predicates
// ===============================

// HoldLapsed is the single source of truth for "effectively expired":
// still pending, hold set, hold elapsed. The storage-level conflict query
// mirrors this predicate.
func HoldLapsed(ap *models.Appointment, now time.Time) bool {
	return Status(ap.Status) == StatusPendingConfirm &&
		ap.HoldExpiresAt != nil &&
		!now.Before(*ap.HoldExpiresAt)
}

// WithinDeadline reports whether the time remaining until startAt strictly
// exceeds the policy deadline. Exact-duration comparison: 24h-1s fails a
// 24h deadline, 24h+1s passes, exactly 24h fails.
func WithinDeadline(startAt, now time.Time, deadline time.Duration) bool {
	return startAt.Sub(now) > deadline
}
