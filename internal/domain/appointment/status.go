package appointment

import "github.com/NovaClinicas/clinic-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPendingConfirm Status = "pending_confirm"
	StatusConfirmed      Status = "confirmed"
	StatusRejected       Status = "rejected"
	StatusCancelled      Status = "cancelled"
	StatusCompleted      Status = "completed"
	StatusNoShow         Status = "no_show"
	StatusExpired        Status = "expired"
)

// ===============================
// Appointment Type
// ===============================

type Type string

const (
	TypeInPerson Type = "in_person"
	TypeVideo    Type = "video"
	TypeChat     Type = "chat"
)

func IsValidType(t Type) bool {
	switch t {
	case TypeInPerson, TypeVideo, TypeChat:
		return true
	}
	return false
}

// TypeRequiresPayment: remote consultations are prepaid, in-person ones
// are settled at the clinic.
func TypeRequiresPayment(t Type) bool {
	return t == TypeVideo || t == TypeChat
}

// ===============================
// Payment Status
// ===============================

const (
	PaymentNotRequired = "not_required"
	PaymentPending     = "pending"
	PaymentCompleted   = "completed"
)

// ===============================
// Transition guards
// ===============================

func CanConfirm(current Status) error {
	if current != StatusPendingConfirm {
		return httperr.ErrValidation("invalid_state")
	}
	return nil
}

func CanReject(current Status) error {
	if current != StatusPendingConfirm && current != StatusConfirmed {
		return httperr.ErrValidation("invalid_state")
	}
	return nil
}

func CanCancel(current Status) error {
	if current != StatusPendingConfirm && current != StatusConfirmed {
		return httperr.ErrValidation("invalid_state")
	}
	return nil
}

func CanReschedule(current Status) error {
	if current != StatusPendingConfirm && current != StatusConfirmed {
		return httperr.ErrValidation("invalid_state")
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrValidation("invalid_state")
	}
	return nil
}

func CanMarkNoShow(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrValidation("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusPendingConfirm
}
