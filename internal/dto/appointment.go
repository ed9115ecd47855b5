package dto

import (
	"time"

	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

// AppointmentResponse is the projection exposed to API callers. All
// timestamps are RFC 3339.
type AppointmentResponse struct {
	ID uint `json:"id"`

	DoctorID  uint `json:"doctor_id"`
	PatientID uint `json:"patient_id"`
	ServiceID uint `json:"service_id"`

	StartAt string `json:"start_at"`
	EndAt   string `json:"end_at"`

	Status string `json:"status"`
	Type   string `json:"type"`

	DurationMin int     `json:"duration_min"`
	Price       float64 `json:"price"`

	RequiresPayment bool   `json:"requires_payment"`
	PaymentStatus   string `json:"payment_status"`

	HoldExpiresAt *string `json:"hold_expires_at,omitempty"`

	Notes string `json:"notes,omitempty"`

	CancellationReason string  `json:"cancellation_reason,omitempty"`
	CancelledBy        string  `json:"cancelled_by,omitempty"`
	CancelledAt        *string `json:"cancelled_at,omitempty"`

	CreatedAt string `json:"created_at"`
}

func FromAppointment(ap *models.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID: ap.ID,

		DoctorID:  ap.DoctorID,
		PatientID: ap.PatientID,
		ServiceID: ap.ServiceID,

		StartAt: ap.StartAt.Format(time.RFC3339),
		EndAt:   ap.EndAt.Format(time.RFC3339),

		Status: ap.Status,
		Type:   ap.Type,

		DurationMin: ap.DurationMin,
		Price:       ap.Price,

		RequiresPayment: ap.RequiresPayment,
		PaymentStatus:   ap.PaymentStatus,

		HoldExpiresAt: formatOpt(ap.HoldExpiresAt),

		Notes: ap.Notes,

		CancellationReason: ap.CancellationReason,
		CancelledBy:        ap.CancelledBy,
		CancelledAt:        formatOpt(ap.CancelledAt),

		CreatedAt: ap.CreatedAt.Format(time.RFC3339),
	}
}

func FromAppointments(aps []models.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(aps))
	for i := range aps {
		out = append(out, FromAppointment(&aps[i]))
	}
	return out
}

func formatOpt(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
