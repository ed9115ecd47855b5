package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DoctorID uint `gorm:"index" json:"doctor_id"`
	Doctor   User `gorm:"foreignKey:DoctorID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	PatientID uint `gorm:"index" json:"patient_id"`
	Patient   User `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`

	Status string `gorm:"size:20;default:'pending_confirm'" json:"status"`
	Type   string `gorm:"size:20" json:"type"`

	DurationMin int     `json:"duration_min"`
	Price       float64 `json:"price"`

	RequiresPayment bool   `json:"requires_payment"`
	PaymentStatus   string `gorm:"size:20" json:"payment_status"`
	PaymentRef      string `gorm:"size:100" json:"payment_ref,omitempty"`

	// HoldExpiresAt is set while the appointment is unconfirmed; once it
	// lapses the slot no longer blocks other bookings.
	HoldExpiresAt *time.Time `gorm:"index" json:"hold_expires_at,omitempty"`

	// IdempotencyKey is unique across appointments when present
	// (sparse unique index created in internal/db).
	IdempotencyKey *string `gorm:"size:128" json:"idempotency_key,omitempty"`

	Notes string `gorm:"size:255" json:"notes,omitempty"`

	CancellationReason string     `gorm:"size:255" json:"cancellation_reason,omitempty"`
	CancelledBy        string     `gorm:"size:20" json:"cancelled_by,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	ConfirmedAt        *time.Time `json:"confirmed_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
