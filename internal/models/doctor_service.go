package models

import "time"

// DoctorService links a doctor to a service they offer, optionally
// overriding the service defaults for duration and price.
type DoctorService struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DoctorID uint `gorm:"uniqueIndex:ux_doctor_service" json:"doctor_id"`
	Doctor   User `gorm:"foreignKey:DoctorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	ServiceID uint    `gorm:"uniqueIndex:ux_doctor_service" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	CustomDurationMin *int     `json:"custom_duration_min,omitempty"`
	CustomPrice       *float64 `json:"custom_price,omitempty"`

	Active bool `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ResolvedDuration returns the override duration when present, otherwise
// the service default.
func (ds *DoctorService) ResolvedDuration(svc *Service) int {
	if ds != nil && ds.CustomDurationMin != nil && *ds.CustomDurationMin > 0 {
		return *ds.CustomDurationMin
	}
	return svc.DefaultDurationMin
}

func (ds *DoctorService) ResolvedPrice(svc *Service) float64 {
	if ds != nil && ds.CustomPrice != nil {
		return *ds.CustomPrice
	}
	return svc.DefaultPrice
}
