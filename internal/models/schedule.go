package models

import "time"

// DaySlot is one open interval inside a working day, "HH:MM" clock times.
type DaySlot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// WeekdayTemplate configures one weekday (0 = Sunday .. 6 = Saturday) of the
// recurring weekly schedule.
type WeekdayTemplate struct {
	DayOfWeek   int       `json:"day_of_week"`
	Slots       []DaySlot `json:"slots"`
	IsAvailable bool      `json:"is_available"`
}

// ServiceBuffer overrides the schedule default buffers for one service.
type ServiceBuffer struct {
	ServiceID       uint `json:"service_id"`
	BufferBeforeMin int  `json:"buffer_before_min"`
	BufferAfterMin  int  `json:"buffer_after_min"`
}

// ScheduleException replaces the weekly template for a single calendar date
// ("2006-01-02"). At most one exception per date.
type ScheduleException struct {
	Date        string    `json:"date"`
	Slots       []DaySlot `json:"slots"`
	IsAvailable bool      `json:"is_available"`
	Reason      string    `json:"reason,omitempty"`
}

// Holiday is a closed date range, boundaries inclusive ("2006-01-02").
type Holiday struct {
	ID        string `json:"id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason,omitempty"`
}

// DoctorSchedule is the aggregate root for one doctor's availability
// configuration. Mutations are whole-aggregate read-modify-write guarded by
// the Version column.
type DoctorSchedule struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DoctorID uint `gorm:"uniqueIndex" json:"doctor_id"`
	Doctor   User `gorm:"foreignKey:DoctorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	WeeklyTemplate []WeekdayTemplate `gorm:"serializer:json;type:jsonb" json:"weekly_template"`

	DefaultBufferBeforeMin int `json:"default_buffer_before_min"`
	DefaultBufferAfterMin  int `json:"default_buffer_after_min"`

	ServiceBuffers []ServiceBuffer     `gorm:"serializer:json;type:jsonb" json:"service_buffers"`
	Exceptions     []ScheduleException `gorm:"serializer:json;type:jsonb" json:"exceptions"`
	Holidays       []Holiday           `gorm:"serializer:json;type:jsonb" json:"holidays"`

	Version int64 `gorm:"default:1" json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExceptionFor returns the exception covering the given date key, or nil.
func (s *DoctorSchedule) ExceptionFor(dateKey string) *ScheduleException {
	for i := range s.Exceptions {
		if s.Exceptions[i].Date == dateKey {
			return &s.Exceptions[i]
		}
	}
	return nil
}

// TemplateFor returns the weekly template entry for a weekday, or nil.
func (s *DoctorSchedule) TemplateFor(weekday int) *WeekdayTemplate {
	for i := range s.WeeklyTemplate {
		if s.WeeklyTemplate[i].DayOfWeek == weekday {
			return &s.WeeklyTemplate[i]
		}
	}
	return nil
}

// BuffersFor resolves the buffer pair for a service: per-service override
// when present, otherwise the schedule defaults.
func (s *DoctorSchedule) BuffersFor(serviceID uint) (before int, after int) {
	for i := range s.ServiceBuffers {
		if s.ServiceBuffers[i].ServiceID == serviceID {
			return s.ServiceBuffers[i].BufferBeforeMin, s.ServiceBuffers[i].BufferAfterMin
		}
	}
	return s.DefaultBufferBeforeMin, s.DefaultBufferAfterMin
}
