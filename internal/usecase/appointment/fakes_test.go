package appointment

import (
	"context"
	"sync"
	"time"

	domain "github.com/NovaClinicas/clinic-scheduler/internal/domain/appointment"
	"github.com/NovaClinicas/clinic-scheduler/internal/httperr"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

// fakeRepo is an in-memory domain.Repository. Conflict and expiry
// semantics mirror the gorm implementation, including the unique-slot
// constraint enforced by the partial index.
type fakeRepo struct {
	mu sync.Mutex

	doctors   map[uint]*models.User
	services  map[uint]*models.Service
	links     map[[2]uint]*models.DoctorService
	schedules map[uint]*models.DoctorSchedule

	appointments map[uint]*models.Appointment
	nextID       uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		doctors:      make(map[uint]*models.User),
		services:     make(map[uint]*models.Service),
		links:        make(map[[2]uint]*models.DoctorService),
		schedules:    make(map[uint]*models.DoctorSchedule),
		appointments: make(map[uint]*models.Appointment),
	}
}

var _ domain.Repository = (*fakeRepo)(nil)

func (r *fakeRepo) GetDoctor(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.doctors[id]; ok {
		return d, nil
	}
	return nil, httperr.ErrNotFound("doctor_not_found")
}

func (r *fakeRepo) GetService(_ context.Context, id uint) (*models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.services[id]; ok {
		return s, nil
	}
	return nil, httperr.ErrNotFound("service_not_found")
}

func (r *fakeRepo) GetDoctorService(_ context.Context, doctorID, serviceID uint) (*models.DoctorService, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.links[[2]uint{doctorID, serviceID}]; ok {
		return l, nil
	}
	return nil, httperr.ErrNotFound("service_not_offered")
}

func (r *fakeRepo) GetSchedule(_ context.Context, doctorID uint) (*models.DoctorSchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.schedules[doctorID]; ok {
		return s, nil
	}
	return nil, httperr.ErrNotFound("schedule_not_found")
}

func blocking(ap *models.Appointment, now time.Time) bool {
	switch domain.Status(ap.Status) {
	case domain.StatusConfirmed:
		return true
	case domain.StatusPendingConfirm:
		return ap.HoldExpiresAt != nil && now.Before(*ap.HoldExpiresAt)
	}
	return false
}

func (r *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// partial unique index: (doctor_id, start_at) over blocking states
	for _, other := range r.appointments {
		if other.DoctorID == ap.DoctorID &&
			other.StartAt.Equal(ap.StartAt) &&
			(other.Status == string(domain.StatusPendingConfirm) ||
				other.Status == string(domain.StatusConfirmed)) {
			return httperr.ErrConflict("time_conflict")
		}
	}

	r.nextID++
	ap.ID = r.nextID
	cp := *ap
	r.appointments[ap.ID] = &cp
	return nil
}

func (r *fakeRepo) HasActiveConflict(
	_ context.Context,
	doctorID uint,
	start, end time.Time,
	excludeID uint,
	now time.Time,
) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ap := range r.appointments {
		if ap.DoctorID != doctorID || ap.ID == excludeID {
			continue
		}
		if !ap.StartAt.Before(end) || !start.Before(ap.EndAt) {
			continue
		}
		if blocking(ap, now) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) ExpireLapsedHolds(
	_ context.Context,
	doctorID uint,
	start, end time.Time,
	now time.Time,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ap := range r.appointments {
		if ap.DoctorID != doctorID {
			continue
		}
		if !ap.StartAt.Before(end) || !start.Before(ap.EndAt) {
			continue
		}
		if domain.HoldLapsed(ap, now) {
			ap.Status = string(domain.StatusExpired)
			ap.HoldExpiresAt = nil
		}
	}
	return nil
}

func (r *fakeRepo) ExpireAllLapsedHolds(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, ap := range r.appointments {
		if domain.HoldLapsed(ap, now) {
			ap.Status = string(domain.StatusExpired)
			ap.HoldExpiresAt = nil
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ap, ok := r.appointments[id]; ok {
		cp := *ap
		return &cp, nil
	}
	return nil, httperr.ErrNotFound("appointment_not_found")
}

func (r *fakeRepo) GetAppointmentForDoctor(_ context.Context, appointmentID, doctorID uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ap, ok := r.appointments[appointmentID]; ok && ap.DoctorID == doctorID {
		cp := *ap
		return &cp, nil
	}
	return nil, httperr.ErrNotFound("appointment_not_found")
}

func (r *fakeRepo) GetAppointmentForPatient(_ context.Context, appointmentID, patientID uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ap, ok := r.appointments[appointmentID]; ok && ap.PatientID == patientID {
		cp := *ap
		return &cp, nil
	}
	return nil, httperr.ErrNotFound("appointment_not_found")
}

func (r *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appointments[ap.ID]; !ok {
		return httperr.ErrNotFound("appointment_not_found")
	}
	cp := *ap
	r.appointments[ap.ID] = &cp
	return nil
}

func (r *fakeRepo) ListDoctorAppointmentsForPeriod(
	_ context.Context,
	doctorID uint,
	start, end time.Time,
) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.DoctorID == doctorID && !ap.StartAt.Before(start) && ap.StartAt.Before(end) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListPatientAppointments(_ context.Context, patientID uint) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.PatientID == patientID {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.appointments)
}

func (r *fakeRepo) stored(id uint) *models.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ap, ok := r.appointments[id]; ok {
		cp := *ap
		return &cp
	}
	return nil
}

// ======================================================
// SEED DATA
// ======================================================

// seedDirectory wires doctor 1 offering service 1 (30 min, 15/15 buffers,
// price 100) with Mondays 09:00-17:00 open.
func seedDirectory(r *fakeRepo) {
	r.doctors[1] = &models.User{
		ID:           1,
		Role:         models.RoleDoctor,
		DoctorStatus: models.DoctorStatusApproved,
	}
	r.services[1] = &models.Service{
		ID:                 1,
		Name:               "General consultation",
		DefaultDurationMin: 30,
		DefaultPrice:       100,
		Active:             true,
	}
	r.links[[2]uint{1, 1}] = &models.DoctorService{
		ID:        1,
		DoctorID:  1,
		ServiceID: 1,
		Active:    true,
	}
	r.schedules[1] = &models.DoctorSchedule{
		ID:       1,
		DoctorID: 1,
		WeeklyTemplate: []models.WeekdayTemplate{
			{
				DayOfWeek:   1,
				IsAvailable: true,
				Slots:       []models.DaySlot{{StartTime: "09:00", EndTime: "17:00"}},
			},
		},
		DefaultBufferBeforeMin: 15,
		DefaultBufferAfterMin:  15,
		Version:                1,
	}
}

func testOptions() Options {
	return Options{
		HoldWindow:           15 * time.Minute,
		LockTTL:              30 * time.Second,
		IdempotencyTTL:       24 * time.Hour,
		CancellationDeadline: 24 * time.Hour,
		Timezone:             "UTC",
	}
}

// Monday 2026-06-08; with 15/15 buffers the first bookable start is 09:15.
var (
	testNow      = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	validStartAt = time.Date(2026, 6, 8, 9, 15, 0, 0, time.UTC)
	nextStartAt  = time.Date(2026, 6, 8, 10, 15, 0, 0, time.UTC)
)
