package appointment

import (
	"context"
	"time"

	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

type Repository interface {
	// -------- Directory --------
	GetDoctor(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	GetService(
		ctx context.Context,
		id uint,
	) (*models.Service, error)

	GetDoctorService(
		ctx context.Context,
		doctorID uint,
		serviceID uint,
	) (*models.DoctorService, error)

	// -------- Schedule --------
	GetSchedule(
		ctx context.Context,
		doctorID uint,
	) (*models.DoctorSchedule, error)

	// -------- Appointment (create / conflict) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// HasActiveConflict reports any appointment on this doctor whose
	// [start_at, end_at) overlaps the given interval and which still
	// blocks the slot: confirmed, or pending with an unlapsed hold.
	// excludeID skips one appointment (reschedule rechecks).
	HasActiveConflict(
		ctx context.Context,
		doctorID uint,
		start time.Time,
		end time.Time,
		excludeID uint,
		now time.Time,
	) (bool, error)

	// ExpireLapsedHolds flips lapsed pending holds overlapping the
	// interval to expired, so the partial unique index cannot block a
	// fresh booking on a dead hold. Called under the slot lock.
	ExpireLapsedHolds(
		ctx context.Context,
		doctorID uint,
		start time.Time,
		end time.Time,
		now time.Time,
	) error

	// ExpireAllLapsedHolds is the reaper sweep over every doctor.
	ExpireAllLapsedHolds(
		ctx context.Context,
		now time.Time,
	) (int64, error)

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	GetAppointmentForDoctor(
		ctx context.Context,
		appointmentID uint,
		doctorID uint,
	) (*models.Appointment, error)

	GetAppointmentForPatient(
		ctx context.Context,
		appointmentID uint,
		patientID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Listings --------
	ListDoctorAppointmentsForPeriod(
		ctx context.Context,
		doctorID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListPatientAppointments(
		ctx context.Context,
		patientID uint,
	) ([]models.Appointment, error)
}
