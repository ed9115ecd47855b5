package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/NovaClinicas/clinic-scheduler/internal/domain/appointment"
	"github.com/NovaClinicas/clinic-scheduler/internal/httperr"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

// The two predicates below are the storage mirror of
// domain/appointment.HoldLapsed. The conflict query and the expiry sweep
// must never disagree, so both build on the same fragments.
const (
	// blocks a slot: confirmed, or pending with an unlapsed hold
	blockingCond = "(status = ? OR (status = ? AND hold_expires_at > ?))"

	// effectively expired: pending with a lapsed hold
	lapsedCond = "status = ? AND hold_expires_at IS NOT NULL AND hold_expires_at <= ?"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Directory
// --------------------------------------------------

func (r *AppointmentGormRepository) GetDoctor(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var doctor models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND role = ?", id, models.RoleDoctor).
		First(&doctor).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("doctor_not_found")
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).First(&svc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("service_not_found")
		}
		return nil, err
	}
	return &svc, nil
}

func (r *AppointmentGormRepository) GetDoctorService(
	ctx context.Context,
	doctorID uint,
	serviceID uint,
) (*models.DoctorService, error) {

	var link models.DoctorService
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND service_id = ?", doctorID, serviceID).
		First(&link).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrValidation("service_not_offered")
		}
		return nil, err
	}
	return &link, nil
}

// --------------------------------------------------
// Schedule
// --------------------------------------------------

func (r *AppointmentGormRepository) GetSchedule(
	ctx context.Context,
	doctorID uint,
) (*models.DoctorSchedule, error) {

	var sched models.DoctorSchedule
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		First(&sched).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("schedule_not_found")
		}
		return nil, err
	}
	return &sched, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	if err := r.db.WithContext(ctx).Create(ap).Error; err != nil {
		// the partial unique index on (doctor_id, start_at) is the last
		// line of defense when the advisory lock was lost
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return httperr.ErrConflict("time_conflict")
		}
		return err
	}
	return nil
}

func (r *AppointmentGormRepository) HasActiveConflict(
	ctx context.Context,
	doctorID uint,
	start time.Time,
	end time.Time,
	excludeID uint,
	now time.Time,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"doctor_id = ? AND id <> ? AND start_at < ? AND end_at > ? AND "+blockingCond,
			doctorID,
			excludeID,
			end,
			start,
			string(domain.StatusConfirmed),
			string(domain.StatusPendingConfirm),
			now,
		).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *AppointmentGormRepository) ExpireLapsedHolds(
	ctx context.Context,
	doctorID uint,
	start time.Time,
	end time.Time,
	now time.Time,
) error {

	return r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"doctor_id = ? AND start_at < ? AND end_at > ? AND "+lapsedCond,
			doctorID,
			end,
			start,
			string(domain.StatusPendingConfirm),
			now,
		).
		Updates(map[string]any{
			"status":          string(domain.StatusExpired),
			"hold_expires_at": nil,
		}).Error
}

func (r *AppointmentGormRepository) ExpireAllLapsedHolds(
	ctx context.Context,
	now time.Time,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(lapsedCond, string(domain.StatusPendingConfirm), now).
		Updates(map[string]any{
			"status":          string(domain.StatusExpired),
			"hold_expires_at": nil,
		})

	return res.RowsAffected, res.Error
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("appointment_not_found")
		}
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) GetAppointmentForDoctor(
	ctx context.Context,
	appointmentID uint,
	doctorID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND doctor_id = ?", appointmentID, doctorID).
		First(&ap).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("appointment_not_found")
		}
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) GetAppointmentForPatient(
	ctx context.Context,
	appointmentID uint,
	patientID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND patient_id = ?", appointmentID, patientID).
		First(&ap).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("appointment_not_found")
		}
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	if err := r.db.WithContext(ctx).Save(ap).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return httperr.ErrConflict("time_conflict")
		}
		return err
	}
	return nil
}

// --------------------------------------------------
// Listings
// --------------------------------------------------

func (r *AppointmentGormRepository) ListDoctorAppointmentsForPeriod(
	ctx context.Context,
	doctorID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"doctor_id = ? AND start_at >= ? AND start_at < ?",
			doctorID, start, end,
		).
		Order("start_at ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListPatientAppointments(
	ctx context.Context,
	patientID uint,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("start_at DESC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
