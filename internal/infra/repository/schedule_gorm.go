package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/NovaClinicas/clinic-scheduler/internal/domain/schedule"
	"github.com/NovaClinicas/clinic-scheduler/internal/httperr"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

func (r *ScheduleGormRepository) Get(
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

func (r *ScheduleGormRepository) Create(
	ctx context.Context,
	sched *models.DoctorSchedule,
) error {

	sched.Version = 1
	if err := r.db.WithContext(ctx).Create(sched).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return httperr.ErrConflict("schedule_already_exists")
		}
		return err
	}
	return nil
}

// UpdateVersioned is the optimistic-concurrency write for the whole
// aggregate. A concurrent edit bumps the version first and this write
// touches zero rows, surfacing as a conflict the caller can retry from a
// fresh read.
func (r *ScheduleGormRepository) UpdateVersioned(
	ctx context.Context,
	sched *models.DoctorSchedule,
) error {

	current := sched.Version

	res := r.db.WithContext(ctx).
		Model(&models.DoctorSchedule{}).
		Where("id = ? AND version = ?", sched.ID, current).
		Updates(map[string]any{
			"weekly_template":           sched.WeeklyTemplate,
			"default_buffer_before_min": sched.DefaultBufferBeforeMin,
			"default_buffer_after_min":  sched.DefaultBufferAfterMin,
			"service_buffers":           sched.ServiceBuffers,
			"exceptions":                sched.Exceptions,
			"holidays":                  sched.Holidays,
			"version":                   current + 1,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrConflict("schedule_version_conflict")
	}

	sched.Version = current + 1
	return nil
}

// Compile-time check
var _ domain.Repository = (*ScheduleGormRepository)(nil)
