package schedule

import (
	"context"

	domain "github.com/NovaClinicas/clinic-scheduler/internal/domain/schedule"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

type GetSchedule struct {
	repo domain.Repository
}

func NewGetSchedule(repo domain.Repository) *GetSchedule {
	return &GetSchedule{repo: repo}
}

func (uc *GetSchedule) Execute(
	ctx context.Context,
	doctorID uint,
) (*models.DoctorSchedule, error) {
	return uc.repo.Get(ctx, doctorID)
}
