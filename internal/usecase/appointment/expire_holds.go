package appointment

import (
	"context"
	"time"

	domain "github.com/NovaClinicas/clinic-scheduler/internal/domain/appointment"
)

// ExpireHolds is the reaper sweep: pending appointments whose hold lapsed
// become expired. Conflict checks already ignore lapsed holds, so the
// sweep only tidies rows; it is not load-bearing for correctness.
type ExpireHolds struct {
	repo domain.Repository

	now func() time.Time
}

func NewExpireHolds(repo domain.Repository) *ExpireHolds {
	return &ExpireHolds{
		repo: repo,
		now:  time.Now,
	}
}

func (uc *ExpireHolds) Execute(ctx context.Context) (int64, error) {
	return uc.repo.ExpireAllLapsedHolds(ctx, uc.now())
}
