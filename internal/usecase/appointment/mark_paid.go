package appointment

import (
	"context"

	"github.com/NovaClinicas/clinic-scheduler/internal/audit"
	domain "github.com/NovaClinicas/clinic-scheduler/internal/domain/appointment"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

// MarkAsPaid consumes the external payment collaborator's callback. The
// engine never initiates payment collection itself.
type MarkAsPaid struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewMarkAsPaid(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *MarkAsPaid {
	return &MarkAsPaid{
		repo:  repo,
		audit: audit,
	}
}

func (uc *MarkAsPaid) Execute(
	ctx context.Context,
	appointmentID uint,
	paymentRef string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.MarkPaid(ap, paymentRef); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Action:   "appointment_paid",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]string{"payment_ref": paymentRef},
	})

	return ap, nil
}
