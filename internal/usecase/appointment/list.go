package appointment

import (
	"context"
	"time"

	domain "github.com/NovaClinicas/clinic-scheduler/internal/domain/appointment"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
	"github.com/NovaClinicas/clinic-scheduler/internal/timezone"
)

// ======================================================
// DOCTOR: one calendar day
// ======================================================

type ListDoctorAppointmentsByDate struct {
	repo domain.Repository
	opts Options
}

func NewListDoctorAppointmentsByDate(
	repo domain.Repository,
	opts Options,
) *ListDoctorAppointmentsByDate {
	return &ListDoctorAppointmentsByDate{
		repo: repo,
		opts: opts,
	}
}

func (uc *ListDoctorAppointmentsByDate) Execute(
	ctx context.Context,
	doctorID uint,
	date time.Time,
) ([]models.Appointment, error) {

	loc := timezone.Location(uc.opts.Timezone)

	start := time.Date(
		date.Year(),
		date.Month(),
		date.Day(),
		0, 0, 0, 0,
		loc,
	)
	end := start.AddDate(0, 0, 1)

	return uc.repo.ListDoctorAppointmentsForPeriod(ctx, doctorID, start, end)
}

// ======================================================
// PATIENT: full history
// ======================================================

type ListPatientAppointments struct {
	repo domain.Repository
}

func NewListPatientAppointments(repo domain.Repository) *ListPatientAppointments {
	return &ListPatientAppointments{repo: repo}
}

func (uc *ListPatientAppointments) Execute(
	ctx context.Context,
	patientID uint,
) ([]models.Appointment, error) {
	return uc.repo.ListPatientAppointments(ctx, patientID)
}
