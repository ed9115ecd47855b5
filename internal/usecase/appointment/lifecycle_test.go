package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/NovaClinicas/clinic-scheduler/internal/coordination"
	domain "github.com/NovaClinicas/clinic-scheduler/internal/domain/appointment"
	"github.com/NovaClinicas/clinic-scheduler/internal/httperr"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

// book creates one pending appointment for patient 7 at validStartAt.
func book(t *testing.T, repo *fakeRepo, typ domain.Type) uint {
	t.Helper()

	uc := newCreateUC(repo, coordination.NewMemoryStore())
	ap, err := uc.Execute(context.Background(), CreateAppointmentInput{
		DoctorID:  1,
		ServiceID: 1,
		PatientID: 7,
		StartAt:   validStartAt,
		Type:      typ,
	})
	if err != nil {
		t.Fatalf("setup booking failed: %v", err)
	}
	return ap.ID
}

// ======================================================
// CANCEL
// ======================================================

func TestCancelAppointment(t *testing.T) {
	repo := newFakeRepo()
	seedDirectory(repo)
	id := book(t, repo, domain.TypeInPerson)

	uc := NewCancelAppointment(repo, nil, testOptions())
	uc.now = func() time.Time { return testNow }

	ap, err := uc.Execute(context.Background(), 7, id, "conflict at work")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if ap.Status != string(domain.StatusCancelled) {
		t.Errorf("status %q, want cancelled", ap.Status)
	}
	if ap.CancellationReason != "conflict at work" {
		t.Errorf("reason %q not stored", ap.CancellationReason)
	}
}

func TestCancelAppointmentDeadline(t *testing.T) {
	repo := newFakeRepo()
	seedDirectory(repo)
	id := book(t, repo, domain.TypeInPerson)

	uc := NewCancelAppointment(repo, nil, testOptions())

	// exactly 24h before start: strict comparison denies it
	uc.now = func() time.Time { return validStartAt.Add(-24 * time.Hour) }
	if _, err := uc.Execute(context.Background(), 7, id, ""); !httperr.IsBusiness(err, "cancellation_deadline_passed") {
		t.Fatalf("at exact deadline: got %v", err)
	}

	// one second earlier passes
	uc.now = func() time.Time { return validStartAt.Add(-24*time.Hour - time.Second) }
	if _, err := uc.Execute(context.Background(), 7, id, ""); err != nil {
		t.Fatalf("one second before deadline: %v", err)
	}
}

func TestCancelAppointmentOwnership(t *testing.T) {
	repo := newFakeRepo()
	seedDirectory(repo)
	id := book(t, repo, domain.TypeInPerson)

	uc := NewCancelAppointment(repo, nil, testOptions())
	uc.now = func() time.Time { return testNow }

	// another patient cannot even see the appointment
	_, err := uc.Execute(context.Background(), 99, id, "")
	if !httperr.IsKind(err, httperr.KindNotFound) {
		t.Fatalf("foreign cancel: got %v, want not_found", err)
	}
}

// ======================================================
// CONFIRM / REJECT
// ======================================================

func TestConfirmAppointment(t *testing.T) {
	repo := newFakeRepo()
	seedDirectory(repo)
	id := book(t, repo, domain.TypeInPerson)

	uc := NewConfirmAppointment(repo, nil, testOptions())
	uc.now = func() time.Time { return testNow.Add(5 * time.Minute) }

	ap, err := uc.Execute(context.Background(), 1, id, "bring previous exams")
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if ap.Status != string(domain.StatusConfirmed) {
		t.Errorf("status %q, want confirmed", ap.Status)
	}
	if ap.Notes != "bring previous exams" {
		t.Errorf("notes %q not stored", ap.Notes)
	}
	if ap.HoldExpiresAt != nil {
		t.Errorf("hold survived confirmation")
	}
}

func TestConfirmAppointmentAfterHoldLapsed(t *testing.T) {
	repo := newFakeRepo()
	seedDirectory(repo)
	id := book(t, repo, domain.TypeInPerson)

	uc := NewConfirmAppointment(repo, nil, testOptions())
	uc.now = func() time.Time { return testNow.Add(16 * time.Minute) }

	_, err := uc.Execute(context.Background(), 1, id, "")
	if !httperr.IsBusiness(err, "hold_expired") {
		t.Fatalf("got %v, want hold_expired", err)
	}
}

func TestConfirmAppointmentAgainstScheduleEdit(t *testing.T) {
	repo := newFakeRepo()
	seedDirectory(repo)
	id := book(t, repo, domain.TypeInPerson)

	// the doctor closed Mondays after the hold was created
	repo.schedules[1].WeeklyTemplate[0].IsAvailable = false

	uc := NewConfirmAppointment(repo, nil, testOptions())
	uc.now = func() time.Time { return testNow.Add(5 * time.Minute) }

	_, err := uc.Execute(context.Background(), 1, id, "")
	if !httperr.IsBusiness(err, "slot_not_available") {
		t.Fatalf("got %v, want slot_not_available", err)
	}
}

func TestConfirmAppointmentUnpaidVideo(t *testing.T) {
	repo := newFakeRepo()
	seedDirectory(repo)
	id := book(t, repo, domain.TypeVideo)

	confirmUC := NewConfirmAppointment(repo, nil, testOptions())
	confirmUC.now = func() time.Time { return testNow.Add(5 * time.Minute) }

	if _, err := confirmUC.Execute(context.Background(), 1, id, ""); !httperr.IsBusiness(err, "payment_pending") {
		t.Fatalf("unpaid confirm: got %v, want payment_pending", err)
	}

	// payment callback flips the gate
	paidUC := NewMarkAsPaid(repo, nil)
	if _, err := paidUC.Execute(context.Background(), id, "pay_789"); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}

	ap, err := confirmUC.Execute(context.Background(), 1, id, "")
	if err != nil {
		t.Fatalf("paid confirm failed: %v", err)
	}
	if ap.Status != string(domain.StatusConfirmed) {
		t.Errorf("status %q, want confirmed", ap.Status)
	}
}

func TestRejectAppointment(t *testing.T) {
	repo := newFakeRepo()
	seedDirectory(repo)
	id := book(t, repo, domain.TypeInPerson)

	uc := NewRejectAppointment(repo, nil)
	uc.now = func() time.Time { return testNow }

	if _, err := uc.Execute(context.Background(), 1, id, ""); !httperr.IsBusiness(err, "reason_required") {
		t.Fatalf("reject without reason: got %v", err)
	}

	ap, err := uc.Execute(context.Background(), 1, id, "emergency surgery")
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if ap.Status != string(domain.StatusRejected) {
		t.Errorf("status %q, want rejected", ap.Status)
	}
}

// ======================================================
// COMPLETE / NO-SHOW
// ======================================================

func TestCompleteAndNoShow(t *testing.T) {
	repo := newFakeRepo()
	seedDirectory(repo)
	id := book(t, repo, domain.TypeInPerson)

	completeUC := NewCompleteAppointment(repo, nil)
	completeUC.now = func() time.Time { return validStartAt.Add(30 * time.Minute) }

	// pending appointments cannot complete
	if _, err := completeUC.Execute(context.Background(), 1, id); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("completed a pending appointment: %v", err)
	}

	confirmUC := NewConfirmAppointment(repo, nil, testOptions())
	confirmUC.now = func() time.Time { return testNow }
	if _, err := confirmUC.Execute(context.Background(), 1, id, ""); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	ap, err := completeUC.Execute(context.Background(), 1, id)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if ap.Status != string(domain.StatusCompleted) {
		t.Errorf("status %q, want completed", ap.Status)
	}

	// a completed appointment cannot also be a no-show
	noShowUC := NewMarkNoShow(repo, nil)
	noShowUC.now = func() time.Time { return validStartAt.Add(time.Hour) }
	if _, err := noShowUC.Execute(context.Background(), 1, id); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("no-show after completion: %v", err)
	}
}

// ======================================================
// RESCHEDULE
// ======================================================

func TestRescheduleAppointment(t *testing.T) {
	repo := newFakeRepo()
	seedDirectory(repo)
	id := book(t, repo, domain.TypeInPerson)

	confirmUC := NewConfirmAppointment(repo, nil, testOptions())
	confirmUC.now = func() time.Time { return testNow }
	if _, err := confirmUC.Execute(context.Background(), 1, id, ""); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	uc := NewRescheduleAppointment(repo, coordination.NewMemoryStore(), nil, testOptions())
	uc.now = func() time.Time { return testNow }

	ap, err := uc.Execute(context.Background(), 7, id, nextStartAt)
	if err != nil {
		t.Fatalf("reschedule failed: %v", err)
	}

	if !ap.StartAt.Equal(nextStartAt) {
		t.Errorf("start %v, want %v", ap.StartAt, nextStartAt)
	}
	if ap.Status != string(domain.StatusPendingConfirm) {
		t.Errorf("status %q, want pending_confirm after reschedule", ap.Status)
	}
	if ap.ConfirmedAt != nil {
		t.Errorf("ConfirmedAt survived the reschedule")
	}
	if ap.HoldExpiresAt == nil || !ap.HoldExpiresAt.Equal(testNow.Add(15*time.Minute)) {
		t.Errorf("hold not refreshed: %v", ap.HoldExpiresAt)
	}
}

func TestRescheduleAppointmentConflict(t *testing.T) {
	repo := newFakeRepo()
	seedDirectory(repo)
	id := book(t, repo, domain.TypeInPerson)

	// someone else already holds the target slot
	other := newCreateUC(repo, coordination.NewMemoryStore())
	if _, err := other.Execute(context.Background(), CreateAppointmentInput{
		DoctorID:  1,
		ServiceID: 1,
		PatientID: 8,
		StartAt:   nextStartAt,
		Type:      domain.TypeInPerson,
	}); err != nil {
		t.Fatalf("setup booking failed: %v", err)
	}

	uc := NewRescheduleAppointment(repo, coordination.NewMemoryStore(), nil, testOptions())
	uc.now = func() time.Time { return testNow }

	if _, err := uc.Execute(context.Background(), 7, id, nextStartAt); !httperr.IsKind(err, httperr.KindConflict) {
		t.Fatalf("got %v, want a conflict", err)
	}
}

func TestRescheduleAppointmentDeadline(t *testing.T) {
	repo := newFakeRepo()
	seedDirectory(repo)
	id := book(t, repo, domain.TypeInPerson)

	uc := NewRescheduleAppointment(repo, coordination.NewMemoryStore(), nil, testOptions())
	// deadline is measured against the current start time
	uc.now = func() time.Time { return validStartAt.Add(-time.Hour) }

	if _, err := uc.Execute(context.Background(), 7, id, nextStartAt); !httperr.IsBusiness(err, "reschedule_deadline_passed") {
		t.Fatalf("got %v, want reschedule_deadline_passed", err)
	}
}

// ======================================================
// HOLD EXPIRY SWEEP
// ======================================================

func TestExpireHolds(t *testing.T) {
	repo := newFakeRepo()
	seedDirectory(repo)
	id := book(t, repo, domain.TypeInPerson)

	uc := NewExpireHolds(repo)

	// before the hold lapses nothing happens
	uc.now = func() time.Time { return testNow.Add(10 * time.Minute) }
	if n, err := uc.Execute(context.Background()); err != nil || n != 0 {
		t.Fatalf("early sweep: n=%d err=%v", n, err)
	}

	uc.now = func() time.Time { return testNow.Add(16 * time.Minute) }
	n, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("swept %d holds, want 1", n)
	}

	if got := repo.stored(id); got.Status != string(domain.StatusExpired) {
		t.Errorf("status %q, want expired", got.Status)
	}

	// idempotent: a second sweep finds nothing
	if n, _ := uc.Execute(context.Background()); n != 0 {
		t.Errorf("second sweep flipped %d rows", n)
	}
}

// ======================================================
// AVAILABILITY / LISTINGS
// ======================================================

func TestGetAvailability(t *testing.T) {
	repo := newFakeRepo()
	seedDirectory(repo)

	uc := NewGetAvailability(repo, testOptions())

	slots, err := uc.Execute(context.Background(), AvailabilityInput{
		DoctorID:  1,
		ServiceID: 1,
		Date:      validStartAt,
	})
	if err != nil {
		t.Fatalf("availability failed: %v", err)
	}
	if len(slots) != 8 {
		t.Fatalf("%d slots, want 8", len(slots))
	}
	if !slots[0].StartAt.Equal(validStartAt) {
		t.Errorf("first slot %v, want %v", slots[0].StartAt, validStartAt)
	}
}

func TestGetAvailabilityEmptyWeek(t *testing.T) {
	repo := newFakeRepo()
	seedDirectory(repo)
	repo.schedules[1].Holidays = append(repo.schedules[1].Holidays,
		models.Holiday{ID: "h1", StartDate: "2026-06-07", EndDate: "2026-06-13"})

	uc := NewGetAvailability(repo, testOptions())

	slots, err := uc.Execute(context.Background(), AvailabilityInput{
		DoctorID:  1,
		ServiceID: 1,
		Date:      validStartAt,
	})
	if err != nil {
		t.Fatalf("availability failed: %v", err)
	}
	if slots == nil {
		t.Fatal("empty week returned nil instead of an empty slice")
	}
	if len(slots) != 0 {
		t.Fatalf("%d slots during a holiday week", len(slots))
	}
}

func TestListDoctorAppointmentsByDate(t *testing.T) {
	repo := newFakeRepo()
	seedDirectory(repo)
	book(t, repo, domain.TypeInPerson)

	uc := NewListDoctorAppointmentsByDate(repo, testOptions())

	aps, err := uc.Execute(context.Background(), 1, validStartAt)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(aps) != 1 {
		t.Fatalf("%d appointments on booking day, want 1", len(aps))
	}

	aps, err = uc.Execute(context.Background(), 1, validStartAt.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(aps) != 0 {
		t.Fatalf("%d appointments on the next day, want 0", len(aps))
	}
}

func TestListPatientAppointments(t *testing.T) {
	repo := newFakeRepo()
	seedDirectory(repo)
	book(t, repo, domain.TypeInPerson)

	uc := NewListPatientAppointments(repo)

	aps, err := uc.Execute(context.Background(), 7)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(aps) != 1 {
		t.Fatalf("%d appointments for the patient, want 1", len(aps))
	}

	aps, _ = uc.Execute(context.Background(), 99)
	if len(aps) != 0 {
		t.Fatalf("%d appointments for a stranger, want 0", len(aps))
	}
}
