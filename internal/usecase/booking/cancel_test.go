package booking

import (
	"context"
	"testing"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/clock"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func cancelSetup(now time.Time) (*fakeRepo, *fakeGateway, *CancelBooking) {
	repo := newFakeRepo()
	repo.cfg.Timezone = "UTC"

	gw := &fakeGateway{}
	uc := NewCancelBooking(
		repo,
		gw,
		&fakeNotifier{},
		testAudit(),
		clock.Fixed{T: now},
		testLogger(),
	)
	return repo, gw, uc
}

func reservedBooking(id uint, startAt time.Time) *models.Booking {
	return &models.Booking{
		ID:          id,
		ClientID:    10,
		BarberID:    1,
		Date:        startAt.Truncate(24 * time.Hour),
		StartTime:   startAt.Format("15:04"),
		StartAt:     startAt,
		EndAt:       startAt.Add(45 * time.Minute),
		Status:      string(domain.StatusReserved),
		CancelToken: "tok-1",
		Client:      models.Client{ID: 10, Phone: testPhone},
	}
}

func approvedDeposit(bookingID uint) *models.Deposit {
	return &models.Deposit{
		ID:               50,
		BookingID:        bookingID,
		Amount:           500,
		Status:           string(domain.DepositApproved),
		GatewayPaymentID: "777",
	}
}

func TestCancelBooking_NoDeposit(t *testing.T) {
	now := time.Date(2026, 9, 6, 12, 0, 0, 0, time.UTC)
	repo, gw, uc := cancelSetup(now)
	repo.bookings[1] = reservedBooking(1, now.Add(48*time.Hour))

	out, err := uc.Execute(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Booking.Status != string(domain.StatusCancelled) {
		t.Fatalf("expected cancelled, got %s", out.Booking.Status)
	}
	if out.RefundOutcome != RefundNone {
		t.Fatalf("expected no refund outcome, got %q", out.RefundOutcome)
	}
	if len(gw.refunds) != 0 {
		t.Fatal("no refund call expected")
	}
}

func TestCancelBooking_RefundAtExactBoundary(t *testing.T) {
	now := time.Date(2026, 9, 6, 12, 0, 0, 0, time.UTC)
	repo, gw, uc := cancelSetup(now)

	// Início exatamente lead horas à frente: ainda elegível.
	repo.bookings[1] = reservedBooking(1, now.Add(24*time.Hour))
	repo.deposits[1] = approvedDeposit(1)

	out, err := uc.Execute(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.RefundOutcome != RefundIssued {
		t.Fatalf("expected refund at the boundary, got %q", out.RefundOutcome)
	}
	if len(gw.refunds) != 1 || gw.refunds[0] != "777" {
		t.Fatalf("expected refund of payment 777, got %v", gw.refunds)
	}

	deposit, _ := repo.GetDepositForBooking(context.Background(), 1)
	if domain.DepositStatus(deposit.Status) != domain.DepositRefunded || !deposit.Refunded {
		t.Fatalf("deposit not marked refunded: %+v", deposit)
	}
}

func TestCancelBooking_RetainedInsideWindow(t *testing.T) {
	now := time.Date(2026, 9, 6, 12, 0, 0, 0, time.UTC)
	repo, gw, uc := cancelSetup(now)

	// Um segundo dentro do prazo: a seña fica.
	repo.bookings[1] = reservedBooking(1, now.Add(24*time.Hour-time.Second))
	repo.deposits[1] = approvedDeposit(1)

	out, err := uc.Execute(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.RefundOutcome != RefundRetained {
		t.Fatalf("expected retained, got %q", out.RefundOutcome)
	}
	if out.Booking.Status != string(domain.StatusCancelled) {
		t.Fatal("cancellation must stand even when the deposit is retained")
	}
	if len(gw.refunds) != 0 {
		t.Fatal("no refund call expected inside the window")
	}
}

func TestCancelBooking_RefundsDisabled(t *testing.T) {
	now := time.Date(2026, 9, 6, 12, 0, 0, 0, time.UTC)
	repo, _, uc := cancelSetup(now)
	repo.cfg.RefundsAllowed = false

	repo.bookings[1] = reservedBooking(1, now.Add(72*time.Hour))
	repo.deposits[1] = approvedDeposit(1)

	out, err := uc.Execute(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.RefundOutcome != RefundRetained {
		t.Fatalf("expected retained with refunds disabled, got %q", out.RefundOutcome)
	}
}

func TestCancelBooking_RefundFailureDoesNotUndoCancel(t *testing.T) {
	now := time.Date(2026, 9, 6, 12, 0, 0, 0, time.UTC)
	repo, gw, uc := cancelSetup(now)
	gw.failRefund = true

	repo.bookings[1] = reservedBooking(1, now.Add(72*time.Hour))
	repo.deposits[1] = approvedDeposit(1)

	out, err := uc.Execute(context.Background(), 1)
	if err != nil {
		t.Fatalf("cancellation itself must succeed: %v", err)
	}

	if out.RefundOutcome != RefundFailed {
		t.Fatalf("expected refund_failed, got %q", out.RefundOutcome)
	}
	stored, _ := repo.GetBooking(context.Background(), 1)
	if stored.Status != string(domain.StatusCancelled) {
		t.Fatalf("expected cancelled, got %s", stored.Status)
	}
}

func TestCancelBooking_PendingHoldExpiresDeposit(t *testing.T) {
	now := time.Date(2026, 9, 6, 12, 0, 0, 0, time.UTC)
	repo, _, uc := cancelSetup(now)

	deadline := now.Add(domain.HoldWindow)
	b := reservedBooking(1, now.Add(48*time.Hour))
	b.Status = string(domain.StatusPending)
	b.ExpiresAt = &deadline
	repo.bookings[1] = b

	repo.deposits[1] = &models.Deposit{
		ID: 50, BookingID: 1, Amount: 500,
		Status: string(domain.DepositPending),
	}

	out, err := uc.Execute(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.RefundOutcome != RefundNone {
		t.Fatalf("unpaid deposit has nothing to refund, got %q", out.RefundOutcome)
	}

	deposit, _ := repo.GetDepositForBooking(context.Background(), 1)
	if domain.DepositStatus(deposit.Status) != domain.DepositExpired {
		t.Fatalf("expected expired deposit, got %s", deposit.Status)
	}
}

func TestCancelBooking_AlreadyCancelled(t *testing.T) {
	now := time.Date(2026, 9, 6, 12, 0, 0, 0, time.UTC)
	repo, _, uc := cancelSetup(now)

	b := reservedBooking(1, now.Add(48*time.Hour))
	b.Status = string(domain.StatusCancelled)
	repo.bookings[1] = b

	_, err := uc.Execute(context.Background(), 1)
	if !httperr.IsKind(err, httperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCancelBooking_ByToken(t *testing.T) {
	now := time.Date(2026, 9, 6, 12, 0, 0, 0, time.UTC)
	repo, _, uc := cancelSetup(now)
	repo.bookings[1] = reservedBooking(1, now.Add(48*time.Hour))

	out, err := uc.ExecuteByToken(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Booking.ID != 1 {
		t.Fatalf("expected booking 1, got %d", out.Booking.ID)
	}

	if _, err := uc.ExecuteByToken(context.Background(), "nope"); !httperr.IsKind(err, httperr.KindNotFound) {
		t.Fatalf("expected not found for unknown token, got %v", err)
	}
}
