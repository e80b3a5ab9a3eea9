package payment

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/clock"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// webhookRepo implementa só o que o webhook usa; o resto do contrato
// vem do embed e nunca é chamado aqui.
type webhookRepo struct {
	domain.Repository

	booking *models.Booking
	deposit *models.Deposit

	// Simula a varredura mudando o estado entre o fetch e o update.
	refuseStatusUpdate bool
}

func (r *webhookRepo) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	if r.booking == nil || r.booking.ID != id {
		return nil, httperr.ErrNotFound("booking_not_found")
	}
	clone := *r.booking
	return &clone, nil
}

func (r *webhookRepo) GetDepositForBooking(ctx context.Context, bookingID uint) (*models.Deposit, error) {
	if r.deposit == nil || r.deposit.BookingID != bookingID {
		return nil, httperr.ErrNotFound("deposit_not_found")
	}
	clone := *r.deposit
	return &clone, nil
}

func (r *webhookRepo) UpdateDeposit(ctx context.Context, d *models.Deposit) error {
	clone := *d
	r.deposit = &clone
	return nil
}

func (r *webhookRepo) UpdateBookingIfStatus(
	ctx context.Context,
	b *models.Booking,
	expected domain.Status,
) (bool, error) {

	if r.refuseStatusUpdate || domain.Status(r.booking.Status) != expected {
		return false, nil
	}
	clone := *b
	r.booking = &clone
	return true, nil
}

type webhookGateway struct {
	payment *domain.GatewayPayment
	calls   int
}

func (g *webhookGateway) CreateIntent(context.Context, domain.IntentInput) (*domain.PaymentIntent, error) {
	return nil, httperr.ErrDependency("unexpected_call")
}

func (g *webhookGateway) GetPayment(ctx context.Context, paymentID string) (*domain.GatewayPayment, error) {
	g.calls++
	if g.payment == nil || g.payment.ID != paymentID {
		return nil, httperr.ErrDependency("gateway_get_payment_failed")
	}
	return g.payment, nil
}

func (g *webhookGateway) Refund(context.Context, string, float64) (*domain.RefundResult, error) {
	return nil, httperr.ErrDependency("unexpected_call")
}

type silentNotifier struct{ sent int }

func (n *silentNotifier) Send(to, message string) error {
	n.sent++
	return nil
}

// --------------------------------------------------

func webhookSetup(status string) (*webhookRepo, *webhookGateway, *HandleWebhook) {
	now := time.Date(2026, 9, 6, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(domain.HoldWindow)

	repo := &webhookRepo{
		booking: &models.Booking{
			ID:        42,
			Status:    string(domain.StatusPending),
			StartTime: "10:30",
			ExpiresAt: &deadline,
			Client:    models.Client{Phone: "+5491111111111"},
		},
		deposit: &models.Deposit{
			ID:        7,
			BookingID: 42,
			Amount:    500,
			Status:    string(domain.DepositPending),
		},
	}

	gw := &webhookGateway{
		payment: &domain.GatewayPayment{
			ID:        "999",
			Status:    status,
			Amount:    500,
			Reference: "42",
		},
	}

	uc := NewHandleWebhook(
		repo,
		gw,
		&silentNotifier{},
		audit.NewDispatcher(audit.New(nil)),
		clock.Fixed{T: now},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return repo, gw, uc
}

func TestWebhook_ApprovedConfirmsBooking(t *testing.T) {
	repo, gw, uc := webhookSetup("approved")

	err := uc.Execute(context.Background(), WebhookEvent{Type: "payment", PaymentID: "999"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// O status veio da consulta autoritativa, não do payload.
	if gw.calls != 1 {
		t.Fatalf("expected 1 authoritative fetch, got %d", gw.calls)
	}

	if domain.DepositStatus(repo.deposit.Status) != domain.DepositApproved {
		t.Fatalf("expected approved deposit, got %s", repo.deposit.Status)
	}
	if repo.deposit.GatewayPaymentID != "999" || repo.deposit.PaidAt == nil {
		t.Fatalf("deposit missing payment details: %+v", repo.deposit)
	}
	if domain.Status(repo.booking.Status) != domain.StatusReserved {
		t.Fatalf("expected reserved booking, got %s", repo.booking.Status)
	}
}

func TestWebhook_ApprovedIsIdempotent(t *testing.T) {
	repo, _, uc := webhookSetup("approved")

	ev := WebhookEvent{Type: "payment", PaymentID: "999"}
	if err := uc.Execute(context.Background(), ev); err != nil {
		t.Fatalf("first delivery: %v", err)
	}

	paidAt := *repo.deposit.PaidAt

	// Entrega repetida: nada muda.
	if err := uc.Execute(context.Background(), ev); err != nil {
		t.Fatalf("second delivery: %v", err)
	}
	if !repo.deposit.PaidAt.Equal(paidAt) {
		t.Fatal("replayed webhook must not touch the deposit again")
	}
}

func TestWebhook_ApprovedAfterHoldExpired(t *testing.T) {
	repo, _, uc := webhookSetup("approved")
	repo.refuseStatusUpdate = true

	err := uc.Execute(context.Background(), WebhookEvent{Type: "payment", PaymentID: "999"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A seña fica aprovada para acerto manual; o booking não ressuscita.
	if domain.DepositStatus(repo.deposit.Status) != domain.DepositApproved {
		t.Fatalf("expected approved deposit, got %s", repo.deposit.Status)
	}
	if domain.Status(repo.booking.Status) != domain.StatusPending {
		t.Fatalf("booking must stay as the sweep left it, got %s", repo.booking.Status)
	}
}

func TestWebhook_RejectedKeepsBookingPending(t *testing.T) {
	repo, _, uc := webhookSetup("rejected")

	err := uc.Execute(context.Background(), WebhookEvent{Type: "payment", PaymentID: "999"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if domain.DepositStatus(repo.deposit.Status) != domain.DepositRejected {
		t.Fatalf("expected rejected deposit, got %s", repo.deposit.Status)
	}
	// O cliente pode tentar pagar de novo até o hold vencer.
	if domain.Status(repo.booking.Status) != domain.StatusPending {
		t.Fatalf("expected pending booking, got %s", repo.booking.Status)
	}
}

func TestWebhook_IgnoresOtherEventTypes(t *testing.T) {
	_, gw, uc := webhookSetup("approved")

	if err := uc.Execute(context.Background(), WebhookEvent{Type: "merchant_order", PaymentID: "999"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gw.calls != 0 {
		t.Fatal("non-payment events must not hit the gateway")
	}
}

func TestWebhook_UnknownReference(t *testing.T) {
	_, gw, uc := webhookSetup("approved")
	gw.payment.Reference = "not-a-booking"

	if err := uc.Execute(context.Background(), WebhookEvent{Type: "payment", PaymentID: "999"}); err != nil {
		t.Fatalf("unknown reference should be swallowed: %v", err)
	}
}
