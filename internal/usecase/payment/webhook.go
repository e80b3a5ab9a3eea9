package payment

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/clock"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/notify"
)

// ======================================================
// INPUT
// ======================================================

// WebhookEvent é o que o Mercado Pago entrega: só o tipo e o id do
// pagamento. Status vem de uma consulta autoritativa ao gateway —
// nunca do payload.
type WebhookEvent struct {
	Type      string
	PaymentID string
}

// ======================================================
// USE CASE
// ======================================================

type HandleWebhook struct {
	repo     domain.Repository
	gateway  domain.Gateway
	notifier notify.Notifier
	audit    *audit.Dispatcher
	clk      clock.Clock
	logger   *slog.Logger
}

func NewHandleWebhook(
	repo domain.Repository,
	gateway domain.Gateway,
	notifier notify.Notifier,
	auditDisp *audit.Dispatcher,
	clk clock.Clock,
	logger *slog.Logger,
) *HandleWebhook {
	return &HandleWebhook{
		repo:     repo,
		gateway:  gateway,
		notifier: notifier,
		audit:    auditDisp,
		clk:      clk,
		logger:   logger,
	}
}

func (uc *HandleWebhook) Execute(ctx context.Context, ev WebhookEvent) error {
	if ev.Type != "payment" || ev.PaymentID == "" {
		return nil // evento que não nos interessa
	}

	p, err := uc.gateway.GetPayment(ctx, ev.PaymentID)
	if err != nil {
		return err
	}

	bookingID64, err := strconv.ParseUint(p.Reference, 10, 64)
	if err != nil {
		uc.logger.Warn("webhook with unknown reference", "reference", p.Reference)
		return nil
	}
	bookingID := uint(bookingID64)

	deposit, err := uc.repo.GetDepositForBooking(ctx, bookingID)
	if err != nil {
		if httperr.IsKind(err, httperr.KindNotFound) {
			uc.logger.Warn("webhook for booking without deposit", "booking_id", bookingID)
			return nil
		}
		return err
	}

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	switch p.Status {
	case "approved":
		return uc.approve(ctx, b, deposit, p)
	case "rejected", "cancelled":
		return uc.reject(ctx, b, deposit, p)
	case "pending", "in_process":
		uc.send(b, "Estamos processando o pagamento da sua seña.")
		return nil
	default:
		uc.logger.Warn("webhook with unhandled status",
			"payment_id", p.ID, "status", p.Status)
		return nil
	}
}

func (uc *HandleWebhook) approve(
	ctx context.Context,
	b *models.Booking,
	deposit *models.Deposit,
	p *domain.GatewayPayment,
) error {

	// Webhooks repetem; aprovado já processado é no-op.
	if domain.DepositStatus(deposit.Status) == domain.DepositApproved {
		return nil
	}

	now := uc.clk.Now()
	deposit.Status = string(domain.DepositApproved)
	deposit.GatewayPaymentID = p.ID
	deposit.PaidAt = &now

	if err := uc.repo.UpdateDeposit(ctx, deposit); err != nil {
		return err
	}

	if domain.Status(b.Status) == domain.StatusPending {
		b.Status = string(domain.StatusReserved)
		ok, err := uc.repo.UpdateBookingIfStatus(ctx, b, domain.StatusPending)
		if err != nil {
			return err
		}
		if !ok {
			// A varredura expirou o hold antes do pagamento chegar.
			// A seña fica aprovada para devolução manual.
			uc.logger.Error("payment approved for a booking no longer pending",
				"booking_id", b.ID, "payment_id", p.ID)
			return nil
		}
	}

	uc.send(b, fmt.Sprintf(
		"Seña confirmada! Turno %s às %s reservado.",
		b.Date.Format("2006-01-02"), b.StartTime,
	))

	uc.audit.Dispatch(audit.Event{
		Action:   "deposit_approved",
		Entity:   "deposit",
		EntityID: &deposit.ID,
	})

	return nil
}

func (uc *HandleWebhook) reject(
	ctx context.Context,
	b *models.Booking,
	deposit *models.Deposit,
	p *domain.GatewayPayment,
) error {

	if domain.DepositStatus(deposit.Status) != domain.DepositPending {
		return nil
	}

	deposit.Status = string(domain.DepositRejected)
	deposit.GatewayPaymentID = p.ID

	if err := uc.repo.UpdateDeposit(ctx, deposit); err != nil {
		return err
	}

	// O booking segue pendente: o cliente ainda pode pagar de novo até
	// o prazo; senão a varredura libera o slot.
	uc.send(b, "O pagamento da seña foi recusado. Tente novamente pelo link enviado.")

	uc.audit.Dispatch(audit.Event{
		Action:   "deposit_rejected",
		Entity:   "deposit",
		EntityID: &deposit.ID,
	})

	return nil
}

func (uc *HandleWebhook) send(b *models.Booking, msg string) {
	if b.Client.Phone == "" {
		return
	}
	if err := uc.notifier.Send(b.Client.Phone, msg); err != nil {
		uc.logger.Warn("payment notification failed", "booking_id", b.ID, "err", err)
	}
}
