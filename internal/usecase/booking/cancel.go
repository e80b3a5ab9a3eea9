package booking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/clock"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/notify"
)

// ======================================================
// OUTPUT
// ======================================================

// RefundOutcome distingue decisão de negócio (retained) de falha
// técnica (refund_failed): reter a seña dentro do prazo é esperado;
// reembolso que o gateway recusou é erro para follow-up manual.
type RefundOutcome string

const (
	RefundNone     RefundOutcome = ""
	RefundIssued   RefundOutcome = "refunded"
	RefundRetained RefundOutcome = "retained"
	RefundFailed   RefundOutcome = "refund_failed"
)

type CancelBookingOutput struct {
	Booking       *models.Booking `json:"booking"`
	RefundOutcome RefundOutcome   `json:"refund_outcome,omitempty"`
}

// ======================================================
// USE CASE
// ======================================================

type CancelBooking struct {
	repo     domain.Repository
	gateway  domain.Gateway
	notifier notify.Notifier
	audit    *audit.Dispatcher
	clk      clock.Clock
	logger   *slog.Logger
}

func NewCancelBooking(
	repo domain.Repository,
	gateway domain.Gateway,
	notifier notify.Notifier,
	auditDisp *audit.Dispatcher,
	clk clock.Clock,
	logger *slog.Logger,
) *CancelBooking {
	return &CancelBooking{
		repo:     repo,
		gateway:  gateway,
		notifier: notifier,
		audit:    auditDisp,
		clk:      clk,
		logger:   logger,
	}
}

func (uc *CancelBooking) Execute(
	ctx context.Context,
	bookingID uint,
) (*CancelBookingOutput, error) {

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return uc.cancel(ctx, b)
}

// ExecuteByToken atende o link de cancelamento enviado ao cliente.
func (uc *CancelBooking) ExecuteByToken(
	ctx context.Context,
	token string,
) (*CancelBookingOutput, error) {

	b, err := uc.repo.GetBookingByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return uc.cancel(ctx, b)
}

func (uc *CancelBooking) cancel(
	ctx context.Context,
	b *models.Booking,
) (*CancelBookingOutput, error) {

	now := uc.clk.Now()
	previous := domain.Status(b.Status)

	if err := domain.Cancel(b, now); err != nil {
		return nil, err
	}

	// Check otimista: se a varredura (ou outro cancel) mudou o estado
	// no meio do caminho, não processamos duas vezes.
	ok, err := uc.repo.UpdateBookingIfStatus(ctx, b, previous)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.ErrConflict("already_processed")
	}

	// O cancelamento está feito; o destino da seña não o desfaz.
	outcome := uc.settleDeposit(ctx, b, now)

	if b.Client.Phone != "" {
		msg := fmt.Sprintf("Turno %s às %s cancelado.",
			b.Date.Format("2006-01-02"), b.StartTime)
		if err := uc.notifier.Send(b.Client.Phone, msg); err != nil {
			uc.logger.Warn("cancel notification failed", "booking_id", b.ID, "err", err)
		}
	}

	uc.audit.Dispatch(audit.Event{
		Action:   "booking_cancelled",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{"refund_outcome": outcome},
	})

	return &CancelBookingOutput{
		Booking:       b,
		RefundOutcome: outcome,
	}, nil
}

// settleDeposit decide reembolso/retenção da seña de um booking recém
// cancelado. Falha de reembolso é reportada separada — nunca desfaz o
// cancelamento.
func (uc *CancelBooking) settleDeposit(
	ctx context.Context,
	b *models.Booking,
	now time.Time,
) RefundOutcome {

	deposit, err := uc.repo.GetDepositForBooking(ctx, b.ID)
	if err != nil {
		if httperr.IsKind(err, httperr.KindNotFound) {
			return RefundNone
		}
		uc.logger.Error("deposit lookup failed", "booking_id", b.ID, "err", err)
		return RefundNone
	}

	switch domain.DepositStatus(deposit.Status) {
	case domain.DepositPending:
		deposit.Status = string(domain.DepositExpired)
		if err := uc.repo.UpdateDeposit(ctx, deposit); err != nil {
			uc.logger.Error("deposit expire failed", "deposit_id", deposit.ID, "err", err)
		}
		return RefundNone

	case domain.DepositApproved:
		if deposit.Refunded {
			return RefundNone
		}

		cfg, err := uc.repo.GetConfig(ctx)
		if err != nil {
			uc.logger.Error("config lookup failed", "err", err)
			return RefundFailed
		}

		lead := time.Duration(cfg.CancellationLeadHours) * time.Hour

		// Elegível exatamente no limite; um segundo dentro, não.
		if !cfg.RefundsAllowed || b.StartAt.Sub(now) < lead {
			return RefundRetained
		}

		if _, err := uc.gateway.Refund(ctx, deposit.GatewayPaymentID, deposit.Amount); err != nil {
			uc.logger.Error("refund failed, manual follow-up needed",
				"booking_id", b.ID,
				"deposit_id", deposit.ID,
				"err", err,
			)
			return RefundFailed
		}

		deposit.Status = string(domain.DepositRefunded)
		deposit.Refunded = true
		if err := uc.repo.UpdateDeposit(ctx, deposit); err != nil {
			uc.logger.Error("deposit refund persist failed", "deposit_id", deposit.ID, "err", err)
		}
		return RefundIssued

	default:
		return RefundNone
	}
}
