package sweep

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
	ucbooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

// ======================================================
// USE CASE
// ======================================================

// Sweep é uma execução da reconciliação periódica: lembretes, aviso de
// seña pendente, auto-conclusão e expiração de holds. Os quatro passos
// são independentes, idempotentes (flags one-shot e checks de estado)
// e a falha de um booking nunca aborta o passo para os demais.
type Sweep struct {
	repo     domain.Repository
	notifier notify.Notifier
	complete *ucbooking.CompleteBooking
	audit    *audit.Dispatcher
	clk      clock.Clock
	logger   *slog.Logger

	// tick da varredura; dimensiona a janela de lembrete.
	interval time.Duration

	// base dos links de cancelamento no aviso de pagamento.
	publicBaseURL string
}

func New(
	repo domain.Repository,
	notifier notify.Notifier,
	complete *ucbooking.CompleteBooking,
	auditDisp *audit.Dispatcher,
	clk clock.Clock,
	logger *slog.Logger,
	interval time.Duration,
	publicBaseURL string,
) *Sweep {
	return &Sweep{
		repo:          repo,
		notifier:      notifier,
		complete:      complete,
		audit:         auditDisp,
		clk:           clk,
		logger:        logger,
		interval:      interval,
		publicBaseURL: publicBaseURL,
	}
}

// Execute roda os quatro passos em sequência dentro de um tick.
func (uc *Sweep) Execute(ctx context.Context) {
	uc.sendReminders(ctx)
	uc.sendPaymentNudges(ctx)
	uc.autoComplete(ctx)
	uc.expireHolds(ctx)
}

// --------------------------------------------------
// 1) Lembrete pré-atendimento
// --------------------------------------------------

// Reserved começando em (now, now+lead+tick]: a ponta superior pega a
// janela normal [now+lead, now+lead+tick]; a inferior cobre bookings
// reservados em cima da hora, que recebem o lembrete imediato.
func (uc *Sweep) sendReminders(ctx context.Context) {
	now := uc.clk.Now()
	to := now.Add(domain.ReminderLead + uc.interval)

	bookings, err := uc.repo.ListRemindableBookings(ctx, now, to)
	if err != nil {
		uc.logger.Error("reminder pass query failed", "err", err)
		return
	}

	for i := range bookings {
		b := &bookings[i]

		msg := fmt.Sprintf(
			"Lembrete: seu turno é hoje às %s. Até já!",
			b.StartTime,
		)
		if err := uc.notifier.Send(b.Client.Phone, msg); err != nil {
			uc.logger.Warn("reminder send failed", "booking_id", b.ID, "err", err)
			continue
		}

		b.ReminderSent = true
		if _, err := uc.repo.UpdateBookingIfStatus(ctx, b, domain.StatusReserved); err != nil {
			uc.logger.Error("reminder flag persist failed", "booking_id", b.ID, "err", err)
		}
	}
}

// --------------------------------------------------
// 2) Aviso de seña pendente
// --------------------------------------------------

func (uc *Sweep) sendPaymentNudges(ctx context.Context) {
	now := uc.clk.Now()

	bookings, err := uc.repo.ListPendingForNudge(
		ctx,
		now.Add(-domain.NudgeMaxAge),
		now.Add(-domain.NudgeMinAge),
	)
	if err != nil {
		uc.logger.Error("nudge pass query failed", "err", err)
		return
	}

	for i := range bookings {
		b := &bookings[i]

		// Só vale a pena avisar se ainda dá tempo de pagar e ir.
		if b.StartAt.Sub(now) < domain.NudgeMinStartLead {
			continue
		}

		msg := fmt.Sprintf(
			"Sua seña ainda não foi paga e o turno das %s será liberado. "+
				"Para cancelar: %s/api/public/bookings/cancel/%s",
			b.StartTime, uc.publicBaseURL, b.CancelToken,
		)
		if err := uc.notifier.Send(b.Client.Phone, msg); err != nil {
			uc.logger.Warn("nudge send failed", "booking_id", b.ID, "err", err)
			continue
		}

		b.PaymentReminderSent = true
		if _, err := uc.repo.UpdateBookingIfStatus(ctx, b, domain.StatusPending); err != nil {
			uc.logger.Error("nudge flag persist failed", "booking_id", b.ID, "err", err)
		}
	}
}

// --------------------------------------------------
// 3) Auto-conclusão
// --------------------------------------------------

func (uc *Sweep) autoComplete(ctx context.Context) {
	now := uc.clk.Now()

	bookings, err := uc.repo.ListElapsedReserved(ctx, now, domain.CompletionLookbackDays)
	if err != nil {
		uc.logger.Error("auto-complete pass query failed", "err", err)
		return
	}

	for i := range bookings {
		b := &bookings[i]

		if _, err := uc.complete.CompleteRecord(ctx, b); err != nil {
			// already_processed = outro tick chegou antes; só logamos o resto.
			if !httperr.IsBusiness(err, "already_processed") {
				uc.logger.Error("auto-complete failed", "booking_id", b.ID, "err", err)
			}
		}
	}
}

// --------------------------------------------------
// 4) Expiração de holds
// --------------------------------------------------

func (uc *Sweep) expireHolds(ctx context.Context) {
	now := uc.clk.Now()

	bookings, err := uc.repo.ListExpiredPending(ctx, now)
	if err != nil {
		uc.logger.Error("expire pass query failed", "err", err)
		return
	}

	for i := range bookings {
		b := &bookings[i]

		if err := domain.Expire(b, now); err != nil {
			uc.logger.Error("expire transition failed", "booking_id", b.ID, "err", err)
			continue
		}

		ok, err := uc.repo.UpdateBookingIfStatus(ctx, b, domain.StatusPending)
		if err != nil {
			uc.logger.Error("expire persist failed", "booking_id", b.ID, "err", err)
			continue
		}
		if !ok {
			continue // pagamento ou cancel chegou primeiro
		}

		uc.expireDeposit(ctx, b)

		// O barbeiro fica sabendo que o horário voltou a ficar livre.
		if b.Barber.Phone != "" {
			msg := fmt.Sprintf(
				"O turno das %s de %s foi liberado (seña não paga).",
				b.StartTime, b.Date.Format("2006-01-02"),
			)
			if err := uc.notifier.Send(b.Barber.Phone, msg); err != nil {
				uc.logger.Warn("expire notification failed", "booking_id", b.ID, "err", err)
			}
		}

		uc.audit.Dispatch(audit.Event{
			Action:   "booking_expired",
			Entity:   "booking",
			EntityID: &b.ID,
		})
	}
}

func (uc *Sweep) expireDeposit(ctx context.Context, b *models.Booking) {
	deposit, err := uc.repo.GetDepositForBooking(ctx, b.ID)
	if err != nil {
		if !httperr.IsKind(err, httperr.KindNotFound) {
			uc.logger.Error("deposit lookup failed", "booking_id", b.ID, "err", err)
		}
		return
	}

	if domain.DepositStatus(deposit.Status) != domain.DepositPending {
		return
	}

	deposit.Status = string(domain.DepositExpired)
	if err := uc.repo.UpdateDeposit(ctx, deposit); err != nil {
		uc.logger.Error("deposit expire failed", "deposit_id", deposit.ID, "err", err)
	}
}
