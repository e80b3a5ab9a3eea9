package booking

import (
	"context"
	"log/slog"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/clock"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type CompleteBooking struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	clk    clock.Clock
	logger *slog.Logger
}

func NewCompleteBooking(
	repo domain.Repository,
	auditDisp *audit.Dispatcher,
	clk clock.Clock,
	logger *slog.Logger,
) *CompleteBooking {
	return &CompleteBooking{
		repo:   repo,
		audit:  auditDisp,
		clk:    clk,
		logger: logger,
	}
}

// Execute marca o atendimento como concluído (cliente compareceu) e
// aplica a seña aprovada no acerto.
func (uc *CompleteBooking) Execute(
	ctx context.Context,
	bookingID uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	return uc.CompleteRecord(ctx, b)
}

// CompleteRecord é usado tanto pelo handler quanto pelo passo de
// auto-conclusão da varredura.
func (uc *CompleteBooking) CompleteRecord(
	ctx context.Context,
	b *models.Booking,
) (*models.Booking, error) {

	now := uc.clk.Now()

	if err := domain.Complete(b, now); err != nil {
		return nil, err
	}

	ok, err := uc.repo.UpdateBookingIfStatus(ctx, b, domain.StatusReserved)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.ErrConflict("already_processed")
	}

	uc.applyDeposit(ctx, b)

	uc.audit.Dispatch(audit.Event{
		Action:   "booking_completed",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}

// applyDeposit abate a seña aprovada do valor devido, uma única vez.
func (uc *CompleteBooking) applyDeposit(ctx context.Context, b *models.Booking) {
	deposit, err := uc.repo.GetDepositForBooking(ctx, b.ID)
	if err != nil {
		if !httperr.IsKind(err, httperr.KindNotFound) {
			uc.logger.Error("deposit lookup failed", "booking_id", b.ID, "err", err)
		}
		return
	}

	if domain.DepositStatus(deposit.Status) != domain.DepositApproved || deposit.Applied {
		return
	}

	deposit.Applied = true
	if err := uc.repo.UpdateDeposit(ctx, deposit); err != nil {
		uc.logger.Error("deposit apply failed", "deposit_id", deposit.ID, "err", err)
	}
}
