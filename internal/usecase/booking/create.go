package booking

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/clock"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/notify"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type CreateBookingInput struct {
	// Identidade do cliente vem do cadastro; aqui só o telefone localiza.
	ClientPhone string

	ServiceID uint
	BarberID  *uint

	Date string // "2006-01-02"
	Time string // "HH:mm"

	// Zero = usa o preço do serviço.
	Price float64
}

type CreateBookingOutput struct {
	Booking         *models.Booking `json:"booking"`
	RequiresDeposit bool            `json:"requires_deposit"`
	PayURL          string          `json:"pay_url,omitempty"`
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo     domain.Repository
	avail    *GetAvailability
	picker   *PickBarber
	gateway  domain.Gateway
	notifier notify.Notifier
	audit    *audit.Dispatcher
	clk      clock.Clock
	logger   *slog.Logger
}

func NewCreateBooking(
	repo domain.Repository,
	avail *GetAvailability,
	picker *PickBarber,
	gateway domain.Gateway,
	notifier notify.Notifier,
	auditDisp *audit.Dispatcher,
	clk clock.Clock,
	logger *slog.Logger,
) *CreateBooking {
	return &CreateBooking{
		repo:     repo,
		avail:    avail,
		picker:   picker,
		gateway:  gateway,
		notifier: notifier,
		audit:    auditDisp,
		clk:      clk,
		logger:   logger,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*CreateBookingOutput, error) {

	cfg, err := uc.repo.GetConfig(ctx)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 1) Entrada
	// --------------------------------------------------
	if !domain.ValidHM(in.Time) {
		return nil, httperr.ErrValidation("invalid_time")
	}

	loc := timezone.Location(cfg.Timezone)
	date, err := time.ParseInLocation("2006-01-02", in.Date, loc)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date")
	}

	phone := validators.NormalizePhone(in.ClientPhone)
	if phone == "" {
		return nil, httperr.ErrValidation("invalid_phone")
	}

	// --------------------------------------------------
	// 2) Cliente registrado e verificado (pré-condição;
	//    identidade não nasce do próprio agendamento)
	// --------------------------------------------------
	client, err := uc.repo.FindClientByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if !client.Verified {
		return nil, httperr.ErrValidation("phone_not_verified")
	}

	// --------------------------------------------------
	// 3) Serviço
	// --------------------------------------------------
	service, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if !service.Active {
		return nil, httperr.ErrValidation("service_inactive")
	}

	price := in.Price
	if price <= 0 {
		price = service.Price
	}

	// --------------------------------------------------
	// 4) O horário pedido precisa estar na lista resolvida
	//    (horas, bloqueios, ocupação, antecedência)
	// --------------------------------------------------
	res, err := uc.avail.Execute(ctx, GetAvailabilityInput{
		Date:     in.Date,
		BarberID: in.BarberID,
	})
	if err != nil {
		return nil, err
	}
	if !res.Bookable || !slices.Contains(res.Slots, in.Time) {
		return nil, httperr.ErrConflict("slot_taken")
	}

	// --------------------------------------------------
	// 5) Barbeiro: fixado (re-checa ocupação) ou balanceado
	// --------------------------------------------------
	now := uc.clk.Now()

	var barber *models.User
	if in.BarberID != nil {
		barber, err = uc.repo.GetBarber(ctx, *in.BarberID)
		if err != nil {
			return nil, err
		}
		if !barber.Active {
			return nil, httperr.ErrValidation("barber_inactive")
		}

		taken, err := uc.repo.IsSlotTaken(ctx, barber.ID, date, in.Time, now)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, httperr.ErrConflict("slot_taken")
		}
	} else {
		barber, err = uc.picker.Execute(ctx, date, in.Time, now)
		if err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// 6) Política de sinal
	// --------------------------------------------------
	priorBookings, err := uc.repo.CountClientBookings(ctx, client.ID)
	if err != nil {
		return nil, err
	}

	requiresDeposit := domain.RequiresDeposit(
		cfg.DepositMode,
		priorBookings == 0,
		service.Premium,
	)

	// --------------------------------------------------
	// 7) Criação — o índice único é quem garante o slot
	// --------------------------------------------------
	start := SlotTime(date, in.Time)
	end := start.Add(time.Duration(service.DurationMin) * time.Minute)

	b := &models.Booking{
		ClientID:        client.ID,
		BarberID:        barber.ID,
		ServiceID:       service.ID,
		Date:            date,
		StartTime:       in.Time,
		StartAt:         start,
		EndAt:           end,
		Price:           price,
		RequiresDeposit: requiresDeposit,
		CancelToken:     uuid.NewString(),
	}

	if requiresDeposit {
		deadline := now.Add(domain.HoldWindow)
		b.Status = string(domain.StatusPending)
		b.ExpiresAt = &deadline
	} else {
		b.Status = string(domain.StatusReserved)
	}

	if err := uc.repo.CreateBooking(ctx, b); err != nil {
		if httperr.IsKind(err, httperr.KindConflict) {
			// O pré-filtro disse livre e o índice discordou: writers
			// concorrentes. Log alto, conflito normal para o caller.
			uc.logger.Error("occupancy pre-filter disagreed with unique index",
				"barber_id", barber.ID,
				"date", in.Date,
				"time", in.Time,
			)
		}
		return nil, err
	}

	out := &CreateBookingOutput{
		Booking:         b,
		RequiresDeposit: requiresDeposit,
	}

	// --------------------------------------------------
	// 8) Sinal: intent no gateway; falha compensa apagando
	//    o booking recém-criado (nunca fica hold órfão)
	// --------------------------------------------------
	if requiresDeposit {
		amount := domain.DepositAmount(price, cfg.DepositPercent)

		intent, err := uc.gateway.CreateIntent(ctx, domain.IntentInput{
			Amount:      amount,
			Description: fmt.Sprintf("Seña — %s", service.Name),
			PayerEmail:  client.Email,
			PayerName:   client.Name,
			Reference:   fmt.Sprintf("%d", b.ID),
		})
		if err != nil {
			uc.compensate(ctx, b.ID)
			return nil, err
		}

		deposit := &models.Deposit{
			BookingID:    b.ID,
			ClientID:     client.ID,
			Amount:       amount,
			TotalAmount:  price,
			Percentage:   cfg.DepositPercent,
			Status:       string(domain.DepositPending),
			PreferenceID: intent.PreferenceID,
			PayURL:       intent.PayURL,
		}
		if err := uc.repo.CreateDeposit(ctx, deposit); err != nil {
			uc.compensate(ctx, b.ID)
			return nil, err
		}

		out.PayURL = intent.PayURL
	}

	// --------------------------------------------------
	// 9) Aviso ao cliente (nunca falha a operação)
	// --------------------------------------------------
	msg := fmt.Sprintf(
		"Turno %s às %s com %s confirmado.",
		in.Date, in.Time, barber.Name,
	)
	if requiresDeposit {
		msg = fmt.Sprintf(
			"Turno %s às %s com %s aguardando seña. Pague em até %d minutos: %s",
			in.Date, in.Time, barber.Name,
			int(domain.HoldWindow.Minutes()), out.PayURL,
		)
	}
	if err := uc.notifier.Send(client.Phone, msg); err != nil {
		uc.logger.Warn("booking notification failed", "booking_id", b.ID, "err", err)
	}

	uc.audit.Dispatch(audit.Event{
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return out, nil
}

// compensate desfaz a criação parcial quando o gateway falha.
func (uc *CreateBooking) compensate(ctx context.Context, bookingID uint) {
	if err := uc.repo.DeleteDepositForBooking(ctx, bookingID); err != nil {
		uc.logger.Error("compensation: delete deposit failed", "booking_id", bookingID, "err", err)
	}
	if err := uc.repo.DeleteBooking(ctx, bookingID); err != nil {
		uc.logger.Error("compensation: delete booking failed", "booking_id", bookingID, "err", err)
	}
}
