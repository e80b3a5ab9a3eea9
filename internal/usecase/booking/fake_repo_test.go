package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// fakeRepo guarda tudo em memória e reproduz a semântica de ocupação
// do repositório real (reserved, ou pending com prazo vivo).
type fakeRepo struct {
	cfg       models.BusinessConfig
	rules     []models.AvailabilityRule
	blackouts []models.BlackoutWindow
	barbers   []models.User
	services  map[uint]models.Service
	clients   map[string]models.Client

	bookings map[uint]*models.Booking
	deposits map[uint]*models.Deposit // por booking ID
	nextID   uint

	// Força conflito no CreateBooking, simulando o índice único
	// disparando depois de um pré-filtro que disse "livre".
	conflictOnCreate bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		cfg: models.BusinessConfig{
			ID:                    1,
			SlotDurationMin:       45,
			BlockedWeekdays:       "0",
			DepositMode:           models.DepositOff,
			DepositPercent:        50,
			CancellationLeadHours: 24,
			RefundsAllowed:        true,
			Timezone:              "America/Argentina/Buenos_Aires",
		},
		services: map[uint]models.Service{},
		clients:  map[string]models.Client{},
		bookings: map[uint]*models.Booking{},
		deposits: map[uint]*models.Deposit{},
	}
}

// -------- Config --------

func (r *fakeRepo) GetConfig(ctx context.Context) (*models.BusinessConfig, error) {
	cfg := r.cfg
	return &cfg, nil
}

func (r *fakeRepo) UpdateConfig(ctx context.Context, cfg *models.BusinessConfig) error {
	r.cfg = *cfg
	return nil
}

// -------- Horários e bloqueios --------

func (r *fakeRepo) GetRule(
	ctx context.Context,
	barberID *uint,
	weekday int,
) (*models.AvailabilityRule, error) {

	for i := range r.rules {
		rule := r.rules[i]
		if !rule.Active || rule.Weekday != weekday {
			continue
		}
		if barberID == nil && rule.BarberID == nil {
			return &rule, nil
		}
		if barberID != nil && rule.BarberID != nil && *rule.BarberID == *barberID {
			return &rule, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) ListBlackouts(
	ctx context.Context,
	date time.Time,
	barberID *uint,
) ([]models.BlackoutWindow, error) {

	var out []models.BlackoutWindow
	for _, w := range r.blackouts {
		if !w.Active {
			continue
		}
		if sameCalendarDay(date, w.DateStart) ||
			(date.After(w.DateStart) && !date.After(w.DateEnd)) {

			if w.BarberID == nil || (barberID != nil && *w.BarberID == *barberID) {
				out = append(out, w)
			}
		}
	}
	return out, nil
}

// -------- Ocupação --------

func (r *fakeRepo) occupies(b *models.Booking, now time.Time) bool {
	switch domain.Status(b.Status) {
	case domain.StatusReserved:
		return true
	case domain.StatusPending:
		return b.ExpiresAt != nil && b.ExpiresAt.After(now)
	default:
		return false
	}
}

func (r *fakeRepo) OccupiedSlotCounts(
	ctx context.Context,
	date time.Time,
	barberID *uint,
	now time.Time,
) (map[string]int, error) {

	counts := map[string]int{}
	for _, b := range r.bookings {
		if !sameCalendarDay(b.Date, date) || !r.occupies(b, now) {
			continue
		}
		if barberID != nil && b.BarberID != *barberID {
			continue
		}
		counts[b.StartTime]++
	}
	return counts, nil
}

func (r *fakeRepo) IsSlotTaken(
	ctx context.Context,
	barberID uint,
	date time.Time,
	startTime string,
	now time.Time,
) (bool, error) {

	for _, b := range r.bookings {
		if b.BarberID == barberID &&
			sameCalendarDay(b.Date, date) &&
			b.StartTime == startTime &&
			r.occupies(b, now) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) CountOccupiedForDay(
	ctx context.Context,
	barberID uint,
	date time.Time,
	now time.Time,
) (int64, error) {

	var count int64
	for _, b := range r.bookings {
		if b.BarberID == barberID && sameCalendarDay(b.Date, date) && r.occupies(b, now) {
			count++
		}
	}
	return count, nil
}

// -------- Barbeiros / serviços / clientes --------

func (r *fakeRepo) ListActiveBarbers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range r.barbers {
		if u.Active {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetBarber(ctx context.Context, id uint) (*models.User, error) {
	for i := range r.barbers {
		if r.barbers[i].ID == id {
			u := r.barbers[i]
			return &u, nil
		}
	}
	return nil, httperr.ErrNotFound("barber_not_found")
}

func (r *fakeRepo) GetService(ctx context.Context, id uint) (*models.Service, error) {
	if s, ok := r.services[id]; ok {
		return &s, nil
	}
	return nil, httperr.ErrNotFound("service_not_found")
}

func (r *fakeRepo) FindClientByPhone(ctx context.Context, phone string) (*models.Client, error) {
	if c, ok := r.clients[phone]; ok {
		return &c, nil
	}
	return nil, httperr.ErrNotFound("client_not_registered")
}

func (r *fakeRepo) CreateClient(ctx context.Context, client *models.Client) error {
	r.nextID++
	client.ID = r.nextID
	r.clients[client.Phone] = *client
	return nil
}

func (r *fakeRepo) CountClientBookings(ctx context.Context, clientID uint) (int64, error) {
	var count int64
	for _, b := range r.bookings {
		if b.ClientID == clientID {
			count++
		}
	}
	return count, nil
}

// -------- Booking --------

func (r *fakeRepo) CreateBooking(ctx context.Context, b *models.Booking) error {
	if r.conflictOnCreate {
		return httperr.ErrConflict("slot_taken")
	}
	r.nextID++
	b.ID = r.nextID
	clone := *b
	r.bookings[b.ID] = &clone
	return nil
}

func (r *fakeRepo) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	if b, ok := r.bookings[id]; ok {
		clone := *b
		return &clone, nil
	}
	return nil, httperr.ErrNotFound("booking_not_found")
}

func (r *fakeRepo) GetBookingByToken(ctx context.Context, token string) (*models.Booking, error) {
	for _, b := range r.bookings {
		if b.CancelToken == token {
			clone := *b
			return &clone, nil
		}
	}
	return nil, httperr.ErrNotFound("booking_not_found")
}

func (r *fakeRepo) UpdateBooking(ctx context.Context, b *models.Booking) error {
	clone := *b
	r.bookings[b.ID] = &clone
	return nil
}

func (r *fakeRepo) UpdateBookingIfStatus(
	ctx context.Context,
	b *models.Booking,
	expected domain.Status,
) (bool, error) {

	stored, ok := r.bookings[b.ID]
	if !ok || domain.Status(stored.Status) != expected {
		return false, nil
	}
	clone := *b
	r.bookings[b.ID] = &clone
	return true, nil
}

func (r *fakeRepo) DeleteBooking(ctx context.Context, id uint) error {
	delete(r.bookings, id)
	return nil
}

func (r *fakeRepo) ListBookingsForDay(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
) ([]models.Booking, error) {

	var out []models.Booking
	for _, b := range r.bookings {
		if b.BarberID == barberID && !b.StartAt.Before(start) && b.StartAt.Before(end) {
			out = append(out, *b)
		}
	}
	return out, nil
}

// -------- Deposit --------

func (r *fakeRepo) CreateDeposit(ctx context.Context, d *models.Deposit) error {
	r.nextID++
	d.ID = r.nextID
	clone := *d
	r.deposits[d.BookingID] = &clone
	return nil
}

func (r *fakeRepo) UpdateDeposit(ctx context.Context, d *models.Deposit) error {
	clone := *d
	r.deposits[d.BookingID] = &clone
	return nil
}

func (r *fakeRepo) GetDepositForBooking(ctx context.Context, bookingID uint) (*models.Deposit, error) {
	if d, ok := r.deposits[bookingID]; ok {
		clone := *d
		return &clone, nil
	}
	return nil, httperr.ErrNotFound("deposit_not_found")
}

func (r *fakeRepo) DeleteDepositForBooking(ctx context.Context, bookingID uint) error {
	delete(r.deposits, bookingID)
	return nil
}

// -------- Varredura --------

func (r *fakeRepo) ListRemindableBookings(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]models.Booking, error) {

	var out []models.Booking
	for _, b := range r.bookings {
		if domain.Status(b.Status) == domain.StatusReserved &&
			!b.ReminderSent &&
			b.StartAt.After(from) && !b.StartAt.After(to) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListPendingForNudge(
	ctx context.Context,
	createdFrom time.Time,
	createdTo time.Time,
) ([]models.Booking, error) {

	var out []models.Booking
	for _, b := range r.bookings {
		if domain.Status(b.Status) == domain.StatusPending &&
			!b.PaymentReminderSent &&
			!b.CreatedAt.Before(createdFrom) && !b.CreatedAt.After(createdTo) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListElapsedReserved(
	ctx context.Context,
	now time.Time,
	lookbackDays int,
) ([]models.Booking, error) {

	floor := now.AddDate(0, 0, -lookbackDays)
	var out []models.Booking
	for _, b := range r.bookings {
		if domain.Status(b.Status) == domain.StatusReserved &&
			!b.EndAt.After(now) && b.EndAt.After(floor) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListExpiredPending(ctx context.Context, now time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if domain.Status(b.Status) == domain.StatusPending &&
			b.ExpiresAt != nil && !b.ExpiresAt.After(now) {
			out = append(out, *b)
		}
	}
	return out, nil
}

var _ domain.Repository = (*fakeRepo)(nil)

// -------- Helpers --------

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// fakeGateway registra as chamadas e pode falhar sob demanda.
type fakeGateway struct {
	failIntent  bool
	failRefund  bool
	intents     []domain.IntentInput
	refunds     []string
	paymentByID map[string]*domain.GatewayPayment
}

func (g *fakeGateway) CreateIntent(
	ctx context.Context,
	in domain.IntentInput,
) (*domain.PaymentIntent, error) {

	if g.failIntent {
		return nil, httperr.ErrDependency("gateway_intent_failed")
	}
	g.intents = append(g.intents, in)
	return &domain.PaymentIntent{
		PreferenceID: "pref-1",
		PayURL:       "https://mp.example/checkout/pref-1",
	}, nil
}

func (g *fakeGateway) GetPayment(
	ctx context.Context,
	paymentID string,
) (*domain.GatewayPayment, error) {

	if p, ok := g.paymentByID[paymentID]; ok {
		return p, nil
	}
	return nil, httperr.ErrDependency("gateway_get_payment_failed")
}

func (g *fakeGateway) Refund(
	ctx context.Context,
	paymentID string,
	amount float64,
) (*domain.RefundResult, error) {

	if g.failRefund {
		return nil, httperr.ErrDependency("gateway_refund_failed")
	}
	g.refunds = append(g.refunds, paymentID)
	return &domain.RefundResult{ID: "rf-1", Status: "approved"}, nil
}

var _ domain.Gateway = (*fakeGateway)(nil)

// fakeNotifier acumula mensagens enviadas.
type fakeNotifier struct {
	sent []string
}

func (n *fakeNotifier) Send(to, message string) error {
	n.sent = append(n.sent, to+": "+message)
	return nil
}
