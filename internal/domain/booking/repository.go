package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type Repository interface {
	// -------- Config --------

	// GetConfig devolve o singleton, criando a linha default se ainda
	// não existir.
	GetConfig(ctx context.Context) (*models.BusinessConfig, error)

	UpdateConfig(ctx context.Context, cfg *models.BusinessConfig) error

	// -------- Horários e bloqueios --------

	// GetRule busca a regra ativa do weekday; barberID nulo = geral.
	// Devolve (nil, nil) quando não há regra.
	GetRule(
		ctx context.Context,
		barberID *uint,
		weekday int,
	) (*models.AvailabilityRule, error)

	// ListBlackouts devolve os bloqueios ativos cobrindo a data, tanto
	// os do negócio (barber_id nulo) quanto os do barbeiro, se dado.
	ListBlackouts(
		ctx context.Context,
		date time.Time,
		barberID *uint,
	) ([]models.BlackoutWindow, error)

	// -------- Ocupação --------

	// OccupiedSlotCounts conta, por horário "HH:mm", os bookings que
	// seguram slot na data: reserved, ou pending cujo prazo ainda não
	// venceu (pendente vencido não bloqueia — é recuperado lazy).
	OccupiedSlotCounts(
		ctx context.Context,
		date time.Time,
		barberID *uint,
		now time.Time,
	) (map[string]int, error)

	IsSlotTaken(
		ctx context.Context,
		barberID uint,
		date time.Time,
		startTime string,
		now time.Time,
	) (bool, error)

	// CountOccupiedForDay mede a carga do barbeiro no dia (balanceador).
	CountOccupiedForDay(
		ctx context.Context,
		barberID uint,
		date time.Time,
		now time.Time,
	) (int64, error)

	// -------- Barbeiros / serviços / clientes --------

	ListActiveBarbers(ctx context.Context) ([]models.User, error)

	GetBarber(ctx context.Context, id uint) (*models.User, error)

	GetService(ctx context.Context, id uint) (*models.Service, error)

	FindClientByPhone(ctx context.Context, phone string) (*models.Client, error)

	CreateClient(ctx context.Context, client *models.Client) error

	// CountClientBookings alimenta a política new_clients.
	CountClientBookings(ctx context.Context, clientID uint) (int64, error)

	// -------- Booking --------

	// CreateBooking traduz violação do índice único de ocupação em
	// erro de conflito ("slot não está mais disponível").
	CreateBooking(ctx context.Context, b *models.Booking) error

	GetBooking(ctx context.Context, id uint) (*models.Booking, error)

	GetBookingByToken(ctx context.Context, token string) (*models.Booking, error)

	UpdateBooking(ctx context.Context, b *models.Booking) error

	// UpdateBookingIfStatus persiste b somente se a linha ainda estiver
	// no status esperado (check otimista contra varredura concorrente).
	// Devolve false se outro processo mudou o estado antes.
	UpdateBookingIfStatus(
		ctx context.Context,
		b *models.Booking,
		expected Status,
	) (bool, error)

	// DeleteBooking existe só como compensação de criação que falhou.
	DeleteBooking(ctx context.Context, id uint) error

	ListBookingsForDay(
		ctx context.Context,
		barberID uint,
		start time.Time,
		end time.Time,
	) ([]models.Booking, error)

	// -------- Deposit --------

	CreateDeposit(ctx context.Context, d *models.Deposit) error

	UpdateDeposit(ctx context.Context, d *models.Deposit) error

	GetDepositForBooking(ctx context.Context, bookingID uint) (*models.Deposit, error)

	DeleteDepositForBooking(ctx context.Context, bookingID uint) error

	// -------- Varredura --------

	// Reserved com início em (from, to], lembrete ainda não enviado.
	ListRemindableBookings(
		ctx context.Context,
		from time.Time,
		to time.Time,
	) ([]models.Booking, error)

	// Pending criados em [createdFrom, createdTo], aviso não enviado.
	ListPendingForNudge(
		ctx context.Context,
		createdFrom time.Time,
		createdTo time.Time,
	) ([]models.Booking, error)

	// Reserved com fim <= now dentro da janela de lookback.
	ListElapsedReserved(
		ctx context.Context,
		now time.Time,
		lookbackDays int,
	) ([]models.Booking, error)

	// Pending com prazo de pagamento vencido.
	ListExpiredPending(ctx context.Context, now time.Time) ([]models.Booking, error)
}
