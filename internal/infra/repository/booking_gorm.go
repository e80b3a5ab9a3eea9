package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Predicado de ocupação: reserved, ou pending cujo prazo ainda vale.
// Pendente vencido não segura slot (é recuperado lazy pela varredura).
const occupiedCond = "(status = 'reserved' OR (status = 'pending' AND expires_at > ?))"

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Config
// --------------------------------------------------

func (r *BookingGormRepository) GetConfig(
	ctx context.Context,
) (*models.BusinessConfig, error) {

	var cfg models.BusinessConfig
	if err := r.db.WithContext(ctx).
		FirstOrCreate(&cfg, models.BusinessConfig{ID: 1}).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *BookingGormRepository) UpdateConfig(
	ctx context.Context,
	cfg *models.BusinessConfig,
) error {
	return r.db.WithContext(ctx).Save(cfg).Error
}

// --------------------------------------------------
// Horários e bloqueios
// --------------------------------------------------

func (r *BookingGormRepository) GetRule(
	ctx context.Context,
	barberID *uint,
	weekday int,
) (*models.AvailabilityRule, error) {

	q := r.db.WithContext(ctx).Where("weekday = ? AND active", weekday)
	if barberID == nil {
		q = q.Where("barber_id IS NULL")
	} else {
		q = q.Where("barber_id = ?", *barberID)
	}

	var rule models.AvailabilityRule
	if err := q.First(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *BookingGormRepository) ListBlackouts(
	ctx context.Context,
	date time.Time,
	barberID *uint,
) ([]models.BlackoutWindow, error) {

	day := date.Format("2006-01-02")

	q := r.db.WithContext(ctx).
		Where("active AND date_start <= ? AND date_end >= ?", day, day)

	if barberID == nil {
		q = q.Where("barber_id IS NULL")
	} else {
		q = q.Where("barber_id IS NULL OR barber_id = ?", *barberID)
	}

	var windows []models.BlackoutWindow
	if err := q.Find(&windows).Error; err != nil {
		return nil, err
	}
	return windows, nil
}

// --------------------------------------------------
// Ocupação
// --------------------------------------------------

func (r *BookingGormRepository) OccupiedSlotCounts(
	ctx context.Context,
	date time.Time,
	barberID *uint,
	now time.Time,
) (map[string]int, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select("start_time, COUNT(*) AS total").
		Where("date = ?", date.Format("2006-01-02")).
		Where(occupiedCond, now).
		Group("start_time")

	if barberID != nil {
		q = q.Where("barber_id = ?", *barberID)
	}

	var rows []struct {
		StartTime string
		Total     int
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.StartTime] = row.Total
	}
	return counts, nil
}

func (r *BookingGormRepository) IsSlotTaken(
	ctx context.Context,
	barberID uint,
	date time.Time,
	startTime string,
	now time.Time,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("barber_id = ? AND date = ? AND start_time = ?",
			barberID, date.Format("2006-01-02"), startTime).
		Where(occupiedCond, now).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *BookingGormRepository) CountOccupiedForDay(
	ctx context.Context,
	barberID uint,
	date time.Time,
	now time.Time,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("barber_id = ? AND date = ?", barberID, date.Format("2006-01-02")).
		Where(occupiedCond, now).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// --------------------------------------------------
// Barbeiros / serviços / clientes
// --------------------------------------------------

func (r *BookingGormRepository) ListActiveBarbers(
	ctx context.Context,
) ([]models.User, error) {

	var barbers []models.User
	if err := r.db.WithContext(ctx).
		Where("active").
		Order("id ASC").
		Find(&barbers).Error; err != nil {
		return nil, err
	}
	return barbers, nil
}

func (r *BookingGormRepository) GetBarber(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var barber models.User
	if err := r.db.WithContext(ctx).First(&barber, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("barber_not_found")
		}
		return nil, err
	}
	return &barber, nil
}

func (r *BookingGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).First(&service, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("service_not_found")
		}
		return nil, err
	}
	return &service, nil
}

func (r *BookingGormRepository) FindClientByPhone(
	ctx context.Context,
	phone string,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("client_not_registered")
		}
		return nil, err
	}
	return &client, nil
}

func (r *BookingGormRepository) CreateClient(
	ctx context.Context,
	client *models.Client,
) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *BookingGormRepository) CountClientBookings(
	ctx context.Context,
	clientID uint,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("client_id = ? AND status <> 'cancelled'", clientID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {

	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		// Índice único de ocupação disparou: dois writers disputaram o
		// mesmo slot e o pré-filtro não viu. Vira conflito na borda.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return httperr.ErrConflict("slot_taken")
		}
		return err
	}
	return nil
}

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("booking_not_found")
		}
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) GetBookingByToken(
	ctx context.Context,
	token string,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where("cancel_token = ?", token).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("booking_not_found")
		}
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *BookingGormRepository) UpdateBookingIfStatus(
	ctx context.Context,
	b *models.Booking,
	expected domain.Status,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", b.ID, string(expected)).
		Updates(map[string]any{
			"status":                b.Status,
			"cancelled_at":          b.CancelledAt,
			"completed_at":          b.CompletedAt,
			"reminder_sent":         b.ReminderSent,
			"payment_reminder_sent": b.PaymentReminderSent,
		})

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *BookingGormRepository) DeleteBooking(
	ctx context.Context,
	id uint,
) error {
	return r.db.WithContext(ctx).Delete(&models.Booking{}, id).Error
}

func (r *BookingGormRepository) ListBookingsForDay(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where(
			"barber_id = ? AND start_at >= ? AND start_at < ?",
			barberID, start, end,
		).
		Order("start_at ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// --------------------------------------------------
// Deposit
// --------------------------------------------------

func (r *BookingGormRepository) CreateDeposit(
	ctx context.Context,
	d *models.Deposit,
) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *BookingGormRepository) UpdateDeposit(
	ctx context.Context,
	d *models.Deposit,
) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *BookingGormRepository) GetDepositForBooking(
	ctx context.Context,
	bookingID uint,
) (*models.Deposit, error) {

	var d models.Deposit
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("deposit_not_found")
		}
		return nil, err
	}
	return &d, nil
}

func (r *BookingGormRepository) DeleteDepositForBooking(
	ctx context.Context,
	bookingID uint,
) error {
	return r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Delete(&models.Deposit{}).Error
}

// --------------------------------------------------
// Varredura
// --------------------------------------------------

func (r *BookingGormRepository) ListRemindableBookings(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Where(
			"status = 'reserved' AND NOT reminder_sent AND start_at > ? AND start_at <= ?",
			from, to,
		).
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) ListPendingForNudge(
	ctx context.Context,
	createdFrom time.Time,
	createdTo time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Where(
			"status = 'pending' AND NOT payment_reminder_sent AND created_at >= ? AND created_at <= ?",
			createdFrom, createdTo,
		).
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) ListElapsedReserved(
	ctx context.Context,
	now time.Time,
	lookbackDays int,
) ([]models.Booking, error) {

	floor := now.AddDate(0, 0, -lookbackDays)

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Where(
			"status = 'reserved' AND end_at <= ? AND end_at >= ?",
			now, floor,
		).
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) ListExpiredPending(
	ctx context.Context,
	now time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Barber").
		Where(
			"status = 'pending' AND expires_at IS NOT NULL AND expires_at <= ?",
			now,
		).
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
