package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type ListBookingsByDate struct {
	repo domain.Repository
}

func NewListBookingsByDate(repo domain.Repository) *ListBookingsByDate {
	return &ListBookingsByDate{repo: repo}
}

func (uc *ListBookingsByDate) Execute(
	ctx context.Context,
	barberID uint,
	dateStr string,
) ([]dto.BookingListDTO, error) {

	cfg, err := uc.repo.GetConfig(ctx)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(cfg.Timezone)
	date, err := time.ParseInLocation("2006-01-02", dateStr, loc)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date")
	}

	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	end := start.Add(24 * time.Hour)

	bookings, err := uc.repo.ListBookingsForDay(ctx, barberID, start, end)
	if err != nil {
		return nil, err
	}

	out := make([]dto.BookingListDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, dto.BookingListDTO{
			ID:              b.ID,
			Date:            b.Date.Format("2006-01-02"),
			StartTime:       b.StartTime,
			StartAt:         b.StartAt,
			EndAt:           b.EndAt,
			Status:          b.Status,
			ClientName:      b.Client.Name,
			ServiceName:     b.Service.Name,
			Price:           b.Price,
			RequiresDeposit: b.RequiresDeposit,
		})
	}

	return out, nil
}
