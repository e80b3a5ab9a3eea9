package booking

import (
	"context"
	"math/rand"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ======================================================
// USE CASE
// ======================================================

// PickBarber escolhe o barbeiro quando o cliente não pinou um: entre os
// ativos e livres no slot, o de menor carga no dia; empate sai no
// sorteio.
type PickBarber struct {
	repo domain.Repository

	// intn é injetável para o desempate ser determinístico em teste.
	intn func(n int) int
}

func NewPickBarber(repo domain.Repository) *PickBarber {
	return &PickBarber{
		repo: repo,
		intn: rand.Intn,
	}
}

func (uc *PickBarber) Execute(
	ctx context.Context,
	date time.Time,
	startTime string,
	now time.Time,
) (*models.User, error) {

	barbers, err := uc.repo.ListActiveBarbers(ctx)
	if err != nil {
		return nil, err
	}
	if len(barbers) == 0 {
		return nil, httperr.ErrConflict("no_barber_available")
	}

	type candidate struct {
		barber models.User
		load   int64
	}

	var candidates []candidate
	for _, barber := range barbers {
		taken, err := uc.repo.IsSlotTaken(ctx, barber.ID, date, startTime, now)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}

		blackouts, err := uc.repo.ListBlackouts(ctx, date, &barber.ID)
		if err != nil {
			return nil, err
		}
		if barberBlackedOut(blackouts, startTime) {
			continue
		}

		load, err := uc.repo.CountOccupiedForDay(ctx, barber.ID, date, now)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate{barber: barber, load: load})
	}

	if len(candidates) == 0 {
		return nil, httperr.ErrConflict("slot_taken")
	}

	min := candidates[0].load
	for _, c := range candidates[1:] {
		if c.load < min {
			min = c.load
		}
	}

	var leastLoaded []models.User
	for _, c := range candidates {
		if c.load == min {
			leastLoaded = append(leastLoaded, c.barber)
		}
	}

	pick := leastLoaded[uc.intn(len(leastLoaded))]
	return &pick, nil
}

// barberBlackedOut considera só as janelas do próprio barbeiro; as
// gerais já saíram da grade no resolver de disponibilidade.
func barberBlackedOut(windows []models.BlackoutWindow, slot string) bool {
	for _, w := range windows {
		if w.BarberID == nil {
			continue
		}
		if w.Kind == models.BlackoutFullDay {
			return true
		}
		if w.Kind == models.BlackoutTimeRange &&
			!domain.HMBefore(slot, w.TimeStart) && domain.HMBefore(slot, w.TimeEnd) {
			return true
		}
	}
	return false
}
