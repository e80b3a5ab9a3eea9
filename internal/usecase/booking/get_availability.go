package booking

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/clock"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type GetAvailabilityInput struct {
	Date     string // "2006-01-02"
	BarberID *uint
}

// ======================================================
// USE CASE
// ======================================================

type GetAvailability struct {
	repo domain.Repository
	clk  clock.Clock
}

func NewGetAvailability(repo domain.Repository, clk clock.Clock) *GetAvailability {
	return &GetAvailability{repo: repo, clk: clk}
}

// Execute resolve os slots reserváveis da data. Cada etapa pode
// curto-circuitar para um resultado vazio com o motivo:
// weekday bloqueado → regra geral → override do barbeiro (substitui,
// não mescla) → grade → bloqueios → ocupação → antecedência de hoje.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in GetAvailabilityInput,
) (*domain.AvailabilityResult, error) {

	cfg, err := uc.repo.GetConfig(ctx)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(cfg.Timezone)
	date, err := time.ParseInLocation("2006-01-02", in.Date, loc)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date")
	}

	weekday := int(date.Weekday())

	// 1) dia permanentemente fechado
	if weekdayBlocked(cfg.BlockedWeekdays, weekday) {
		return domain.Unavailable("blocked_weekday"), nil
	}

	// 2) horário geral do dia
	general, err := uc.repo.GetRule(ctx, nil, weekday)
	if err != nil {
		return nil, err
	}
	if general == nil {
		return domain.Unavailable("no_hours_configured"), nil
	}

	// 3) horário específico do barbeiro substitui o geral
	hours := general
	if in.BarberID != nil {
		override, err := uc.repo.GetRule(ctx, in.BarberID, weekday)
		if err != nil {
			return nil, err
		}
		if override != nil {
			hours = override
		}
	}

	// 4) grade de candidatos
	grid := domain.TimeGrid(hours.StartTime, hours.EndTime, cfg.SlotDurationMin)
	if len(grid) == 0 {
		return domain.Unavailable("no_hours_configured"), nil
	}

	// 5) bloqueios ativos
	blackouts, err := uc.repo.ListBlackouts(ctx, date, in.BarberID)
	if err != nil {
		return nil, err
	}
	grid = subtractBlackouts(grid, blackouts)
	if len(grid) == 0 {
		return domain.Unavailable("blackout"), nil
	}

	// 6) slots já ocupados. Sem barbeiro fixado, um slot só sai da
	// lista quando todos os barbeiros ativos estão ocupados nele.
	now := uc.clk.Now()

	capacity := 1
	if in.BarberID == nil {
		barbers, err := uc.repo.ListActiveBarbers(ctx)
		if err != nil {
			return nil, err
		}
		if len(barbers) == 0 {
			return domain.Unavailable("no_active_barbers"), nil
		}
		capacity = len(barbers)
	}

	counts, err := uc.repo.OccupiedSlotCounts(ctx, date, in.BarberID, now)
	if err != nil {
		return nil, err
	}

	free := make([]string, 0, len(grid))
	for _, slot := range grid {
		if counts[slot] < capacity {
			free = append(free, slot)
		}
	}

	// 7) hoje: corta slots a menos de MinSameDayLead de agora
	if sameDay(date, now) {
		cutoff := now.Add(domain.MinSameDayLead)
		kept := free[:0]
		for _, slot := range free {
			if !SlotTime(date, slot).Before(cutoff) {
				kept = append(kept, slot)
			}
		}
		free = kept
	}

	if len(free) == 0 {
		return domain.Unavailable("no_slots"), nil
	}

	return &domain.AvailabilityResult{
		Bookable: true,
		Slots:    free,
	}, nil
}

// ======================================================
// HELPERS
// ======================================================

func weekdayBlocked(csv string, weekday int) bool {
	for _, part := range strings.Split(csv, ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil && n == weekday {
			return true
		}
	}
	return false
}

func subtractBlackouts(grid []string, windows []models.BlackoutWindow) []string {
	for _, w := range windows {
		if w.Kind == models.BlackoutFullDay {
			return nil
		}
	}

	kept := grid[:0]
	for _, slot := range grid {
		blocked := false
		for _, w := range windows {
			if w.Kind != models.BlackoutTimeRange {
				continue
			}
			// Início do slot em [TimeStart, TimeEnd).
			if !domain.HMBefore(slot, w.TimeStart) && domain.HMBefore(slot, w.TimeEnd) {
				blocked = true
				break
			}
		}
		if !blocked {
			kept = append(kept, slot)
		}
	}
	return kept
}

// SlotTime combina a data com um horário "HH:mm" no mesmo timezone.
func SlotTime(date time.Time, hm string) time.Time {
	t, _ := time.Parse("15:04", hm)
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0,
		date.Location(),
	)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}
