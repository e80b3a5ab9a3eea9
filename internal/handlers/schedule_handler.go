package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

// ScheduleHandler administra as regras de horário. O escopo vem no
// corpo: barber_id nulo edita o horário geral, preenchido edita o
// override do barbeiro.
type ScheduleHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewScheduleHandler(db *gorm.DB, auditDisp *audit.Dispatcher) *ScheduleHandler {
	return &ScheduleHandler{db: db, audit: auditDisp}
}

// ======================================================
// REQUESTS
// ======================================================

type ScheduleDayRequest struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	Active    bool   `json:"active"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type UpdateScheduleRequest struct {
	BarberID *uint                `json:"barber_id"`
	Days     []ScheduleDayRequest `json:"days" binding:"required,dive"`
}

// ======================================================
// HANDLERS
// ======================================================

// GET /api/app/schedule?barber_id=3
func (h *ScheduleHandler) Get(c *gin.Context) {
	q := h.db.Model(&models.AvailabilityRule{})

	if raw := c.Query("barber_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_barber_id", "barber_id inválido.")
			return
		}
		q = q.Where("barber_id = ?", uint(id))
	} else {
		q = q.Where("barber_id IS NULL")
	}

	var rules []models.AvailabilityRule
	if err := q.Order("weekday ASC").Find(&rules).Error; err != nil {
		httperr.Internal(c, "schedule_list_failed", "Erro ao listar horários.")
		return
	}

	c.JSON(200, gin.H{"rules": rules})
}

// PUT /api/app/schedule
//
// Substitui as regras do escopo inteiro de uma vez (apaga e recria na
// mesma transação). O índice único parcial continua valendo para
// writers concorrentes.
func (h *ScheduleHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	seen := map[int]bool{}
	for _, day := range req.Days {
		if seen[day.Weekday] {
			httperr.BadRequest(c, "duplicate_weekday", "Dia da semana repetido.")
			return
		}
		seen[day.Weekday] = true

		if !day.Active {
			continue
		}
		if !domain.ValidHM(day.StartTime) || !domain.ValidHM(day.EndTime) {
			httperr.BadRequest(c, "invalid_time", "Horário deve ser HH:mm.")
			return
		}
		if !domain.HMBefore(day.StartTime, day.EndTime) {
			httperr.BadRequest(c, "invalid_range", "Início deve vir antes do fim.")
			return
		}
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		scope := tx.Where("barber_id IS NULL")
		if req.BarberID != nil {
			scope = tx.Where("barber_id = ?", *req.BarberID)
		}
		if err := scope.Delete(&models.AvailabilityRule{}).Error; err != nil {
			return err
		}

		for _, day := range req.Days {
			if !day.Active {
				continue
			}
			rule := models.AvailabilityRule{
				BarberID:  req.BarberID,
				Weekday:   day.Weekday,
				StartTime: day.StartTime,
				EndTime:   day.EndTime,
				Active:    true,
			}
			if err := tx.Create(&rule).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		httperr.Internal(c, "schedule_update_failed", "Erro ao salvar horários.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID: &userID,
		Action: "schedule_updated",
		Entity: "availability_rule",
		Metadata: map[string]any{
			"barber_id": req.BarberID,
			"days":      len(req.Days),
		},
	})

	c.JSON(200, gin.H{"status": "updated"})
}
