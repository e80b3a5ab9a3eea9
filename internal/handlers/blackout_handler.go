package handlers

import (
	"time"

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

type BlackoutHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewBlackoutHandler(db *gorm.DB, auditDisp *audit.Dispatcher) *BlackoutHandler {
	return &BlackoutHandler{db: db, audit: auditDisp}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBlackoutRequest struct {
	BarberID *uint `json:"barber_id"`

	DateStart string `json:"date_start" binding:"required"`
	DateEnd   string `json:"date_end"`

	Kind      string `json:"kind" binding:"required,oneof=full_day time_range"`
	TimeStart string `json:"time_start"`
	TimeEnd   string `json:"time_end"`

	Reason string `json:"reason"`
}

// ======================================================
// HANDLERS
// ======================================================

// GET /api/app/blackouts
func (h *BlackoutHandler) List(c *gin.Context) {
	q := h.db.Model(&models.BlackoutWindow{}).Where("active = ?", true)

	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			q = q.Where("date_end >= ?", t)
		}
	}

	var windows []models.BlackoutWindow
	if err := q.Order("date_start ASC").Find(&windows).Error; err != nil {
		httperr.Internal(c, "blackout_list_failed", "Erro ao listar bloqueios.")
		return
	}

	c.JSON(200, gin.H{"blackouts": windows})
}

// POST /api/app/blackouts
func (h *BlackoutHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateBlackoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	dateStart, err := time.Parse("2006-01-02", req.DateStart)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "date_start deve ser YYYY-MM-DD.")
		return
	}

	dateEnd := dateStart
	if req.DateEnd != "" {
		dateEnd, err = time.Parse("2006-01-02", req.DateEnd)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "date_end deve ser YYYY-MM-DD.")
			return
		}
	}
	if dateEnd.Before(dateStart) {
		httperr.BadRequest(c, "invalid_range", "date_end antes de date_start.")
		return
	}

	window := models.BlackoutWindow{
		BarberID:  req.BarberID,
		DateStart: dateStart,
		DateEnd:   dateEnd,
		Kind:      req.Kind,
		Reason:    req.Reason,
		Active:    true,
	}

	if req.Kind == models.BlackoutTimeRange {
		if !domain.ValidHM(req.TimeStart) || !domain.ValidHM(req.TimeEnd) {
			httperr.BadRequest(c, "invalid_time", "Horário deve ser HH:mm.")
			return
		}
		if !domain.HMBefore(req.TimeStart, req.TimeEnd) {
			httperr.BadRequest(c, "invalid_range", "Início deve vir antes do fim.")
			return
		}
		window.TimeStart = req.TimeStart
		window.TimeEnd = req.TimeEnd
	}

	if err := h.db.Create(&window).Error; err != nil {
		httperr.Internal(c, "blackout_create_failed", "Erro ao criar bloqueio.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "blackout_created",
		Entity:   "blackout_window",
		EntityID: &window.ID,
	})

	c.JSON(201, window)
}

// DELETE /api/app/blackouts/:id
//
// Soft delete: a janela some da resolução mas fica no histórico.
func (h *BlackoutHandler) Deactivate(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	res := h.db.Model(&models.BlackoutWindow{}).
		Where("id = ? AND active = ?", id, true).
		Update("active", false)
	if res.Error != nil {
		httperr.Internal(c, "blackout_delete_failed", "Erro ao remover bloqueio.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "blackout_not_found", "Bloqueio não encontrado.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "blackout_deactivated",
		Entity:   "blackout_window",
		EntityID: &id,
	})

	c.JSON(200, gin.H{"status": "deactivated"})
}
