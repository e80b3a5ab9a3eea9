package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type ConfigHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewConfigHandler(db *gorm.DB, auditDisp *audit.Dispatcher) *ConfigHandler {
	return &ConfigHandler{db: db, audit: auditDisp}
}

// ======================================================
// REQUESTS
// ======================================================

// Campos ponteiro: só o que veio no corpo é alterado.
type UpdateConfigRequest struct {
	SlotDurationMin *int    `json:"slot_duration_min"`
	BlockedWeekdays *string `json:"blocked_weekdays"`

	DepositMode    *string `json:"deposit_mode" binding:"omitempty,oneof=off all new_clients premium"`
	DepositPercent *int    `json:"deposit_percent" binding:"omitempty,min=1,max=100"`

	CancellationLeadHours *int  `json:"cancellation_lead_hours" binding:"omitempty,min=0"`
	RefundsAllowed        *bool `json:"refunds_allowed"`

	Timezone *string `json:"timezone"`
}

// ======================================================
// HANDLERS
// ======================================================

// GET /api/app/config
func (h *ConfigHandler) Get(c *gin.Context) {
	var cfg models.BusinessConfig
	if err := h.db.FirstOrCreate(&cfg, models.BusinessConfig{ID: 1}).Error; err != nil {
		httperr.Internal(c, "config_load_failed", "Erro ao carregar configuração.")
		return
	}
	c.JSON(200, cfg)
}

// PATCH /api/app/config
func (h *ConfigHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	var cfg models.BusinessConfig
	if err := h.db.FirstOrCreate(&cfg, models.BusinessConfig{ID: 1}).Error; err != nil {
		httperr.Internal(c, "config_load_failed", "Erro ao carregar configuração.")
		return
	}

	if req.SlotDurationMin != nil {
		if *req.SlotDurationMin < 5 || *req.SlotDurationMin > 240 {
			httperr.BadRequest(c, "invalid_slot_duration", "Duração entre 5 e 240 minutos.")
			return
		}
		cfg.SlotDurationMin = *req.SlotDurationMin
	}
	if req.BlockedWeekdays != nil {
		cfg.BlockedWeekdays = *req.BlockedWeekdays
	}
	if req.DepositMode != nil {
		cfg.DepositMode = *req.DepositMode
	}
	if req.DepositPercent != nil {
		cfg.DepositPercent = *req.DepositPercent
	}
	if req.CancellationLeadHours != nil {
		cfg.CancellationLeadHours = *req.CancellationLeadHours
	}
	if req.RefundsAllowed != nil {
		cfg.RefundsAllowed = *req.RefundsAllowed
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Timezone IANA inválido.")
			return
		}
		cfg.Timezone = *req.Timezone
	}

	if err := h.db.Save(&cfg).Error; err != nil {
		httperr.Internal(c, "config_update_failed", "Erro ao salvar configuração.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID: &userID,
		Action: "config_updated",
		Entity: "business_config",
	})

	c.JSON(200, cfg)
}
