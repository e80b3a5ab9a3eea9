package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type ServiceHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewServiceHandler(db *gorm.DB, auditDisp *audit.Dispatcher) *ServiceHandler {
	return &ServiceHandler{db: db, audit: auditDisp}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	DurationMin int     `json:"duration_min" binding:"required,min=5"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Premium     bool    `json:"premium"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	DurationMin *int     `json:"duration_min" binding:"omitempty,min=5"`
	Price       *float64 `json:"price" binding:"omitempty,gt=0"`
	Premium     *bool    `json:"premium"`
	Active      *bool    `json:"active"`
}

// ======================================================
// HANDLERS
// ======================================================

// GET /api/public/services — catálogo para o fluxo de agendamento.
func (h *ServiceHandler) ListActive(c *gin.Context) {
	var services []models.Service
	if err := h.db.
		Where("active = ?", true).
		Order("name ASC").
		Find(&services).Error; err != nil {

		httperr.Internal(c, "service_list_failed", "Erro ao listar serviços.")
		return
	}

	c.JSON(200, gin.H{"services": services})
}

// GET /api/app/services?query=corte&active=true
func (h *ServiceHandler) List(c *gin.Context) {
	q := h.db.Model(&models.Service{})

	if query := strings.TrimSpace(c.Query("query")); query != "" {
		q = q.Where("name ILIKE ?", "%"+query+"%")
	}
	if active := c.Query("active"); active != "" {
		q = q.Where("active = ?", active == "true")
	}

	var services []models.Service
	if err := q.Order("name ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "service_list_failed", "Erro ao listar serviços.")
		return
	}

	c.JSON(200, gin.H{"services": services})
}

// POST /api/app/services
func (h *ServiceHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	service := models.Service{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		DurationMin: req.DurationMin,
		Price:       req.Price,
		Premium:     req.Premium,
		Active:      true,
	}

	if err := h.db.Create(&service).Error; err != nil {
		httperr.Internal(c, "service_create_failed", "Erro ao criar serviço.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "service_created",
		Entity:   "service",
		EntityID: &service.ID,
	})

	c.JSON(201, service)
}

// PATCH /api/app/services/:id
func (h *ServiceHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	var service models.Service
	if err := h.db.First(&service, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
			return
		}
		httperr.Internal(c, "service_load_failed", "Erro ao carregar serviço.")
		return
	}

	if req.Name != nil {
		service.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.DurationMin != nil {
		service.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		service.Price = *req.Price
	}
	if req.Premium != nil {
		service.Premium = *req.Premium
	}
	if req.Active != nil {
		service.Active = *req.Active
	}

	if err := h.db.Save(&service).Error; err != nil {
		httperr.Internal(c, "service_update_failed", "Erro ao salvar serviço.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "service_updated",
		Entity:   "service",
		EntityID: &service.ID,
	})

	c.JSON(200, service)
}
