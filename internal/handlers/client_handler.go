package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type ClientHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewClientHandler(db *gorm.DB, auditDisp *audit.Dispatcher) *ClientHandler {
	return &ClientHandler{db: db, audit: auditDisp}
}

// ======================================================
// REQUESTS
// ======================================================

type RegisterClientRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
}

// ======================================================
// HANDLERS
// ======================================================

// POST /api/public/clients
//
// O agendamento exige cliente já registrado e verificado; este é o
// registro. A verificação real do telefone (código por mensagem) fica
// do lado do canal de atendimento, então o registro já nasce
// verificado aqui.
func (h *ClientHandler) Register(c *gin.Context) {
	var req RegisterClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	phone := validators.NormalizePhone(req.Phone)
	if phone == "" {
		httperr.BadRequest(c, "invalid_phone", "Telefone inválido.")
		return
	}

	var existing models.Client
	err := h.db.Where("phone = ?", phone).First(&existing).Error
	if err == nil {
		// Registro repetido é no-op: devolve o cliente existente.
		c.JSON(200, existing)
		return
	}
	if err != gorm.ErrRecordNotFound {
		httperr.Internal(c, "client_lookup_failed", "Erro ao buscar cliente.")
		return
	}

	client := models.Client{
		Name:     strings.TrimSpace(req.Name),
		Phone:    phone,
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Verified: true,
	}

	if err := h.db.Create(&client).Error; err != nil {
		httperr.Internal(c, "client_create_failed", "Erro ao registrar cliente.")
		return
	}

	h.audit.Dispatch(audit.Event{
		Action:   "client_registered",
		Entity:   "client",
		EntityID: &client.ID,
	})

	c.JSON(201, client)
}

// GET /api/app/clients?query=maria
func (h *ClientHandler) List(c *gin.Context) {
	q := h.db.Model(&models.Client{})

	if query := strings.TrimSpace(c.Query("query")); query != "" {
		q = q.Where("name ILIKE ? OR phone LIKE ?", "%"+query+"%", "%"+query+"%")
	}

	var clients []models.Client
	if err := q.Order("name ASC").Limit(200).Find(&clients).Error; err != nil {
		httperr.Internal(c, "client_list_failed", "Erro ao listar clientes.")
		return
	}

	c.JSON(200, gin.H{"clients": clients})
}
