package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/usecase/payment"
)

// ======================================================
// HANDLER
// ======================================================

type WebhookHandler struct {
	webhook *payment.HandleWebhook
}

func NewWebhookHandler(webhook *payment.HandleWebhook) *WebhookHandler {
	return &WebhookHandler{webhook: webhook}
}

type mpWebhookPayload struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// POST /api/public/webhooks/mercadopago
//
// Sempre 200: o gateway reenvia em caso de erro e o processamento é
// idempotente, então devolver 5xx só gera tempestade de retries.
func (h *WebhookHandler) MercadoPago(c *gin.Context) {
	var payload mpWebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(200, gin.H{"status": "ignored"})
		return
	}

	err := h.webhook.Execute(c.Request.Context(), payment.WebhookEvent{
		Type:      payload.Type,
		PaymentID: payload.Data.ID,
	})
	if err != nil {
		// Logado no use case; o gateway vai reenviar.
		c.JSON(200, gin.H{"status": "retry_later"})
		return
	}

	c.JSON(200, gin.H{"status": "ok"})
}
