package handlers

import (
	"github.com/gin-gonic/gin"

	ucsweep "github.com/BruksfildServices01/barber-booking/internal/usecase/sweep"
)

// SweepHandler dispara a varredura fora do tick (operação de suporte;
// os passos são idempotentes, rodar de novo é inofensivo).
type SweepHandler struct {
	sweep *ucsweep.Sweep
}

func NewSweepHandler(sweep *ucsweep.Sweep) *SweepHandler {
	return &SweepHandler{sweep: sweep}
}

// POST /api/app/sweep/run
func (h *SweepHandler) Run(c *gin.Context) {
	h.sweep.Execute(c.Request.Context())
	c.JSON(200, gin.H{"status": "done"})
}
