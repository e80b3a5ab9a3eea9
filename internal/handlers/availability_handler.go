package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	ucbooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type AvailabilityHandler struct {
	avail *ucbooking.GetAvailability
}

func NewAvailabilityHandler(avail *ucbooking.GetAvailability) *AvailabilityHandler {
	return &AvailabilityHandler{avail: avail}
}

// GET /api/public/availability?date=2026-09-01&barber_id=3
func (h *AvailabilityHandler) Get(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Informe a data (YYYY-MM-DD).")
		return
	}

	var barberID *uint
	if raw := c.Query("barber_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_barber_id", "barber_id inválido.")
			return
		}
		v := uint(id)
		barberID = &v
	}

	res, err := h.avail.Execute(c.Request.Context(), ucbooking.GetAvailabilityInput{
		Date:     dateStr,
		BarberID: barberID,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"date":     dateStr,
		"bookable": res.Bookable,
		"slots":    res.Slots,
		"reason":   res.Reason,
	})
}
