package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	ucbooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	create   *ucbooking.CreateBooking
	cancel   *ucbooking.CancelBooking
	complete *ucbooking.CompleteBooking
	list     *ucbooking.ListBookingsByDate
}

func NewBookingHandler(
	create *ucbooking.CreateBooking,
	cancel *ucbooking.CancelBooking,
	complete *ucbooking.CompleteBooking,
	list *ucbooking.ListBookingsByDate,
) *BookingHandler {
	return &BookingHandler{
		create:   create,
		cancel:   cancel,
		complete: complete,
		list:     list,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	ClientPhone string `json:"client_phone" binding:"required"`

	ServiceID uint  `json:"service_id" binding:"required"`
	BarberID  *uint `json:"barber_id"`

	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`

	Price float64 `json:"price"`
}

// ======================================================
// PUBLIC
// ======================================================

// POST /api/public/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	out, err := h.create.Execute(c.Request.Context(), ucbooking.CreateBookingInput{
		ClientPhone: req.ClientPhone,
		ServiceID:   req.ServiceID,
		BarberID:    req.BarberID,
		Date:        req.Date,
		Time:        req.Time,
		Price:       req.Price,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(201, out)
}

// GET /api/public/bookings/cancel/:token
//
// O link chega por mensagem, então o cancelamento precisa funcionar
// num GET sem corpo nem login.
func (h *BookingHandler) CancelByToken(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		httperr.BadRequest(c, "missing_token", "Token de cancelamento ausente.")
		return
	}

	out, err := h.cancel.ExecuteByToken(c.Request.Context(), token)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, out)
}

// ======================================================
// ADMIN
// ======================================================

// GET /api/app/bookings?date=2026-09-01
func (h *BookingHandler) ListByDate(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Informe a data (YYYY-MM-DD).")
		return
	}

	items, err := h.list.Execute(c.Request.Context(), userID, dateStr)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, items)
}

// POST /api/app/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	out, err := h.cancel.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, out)
}

// POST /api/app/bookings/:id/complete
func (h *BookingHandler) Complete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	b, err := h.complete.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, b)
}

func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return 0, err
	}
	return uint(id), nil
}
