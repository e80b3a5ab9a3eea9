package dto

import "time"

type BookingListDTO struct {
	ID              uint      `json:"id"`
	Date            string    `json:"date"`
	StartTime       string    `json:"start_time"`
	StartAt         time.Time `json:"start_at"`
	EndAt           time.Time `json:"end_at"`
	Status          string    `json:"status"`
	ClientName      string    `json:"client_name"`
	ServiceName     string    `json:"service_name"`
	Price           float64   `json:"price"`
	RequiresDeposit bool      `json:"requires_deposit"`
}
