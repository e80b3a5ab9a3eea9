package models

import "time"

const (
	BlackoutFullDay   = "full_day"
	BlackoutTimeRange = "time_range"
)

// Janela de bloqueio (feriado, ausência). BarberID nulo = bloqueio do
// negócio inteiro. Kind full_day zera o dia; time_range remove os
// slots cujo início cai em [TimeStart, TimeEnd).
type BlackoutWindow struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarberID *uint `json:"barber_id"`

	DateStart time.Time `gorm:"type:date" json:"date_start"`
	DateEnd   time.Time `gorm:"type:date" json:"date_end"`

	Kind      string `gorm:"size:20" json:"kind"`
	TimeStart string `gorm:"size:5" json:"time_start"`
	TimeEnd   string `gorm:"size:5" json:"time_end"`

	Reason string `gorm:"size:255" json:"reason"`
	Active bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
