package models

import "time"

// Regra de horário de atendimento. BarberID nulo = horário geral do
// negócio; preenchido = horário específico do barbeiro, que substitui
// (não mescla) o geral naquele dia da semana.
//
// Invariante: no máximo uma regra ativa por (escopo, weekday) —
// garantida por índice único parcial criado em internal/db.
type AvailabilityRule struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarberID *uint `json:"barber_id"`

	Weekday int `json:"weekday"`

	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`
	Active    bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
