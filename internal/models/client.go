package models

import "time"

// Cliente simples, sem login. O telefone é armazenado normalizado e
// precisa estar verificado antes do primeiro agendamento.
type Client struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20;uniqueIndex;not null" json:"phone"`
	Email string `gorm:"size:100" json:"email"`

	Verified bool `gorm:"default:false" json:"verified"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
