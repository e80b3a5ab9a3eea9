package models

import "time"

// User é o dono ou um barbeiro. Barbeiros desativados ficam com
// Active=false — nunca são removidos.
type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'barber'" json:"role"`

	Active        bool `gorm:"default:true" json:"active"`
	MonthlyTarget int  `gorm:"default:0" json:"monthly_target"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
