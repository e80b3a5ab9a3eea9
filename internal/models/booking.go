package models

import "time"

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint   `json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	BarberID uint `json:"barber_id"`
	Barber   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"barber"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	// Date é o dia do atendimento; StartTime é "HH:mm" no timezone do negócio.
	// StartAt/EndAt são os mesmos instantes como timestamp, usados nas queries
	// de varredura e de período.
	Date      time.Time `gorm:"type:date" json:"date"`
	StartTime string    `gorm:"size:5" json:"start_time"`
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`

	Status string  `gorm:"size:20;default:'pending'" json:"status"`
	Price  float64 `json:"price"`

	RequiresDeposit bool       `json:"requires_deposit"`
	ExpiresAt       *time.Time `json:"expires_at"`

	CancelToken string `gorm:"size:36;uniqueIndex" json:"-"`

	ReminderSent        bool `gorm:"default:false" json:"reminder_sent"`
	PaymentReminderSent bool `gorm:"default:false" json:"payment_reminder_sent"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
