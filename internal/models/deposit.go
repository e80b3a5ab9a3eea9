package models

import "time"

// Sinal pago antecipado via Mercado Pago. O ciclo de vida é dirigido
// apenas pelo webhook do gateway e pelos use cases — nunca por request
// direto do cliente.
type Deposit struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BookingID uint    `gorm:"uniqueIndex" json:"booking_id"`
	Booking   Booking `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	ClientID uint   `json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Amount      float64 `json:"amount"`
	TotalAmount float64 `json:"total_amount"`
	Percentage  int     `json:"percentage"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	// PreferenceID identifica o checkout criado; GatewayPaymentID só é
	// conhecido quando o webhook chega.
	PreferenceID     string `gorm:"size:100" json:"preference_id"`
	GatewayPaymentID string `gorm:"size:100;index" json:"gateway_payment_id"`
	PayURL           string `gorm:"size:500" json:"pay_url"`

	Applied  bool `gorm:"default:false" json:"applied"`
	Refunded bool `gorm:"default:false" json:"refunded"`

	PaidAt *time.Time `json:"paid_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
