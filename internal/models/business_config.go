package models

import "time"

// Política de sinal antecipado.
const (
	DepositOff        = "off"
	DepositAll        = "all"
	DepositNewClients = "new_clients"
	DepositPremium    = "premium"
)

// BusinessConfig é um singleton: exatamente uma linha, criada no
// primeiro acesso se não existir.
type BusinessConfig struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SlotDurationMin int `gorm:"default:45" json:"slot_duration_min"`

	// Dias da semana permanentemente fechados, CSV de 0..6 (ex.: "0").
	BlockedWeekdays string `gorm:"size:20;default:'0'" json:"blocked_weekdays"`

	DepositMode    string `gorm:"size:20;default:'off'" json:"deposit_mode"`
	DepositPercent int    `gorm:"default:50" json:"deposit_percent"`

	CancellationLeadHours int  `gorm:"default:24" json:"cancellation_lead_hours"`
	RefundsAllowed        bool `gorm:"default:true" json:"refunds_allowed"`

	MPAccessToken string `gorm:"size:255" json:"-"`

	Timezone string `gorm:"size:50;default:'America/Argentina/Buenos_Aires'" json:"timezone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
