package booking

// AvailabilityResult é o contrato de GetAvailableSlots: Bookable falso
// vem com Reason explicando o curto-circuito.
type AvailabilityResult struct {
	Bookable bool     `json:"bookable"`
	Slots    []string `json:"slots"`
	Reason   string   `json:"reason,omitempty"`
}

func Unavailable(reason string) *AvailabilityResult {
	return &AvailabilityResult{
		Bookable: false,
		Slots:    []string{},
		Reason:   reason,
	}
}
