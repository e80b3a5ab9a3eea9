package booking

import "github.com/BruksfildServices01/barber-booking/internal/models"

// RequiresDeposit decide se o agendamento nasce pendente de sinal.
// Função pura de (política, cliente novo, serviço premium).
func RequiresDeposit(mode string, isNewClient, isPremiumService bool) bool {
	switch mode {
	case models.DepositAll:
		return true
	case models.DepositNewClients:
		return isNewClient
	case models.DepositPremium:
		return isPremiumService
	default:
		return false
	}
}

// DepositAmount calcula o valor do sinal a partir do preço total.
func DepositAmount(total float64, percent int) float64 {
	if percent <= 0 || percent > 100 {
		return 0
	}
	return total * float64(percent) / 100
}
