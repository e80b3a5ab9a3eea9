package booking

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ===============================
// Constantes de agendamento
// ===============================

const (
	// Antecedência mínima para reservar um slot de hoje.
	MinSameDayLead = 25 * time.Minute

	// Janela que um booking pendente segura o slot aguardando o sinal.
	HoldWindow = 15 * time.Minute

	// Antecedência do lembrete pré-atendimento.
	ReminderLead = 30 * time.Minute

	// Janela de idade do booking pendente para o aviso de pagamento.
	// Estreita de propósito: dimensionada ao tick da varredura para não
	// duplicar envios.
	NudgeMinAge = 3 * time.Minute
	NudgeMaxAge = 7 * time.Minute

	// O aviso só sai se ainda faltar pelo menos isto para o atendimento.
	NudgeMinStartLead = 20 * time.Minute

	// Quantos dias para trás a varredura de auto-conclusão olha.
	CompletionLookbackDays = 2
)

// ===============================
// Domain Actions
// ===============================

func Cancel(b *models.Booking, now time.Time) error {
	if err := CanCancel(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusCancelled)
	b.CancelledAt = &now
	return nil
}

func Complete(b *models.Booking, now time.Time) error {
	if err := CanComplete(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusCompleted)
	b.CompletedAt = &now
	return nil
}

// Expire cancela um booking pendente cujo prazo de pagamento venceu.
func Expire(b *models.Booking, now time.Time) error {
	if err := CanExpire(Status(b.Status)); err != nil {
		return err
	}
	if b.ExpiresAt == nil || b.ExpiresAt.After(now) {
		return httperr.ErrValidation("not_expired")
	}

	b.Status = string(StatusCancelled)
	b.CancelledAt = &now
	return nil
}
