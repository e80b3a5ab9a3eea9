package booking

import "github.com/BruksfildServices01/barber-booking/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	// Aguardando pagamento do sinal; expira se o cliente não pagar.
	StatusPending Status = "pending"
	// Confirmado (sem sinal exigido, ou sinal aprovado).
	StatusReserved  Status = "reserved"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ===============================
// Deposit Status
// ===============================

type DepositStatus string

const (
	DepositPending  DepositStatus = "pending"
	DepositApproved DepositStatus = "approved"
	DepositRejected DepositStatus = "rejected"
	DepositRefunded DepositStatus = "refunded"
	DepositExpired  DepositStatus = "expired"
)

// ===============================
// Validations
// ===============================

// Occupies indica se o status segura o slot (pré-filtro; o índice
// parcial no banco usa a mesma lista).
func Occupies(s Status) bool {
	return s == StatusPending || s == StatusReserved
}

func CanCancel(current Status) error {
	if current != StatusPending && current != StatusReserved {
		return httperr.ErrValidation("invalid_state")
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusReserved {
		return httperr.ErrValidation("invalid_state")
	}
	return nil
}

func CanExpire(current Status) error {
	if current != StatusPending {
		return httperr.ErrValidation("invalid_state")
	}
	return nil
}
