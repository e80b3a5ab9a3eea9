package booking

import "context"

// ===============================
// Gateway de pagamento (Mercado Pago)
// ===============================

type IntentInput struct {
	Amount      float64
	Description string
	PayerEmail  string
	PayerName   string
	// Reference liga o pagamento ao booking (external_reference).
	Reference string
}

type PaymentIntent struct {
	PreferenceID string
	PayURL       string
}

type GatewayPayment struct {
	ID        string
	Status    string // approved | rejected | cancelled | pending | in_process
	Amount    float64
	Reference string
}

type RefundResult struct {
	ID     string
	Status string
}

// Gateway abstrai o provedor de pagamento. O webhook entrega só
// {type, paymentId}; o status autoritativo sempre vem de GetPayment.
type Gateway interface {
	CreateIntent(ctx context.Context, in IntentInput) (*PaymentIntent, error)
	GetPayment(ctx context.Context, paymentID string) (*GatewayPayment, error)
	Refund(ctx context.Context, paymentID string, amount float64) (*RefundResult, error)
}
