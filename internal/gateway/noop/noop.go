package noop

import (
	"context"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

// Gateway responde "indisponível" para tudo. É o que sobe quando não
// há credencial do Mercado Pago configurada: agendamentos sem seña
// continuam funcionando e qualquer fluxo de pagamento falha limpo.
type Gateway struct{}

func New() *Gateway {
	return &Gateway{}
}

func (Gateway) CreateIntent(context.Context, domain.IntentInput) (*domain.PaymentIntent, error) {
	return nil, httperr.ErrDependency("gateway_disabled")
}

func (Gateway) GetPayment(context.Context, string) (*domain.GatewayPayment, error) {
	return nil, httperr.ErrDependency("gateway_disabled")
}

func (Gateway) Refund(context.Context, string, float64) (*domain.RefundResult, error) {
	return nil, httperr.ErrDependency("gateway_disabled")
}

var _ domain.Gateway = Gateway{}
