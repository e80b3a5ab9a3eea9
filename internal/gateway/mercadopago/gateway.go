package mercadopago

import (
	"context"
	"net/http"
	"strconv"
	"time"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/mercadopago/sdk-go/pkg/refund"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

// Chamada ao gateway nunca segura um request além disso.
const requestTimeout = 10 * time.Second

// Gateway implementa domain.Gateway sobre o SDK do Mercado Pago.
// O checkout é via preference (init_point); o status autoritativo vem
// de payment.Get quando o webhook chega.
type Gateway struct {
	payments    payment.Client
	preferences preference.Client
	refunds     refund.Client
}

func New(accessToken string) (*Gateway, error) {
	cfg, err := mpconfig.New(
		accessToken,
		mpconfig.WithHTTPClient(&http.Client{Timeout: requestTimeout}),
	)
	if err != nil {
		return nil, err
	}

	return &Gateway{
		payments:    payment.NewClient(cfg),
		preferences: preference.NewClient(cfg),
		refunds:     refund.NewClient(cfg),
	}, nil
}

func (g *Gateway) CreateIntent(
	ctx context.Context,
	in domain.IntentInput,
) (*domain.PaymentIntent, error) {

	req := preference.Request{
		Items: []preference.ItemRequest{
			{
				Title:     in.Description,
				Quantity:  1,
				UnitPrice: in.Amount,
			},
		},
		ExternalReference: in.Reference,
	}

	if in.PayerEmail != "" {
		req.Payer = &preference.PayerRequest{
			Name:  in.PayerName,
			Email: in.PayerEmail,
		}
	}

	resp, err := g.preferences.Create(ctx, req)
	if err != nil {
		return nil, httperr.ErrDependency("gateway_intent_failed")
	}

	return &domain.PaymentIntent{
		PreferenceID: resp.ID,
		PayURL:       resp.InitPoint,
	}, nil
}

func (g *Gateway) GetPayment(
	ctx context.Context,
	paymentID string,
) (*domain.GatewayPayment, error) {

	id, err := strconv.Atoi(paymentID)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_payment_id")
	}

	resp, err := g.payments.Get(ctx, id)
	if err != nil {
		return nil, httperr.ErrDependency("gateway_get_payment_failed")
	}

	return &domain.GatewayPayment{
		ID:        strconv.Itoa(resp.ID),
		Status:    resp.Status,
		Amount:    resp.TransactionAmount,
		Reference: resp.ExternalReference,
	}, nil
}

func (g *Gateway) Refund(
	ctx context.Context,
	paymentID string,
	amount float64,
) (*domain.RefundResult, error) {

	id, err := strconv.Atoi(paymentID)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_payment_id")
	}

	var resp *refund.Response
	if amount > 0 {
		resp, err = g.refunds.CreatePartialRefund(ctx, id, amount)
	} else {
		resp, err = g.refunds.Create(ctx, id)
	}
	if err != nil {
		return nil, httperr.ErrDependency("gateway_refund_failed")
	}

	return &domain.RefundResult{
		ID:     strconv.Itoa(resp.ID),
		Status: resp.Status,
	}, nil
}

// Compile-time check
var _ domain.Gateway = (*Gateway)(nil)
