// Package payment creates payment intents with Stripe. The browser confirms
// the intent with the returned client secret; the server only records the
// resulting transaction id through POST /donate.
package payment

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// ErrNotConfigured is returned when no Stripe secret key is set.
var ErrNotConfigured = errors.New("payment gateway not configured")

// StripeGateway creates USD card payment intents.
type StripeGateway struct {
	api *client.API
}

// NewStripeGateway returns a gateway for secretKey. An empty key yields a
// gateway whose calls fail with ErrNotConfigured.
func NewStripeGateway(secretKey string) *StripeGateway {
	if secretKey == "" {
		return &StripeGateway{}
	}
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api}
}

// CreatePaymentIntent creates an intent for amountCents and returns its client secret.
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, amountCents int64) (string, error) {
	if g.api == nil {
		return "", ErrNotConfigured
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amountCents),
		Currency:           stripe.String(string(stripe.CurrencyUSD)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return "", err
	}
	return pi.ClientSecret, nil
}
