package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// Stripe is the Gateway backed by the Stripe API.
type Stripe struct {
	api           *client.API
	webhookSecret string
}

// NewStripe builds a gateway from a secret API key and the webhook signing
// secret. backends may be nil; tests point it at a local server.
func NewStripe(secretKey, webhookSecret string, backends *stripe.Backends) *Stripe {
	api := &client.API{}
	api.Init(secretKey, backends)
	return &Stripe{api: api, webhookSecret: webhookSecret}
}

func (s *Stripe) CreateIntent(ctx context.Context, p IntentParams) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(p.Amount),
		Currency:    stripe.String(p.Currency),
		Description: stripe.String(p.Description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Shipping: &stripe.ShippingDetailsParams{
			Name:  stripe.String(p.Shipping.Name),
			Phone: stripe.String(p.Shipping.Phone),
			Address: &stripe.AddressParams{
				Line1:      stripe.String(p.Shipping.Line1),
				City:       stripe.String(p.Shipping.City),
				State:      stripe.String(p.Shipping.State),
				PostalCode: stripe.String(p.Shipping.PostalCode),
				Country:    stripe.String(p.Shipping.Country),
			},
		},
	}
	params.Context = ctx

	meta, err := p.Metadata.Values()
	if err != nil {
		return nil, err
	}
	for k, v := range meta {
		params.AddMetadata(k, v)
	}

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return nil, providerError(err)
	}
	return &Intent{
		ID:                 pi.ID,
		ClientSecret:       pi.ClientSecret,
		PaymentMethodTypes: pi.PaymentMethodTypes,
	}, nil
}

// ParseEvent verifies the Stripe-Signature header against the raw payload
// before decoding anything.
func (s *Stripe) ParseEvent(payload []byte, signature string) (*Event, error) {
	ev, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &Event{ID: ev.ID, Type: string(ev.Type)}
	if ev.Type != EventIntentSucceeded || ev.Data == nil {
		return out, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(ev.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("payment: decode payment intent: %w", err)
	}
	out.IntentID = pi.ID
	out.Amount = pi.Amount
	out.Currency = string(pi.Currency)
	out.Metadata = pi.Metadata
	return out, nil
}

// providerError turns customer-facing Stripe failures into *ProviderError
// and leaves transport and API failures as they are.
func providerError(err error) error {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return err
	}
	switch se.Type {
	case stripe.ErrorTypeCard, stripe.ErrorTypeInvalidRequest:
		return &ProviderError{Type: string(se.Type), Code: string(se.Code), Message: se.Msg}
	}
	return err
}
