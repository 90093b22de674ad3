// Package payment is the boundary to the card payment provider. Services
// depend on Gateway; Stripe implements it in production and tests swap in a
// fake.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// EventIntentSucceeded is the provider event that completes a card payment.
const EventIntentSucceeded = "payment_intent.succeeded"

// ErrInvalidSignature is returned by ParseEvent when the payload was not
// signed with the webhook secret.
var ErrInvalidSignature = errors.New("payment: invalid webhook signature")

// Gateway creates payment intents and authenticates provider webhooks.
type Gateway interface {
	CreateIntent(ctx context.Context, p IntentParams) (*Intent, error)
	ParseEvent(payload []byte, signature string) (*Event, error)
}

// ProviderError is a rejection reported by the provider (declined card,
// invalid request). Its message is safe to show to the customer.
type ProviderError struct {
	Type    string
	Code    string
	Message string
}

func (e *ProviderError) Error() string { return e.Message }

type Shipping struct {
	Name       string
	Phone      string
	Line1      string
	City       string
	State      string
	PostalCode string
	Country    string
}

type IntentParams struct {
	Amount      int64 // minor units
	Currency    string
	Description string
	Shipping    Shipping
	Metadata    Metadata
}

type Intent struct {
	ID                 string
	ClientSecret       string
	PaymentMethodTypes []string
}

// Event is an authenticated webhook delivery.
type Event struct {
	ID       string
	Type     string
	IntentID string
	Amount   int64
	Currency string
	Metadata map[string]string
}

// MetaItem is the minimal line item carried in intent metadata.
type MetaItem struct {
	ProductID uint   `json:"productId"`
	Quantity  int    `json:"quantity"`
	Name      string `json:"name"`
}

// Metadata is what a webhook needs to rebuild an order without the
// original request.
type Metadata struct {
	UserID    uint
	AddressID uint
	Items     []MetaItem
}

// Values flattens m into the provider's string map.
func (m Metadata) Values() (map[string]string, error) {
	items, err := json.Marshal(m.Items)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"userId":     strconv.FormatUint(uint64(m.UserID), 10),
		"addressId":  strconv.FormatUint(uint64(m.AddressID), 10),
		"list_items": string(items),
	}, nil
}

// ParseMetadata is the inverse of Values.
func ParseMetadata(v map[string]string) (Metadata, error) {
	var m Metadata
	user, err := strconv.ParseUint(v["userId"], 10, 64)
	if err != nil {
		return m, fmt.Errorf("payment: metadata userId: %w", err)
	}
	addr, err := strconv.ParseUint(v["addressId"], 10, 64)
	if err != nil {
		return m, fmt.Errorf("payment: metadata addressId: %w", err)
	}
	if err := json.Unmarshal([]byte(v["list_items"]), &m.Items); err != nil {
		return m, fmt.Errorf("payment: metadata list_items: %w", err)
	}
	m.UserID, m.AddressID = uint(user), uint(addr)
	return m, nil
}
