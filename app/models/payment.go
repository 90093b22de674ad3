package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MethodCard = "card"
	MethodUPI  = "upi"
)

// PaymentLine is the priced snapshot of one purchased line, taken at
// checkout so fulfilment never re-reads mutable catalogue prices.
type PaymentLine struct {
	ProductID uint            `json:"productId"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
	SubTotal  decimal.Decimal `json:"subTotalAmt"`
	Total     decimal.Decimal `json:"totalAmt"`
}

// Payment tracks one provider payment. The unique IntentID plus the
// PENDING→PAID transition make webhook fulfilment idempotent.
type Payment struct {
	ID        uint            `gorm:"primaryKey"                            json:"id"`
	IntentID  string          `gorm:"size:255;uniqueIndex;not null"         json:"intentId"`
	UserID    uint            `gorm:"not null;index"                        json:"userId"`
	AddressID uint            `gorm:"not null"                              json:"addressId"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"amount"`
	Currency  string          `gorm:"size:8"                                json:"currency"`
	Method    string          `gorm:"size:16"                               json:"method"`
	Status    PaymentStatus   `gorm:"size:32;not null;index"                json:"status"`
	Items     []PaymentLine   `gorm:"serializer:json"                       json:"items"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
