package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the status recorded on an Order row.
type PaymentStatus string

const (
	PaymentCOD     PaymentStatus = "CASH ON DELIVERY"
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
)

// ProductSnapshot freezes the product name and image at order time.
type ProductSnapshot struct {
	Name  string `gorm:"size:255" json:"name"`
	Image string `gorm:"size:500" json:"image"`
}

// Order is one purchased product line.
type Order struct {
	ID              uint            `gorm:"primaryKey"                            json:"_id"`
	OrderCode       string          `gorm:"size:64;uniqueIndex;not null"          json:"orderId"`
	UserID          uint            `gorm:"not null;index"                        json:"userId"`
	ProductID       uint            `gorm:"not null;index"                        json:"productId"`
	ProductDetails  ProductSnapshot `gorm:"embedded;embeddedPrefix:product_"      json:"product_details"`
	PaymentID       string          `gorm:"size:255;index"                        json:"paymentId"`
	PaymentStatus   PaymentStatus   `gorm:"size:32;not null"                      json:"payment_status"`
	AddressID       uint            `gorm:"not null"                              json:"delivery_address"`
	Address         *Address        `gorm:"foreignKey:AddressID"                  json:"address,omitempty"`
	Quantity        int             `gorm:"not null;default:1"                    json:"quantity"`
	SubTotalAmt     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"subTotalAmt"`
	TotalAmt        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"totalAmt"`
	InvoiceReceipt  string          `gorm:"size:500"                              json:"invoice_receipt"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}
