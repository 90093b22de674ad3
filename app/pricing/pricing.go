// Package pricing computes discounted prices and cart totals. Every total the
// storefront shows or charges goes through here, so the client-side cart
// store and the order services always agree.
package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// PriceWithDiscount returns price minus the discount amount, where the
// discount amount is rounded up to the next whole currency unit. A missing
// discount is 0; discounts outside [0,100] are clamped and a negative price
// is treated as 0.
func PriceWithDiscount(price decimal.Decimal, discountPercent int) decimal.Decimal {
	if price.IsNegative() {
		price = decimal.Zero
	}
	switch {
	case discountPercent < 0:
		discountPercent = 0
	case discountPercent > 100:
		discountPercent = 100
	}

	off := price.Mul(decimal.NewFromInt(int64(discountPercent))).Div(hundred).Ceil()
	if off.GreaterThan(price) {
		return decimal.Zero
	}
	return price.Sub(off)
}

// Line is one cart or order line. A nil Product contributes no price but
// its quantity still counts.
type Line struct {
	Product  *Item
	Quantity int
}

// Item is the pricing-relevant view of a product.
type Item struct {
	Price    decimal.Decimal
	Discount int
}

// Totals is the derived summary of a set of lines.
type Totals struct {
	TotalPrice            decimal.Decimal `json:"totalPrice"`
	NotDiscountTotalPrice decimal.Decimal `json:"notDiscountTotalPrice"`
	TotalQty              int             `json:"totalQty"`
	Savings               decimal.Decimal `json:"savings"`
}

// LineAmounts returns the list-price and discounted amounts for one line.
func LineAmounts(l Line) (subTotal, total decimal.Decimal) {
	if l.Product == nil || l.Quantity <= 0 {
		return decimal.Zero, decimal.Zero
	}
	qty := decimal.NewFromInt(int64(l.Quantity))
	list := l.Product.Price
	if list.IsNegative() {
		list = decimal.Zero
	}
	return list.Mul(qty), PriceWithDiscount(l.Product.Price, l.Product.Discount).Mul(qty)
}

// Summarize folds lines into Totals.
func Summarize(lines []Line) Totals {
	t := Totals{
		TotalPrice:            decimal.Zero,
		NotDiscountTotalPrice: decimal.Zero,
		Savings:               decimal.Zero,
	}
	for _, l := range lines {
		if l.Quantity > 0 {
			t.TotalQty += l.Quantity
		}
		sub, total := LineAmounts(l)
		t.NotDiscountTotalPrice = t.NotDiscountTotalPrice.Add(sub)
		t.TotalPrice = t.TotalPrice.Add(total)
	}
	t.Savings = t.NotDiscountTotalPrice.Sub(t.TotalPrice)
	return t
}

// MinorUnits converts a major-unit amount to the integer minor units a
// payment provider charges (paise, cents), rounding half away from zero.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}
