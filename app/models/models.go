// Package models holds the GORM models persisted by the storefront.
package models

import "github.com/shopspring/decimal"

// EncodeMoneyAsNumbers makes every decimal amount marshal as a bare JSON
// number, matching what clients send. The setting is process-wide: call it
// once at boot, before any response is written.
func EncodeMoneyAsNumbers() {
	decimal.MarshalJSONWithoutQuotes = true
}
