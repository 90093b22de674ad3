package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Ref is a record id that accepts either a bare id or a populated object
// ({"_id": ...}), the shape listings hand back to clients.
type Ref uint

func (p *Ref) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var obj struct {
			ID  json.RawMessage `json:"_id"`
			Alt json.RawMessage `json:"id"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		if len(obj.ID) == 0 {
			obj.ID = obj.Alt
		}
		b = obj.ID
	}
	id, err := parseID(b)
	if err != nil {
		return err
	}
	*p = Ref(id)
	return nil
}

func parseID(b []byte) (uint, error) {
	s := string(bytes.Trim(b, `"`))
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(id), nil
}

// LineItem is one requested product and quantity.
type LineItem struct {
	ProductID Ref `json:"productId"`
	Quantity  int `json:"quantity"`
}

// OrderInput is the checkout request shared by every payment method.
type OrderInput struct {
	ListItems   []LineItem      `json:"list_items"  validate:"required"`
	AddressID   uint            `json:"addressId"   validate:"required"`
	SubTotalAmt decimal.Decimal `json:"subTotalAmt" validate:"nullable,gte=0"`
	TotalAmt    decimal.Decimal `json:"totalAmt"    validate:"required,gte=0"`
}

// merged validates the list and folds repeated products into one line,
// keeping first-seen order.
func (in OrderInput) merged() ([]LineItem, error) {
	if len(in.ListItems) == 0 {
		return nil, invalid("list_items", "The list_items field is required.")
	}
	if in.AddressID == 0 {
		return nil, invalid("addressId", "The addressId field is required.")
	}
	idx := make(map[Ref]int, len(in.ListItems))
	out := make([]LineItem, 0, len(in.ListItems))
	for _, it := range in.ListItems {
		if it.ProductID == 0 {
			return nil, invalid("list_items", "Every item needs a productId.")
		}
		if it.Quantity < 1 {
			return nil, invalid("list_items", "Quantity must be at least 1.")
		}
		if i, ok := idx[it.ProductID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		idx[it.ProductID] = len(out)
		out = append(out, it)
	}
	return out, nil
}

func refIDs(refs []Ref) []uint {
	out := make([]uint, 0, len(refs))
	for _, r := range refs {
		out = append(out, uint(r))
	}
	return out
}
