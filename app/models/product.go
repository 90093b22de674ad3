package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalogue entry. Price is the list price; Discount is a
// whole percentage applied at pricing time.
type Product struct {
	gorm.Model
	Name          string                 `gorm:"size:255;not null;index"               json:"name"`
	Images        []string               `gorm:"serializer:json"                       json:"image"`
	Categories    []Category             `gorm:"many2many:product_categories"          json:"category"`
	SubCategories []SubCategory          `gorm:"many2many:product_sub_categories"      json:"subCategory"`
	Unit          string                 `gorm:"size:50"                               json:"unit"`
	Stock         int                    `gorm:"not null;default:0"                    json:"stock"`
	Price         decimal.Decimal        `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	Discount      int                    `gorm:"not null;default:0"                    json:"discount"`
	Description   string                 `gorm:"type:text"                             json:"description"`
	MoreDetails   map[string]DetailValue `gorm:"serializer:json"                       json:"more_details"`
	Publish       bool                   `gorm:"not null"                              json:"publish"`
}

// FirstImage returns the primary image or "".
func (p *Product) FirstImage() string {
	if p == nil || len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// DetailKind tags a DetailValue.
type DetailKind string

const (
	DetailText   DetailKind = "text"
	DetailList   DetailKind = "list"
	DetailObject DetailKind = "object"
)

// DetailValue is one more_details entry: a string, a list of strings or a
// string map. It marshals to exactly that JSON shape.
type DetailValue struct {
	Kind   DetailKind
	Text   string
	List   []string
	Object map[string]string
}

func TextDetail(s string) DetailValue              { return DetailValue{Kind: DetailText, Text: s} }
func ListDetail(items ...string) DetailValue       { return DetailValue{Kind: DetailList, List: items} }
func ObjectDetail(m map[string]string) DetailValue { return DetailValue{Kind: DetailObject, Object: m} }

func (d DetailValue) MarshalJSON() ([]byte, error) {
	switch d.Kind {
	case DetailList:
		if d.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(d.List)
	case DetailObject:
		if d.Object == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(d.Object)
	default:
		return json.Marshal(d.Text)
	}
}

var errDetailShape = errors.New("more_details value must be a string, a list of strings or an object of strings")

func (d *DetailValue) UnmarshalJSON(b []byte) error {
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		*d = TextDetail(v)
	case []interface{}:
		list := make([]string, 0, len(v))
		for _, item := range v {
			list = append(list, scalar(item))
		}
		*d = ListDetail(list...)
	case map[string]interface{}:
		obj := make(map[string]string, len(v))
		for k, item := range v {
			obj[k] = scalar(item)
		}
		*d = ObjectDetail(obj)
	case float64, bool:
		*d = TextDetail(scalar(v))
	default:
		return errDetailShape
	}
	return nil
}

func scalar(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
