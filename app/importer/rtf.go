// Package importer turns RTF product sheets into product drafts. Two layouts
// are understood: a bulk sheet of key/value blocks, one product per block,
// and a single-product sheet split into named sections.
package importer

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/storefront/app/models"
)

// Draft is a parsed product before category names are resolved.
type Draft struct {
	Name        string
	Description string
	Unit        string
	Price       decimal.Decimal
	Stock       int
	Discount    int
	Category    string
	SubCategory string
	Images      []string
	MoreDetails map[string]models.DetailValue
}

func newDraft() Draft {
	return Draft{Price: decimal.Zero, MoreDetails: map[string]models.DetailValue{}}
}

// Valid reports whether the draft carries the fields a product needs.
func (d Draft) Valid() bool {
	return strings.TrimSpace(d.Name) != "" && strings.TrimSpace(d.Description) != ""
}

var (
	lineBreakRE   = regexp.MustCompile(`\\(par|line)\b ?\n?`)
	tabRE         = regexp.MustCompile(`\\tab\b ?`)
	controlWordRE = regexp.MustCompile(`\\[a-zA-Z]+-?[0-9]* ?`)
	escapedRE     = regexp.MustCompile(`\\'[0-9a-fA-F]{2}`)
	nonDigitsRE   = regexp.MustCompile(`[^0-9]`)
	priceRE       = regexp.MustCompile(`[0-9]+(\.[0-9]+)?`)
)

// StripRTF reduces RTF markup to plain text. Paragraph and line controls
// become newlines, tabs become tabs, every other control word and all braces
// are dropped. Plain text passes through unchanged.
func StripRTF(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = lineBreakRE.ReplaceAllString(s, "\n")
	s = tabRE.ReplaceAllString(s, "\t")
	s = escapedRE.ReplaceAllString(s, "")
	s = controlWordRE.ReplaceAllString(s, "")
	s = strings.NewReplacer("{", "", "}", "", `\`, "").Replace(s)
	return strings.TrimSpace(s)
}

func digits(s string) int {
	n := 0
	for _, r := range nonDigitsRE.ReplaceAllString(s, "") {
		n = n*10 + int(r-'0')
		if n > 1<<30 {
			break
		}
	}
	return n
}

func price(s string) decimal.Decimal {
	d, err := decimal.NewFromString(priceRE.FindString(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
