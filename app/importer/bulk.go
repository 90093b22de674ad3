package importer

import (
	"regexp"
	"strings"

	"github.com/shashiranjanraj/storefront/app/models"
)

var blockSepRE = regexp.MustCompile(`\n[ \t]*\n`)

// ParseBulk splits text into blank-line separated blocks of "key: value"
// lines and returns the drafts that have both a name and a description,
// plus the number of blocks dropped for lacking them.
func ParseBulk(text string) (drafts []Draft, skipped int) {
	plain := StripRTF(text)
	if plain == "" {
		return nil, 0
	}
	for _, block := range blockSepRE.Split(plain, -1) {
		if strings.TrimSpace(block) == "" {
			continue
		}
		d := parseBlock(block)
		if !d.Valid() {
			skipped++
			continue
		}
		drafts = append(drafts, d)
	}
	return drafts, skipped
}

func parseBlock(block string) Draft {
	d := newDraft()
	for _, line := range strings.Split(block, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "name", "product name":
			d.Name = value
		case "description", "desc":
			d.Description = value
		case "unit", "measurement":
			d.Unit = value
		case "price", "mrp":
			d.Price = price(value)
		case "stock", "quantity":
			d.Stock = digits(value)
		case "discount", "off":
			d.Discount = digits(value)
		case "category":
			d.Category = value
		case "subcategory", "sub category":
			d.SubCategory = value
		case "image", "image url":
			d.Images = splitList(value)
		case "":
		default:
			d.MoreDetails[key] = models.TextDetail(value)
		}
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
