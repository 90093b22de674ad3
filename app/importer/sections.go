package importer

import (
	"regexp"
	"sort"
	"strings"

	"github.com/shashiranjanraj/storefront/app/models"
)

type sectionKind int

const (
	sectionHeader sectionKind = iota
	sectionDescription
	sectionList
	sectionObject
	sectionText
)

type section struct {
	kind   sectionKind
	field  string
	fields []string
}

var sections = map[string]section{
	"Product Details":       {kind: sectionHeader},
	"Description":           {kind: sectionDescription},
	"Key Features":          {kind: sectionList, field: "keyFeatures"},
	"Atta Type":             {kind: sectionText, field: "type"},
	"Shelf Life":            {kind: sectionText, field: "shelfLife"},
	"Manufacturer Details":  {kind: sectionText, field: "manufacturerDetails"},
	"Marketed By":           {kind: sectionText, field: "marketedBy"},
	"Country Of Origin":     {kind: sectionText, field: "countryOfOrigin"},
	"FSSAI License":         {kind: sectionText, field: "fssaiLicense"},
	"Customer Care Details": {kind: sectionObject, field: "customerCare", fields: []string{"email", "phone", "address"}},
	"Return Policy":         {kind: sectionText, field: "returnPolicy"},
	"Seller FSSAI":          {kind: sectionText, field: "sellerFssai"},
	"Seller":                {kind: sectionText, field: "seller"},
	"Disclaimer":            {kind: sectionText, field: "disclaimer"},
}

var (
	headingRE = func() *regexp.Regexp {
		names := make([]string, 0, len(sections))
		for name := range sections {
			names = append(names, regexp.QuoteMeta(name))
		}
		// longest first so "Seller FSSAI" wins over "Seller"
		sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })
		return regexp.MustCompile(strings.Join(names, "|"))
	}()
	bulletRE = regexp.MustCompile(`^[•\-*]\s*`)
	spacesRE = regexp.MustCompile(`[ \t]{2,}`)
)

// ParseSections parses a single-product sheet laid out under known headings
// such as "Product Details", "Key Features" and "Customer Care Details".
// Text before the first heading is ignored.
func ParseSections(text string) Draft {
	d := newDraft()
	plain := StripRTF(text)

	locs := headingRE.FindAllStringIndex(plain, -1)
	for i, loc := range locs {
		end := len(plain)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		sec := sections[plain[loc[0]:loc[1]]]
		applySection(&d, sec, strings.TrimSpace(plain[loc[1]:end]))
	}

	d.Description = strings.TrimSpace(spacesRE.ReplaceAllString(d.Description, " "))
	if d.Name == "" {
		if t, ok := d.MoreDetails["type"]; ok {
			d.Name = t.Text
		}
	}
	return d
}

func applySection(d *Draft, sec section, content string) {
	lines := nonEmptyLines(content)

	switch sec.kind {
	case sectionHeader:
		if len(lines) == 0 {
			return
		}
		d.Name = lines[0]
		if len(lines) > 1 && d.Description == "" {
			d.Description = strings.Join(lines[1:], "\n")
		}
	case sectionDescription:
		if len(lines) == 0 {
			return
		}
		desc := strings.Join(lines, "\n")
		if d.Description != "" {
			desc = d.Description + "\n\n" + desc
		}
		d.Description = desc
	case sectionList:
		items := make([]string, 0, len(lines))
		for _, l := range lines {
			if l = strings.TrimSpace(bulletRE.ReplaceAllString(l, "")); l != "" {
				items = append(items, l)
			}
		}
		d.MoreDetails[sec.field] = models.ListDetail(items...)
	case sectionObject:
		obj := make(map[string]string, len(sec.fields))
		for _, l := range lines {
			key, value, ok := strings.Cut(l, ":")
			if !ok {
				continue
			}
			key = strings.ToLower(strings.TrimSpace(key))
			for _, f := range sec.fields {
				if key == f {
					obj[f] = strings.TrimSpace(value)
				}
			}
		}
		d.MoreDetails[sec.field] = models.ObjectDetail(obj)
	case sectionText:
		if content != "" {
			d.MoreDetails[sec.field] = models.TextDetail(content)
		}
	}
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
