package seeders

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
)

func init() {
	Register("catalog", SeedCatalog)
}

type demoProduct struct {
	name, unit, category, sub string
	price                     string
	discount, stock           int
	features                  []string
}

var demoCatalog = []demoProduct{
	{"Basmati Rice", "5 kg", "Grocery", "Rice & Grains", "650", 10, 40, []string{"Aged 2 years", "Long grain"}},
	{"Toor Dal", "1 kg", "Grocery", "Pulses", "180", 5, 60, nil},
	{"Cold Pressed Groundnut Oil", "1 l", "Grocery", "Oils", "310", 0, 25, []string{"Wood pressed"}},
	{"Masala Chai", "250 g", "Beverages", "Tea", "145", 15, 80, nil},
	{"Filter Coffee Powder", "500 g", "Beverages", "Coffee", "290", 0, 35, []string{"80:20 chicory blend"}},
}

// SeedCatalog creates the demo categories, subcategories and products that
// do not exist yet.
func SeedCatalog(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, d := range demoCatalog {
			cat := models.Category{Name: d.category}
			if err := tx.Where(models.Category{Name: d.category}).FirstOrCreate(&cat).Error; err != nil {
				return err
			}

			var sub models.SubCategory
			err := tx.Where("name = ?", d.sub).First(&sub).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				sub = models.SubCategory{Name: d.sub, Categories: []models.Category{cat}}
				if err := tx.Create(&sub).Error; err != nil {
					return err
				}
			case err != nil:
				return err
			}

			var n int64
			if err := tx.Model(&models.Product{}).Where("name = ?", d.name).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				continue
			}

			p := models.Product{
				Name:          d.name,
				Unit:          d.unit,
				Price:         decimal.RequireFromString(d.price),
				Discount:      d.discount,
				Stock:         d.stock,
				Description:   d.name + " from the storefront pantry.",
				Publish:       true,
				Categories:    []models.Category{cat},
				SubCategories: []models.SubCategory{sub},
			}
			if len(d.features) > 0 {
				p.MoreDetails = map[string]models.DetailValue{"keyFeatures": models.ListDetail(d.features...)}
			}
			if err := tx.Omit("Categories.*", "SubCategories.*").Create(&p).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
