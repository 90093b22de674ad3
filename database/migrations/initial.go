package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_users_table", &createUsers{})
	migration.Register("20260101000001_create_catalog_tables", &createCatalog{})
	migration.Register("20260101000002_create_addresses_table", &createAddresses{})
	migration.Register("20260101000003_create_cart_items_table", &createCartItems{})
	migration.Register("20260101000004_create_payments_table", &createPayments{})
	migration.Register("20260101000005_create_orders_table", &createOrders{})
}

type createUsers struct{}

func (createUsers) Up(db *gorm.DB) error   { return db.AutoMigrate(&models.User{}) }
func (createUsers) Down(db *gorm.DB) error { return db.Migrator().DropTable(&models.User{}) }

// createCatalog also creates the category join tables through the
// many2many associations.
type createCatalog struct{}

func (createCatalog) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{}, &models.SubCategory{}, &models.Product{})
}

func (createCatalog) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(
		"product_sub_categories", "product_categories", "sub_category_categories",
		&models.Product{}, &models.SubCategory{}, &models.Category{},
	)
}

type createAddresses struct{}

func (createAddresses) Up(db *gorm.DB) error   { return db.AutoMigrate(&models.Address{}) }
func (createAddresses) Down(db *gorm.DB) error { return db.Migrator().DropTable(&models.Address{}) }

type createCartItems struct{}

func (createCartItems) Up(db *gorm.DB) error   { return db.AutoMigrate(&models.CartItem{}) }
func (createCartItems) Down(db *gorm.DB) error { return db.Migrator().DropTable(&models.CartItem{}) }

type createPayments struct{}

func (createPayments) Up(db *gorm.DB) error   { return db.AutoMigrate(&models.Payment{}) }
func (createPayments) Down(db *gorm.DB) error { return db.Migrator().DropTable(&models.Payment{}) }

type createOrders struct{}

func (createOrders) Up(db *gorm.DB) error   { return db.AutoMigrate(&models.Order{}) }
func (createOrders) Down(db *gorm.DB) error { return db.Migrator().DropTable(&models.Order{}) }
