package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/payment"
)

const webhookSecret = "whsec_services"

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Category{}, &models.SubCategory{}, &models.Product{},
		&models.CartItem{}, &models.Address{}, &models.Order{}, &models.Payment{},
	))
	return db
}

type fixture struct {
	db      *gorm.DB
	user    *models.User
	other   *models.User
	address *models.Address
	rice    *models.Product // 100, 10% off
	dal     *models.Product // 50, no discount
}

func seed(t *testing.T) *fixture {
	t.Helper()
	db := newDB(t)
	f := &fixture{db: db}

	f.user = &models.User{Name: "Asha", Email: "asha@example.com", Password: "x", Role: models.RoleUser}
	f.other = &models.User{Name: "Ravi", Email: "ravi@example.com", Password: "x", Role: models.RoleUser}
	require.NoError(t, db.Create(f.user).Error)
	require.NoError(t, db.Create(f.other).Error)

	f.address = &models.Address{
		UserID: f.user.ID, AddressLine: "12 MG Road", City: "Pune", State: "Maharashtra",
		Country: "India", Pincode: "411001", Mobile: "9876543210", Status: true,
	}
	require.NoError(t, db.Create(f.address).Error)

	f.rice = &models.Product{Name: "Basmati Rice", Images: []string{"rice.jpg"}, Price: decimal.NewFromInt(100), Discount: 10, Stock: 5, Publish: true}
	f.dal = &models.Product{Name: "Toor Dal", Price: decimal.NewFromInt(50), Stock: 3, Publish: true}
	require.NoError(t, db.Create(f.rice).Error)
	require.NoError(t, db.Create(f.dal).Error)
	return f
}

// fillCart puts 2 rice and 1 dal in the user's cart: total 230, list 250.
func (f *fixture) fillCart(t *testing.T) {
	t.Helper()
	require.NoError(t, f.db.Create(&models.CartItem{UserID: f.user.ID, ProductID: f.rice.ID, Quantity: 2}).Error)
	require.NoError(t, f.db.Create(&models.CartItem{UserID: f.user.ID, ProductID: f.dal.ID, Quantity: 1}).Error)
}

func (f *fixture) orderInput(total int64) OrderInput {
	return OrderInput{
		ListItems: []LineItem{
			{ProductID: Ref(f.rice.ID), Quantity: 2},
			{ProductID: Ref(f.dal.ID), Quantity: 1},
		},
		AddressID:   f.address.ID,
		SubTotalAmt: decimal.NewFromInt(250),
		TotalAmt:    decimal.NewFromInt(total),
	}
}

func (f *fixture) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func (f *fixture) stock(t *testing.T, id uint) int {
	t.Helper()
	var p models.Product
	require.NoError(t, f.db.First(&p, id).Error)
	return p.Stock
}

// fakeGateway verifies webhooks with the real Stripe code and records
// intent creation instead of calling the API.
type fakeGateway struct {
	*payment.Stripe
	created []payment.IntentParams
	err     error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{Stripe: payment.NewStripe("sk_test", webhookSecret, nil)}
}

func (g *fakeGateway) CreateIntent(_ context.Context, p payment.IntentParams) (*payment.Intent, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.created = append(g.created, p)
	id := fmt.Sprintf("pi_test_%d", len(g.created))
	return &payment.Intent{ID: id, ClientSecret: id + "_secret", PaymentMethodTypes: []string{"card"}}, nil
}

func signPayload(payload []byte) string {
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write([]byte(ts + "."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func succeededEvent(intentID string, amount int64, meta map[string]string) []byte {
	metaJSON := "{}"
	if meta != nil {
		parts := make([]string, 0, len(meta))
		for k, v := range meta {
			parts = append(parts, fmt.Sprintf("%q:%q", k, v))
		}
		metaJSON = "{" + strings.Join(parts, ",") + "}"
	}
	return []byte(fmt.Sprintf(`{"id":"evt_%s","object":"event","type":"payment_intent.succeeded",`+
		`"data":{"object":{"id":%q,"object":"payment_intent","amount":%d,"currency":"inr","metadata":%s}}}`,
		intentID, intentID, amount, metaJSON))
}
