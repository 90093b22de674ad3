package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/event"
)

func TestPlaceCashOnDelivery(t *testing.T) {
	f := seed(t)
	f.fillCart(t)

	var (
		mu     sync.Mutex
		placed []OrderPlaced
	)
	event.Listen(EventOrderPlaced, func(p interface{}) {
		mu.Lock()
		defer mu.Unlock()
		placed = append(placed, p.(OrderPlaced))
	})
	t.Cleanup(event.Flush)

	svc := NewOrderService(f.db)
	orders, err := svc.PlaceCashOnDelivery(context.Background(), f.user.ID, f.orderInput(230))
	require.NoError(t, err)
	require.Len(t, orders, 2)

	for _, o := range orders {
		assert.Equal(t, models.PaymentCOD, o.PaymentStatus)
		assert.Empty(t, o.PaymentID)
		assert.Regexp(t, `^ORD-[0-9a-f-]{36}$`, o.OrderCode)
		assert.Equal(t, f.address.ID, o.AddressID)
	}
	assert.NotEqual(t, orders[0].OrderCode, orders[1].OrderCode)

	rice := orders[0]
	assert.Equal(t, "Basmati Rice", rice.ProductDetails.Name)
	assert.Equal(t, "rice.jpg", rice.ProductDetails.Image)
	assert.Equal(t, 2, rice.Quantity)
	assert.True(t, rice.SubTotalAmt.Equal(decimal.NewFromInt(200)))
	assert.True(t, rice.TotalAmt.Equal(decimal.NewFromInt(180)))

	assert.Zero(t, f.count(t, &models.CartItem{}, "user_id = ?", f.user.ID))
	assert.Equal(t, 3, f.stock(t, f.rice.ID))
	assert.Equal(t, 2, f.stock(t, f.dal.ID))

	event.Wait()
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, placed, 1)
	assert.Equal(t, f.user.ID, placed[0].UserID)
	assert.Len(t, placed[0].OrderIDs, 2)
	assert.True(t, placed[0].Total.Equal(decimal.NewFromInt(230)))
}

func TestPlaceCashOnDeliveryRejectsWrongTotal(t *testing.T) {
	f := seed(t)
	f.fillCart(t)

	_, err := NewOrderService(f.db).PlaceCashOnDelivery(context.Background(), f.user.ID, f.orderInput(250))
	assert.ErrorIs(t, err, ErrTotalMismatch)

	assert.Zero(t, f.count(t, &models.Order{}, "1 = 1"))
	assert.Equal(t, int64(2), f.count(t, &models.CartItem{}, "user_id = ?", f.user.ID))
	assert.Equal(t, 5, f.stock(t, f.rice.ID))
}

func TestPlaceCashOnDeliveryForeignAddress(t *testing.T) {
	f := seed(t)

	_, err := NewOrderService(f.db).PlaceCashOnDelivery(context.Background(), f.other.ID, f.orderInput(230))
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestPlaceCashOnDeliveryOutOfStock(t *testing.T) {
	f := seed(t)
	in := f.orderInput(360)
	in.ListItems = []LineItem{{ProductID: Ref(f.rice.ID), Quantity: 4}}

	_, err := NewOrderService(f.db).PlaceCashOnDelivery(context.Background(), f.user.ID, in)
	require.NoError(t, err)

	in.ListItems[0].Quantity = 2
	in.TotalAmt = decimal.NewFromInt(180)
	_, err = NewOrderService(f.db).PlaceCashOnDelivery(context.Background(), f.user.ID, in)
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Equal(t, 1, f.stock(t, f.rice.ID))
}

func TestPlaceCashOnDeliveryValidation(t *testing.T) {
	f := seed(t)
	svc := NewOrderService(f.db)

	_, err := svc.PlaceCashOnDelivery(context.Background(), f.user.ID, OrderInput{AddressID: f.address.ID})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "list_items", ve.Field)

	in := f.orderInput(0)
	in.ListItems[0].Quantity = 0
	_, err = svc.PlaceCashOnDelivery(context.Background(), f.user.ID, in)
	assert.True(t, errors.As(err, &ve))

	in = f.orderInput(90)
	in.ListItems = []LineItem{{ProductID: 9999, Quantity: 1}}
	_, err = svc.PlaceCashOnDelivery(context.Background(), f.user.ID, in)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestRepeatedLinesAreMerged(t *testing.T) {
	f := seed(t)
	in := f.orderInput(180)
	in.ListItems = []LineItem{
		{ProductID: Ref(f.rice.ID), Quantity: 1},
		{ProductID: Ref(f.rice.ID), Quantity: 1},
	}

	orders, err := NewOrderService(f.db).PlaceCashOnDelivery(context.Background(), f.user.ID, in)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, 2, orders[0].Quantity)
}

func TestListOrdersNewestFirst(t *testing.T) {
	f := seed(t)
	svc := NewOrderService(f.db)
	in := f.orderInput(90)
	in.ListItems = []LineItem{{ProductID: Ref(f.rice.ID), Quantity: 1}}

	first, err := svc.PlaceCashOnDelivery(context.Background(), f.user.ID, in)
	require.NoError(t, err)
	second, err := svc.PlaceCashOnDelivery(context.Background(), f.user.ID, in)
	require.NoError(t, err)

	list, err := svc.List(context.Background(), f.user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second[0].OrderCode, list[0].OrderCode)
	assert.Equal(t, first[0].OrderCode, list[1].OrderCode)
	require.NotNil(t, list[0].Address)
	assert.Equal(t, "Pune", list[0].Address.City)

	others, err := svc.List(context.Background(), f.other.ID)
	require.NoError(t, err)
	assert.Empty(t, others)

	recent, err := svc.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, second[0].OrderCode, recent[0].OrderCode)
}

func TestRefAcceptsIDOrObject(t *testing.T) {
	var items []LineItem
	require.NoError(t, json.Unmarshal([]byte(`[
		{"productId": 4, "quantity": 1},
		{"productId": "5", "quantity": 2},
		{"productId": {"_id": 6, "name": "Rice", "image": ["a.jpg"]}, "quantity": 3}
	]`), &items))
	assert.Equal(t, []LineItem{{4, 1}, {5, 2}, {6, 3}}, items)

	var bad LineItem
	assert.Error(t, json.Unmarshal([]byte(`{"productId": {"name": "x"}}`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`{"productId": 0}`), &bad))
}
