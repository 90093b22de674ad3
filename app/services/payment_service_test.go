package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/payment"
)

func newPaymentService(f *fixture) (*PaymentService, *fakeGateway) {
	gw := newFakeGateway()
	return NewPaymentService(f.db, NewOrderService(f.db), gw), gw
}

func TestCardCheckoutCreatesIntentOnly(t *testing.T) {
	f := seed(t)
	f.fillCart(t)
	svc, gw := newPaymentService(f)

	res, err := svc.Checkout(context.Background(), f.user.ID, CheckoutInput{OrderInput: f.orderInput(230)})
	require.NoError(t, err)
	assert.Equal(t, "pi_test_1", res.PaymentIntentID)
	assert.Equal(t, "pi_test_1_secret", res.ClientSecret)
	assert.Equal(t, []string{"card"}, res.PaymentMethodTypes)

	require.Len(t, gw.created, 1)
	p := gw.created[0]
	assert.Equal(t, int64(23000), p.Amount)
	assert.Equal(t, "inr", p.Currency)
	assert.Equal(t, "Purchase of 2x Basmati Rice, 1x Toor Dal", p.Description)
	assert.Equal(t, "Asha", p.Shipping.Name)
	assert.Equal(t, "411001", p.Shipping.PostalCode)
	assert.Equal(t, f.user.ID, p.Metadata.UserID)
	assert.Equal(t, []payment.MetaItem{
		{ProductID: f.rice.ID, Quantity: 2, Name: "Basmati Rice"},
		{ProductID: f.dal.ID, Quantity: 1, Name: "Toor Dal"},
	}, p.Metadata.Items)

	var pay models.Payment
	require.NoError(t, f.db.Where("intent_id = ?", "pi_test_1").First(&pay).Error)
	assert.Equal(t, models.PaymentPending, pay.Status)
	assert.True(t, pay.Amount.Equal(decimal.NewFromInt(230)))
	assert.Len(t, pay.Items, 2)

	assert.Zero(t, f.count(t, &models.Order{}, "1 = 1"))
	assert.Equal(t, int64(2), f.count(t, &models.CartItem{}, "user_id = ?", f.user.ID))
}

func TestCardCheckoutProviderError(t *testing.T) {
	f := seed(t)
	svc, gw := newPaymentService(f)
	gw.err = &payment.ProviderError{Type: "card_error", Message: "Your card was declined."}

	_, err := svc.Checkout(context.Background(), f.user.ID, CheckoutInput{OrderInput: f.orderInput(230)})
	var pe *payment.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "Your card was declined.", pe.Message)
	assert.Zero(t, f.count(t, &models.Payment{}, "1 = 1"))
}

func TestCheckoutRejectsBeforeProviderCall(t *testing.T) {
	f := seed(t)
	svc, gw := newPaymentService(f)

	in := f.orderInput(230)
	in.AddressID = 0
	_, err := svc.Checkout(context.Background(), f.user.ID, CheckoutInput{OrderInput: in})
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))

	_, err = svc.Checkout(context.Background(), f.user.ID, CheckoutInput{OrderInput: f.orderInput(1)})
	assert.ErrorIs(t, err, ErrTotalMismatch)
	assert.Empty(t, gw.created)
}

func TestUPICheckout(t *testing.T) {
	f := seed(t)
	f.fillCart(t)
	svc, _ := newPaymentService(f)

	_, err := svc.Checkout(context.Background(), f.user.ID, CheckoutInput{
		OrderInput: f.orderInput(230), PaymentMethod: "upi", UPIID: "asha@ok",
	})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "upi_id", ve.Field)

	res, err := svc.Checkout(context.Background(), f.user.ID, CheckoutInput{
		OrderInput: f.orderInput(230), PaymentMethod: "upi", UPIID: "asha.k-1@okhdfc",
	})
	require.NoError(t, err)
	require.Len(t, res.Orders, 2)
	assert.Equal(t, res.Orders[0].OrderCode, res.OrderID)
	for _, o := range res.Orders {
		assert.Equal(t, models.PaymentPaid, o.PaymentStatus)
		assert.Regexp(t, `^upi_`, o.PaymentID)
	}
	assert.Zero(t, f.count(t, &models.CartItem{}, "user_id = ?", f.user.ID))
	assert.Equal(t, int64(1), f.count(t, &models.Payment{}, "method = ? AND status = ?", models.MethodUPI, models.PaymentPaid))
}

func TestUnknownPaymentMethod(t *testing.T) {
	f := seed(t)
	svc, _ := newPaymentService(f)

	_, err := svc.Checkout(context.Background(), f.user.ID, CheckoutInput{OrderInput: f.orderInput(230), PaymentMethod: "bitcoin"})
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestWebhookIsIdempotent(t *testing.T) {
	f := seed(t)
	f.fillCart(t)
	svc, _ := newPaymentService(f)
	ctx := context.Background()

	res, err := svc.Checkout(ctx, f.user.ID, CheckoutInput{OrderInput: f.orderInput(230)})
	require.NoError(t, err)

	payload := succeededEvent(res.PaymentIntentID, 23000, nil)
	require.NoError(t, svc.HandleWebhook(ctx, payload, signPayload(payload)))
	require.NoError(t, svc.HandleWebhook(ctx, payload, signPayload(payload)))

	orders, err := NewOrderService(f.db).ForPayment(ctx, res.PaymentIntentID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	for _, o := range orders {
		assert.Equal(t, models.PaymentPaid, o.PaymentStatus)
	}
	assert.True(t, orders[0].TotalAmt.Equal(decimal.NewFromInt(180)))
	assert.True(t, orders[1].TotalAmt.Equal(decimal.NewFromInt(50)))

	assert.Zero(t, f.count(t, &models.CartItem{}, "user_id = ?", f.user.ID))
	assert.Equal(t, 3, f.stock(t, f.rice.ID))
	assert.Equal(t, int64(1), f.count(t, &models.Payment{}, "intent_id = ? AND status = ?", res.PaymentIntentID, models.PaymentPaid))
}

func TestWebhookWithoutRecordedPayment(t *testing.T) {
	f := seed(t)
	svc, _ := newPaymentService(f)
	ctx := context.Background()

	meta, err := payment.Metadata{
		UserID:    f.user.ID,
		AddressID: f.address.ID,
		Items:     []payment.MetaItem{{ProductID: f.dal.ID, Quantity: 2, Name: "Toor Dal"}},
	}.Values()
	require.NoError(t, err)

	payload := succeededEvent("pi_external", 10000, meta)
	require.NoError(t, svc.HandleWebhook(ctx, payload, signPayload(payload)))
	require.NoError(t, svc.HandleWebhook(ctx, payload, signPayload(payload)))

	assert.Equal(t, int64(1), f.count(t, &models.Order{}, "payment_id = ?", "pi_external"))
	var pay models.Payment
	require.NoError(t, f.db.Where("intent_id = ?", "pi_external").First(&pay).Error)
	assert.Equal(t, models.PaymentPaid, pay.Status)
	assert.True(t, pay.Amount.Equal(decimal.NewFromInt(100)))
}

func TestWebhookClampsStockAfterPayment(t *testing.T) {
	f := seed(t)
	svc, _ := newPaymentService(f)
	ctx := context.Background()

	in := f.orderInput(150)
	in.ListItems = []LineItem{{ProductID: Ref(f.dal.ID), Quantity: 3}}
	res, err := svc.Checkout(ctx, f.user.ID, CheckoutInput{OrderInput: in})
	require.NoError(t, err)

	// stock sold elsewhere between checkout and payment
	require.NoError(t, f.db.Model(&models.Product{}).Where("id = ?", f.dal.ID).Update("stock", 1).Error)

	payload := succeededEvent(res.PaymentIntentID, 15000, nil)
	require.NoError(t, svc.HandleWebhook(ctx, payload, signPayload(payload)))
	assert.Equal(t, 0, f.stock(t, f.dal.ID))
	assert.Equal(t, int64(1), f.count(t, &models.Order{}, "payment_id = ?", res.PaymentIntentID))
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	f := seed(t)
	svc, _ := newPaymentService(f)

	payload := succeededEvent("pi_x", 100, nil)
	err := svc.HandleWebhook(context.Background(), payload, "t=1,v1=deadbeef")
	assert.ErrorIs(t, err, payment.ErrInvalidSignature)
	assert.Zero(t, f.count(t, &models.Order{}, "1 = 1"))
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	f := seed(t)
	svc, _ := newPaymentService(f)

	payload := []byte(`{"id":"evt_9","object":"event","type":"payment_intent.created","data":{"object":{"id":"pi_9"}}}`)
	assert.NoError(t, svc.HandleWebhook(context.Background(), payload, signPayload(payload)))
	assert.Zero(t, f.count(t, &models.Order{}, "1 = 1"))
}
