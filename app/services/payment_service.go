package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/payment"
	"github.com/shashiranjanraj/storefront/app/pricing"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

// upiPattern is local-part@bank-alias, alias letters only, at least three.
var upiPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z]{3,}$`)

// errAlreadyProcessed aborts a webhook transaction for a delivery whose
// payment has already produced orders.
var errAlreadyProcessed = errors.New("payment already processed")

type CheckoutInput struct {
	OrderInput
	PaymentMethod string `json:"payment_method" validate:"nullable,in=card|upi"`
	UPIID         string `json:"upi_id"`
}

// CheckoutResult is the outcome of Checkout. Card payments fill the intent
// fields; UPI payments fill OrderID and Orders.
type CheckoutResult struct {
	ClientSecret       string         `json:"clientSecret,omitempty"`
	PaymentMethodTypes []string       `json:"payment_method_types,omitempty"`
	PaymentIntentID    string         `json:"payment_intent_id,omitempty"`
	OrderID            string         `json:"orderId,omitempty"`
	Orders             []models.Order `json:"-"`
}

// PaymentService runs paid checkouts. Card orders are only written when the
// provider's webhook confirms the payment; UPI is simulated and settles at
// once.
type PaymentService struct {
	db       *gorm.DB
	orders   *OrderService
	gateway  payment.Gateway
	currency string
	country  string
}

func NewPaymentService(db *gorm.DB, orders *OrderService, gateway payment.Gateway) *PaymentService {
	return &PaymentService{
		db:       db,
		orders:   orders,
		gateway:  gateway,
		currency: config.PaymentCurrency(),
		country:  config.ShippingCountry(),
	}
}

func (s *PaymentService) Checkout(ctx context.Context, userID uint, in CheckoutInput) (*CheckoutResult, error) {
	switch strings.ToLower(strings.TrimSpace(in.PaymentMethod)) {
	case "", models.MethodCard:
		return s.payByCard(ctx, userID, in.OrderInput)
	case models.MethodUPI:
		return s.payByUPI(ctx, userID, in.OrderInput, strings.TrimSpace(in.UPIID))
	}
	return nil, invalid("payment_method", "The selected payment_method is invalid.")
}

func (s *PaymentService) payByCard(ctx context.Context, userID uint, in OrderInput) (*CheckoutResult, error) {
	db := s.db.WithContext(ctx)
	co, err := s.orders.prepare(ctx, db, userID, in)
	if err != nil {
		return nil, err
	}
	user, err := repositories.NewUserRepository(db).FindByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	meta := payment.Metadata{UserID: userID, AddressID: co.address.ID}
	for _, l := range co.lines {
		meta.Items = append(meta.Items, payment.MetaItem{ProductID: l.ProductID, Quantity: l.Quantity, Name: l.Name})
	}
	name := user.Name
	if name == "" {
		name = "Customer"
	}

	intent, err := s.gateway.CreateIntent(ctx, payment.IntentParams{
		Amount:      pricing.MinorUnits(co.totals.TotalPrice),
		Currency:    s.currency,
		Description: "Purchase of " + describe(co.lines),
		Shipping: payment.Shipping{
			Name:       name,
			Phone:      co.address.Mobile,
			Line1:      co.address.AddressLine,
			City:       co.address.City,
			State:      co.address.State,
			PostalCode: co.address.Pincode,
			Country:    s.country,
		},
		Metadata: meta,
	})
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	err = repositories.NewPaymentRepository(db).Create(ctx, &models.Payment{
		IntentID:  intent.ID,
		UserID:    userID,
		AddressID: co.address.ID,
		Amount:    co.totals.TotalPrice,
		Currency:  s.currency,
		Method:    models.MethodCard,
		Status:    models.PaymentPending,
		Items:     co.lines,
	})
	if err != nil {
		return nil, err
	}

	logger.WithCtx(ctx).Info("payment intent created",
		"intent_id", intent.ID, "user_id", userID, "amount", co.totals.TotalPrice.StringFixed(2))
	return &CheckoutResult{
		ClientSecret:       intent.ClientSecret,
		PaymentMethodTypes: intent.PaymentMethodTypes,
		PaymentIntentID:    intent.ID,
	}, nil
}

// payByUPI records a settled payment and its orders in one transaction.
func (s *PaymentService) payByUPI(ctx context.Context, userID uint, in OrderInput, upiID string) (*CheckoutResult, error) {
	if !upiPattern.MatchString(upiID) {
		return nil, invalid("upi_id", "Please enter a valid UPI ID.")
	}

	var orders []models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		co, err := s.orders.prepare(ctx, tx, userID, in)
		if err != nil {
			return err
		}
		pay := &models.Payment{
			IntentID:  "upi_" + uuid.NewString(),
			UserID:    userID,
			AddressID: co.address.ID,
			Amount:    co.totals.TotalPrice,
			Currency:  s.currency,
			Method:    models.MethodUPI,
			Status:    models.PaymentPaid,
			Items:     co.lines,
		}
		if err := repositories.NewPaymentRepository(tx).Create(ctx, pay); err != nil {
			return err
		}
		orders, err = s.orders.place(ctx, tx, userID, co.address.ID, co.lines,
			placement{status: models.PaymentPaid, paymentID: pay.IntentID})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.orders.announce(ctx, orders)
	return &CheckoutResult{OrderID: orders[0].OrderCode, Orders: orders}, nil
}

// HandleWebhook authenticates a provider delivery and, for a succeeded
// payment intent, creates its orders exactly once. Redelivery of an event
// that was already fulfilled is acknowledged without side effects.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	ev, err := s.gateway.ParseEvent(payload, signature)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("unknown", "rejected").Inc()
		return err
	}
	log := logger.WithCtx(ctx).With("event_id", ev.ID, "event_type", ev.Type)

	if ev.Type != payment.EventIntentSucceeded {
		metrics.WebhookEvents.WithLabelValues(ev.Type, "ignored").Inc()
		log.Info("webhook event ignored")
		return nil
	}

	var orders []models.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pay, err := s.settle(ctx, tx, ev)
		if err != nil {
			return err
		}
		orders, err = s.orders.place(ctx, tx, pay.UserID, pay.AddressID, pay.Items,
			placement{status: models.PaymentPaid, paymentID: pay.IntentID, clampStock: true})
		return err
	})
	switch {
	case errors.Is(err, errAlreadyProcessed):
		metrics.WebhookEvents.WithLabelValues(ev.Type, "duplicate").Inc()
		prior, err := s.orders.ForPayment(ctx, ev.IntentID)
		if err != nil {
			log.Warn("webhook duplicate: order lookup failed", "intent_id", ev.IntentID, "error", err)
		}
		log.Info("webhook duplicate delivery", "intent_id", ev.IntentID, "orders", len(prior))
		return nil
	case err != nil:
		metrics.WebhookEvents.WithLabelValues(ev.Type, "error").Inc()
		log.Error("webhook processing failed", "intent_id", ev.IntentID, "error", err)
		return err
	}

	metrics.WebhookEvents.WithLabelValues(ev.Type, "processed").Inc()
	s.orders.announce(ctx, orders)
	return nil
}

// settle moves the intent's payment to PAID and returns it. A payment this
// service never recorded is rebuilt from the intent metadata; the unique
// intent id makes a racing duplicate fail instead of double-inserting.
func (s *PaymentService) settle(ctx context.Context, tx *gorm.DB, ev *payment.Event) (*models.Payment, error) {
	payments := repositories.NewPaymentRepository(tx)

	moved, err := payments.MarkPaid(ctx, ev.IntentID)
	if err != nil {
		return nil, err
	}
	existing, err := payments.FindByIntent(ctx, ev.IntentID)
	switch {
	case err == nil && moved:
		return existing, nil
	case err == nil:
		return nil, errAlreadyProcessed
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, err
	}

	meta, err := payment.ParseMetadata(ev.Metadata)
	if err != nil {
		return nil, err
	}
	lines, err := s.linesFromMetadata(ctx, tx, meta.Items)
	if err != nil {
		return nil, err
	}
	pay := &models.Payment{
		IntentID:  ev.IntentID,
		UserID:    meta.UserID,
		AddressID: meta.AddressID,
		Amount:    decimal.New(ev.Amount, -2),
		Currency:  ev.Currency,
		Method:    models.MethodCard,
		Status:    models.PaymentPaid,
		Items:     lines,
	}
	if err := payments.Create(ctx, pay); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, errAlreadyProcessed
		}
		return nil, err
	}
	return pay, nil
}

// linesFromMetadata prices metadata items at current catalogue prices. A
// product deleted since checkout keeps its name and prices at zero.
func (s *PaymentService) linesFromMetadata(ctx context.Context, tx *gorm.DB, items []payment.MetaItem) ([]models.PaymentLine, error) {
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := repositories.NewCatalogRepository(tx).ProductsByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]models.PaymentLine, 0, len(items))
	for _, it := range items {
		line := models.PaymentLine{ProductID: it.ProductID, Name: it.Name, Quantity: it.Quantity}
		pl := pricing.Line{Quantity: it.Quantity}
		if p, ok := products[it.ProductID]; ok {
			line.Name, line.Image = p.Name, p.FirstImage()
			pl.Product = &pricing.Item{Price: p.Price, Discount: p.Discount}
		}
		line.SubTotal, line.Total = pricing.LineAmounts(pl)
		lines = append(lines, line)
	}
	return lines, nil
}

func describe(lines []models.PaymentLine) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, fmt.Sprintf("%dx %s", l.Quantity, l.Name))
	}
	return strings.Join(parts, ", ")
}
