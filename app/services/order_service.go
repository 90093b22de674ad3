package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/pricing"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// EventOrderPlaced fires after an order transaction commits.
const EventOrderPlaced = "order.placed"

// OrderPlaced is the EventOrderPlaced payload.
type OrderPlaced struct {
	OrderIDs      []string             `json:"orderIds"`
	UserID        uint                 `json:"userId"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
	Total         decimal.Decimal      `json:"total"`
}

// checkout is a validated, server-priced order request.
type checkout struct {
	userID  uint
	address *models.Address
	lines   []models.PaymentLine
	totals  pricing.Totals
}

// placement says how the order rows of a checkout are recorded.
type placement struct {
	status    models.PaymentStatus
	paymentID string
	// clampStock floors stock at zero instead of failing; used once money
	// has already been taken.
	clampStock bool
}

// OrderService places orders. Every placement is one transaction covering
// the order rows, the stock decrement and clearing the buyer's cart.
type OrderService struct {
	db      *gorm.DB
	orders  *repositories.OrderRepository
	newCode func() string
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{
		db:      db,
		orders:  repositories.NewOrderRepository(db),
		newCode: func() string { return "ORD-" + uuid.NewString() },
	}
}

// PlaceCashOnDelivery creates one CASH ON DELIVERY order per line.
func (s *OrderService) PlaceCashOnDelivery(ctx context.Context, userID uint, in OrderInput) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		co, err := s.prepare(ctx, tx, userID, in)
		if err != nil {
			return err
		}
		orders, err = s.place(ctx, tx, co.userID, co.address.ID, co.lines,
			placement{status: models.PaymentCOD})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.announce(ctx, orders)
	return orders, nil
}

// List returns the user's orders, newest first, with addresses populated.
func (s *OrderService) List(ctx context.Context, userID uint) ([]models.Order, error) {
	out, err := s.orders.ForUser(ctx, userID)
	if out == nil {
		out = []models.Order{}
	}
	return out, err
}

// Recent returns the latest orders across every user, for the admin feed.
func (s *OrderService) Recent(ctx context.Context, limit int) ([]models.Order, error) {
	out, err := s.orders.Recent(ctx, limit)
	if out == nil {
		out = []models.Order{}
	}
	return out, err
}

// ForPayment returns the orders a provider payment produced.
func (s *OrderService) ForPayment(ctx context.Context, paymentID string) ([]models.Order, error) {
	return s.orders.ByPaymentID(ctx, paymentID)
}

// prepare validates in against the database: the address must be the
// user's and active, every product must exist with enough stock, and the
// client's total must equal the server-computed total.
func (s *OrderService) prepare(ctx context.Context, db *gorm.DB, userID uint, in OrderInput) (*checkout, error) {
	items, err := in.merged()
	if err != nil {
		return nil, err
	}

	addr, err := repositories.NewAddressRepository(db).FindActive(ctx, userID, in.AddressID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrAddressNotFound
	}
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, uint(it.ProductID))
	}
	products, err := repositories.NewCatalogRepository(db).ProductsByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	co := &checkout{userID: userID, address: addr, lines: make([]models.PaymentLine, 0, len(items))}
	priced := make([]pricing.Line, 0, len(items))
	for _, it := range items {
		p, ok := products[uint(it.ProductID)]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrProductNotFound, it.ProductID)
		}
		if p.Stock < it.Quantity {
			return nil, fmt.Errorf("%w: %s", ErrOutOfStock, p.Name)
		}
		line := pricing.Line{Product: &pricing.Item{Price: p.Price, Discount: p.Discount}, Quantity: it.Quantity}
		sub, total := pricing.LineAmounts(line)
		priced = append(priced, line)
		co.lines = append(co.lines, models.PaymentLine{
			ProductID: p.ID,
			Name:      p.Name,
			Image:     p.FirstImage(),
			Quantity:  it.Quantity,
			SubTotal:  sub,
			Total:     total,
		})
	}
	co.totals = pricing.Summarize(priced)

	if !in.TotalAmt.Equal(co.totals.TotalPrice) {
		return nil, fmt.Errorf("%w: expected %s, got %s",
			ErrTotalMismatch, co.totals.TotalPrice.StringFixed(2), in.TotalAmt.StringFixed(2))
	}
	return co, nil
}

// place writes one order per line inside tx, decrements stock and empties
// the user's cart.
func (s *OrderService) place(ctx context.Context, tx *gorm.DB, userID, addressID uint, lines []models.PaymentLine, how placement) ([]models.Order, error) {
	catalog := repositories.NewCatalogRepository(tx)

	orders := make([]models.Order, 0, len(lines))
	for _, l := range lines {
		if err := catalog.DecrementStock(ctx, l.ProductID, l.Quantity, how.clampStock); err != nil {
			if errors.Is(err, repositories.ErrInsufficientStock) {
				return nil, fmt.Errorf("%w: %s", ErrOutOfStock, l.Name)
			}
			return nil, err
		}
		orders = append(orders, models.Order{
			OrderCode:      s.newCode(),
			UserID:         userID,
			ProductID:      l.ProductID,
			ProductDetails: models.ProductSnapshot{Name: l.Name, Image: l.Image},
			PaymentID:      how.paymentID,
			PaymentStatus:  how.status,
			AddressID:      addressID,
			Quantity:       l.Quantity,
			SubTotalAmt:    l.SubTotal,
			TotalAmt:       l.Total,
		})
	}

	if err := s.orders.WithTx(tx).CreateBatch(ctx, orders); err != nil {
		return nil, err
	}
	if _, err := repositories.NewCartRepository(tx).Clear(ctx, userID); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *OrderService) announce(ctx context.Context, orders []models.Order) {
	if len(orders) == 0 {
		return
	}
	ev := OrderPlaced{
		UserID:        orders[0].UserID,
		PaymentStatus: orders[0].PaymentStatus,
		Total:         decimal.Zero,
	}
	for _, o := range orders {
		ev.OrderIDs = append(ev.OrderIDs, o.OrderCode)
		ev.Total = ev.Total.Add(o.TotalAmt)
	}
	logger.WithCtx(ctx).Info("order placed",
		"user_id", ev.UserID, "orders", len(orders),
		"payment_status", string(ev.PaymentStatus), "total", ev.Total.StringFixed(2))
	event.FireAsync(EventOrderPlaced, ev)
}
