package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/pricing"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

// CartView is the authoritative server cart with its derived totals.
type CartView struct {
	Items  []models.CartItem `json:"items"`
	Totals pricing.Totals    `json:"totals"`
}

type CartService struct {
	carts   *repositories.CartRepository
	catalog *repositories.CatalogRepository
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{
		carts:   repositories.NewCartRepository(db),
		catalog: repositories.NewCatalogRepository(db),
	}
}

// Add puts one unit of productID in the user's cart, creating the line or
// incrementing the existing one.
func (s *CartService) Add(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	if _, err := s.catalog.ProductByID(ctx, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	item, err := s.carts.FindByProduct(ctx, userID, productID)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		item = &models.CartItem{UserID: userID, ProductID: productID, Quantity: 1}
		err = s.carts.Create(ctx, item)
		if errors.Is(err, repositories.ErrDuplicate) {
			// a concurrent add created the line first
			if item, err = s.carts.FindByProduct(ctx, userID, productID); err == nil {
				err = s.increment(ctx, item)
			}
		}
	case err == nil:
		err = s.increment(ctx, item)
	}
	if err != nil {
		return nil, err
	}
	metrics.CartMutations.WithLabelValues("add").Inc()
	return item, nil
}

func (s *CartService) increment(ctx context.Context, item *models.CartItem) error {
	if err := s.carts.Increment(ctx, item.ID, 1); err != nil {
		return err
	}
	item.Quantity++
	return nil
}

// UpdateQuantity sets a line's quantity; below 1 removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID uint, qty int) error {
	if qty < 1 {
		return s.Remove(ctx, userID, itemID)
	}
	if err := s.carts.SetQuantity(ctx, userID, itemID, qty); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCartItemNotFound
		}
		return err
	}
	metrics.CartMutations.WithLabelValues("update").Inc()
	return nil
}

func (s *CartService) Remove(ctx context.Context, userID, itemID uint) error {
	if err := s.carts.Delete(ctx, userID, itemID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCartItemNotFound
		}
		return err
	}
	metrics.CartMutations.WithLabelValues("remove").Inc()
	return nil
}

func (s *CartService) Clear(ctx context.Context, userID uint) error {
	if _, err := s.carts.Clear(ctx, userID); err != nil {
		return err
	}
	metrics.CartMutations.WithLabelValues("clear").Inc()
	return nil
}

func (s *CartService) List(ctx context.Context, userID uint) (*CartView, error) {
	items, err := s.carts.Items(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return &CartView{Items: items, Totals: pricing.Summarize(cartLines(items))}, nil
}

// cartLines maps cart rows to pricing lines; a row whose product has been
// deleted keeps its quantity but prices at zero.
func cartLines(items []models.CartItem) []pricing.Line {
	lines := make([]pricing.Line, 0, len(items))
	for _, it := range items {
		l := pricing.Line{Quantity: it.Quantity}
		if it.Product != nil {
			l.Product = &pricing.Item{Price: it.Product.Price, Discount: it.Product.Discount}
		}
		lines = append(lines, l)
	}
	return lines
}
