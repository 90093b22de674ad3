// Package cartstore is the client-side cart state. A Store runs in guest
// mode, keeping the cart in memory, until SignIn; from then on every change
// goes through the Cart API and the store mirrors the server's answer.
package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/storefront/app/pricing"
)

type Mode string

const (
	ModeGuest Mode = "guest"
	ModeUser  Mode = "user"
)

// ErrNotInCart is returned when a quantity change names a product that has
// no line in the active cart.
var ErrNotInCart = errors.New("cartstore: product not in cart")

// Product is the snapshot of a product a cart line carries.
type Product struct {
	ID       uint            `json:"id"`
	Name     string          `json:"name"`
	Image    []string        `json:"image"`
	Price    decimal.Decimal `json:"price"`
	Discount int             `json:"discount"`
}

// MarshalJSON writes Price as a bare JSON number, the form the storefront
// API sends, whatever the process-wide decimal setting is.
func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	return json.Marshal(struct {
		plain
		Price json.Number `json:"price"`
	}{plain(p), json.Number(p.Price.String())})
}

// Line is one cart line. ItemID is the server row id and is zero for guest
// lines. Product is nil when the server row's product no longer exists.
type Line struct {
	ItemID   uint     `json:"itemId,omitempty"`
	Product  *Product `json:"product"`
	Quantity int      `json:"quantity"`
}

func (l Line) productID() uint {
	if l.Product == nil {
		return 0
	}
	return l.Product.ID
}

// API is the server cart, scoped to the signed-in user.
type API interface {
	Add(ctx context.Context, productID uint) error
	UpdateQuantity(ctx context.Context, itemID uint, qty int) error
	Remove(ctx context.Context, itemID uint) error
	Clear(ctx context.Context) error
	List(ctx context.Context) ([]Line, error)
}

// Store holds the guest cart and the mirrored server cart. It is safe for
// concurrent use; mutations are serialised, including their API round trips.
type Store struct {
	mu     sync.Mutex
	api    API
	userID uint
	guest  []Line
	server []Line
}

func New(api API) *Store {
	return &Store{api: api}
}

func (s *Store) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode()
}

func (s *Store) mode() Mode {
	if s.userID == 0 {
		return ModeGuest
	}
	return ModeUser
}

// SignIn switches to user mode and loads the server cart. The guest cart is
// kept but not merged; see MergeGuestIntoServer.
func (s *Store) SignIn(ctx context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
	return s.refresh(ctx)
}

// SignOut returns to guest mode and drops the server mirror.
func (s *Store) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = 0
	s.server = nil
}

func (s *Store) refresh(ctx context.Context) error {
	lines, err := s.api.List(ctx)
	if err != nil {
		return fmt.Errorf("cartstore: refresh: %w", err)
	}
	s.server = lines
	return nil
}

// Add puts one unit of p in the cart.
func (s *Store) Add(ctx context.Context, p Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode() == ModeGuest {
		if i := find(s.guest, p.ID); i >= 0 {
			s.guest[i].Quantity++
			return nil
		}
		snap := p
		s.guest = append(s.guest, Line{Product: &snap, Quantity: 1})
		return nil
	}

	if err := s.api.Add(ctx, p.ID); err != nil {
		return err
	}
	return s.refresh(ctx)
}

func (s *Store) Increment(ctx context.Context, productID uint) error {
	return s.step(ctx, productID, 1)
}

// Decrement lowers the quantity by one; from one it removes the line.
func (s *Store) Decrement(ctx context.Context, productID uint) error {
	return s.step(ctx, productID, -1)
}

func (s *Store) step(ctx context.Context, productID uint, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.active(), productID)
	if i < 0 {
		return ErrNotInCart
	}
	return s.setQuantity(ctx, i, s.active()[i].Quantity+delta)
}

// SetQuantity sets the quantity of productID's line; below 1 removes it.
func (s *Store) SetQuantity(ctx context.Context, productID uint, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.active(), productID)
	if i < 0 {
		return ErrNotInCart
	}
	return s.setQuantity(ctx, i, qty)
}

func (s *Store) Remove(ctx context.Context, productID uint) error {
	return s.SetQuantity(ctx, productID, 0)
}

func (s *Store) setQuantity(ctx context.Context, i, qty int) error {
	if s.mode() == ModeGuest {
		if qty < 1 {
			s.guest = append(s.guest[:i], s.guest[i+1:]...)
		} else {
			s.guest[i].Quantity = qty
		}
		return nil
	}

	item := s.server[i].ItemID
	var err error
	if qty < 1 {
		err = s.api.Remove(ctx, item)
	} else {
		err = s.api.UpdateQuantity(ctx, item, qty)
	}
	if err != nil {
		return err
	}
	return s.refresh(ctx)
}

// Clear empties the active cart.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode() == ModeGuest {
		s.guest = nil
		return nil
	}
	if err := s.api.Clear(ctx); err != nil {
		return err
	}
	return s.refresh(ctx)
}

func (s *Store) active() []Line {
	if s.mode() == ModeGuest {
		return s.guest
	}
	return s.server
}

// Lines returns a copy of the active cart.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Line(nil), s.active()...)
}

// Quantity returns productID's quantity in the active cart, 0 if absent.
func (s *Store) Quantity(productID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := find(s.active(), productID); i >= 0 {
		return s.active()[i].Quantity
	}
	return 0
}

// Totals folds the active cart through the pricing rules. Lines without a
// product count toward the quantity but add nothing to the price.
func (s *Store) Totals() pricing.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := make([]pricing.Line, 0, len(s.active()))
	for _, l := range s.active() {
		pl := pricing.Line{Quantity: l.Quantity}
		if l.Product != nil {
			pl.Product = &pricing.Item{Price: l.Product.Price, Discount: l.Product.Discount}
		}
		lines = append(lines, pl)
	}
	return pricing.Summarize(lines)
}

// SaveGuest writes the guest cart as JSON.
func (s *Store) SaveGuest(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	guest := s.guest
	if guest == nil {
		guest = []Line{}
	}
	return json.NewEncoder(w).Encode(guest)
}

// LoadGuest replaces the guest cart with one written by SaveGuest. Lines
// without a product or with a quantity below 1 are dropped, and repeated
// lines for one product are folded into the first, summing quantities.
func (s *Store) LoadGuest(r io.Reader) error {
	var lines []Line
	if err := json.NewDecoder(r).Decode(&lines); err != nil {
		return fmt.Errorf("cartstore: load guest cart: %w", err)
	}
	kept := make([]Line, 0, len(lines))
	at := make(map[uint]int, len(lines))
	for _, l := range lines {
		if l.Product == nil || l.Quantity < 1 {
			continue
		}
		if i, ok := at[l.Product.ID]; ok {
			kept[i].Quantity += l.Quantity
			continue
		}
		l.ItemID = 0
		at[l.Product.ID] = len(kept)
		kept = append(kept, l)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.guest = kept
	return nil
}

// MergeGuestIntoServer adds every guest line to the signed-in user's server
// cart, summing quantities with lines already there, then empties the guest
// cart. It is never called implicitly.
func (s *Store) MergeGuestIntoServer(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode() == ModeGuest {
		return errors.New("cartstore: merge needs a signed-in user")
	}
	if err := s.refresh(ctx); err != nil {
		return err
	}

	for len(s.guest) > 0 {
		g := s.guest[0]
		want := g.Quantity
		if i := find(s.server, g.productID()); i >= 0 {
			want += s.server[i].Quantity
		} else {
			if err := s.api.Add(ctx, g.productID()); err != nil {
				return err
			}
			if err := s.refresh(ctx); err != nil {
				return err
			}
		}
		if i := find(s.server, g.productID()); i >= 0 && s.server[i].Quantity != want {
			if err := s.api.UpdateQuantity(ctx, s.server[i].ItemID, want); err != nil {
				return err
			}
		}
		s.guest = s.guest[1:]
	}
	s.guest = nil
	return s.refresh(ctx)
}

func find(lines []Line, productID uint) int {
	for i, l := range lines {
		if l.productID() == productID {
			return i
		}
	}
	return -1
}
