package cartstore

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI is an in-memory server cart.
type fakeAPI struct {
	products map[uint]Product
	items    []Line
	nextID   uint
	calls    []string
	failAdd  error
}

func newFakeAPI(products ...Product) *fakeAPI {
	f := &fakeAPI{products: map[uint]Product{}, nextID: 100}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeAPI) Add(_ context.Context, productID uint) error {
	f.calls = append(f.calls, "add")
	if f.failAdd != nil {
		return f.failAdd
	}
	if i := find(f.items, productID); i >= 0 {
		f.items[i].Quantity++
		return nil
	}
	p := f.products[productID]
	f.nextID++
	f.items = append(f.items, Line{ItemID: f.nextID, Product: &p, Quantity: 1})
	return nil
}

func (f *fakeAPI) UpdateQuantity(_ context.Context, itemID uint, qty int) error {
	f.calls = append(f.calls, "update")
	for i := range f.items {
		if f.items[i].ItemID == itemID {
			f.items[i].Quantity = qty
			return nil
		}
	}
	return errors.New("cart item not found")
}

func (f *fakeAPI) Remove(_ context.Context, itemID uint) error {
	f.calls = append(f.calls, "remove")
	for i := range f.items {
		if f.items[i].ItemID == itemID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return errors.New("cart item not found")
}

func (f *fakeAPI) Clear(context.Context) error {
	f.calls = append(f.calls, "clear")
	f.items = nil
	return nil
}

func (f *fakeAPI) List(context.Context) ([]Line, error) {
	return append([]Line(nil), f.items...), nil
}

var (
	rice = Product{ID: 1, Name: "Rice", Price: decimal.NewFromInt(100), Discount: 10}
	dal  = Product{ID: 2, Name: "Dal", Price: decimal.NewFromInt(50)}
)

func TestStore_GuestMode(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI(rice, dal)
	s := New(api)
	assert.Equal(t, ModeGuest, s.Mode())

	require.NoError(t, s.Add(ctx, rice))
	require.NoError(t, s.Add(ctx, rice))
	require.NoError(t, s.Add(ctx, dal))
	assert.Equal(t, 2, s.Quantity(rice.ID))
	assert.Len(t, s.Lines(), 2)

	totals := s.Totals()
	assert.True(t, totals.TotalPrice.Equal(decimal.NewFromInt(230)), totals.TotalPrice.String())
	assert.True(t, totals.NotDiscountTotalPrice.Equal(decimal.NewFromInt(250)))
	assert.True(t, totals.Savings.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, 3, totals.TotalQty)

	require.NoError(t, s.Decrement(ctx, dal.ID))
	assert.Equal(t, 0, s.Quantity(dal.ID))
	assert.Len(t, s.Lines(), 1)

	require.NoError(t, s.SetQuantity(ctx, rice.ID, 5))
	assert.Equal(t, 5, s.Quantity(rice.ID))
	assert.ErrorIs(t, s.Increment(ctx, dal.ID), ErrNotInCart)

	require.NoError(t, s.Clear(ctx))
	assert.Empty(t, s.Lines())
	assert.Empty(t, api.calls, "guest mode never calls the server")
}

func TestStore_UserModeMirrorsServer(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI(rice, dal)
	s := New(api)
	require.NoError(t, s.SignIn(ctx, 7))
	assert.Equal(t, ModeUser, s.Mode())

	require.NoError(t, s.Add(ctx, rice))
	require.NoError(t, s.Increment(ctx, rice.ID))
	assert.Equal(t, 2, s.Quantity(rice.ID))

	require.NoError(t, s.Decrement(ctx, rice.ID))
	require.NoError(t, s.Decrement(ctx, rice.ID))
	assert.Equal(t, 0, s.Quantity(rice.ID))
	assert.Equal(t, []string{"add", "update", "update", "remove"}, api.calls)

	require.NoError(t, s.Add(ctx, dal))
	require.NoError(t, s.Clear(ctx))
	assert.Empty(t, s.Lines())
}

func TestStore_ServerErrorLeavesMirror(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI(rice)
	s := New(api)
	require.NoError(t, s.SignIn(ctx, 7))

	api.failAdd = errors.New("Product not found")
	assert.EqualError(t, s.Add(ctx, rice), "Product not found")
	assert.Empty(t, s.Lines())
}

func TestStore_SignInKeepsGuestCartSeparate(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI(rice, dal)
	s := New(api)
	require.NoError(t, s.Add(ctx, dal))

	require.NoError(t, s.SignIn(ctx, 7))
	assert.Empty(t, s.Lines(), "guest lines are not merged implicitly")

	s.SignOut()
	assert.Equal(t, 1, s.Quantity(dal.ID))
}

func TestStore_MergeGuestIntoServer(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI(rice, dal)
	s := New(api)

	assert.Error(t, s.MergeGuestIntoServer(ctx))

	require.NoError(t, s.Add(ctx, rice))
	require.NoError(t, s.Add(ctx, rice))
	require.NoError(t, s.Add(ctx, dal))

	require.NoError(t, s.SignIn(ctx, 7))
	require.NoError(t, s.Add(ctx, rice))

	require.NoError(t, s.MergeGuestIntoServer(ctx))
	assert.Equal(t, 3, s.Quantity(rice.ID))
	assert.Equal(t, 1, s.Quantity(dal.ID))

	s.SignOut()
	assert.Empty(t, s.Lines(), "guest cart is emptied by a merge")
}

func TestStore_SaveLoadGuest(t *testing.T) {
	ctx := context.Background()
	s := New(newFakeAPI())
	require.NoError(t, s.Add(ctx, rice))
	require.NoError(t, s.SetQuantity(ctx, rice.ID, 3))

	var buf bytes.Buffer
	require.NoError(t, s.SaveGuest(&buf))
	assert.Contains(t, buf.String(), `"price":100`)

	restored := New(newFakeAPI())
	require.NoError(t, restored.LoadGuest(&buf))
	assert.Equal(t, 3, restored.Quantity(rice.ID))
	assert.True(t, restored.Totals().TotalPrice.Equal(decimal.NewFromInt(270)))

	bad := New(newFakeAPI())
	require.NoError(t, bad.LoadGuest(bytes.NewBufferString(`[{"product":null,"quantity":2},{"product":{"id":2},"quantity":0}]`)))
	assert.Empty(t, bad.Lines())
	assert.Error(t, bad.LoadGuest(bytes.NewBufferString(`{`)))
}

func TestStore_LoadGuestFoldsRepeatedProducts(t *testing.T) {
	s := New(newFakeAPI())
	saved := `[{"product":{"id":1,"name":"Rice","price":100,"discount":10},"quantity":2},` +
		`{"product":{"id":2,"name":"Dal","price":"50"},"quantity":1},` +
		`{"product":{"id":1,"name":"Rice","price":100,"discount":10},"quantity":3}]`
	require.NoError(t, s.LoadGuest(bytes.NewBufferString(saved)))

	require.Len(t, s.Lines(), 2)
	assert.Equal(t, 5, s.Quantity(1))
	assert.Equal(t, 6, s.Totals().TotalQty)

	require.NoError(t, s.Decrement(context.Background(), 1))
	assert.Equal(t, 4, s.Quantity(1))
	assert.Equal(t, 5, s.Totals().TotalQty)
}
