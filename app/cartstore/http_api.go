package cartstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shashiranjanraj/storefront/pkg/http"
)

// HTTPAPI talks to the storefront Cart endpoints under BaseURL (for example
// "https://shop.example.com/api/cart") as the holder of Token.
type HTTPAPI struct {
	BaseURL string
	Token   string
}

func NewHTTPAPI(baseURL, token string) *HTTPAPI {
	return &HTTPAPI{BaseURL: strings.TrimRight(baseURL, "/"), Token: token}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// serverItem is a CartItem row as the server renders it.
type serverItem struct {
	ID        uint     `json:"ID"`
	ProductID uint     `json:"productId"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product"`
}

func (a *HTTPAPI) Add(ctx context.Context, productID uint) error {
	_, err := a.send(ctx, http.Post(a.BaseURL+"/create").Body(map[string]uint{"productId": productID}))
	return err
}

func (a *HTTPAPI) UpdateQuantity(ctx context.Context, itemID uint, qty int) error {
	_, err := a.send(ctx, http.Put(a.BaseURL+"/update-qty").Body(map[string]interface{}{"_id": itemID, "qty": qty}))
	return err
}

func (a *HTTPAPI) Remove(ctx context.Context, itemID uint) error {
	_, err := a.send(ctx, http.Delete(a.BaseURL+"/delete-cart-item").Body(map[string]uint{"_id": itemID}))
	return err
}

func (a *HTTPAPI) Clear(ctx context.Context) error {
	_, err := a.send(ctx, http.Delete(a.BaseURL+"/delete-cart-item").Body(map[string]bool{"clearAll": true}))
	return err
}

func (a *HTTPAPI) List(ctx context.Context) ([]Line, error) {
	env, err := a.send(ctx, http.Get(a.BaseURL+"/get"))
	if err != nil {
		return nil, err
	}
	var data struct {
		Items []serverItem `json:"items"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("cartstore: decode cart: %w", err)
	}
	lines := make([]Line, 0, len(data.Items))
	for _, it := range data.Items {
		if it.Product != nil && it.Product.ID == 0 {
			it.Product.ID = it.ProductID
		}
		lines = append(lines, Line{ItemID: it.ID, Product: it.Product, Quantity: it.Quantity})
	}
	return lines, nil
}

func (a *HTTPAPI) send(ctx context.Context, req *http.Request) (*envelope, error) {
	res, err := req.Bearer(a.Token).WithContext(ctx).Send()
	if err != nil {
		return nil, fmt.Errorf("cartstore: %w", err)
	}
	var env envelope
	if err := res.JSON(&env); err != nil {
		if !res.OK() {
			return nil, fmt.Errorf("cartstore: %w", res.Throw())
		}
		return nil, fmt.Errorf("cartstore: %w", err)
	}
	if !res.OK() || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("status %d", res.StatusCode)
		}
		return nil, fmt.Errorf("cartstore: %s", msg)
	}
	return &env, nil
}
