package cartstore

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method, path, auth string
	body               map[string]interface{}
}

func cartServer(t *testing.T, got *[]recorded) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path, auth: r.Header.Get("Authorization")}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			require.NoError(t, json.Unmarshal(raw, &rec.body))
		}
		*got = append(*got, rec)

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/cart/get":
			_, _ = io.WriteString(w, `{"success":true,"error":false,"message":"Cart fetched","data":{"items":[
				{"ID":11,"productId":1,"quantity":2,"product":{"ID":1,"name":"Rice","image":["r.png"],"price":"100","discount":10}},
				{"ID":12,"productId":9,"quantity":1}
			],"totals":{}}}`)
		case "/api/cart/create":
			if rec.body["productId"] == float64(404) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = io.WriteString(w, `{"success":false,"error":true,"message":"Product not found"}`)
				return
			}
			_, _ = io.WriteString(w, `{"success":true,"error":false,"message":"Item added"}`)
		default:
			_, _ = io.WriteString(w, `{"success":true,"error":false,"message":"ok"}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPAPI_Requests(t *testing.T) {
	var got []recorded
	srv := cartServer(t, &got)
	api := NewHTTPAPI(srv.URL+"/api/cart/", "tok")
	ctx := context.Background()

	require.NoError(t, api.Add(ctx, 1))
	require.NoError(t, api.UpdateQuantity(ctx, 11, 4))
	require.NoError(t, api.Remove(ctx, 11))
	require.NoError(t, api.Clear(ctx))

	require.Len(t, got, 4)
	assert.Equal(t, "POST", got[0].method)
	assert.Equal(t, "/api/cart/create", got[0].path)
	assert.Equal(t, "Bearer tok", got[0].auth)
	assert.Equal(t, float64(1), got[0].body["productId"])

	assert.Equal(t, "PUT", got[1].method)
	assert.Equal(t, float64(11), got[1].body["_id"])
	assert.Equal(t, float64(4), got[1].body["qty"])

	assert.Equal(t, "DELETE", got[2].method)
	assert.Equal(t, float64(11), got[2].body["_id"])
	assert.Equal(t, true, got[3].body["clearAll"])
}

func TestHTTPAPI_List(t *testing.T) {
	var got []recorded
	srv := cartServer(t, &got)
	lines, err := NewHTTPAPI(srv.URL+"/api/cart", "tok").List(context.Background())
	require.NoError(t, err)

	require.Len(t, lines, 2)
	assert.Equal(t, uint(11), lines[0].ItemID)
	require.NotNil(t, lines[0].Product)
	assert.Equal(t, uint(1), lines[0].Product.ID)
	assert.Equal(t, "Rice", lines[0].Product.Name)
	assert.Equal(t, 10, lines[0].Product.Discount)
	assert.Nil(t, lines[1].Product)
	assert.Equal(t, 1, lines[1].Quantity)
}

func TestHTTPAPI_ErrorMessage(t *testing.T) {
	var got []recorded
	srv := cartServer(t, &got)
	err := NewHTTPAPI(srv.URL+"/api/cart", "tok").Add(context.Background(), 404)
	assert.EqualError(t, err, "cartstore: Product not found")
}

func TestHTTPAPI_WithStore(t *testing.T) {
	var got []recorded
	srv := cartServer(t, &got)
	s := New(NewHTTPAPI(srv.URL+"/api/cart", "tok"))
	require.NoError(t, s.SignIn(context.Background(), 1))

	assert.Equal(t, 2, s.Quantity(1))
	assert.Equal(t, 3, s.Totals().TotalQty)
	assert.Equal(t, "180", s.Totals().TotalPrice.String())
}
