package http

import (
	"context"
	"encoding/json"
	gohttp "net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendJSONWithBearer(t *testing.T) {
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		assert.Equal(t, gohttp.MethodPut, r.Method)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		var in map[string]int
		_ = json.NewDecoder(r.Body).Decode(&in)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]int{"qty": in["qty"] + 1})
	}))
	defer srv.Close()

	resp, err := Put(srv.URL).Bearer("tok").Body(map[string]int{"qty": 2}).Send()
	require.NoError(t, err)
	require.NoError(t, resp.Throw())

	var out map[string]int
	require.NoError(t, resp.JSON(&out))
	assert.Equal(t, 3, out["qty"])
}

func TestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, _ *gohttp.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(gohttp.StatusBadGateway)
			return
		}
		w.WriteHeader(gohttp.StatusOK)
	}))
	defer srv.Close()

	resp, err := Get(srv.URL).Retry(3, time.Millisecond).Send()
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, _ *gohttp.Request) {
		calls.Add(1)
		w.WriteHeader(gohttp.StatusNotFound)
	}))
	defer srv.Close()

	resp, err := Delete(srv.URL).Retry(3, time.Millisecond).Send()
	require.NoError(t, err)
	assert.Error(t, resp.Throw())
	assert.Equal(t, int32(1), calls.Load())
}

func TestCancelledContextStopsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Get("http://127.0.0.1:1").WithContext(ctx).Retry(5, time.Second).Send()
	assert.Error(t, err)
}
