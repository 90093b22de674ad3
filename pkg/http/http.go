// Package http is a small fluent JSON client for calling the storefront API
// from Go (the cart store uses it):
//
//	res, err := http.Put(base + "/api/cart/update-qty").
//	    Bearer(token).
//	    Body(map[string]any{"_id": id, "qty": 3}).
//	    WithContext(ctx).
//	    Send()
//
//	var env Envelope
//	err = res.JSON(&env)
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	gohttp "net/http"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

const (
	defaultTimeout  = 15 * time.Second
	maxResponseBody = 4 << 20
)

// Client performs every request. Swap it in tests to intercept calls.
var Client = &gohttp.Client{
	Transport: &gohttp.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	},
}

// Request is built fluently and executed by Send.
type Request struct {
	method   string
	url      string
	header   gohttp.Header
	body     any
	timeout  time.Duration
	attempts int
	backoff  time.Duration
	ctx      context.Context
}

func Get(url string) *Request    { return newRequest(gohttp.MethodGet, url) }
func Post(url string) *Request   { return newRequest(gohttp.MethodPost, url) }
func Put(url string) *Request    { return newRequest(gohttp.MethodPut, url) }
func Delete(url string) *Request { return newRequest(gohttp.MethodDelete, url) }

func newRequest(method, url string) *Request {
	h := gohttp.Header{}
	h.Set("Accept", "application/json")
	return &Request{
		method:   method,
		url:      url,
		header:   h,
		timeout:  defaultTimeout,
		attempts: 1,
		ctx:      context.Background(),
	}
}

func (r *Request) Header(key, value string) *Request {
	r.header.Set(key, value)
	return r
}

// Bearer sets the Authorization header. An empty token is ignored.
func (r *Request) Bearer(token string) *Request {
	if token != "" {
		r.header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// Body sets a JSON request body.
func (r *Request) Body(v any) *Request {
	r.body = v
	return r
}

// Timeout bounds each attempt.
func (r *Request) Timeout(d time.Duration) *Request {
	r.timeout = d
	return r
}

// Retry allows up to n attempts on transport errors and 5xx answers,
// doubling wait between attempts. 4xx answers are returned at once.
func (r *Request) Retry(n int, wait time.Duration) *Request {
	if n < 1 {
		n = 1
	}
	r.attempts = n
	r.backoff = wait
	return r
}

func (r *Request) WithContext(ctx context.Context) *Request {
	if ctx != nil {
		r.ctx = ctx
	}
	return r
}

// Send executes the request. A 5xx on the final attempt is returned as a
// Response, not an error.
func (r *Request) Send() (*Response, error) {
	payload, err := r.encode()
	if err != nil {
		return nil, err
	}

	wait := r.backoff
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		res, err := r.do(payload)
		switch {
		case err == nil && (res.StatusCode < 500 || attempt == r.attempts):
			return res, nil
		case err == nil:
			lastErr = fmt.Errorf("server responded %d", res.StatusCode)
		default:
			lastErr = err
		}
		if attempt == r.attempts {
			break
		}

		logger.WithCtx(r.ctx).Warn("http: retrying",
			"method", r.method, "url", r.url, "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(wait):
		case <-r.ctx.Done():
			return nil, fmt.Errorf("http: %s %s: %w", r.method, r.url, r.ctx.Err())
		}
		wait *= 2
	}
	return nil, fmt.Errorf("http: %s %s: %w", r.method, r.url, lastErr)
}

func (r *Request) encode() ([]byte, error) {
	if r.body == nil {
		return nil, nil
	}
	b, err := json.Marshal(r.body)
	if err != nil {
		return nil, fmt.Errorf("http: encode body: %w", err)
	}
	return b, nil
}

func (r *Request) do(payload []byte) (*Response, error) {
	ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := gohttp.NewRequestWithContext(ctx, r.method, r.url, body)
	if err != nil {
		return nil, fmt.Errorf("http: build request: %w", err)
	}
	req.Header = r.header.Clone()
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("http: read body: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Raw: raw}, nil
}

// Response is a fully read HTTP answer.
type Response struct {
	StatusCode int
	Header     gohttp.Header
	Raw        []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

func (r *Response) JSON(dest any) error {
	if err := json.Unmarshal(r.Raw, dest); err != nil {
		return fmt.Errorf("http: decode body: %w", err)
	}
	return nil
}

// Throw turns a non-2xx answer into an error carrying the body.
func (r *Response) Throw() error {
	if r.OK() {
		return nil
	}
	return fmt.Errorf("http: status %d: %s", r.StatusCode, bytes.TrimSpace(r.Raw))
}
