// Package api is a typed client for the storefront REST API. Every
// authenticated call takes the bearer token explicitly so callers decide
// where tokens live.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/fanmerch/storefront/internal/core/domain"
)

const (
	defaultTimeout = 10 * time.Second
	readRetries    = 2
	readRetryDelay = 200 * time.Millisecond
)

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	backoff    func() retry.Backoff
}

type Option func(*Client)

// WithHTTPClient replaces the default client, e.g. with httptest's.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithReadRetries sets how often idempotent reads are retried after a
// transport failure or a 502/503/504, and the delay between attempts.
func WithReadRetries(n uint64, delay time.Duration) Option {
	return func(c *Client) {
		c.backoff = func() retry.Backoff { return retry.WithMaxRetries(n, retry.NewConstant(delay)) }
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	WithReadRetries(readRetries, readRetryDelay)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Signup(ctx context.Context, email, password, name string) (*AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{"email": email, "password": password, "name": name}
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Me(ctx context.Context, token string) (*domain.User, error) {
	var out domain.User
	if err := c.get(ctx, "/api/auth/me", token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, token string, update domain.ProfileUpdate) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, http.MethodPut, "/api/auth/profile", token, update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Wishlist(ctx context.Context, token string) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.get(ctx, "/api/wishlist", token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddToWishlist(ctx context.Context, token, productID string) (domain.Product, error) {
	var out domain.Product
	err := c.do(ctx, http.MethodPost, "/api/wishlist", token, map[string]string{"productId": productID}, &out)
	return out, err
}

func (c *Client) RemoveFromWishlist(ctx context.Context, token, productID string) error {
	return c.do(ctx, http.MethodDelete, "/api/wishlist/"+url.PathEscape(productID), token, nil, nil)
}

func (c *Client) MoveToCart(ctx context.Context, token, productID string) (domain.Product, error) {
	var out struct {
		Product domain.Product `json:"product"`
	}
	err := c.do(ctx, http.MethodPost, "/api/wishlist/move-to-cart", token, map[string]string{"productId": productID}, &out)
	return out.Product, err
}

// Subscribe signs up for the newsletter. An empty email uses the account's.
func (c *Client) Subscribe(ctx context.Context, token, email string, preferences map[string]bool) (*domain.Subscription, error) {
	body := struct {
		Email       string          `json:"email,omitempty"`
		Preferences map[string]bool `json:"preferences,omitempty"`
	}{email, preferences}

	var out struct {
		Subscription domain.Subscription `json:"subscription"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/subscribe", token, body, &out); err != nil {
		return nil, err
	}
	return &out.Subscription, nil
}

func (c *Client) Unsubscribe(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodDelete, "/api/subscribe", token, nil, nil)
}

// Health reports whether the API answers its liveness probe.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/api/health", "", nil)
}

// get issues an idempotent read, retrying transient failures.
func (c *Client) get(ctx context.Context, path, token string, out any) error {
	return retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		err := c.do(ctx, http.MethodGet, path, token, nil, out)
		if transient(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func transient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	switch StatusOf(err) {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	var ue *url.Error
	return errors.As(err, &ue)
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(raw, &payload) != nil || payload.Error == "" {
		payload.Error = strings.TrimSpace(string(raw))
	}
	return &Error{Status: resp.StatusCode, Message: payload.Error}
}
