package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/strongcode/gymbook/internal/logger"
	"github.com/strongcode/gymbook/pkg/domain"
)

// absentToken is what the Authorization header carries when no session
// token is stored. The API rejects it like any other invalid token.
const absentToken = "null"

// TokenSource yields the current session token.
type TokenSource interface {
	Token() (string, bool)
}

// Client is the gym booking API client.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	log        *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithTimeout sets a whole-request timeout. Zero means none.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		h := *c.httpClient
		h.Timeout = d
		c.httpClient = &h
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a new API client. The token is read from tokens before every
// request, so a login or logout through the same store is seen immediately.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{},
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API base address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	var resp domain.LoginResponse
	if err := c.post(ctx, "/auth/login", req, &resp); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &resp, nil
}

// ListClasses fetches every class.
func (c *Client) ListClasses(ctx context.Context) ([]domain.Class, error) {
	var classes []domain.Class
	if err := c.get(ctx, "/classes", &classes); err != nil {
		return nil, fmt.Errorf("client.ListClasses: %w", err)
	}
	return classes, nil
}

// ListGyms fetches every gym.
func (c *Client) ListGyms(ctx context.Context) ([]domain.Gym, error) {
	var gyms []domain.Gym
	if err := c.get(ctx, "/gyms", &gyms); err != nil {
		return nil, fmt.Errorf("client.ListGyms: %w", err)
	}
	return gyms, nil
}

// ListBookings fetches the caller's bookings.
func (c *Client) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	var bookings []domain.Booking
	if err := c.get(ctx, "/bookings", &bookings); err != nil {
		return nil, fmt.Errorf("client.ListBookings: %w", err)
	}
	return bookings, nil
}

// CreateBooking books the class with the given ID.
func (c *Client) CreateBooking(ctx context.Context, classID int) (*domain.Booking, error) {
	var b domain.Booking
	if err := c.post(ctx, "/bookings", domain.BookingRequest{ClassID: classID}, &b); err != nil {
		return nil, fmt.Errorf("client.CreateBooking: %w", err)
	}
	return &b, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Do sends one request to baseURL+path and decodes a 2xx JSON body into out
// (when out is non-nil). Any failure is reported as ErrAPI.
func (c *Client) Do(ctx context.Context, method, path string, body any, out any) error {
	reqID := uuid.NewString()
	log := c.log.With(logger.RequestID(reqID), logger.Method(method), logger.Path(path))

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.bearer())
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			log.Debug("request canceled", zap.Error(ctxErr))
			return &canceledError{cause: ctxErr}
		}
		log.Warn("request failed", zap.Error(err))
		return ErrAPI
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	log = log.With(logger.Status(resp.StatusCode), zap.Duration("elapsed", time.Since(start)))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused; the body is never surfaced.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20)) //nolint:errcheck
		log.Warn("non-success status")
		return ErrAPI
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			log.Warn("decode response", zap.Error(err))
			return ErrAPI
		}
	}
	log.Debug("request ok")
	return nil
}

func (c *Client) bearer() string {
	if c.tokens == nil {
		return absentToken
	}
	if tok, ok := c.tokens.Token(); ok {
		return tok
	}
	return absentToken
}
