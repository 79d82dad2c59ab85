package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/futsal-booking/internal"
	"github.com/frahmantamala/futsal-booking/internal/booking"
	bookingDatamodel "github.com/frahmantamala/futsal-booking/internal/core/datamodel/booking"
	paymentDatamodel "github.com/frahmantamala/futsal-booking/internal/core/datamodel/payment"
	"github.com/frahmantamala/futsal-booking/internal/payment"
	"github.com/google/uuid"
)

// Error is a non-2xx answer from the backend. It is returned unchanged to
// callers so transport failures stay distinguishable from local validation.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// HTTPStatus is the status the BFF answers with: client errors pass through,
// server errors become 502.
func (e *Error) HTTPStatus() int {
	if e.StatusCode >= 400 && e.StatusCode < 500 {
		return e.StatusCode
	}
	return http.StatusBadGateway
}

func (e *Error) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

type envelope[T any] struct {
	Data T `json:"data"`
}

// Client talks JSON to the booking backend, forwarding the caller's session
// token from the context.
type Client struct {
	client  *http.Client
	baseURL string
	logger  *slog.Logger
}

func NewClient(cfg internal.BackendConfig, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  logger,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reqBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal error: %w", err)
		}
		reader = bytes.NewReader(reqBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("request creation error: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token := internal.TokenFromContext(ctx); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Error("backend request failed", "error", err, "method", method, "path", path)
		return fmt.Errorf("backend %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("response read error: %w", err)
	}

	c.logger.Debug("backend response",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("backend returned error",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"response", string(respBody))
		return &Error{Method: method, Path: path, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("response decode error: %w", err)
	}
	return nil
}

func get[T any](ctx context.Context, c *Client, path string) (T, error) {
	var env envelope[T]
	err := c.do(ctx, http.MethodGet, path, nil, &env)
	return env.Data, err
}

func (c *Client) FetchBookingHistory(ctx context.Context, bookingID int64) ([]bookingDatamodel.StatusChangeRecord, error) {
	return get[[]bookingDatamodel.StatusChangeRecord](ctx, c, fmt.Sprintf("/bookings/%d/history", bookingID))
}

func (c *Client) FetchPaymentLogs(ctx context.Context, paymentID int64) ([]paymentDatamodel.PaymentLogRecord, error) {
	return get[[]paymentDatamodel.PaymentLogRecord](ctx, c, fmt.Sprintf("/payments/%d/logs", paymentID))
}

func (c *Client) SubmitTransition(ctx context.Context, bookingID int64, target booking.Status, reason string) error {
	req := bookingDatamodel.TransitionRequest{Status: string(target), Reason: reason}
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/bookings/%d/status", bookingID), req, nil)
}

func (c *Client) SubmitPaymentAction(ctx context.Context, paymentID int64, action payment.Action, reason string) error {
	req := paymentDatamodel.ActionRequest{Action: string(action), Reason: reason}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/payments/%d/%s", paymentID, action), req, nil)
}

func (c *Client) GetBooking(ctx context.Context, bookingID int64) (*bookingDatamodel.Booking, error) {
	b, err := get[*bookingDatamodel.Booking](ctx, c, fmt.Sprintf("/bookings/%d", bookingID))
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, internal.ErrBookingNotFound
	}
	return b, nil
}

func (c *Client) ListBookings(ctx context.Context, filter bookingDatamodel.BookingFilter) ([]*bookingDatamodel.Booking, error) {
	q := url.Values{}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if filter.Date != "" {
		q.Set("date", filter.Date)
	}
	if filter.FieldID > 0 {
		q.Set("field_id", strconv.FormatInt(filter.FieldID, 10))
	}
	if filter.CustomerID > 0 {
		q.Set("customer_id", strconv.FormatInt(filter.CustomerID, 10))
	}
	return get[[]*bookingDatamodel.Booking](ctx, c, withQuery("/bookings", q))
}

func (c *Client) GetPayment(ctx context.Context, paymentID int64) (*paymentDatamodel.Payment, error) {
	p, err := get[*paymentDatamodel.Payment](ctx, c, fmt.Sprintf("/payments/%d", paymentID))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, internal.ErrPaymentNotFound
	}
	return p, nil
}

func (c *Client) ListPayments(ctx context.Context, filter paymentDatamodel.PaymentFilter) ([]*paymentDatamodel.Payment, error) {
	q := url.Values{}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if filter.BookingID > 0 {
		q.Set("booking_id", strconv.FormatInt(filter.BookingID, 10))
	}
	return get[[]*paymentDatamodel.Payment](ctx, c, withQuery("/payments", q))
}

// Ping checks that the backend answers at all.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
