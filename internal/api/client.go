package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/noah-isme/storefront-dietetica/internal/obs"
)

// ErrUnreachable indicates the backend could not be reached at the transport level.
var ErrUnreachable = errors.New("api: backend unreachable")

// Error describes a non-2xx backend response.
type Error struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if strings.TrimSpace(e.Message) != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

// IsNotFound reports whether the error marks a missing or invalid resource reference.
// The backend answers both 404 and 400 for stale product ids, so both count.
func IsNotFound(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusNotFound || apiErr.Status == http.StatusBadRequest
}

// IsUnauthorized reports whether the error is an expired or invalid token response.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized
}

// IsConnectivity reports whether the error belongs to the transient
// connectivity/server class: transport failures and 5xx responses.
func IsConnectivity(err error) bool {
	if errors.Is(err, ErrUnreachable) {
		return true
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status >= http.StatusInternalServerError
	}
	return false
}

// Message extracts the server-provided message from an API error, verbatim.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// Client is a bearer-token REST client for the dietetica backend.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	// Token supplies the current bearer token; empty means unauthenticated.
	Token func() string
	// OnUnauthorized runs once per 401 response, before the error is returned.
	OnUnauthorized func()
	Logger         zerolog.Logger
}

// NewClient constructs a client with an instrumented transport and sane timeout.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		Logger: logger,
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) do(ctx context.Context, op, method, path string, body any, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		payload = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, payload)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != nil {
		if token := strings.TrimSpace(c.Token()); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		obs.ObserveAPIRequest(op, "unreachable")
		c.Logger.Warn().Err(err).Str("op", op).Str("path", path).Msg("backend unreachable")
		return fmt.Errorf("%s: %w", op, errors.Join(ErrUnreachable, err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		apiErr := &Error{Status: resp.StatusCode, Message: decodeMessage(resp.Body)}
		obs.ObserveAPIRequest(op, resultClass(resp.StatusCode))
		c.Logger.Debug().
			Str("op", op).
			Str("path", path).
			Int("status", resp.StatusCode).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("backend error response")
		if resp.StatusCode == http.StatusUnauthorized && c.OnUnauthorized != nil {
			c.OnUnauthorized()
		}
		return fmt.Errorf("%s: %w", op, apiErr)
	}

	obs.ObserveAPIRequest(op, "ok")
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// decodeMessage pulls the human-readable message the backend embeds in error bodies.
func decodeMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil {
		return ""
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil && strings.TrimSpace(body.Message) != "" {
		return body.Message
	}
	return strings.TrimSpace(string(data))
}

func resultClass(status int) string {
	if status >= http.StatusInternalServerError {
		return "server_error"
	}
	return "client_error"
}
