// Package backend is the JSON client of the storefront REST API. A Gateway is
// shared by the whole process; every browser client gets its own Client so
// that backend session cookies never leak between clients.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/storefront-bff/internal/config"
	appErrors "github.com/aaravmahajanofficial/storefront-bff/internal/errors"
	"github.com/aaravmahajanofficial/storefront-bff/internal/metrics"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const breakerName = "storefront-backend"

// StatusError is the raw non-2xx answer of the backend. It is wrapped by the
// AppError returned to callers.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend responded %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err carries a backend response with the given status.
func IsStatus(err error, status int) bool {
	var statusErr *StatusError

	return stdErrors.As(err, &statusErr) && statusErr.Status == status
}

type Gateway struct {
	baseURL   *url.URL
	transport http.RoundTripper
	timeout   time.Duration
	breaker   *gobreaker.CircuitBreaker[[]byte]
}

// NewGateway builds the shared part of every client: base URL, instrumented
// transport and the circuit breaker. A nil transport means http.DefaultTransport.
func NewGateway(cfg config.Backend, transport http.RoundTripper) (*Gateway, error) {

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid backend base url %q", cfg.BaseURL)
	}

	if transport == nil {
		transport = http.DefaultTransport
	}

	maxFailures := cfg.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	settings := gobreaker.Settings{
		Name:    breakerName,
		Timeout: cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		// 4xx answers are the backend working as intended.
		IsSuccessful: func(err error) bool {
			var statusErr *StatusError
			if stdErrors.As(err, &statusErr) {
				return statusErr.Status < http.StatusInternalServerError
			}

			return err == nil || stdErrors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			metrics.SetBreakerState(name, int(to))
		},
	}

	return &Gateway{
		baseURL:   base,
		transport: otelhttp.NewTransport(metrics.InstrumentBackend(transport)),
		timeout:   cfg.RequestTimeout,
		breaker:   gobreaker.NewCircuitBreaker[[]byte](settings),
	}, nil
}

// Client talks to the backend on behalf of one browser client and carries its
// session cookies on every call.
type Client struct {
	gateway *Gateway
	http    *http.Client
}

// NewClient returns a Client with an in-memory cookie jar.
func (g *Gateway) NewClient() *Client {

	// cookiejar.New only fails for a non-nil options argument.
	jar, _ := cookiejar.New(nil)

	return g.newClient(jar)
}

func (g *Gateway) newClient(jar http.CookieJar) *Client {

	return &Client{
		gateway: g,
		http: &http.Client{
			Transport: g.transport,
			Timeout:   g.timeout,
			Jar:       jar,
		},
	}
}

// Ping checks that the backend answers at all. Any HTTP response counts.
func (g *Gateway) Ping(ctx context.Context) error {

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL.String()+"/api/categories/tree", nil)
	if err != nil {
		return err
	}

	client := &http.Client{Transport: g.transport, Timeout: g.timeout}

	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("storefront backend unreachable: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("storefront backend unhealthy: status %d", res.StatusCode)
	}

	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {

	var payload []byte

	if body != nil {
		var err error

		payload, err = json.Marshal(body)
		if err != nil {
			return appErrors.InternalError("Failed to encode backend request").WithError(err)
		}
	}

	data, err := c.gateway.breaker.Execute(func() ([]byte, error) {
		return c.roundTrip(ctx, method, path, payload)
	})
	if err != nil {
		return c.classify(ctx, method, path, err)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return appErrors.ThirdPartyError("Unexpected response from storefront backend").WithError(err)
	}

	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte) ([]byte, error) {

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.gateway.baseURL.String()+path, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read backend response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &StatusError{Status: res.StatusCode, Message: upstreamMessage(res.StatusCode, data)}
	}

	return data, nil
}

func (c *Client) classify(ctx context.Context, method, path string, err error) error {

	var statusErr *StatusError

	switch {
	case stdErrors.As(err, &statusErr):
		return appErrors.FromUpstreamStatus(statusErr.Status, statusErr.Message).WithError(err)
	case stdErrors.Is(err, gobreaker.ErrOpenState), stdErrors.Is(err, gobreaker.ErrTooManyRequests):
		return appErrors.ThirdPartyError("Storefront backend is temporarily unavailable").WithError(err)
	default:
		slog.WarnContext(ctx, "Storefront backend request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)

		return appErrors.ThirdPartyError("Failed to reach storefront backend").WithError(err)
	}
}

// upstreamMessage extracts a human readable message from an error body. The
// backend answers either {"message": ...}, {"error": ...} or plain text.
func upstreamMessage(status int, body []byte) string {

	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}

	if json.Unmarshal(body, &envelope) == nil {
		if envelope.Message != "" {
			return envelope.Message
		}

		if envelope.Error != "" {
			return envelope.Error
		}
	}

	if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 && !strings.HasPrefix(text, "{") {
		return text
	}

	return http.StatusText(status)
}
