// Package upstream is the single choke point for all communication with
// the analytics backend. Every page service and handler reaches the
// backend through the typed operations defined here; each operation is a
// single attempt (no retries, no backoff) guarded by a shared circuit
// breaker and bulkhead, with every failure flattened into one uniform
// *domain.ErrUpstream carrying a human-readable message.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/Raajp10/ai-expense-tracker/internal/domain"
	"github.com/Raajp10/ai-expense-tracker/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("upstream")

// Client wraps HTTP calls to the expense tracker analytics API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	bulkhead   *resilience.Bulkhead
	logger     *zap.Logger
}

// NewClient creates the gateway client. The http.Client is expected to
// carry the request timeout; the gateway itself never retries.
func NewClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, bulkhead *resilience.Bulkhead, logger *zap.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		bulkhead:   bulkhead,
		logger:     logger,
	}
}

// get issues a GET with query parameters and decodes the 2xx body into out.
func (c *Client) get(ctx context.Context, op, path string, query url.Values, out any) error {
	return c.do(ctx, op, http.MethodGet, path, query, nil, out)
}

// post issues a POST with a JSON body and decodes the 2xx body into out.
func (c *Client) post(ctx context.Context, op, path string, body, out any) error {
	return c.do(ctx, op, http.MethodPost, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	ctx, span := tracer.Start(ctx, "Upstream."+op)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("upstream.path", path),
	)

	if err := c.bulkhead.Acquire(ctx); err != nil {
		return &domain.ErrUpstream{Operation: op, Message: genericMessage(op)}
	}
	defer c.bulkhead.Release()

	_, err := c.cb.Execute(func() (any, error) {
		return nil, c.doOnce(ctx, op, method, path, query, body, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &domain.ErrCircuitOpen{Service: "analytics-api"}
	}
	return err
}

// doOnce performs exactly one request. Any failure mode (transport error,
// non-2xx status, undecodable success body) resolves to *domain.ErrUpstream.
func (c *Client) doOnce(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &domain.ErrUpstream{Operation: op, Message: genericMessage(op)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return &domain.ErrUpstream{Operation: op, Message: genericMessage(op)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("upstream: request failed",
			zap.String("operation", op),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return &domain.ErrUpstream{Operation: op, Message: genericMessage(op)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.ErrUpstream{Operation: op, Message: genericMessage(op)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := normalizeErrorBody(op, raw)
		c.logger.Warn("upstream: non-2xx response",
			zap.String("operation", op),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg),
		)
		return &domain.ErrUpstream{Operation: op, Status: resp.StatusCode, Message: msg}
	}

	c.logger.Debug("upstream: request OK",
		zap.String("operation", op),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &domain.ErrUpstream{Operation: op, Message: genericMessage(op)}
	}
	return nil
}

func genericMessage(op string) string {
	return "Failed to " + op
}

func selectionQuery(userID int, month string) url.Values {
	q := url.Values{}
	q.Set("user_id", fmt.Sprint(userID))
	q.Set("month", month)
	return q
}
