// Package api is the typed client for the restaurant backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/utafrali/RestaurantGo/internal/storage"
	apperrors "github.com/utafrali/RestaurantGo/pkg/errors"
	"github.com/utafrali/RestaurantGo/pkg/httpclient"
	"github.com/utafrali/RestaurantGo/pkg/logger"
	"github.com/utafrali/RestaurantGo/pkg/validator"
)

const (
	tracerName = "github.com/utafrali/RestaurantGo/internal/api"

	// maxBody caps how much of a response body is read.
	maxBody = 8 << 20

	headerRequestID = "X-Request-ID"
)

// HTTPDoer executes HTTP requests. Both httpclient.Client and
// httpclient.CircuitBreakerClient satisfy it.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// TokenSource yields the bearer token to attach to a request. An empty token
// sends the request unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func(ctx context.Context) (string, error)

func (f TokenSourceFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// StorageTokenSource reads the persisted access token on every call.
func StorageTokenSource(store storage.Store) TokenSource {
	return TokenSourceFunc(func(ctx context.Context) (string, error) {
		token, _, err := store.Get(ctx, storage.KeyToken)
		return token, err
	})
}

// Response is a successful backend reply after envelope unwrapping.
type Response struct {
	Data    json.RawMessage
	Message string
}

// Option configures a Client.
type Option func(*Client)

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLanguage sets the Accept-Language source, typically the language store.
func WithLanguage(fn func() string) Option {
	return func(c *Client) { c.language = fn }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// Client talks JSON to the restaurant backend. Every failure is returned as
// an *apperrors.AppError whose Status is the HTTP status, 408 for timeouts or
// 0 when no response was received.
type Client struct {
	baseURL  string
	http     HTTPDoer
	tokens   TokenSource
	language func() string
	logger   *slog.Logger
	metrics  *Metrics
	tracer   trace.Tracer
}

// New creates a client for the backend rooted at baseURL.
func New(baseURL string, doer HTTPDoer, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    doer,
		logger:  slog.Default(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a GET and decodes the unwrapped payload into out when non-nil.
func (c *Client) Get(ctx context.Context, path string, out any) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do sends one request. path is relative to the base URL and may carry a
// query string. A non-nil body is encoded as JSON.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) (*Response, error) {
	return c.call(ctx, routeOf(path), method, path, body, out)
}

func (c *Client) call(ctx context.Context, route, method, path string, body, out any) (res *Response, err error) {
	ctx, span := c.tracer.Start(ctx, method+" "+route,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("http.route", route),
		),
	)
	start := time.Now()
	status := 0
	defer func() {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		c.metrics.observe(method, route, status, err, time.Since(start))
	}()

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		err = httpclient.ClassifyTransportError(err)
		status = apperrors.HTTPStatus(err)
		c.logFailure(ctx, method, route, err)
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	status = resp.StatusCode

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		err = httpclient.ClassifyTransportError(err)
		c.logFailure(ctx, method, route, err)
		return nil, err
	}

	payload, jsonErr := normalizePayload(resp.Header.Get("Content-Type"), raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err = httpclient.ResponseError(resp.StatusCode, payload)
		c.logFailure(ctx, method, route, err)
		return nil, err
	}
	if jsonErr != nil {
		return nil, apperrors.InvalidResponse(route, jsonErr)
	}

	res = &Response{Data: unwrapData(payload), Message: messageOf(payload)}
	if out != nil {
		if err = decodeInto(res.Data, out); err != nil {
			err = apperrors.InvalidResponse(route, err)
			c.logFailure(ctx, method, route, err)
			return nil, err
		}
	}
	return res, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	requestID := uuid.NewString()
	req.Header.Set(headerRequestID, requestID)
	correlationID := logger.CorrelationIDFromContext(ctx)
	if correlationID == "" {
		correlationID = requestID
	}
	req.Header.Set("X-Correlation-ID", correlationID)

	if c.language != nil {
		if lang := c.language(); lang != "" {
			req.Header.Set("Accept-Language", lang)
		}
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		switch {
		case err != nil:
			logger.WithContext(ctx, c.logger).WarnContext(ctx, "failed to read token from storage",
				slog.String("error", err.Error()),
			)
		case token != "":
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	return req, nil
}

func (c *Client) logFailure(ctx context.Context, method, route string, err error) {
	var appErr *apperrors.AppError
	status := -1
	if errors.As(err, &appErr) {
		status = appErr.Status
	}
	// A 401 is routine while signed out.
	if status == http.StatusUnauthorized {
		return
	}
	logger.WithContext(ctx, c.logger).WarnContext(ctx, "backend request failed",
		slog.String("method", method),
		slog.String("route", route),
		slog.Int("status_code", status),
		slog.String("error", err.Error()),
	)
}

// normalizePayload returns the body as JSON. Non-JSON bodies become
// {"message": <text>}. For JSON content types a malformed body is reported
// through the error while an empty object is returned.
func normalizePayload(contentType string, raw []byte) (json.RawMessage, error) {
	if isJSON(contentType) {
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 {
			return json.RawMessage(`{}`), nil
		}
		if !json.Valid(trimmed) {
			return json.RawMessage(`{}`), errors.New("malformed JSON body")
		}
		return json.RawMessage(trimmed), nil
	}
	b, _ := json.Marshal(map[string]string{"message": string(raw)})
	return b, nil
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(contentType, "application/json")
	}
	return strings.Contains(mediaType, "application/json")
}

// unwrapData returns payload.data when it is present and truthy, otherwise
// the payload itself.
func unwrapData(payload json.RawMessage) json.RawMessage {
	var obj map[string]json.RawMessage
	if json.Unmarshal(payload, &obj) != nil {
		return payload
	}
	inner, ok := obj["data"]
	if !ok || falsy(inner) {
		return payload
	}
	return inner
}

func falsy(raw json.RawMessage) bool {
	switch strings.TrimSpace(string(raw)) {
	case "", "null", "false", "0", `""`:
		return true
	}
	return false
}

func messageOf(payload json.RawMessage) string {
	var v struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(payload, &v) != nil {
		return ""
	}
	return v.Message
}

func decodeInto(data json.RawMessage, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if err := validator.Validate(out); err != nil {
		return err
	}
	return nil
}

// routeOf strips the query string and collapses path segments that look like
// identifiers so the value is safe as a span name and metric label.
func routeOf(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	segs := strings.Split(path, "/")
	for i, s := range segs {
		if looksLikeID(s) {
			segs[i] = ":id"
		}
	}
	return strings.Join(segs, "/")
}

func looksLikeID(seg string) bool {
	if seg == "" {
		return false
	}
	if _, err := uuid.Parse(seg); err == nil {
		return true
	}
	for _, r := range seg {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
