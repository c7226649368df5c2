package httpclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"

	apperrors "github.com/utafrali/RestaurantGo/pkg/errors"
)

// CircuitBreakerConfig holds configuration for the circuit breaker.
type CircuitBreakerConfig struct {
	Name string

	// MaxRequests is how many probes are let through while half-open. 0 means 1.
	MaxRequests uint32

	// Interval clears the closed-state counts. 0 never clears them.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration

	// FailureRatio trips the breaker once MinRequests have been seen.
	FailureRatio float64
	MinRequests  uint32
}

// DefaultCircuitBreakerConfig returns the settings used for the restaurant backend.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      15 * time.Second,
		FailureRatio: 0.6,
		MinRequests:  5,
	}
}

// ErrCircuitOpen is wrapped by the error returned while the breaker rejects calls.
var ErrCircuitOpen = gobreaker.ErrOpenState

var (
	breakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "backend_circuit_breaker_state",
			Help: "Current state of the backend circuit breaker (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	breakerRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_circuit_breaker_rejected_total",
			Help: "Requests rejected without reaching the backend because the breaker was open",
		},
		[]string{"name"},
	)
)

// RegisterBreakerMetrics exposes the breaker gauges on reg.
func RegisterBreakerMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{breakerState, breakerRejected} {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				return err
			}
		}
	}
	return nil
}

func stateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// CircuitBreakerClient guards a Client with a gobreaker breaker. It satisfies
// the same Do contract as Client so callers can use either.
type CircuitBreakerClient struct {
	client  *Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
	logger  *slog.Logger
	name    string
}

// NewCircuitBreakerClient wraps client with a breaker configured by cbCfg.
func NewCircuitBreakerClient(client *Client, cbCfg CircuitBreakerConfig, logger *slog.Logger) *CircuitBreakerClient {
	settings := gobreaker.Settings{
		Name:        cbCfg.Name,
		MaxRequests: cbCfg.MaxRequests,
		Interval:    cbCfg.Interval,
		Timeout:     cbCfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cbCfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cbCfg.FailureRatio
		},
		// A request abandoned by the caller says nothing about backend health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("backend circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			breakerState.WithLabelValues(name).Set(stateValue(to))
		},
	}

	breakerState.WithLabelValues(cbCfg.Name).Set(0)

	return &CircuitBreakerClient{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[*http.Response](settings),
		logger:  logger,
		name:    cbCfg.Name,
	}
}

// serverStatusError marks a 5xx response as a breaker failure while the
// response itself is still handed back to the caller.
type serverStatusError struct {
	status int
}

func (e *serverStatusError) Error() string {
	return fmt.Sprintf("server error %d", e.status)
}

// Do executes req through the breaker. 5xx responses count as failures but
// are returned unchanged so the backend's message can still be parsed. While
// the breaker is open the call fails with SERVICE_UNAVAILABLE.
func (c *CircuitBreakerClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		resp, err := c.client.Do(ctx, req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, &serverStatusError{status: resp.StatusCode}
		}
		return resp, nil
	})

	var statusErr *serverStatusError
	switch {
	case err == nil:
		return resp, nil
	case errors.As(err, &statusErr):
		return resp, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		breakerRejected.WithLabelValues(c.name).Inc()
		c.logger.DebugContext(ctx, "backend call rejected by open breaker",
			slog.String("breaker", c.name),
			slog.String("path", req.URL.Path),
		)
		return nil, &apperrors.AppError{
			Code:    "SERVICE_UNAVAILABLE",
			Message: "the service is temporarily unavailable, please try again shortly",
			Status:  http.StatusServiceUnavailable,
			Err:     errors.Join(apperrors.ErrServiceUnavail, err),
		}
	default:
		return nil, err
	}
}

// State returns the current state of the breaker.
func (c *CircuitBreakerClient) State() gobreaker.State {
	return c.breaker.State()
}
