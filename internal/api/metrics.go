package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	apperrors "github.com/utafrali/RestaurantGo/pkg/errors"
)

// Metrics records backend call outcomes. A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the backend client collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "backend_requests_total",
			Help: "Backend API calls by route and outcome.",
		}, []string{"method", "route", "status", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "backend_request_duration_seconds",
			Help:    "Backend API call latency.",
			Buckets: []float64{.025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

func (m *Metrics) observe(method, route string, status int, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	code := "OK"
	if err != nil {
		code = "ERROR"
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			code = appErr.Code
		}
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status), code).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
