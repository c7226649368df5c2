package database

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/utafrali/RestaurantGo/pkg/database"

var slowOpCfg struct {
	mu        sync.RWMutex
	threshold time.Duration
	logger    *slog.Logger
}

// SetSlowOperationLogging configures slow storage operation detection.
// Operations exceeding the threshold are logged as warnings with system,
// operation, key and duration. A zero threshold disables it.
func SetSlowOperationLogging(threshold time.Duration, logger *slog.Logger) {
	slowOpCfg.mu.Lock()
	defer slowOpCfg.mu.Unlock()
	slowOpCfg.threshold = threshold
	slowOpCfg.logger = logger
}

func getSlowOperationConfig() (time.Duration, *slog.Logger) {
	slowOpCfg.mu.RLock()
	defer slowOpCfg.mu.RUnlock()
	return slowOpCfg.threshold, slowOpCfg.logger
}

// TraceOperation starts a span for a device storage operation. The returned
// function must be called when the operation completes:
//
//	ctx, end := database.TraceOperation(ctx, "redis", "GET", key)
//	defer func() { end(err) }()
func TraceOperation(ctx context.Context, system, operation, key string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := otel.Tracer(tracerName).Start(ctx, system+"."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", system),
			attribute.String("db.operation", operation),
			attribute.String("db.key", key),
		),
	)

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()

		if threshold, logger := getSlowOperationConfig(); threshold > 0 && logger != nil {
			if elapsed := time.Since(start); elapsed >= threshold {
				attrs := []any{
					slog.String("system", system),
					slog.String("operation", operation),
					slog.String("key", key),
					slog.Duration("duration", elapsed),
				}
				if err != nil {
					attrs = append(attrs, slog.String("error", err.Error()))
				}
				logger.WarnContext(ctx, "slow storage operation", attrs...)
			}
		}
	}
}
