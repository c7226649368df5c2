package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/utafrali/RestaurantGo/internal/domain"
	apperrors "github.com/utafrali/RestaurantGo/pkg/errors"
)

// DefaultTrackingInterval is how often Watch polls.
const DefaultTrackingInterval = time.Minute

type TrackingAPI interface {
	Track(ctx context.Context, orderID domain.ID) (*domain.TrackingInfo, error)
}

// TrackingService reads delivery state and polls it for live views.
type TrackingService struct {
	api      TrackingAPI
	session  SessionReader
	interval time.Duration
	logger   *slog.Logger
}

func NewTrackingService(api TrackingAPI, session SessionReader, interval time.Duration, logger *slog.Logger) *TrackingService {
	if interval <= 0 {
		interval = DefaultTrackingInterval
	}
	return &TrackingService{api: api, session: session, interval: interval, logger: logger}
}

// Track fetches the delivery state once.
func (s *TrackingService) Track(ctx context.Context, orderID domain.ID) (*domain.TrackingInfo, error) {
	if _, err := requireAuth(s.session); err != nil {
		return nil, err
	}
	if orderID == "" {
		return nil, apperrors.InvalidInput("order id is required")
	}
	return s.api.Track(ctx, orderID)
}

// Watch polls the delivery state right away and then every interval, handing
// each result to fn. It returns nil once the order reaches a terminal status,
// ctx.Err() when ctx ends, or the error of a poll that cannot succeed on a
// later attempt (sign-in required, unknown order). Other failures are passed
// to fn and polling continues.
func (s *TrackingService) Watch(ctx context.Context, orderID domain.ID, fn func(*domain.TrackingInfo, error)) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		info, err := s.Track(ctx, orderID)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fn(nil, err)
			if permanentTrackingError(err) {
				return err
			}
			s.logger.WarnContext(ctx, "tracking poll failed",
				slog.String("order_id", orderID.String()),
				slog.String("error", err.Error()),
			)
		} else {
			fn(info, nil)
			if info.Status.Terminal() {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func permanentTrackingError(err error) bool {
	if apperrors.IsLoginRequired(err) || errors.Is(err, apperrors.ErrInvalidInput) {
		return true
	}
	return apperrors.HTTPStatus(err) == http.StatusNotFound
}
