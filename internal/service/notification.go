package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/utafrali/RestaurantGo/internal/domain"
	"github.com/utafrali/RestaurantGo/internal/event"
	apperrors "github.com/utafrali/RestaurantGo/pkg/errors"
	"github.com/utafrali/RestaurantGo/pkg/pagination"
)

// Notification types that count as marketing.
const (
	NotificationPromotion = "promotion"
	NotificationMarketing = "marketing"
)

type NotificationAPI interface {
	Notifications(ctx context.Context, p pagination.Params) (*domain.NotificationPage, error)
	MarkNotificationOpened(ctx context.Context, id domain.ID) error
}

// NotificationService pages through the push history.
type NotificationService struct {
	api       NotificationAPI
	session   SessionReader
	analytics *event.Analytics
	logger    *slog.Logger

	mu    sync.Mutex
	types map[domain.ID]string
}

func NewNotificationService(api NotificationAPI, session SessionReader, analytics *event.Analytics, logger *slog.Logger) *NotificationService {
	return &NotificationService{
		api:       api,
		session:   session,
		analytics: analytics,
		logger:    logger,
		types:     make(map[domain.ID]string),
	}
}

// History returns one page of notifications.
func (s *NotificationService) History(ctx context.Context, p pagination.Params) (pagination.Result[domain.Notification], error) {
	if _, err := requireAuth(s.session); err != nil {
		return pagination.Result[domain.Notification]{}, err
	}
	page, err := s.api.Notifications(ctx, p)
	if err != nil {
		return pagination.Result[domain.Notification]{}, err
	}

	s.mu.Lock()
	for _, n := range page.Notifications {
		s.types[n.ID] = n.Type
	}
	s.mu.Unlock()

	if page.Pagination.Page > 0 {
		p.Page = page.Pagination.Page
	}
	if page.Pagination.Limit > 0 {
		p.Limit = page.Pagination.Limit
	}
	return pagination.NewResult(page.Notifications, page.Pagination.Total, page.Pagination.TotalPages, p), nil
}

// MarkOpened records that the user opened a notification.
func (s *NotificationService) MarkOpened(ctx context.Context, id domain.ID) error {
	if _, err := requireAuth(s.session); err != nil {
		return err
	}
	if id == "" {
		return apperrors.InvalidInput("notification id is required")
	}
	if err := s.api.MarkNotificationOpened(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	kind := s.types[id]
	s.mu.Unlock()
	if kind == NotificationPromotion || kind == NotificationMarketing {
		s.analytics.PromotionOpened(ctx, id)
	}
	return nil
}
