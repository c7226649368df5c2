// Package event publishes client analytics to Kafka, gated on cookie consent.
package event

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/utafrali/RestaurantGo/internal/domain"
	pkgkafka "github.com/utafrali/RestaurantGo/pkg/kafka"
	"github.com/utafrali/RestaurantGo/pkg/logger"
)

// Analytics event types.
const (
	TypeMenuSearched     = "menu.searched"
	TypeMenuItemViewed   = "menu.item_viewed"
	TypeCartItemAdded    = "cart.item_added"
	TypeFavoriteToggled  = "favorite.toggled"
	TypeOrderPlaced      = "order.placed"
	TypePromotionOpened  = "promotion.opened"
	TypeLanguageChanged  = "settings.language_changed"
	defaultQueueSize     = 256
	defaultPublishBudget = 5 * time.Second
)

var eventsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "analytics_events_dropped_total",
	Help: "Analytics events not published, by reason.",
}, []string{"reason"})

// Publisher sends one event to a topic. *pkgkafka.Producer satisfies it.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// ConsentChecker reports whether the user allowed a consent category.
type ConsentChecker interface {
	HasConsent(kind domain.ConsentKind) bool
}

// Config describes where analytics go.
type Config struct {
	Topic     string
	Source    string
	DeviceID  string
	QueueSize int
}

type queued struct {
	ctx   context.Context
	event *pkgkafka.Event
}

// Analytics queues events for background publishing. Events are only built
// and queued when the matching consent is granted. A nil *Analytics or one
// without a publisher drops everything silently.
type Analytics struct {
	publisher Publisher
	consent   ConsentChecker
	cfg       Config
	logger    *slog.Logger

	queue     chan queued
	closeOnce sync.Once
	done      chan struct{}
}

func NewAnalytics(publisher Publisher, consent ConsentChecker, cfg Config, logger *slog.Logger) *Analytics {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	return &Analytics{
		publisher: publisher,
		consent:   consent,
		cfg:       cfg,
		logger:    logger,
		queue:     make(chan queued, cfg.QueueSize),
		done:      make(chan struct{}),
	}
}

// Run publishes queued events until ctx is done. Events still queued at that
// point are dropped.
func (a *Analytics) Run(ctx context.Context) {
	if a == nil {
		return
	}
	defer close(a.done)
	for {
		select {
		case <-ctx.Done():
			if n := len(a.queue); n > 0 {
				eventsDropped.WithLabelValues("shutdown").Add(float64(n))
				a.logger.Info("analytics stopped with events pending", slog.Int("pending", n))
			}
			return
		case q := <-a.queue:
			a.publish(q)
		}
	}
}

// Done is closed when Run returns.
func (a *Analytics) Done() <-chan struct{} {
	return a.done
}

func (a *Analytics) publish(q queued) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(q.ctx), defaultPublishBudget)
	defer cancel()
	if err := a.publisher.Publish(ctx, a.cfg.Topic, q.event); err != nil {
		eventsDropped.WithLabelValues("publish_failed").Inc()
		a.logger.WarnContext(ctx, "analytics publish failed",
			slog.String("event_type", q.event.EventType),
			slog.String("error", err.Error()),
		)
	}
}

// track enqueues an event when kind is consented. It reports whether the
// event was queued.
func (a *Analytics) track(ctx context.Context, kind domain.ConsentKind, eventType, subjectType, subjectID string, data any) bool {
	if a == nil || a.publisher == nil {
		return false
	}
	if a.consent == nil || !a.consent.HasConsent(kind) {
		eventsDropped.WithLabelValues("no_consent").Inc()
		return false
	}

	ev, err := pkgkafka.NewEvent(eventType, a.cfg.DeviceID, a.cfg.Source, data)
	if err != nil {
		a.logger.ErrorContext(ctx, "build analytics event", slog.String("error", fmt.Sprint(err)))
		return false
	}
	ev.WithUser(logger.UserIDFromContext(ctx)).WithCorrelationID(logger.CorrelationIDFromContext(ctx))
	if subjectID != "" {
		ev.WithSubject(subjectType, subjectID)
	}

	select {
	case a.queue <- queued{ctx: ctx, event: ev}:
		return true
	default:
		eventsDropped.WithLabelValues("queue_full").Inc()
		return false
	}
}

type searchData struct {
	Query   string `json:"query"`
	Lang    string `json:"lang"`
	Results int    `json:"results"`
}

func (a *Analytics) MenuSearched(ctx context.Context, query, lang string, results int) bool {
	return a.track(ctx, domain.ConsentAnalytics, TypeMenuSearched, "", "",
		searchData{Query: query, Lang: lang, Results: results})
}

func (a *Analytics) MenuItemViewed(ctx context.Context, item domain.MenuItem) bool {
	return a.track(ctx, domain.ConsentAnalytics, TypeMenuItemViewed, "menu_item", item.ID.String(),
		map[string]string{"category": item.Category})
}

type cartData struct {
	Quantity int          `json:"quantity"`
	Price    domain.Money `json:"price"`
}

func (a *Analytics) CartItemAdded(ctx context.Context, line domain.CartLine) bool {
	return a.track(ctx, domain.ConsentAnalytics, TypeCartItemAdded, "menu_item", line.MenuItemID.String(),
		cartData{Quantity: line.Quantity, Price: line.UnitPrice()})
}

func (a *Analytics) FavoriteToggled(ctx context.Context, id domain.ID, favorite bool) bool {
	return a.track(ctx, domain.ConsentAnalytics, TypeFavoriteToggled, "menu_item", id.String(),
		map[string]bool{"favorite": favorite})
}

type orderData struct {
	Items int          `json:"items"`
	Total domain.Money `json:"total"`
}

func (a *Analytics) OrderPlaced(ctx context.Context, orderID domain.ID, items int, total domain.Money) bool {
	return a.track(ctx, domain.ConsentAnalytics, TypeOrderPlaced, "order", orderID.String(),
		orderData{Items: items, Total: total})
}

// PromotionOpened records a tap on a marketing notification. It needs
// marketing consent.
func (a *Analytics) PromotionOpened(ctx context.Context, notificationID domain.ID) bool {
	return a.track(ctx, domain.ConsentMarketing, TypePromotionOpened, "notification", notificationID.String(), nil)
}

func (a *Analytics) LanguageChanged(ctx context.Context, lang string) bool {
	return a.track(ctx, domain.ConsentPreferences, TypeLanguageChanged, "", "",
		map[string]string{"lang": lang})
}
