package event

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/RestaurantGo/internal/domain"
	pkgkafka "github.com/utafrali/RestaurantGo/pkg/kafka"
	"github.com/utafrali/RestaurantGo/pkg/logger"
)

type fakePublisher struct {
	mu     sync.Mutex
	topics []string
	events []*pkgkafka.Event
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, topic string, e *pkgkafka.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, e)
	return nil
}

func (p *fakePublisher) published() []*pkgkafka.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*pkgkafka.Event(nil), p.events...)
}

type staticConsent domain.CookieConsent

func (c staticConsent) HasConsent(kind domain.ConsentKind) bool {
	return domain.CookieConsent(c).Granted(kind)
}

func discardLogger() *slog.Logger {
	return logger.NewWithWriter("event-test", "error", io.Discard)
}

func startAnalytics(t *testing.T, pub Publisher, consent ConsentChecker) *Analytics {
	t.Helper()
	a := NewAnalytics(pub, consent, Config{Topic: "restaurant.analytics", Source: "restaurant-client", DeviceID: "dev-1"}, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go a.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-a.Done()
	})
	return a
}

func TestAnalytics_PublishesWithAnalyticsConsent(t *testing.T) {
	pub := &fakePublisher{}
	a := startAnalytics(t, pub, staticConsent(domain.CookieConsent{Necessary: true, Analytics: true}))

	ctx := logger.WithUserID(logger.WithCorrelationID(context.Background(), "corr-1"), "u-7")
	line := domain.CartLine{MenuItemID: "5", Price: 2899, Quantity: 1}
	require.True(t, a.CartItemAdded(ctx, line))

	require.Eventually(t, func() bool { return len(pub.published()) == 1 }, time.Second, 5*time.Millisecond)
	ev := pub.published()[0]
	assert.Equal(t, TypeCartItemAdded, ev.EventType)
	assert.Equal(t, "dev-1", ev.DeviceID)
	assert.Equal(t, "u-7", ev.UserID)
	assert.Equal(t, "corr-1", ev.CorrelationID)
	assert.Equal(t, "menu_item", ev.SubjectType)
	assert.Equal(t, "5", ev.SubjectID)
	assert.JSONEq(t, `{"quantity":1,"price":28.99}`, string(ev.Data))
	assert.Equal(t, "restaurant.analytics", pub.topics[0])
}

func TestAnalytics_NoConsentNoEvent(t *testing.T) {
	pub := &fakePublisher{}
	a := startAnalytics(t, pub, staticConsent(domain.DefaultCookieConsent()))

	assert.False(t, a.MenuSearched(context.Background(), "steak", "de", 3))
	assert.False(t, a.OrderPlaced(context.Background(), "1", 2, 5000))

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, pub.published())
}

func TestAnalytics_PromotionNeedsMarketing(t *testing.T) {
	pub := &fakePublisher{}
	analyticsOnly := startAnalytics(t, pub, staticConsent(domain.CookieConsent{Necessary: true, Analytics: true}))
	assert.False(t, analyticsOnly.PromotionOpened(context.Background(), "n1"))

	marketing := startAnalytics(t, pub, staticConsent(domain.CookieConsent{Necessary: true, Marketing: true}))
	assert.True(t, marketing.PromotionOpened(context.Background(), "n1"))
	assert.False(t, marketing.MenuItemViewed(context.Background(), domain.MenuItem{ID: "5"}))
}

func TestAnalytics_NilAndDisabledAreSilent(t *testing.T) {
	var nilAnalytics *Analytics
	assert.False(t, nilAnalytics.MenuSearched(context.Background(), "x", "de", 0))
	nilAnalytics.Run(context.Background())

	disabled := NewAnalytics(nil, staticConsent(domain.AllCookieConsent()), Config{}, discardLogger())
	assert.False(t, disabled.FavoriteToggled(context.Background(), "5", true))
}

func TestAnalytics_QueueFullDrops(t *testing.T) {
	a := NewAnalytics(&fakePublisher{}, staticConsent(domain.AllCookieConsent()), Config{QueueSize: 1}, discardLogger())

	assert.True(t, a.LanguageChanged(context.Background(), "en"))
	assert.False(t, a.LanguageChanged(context.Background(), "de"))
}

func TestAnalytics_PublishFailureDoesNotStopLoop(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	a := startAnalytics(t, pub, staticConsent(domain.AllCookieConsent()))

	assert.True(t, a.MenuSearched(context.Background(), "steak", "de", 1))
	require.Eventually(t, func() bool { return len(a.queue) == 0 }, time.Second, 5*time.Millisecond)

	pub.mu.Lock()
	pub.err = nil
	pub.mu.Unlock()

	assert.True(t, a.MenuSearched(context.Background(), "ribeye", "de", 1))
	require.Eventually(t, func() bool { return len(pub.published()) == 1 }, time.Second, 5*time.Millisecond)
}
