package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/utafrali/RestaurantGo/internal/domain"
	"github.com/utafrali/RestaurantGo/internal/event"
	"github.com/utafrali/RestaurantGo/internal/search"
	apperrors "github.com/utafrali/RestaurantGo/pkg/errors"
)

// DefaultMenuTTL is how long a fetched menu is reused for search.
const DefaultMenuTTL = 5 * time.Minute

type MenuAPI interface {
	Menu(ctx context.Context, lang string) (*domain.Menu, error)
	Modifiers(ctx context.Context, menuItemID domain.ID) ([]domain.Modifier, error)
}

// LanguageSource yields the active UI language.
type LanguageSource interface {
	Current() string
}

type cachedMenu struct {
	menu      *domain.Menu
	fetchedAt time.Time
}

// MenuService fetches the menu per language and ranks it against search
// queries. Each language's menu is kept for the TTL so searching while typing
// does not refetch.
type MenuService struct {
	api       MenuAPI
	language  LanguageSource
	analytics *event.Analytics
	logger    *slog.Logger
	ttl       time.Duration
	now       func() time.Time

	mu    sync.Mutex
	cache map[string]cachedMenu
}

func NewMenuService(api MenuAPI, language LanguageSource, analytics *event.Analytics, logger *slog.Logger, ttl time.Duration) *MenuService {
	if ttl <= 0 {
		ttl = DefaultMenuTTL
	}
	return &MenuService{
		api:       api,
		language:  language,
		analytics: analytics,
		logger:    logger,
		ttl:       ttl,
		now:       time.Now,
		cache:     make(map[string]cachedMenu),
	}
}

func (s *MenuService) lang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" && s.language != nil {
		lang = s.language.Current()
	}
	return lang
}

// Menu returns the menu in lang, or in the current language when lang is
// empty.
func (s *MenuService) Menu(ctx context.Context, lang string) (*domain.Menu, error) {
	lang = s.lang(lang)

	s.mu.Lock()
	c, ok := s.cache[lang]
	s.mu.Unlock()
	if ok && s.now().Sub(c.fetchedAt) < s.ttl {
		return c.menu, nil
	}
	return s.Refresh(ctx, lang)
}

// Refresh fetches the menu regardless of the cache.
func (s *MenuService) Refresh(ctx context.Context, lang string) (*domain.Menu, error) {
	lang = s.lang(lang)
	m, err := s.api.Menu(ctx, lang)
	if err != nil {
		return nil, fmt.Errorf("fetch menu: %w", err)
	}

	s.mu.Lock()
	s.cache[lang] = cachedMenu{menu: m, fetchedAt: s.now()}
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "menu fetched",
		slog.String("lang", lang),
		slog.Int("items", len(m.Items)),
		slog.Int("categories", len(m.Categories)),
	)
	return m, nil
}

// Search ranks the menu in lang against query. A blank query returns every
// item in menu order.
func (s *MenuService) Search(ctx context.Context, lang, query string) ([]search.Result, error) {
	lang = s.lang(lang)
	m, err := s.Menu(ctx, lang)
	if err != nil {
		return nil, err
	}
	results := search.RankMenu(m.Items, query)
	if q := strings.TrimSpace(query); q != "" {
		s.analytics.MenuSearched(ctx, q, lang, len(results))
	}
	return results, nil
}

// Item looks up one menu item.
func (s *MenuService) Item(ctx context.Context, lang string, id domain.ID) (domain.MenuItem, error) {
	m, err := s.Menu(ctx, lang)
	if err != nil {
		return domain.MenuItem{}, err
	}
	it, ok := m.Item(id)
	if !ok {
		return domain.MenuItem{}, apperrors.NotFound("menu item", id.String())
	}
	s.analytics.MenuItemViewed(ctx, it)
	return it, nil
}

// Modifiers lists the add-ons of an item that are currently available.
func (s *MenuService) Modifiers(ctx context.Context, id domain.ID) ([]domain.Modifier, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("menu item id is required")
	}
	mods, err := s.api.Modifiers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch modifiers: %w", err)
	}
	out := mods[:0]
	for _, m := range mods {
		if m.IsAvailable {
			out = append(out, m)
		}
	}
	return out, nil
}
