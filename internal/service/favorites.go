package service

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/utafrali/RestaurantGo/internal/domain"
	"github.com/utafrali/RestaurantGo/internal/event"
	apperrors "github.com/utafrali/RestaurantGo/pkg/errors"
)

// FavoritesAPI is the slice of the backend client the favorites store needs.
type FavoritesAPI interface {
	Favorites(ctx context.Context) ([]domain.ID, error)
	AddFavorite(ctx context.Context, menuItemID domain.ID) error
	RemoveFavorite(ctx context.Context, menuItemID domain.ID) error
}

// SessionReader exposes the current session.
type SessionReader interface {
	Snapshot() domain.SessionSnapshot
}

// SessionSubscriber delivers session changes.
type SessionSubscriber interface {
	Subscribe(fn func(domain.SessionSnapshot)) (unsubscribe func())
}

// ToggleState is where the last toggle of an id ended up.
type ToggleState string

const (
	ToggleIdle      ToggleState = "idle"
	TogglePending   ToggleState = "pending"
	ToggleCommitted ToggleState = "committed"
	ToggleReverted  ToggleState = "reverted"
)

// FavoritesService mirrors the user's favorite menu items. Toggles on one id
// are serialized; toggles on different ids run concurrently.
type FavoritesService struct {
	api       FavoritesAPI
	session   SessionReader
	analytics *event.Analytics
	logger    *slog.Logger

	keys keyedMutex

	mu      sync.RWMutex
	ids     map[domain.ID]struct{}
	states  map[domain.ID]ToggleState
	lastErr error
	// gen changes on every reset so a refetch or toggle that started before a
	// logout cannot repopulate the set.
	gen       uint64
	lastToken string
}

func NewFavoritesService(api FavoritesAPI, session SessionReader, analytics *event.Analytics, logger *slog.Logger) *FavoritesService {
	return &FavoritesService{
		api:       api,
		session:   session,
		analytics: analytics,
		logger:    logger,
		ids:       make(map[domain.ID]struct{}),
		states:    make(map[domain.ID]ToggleState),
	}
}

// IsFavorite reports whether id is in the set.
func (s *FavoritesService) IsFavorite(id domain.ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// IDs returns the favorite ids in ascending order.
func (s *FavoritesService) IDs() []domain.ID {
	s.mu.RLock()
	ids := make([]domain.ID, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// State returns the toggle state of id.
func (s *FavoritesService) State(id domain.ID) ToggleState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.states[id]; ok {
		return st
	}
	return ToggleIdle
}

func (s *FavoritesService) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Toggle flips membership of id. The flip is applied locally first, then the
// backend call is made. Success reconciles with a refetch; failure restores
// the previous membership and returns the error.
func (s *FavoritesService) Toggle(ctx context.Context, id domain.ID) error {
	if !s.session.Snapshot().Authenticated() {
		return apperrors.LoginRequired()
	}
	if id == "" {
		return apperrors.InvalidInput("menu item id is required")
	}

	unlock := s.keys.Lock(id.String())
	defer unlock()

	s.mu.Lock()
	_, was := s.ids[id]
	s.setLocked(id, !was)
	s.states[id] = TogglePending
	gen := s.gen
	s.mu.Unlock()

	var err error
	if was {
		err = s.api.RemoveFavorite(ctx, id)
	} else {
		err = s.api.AddFavorite(ctx, id)
	}
	if err != nil {
		s.mu.Lock()
		// A reset during the call already emptied the set; leave it empty.
		if gen == s.gen {
			s.setLocked(id, was)
			s.states[id] = ToggleReverted
			s.lastErr = err
		}
		s.mu.Unlock()
		if !apperrors.IsLoginRequired(err) {
			s.logger.WarnContext(ctx, "favorite toggle failed",
				slog.String("menu_item_id", id.String()),
				slog.String("error", err.Error()),
			)
		}
		return err
	}

	s.mu.Lock()
	if gen == s.gen {
		s.states[id] = ToggleCommitted
	}
	s.mu.Unlock()

	s.analytics.FavoriteToggled(ctx, id, !was)
	_ = s.Refetch(ctx)
	return nil
}

func (s *FavoritesService) setLocked(id domain.ID, member bool) {
	if member {
		s.ids[id] = struct{}{}
	} else {
		delete(s.ids, id)
	}
}

// Refetch replaces the set with the backend's. Any failure leaves an empty
// set; signed-out sessions reset without a network call.
func (s *FavoritesService) Refetch(ctx context.Context) error {
	if !s.session.Snapshot().Authenticated() {
		s.Reset()
		return nil
	}

	s.mu.RLock()
	gen := s.gen
	s.mu.RUnlock()

	ids, err := s.api.Favorites(ctx)

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return nil
	}
	s.ids = make(map[domain.ID]struct{}, len(ids))
	if err != nil {
		s.lastErr = err
		s.mu.Unlock()
		if !apperrors.IsLoginRequired(err) {
			s.logger.WarnContext(ctx, "favorites refetch failed", slog.String("error", err.Error()))
		}
		return err
	}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

// Reset empties the set.
func (s *FavoritesService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[domain.ID]struct{})
	s.states = make(map[domain.ID]ToggleState)
	s.lastErr = nil
	s.gen++
}

// Follow keeps the set in step with the session until ctx ends: it resets on
// sign-out and refetches when a new token appears.
func (s *FavoritesService) Follow(ctx context.Context, sessions SessionSubscriber) {
	unsubscribe := sessions.Subscribe(func(snap domain.SessionSnapshot) {
		s.onSession(ctx, snap)
	})
	go func() {
		<-ctx.Done()
		unsubscribe()
	}()
}

func (s *FavoritesService) onSession(ctx context.Context, snap domain.SessionSnapshot) {
	if snap.State == domain.SessionLoading {
		return
	}
	if !snap.Authenticated() {
		s.mu.Lock()
		s.lastToken = ""
		s.mu.Unlock()
		s.Reset()
		return
	}

	s.mu.Lock()
	changed := s.lastToken != snap.Token
	s.lastToken = snap.Token
	s.mu.Unlock()
	if changed {
		go func() { _ = s.Refetch(ctx) }()
	}
}
