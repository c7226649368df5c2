package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/utafrali/RestaurantGo/internal/domain"
	"github.com/utafrali/RestaurantGo/internal/storage"
)

// CookieConsentService is the local cookie-consent gate. Without a stored
// record the banner is shown and only necessary cookies are allowed.
type CookieConsentService struct {
	store  storage.Store
	logger *slog.Logger

	// writeMu serializes storage writes with their in-memory commit.
	writeMu sync.Mutex

	mu      sync.RWMutex
	consent *domain.CookieConsent
}

func NewCookieConsentService(store storage.Store, logger *slog.Logger) *CookieConsentService {
	return &CookieConsentService{store: store, logger: logger}
}

// Load reads the stored record. A missing, unreadable or malformed record
// leaves the banner armed.
func (s *CookieConsentService) Load(ctx context.Context) error {
	var c domain.CookieConsent
	found, err := storage.GetJSON(ctx, s.store, storage.KeyCookieConsent, &c)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load cookie consent", slog.String("error", err.Error()))
		s.set(nil)
		if found {
			return nil
		}
		return fmt.Errorf("load cookie consent: %w", err)
	}
	if !found {
		s.set(nil)
		return nil
	}
	c.Necessary = true
	s.set(&c)
	return nil
}

// AcceptAll grants every category.
func (s *CookieConsentService) AcceptAll(ctx context.Context) error {
	return s.save(ctx, domain.AllCookieConsent())
}

// RejectAll keeps only necessary cookies.
func (s *CookieConsentService) RejectAll(ctx context.Context) error {
	return s.save(ctx, domain.DefaultCookieConsent())
}

// SavePreferences stores the given choice with necessary forced on.
func (s *CookieConsentService) SavePreferences(ctx context.Context, prefs domain.CookieConsent) error {
	prefs.Necessary = true
	return s.save(ctx, prefs)
}

// ResetConsent deletes the record and shows the banner again.
func (s *CookieConsentService) ResetConsent(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.store.Remove(ctx, storage.KeyCookieConsent); err != nil {
		s.logger.ErrorContext(ctx, "failed to reset cookie consent", slog.String("error", err.Error()))
		return fmt.Errorf("reset cookie consent: %w", err)
	}
	s.set(nil)
	return nil
}

func (s *CookieConsentService) save(ctx context.Context, c domain.CookieConsent) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := storage.SetJSON(ctx, s.store, storage.KeyCookieConsent, c); err != nil {
		s.logger.ErrorContext(ctx, "failed to save cookie consent", slog.String("error", err.Error()))
		return fmt.Errorf("save cookie consent: %w", err)
	}
	s.set(&c)
	s.logger.InfoContext(ctx, "cookie consent saved",
		slog.Bool("analytics", c.Analytics),
		slog.Bool("marketing", c.Marketing),
		slog.Bool("preferences", c.Preferences),
	)
	return nil
}

func (s *CookieConsentService) set(c *domain.CookieConsent) {
	s.mu.Lock()
	s.consent = c
	s.mu.Unlock()
}

// HasConsent reports whether kind is allowed.
func (s *CookieConsentService) HasConsent(kind domain.ConsentKind) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.consent == nil {
		return kind == domain.ConsentNecessary
	}
	return s.consent.Granted(kind)
}

// Consent returns the stored record, or nil when none was given yet.
func (s *CookieConsentService) Consent() *domain.CookieConsent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.consent == nil {
		return nil
	}
	c := *s.consent
	return &c
}

// ShowBanner reports whether the user still has to choose.
func (s *CookieConsentService) ShowBanner() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.consent == nil
}
