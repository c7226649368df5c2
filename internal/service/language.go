package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/utafrali/RestaurantGo/internal/event"
	"github.com/utafrali/RestaurantGo/internal/storage"
	apperrors "github.com/utafrali/RestaurantGo/pkg/errors"
)

// Language codes.
const (
	LanguageGerman  = "de"
	LanguageEnglish = "en"

	DefaultLanguage  = LanguageGerman
	FallbackLanguage = LanguageEnglish
)

// SupportedLanguages lists the codes the UI ships translations for.
var SupportedLanguages = []string{LanguageGerman, LanguageEnglish}

// IsSupportedLanguage reports whether code is one of SupportedLanguages.
func IsSupportedLanguage(code string) bool {
	for _, l := range SupportedLanguages {
		if l == code {
			return true
		}
	}
	return false
}

// DetectDeviceLocale returns the language part of the device locale. An
// explicit override wins over LC_ALL and LANG. Values such as "de_DE.UTF-8",
// "en-US" or "de" are understood; "C" and "POSIX" yield "".
func DetectDeviceLocale(override string) string {
	for _, v := range []string{override, os.Getenv("LC_ALL"), os.Getenv("LANG")} {
		if code := languageOf(v); code != "" {
			return code
		}
	}
	return ""
}

func languageOf(locale string) string {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	if i := strings.IndexAny(locale, "_-"); i >= 0 {
		locale = locale[:i]
	}
	locale = strings.ToLower(locale)
	if locale == "c" || locale == "posix" {
		return ""
	}
	return locale
}

// LanguageService holds the UI language.
type LanguageService struct {
	store        storage.Store
	analytics    *event.Analytics
	logger       *slog.Logger
	deviceLocale string

	mu      sync.RWMutex
	current string
}

// NewLanguageService starts at DefaultLanguage until Load runs. deviceLocale
// is the device language, either a code ("en") or a raw locale
// ("en_US.UTF-8"), possibly empty.
func NewLanguageService(store storage.Store, deviceLocale string, analytics *event.Analytics, logger *slog.Logger) *LanguageService {
	return &LanguageService{
		store:        store,
		analytics:    analytics,
		logger:       logger,
		deviceLocale: languageOf(deviceLocale),
		current:      DefaultLanguage,
	}
}

// Load picks the stored preference when supported, else the device locale
// when supported, else DefaultLanguage.
func (s *LanguageService) Load(ctx context.Context) string {
	lang := DefaultLanguage
	stored, ok, err := s.store.Get(ctx, storage.KeyLanguage)
	switch {
	case err != nil:
		s.logger.WarnContext(ctx, "failed to read language preference", slog.String("error", err.Error()))
		if IsSupportedLanguage(s.deviceLocale) {
			lang = s.deviceLocale
		}
	case ok && IsSupportedLanguage(stored):
		lang = stored
	case IsSupportedLanguage(s.deviceLocale):
		lang = s.deviceLocale
	}

	s.mu.Lock()
	s.current = lang
	s.mu.Unlock()
	return lang
}

// Current returns the active language code.
func (s *LanguageService) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// AcceptLanguage is the Accept-Language value for backend calls: the current
// language, with FallbackLanguage as a weaker second choice.
func (s *LanguageService) AcceptLanguage() string {
	cur := s.Current()
	if cur == FallbackLanguage {
		return cur
	}
	return cur + ", " + FallbackLanguage + ";q=0.5"
}

// Change switches the language. Unsupported codes are rejected; a failed
// write is logged and the change still applies.
func (s *LanguageService) Change(ctx context.Context, code string) error {
	code = strings.ToLower(strings.TrimSpace(code))
	if !IsSupportedLanguage(code) {
		return apperrors.InvalidInput(fmt.Sprintf("unsupported language %q, expected one of %s", code, strings.Join(SupportedLanguages, ", ")))
	}

	if err := s.store.Set(ctx, storage.KeyLanguage, code); err != nil {
		s.logger.WarnContext(ctx, "failed to persist language preference", slog.String("error", err.Error()))
	}

	s.mu.Lock()
	changed := s.current != code
	s.current = code
	s.mu.Unlock()

	if changed {
		s.analytics.LanguageChanged(ctx, code)
	}
	return nil
}
