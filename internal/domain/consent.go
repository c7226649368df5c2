package domain

import "fmt"

// ConsentKind names one cookie-consent category.
type ConsentKind string

const (
	ConsentNecessary   ConsentKind = "necessary"
	ConsentAnalytics   ConsentKind = "analytics"
	ConsentMarketing   ConsentKind = "marketing"
	ConsentPreferences ConsentKind = "preferences"
)

// ParseConsentKind validates a consent category name.
func ParseConsentKind(s string) (ConsentKind, error) {
	switch k := ConsentKind(s); k {
	case ConsentNecessary, ConsentAnalytics, ConsentMarketing, ConsentPreferences:
		return k, nil
	}
	return "", fmt.Errorf("unknown consent kind %q", s)
}

// CookieConsent is the locally persisted cookie record. Necessary is always
// true once a record has been written.
type CookieConsent struct {
	Necessary   bool `json:"necessary"`
	Analytics   bool `json:"analytics"`
	Marketing   bool `json:"marketing"`
	Preferences bool `json:"preferences"`
}

// DefaultCookieConsent is the effective consent while no record exists.
func DefaultCookieConsent() CookieConsent {
	return CookieConsent{Necessary: true}
}

// AllCookieConsent grants every category.
func AllCookieConsent() CookieConsent {
	return CookieConsent{Necessary: true, Analytics: true, Marketing: true, Preferences: true}
}

// Granted reports whether the given category is allowed.
func (c CookieConsent) Granted(kind ConsentKind) bool {
	switch kind {
	case ConsentNecessary:
		return c.Necessary
	case ConsentAnalytics:
		return c.Analytics
	case ConsentMarketing:
		return c.Marketing
	case ConsentPreferences:
		return c.Preferences
	}
	return false
}

// PrivacyConsent is the server-side consent record behind /api/consent.
type PrivacyConsent struct {
	MarketingConsent             bool `json:"marketingConsent"`
	BehaviorTrackingConsent      bool `json:"behaviorTrackingConsent"`
	ReminderNotificationsConsent bool `json:"reminderNotificationsConsent"`
}
