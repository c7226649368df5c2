// Package storage defines the device key/value store that session, consent,
// language and cart state are persisted to.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

// Persisted keys.
const (
	KeyToken         = "token"
	KeyRefreshToken  = "refreshToken"
	KeyUser          = "user"
	KeyCookieConsent = "cookie_consent"
	KeyLanguage      = "@app_language"
	KeyCart          = "cart"
)

// SessionKeys are written and removed together.
var SessionKeys = []string{KeyToken, KeyRefreshToken, KeyUser}

// Store is a string key/value store local to one device.
// SetMany and RemoveMany apply all keys or none.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	SetMany(ctx context.Context, values map[string]string) error
	Remove(ctx context.Context, key string) error
	RemoveMany(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}

// GetJSON decodes the value stored under key into v. It reports false when the
// key is absent.
func GetJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, string(b))
}
