// Package service holds the client-side stores: session, cart, favorites,
// consent, language and the thin services over orders, tracking, loyalty
// and the account endpoints. One instance of each lives per device session.
package service

import (
	"errors"
	"sync"

	apperrors "github.com/utafrali/RestaurantGo/pkg/errors"
	"github.com/utafrali/RestaurantGo/pkg/validator"
)

// validateInput runs the validator tags on in and converts failures into a
// VALIDATION_ERROR so nothing invalid reaches the network.
func validateInput(in any) error {
	err := validator.Validate(in)
	if err == nil {
		return nil
	}
	var ve *validator.ValidationError
	if errors.As(err, &ve) {
		return ve.AppError()
	}
	return apperrors.InvalidInput(err.Error())
}

// errorMessage is the user-facing text of err.
func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// keyedMutex serializes work per key. Different keys never block each other.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

// Lock blocks until key is free and returns the matching unlock.
func (k *keyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyedEntry)
	}
	e, ok := k.locks[key]
	if !ok {
		e = &keyedEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func (k *keyedMutex) len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
