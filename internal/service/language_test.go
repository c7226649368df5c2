package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/RestaurantGo/internal/storage"
	apperrors "github.com/utafrali/RestaurantGo/pkg/errors"
)

func TestDetectDeviceLocale(t *testing.T) {
	tests := []struct {
		name     string
		override string
		lcAll    string
		lang     string
		want     string
	}{
		{name: "override wins", override: "en-US", lang: "de_DE.UTF-8", want: "en"},
		{name: "LC_ALL before LANG", lcAll: "en_GB.UTF-8", lang: "de_DE.UTF-8", want: "en"},
		{name: "LANG with encoding", lang: "de_DE.UTF-8", want: "de"},
		{name: "LANG with modifier", lang: "de_AT@euro", want: "de"},
		{name: "bare code", lang: "FR", want: "fr"},
		{name: "POSIX locale", lang: "C.UTF-8", want: ""},
		{name: "unset", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LC_ALL", tt.lcAll)
			t.Setenv("LANG", tt.lang)
			assert.Equal(t, tt.want, DetectDeviceLocale(tt.override))
		})
	}
}

func TestLanguageLoad(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		device string
		want   string
	}{
		{name: "stored preference", stored: "en", device: "de", want: "en"},
		{name: "unsupported stored falls to device", stored: "fr", device: "en", want: "en"},
		{name: "device locale", device: "en", want: "en"},
		{name: "raw device locale", device: "en_US.UTF-8", want: "en"},
		{name: "unsupported device", device: "fr", want: "de"},
		{name: "nothing", want: "de"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := newFlakyStore()
			if tt.stored != "" {
				require.NoError(t, store.Set(ctx, storage.KeyLanguage, tt.stored))
			}
			svc := NewLanguageService(store, tt.device, nil, newTestLogger())

			assert.Equal(t, tt.want, svc.Load(ctx))
			assert.Equal(t, tt.want, svc.Current())
		})
	}
}

func TestLanguageLoad_ReadFailure(t *testing.T) {
	store := newFlakyStore()
	store.fail(errors.New("locked"), nil, nil)
	svc := NewLanguageService(store, "en", nil, newTestLogger())

	assert.Equal(t, "en", svc.Load(context.Background()))
}

func TestLanguageChange(t *testing.T) {
	ctx := context.Background()
	store := newFlakyStore()
	svc := NewLanguageService(store, "", nil, newTestLogger())
	assert.Equal(t, DefaultLanguage, svc.Current())

	require.NoError(t, svc.Change(ctx, " EN "))
	assert.Equal(t, "en", svc.Current())
	v, ok, err := store.Get(ctx, storage.KeyLanguage)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "en", v)

	err = svc.Change(ctx, "fr")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Equal(t, "en", svc.Current())
}

func TestLanguageChange_WriteFailureStillApplies(t *testing.T) {
	store := newFlakyStore()
	store.fail(nil, errors.New("quota exceeded"), nil)
	svc := NewLanguageService(store, "", nil, newTestLogger())

	require.NoError(t, svc.Change(context.Background(), "en"))
	assert.Equal(t, "en", svc.Current())
}

func TestLanguageAcceptLanguage(t *testing.T) {
	ctx := context.Background()
	svc := NewLanguageService(newFlakyStore(), "", nil, newTestLogger())

	assert.Equal(t, "de, en;q=0.5", svc.AcceptLanguage())

	require.NoError(t, svc.Change(ctx, "en"))
	assert.Equal(t, "en", svc.AcceptLanguage())
}
