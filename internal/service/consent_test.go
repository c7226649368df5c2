package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/RestaurantGo/internal/domain"
	"github.com/utafrali/RestaurantGo/internal/storage"
)

func TestCookieConsent_NoRecordShowsBanner(t *testing.T) {
	svc := NewCookieConsentService(newFlakyStore(), newTestLogger())

	require.NoError(t, svc.Load(context.Background()))

	assert.True(t, svc.ShowBanner())
	assert.Nil(t, svc.Consent())
	assert.True(t, svc.HasConsent(domain.ConsentNecessary))
	assert.False(t, svc.HasConsent(domain.ConsentAnalytics))
	assert.False(t, svc.HasConsent(domain.ConsentMarketing))
}

func TestCookieConsent_AcceptAndReject(t *testing.T) {
	ctx := context.Background()
	store := newFlakyStore()
	svc := NewCookieConsentService(store, newTestLogger())

	require.NoError(t, svc.AcceptAll(ctx))
	assert.False(t, svc.ShowBanner())
	for _, kind := range []domain.ConsentKind{domain.ConsentNecessary, domain.ConsentAnalytics, domain.ConsentMarketing, domain.ConsentPreferences} {
		assert.True(t, svc.HasConsent(kind), kind)
	}

	require.NoError(t, svc.RejectAll(ctx))
	assert.False(t, svc.ShowBanner())
	assert.True(t, svc.HasConsent(domain.ConsentNecessary))
	assert.False(t, svc.HasConsent(domain.ConsentAnalytics))

	var stored domain.CookieConsent
	found, err := storage.GetJSON(ctx, store, storage.KeyCookieConsent, &stored)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, domain.DefaultCookieConsent(), stored)
}

func TestCookieConsent_SavePreferencesForcesNecessary(t *testing.T) {
	svc := NewCookieConsentService(newFlakyStore(), newTestLogger())

	require.NoError(t, svc.SavePreferences(context.Background(), domain.CookieConsent{Analytics: true}))

	c := svc.Consent()
	require.NotNil(t, c)
	assert.True(t, c.Necessary)
	assert.True(t, c.Analytics)
	assert.False(t, c.Marketing)
}

func TestCookieConsent_LoadRestoresRecord(t *testing.T) {
	ctx := context.Background()
	store := newFlakyStore()
	require.NoError(t, store.Set(ctx, storage.KeyCookieConsent, `{"necessary":false,"analytics":true}`))
	svc := NewCookieConsentService(store, newTestLogger())

	require.NoError(t, svc.Load(ctx))

	assert.False(t, svc.ShowBanner())
	assert.True(t, svc.HasConsent(domain.ConsentNecessary))
	assert.True(t, svc.HasConsent(domain.ConsentAnalytics))
}

func TestCookieConsent_MalformedRecordArmsBanner(t *testing.T) {
	ctx := context.Background()
	store := newFlakyStore()
	require.NoError(t, store.Set(ctx, storage.KeyCookieConsent, `{{`))
	svc := NewCookieConsentService(store, newTestLogger())

	require.NoError(t, svc.Load(ctx))

	assert.True(t, svc.ShowBanner())
	assert.False(t, svc.HasConsent(domain.ConsentAnalytics))
}

func TestCookieConsent_StorageReadFailure(t *testing.T) {
	store := newFlakyStore()
	store.fail(errors.New("locked"), nil, nil)
	svc := NewCookieConsentService(store, newTestLogger())

	assert.Error(t, svc.Load(context.Background()))
	assert.True(t, svc.ShowBanner())
}

func TestCookieConsent_SaveFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	store := newFlakyStore()
	svc := NewCookieConsentService(store, newTestLogger())
	require.NoError(t, svc.RejectAll(ctx))

	store.fail(nil, errors.New("quota exceeded"), nil)
	err := svc.AcceptAll(ctx)

	require.Error(t, err)
	assert.False(t, svc.HasConsent(domain.ConsentAnalytics))
}

func TestCookieConsent_Reset(t *testing.T) {
	ctx := context.Background()
	store := newFlakyStore()
	svc := NewCookieConsentService(store, newTestLogger())
	require.NoError(t, svc.AcceptAll(ctx))

	store.fail(nil, nil, errors.New("locked"))
	require.Error(t, svc.ResetConsent(ctx))
	assert.False(t, svc.ShowBanner(), "state is kept when the record could not be removed")

	store.fail(nil, nil, nil)
	require.NoError(t, svc.ResetConsent(ctx))
	assert.True(t, svc.ShowBanner())
	assert.False(t, svc.HasConsent(domain.ConsentAnalytics))
	assert.Equal(t, 0, store.Len())
}

func TestCookieConsent_ConsentIsCopy(t *testing.T) {
	svc := NewCookieConsentService(newFlakyStore(), newTestLogger())
	require.NoError(t, svc.AcceptAll(context.Background()))

	c := svc.Consent()
	c.Analytics = false

	assert.True(t, svc.HasConsent(domain.ConsentAnalytics))
}
