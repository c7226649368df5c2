package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/RestaurantGo/internal/domain"
	apperrors "github.com/utafrali/RestaurantGo/pkg/errors"
)

type fixedLanguage string

func (l fixedLanguage) Current() string { return string(l) }

func sampleMenu() *domain.Menu {
	return &domain.Menu{
		Categories: []domain.MenuCategory{{ID: "1", Name: "Steaks"}, {ID: "2", Name: "Beilagen"}},
		Items: []domain.MenuItem{
			{ID: "5", Name: "Ribeye Steak", Price: 2899, Category: "Steaks"},
			{ID: "6", Name: "Rumpsteak", Price: 2499, Category: "Steaks"},
			{ID: "7", Name: "Pommes", Price: 450, Category: "Beilagen"},
		},
	}
}

func newTestMenu(api *mockMenuAPI, lang string) (*MenuService, *time.Time) {
	svc := NewMenuService(api, fixedLanguage(lang), nil, newTestLogger(), time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, &now
}

func TestMenu_UsesCurrentLanguageAndCaches(t *testing.T) {
	ctx := context.Background()
	api := new(mockMenuAPI)
	svc, now := newTestMenu(api, "de")
	api.On("Menu", mock.Anything, "de").Return(sampleMenu(), nil).Twice()

	m, err := svc.Menu(ctx, "")
	require.NoError(t, err)
	assert.Len(t, m.Items, 3)

	_, err = svc.Menu(ctx, "DE")
	require.NoError(t, err)
	api.AssertNumberOfCalls(t, "Menu", 1)

	*now = now.Add(2 * time.Minute)
	_, err = svc.Menu(ctx, "de")
	require.NoError(t, err)
	api.AssertNumberOfCalls(t, "Menu", 2)
	api.AssertExpectations(t)
}

func TestMenu_LanguagesAreCachedSeparately(t *testing.T) {
	ctx := context.Background()
	api := new(mockMenuAPI)
	svc, _ := newTestMenu(api, "de")
	api.On("Menu", mock.Anything, "de").Return(sampleMenu(), nil).Once()
	api.On("Menu", mock.Anything, "en").Return(&domain.Menu{}, nil).Once()

	_, err := svc.Menu(ctx, "de")
	require.NoError(t, err)
	en, err := svc.Menu(ctx, "en")
	require.NoError(t, err)

	assert.Empty(t, en.Items)
	api.AssertExpectations(t)
}

func TestMenu_FetchError(t *testing.T) {
	api := new(mockMenuAPI)
	svc, _ := newTestMenu(api, "de")
	api.On("Menu", mock.Anything, "de").Return(nil, apperrors.ServiceUnavailable("backend down"))

	_, err := svc.Menu(context.Background(), "de")

	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
	assert.Contains(t, err.Error(), "fetch menu")
}

func TestMenuSearch(t *testing.T) {
	ctx := context.Background()
	api := new(mockMenuAPI)
	svc, _ := newTestMenu(api, "de")
	api.On("Menu", mock.Anything, "de").Return(sampleMenu(), nil).Once()

	results, err := svc.Search(ctx, "", "ribeye")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, domain.ID("5"), results[0].Item.ID)

	all, err := svc.Search(ctx, "", "  ")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	api.AssertNumberOfCalls(t, "Menu", 1)
}

func TestMenuItem(t *testing.T) {
	ctx := context.Background()
	api := new(mockMenuAPI)
	svc, _ := newTestMenu(api, "de")
	api.On("Menu", mock.Anything, "de").Return(sampleMenu(), nil).Once()

	it, err := svc.Item(ctx, "de", "7")
	require.NoError(t, err)
	assert.Equal(t, "Pommes", it.Name)

	_, err = svc.Item(ctx, "de", "99")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMenuModifiers(t *testing.T) {
	ctx := context.Background()
	api := new(mockMenuAPI)
	svc, _ := newTestMenu(api, "de")

	_, err := svc.Modifiers(ctx, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	api.On("Modifiers", mock.Anything, domain.ID("5")).Return([]domain.Modifier{
		{ID: "m1", Name: "Pfeffersauce", IsAvailable: true},
		{ID: "m2", Name: "Trüffelbutter", IsAvailable: false},
		{ID: "m3", Name: "Kräuterbutter", IsAvailable: true},
	}, nil)

	mods, err := svc.Modifiers(ctx, "5")
	require.NoError(t, err)
	require.Len(t, mods, 2)
	assert.Equal(t, domain.ID("m1"), mods[0].ID)
	assert.Equal(t, domain.ID("m3"), mods[1].ID)
}
