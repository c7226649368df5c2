package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/RestaurantGo/internal/domain"
)

func sampleMenu() []domain.MenuItem {
	return []domain.MenuItem{
		{ID: "1", Name: "Wiener Schnitzel", Description: "Breaded veal with potato salad", Category: "classics"},
		{ID: "5", Name: "Grilled Ribeye Steak", Description: "Dry aged, served with fries", Category: "grill"},
		{ID: "7", Name: "Steak Sandwich", Description: "Sliced steak on sourdough", Category: "snacks"},
		{ID: "9", Name: "Caesar Salad", Description: "Romaine, parmesan, croutons", Category: "salads"},
	}
}

func TestRankMenu_OrdersByScore(t *testing.T) {
	got := RankMenu(sampleMenu(), "steak")
	require.Len(t, got, 2)
	// "Steak Sandwich" starts with the query (90) and beats a substring hit (80).
	assert.Equal(t, domain.ID("7"), got[0].Item.ID)
	assert.Equal(t, 90.0, got[0].Score)
	assert.Equal(t, domain.ID("5"), got[1].Item.ID)
	assert.Equal(t, 80.0, got[1].Score)
}

func TestRankMenu_MatchesDescriptionAndCategory(t *testing.T) {
	got := RankMenu(sampleMenu(), "potato")
	require.Len(t, got, 1)
	assert.Equal(t, domain.ID("1"), got[0].Item.ID)
	assert.Equal(t, 40.0, got[0].Score)

	got = RankMenu(sampleMenu(), "grill")
	require.Len(t, got, 1)
	assert.Equal(t, domain.ID("5"), got[0].Item.ID)
}

func TestRankMenu_TypoTolerant(t *testing.T) {
	got := RankMenu(sampleMenu(), "schnitzle")
	require.NotEmpty(t, got)
	assert.Equal(t, domain.ID("1"), got[0].Item.ID)
}

func TestRankMenu_TiesByName(t *testing.T) {
	items := []domain.MenuItem{
		{ID: "b", Name: "Salad Bowl"},
		{ID: "a", Name: "Salad Bar"},
	}
	got := RankMenu(items, "salad")
	require.Len(t, got, 2)
	assert.Equal(t, "Salad Bar", got[0].Item.Name)
}

func TestRankMenu_BlankQueryKeepsOrder(t *testing.T) {
	got := RankMenu(sampleMenu(), "  ")
	require.Len(t, got, 4)
	assert.Equal(t, domain.ID("1"), got[0].Item.ID)
	assert.Equal(t, 0.0, got[0].Score)
}
