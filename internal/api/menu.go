package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/utafrali/RestaurantGo/internal/domain"
)

// Menu fetches the full menu in lang. An empty lang lets the backend pick.
func (c *Client) Menu(ctx context.Context, lang string) (*domain.Menu, error) {
	path := "/menu"
	if lang != "" {
		path += "?" + url.Values{"lang": {lang}}.Encode()
	}
	var out domain.Menu
	if _, err := c.call(ctx, "/menu", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Modifiers lists the add-ons offered for a menu item.
func (c *Client) Modifiers(ctx context.Context, menuItemID domain.ID) ([]domain.Modifier, error) {
	var out []domain.Modifier
	path := "/api/modifiers/menu-item/" + url.PathEscape(menuItemID.String())
	if _, err := c.call(ctx, "/api/modifiers/menu-item/:id", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type favoriteEntry struct {
	MenuItem struct {
		ID domain.ID `json:"id" validate:"required"`
	} `json:"menuItem"`
}

// Favorites returns the ids of the signed-in user's favorite menu items.
func (c *Client) Favorites(ctx context.Context) ([]domain.ID, error) {
	var entries []favoriteEntry
	if _, err := c.call(ctx, "/api/favorites", http.MethodGet, "/api/favorites", nil, &entries); err != nil {
		return nil, err
	}
	ids := make([]domain.ID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.MenuItem.ID)
	}
	return ids, nil
}

func (c *Client) AddFavorite(ctx context.Context, menuItemID domain.ID) error {
	body := map[string]domain.ID{"menuItemId": menuItemID}
	_, err := c.call(ctx, "/api/favorites", http.MethodPost, "/api/favorites", body, nil)
	return err
}

func (c *Client) RemoveFavorite(ctx context.Context, menuItemID domain.ID) error {
	path := "/api/favorites/" + url.PathEscape(menuItemID.String())
	_, err := c.call(ctx, "/api/favorites/:id", http.MethodDelete, path, nil, nil)
	return err
}
