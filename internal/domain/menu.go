package domain

import "strings"

// MenuCategory groups menu items.
type MenuCategory struct {
	ID   ID     `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

// MenuItem is a dish as served by GET /menu.
type MenuItem struct {
	ID                        ID       `json:"id" validate:"required"`
	Name                      string   `json:"name" validate:"required"`
	Description               string   `json:"description,omitempty"`
	Price                     Money    `json:"price" validate:"gte=0"`
	Category                  string   `json:"category,omitempty"`
	Image                     string   `json:"image,omitempty"`
	ImageURL                  string   `json:"imageUrl,omitempty"`
	IsVegetarian              bool     `json:"isVegetarian,omitempty"`
	IsVegan                   bool     `json:"isVegan,omitempty"`
	IsGlutenFree              bool     `json:"isGlutenFree,omitempty"`
	IsSpicy                   bool     `json:"isSpicy,omitempty"`
	Allergens                 string   `json:"allergens,omitempty"`
	LoyaltyPointsMultiplier   float64  `json:"loyaltyPointsMultiplier,omitempty"`
	HasCookingOptions         bool     `json:"hasCookingOptions,omitempty"`
	AllowedCookingPreferences []string `json:"allowedCookingPreferences,omitempty"`
}

// ImageRef returns the image reference to show, preferring the absolute URL.
func (m MenuItem) ImageRef() string {
	if m.ImageURL != "" {
		return m.ImageURL
	}
	return m.Image
}

// Menu is the full menu in one language.
type Menu struct {
	Categories []MenuCategory `json:"categories" validate:"dive"`
	Items      []MenuItem     `json:"items" validate:"dive"`
}

// Item finds a menu item by id.
func (m *Menu) Item(id ID) (MenuItem, bool) {
	for _, it := range m.Items {
		if it.ID == id {
			return it, true
		}
	}
	return MenuItem{}, false
}

// Modifier is an optional add-on for a menu item (extra cheese, side, ...).
type Modifier struct {
	ID          ID     `json:"id" validate:"required"`
	MenuItemID  ID     `json:"menuItemId"`
	Name        string `json:"name" validate:"required"`
	NameEn      string `json:"nameEn,omitempty"`
	NameDe      string `json:"nameDe,omitempty"`
	Price       Money  `json:"price" validate:"gte=0"`
	Category    string `json:"category,omitempty"`
	IsAvailable bool   `json:"isAvailable"`
	SortOrder   int    `json:"sortOrder"`
	MaxQuantity int    `json:"maxQuantity"`
}

// LocalizedName returns the modifier name in the given language, falling back
// to the default name.
func (m Modifier) LocalizedName(lang string) string {
	switch strings.ToLower(lang) {
	case "en":
		if m.NameEn != "" {
			return m.NameEn
		}
	case "de":
		if m.NameDe != "" {
			return m.NameDe
		}
	}
	return m.Name
}
