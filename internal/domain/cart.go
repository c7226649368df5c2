package domain

// SelectedModifier is a modifier chosen for a cart line, with a name/price
// snapshot taken when it was added.
type SelectedModifier struct {
	ModifierID ID     `json:"modifierId" validate:"required"`
	Quantity   int    `json:"quantity" validate:"gte=1"`
	Name       string `json:"name,omitempty"`
	Price      Money  `json:"price"`
}

// CartLine is one entry in the cart. MenuItemID is the line identity.
type CartLine struct {
	MenuItemID ID                 `json:"menuItemId"`
	Name       string             `json:"name"`
	Price      Money              `json:"price"`
	Quantity   int                `json:"quantity"`
	ImageURL   string             `json:"imageUrl,omitempty"`
	Modifiers  []SelectedModifier `json:"modifiers,omitempty"`
	Note       string             `json:"note,omitempty"`
}

// UnitPrice is the item price plus every selected modifier.
func (l CartLine) UnitPrice() Money {
	unit := l.Price
	for _, m := range l.Modifiers {
		unit += m.Price.Times(m.Quantity)
	}
	return unit
}

// Total is the line's contribution to the cart total.
func (l CartLine) Total() Money {
	return l.UnitPrice().Times(l.Quantity)
}

// AddToCartInput describes the item being added.
type AddToCartInput struct {
	MenuItemID ID                 `json:"menuItemId" validate:"required"`
	Name       string             `json:"name" validate:"required"`
	Price      Money              `json:"price" validate:"gte=0"`
	ImageURL   string             `json:"imageUrl,omitempty"`
	Modifiers  []SelectedModifier `json:"modifiers,omitempty" validate:"dive"`
	Note       string             `json:"note,omitempty" validate:"max=500"`
}

// CartInputFromMenuItem snapshots a menu item for the cart.
func CartInputFromMenuItem(item MenuItem) AddToCartInput {
	return AddToCartInput{
		MenuItemID: item.ID,
		Name:       item.Name,
		Price:      item.Price,
		ImageURL:   item.ImageRef(),
	}
}

// CartSnapshot is the cart as exposed to callers.
type CartSnapshot struct {
	Items []CartLine `json:"items"`
	Count int        `json:"count"`
	Total Money      `json:"total"`
}
