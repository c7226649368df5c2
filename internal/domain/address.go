package domain

// Address is a saved delivery address.
type Address struct {
	ID         ID     `json:"id,omitempty"`
	Label      string `json:"label" validate:"required,max=50"`
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Phone      string `json:"phone,omitempty"`
}
