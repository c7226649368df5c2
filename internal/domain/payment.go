package domain

// PaymentMethod is a saved payment method. Only display data is modelled;
// raw card numbers never leave the payment provider's SDK.
type PaymentMethod struct {
	ID         ID     `json:"id,omitempty"`
	Type       string `json:"type" validate:"required"`
	Brand      string `json:"brand,omitempty"`
	Last4      string `json:"last4,omitempty" validate:"omitempty,len=4,numeric"`
	Expiry     string `json:"expiry,omitempty"`
	CardHolder string `json:"cardHolder,omitempty"`
	IsDefault  bool   `json:"isDefault"`
}

// PaymentIntentRequest asks the backend to create a provider payment intent.
type PaymentIntentRequest struct {
	Amount   Money  `json:"amount" validate:"gt=0"`
	Currency string `json:"currency" validate:"required,len=3"`
}

// PaymentIntent carries the provider client secret for confirmation.
type PaymentIntent struct {
	ClientSecret string `json:"clientSecret" validate:"required"`
}
