package domain

import "time"

// RedeemResult is returned after redeeming a loyalty code.
type RedeemResult struct {
	Success       bool   `json:"success"`
	PointsAwarded int    `json:"pointsAwarded"`
	NewBalance    int    `json:"newBalance"`
	Message       string `json:"message,omitempty"`
}

// LoyaltyToken is an admin-issued QR code worth a number of points.
type LoyaltyToken struct {
	ID        ID         `json:"id" validate:"required"`
	Code      string     `json:"code" validate:"required"`
	Points    int        `json:"points"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Location  string     `json:"location,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	IsActive  bool       `json:"isActive"`
	UsedAt    *time.Time `json:"usedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// CreateLoyaltyTokenRequest is the POST /api/loyalty/tokens payload.
type CreateLoyaltyTokenRequest struct {
	Points      int    `json:"points" validate:"gt=0"`
	ExpiryHours int    `json:"expiryHours" validate:"gt=0"`
	Location    string `json:"location,omitempty"`
	Notes       string `json:"notes,omitempty"`
}
