package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/utafrali/RestaurantGo/internal/domain"
	apperrors "github.com/utafrali/RestaurantGo/pkg/errors"
	"github.com/utafrali/RestaurantGo/pkg/pagination"
)

func (c *Client) Addresses(ctx context.Context) ([]domain.Address, error) {
	var out []domain.Address
	if _, err := c.call(ctx, "/api/address", http.MethodGet, "/api/address", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateAddress(ctx context.Context, a domain.Address) (*domain.Address, error) {
	var out domain.Address
	if _, err := c.call(ctx, "/api/address", http.MethodPost, "/api/address", a, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateAddress(ctx context.Context, id domain.ID, a domain.Address) (*domain.Address, error) {
	var out domain.Address
	path := "/api/address/" + url.PathEscape(id.String())
	if _, err := c.call(ctx, "/api/address/:id", http.MethodPut, path, a, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteAddress(ctx context.Context, id domain.ID) error {
	_, err := c.call(ctx, "/api/address/:id", http.MethodDelete, "/api/address/"+url.PathEscape(id.String()), nil, nil)
	return err
}

func (c *Client) PaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	var out []domain.PaymentMethod
	if _, err := c.call(ctx, "/api/payment", http.MethodGet, "/api/payment", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddPaymentMethod(ctx context.Context, pm domain.PaymentMethod) (*domain.PaymentMethod, error) {
	var out domain.PaymentMethod
	if _, err := c.call(ctx, "/api/payment", http.MethodPost, "/api/payment", pm, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePaymentMethod(ctx context.Context, id domain.ID) error {
	_, err := c.call(ctx, "/api/payment/:id", http.MethodDelete, "/api/payment/"+url.PathEscape(id.String()), nil, nil)
	return err
}

// CreatePaymentIntent asks the backend for a payment provider intent.
func (c *Client) CreatePaymentIntent(ctx context.Context, req domain.PaymentIntentRequest) (*domain.PaymentIntent, error) {
	var out domain.PaymentIntent
	if _, err := c.call(ctx, "/api/payment/stripe-intent", http.MethodPost, "/api/payment/stripe-intent", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PrivacyConsent reads the server-side consent flags.
func (c *Client) PrivacyConsent(ctx context.Context) (*domain.PrivacyConsent, error) {
	var out domain.PrivacyConsent
	if _, err := c.call(ctx, "/api/consent", http.MethodGet, "/api/consent", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePrivacyConsent(ctx context.Context, pc domain.PrivacyConsent) error {
	_, err := c.call(ctx, "/api/consent", http.MethodPut, "/api/consent", pc, nil)
	return err
}

// MinOrderValue reads the minimum cart total accepted at checkout. The value
// arrives either bare or as {"minOrderValue": n} / {"value": n}.
func (c *Client) MinOrderValue(ctx context.Context) (domain.Money, error) {
	const route = "/api/settings/minOrderValue"
	res, err := c.call(ctx, route, http.MethodGet, route, nil, nil)
	if err != nil {
		return 0, err
	}

	var bare domain.Money
	if json.Unmarshal(res.Data, &bare) == nil {
		return bare, nil
	}
	var obj struct {
		MinOrderValue *domain.Money `json:"minOrderValue"`
		Value         *domain.Money `json:"value"`
	}
	if err := json.Unmarshal(res.Data, &obj); err != nil {
		return 0, apperrors.InvalidResponse(route, err)
	}
	switch {
	case obj.MinOrderValue != nil:
		return *obj.MinOrderValue, nil
	case obj.Value != nil:
		return *obj.Value, nil
	}
	return 0, apperrors.InvalidResponse(route, errors.New("minOrderValue missing"))
}

// Notifications returns one page of notification history.
func (c *Client) Notifications(ctx context.Context, p pagination.Params) (*domain.NotificationPage, error) {
	var out domain.NotificationPage
	path := "/notifications/history?" + p.Values().Encode()
	if _, err := c.call(ctx, "/notifications/history", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MarkNotificationOpened(ctx context.Context, id domain.ID) error {
	path := "/notifications/" + url.PathEscape(id.String()) + "/opened"
	_, err := c.call(ctx, "/notifications/:id/opened", http.MethodPatch, path, nil, nil)
	return err
}

// RedeemLoyaltyCode credits the points behind a scanned code.
func (c *Client) RedeemLoyaltyCode(ctx context.Context, code string) (*domain.RedeemResult, error) {
	var out domain.RedeemResult
	if _, err := c.call(ctx, "/api/loyalty/redeem", http.MethodPost, "/api/loyalty/redeem", map[string]string{"code": code}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoyaltyTokens lists QR tokens. Admin only.
func (c *Client) LoyaltyTokens(ctx context.Context, activeOnly bool, p pagination.Params) ([]domain.LoyaltyToken, error) {
	q := p.Values()
	q.Set("active", strconv.FormatBool(activeOnly))

	var out struct {
		Tokens []domain.LoyaltyToken `json:"tokens" validate:"dive"`
	}
	if _, err := c.call(ctx, "/api/loyalty/tokens", http.MethodGet, "/api/loyalty/tokens?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Tokens, nil
}

func (c *Client) CreateLoyaltyToken(ctx context.Context, req domain.CreateLoyaltyTokenRequest) (*domain.LoyaltyToken, error) {
	var out struct {
		Success bool                 `json:"success"`
		Token   *domain.LoyaltyToken `json:"token" validate:"required"`
	}
	if _, err := c.call(ctx, "/api/loyalty/tokens", http.MethodPost, "/api/loyalty/tokens", req, &out); err != nil {
		return nil, err
	}
	return out.Token, nil
}

func (c *Client) DeleteLoyaltyToken(ctx context.Context, id domain.ID) error {
	path := "/api/loyalty/tokens/" + url.PathEscape(id.String())
	_, err := c.call(ctx, "/api/loyalty/tokens/:id", http.MethodDelete, path, nil, nil)
	return err
}
