package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/utafrali/RestaurantGo/internal/domain"
	apperrors "github.com/utafrali/RestaurantGo/pkg/errors"
	"github.com/utafrali/RestaurantGo/pkg/validator"
)

func (c *Client) UserOrders(ctx context.Context, userID domain.ID) ([]domain.Order, error) {
	var out []domain.Order
	path := "/order/user/" + url.PathEscape(userID.String())
	if _, err := c.call(ctx, "/order/user/:id", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AllOrders lists every order. Admin only.
func (c *Client) AllOrders(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	if _, err := c.call(ctx, "/order/all", http.MethodGet, "/order/all", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Order(ctx context.Context, id domain.ID) (*domain.Order, error) {
	var out domain.Order
	if _, err := c.call(ctx, "/order/:id", http.MethodGet, "/order/"+url.PathEscape(id.String()), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PlaceOrder submits an order. The backend returns the order either nested
// under "order" or as the top-level object next to the loyalty fields.
func (c *Client) PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (*domain.PlaceOrderResult, error) {
	res, err := c.call(ctx, "/order", http.MethodPost, "/order", req, nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Order                *domain.Order `json:"order"`
		LoyaltyPointsEarned  int           `json:"loyaltyPointsEarned"`
		LoyaltyPointsBalance *int          `json:"loyaltyPointsBalance"`
	}
	if err := json.Unmarshal(res.Data, &envelope); err != nil {
		return nil, apperrors.InvalidResponse("/order", err)
	}
	out := &domain.PlaceOrderResult{
		LoyaltyPointsEarned:  envelope.LoyaltyPointsEarned,
		LoyaltyPointsBalance: envelope.LoyaltyPointsBalance,
	}
	if envelope.Order != nil {
		out.Order = *envelope.Order
	} else if err := json.Unmarshal(res.Data, &out.Order); err != nil {
		return nil, apperrors.InvalidResponse("/order", err)
	}
	if err := validator.Validate(out.Order); err != nil {
		return nil, apperrors.InvalidResponse("/order", err)
	}
	return out, nil
}

// UpdateOrderStatus moves an order to status. Admin only.
func (c *Client) UpdateOrderStatus(ctx context.Context, id domain.ID, status domain.OrderStatus) error {
	body := map[string]domain.OrderStatus{"status": status}
	path := "/order/" + url.PathEscape(id.String()) + "/status"
	_, err := c.call(ctx, "/order/:id/status", http.MethodPatch, path, body, nil)
	return err
}

func (c *Client) CancelOrder(ctx context.Context, id domain.ID) error {
	_, err := c.call(ctx, "/order/:id", http.MethodDelete, "/order/"+url.PathEscape(id.String()), nil, nil)
	return err
}

// Track fetches the delivery state of an order.
func (c *Client) Track(ctx context.Context, orderID domain.ID) (*domain.TrackingInfo, error) {
	var out domain.TrackingInfo
	path := "/api/delivery/track/" + url.PathEscape(orderID.String())
	if _, err := c.call(ctx, "/api/delivery/track/:id", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
