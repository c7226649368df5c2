package domain

import "time"

// OrderStatus is the backend-owned order lifecycle state.
type OrderStatus string

const (
	OrderPending        OrderStatus = "pending"
	OrderConfirmed      OrderStatus = "confirmed"
	OrderPreparing      OrderStatus = "preparing"
	OrderReady          OrderStatus = "ready"
	OrderOutForDelivery OrderStatus = "out_for_delivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
)

// Terminal reports whether no further status change is expected.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderPreparing, OrderReady, OrderOutForDelivery, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// OrderItemModifier is a modifier as recorded on a placed order.
type OrderItemModifier struct {
	ID           ID    `json:"id"`
	ModifierID   ID    `json:"modifierId"`
	Quantity     int   `json:"quantity"`
	PriceAtOrder Money `json:"priceAtOrder"`
	Modifier     *struct {
		ID     ID     `json:"id"`
		Name   string `json:"name"`
		NameEn string `json:"nameEn,omitempty"`
		NameDe string `json:"nameDe,omitempty"`
	} `json:"modifier,omitempty"`
}

// OrderItem is one line of a placed order.
type OrderItem struct {
	ID       ID `json:"id,omitempty"`
	MenuItem struct {
		ID    ID     `json:"id" validate:"required"`
		Name  string `json:"name"`
		Price Money  `json:"price"`
	} `json:"menuItem"`
	Quantity  int                 `json:"quantity"`
	Modifiers []OrderItemModifier `json:"modifiers,omitempty"`
}

// Order is an order as returned by the backend.
type Order struct {
	ID                    ID          `json:"id" validate:"required"`
	Items                 []OrderItem `json:"items"`
	Status                OrderStatus `json:"status" validate:"required"`
	CreatedAt             time.Time   `json:"createdAt"`
	UpdatedAt             *time.Time  `json:"updatedAt,omitempty"`
	EstimatedTime         string      `json:"estimatedTime,omitempty"`
	EstimatedDeliveryTime string      `json:"estimatedDeliveryTime,omitempty"`
	Total                 Money       `json:"total,omitempty"`
	PaymentIntentID       string      `json:"paymentIntentId,omitempty"`
	RefundID              string      `json:"refundId,omitempty"`
	RefundStatus          string      `json:"refundStatus,omitempty"`
	RefundAmount          Money       `json:"refundAmount,omitempty"`
	RefundedAt            *time.Time  `json:"refundedAt,omitempty"`
}

// PlaceOrderItem is one cart line as sent to POST /order.
type PlaceOrderItem struct {
	MenuItemID ID                 `json:"menuItemId"`
	Quantity   int                `json:"quantity"`
	Modifiers  []SelectedModifier `json:"modifiers,omitempty"`
	Note       string             `json:"note,omitempty"`
}

// PlaceOrderRequest is the POST /order payload.
type PlaceOrderRequest struct {
	UserID          ID               `json:"userId"`
	Items           []PlaceOrderItem `json:"items"`
	PaymentMethodID ID               `json:"paymentMethodId,omitempty"`
	AddressID       ID               `json:"addressId,omitempty"`
	PaymentIntentID string           `json:"paymentIntentId,omitempty"`
}

// PlaceOrderResult is the POST /order response.
type PlaceOrderResult struct {
	Order                Order `json:"order"`
	LoyaltyPointsEarned  int   `json:"loyaltyPointsEarned"`
	LoyaltyPointsBalance *int  `json:"loyaltyPointsBalance,omitempty"`
}

// CheckoutInput is what the caller supplies beyond the cart contents.
type CheckoutInput struct {
	PaymentMethodID ID     `json:"paymentMethodId"`
	AddressID       ID     `json:"addressId"`
	PaymentIntentID string `json:"paymentIntentId,omitempty"`
}
