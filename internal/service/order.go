package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/RestaurantGo/internal/domain"
	"github.com/utafrali/RestaurantGo/internal/event"
	apperrors "github.com/utafrali/RestaurantGo/pkg/errors"
	"github.com/utafrali/RestaurantGo/pkg/logger"
)

type OrderAPI interface {
	UserOrders(ctx context.Context, userID domain.ID) ([]domain.Order, error)
	AllOrders(ctx context.Context) ([]domain.Order, error)
	Order(ctx context.Context, id domain.ID) (*domain.Order, error)
	PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (*domain.PlaceOrderResult, error)
	UpdateOrderStatus(ctx context.Context, id domain.ID, status domain.OrderStatus) error
	CancelOrder(ctx context.Context, id domain.ID) error
	MinOrderValue(ctx context.Context) (domain.Money, error)
}

// CartSource is the cart as seen by checkout.
type CartSource interface {
	Items() []domain.CartLine
	RemoveOrdered(ctx context.Context, ordered []domain.CartLine) domain.CartSnapshot
}

// SessionUpdater reads the session and rewrites the signed-in user.
type SessionUpdater interface {
	SessionReader
	UpdateUser(ctx context.Context, fn func(u *domain.User)) error
}

// OrderService places and manages orders for the signed-in user.
type OrderService struct {
	api       OrderAPI
	cart      CartSource
	session   SessionUpdater
	analytics *event.Analytics
	logger    *slog.Logger
}

func NewOrderService(api OrderAPI, cart CartSource, session SessionUpdater, analytics *event.Analytics, logger *slog.Logger) *OrderService {
	return &OrderService{
		api:       api,
		cart:      cart,
		session:   session,
		analytics: analytics,
		logger:    logger,
	}
}

// PlaceOrder submits the cart. On success the submitted lines leave the cart
// (items added while the request was in flight stay) and the returned
// loyalty balance is stored on the session user.
func (s *OrderService) PlaceOrder(ctx context.Context, in domain.CheckoutInput) (*domain.PlaceOrderResult, error) {
	snap, err := requireAuth(s.session)
	if err != nil {
		return nil, err
	}
	if snap.User == nil || snap.User.ID == "" {
		return nil, apperrors.Unauthorized("user profile is incomplete, please sign in again")
	}

	lines := s.cart.Items()
	if len(lines) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}
	total := totalOf(lines)

	minValue, err := s.api.MinOrderValue(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to fetch minimum order value", slog.String("error", err.Error()))
		minValue = 0
	}
	if total < minValue {
		return nil, apperrors.InvalidInput(fmt.Sprintf("minimum order value is %s", minValue))
	}

	req := domain.PlaceOrderRequest{
		UserID:          snap.User.ID,
		Items:           make([]domain.PlaceOrderItem, 0, len(lines)),
		PaymentMethodID: in.PaymentMethodID,
		AddressID:       in.AddressID,
		PaymentIntentID: in.PaymentIntentID,
	}
	for _, l := range lines {
		req.Items = append(req.Items, domain.PlaceOrderItem{
			MenuItemID: l.MenuItemID,
			Quantity:   l.Quantity,
			Modifiers:  l.Modifiers,
			Note:       l.Note,
		})
	}

	res, err := s.api.PlaceOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	s.cart.RemoveOrdered(ctx, lines)
	if res.LoyaltyPointsBalance != nil {
		balance := *res.LoyaltyPointsBalance
		if err := s.session.UpdateUser(ctx, func(u *domain.User) { u.LoyaltyPoints = &balance }); err != nil {
			s.logger.WarnContext(ctx, "failed to store loyalty balance", slog.String("error", err.Error()))
		}
	}
	s.analytics.OrderPlaced(ctx, res.Order.ID, countOf(lines), total)

	ctx = logger.WithUserID(ctx, snap.User.ID.String())
	logger.WithContext(ctx, s.logger).InfoContext(ctx, "order placed",
		slog.String("order_id", res.Order.ID.String()),
		slog.Int("items", len(lines)),
		slog.String("total", total.String()),
		slog.Int("loyalty_points_earned", res.LoyaltyPointsEarned),
	)
	return res, nil
}

// Orders lists the signed-in user's orders.
func (s *OrderService) Orders(ctx context.Context) ([]domain.Order, error) {
	snap, err := requireAuth(s.session)
	if err != nil {
		return nil, err
	}
	if snap.User == nil || snap.User.ID == "" {
		return nil, apperrors.Unauthorized("user profile is incomplete, please sign in again")
	}
	return s.api.UserOrders(ctx, snap.User.ID)
}

func (s *OrderService) Order(ctx context.Context, id domain.ID) (*domain.Order, error) {
	if _, err := requireAuth(s.session); err != nil {
		return nil, err
	}
	return s.api.Order(ctx, id)
}

// Cancel cancels an order that the kitchen has not finished yet.
func (s *OrderService) Cancel(ctx context.Context, id domain.ID) error {
	if _, err := requireAuth(s.session); err != nil {
		return err
	}
	if err := s.api.CancelOrder(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "order cancelled", slog.String("order_id", id.String()))
	return nil
}

// AllOrders lists every order. Admin only.
func (s *OrderService) AllOrders(ctx context.Context) ([]domain.Order, error) {
	if _, err := requireAdmin(s.session); err != nil {
		return nil, err
	}
	return s.api.AllOrders(ctx)
}

// UpdateStatus moves an order to status. Admin only.
func (s *OrderService) UpdateStatus(ctx context.Context, id domain.ID, status domain.OrderStatus) error {
	if !status.Valid() {
		return apperrors.InvalidInput(fmt.Sprintf("unknown order status %q", status))
	}
	if _, err := requireAdmin(s.session); err != nil {
		return err
	}
	return s.api.UpdateOrderStatus(ctx, id, status)
}

// MinOrderValue is the smallest cart total checkout accepts.
func (s *OrderService) MinOrderValue(ctx context.Context) (domain.Money, error) {
	return s.api.MinOrderValue(ctx)
}

func requireAuth(session SessionReader) (domain.SessionSnapshot, error) {
	snap := session.Snapshot()
	if !snap.Authenticated() {
		return snap, apperrors.LoginRequired()
	}
	return snap, nil
}

func requireAdmin(session SessionReader) (domain.SessionSnapshot, error) {
	snap, err := requireAuth(session)
	if err != nil {
		return snap, err
	}
	if !snap.User.IsAdmin() {
		return snap, apperrors.Forbidden("admin role required")
	}
	return snap, nil
}
