package service

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/utafrali/RestaurantGo/internal/domain"
	"github.com/utafrali/RestaurantGo/internal/storage/memory"
	"github.com/utafrali/RestaurantGo/pkg/pagination"
)

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// flakyStore is a memory store whose operations can be made to fail.
type flakyStore struct {
	*memory.Store

	mu         sync.Mutex
	getErr     error
	setErr     error
	removeErr  error
	setManyN   int
	removeKeys []string
}

func newFlakyStore() *flakyStore {
	return &flakyStore{Store: memory.New()}
}

func (s *flakyStore) fail(get, set, remove error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getErr, s.setErr, s.removeErr = get, set, remove
}

func (s *flakyStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	err := s.getErr
	s.mu.Unlock()
	if err != nil {
		return "", false, err
	}
	return s.Store.Get(ctx, key)
}

func (s *flakyStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	err := s.setErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.Store.Set(ctx, key, value)
}

func (s *flakyStore) SetMany(ctx context.Context, values map[string]string) error {
	s.mu.Lock()
	err := s.setErr
	s.setManyN++
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.Store.SetMany(ctx, values)
}

func (s *flakyStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	err := s.removeErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.Store.Remove(ctx, key)
}

func (s *flakyStore) RemoveMany(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	err := s.removeErr
	s.removeKeys = append(s.removeKeys, keys...)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.Store.RemoveMany(ctx, keys...)
}

// staticSession is a fixed SessionReader/SessionUpdater.
type staticSession struct {
	mu   sync.Mutex
	snap domain.SessionSnapshot
	err  error
}

func signedIn(id domain.ID, role domain.Role) *staticSession {
	return &staticSession{snap: domain.SessionSnapshot{
		State: domain.SessionAuthenticated,
		Token: "tok-" + id.String(),
		User:  &domain.User{ID: id, Email: id.String() + "@example.com", Role: role},
	}}
}

func signedOut() *staticSession {
	return &staticSession{snap: domain.SessionSnapshot{State: domain.SessionUnauthenticated}}
}

func (s *staticSession) Snapshot() domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

func (s *staticSession) UpdateUser(_ context.Context, fn func(u *domain.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	u := copyUser(s.snap.User)
	fn(u)
	s.snap.User = u
	return nil
}

func (s *staticSession) set(snap domain.SessionSnapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

func intPtr(v int) *int { return &v }

// --- Mock APIs ---

type mockAuthAPI struct {
	mock.Mock
}

func (m *mockAuthAPI) auth(args mock.Arguments) (*domain.AuthResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResponse), args.Error(1)
}

func (m *mockAuthAPI) Login(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
	return m.auth(m.Called(ctx, email, password))
}

func (m *mockAuthAPI) Register(ctx context.Context, name, email, password string) (*domain.AuthResponse, error) {
	return m.auth(m.Called(ctx, name, email, password))
}

func (m *mockAuthAPI) GoogleSignIn(ctx context.Context, idToken string) (*domain.AuthResponse, error) {
	return m.auth(m.Called(ctx, idToken))
}

func (m *mockAuthAPI) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResponse, error) {
	return m.auth(m.Called(ctx, refreshToken))
}

func (m *mockAuthAPI) ForgotPassword(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *mockAuthAPI) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	args := m.Called(ctx, token, newPassword)
	return args.String(0), args.Error(1)
}

func (m *mockAuthAPI) VerifyEmail(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

type mockFavoritesAPI struct {
	mock.Mock
}

// Favorites returns either a fixed list or, when the expectation returns a
// func() []domain.ID, whatever that func reports at call time.
func (m *mockFavoritesAPI) Favorites(ctx context.Context) ([]domain.ID, error) {
	args := m.Called(ctx)
	switch v := args.Get(0).(type) {
	case nil:
		return nil, args.Error(1)
	case func() []domain.ID:
		return v(), args.Error(1)
	default:
		return v.([]domain.ID), args.Error(1)
	}
}

func (m *mockFavoritesAPI) AddFavorite(ctx context.Context, id domain.ID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockFavoritesAPI) RemoveFavorite(ctx context.Context, id domain.ID) error {
	return m.Called(ctx, id).Error(0)
}

type mockMenuAPI struct {
	mock.Mock
}

func (m *mockMenuAPI) Menu(ctx context.Context, lang string) (*domain.Menu, error) {
	args := m.Called(ctx, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Menu), args.Error(1)
}

func (m *mockMenuAPI) Modifiers(ctx context.Context, id domain.ID) ([]domain.Modifier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Modifier), args.Error(1)
}

type mockOrderAPI struct {
	mock.Mock
}

func (m *mockOrderAPI) orders(args mock.Arguments) ([]domain.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *mockOrderAPI) UserOrders(ctx context.Context, userID domain.ID) ([]domain.Order, error) {
	return m.orders(m.Called(ctx, userID))
}

func (m *mockOrderAPI) AllOrders(ctx context.Context) ([]domain.Order, error) {
	return m.orders(m.Called(ctx))
}

func (m *mockOrderAPI) Order(ctx context.Context, id domain.ID) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderAPI) PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (*domain.PlaceOrderResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PlaceOrderResult), args.Error(1)
}

func (m *mockOrderAPI) UpdateOrderStatus(ctx context.Context, id domain.ID, status domain.OrderStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockOrderAPI) CancelOrder(ctx context.Context, id domain.ID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockOrderAPI) MinOrderValue(ctx context.Context) (domain.Money, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Money), args.Error(1)
}

type mockTrackingAPI struct {
	mock.Mock
}

func (m *mockTrackingAPI) Track(ctx context.Context, id domain.ID) (*domain.TrackingInfo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrackingInfo), args.Error(1)
}

type mockAccountAPI struct {
	mock.Mock
}

func (m *mockAccountAPI) Addresses(ctx context.Context) ([]domain.Address, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Address), args.Error(1)
}

func (m *mockAccountAPI) CreateAddress(ctx context.Context, a domain.Address) (*domain.Address, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Address), args.Error(1)
}

func (m *mockAccountAPI) UpdateAddress(ctx context.Context, id domain.ID, a domain.Address) (*domain.Address, error) {
	args := m.Called(ctx, id, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Address), args.Error(1)
}

func (m *mockAccountAPI) DeleteAddress(ctx context.Context, id domain.ID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAccountAPI) PaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentMethod), args.Error(1)
}

func (m *mockAccountAPI) AddPaymentMethod(ctx context.Context, pm domain.PaymentMethod) (*domain.PaymentMethod, error) {
	args := m.Called(ctx, pm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentMethod), args.Error(1)
}

func (m *mockAccountAPI) DeletePaymentMethod(ctx context.Context, id domain.ID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAccountAPI) CreatePaymentIntent(ctx context.Context, req domain.PaymentIntentRequest) (*domain.PaymentIntent, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentIntent), args.Error(1)
}

func (m *mockAccountAPI) PrivacyConsent(ctx context.Context) (*domain.PrivacyConsent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PrivacyConsent), args.Error(1)
}

func (m *mockAccountAPI) UpdatePrivacyConsent(ctx context.Context, pc domain.PrivacyConsent) error {
	return m.Called(ctx, pc).Error(0)
}

func (m *mockAccountAPI) Notifications(ctx context.Context, p pagination.Params) (*domain.NotificationPage, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationPage), args.Error(1)
}

func (m *mockAccountAPI) MarkNotificationOpened(ctx context.Context, id domain.ID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAccountAPI) RedeemLoyaltyCode(ctx context.Context, code string) (*domain.RedeemResult, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RedeemResult), args.Error(1)
}

func (m *mockAccountAPI) LoyaltyTokens(ctx context.Context, activeOnly bool, p pagination.Params) ([]domain.LoyaltyToken, error) {
	args := m.Called(ctx, activeOnly, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LoyaltyToken), args.Error(1)
}

func (m *mockAccountAPI) CreateLoyaltyToken(ctx context.Context, req domain.CreateLoyaltyTokenRequest) (*domain.LoyaltyToken, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoyaltyToken), args.Error(1)
}

func (m *mockAccountAPI) DeleteLoyaltyToken(ctx context.Context, id domain.ID) error {
	return m.Called(ctx, id).Error(0)
}
