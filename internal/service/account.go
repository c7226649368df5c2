package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/utafrali/RestaurantGo/internal/domain"
	apperrors "github.com/utafrali/RestaurantGo/pkg/errors"
)

// DefaultCurrency is used for payment intents that name none.
const DefaultCurrency = "eur"

type AddressAPI interface {
	Addresses(ctx context.Context) ([]domain.Address, error)
	CreateAddress(ctx context.Context, a domain.Address) (*domain.Address, error)
	UpdateAddress(ctx context.Context, id domain.ID, a domain.Address) (*domain.Address, error)
	DeleteAddress(ctx context.Context, id domain.ID) error
}

// AddressService manages saved delivery addresses.
type AddressService struct {
	api     AddressAPI
	session SessionReader
}

func NewAddressService(api AddressAPI, session SessionReader) *AddressService {
	return &AddressService{api: api, session: session}
}

func (s *AddressService) List(ctx context.Context) ([]domain.Address, error) {
	if _, err := requireAuth(s.session); err != nil {
		return nil, err
	}
	return s.api.Addresses(ctx)
}

func (s *AddressService) Create(ctx context.Context, a domain.Address) (*domain.Address, error) {
	if _, err := requireAuth(s.session); err != nil {
		return nil, err
	}
	if err := validateInput(a); err != nil {
		return nil, err
	}
	return s.api.CreateAddress(ctx, a)
}

func (s *AddressService) Update(ctx context.Context, id domain.ID, a domain.Address) (*domain.Address, error) {
	if _, err := requireAuth(s.session); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, apperrors.InvalidInput("address id is required")
	}
	if err := validateInput(a); err != nil {
		return nil, err
	}
	return s.api.UpdateAddress(ctx, id, a)
}

func (s *AddressService) Delete(ctx context.Context, id domain.ID) error {
	if _, err := requireAuth(s.session); err != nil {
		return err
	}
	return s.api.DeleteAddress(ctx, id)
}

type PaymentAPI interface {
	PaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error)
	AddPaymentMethod(ctx context.Context, pm domain.PaymentMethod) (*domain.PaymentMethod, error)
	DeletePaymentMethod(ctx context.Context, id domain.ID) error
	CreatePaymentIntent(ctx context.Context, req domain.PaymentIntentRequest) (*domain.PaymentIntent, error)
}

// CartTotaler yields the current cart total.
type CartTotaler interface {
	Total() domain.Money
}

// PaymentService manages saved payment methods and provider intents. Only
// display data (brand, last four digits, expiry) is handled here.
type PaymentService struct {
	api     PaymentAPI
	session SessionReader
	cart    CartTotaler
	logger  *slog.Logger
}

func NewPaymentService(api PaymentAPI, session SessionReader, cart CartTotaler, logger *slog.Logger) *PaymentService {
	return &PaymentService{api: api, session: session, cart: cart, logger: logger}
}

func (s *PaymentService) Methods(ctx context.Context) ([]domain.PaymentMethod, error) {
	if _, err := requireAuth(s.session); err != nil {
		return nil, err
	}
	return s.api.PaymentMethods(ctx)
}

func (s *PaymentService) Add(ctx context.Context, pm domain.PaymentMethod) (*domain.PaymentMethod, error) {
	if _, err := requireAuth(s.session); err != nil {
		return nil, err
	}
	if err := validateInput(pm); err != nil {
		return nil, err
	}
	return s.api.AddPaymentMethod(ctx, pm)
}

func (s *PaymentService) Delete(ctx context.Context, id domain.ID) error {
	if _, err := requireAuth(s.session); err != nil {
		return err
	}
	return s.api.DeletePaymentMethod(ctx, id)
}

// CreateIntent asks for a payment intent. A zero amount charges the cart
// total; an empty currency means DefaultCurrency.
func (s *PaymentService) CreateIntent(ctx context.Context, req domain.PaymentIntentRequest) (*domain.PaymentIntent, error) {
	if _, err := requireAuth(s.session); err != nil {
		return nil, err
	}
	if req.Amount == 0 && s.cart != nil {
		req.Amount = s.cart.Total()
	}
	req.Currency = strings.ToLower(strings.TrimSpace(req.Currency))
	if req.Currency == "" {
		req.Currency = DefaultCurrency
	}
	if err := validateInput(req); err != nil {
		return nil, err
	}

	intent, err := s.api.CreatePaymentIntent(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "payment intent created",
		slog.String("amount", req.Amount.String()),
		slog.String("currency", req.Currency),
	)
	return intent, nil
}

type PrivacyConsentAPI interface {
	PrivacyConsent(ctx context.Context) (*domain.PrivacyConsent, error)
	UpdatePrivacyConsent(ctx context.Context, pc domain.PrivacyConsent) error
}

// PrivacyConsentService reads and writes the consent flags stored on the
// backend. They are separate from the local cookie record.
type PrivacyConsentService struct {
	api     PrivacyConsentAPI
	session SessionReader
}

func NewPrivacyConsentService(api PrivacyConsentAPI, session SessionReader) *PrivacyConsentService {
	return &PrivacyConsentService{api: api, session: session}
}

func (s *PrivacyConsentService) Get(ctx context.Context) (*domain.PrivacyConsent, error) {
	if _, err := requireAuth(s.session); err != nil {
		return nil, err
	}
	return s.api.PrivacyConsent(ctx)
}

func (s *PrivacyConsentService) Update(ctx context.Context, pc domain.PrivacyConsent) error {
	if _, err := requireAuth(s.session); err != nil {
		return err
	}
	return s.api.UpdatePrivacyConsent(ctx, pc)
}
