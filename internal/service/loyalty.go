package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/utafrali/RestaurantGo/internal/domain"
	apperrors "github.com/utafrali/RestaurantGo/pkg/errors"
	"github.com/utafrali/RestaurantGo/pkg/pagination"
)

type LoyaltyAPI interface {
	RedeemLoyaltyCode(ctx context.Context, code string) (*domain.RedeemResult, error)
	LoyaltyTokens(ctx context.Context, activeOnly bool, p pagination.Params) ([]domain.LoyaltyToken, error)
	CreateLoyaltyToken(ctx context.Context, req domain.CreateLoyaltyTokenRequest) (*domain.LoyaltyToken, error)
	DeleteLoyaltyToken(ctx context.Context, id domain.ID) error
}

// LoyaltyService redeems QR codes for points and lets admins manage codes.
type LoyaltyService struct {
	api     LoyaltyAPI
	session SessionUpdater
	logger  *slog.Logger
}

func NewLoyaltyService(api LoyaltyAPI, session SessionUpdater, logger *slog.Logger) *LoyaltyService {
	return &LoyaltyService{api: api, session: session, logger: logger}
}

// NormalizeCode trims and upper-cases a scanned or typed code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Redeem credits the points behind code and stores the new balance on the
// session user.
func (s *LoyaltyService) Redeem(ctx context.Context, code string) (*domain.RedeemResult, error) {
	if _, err := requireAuth(s.session); err != nil {
		return nil, err
	}
	code = NormalizeCode(code)
	if code == "" {
		return nil, apperrors.InvalidInput("code is required")
	}

	res, err := s.api.RedeemLoyaltyCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if res.Success {
		balance := res.NewBalance
		if err := s.session.UpdateUser(ctx, func(u *domain.User) { u.LoyaltyPoints = &balance }); err != nil {
			s.logger.WarnContext(ctx, "failed to store loyalty balance", slog.String("error", err.Error()))
		}
	}
	return res, nil
}

// Tokens lists QR tokens. Admin only.
func (s *LoyaltyService) Tokens(ctx context.Context, activeOnly bool, p pagination.Params) ([]domain.LoyaltyToken, error) {
	if _, err := requireAdmin(s.session); err != nil {
		return nil, err
	}
	return s.api.LoyaltyTokens(ctx, activeOnly, p)
}

// CreateToken issues a QR token. Admin only.
func (s *LoyaltyService) CreateToken(ctx context.Context, req domain.CreateLoyaltyTokenRequest) (*domain.LoyaltyToken, error) {
	if _, err := requireAdmin(s.session); err != nil {
		return nil, err
	}
	if err := validateInput(req); err != nil {
		return nil, err
	}
	tok, err := s.api.CreateLoyaltyToken(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "loyalty token created",
		slog.String("token_id", tok.ID.String()),
		slog.Int("points", tok.Points),
	)
	return tok, nil
}

// DeleteToken deactivates a QR token. Admin only.
func (s *LoyaltyService) DeleteToken(ctx context.Context, id domain.ID) error {
	if _, err := requireAdmin(s.session); err != nil {
		return err
	}
	return s.api.DeleteLoyaltyToken(ctx, id)
}
