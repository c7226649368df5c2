package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/utafrali/RestaurantGo/internal/domain"
	"github.com/utafrali/RestaurantGo/internal/storage"
	apperrors "github.com/utafrali/RestaurantGo/pkg/errors"
	"github.com/utafrali/RestaurantGo/pkg/logger"
)

// AuthAPI is the slice of the backend client the session store needs.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*domain.AuthResponse, error)
	Register(ctx context.Context, name, email, password string) (*domain.AuthResponse, error)
	GoogleSignIn(ctx context.Context, idToken string) (*domain.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.AuthResponse, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) (string, error)
	VerifyEmail(ctx context.Context, token string) (string, error)
}

// LoginInput holds the credentials for an email login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterInput holds the parameters for creating an account.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,person_name"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

// GoogleSignInInput carries the Google ID token obtained by the UI shell.
type GoogleSignInInput struct {
	IDToken string `json:"idToken" validate:"required"`
}

type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordInput struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,password"`
}

// SessionService owns the single device session. Auth operations run one at
// a time; readers never block on the network.
type SessionService struct {
	api    AuthAPI
	store  storage.Store
	logger *slog.Logger

	opMu sync.Mutex

	mu        sync.RWMutex
	state     domain.SessionState
	session   domain.Session
	loading   bool
	err       error
	expiresAt *time.Time

	subMu   sync.Mutex
	subs    map[int]func(domain.SessionSnapshot)
	nextSub int
}

// NewSessionService creates a session store in the unknown state. Call Load
// before serving protected content.
func NewSessionService(api AuthAPI, store storage.Store, logger *slog.Logger) *SessionService {
	return &SessionService{
		api:    api,
		store:  store,
		logger: logger,
		state:  domain.SessionUnknown,
		subs:   make(map[int]func(domain.SessionSnapshot)),
	}
}

// Load restores a persisted session. A malformed user record is removed and
// ignored; only a storage failure makes Load fail.
func (s *SessionService) Load(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.update(func() {
		s.state = domain.SessionLoading
		s.loading = true
		s.err = nil
	})

	sess, err := s.readPersisted(ctx)
	if err != nil {
		s.update(func() {
			s.state = domain.SessionUnauthenticated
			s.session = domain.Session{}
			s.loading = false
			s.err = err
		})
		return err
	}

	s.update(func() {
		s.loading = false
		if sess.Authenticated() {
			s.state = domain.SessionAuthenticated
			s.session = sess
			s.expiresAt = tokenExpiry(sess.Token)
		} else {
			s.state = domain.SessionUnauthenticated
			s.session = domain.Session{}
			s.expiresAt = nil
		}
	})
	s.logger.InfoContext(ctx, "session loaded", slog.Bool("authenticated", sess.Authenticated()))
	return nil
}

func (s *SessionService) readPersisted(ctx context.Context) (domain.Session, error) {
	var sess domain.Session

	token, _, err := s.store.Get(ctx, storage.KeyToken)
	if err != nil {
		return sess, fmt.Errorf("read token: %w", err)
	}
	if token == "" {
		return sess, nil
	}
	sess.Token = token

	refresh, _, err := s.store.Get(ctx, storage.KeyRefreshToken)
	if err != nil {
		return sess, fmt.Errorf("read refresh token: %w", err)
	}
	sess.RefreshToken = refresh

	raw, ok, err := s.store.Get(ctx, storage.KeyUser)
	if err != nil {
		return sess, fmt.Errorf("read user: %w", err)
	}
	if ok {
		var u domain.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			s.logger.WarnContext(ctx, "discarding malformed stored user", slog.String("error", err.Error()))
			if rmErr := s.store.Remove(ctx, storage.KeyUser); rmErr != nil {
				s.logger.WarnContext(ctx, "failed to remove stored user", slog.String("error", rmErr.Error()))
			}
		} else {
			sess.User = &u
		}
	}
	return sess, nil
}

// Login signs in with email and password.
func (s *SessionService) Login(ctx context.Context, in LoginInput) error {
	return s.authenticate(ctx, "login", in, &domain.User{Email: in.Email}, func() (*domain.AuthResponse, error) {
		return s.api.Login(ctx, in.Email, in.Password)
	})
}

// Register creates an account and signs in with it.
func (s *SessionService) Register(ctx context.Context, in RegisterInput) error {
	return s.authenticate(ctx, "register", in, &domain.User{Name: in.Name, Email: in.Email}, func() (*domain.AuthResponse, error) {
		return s.api.Register(ctx, in.Name, in.Email, in.Password)
	})
}

// GoogleSignIn exchanges a Google ID token for a session.
func (s *SessionService) GoogleSignIn(ctx context.Context, in GoogleSignInInput) error {
	return s.authenticate(ctx, "google_sign_in", in, nil, func() (*domain.AuthResponse, error) {
		return s.api.GoogleSignIn(ctx, in.IDToken)
	})
}

func (s *SessionService) authenticate(ctx context.Context, op string, in any, fallback *domain.User, call func() (*domain.AuthResponse, error)) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.update(func() {
		s.loading = true
		s.err = nil
	})

	if err := validateInput(in); err != nil {
		s.fail(err)
		return err
	}

	resp, err := call()
	if err != nil {
		s.fail(err)
		if !apperrors.IsLoginRequired(err) {
			s.logger.WarnContext(ctx, "authentication failed", slog.String("operation", op), slog.String("error", err.Error()))
		}
		return err
	}

	user := resp.User
	if user == nil {
		user = fallback
	}
	sess := domain.Session{Token: resp.Token, RefreshToken: resp.RefreshToken, User: user}
	if err := s.persist(ctx, sess); err != nil {
		s.fail(err)
		return err
	}
	s.apply(sess)

	ctx = logger.WithUserID(ctx, userID(user))
	logger.WithContext(ctx, s.logger).InfoContext(ctx, "signed in", slog.String("operation", op))
	return nil
}

// persist writes the session keys as one unit. A key the response leaves
// empty (refresh token, user) is removed so no value of an earlier account
// survives next to the new token.
func (s *SessionService) persist(ctx context.Context, sess domain.Session) error {
	values := map[string]string{storage.KeyToken: sess.Token}
	var stale []string
	if sess.RefreshToken != "" {
		values[storage.KeyRefreshToken] = sess.RefreshToken
	} else {
		stale = append(stale, storage.KeyRefreshToken)
	}
	if sess.User != nil {
		b, err := json.Marshal(sess.User)
		if err != nil {
			return fmt.Errorf("encode user: %w", err)
		}
		values[storage.KeyUser] = string(b)
	} else {
		stale = append(stale, storage.KeyUser)
	}
	if err := s.store.SetMany(ctx, values); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	if len(stale) > 0 {
		if err := s.store.RemoveMany(ctx, stale...); err != nil {
			s.logger.WarnContext(ctx, "failed to remove stale session keys",
				slog.Any("keys", stale),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}

func (s *SessionService) apply(sess domain.Session) {
	s.update(func() {
		s.state = domain.SessionAuthenticated
		s.session = sess
		s.loading = false
		s.err = nil
		s.expiresAt = tokenExpiry(sess.Token)
	})
}

func (s *SessionService) fail(err error) {
	s.update(func() {
		s.loading = false
		s.err = err
	})
}

// Logout clears persisted and in-memory session state. It cannot fail:
// storage errors are logged and memory is cleared regardless.
func (s *SessionService) Logout(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.logout(ctx, nil)
}

func (s *SessionService) logout(ctx context.Context, cause error) {
	if err := s.store.RemoveMany(ctx, storage.SessionKeys...); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear persisted session", slog.String("error", err.Error()))
	}
	s.update(func() {
		s.state = domain.SessionUnauthenticated
		s.session = domain.Session{}
		s.loading = false
		s.err = cause
		s.expiresAt = nil
	})
	s.logger.InfoContext(ctx, "signed out")
}

// RefreshToken exchanges the refresh token for a new session. On any failure
// the session is logged out before the error is returned.
func (s *SessionService) RefreshToken(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.RLock()
	current := s.session
	s.mu.RUnlock()

	refresh := current.RefreshToken
	if refresh == "" {
		stored, _, err := s.store.Get(ctx, storage.KeyRefreshToken)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to read refresh token", slog.String("error", err.Error()))
		}
		refresh = stored
	}
	if refresh == "" {
		err := apperrors.LoginRequired()
		s.logout(ctx, err)
		return err
	}

	s.update(func() { s.loading = true })

	resp, err := s.api.Refresh(ctx, refresh)
	if err != nil {
		s.logger.WarnContext(ctx, "token refresh failed",
			slog.String("refresh_token", logger.MaskToken(refresh)),
			slog.String("error", err.Error()),
		)
		s.logout(ctx, err)
		return err
	}

	sess := domain.Session{Token: resp.Token, RefreshToken: resp.RefreshToken, User: resp.User}
	if sess.RefreshToken == "" {
		sess.RefreshToken = refresh
	}
	if sess.User == nil {
		sess.User = current.User
	}
	if err := s.persist(ctx, sess); err != nil {
		s.logout(ctx, err)
		return err
	}
	s.apply(sess)
	return nil
}

// ClearError empties the error slot.
func (s *SessionService) ClearError() {
	s.update(func() { s.err = nil })
}

// UpdateUser applies fn to a copy of the signed-in user, persists it and then
// publishes it.
func (s *SessionService) UpdateUser(ctx context.Context, fn func(u *domain.User)) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.RLock()
	sess := s.session
	s.mu.RUnlock()
	if !sess.Authenticated() {
		return apperrors.LoginRequired()
	}

	u := copyUser(sess.User)
	if u == nil {
		u = &domain.User{}
	}
	fn(u)
	if err := storage.SetJSON(ctx, s.store, storage.KeyUser, u); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	s.update(func() { s.session.User = u })
	return nil
}

// ForgotPassword asks the backend to mail a reset link.
func (s *SessionService) ForgotPassword(ctx context.Context, in ForgotPasswordInput) (string, error) {
	if err := validateInput(in); err != nil {
		return "", err
	}
	return s.api.ForgotPassword(ctx, in.Email)
}

// ResetPassword sets a new password using the mailed token.
func (s *SessionService) ResetPassword(ctx context.Context, in ResetPasswordInput) (string, error) {
	if err := validateInput(in); err != nil {
		return "", err
	}
	return s.api.ResetPassword(ctx, in.Token, in.NewPassword)
}

func (s *SessionService) VerifyEmail(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", apperrors.InvalidInput("token is required")
	}
	return s.api.VerifyEmail(ctx, token)
}

// Snapshot returns a copy of the current state.
func (s *SessionService) Snapshot() domain.SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *SessionService) snapshotLocked() domain.SessionSnapshot {
	snap := domain.SessionSnapshot{
		State:     s.state,
		User:      copyUser(s.session.User),
		Token:     s.session.Token,
		IsLoading: s.loading,
		Error:     errorMessage(s.err),
	}
	if s.expiresAt != nil {
		t := *s.expiresAt
		snap.ExpiresAt = &t
	}
	return snap
}

func (s *SessionService) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyUser(s.session.User)
}

func (s *SessionService) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

func (s *SessionService) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the error of the last failed operation, if any.
func (s *SessionService) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *SessionService) State() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// NeedsRefresh reports whether the access token expires within d. Tokens
// without a readable exp claim never need a refresh.
func (s *SessionService) NeedsRefresh(d time.Duration) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != domain.SessionAuthenticated || s.expiresAt == nil {
		return false
	}
	return time.Until(*s.expiresAt) < d
}

// Subscribe registers fn to run after every state change. The returned func
// removes it.
func (s *SessionService) Subscribe(fn func(domain.SessionSnapshot)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *SessionService) update(fn func()) {
	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.subMu.Lock()
	subs := make([]func(domain.SessionSnapshot), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.subMu.Unlock()

	for _, sub := range subs {
		sub(snap)
	}
}

// tokenExpiry reads the exp claim without verifying the signature. The
// backend remains the authority on validity.
func tokenExpiry(token string) *time.Time {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	t := claims.ExpiresAt.Time
	return &t
}

func copyUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	if u.LoyaltyPoints != nil {
		p := *u.LoyaltyPoints
		c.LoyaltyPoints = &p
	}
	return &c
}

func userID(u *domain.User) string {
	if u == nil {
		return ""
	}
	return u.ID.String()
}
