package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/utafrali/RestaurantGo/internal/domain"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
	var out domain.AuthResponse
	if _, err := c.call(ctx, "/auth/login", http.MethodPost, "/auth/login", credentials{email, password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*domain.AuthResponse, error) {
	var out domain.AuthResponse
	if _, err := c.call(ctx, "/auth/register", http.MethodPost, "/auth/register", registration{name, email, password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GoogleSignIn exchanges a Google ID token for a session.
func (c *Client) GoogleSignIn(ctx context.Context, idToken string) (*domain.AuthResponse, error) {
	body := map[string]string{"idToken": idToken}
	var out domain.AuthResponse
	if _, err := c.call(ctx, "/auth/google", http.MethodPost, "/auth/google", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResponse, error) {
	body := map[string]string{"refreshToken": refreshToken}
	var out domain.AuthResponse
	if _, err := c.call(ctx, "/auth/refresh", http.MethodPost, "/auth/refresh", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ForgotPassword asks the backend to mail a reset token. The reply message is
// returned for display.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	res, err := c.call(ctx, "/auth/forgot-password", http.MethodPost, "/auth/forgot-password",
		map[string]string{"email": email}, nil)
	if err != nil {
		return "", err
	}
	return res.Message, nil
}

func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	body := map[string]string{"token": token, "newPassword": newPassword}
	res, err := c.call(ctx, "/auth/reset-password", http.MethodPost, "/auth/reset-password", body, nil)
	if err != nil {
		return "", err
	}
	return res.Message, nil
}

func (c *Client) VerifyEmail(ctx context.Context, token string) (string, error) {
	path := "/auth/verify-email?" + url.Values{"token": {token}}.Encode()
	res, err := c.call(ctx, "/auth/verify-email", http.MethodGet, path, nil, nil)
	if err != nil {
		return "", err
	}
	return res.Message, nil
}
