package domain

import "time"

// Role is the user's role on the backend.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the profile returned alongside a session.
type User struct {
	ID            ID         `json:"id,omitempty"`
	Name          string     `json:"name,omitempty"`
	Email         string     `json:"email" validate:"required"`
	Role          Role       `json:"role,omitempty"`
	LoyaltyPoints *int       `json:"loyaltyPoints,omitempty"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
}

// IsAdmin reports whether the user may use admin endpoints.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// AuthResponse is returned by login, register, Google sign-in and refresh.
type AuthResponse struct {
	Message      string `json:"message,omitempty"`
	Token        string `json:"token" validate:"required"`
	RefreshToken string `json:"refreshToken,omitempty"`
	User         *User  `json:"user,omitempty"`
}

// SessionState is the lifecycle state of the device session.
type SessionState string

const (
	SessionUnknown         SessionState = "unknown"
	SessionLoading         SessionState = "loading"
	SessionAuthenticated   SessionState = "authenticated"
	SessionUnauthenticated SessionState = "unauthenticated"
)

// Session is the persisted credential set of the single device session.
type Session struct {
	Token        string
	RefreshToken string
	User         *User
}

// Authenticated reports whether the session carries a bearer token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// SessionSnapshot is a point-in-time, copy-safe view of the session store.
type SessionSnapshot struct {
	State     SessionState `json:"state"`
	User      *User        `json:"user"`
	Token     string       `json:"-"`
	IsLoading bool         `json:"isLoading"`
	Error     string       `json:"error,omitempty"`
	ExpiresAt *time.Time   `json:"expiresAt,omitempty"`
}

// Authenticated reports whether the snapshot was taken while signed in.
func (s SessionSnapshot) Authenticated() bool {
	return s.State == SessionAuthenticated && s.Token != ""
}
