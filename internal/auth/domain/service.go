package domain

import (
	"context"
	"errors"
	"time"

	userdomain "github.com/smallbiznis/teampulse/internal/user/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrSessionExpired     = errors.New("session_expired")
	ErrSessionRevoked     = errors.New("session_revoked")
	ErrInvalidSession     = errors.New("invalid_session")
)

type LoginRequest struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

type LoginResult struct {
	User      userdomain.User
	RawToken  string
	ExpiresAt time.Time
}

// Identity is the authenticated caller handed to handlers by the session
// middleware: a user plus its validated role.
type Identity struct {
	User userdomain.User
}

func (i Identity) Role() userdomain.Role { return i.User.Role }

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, rawToken string) error
	Authenticate(ctx context.Context, rawToken string) (*Identity, error)
}
