package ports

import (
	"context"
	"time"

	"github.com/weyoung/user-center/internal/core/domain"
)

// LoginResult is what a successful login hands back to the transport layer.
type LoginResult struct {
	Token    string
	User     *domain.User
	IssuedAt time.Time
}

// SessionService is the session manager: it issues, resolves, and
// invalidates sessions, and owns the password-change flow.
type SessionService interface {
	Login(ctx context.Context, account, password string) (*LoginResult, error)

	// ResolveCaller maps a caller-supplied token to the current user record
	// via a fresh repository read. Any failure is domain.ErrNotAuthenticated.
	ResolveCaller(ctx context.Context, token string) (*domain.User, error)

	// ResolveCallerOptional is ResolveCaller that returns (nil, nil) instead
	// of an error when no valid session exists.
	ResolveCallerOptional(ctx context.Context, token string) (*domain.User, error)

	// Logout invalidates the session behind the token. Idempotent: an
	// absent or invalid token still succeeds.
	Logout(ctx context.Context, token string) error

	// ChangePassword verifies oldPassword against the stored digest and
	// persists the digest of newPassword. Existing sessions stay valid.
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error

	// RevokeUser deletes every live session of the user.
	RevokeUser(ctx context.Context, userID int64) error
}
