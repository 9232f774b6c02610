package ports

import (
	"context"
	"time"

	"github.com/weyoung/user-center/internal/core/domain"
)

// SessionStore holds live sessions keyed by opaque session id. It must be
// safe for concurrent issuance, lookup, and invalidation.
type SessionStore interface {
	// Put stores the session and indexes it under its user id. The session
	// expires after ttl.
	Put(ctx context.Context, session *domain.Session, ttl time.Duration) error
	// Get returns the session, or domain.ErrNotAuthenticated when the id is
	// unknown or expired.
	Get(ctx context.Context, id string) (*domain.Session, error)
	// Delete removes a session. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error
	// DeleteByUser removes every live session belonging to the user.
	DeleteByUser(ctx context.Context, userID int64) error
}
