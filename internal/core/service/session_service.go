package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/weyoung/user-center/internal/core/credential"
	"github.com/weyoung/user-center/internal/core/domain"
	"github.com/weyoung/user-center/internal/core/ports"
)

// SessionService issues, resolves, and invalidates sessions. The token handed
// to callers is an HS256-signed envelope around an opaque session id; the
// session's validity lives server-side in the store, so logout kills a token
// immediately regardless of its signed expiry.
type SessionService struct {
	repo       ports.UserRepository
	store      ports.SessionStore
	codec      *credential.Codec
	signingKey []byte
	sessionTTL time.Duration
	logger     zerolog.Logger
}

func NewSessionService(
	repo ports.UserRepository,
	store ports.SessionStore,
	codec *credential.Codec,
	signingKey string,
	sessionTTL time.Duration,
	logger zerolog.Logger,
) *SessionService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &SessionService{
		repo:       repo,
		store:      store,
		codec:      codec,
		signingKey: []byte(signingKey),
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// Login verifies credentials in a single combined lookup and issues a new
// session on success. A mismatch on account or password yields the same
// undifferentiated error.
func (s *SessionService) Login(ctx context.Context, account, password string) (*ports.LoginResult, error) {
	if account == "" || password == "" {
		return nil, fmt.Errorf("%w: account and password must not be blank", domain.ErrInvalidArgument)
	}
	if len(account) < minAccountLen {
		return nil, fmt.Errorf("%w: account must be at least %d characters", domain.ErrInvalidArgument, minAccountLen)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidArgument, minPasswordLen)
	}

	user, err := s.repo.FindByAccountAndDigest(ctx, account, s.codec.Digest(password))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Info().Str("account", account).Msg("login failed, account cannot match password")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: find by account and digest: %v", domain.ErrSystemFailure, err)
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:       newSessionID(),
		UserID:   user.ID,
		Account:  user.Account,
		Role:     user.Role,
		IssuedAt: now,
	}
	if err := s.store.Put(ctx, session, s.sessionTTL); err != nil {
		return nil, fmt.Errorf("%w: store session: %v", domain.ErrSystemFailure, err)
	}

	token, err := s.signToken(session.ID, now)
	if err != nil {
		return nil, fmt.Errorf("%w: sign token: %v", domain.ErrSystemFailure, err)
	}

	s.logger.Info().Int64("user_id", user.ID).Str("account", user.Account).Msg("login succeeded")
	return &ports.LoginResult{Token: token, User: user, IssuedAt: now}, nil
}

// ResolveCaller maps a token to the current user record. The session snapshot
// is not trusted for identity: the user row is re-read on every call so a
// demotion or ban takes effect mid-session.
func (s *SessionService) ResolveCaller(ctx context.Context, token string) (*domain.User, error) {
	session, err := s.resolveSession(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrNotAuthenticated
		}
		return nil, fmt.Errorf("%w: find by id: %v", domain.ErrSystemFailure, err)
	}
	return user, nil
}

// ResolveCallerOptional is ResolveCaller for routes that tolerate anonymous
// callers: authentication failures come back as (nil, nil).
func (s *SessionService) ResolveCallerOptional(ctx context.Context, token string) (*domain.User, error) {
	user, err := s.ResolveCaller(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// Logout invalidates the session behind the token. Absent or malformed
// tokens are not an error: logging out while logged out succeeds.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	session, err := s.resolveSession(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			return nil
		}
		return err
	}
	if err := s.store.Delete(ctx, session.ID); err != nil {
		return fmt.Errorf("%w: delete session: %v", domain.ErrSystemFailure, err)
	}
	return nil
}

// ChangePassword swaps the stored digest after verifying the old password.
// Existing sessions stay valid under the new password.
func (s *SessionService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return fmt.Errorf("%w: new password must be at least %d characters", domain.ErrInvalidArgument, minPasswordLen)
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrNotAuthenticated
		}
		return fmt.Errorf("%w: find by id: %v", domain.ErrSystemFailure, err)
	}

	if !s.codec.Verify(oldPassword, user.PasswordDigest) {
		return fmt.Errorf("%w: old password incorrect", domain.ErrInvalidArgument)
	}

	user.PasswordDigest = s.codec.Digest(newPassword)
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("%w: update password: %v", domain.ErrSystemFailure, err)
	}

	s.logger.Info().Int64("user_id", userID).Msg("password changed")
	return nil
}

// RevokeUser deletes every live session of the user. Used when an admin bans
// or deletes an account.
func (s *SessionService) RevokeUser(ctx context.Context, userID int64) error {
	if err := s.store.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("%w: delete sessions: %v", domain.ErrSystemFailure, err)
	}
	s.logger.Info().Int64("user_id", userID).Msg("sessions revoked")
	return nil
}

// resolveSession verifies the token envelope and looks the session up in the
// store. Every verification failure collapses to ErrNotAuthenticated.
func (s *SessionService) resolveSession(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrNotAuthenticated
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.signingKey, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrNotAuthenticated
	}

	sid, _ := claims["sid"].(string)
	if sid == "" {
		return nil, domain.ErrNotAuthenticated
	}

	session, err := s.store.Get(ctx, sid)
	if err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			return nil, domain.ErrNotAuthenticated
		}
		return nil, fmt.Errorf("%w: get session: %v", domain.ErrSystemFailure, err)
	}
	return session, nil
}

func (s *SessionService) signToken(sessionID string, issuedAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sid": sessionID,
		"iat": issuedAt.Unix(),
		"exp": issuedAt.Add(s.sessionTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.signingKey)
}

// newSessionID returns a 32-hex-char random session id.
func newSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%x", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
