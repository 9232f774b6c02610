package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/weyoung/user-center/internal/core/credential"
	"github.com/weyoung/user-center/internal/core/domain"
	"github.com/weyoung/user-center/internal/core/ports"
)

const (
	minAccountLen  = 4
	minPasswordLen = 8
)

// UserService implements registration and the admin-side user operations.
type UserService struct {
	repo   ports.UserRepository
	codec  *credential.Codec
	locks  *accountLocks
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, codec *credential.Codec, logger zerolog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		codec:  codec,
		locks:  newAccountLocks(),
		logger: logger,
	}
}

// Register validates the (account, password, confirmPassword) triple, then
// serializes on the account name so the uniqueness check and the insert
// cannot race against a concurrent registration for the same account.
func (s *UserService) Register(ctx context.Context, account, password, confirmPassword string) (int64, error) {
	if account == "" || password == "" || confirmPassword == "" {
		return 0, fmt.Errorf("%w: account and passwords must not be blank", domain.ErrInvalidArgument)
	}
	if len(account) < minAccountLen {
		return 0, fmt.Errorf("%w: account must be at least %d characters", domain.ErrInvalidArgument, minAccountLen)
	}
	if len(password) < minPasswordLen || len(confirmPassword) < minPasswordLen {
		return 0, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidArgument, minPasswordLen)
	}
	if password != confirmPassword {
		return 0, fmt.Errorf("%w: passwords do not match", domain.ErrInvalidArgument)
	}

	s.locks.Lock(account)
	defer s.locks.Unlock(account)

	count, err := s.repo.CountByAccount(ctx, account)
	if err != nil {
		return 0, fmt.Errorf("%w: count by account: %v", domain.ErrSystemFailure, err)
	}
	if count > 0 {
		return 0, domain.ErrDuplicateAccount
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:             newUserID(),
		Account:        account,
		DisplayName:    account,
		PasswordDigest: s.codec.Digest(password),
		Role:           domain.RoleUser,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// Past the uniqueness check an insert failure is fatal: surface it,
	// never retry.
	if err := s.repo.Insert(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("account", account).Msg("failed to persist new user")
		return 0, fmt.Errorf("%w: insert user: %v", domain.ErrSystemFailure, err)
	}

	s.logger.Info().Int64("user_id", user.ID).Str("account", account).Msg("user registered")
	return user.ID, nil
}

// Create is the admin-side user creation: the caller chooses the role and
// profile fields, and the same per-account uniqueness discipline applies.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	if input.Account == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: account and password must not be blank", domain.ErrInvalidArgument)
	}
	if len(input.Account) < minAccountLen {
		return nil, fmt.Errorf("%w: account must be at least %d characters", domain.ErrInvalidArgument, minAccountLen)
	}
	if len(input.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidArgument, minPasswordLen)
	}
	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidArgument, input.Role)
	}

	s.locks.Lock(input.Account)
	defer s.locks.Unlock(input.Account)

	count, err := s.repo.CountByAccount(ctx, input.Account)
	if err != nil {
		return nil, fmt.Errorf("%w: count by account: %v", domain.ErrSystemFailure, err)
	}
	if count > 0 {
		return nil, domain.ErrDuplicateAccount
	}

	displayName := input.DisplayName
	if displayName == "" {
		displayName = input.Account
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:             newUserID(),
		Account:        input.Account,
		DisplayName:    displayName,
		PasswordDigest: s.codec.Digest(input.Password),
		Role:           role,
		AvatarURL:      input.AvatarURL,
		Profile:        input.Profile,
		Tags:           input.Tags,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Insert(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: insert user: %v", domain.ErrSystemFailure, err)
	}

	s.logger.Info().Int64("user_id", user.ID).Str("account", user.Account).Str("role", string(role)).Msg("user created by admin")
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Update mutates the caller-supplied fields only. Account and id are
// immutable after creation.
func (s *UserService) Update(ctx context.Context, id int64, input ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		user.DisplayName = *input.DisplayName
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidArgument, *input.Role)
		}
		user.Role = *input.Role
	}
	if input.AvatarURL != nil {
		user.AvatarURL = *input.AvatarURL
	}
	if input.Profile != nil {
		user.Profile = *input.Profile
	}
	if input.Tags != nil {
		user.Tags = input.Tags
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: update user: %v", domain.ErrSystemFailure, err)
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

func (s *UserService) List(ctx context.Context, page, limit int) ([]domain.User, int64, error) {
	return s.repo.List(ctx, page, limit)
}

// newUserID generates a positive random 63-bit id. The unique index on the
// account column is the authoritative uniqueness guard; id collisions are
// rejected by the _id index on insert.
func newUserID() int64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.BigEndian.Uint64(b[:]) &^ (1 << 63))
}
