package ports

import (
	"context"

	"github.com/weyoung/user-center/internal/core/domain"
)

// CreateUserInput is the admin-side user creation payload.
type CreateUserInput struct {
	Account     string
	Password    string
	DisplayName string
	Role        domain.Role
	AvatarURL   string
	Profile     string
	Tags        []string
}

// UpdateUserInput carries the mutable fields of a user record. Nil pointers
// leave the corresponding field unchanged; account and id are immutable.
type UpdateUserInput struct {
	DisplayName *string
	Role        *domain.Role
	AvatarURL   *string
	Profile     *string
	Tags        []string
}

// UserService covers registration and the admin-side user operations.
type UserService interface {
	// Register validates the triple, serializes per-account, enforces
	// uniqueness, and persists a new user with role "user". Returns the
	// generated id.
	Register(ctx context.Context, account, password, confirmPassword string) (int64, error)

	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, page, limit int) ([]domain.User, int64, error)
}
