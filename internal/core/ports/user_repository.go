package ports

import (
	"context"

	"github.com/weyoung/user-center/internal/core/domain"
)

// UserRepository defines the persistence contract for user records.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByAccount(ctx context.Context, account string) (*domain.User, error)
	// FindByAccountAndDigest matches account and credential digest in a
	// single query; a miss on either returns domain.ErrUserNotFound.
	FindByAccountAndDigest(ctx context.Context, account, digest string) (*domain.User, error)
	Insert(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
	CountByAccount(ctx context.Context, account string) (int64, error)
	// List returns a page of users ordered by creation time, newest first,
	// along with the total count.
	List(ctx context.Context, page, limit int) ([]domain.User, int64, error)
}
