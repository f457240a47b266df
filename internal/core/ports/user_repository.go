package ports

import (
	"context"

	"github.com/rentport/accounts-api/internal/core/domain"
)

// UserRepository defines the persistence contract for user accounts.
//
// Create must rely on the storage layer's own uniqueness constraint: under
// concurrent registrations of the same username exactly one call succeeds
// and the rest return domain.ErrUserExists.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error)
	SetPassword(ctx context.Context, id string, passwordHash string) error
}
