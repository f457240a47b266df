package ports

import (
	"context"

	"github.com/rentport/accounts-api/internal/core/domain"
)

// ProfileCache is a read-through cache for public profile lookups. It is
// strictly best-effort: a miss or an error always falls back to the
// repository.
type ProfileCache interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Set(ctx context.Context, user *domain.User) error
	Invalidate(ctx context.Context, userID string) error
}
