package ports

import (
	"context"

	"github.com/rentport/accounts-api/internal/core/domain"
)

// RegisterInput carries a registration request into the auth service.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      domain.Role
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, domain.TokenPair, error)
	Login(ctx context.Context, username, password string) (*domain.User, domain.TokenPair, error)
	GetSelf(ctx context.Context, userID string) (*domain.User, error)
	UpdateSelf(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}
