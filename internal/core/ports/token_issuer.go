package ports

import "github.com/rentport/accounts-api/internal/core/domain"

// AccessClaims is the identity carried by a verified access token.
type AccessClaims struct {
	UserID   string
	Username string
	Role     domain.Role
}

// TokenIssuer mints and verifies the stateless credential pair. Tokens are
// self-contained: rotating the signing key is the only revocation mechanism.
type TokenIssuer interface {
	Issue(user *domain.User) (domain.TokenPair, error)
	ParseAccess(token string) (*AccessClaims, error)
	Refresh(refreshToken string) (string, error)
}
