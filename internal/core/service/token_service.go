package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rentport/accounts-api/internal/core/domain"
	"github.com/rentport/accounts-api/internal/core/ports"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// tokenClaims is the JWT payload for both token types. TokenType keeps the
// two credentials from ever standing in for each other.
type tokenClaims struct {
	Username  string      `json:"username,omitempty"`
	Role      domain.Role `json:"role,omitempty"`
	TokenType string      `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies the HS256-signed credential pair. The
// secret is process-wide configuration loaded once at startup; rotating it
// invalidates every outstanding token.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

var _ ports.TokenIssuer = (*TokenService)(nil)

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &TokenService{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Issue mints an access/refresh pair bound to the user's identity.
func (s *TokenService) Issue(user *domain.User) (domain.TokenPair, error) {
	access, err := s.signAccess(user.ID, user.Username, user.Role)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := s.signRefresh(user.ID)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return domain.TokenPair{Access: access, Refresh: refresh}, nil
}

// ParseAccess verifies signature, expiry, and token type. Refresh tokens are
// rejected: they are never a valid authenticated-request credential.
func (s *TokenService) ParseAccess(token string) (*ports.AccessClaims, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != domain.TokenTypeAccess {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return &ports.AccessClaims{
		UserID:   claims.Subject,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}

// Refresh verifies a refresh token and mints a new access token for the same
// subject. Refresh tokens carry only the subject, so the minted access token
// does too; profile data is always resolved from the store by user ID.
func (s *TokenService) Refresh(refreshToken string) (string, error) {
	claims, err := s.parse(refreshToken)
	if err != nil {
		return "", err
	}
	if claims.TokenType != domain.TokenTypeRefresh {
		return "", jwt.ErrTokenInvalidClaims
	}
	return s.signAccess(claims.Subject, "", "")
}

func (s *TokenService) signAccess(userID, username string, role domain.Role) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Username:  username,
		Role:      role,
		TokenType: domain.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *TokenService) signRefresh(userID string) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		TokenType: domain.TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *TokenService) parse(token string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
