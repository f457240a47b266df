package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/rentport/accounts-api/internal/core/domain"
	"github.com/rentport/accounts-api/internal/core/ports"
)

// AuthService implements registration, login, self-profile access, and
// password change.
type AuthService struct {
	repo       ports.UserRepository
	tokens     ports.TokenIssuer
	policy     *PasswordPolicy
	cache      ports.ProfileCache
	bcryptCost int
}

var _ ports.AuthService = (*AuthService)(nil)

// NewAuthService wires the service. cache may be nil, in which case every
// profile read goes to the repository.
func NewAuthService(repo ports.UserRepository, tokens ports.TokenIssuer, policy *PasswordPolicy, cache ports.ProfileCache, bcryptCost int) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{repo: repo, tokens: tokens, policy: policy, cache: cache, bcryptCost: bcryptCost}
}

// Register creates an account and issues its first credential pair. Role is
// restricted to the self-assignable set; ADMIN cannot be claimed here.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, domain.TokenPair, error) {
	verr := &domain.ValidationError{}
	if in.Username == "" {
		verr.Add("username", "This field is required")
	}
	if reasons := s.policy.Validate(in.Password); len(reasons) > 0 {
		verr.Add("password", reasons...)
	}

	role := in.Role
	if role == "" {
		role = domain.RoleTenant
	}
	if !role.SelfAssignable() {
		verr.Add("role", "Role must be one of: TENANT, LANDLORD")
	}
	if len(verr.Fields) > 0 {
		return nil, domain.TokenPair{}, verr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, domain.TokenPair{}, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, domain.TokenPair{}, err
	}

	pair, err := s.tokens.Issue(created)
	if err != nil {
		return nil, domain.TokenPair{}, err
	}
	return created, pair, nil
}

// Login verifies credentials and issues a fresh pair. A missing user and a
// wrong password are indistinguishable to the caller: both return
// ErrInvalidCredentials. The disabled check runs only after the password
// matched, so account status is not probeable either.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, domain.TokenPair, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		// Only a confirmed miss becomes a credential failure; anything else
		// is an infrastructure fault and must surface as one.
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.TokenPair{}, domain.ErrInvalidCredentials
		}
		return nil, domain.TokenPair{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.TokenPair{}, domain.ErrInvalidCredentials
	}

	if !user.Active {
		return nil, domain.TokenPair{}, domain.ErrAccountDisabled
	}

	pair, err := s.tokens.Issue(user)
	if err != nil {
		return nil, domain.TokenPair{}, err
	}
	return user, pair, nil
}

// GetSelf returns the caller's own record, served from the profile cache
// when possible.
func (s *AuthService) GetSelf(ctx context.Context, userID string) (*domain.User, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, userID); err == nil && cached != nil {
			return cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, user)
	}
	return user, nil
}

// UpdateSelf applies a partial update of the editable profile fields to the
// caller's own record. The target is always the authenticated identity;
// there is no way to address another user here.
func (s *AuthService) UpdateSelf(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	if update.Empty() {
		return s.repo.FindByID(ctx, userID)
	}

	user, err := s.repo.UpdateProfile(ctx, userID, update)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, userID)
	}
	return user, nil
}

// ChangePassword replaces the caller's password after re-verifying the
// current one. bcrypt's comparison is constant-time. Previously issued
// tokens stay valid: they are stateless and cannot be revoked.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return domain.ErrCurrentPasswordMismatch
	}

	uc := PasswordContext{Username: user.Username, Email: user.Email}
	if reasons := s.policy.ValidateChange(newPassword, uc); len(reasons) > 0 {
		return domain.NewValidationError("new_password", reasons...)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return err
	}
	return s.repo.SetPassword(ctx, userID, string(hash))
}
