package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	pkgAuth "github.com/angelmondragon/plantnet-backend/pkg/auth"
	"github.com/angelmondragon/plantnet-backend/pkg/config"
	"github.com/angelmondragon/plantnet-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/plantnet-backend/pkg/errors"
)

// Service issues identity tokens and resolves the caller behind a verified token.
type Service interface {
	IssueToken(ctx context.Context, email string) (Token, error)
	ResolveIdentity(ctx context.Context, email string) (pkgAuth.Identity, error)
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo  userRepository
	JWTConfig config.JWTConfig
	Now       func() time.Time
}

type service struct {
	users  userRepository
	jwtCfg config.JWTConfig
	now    func() time.Time
}

// NewService constructs the token service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repository is required")
	}
	if params.JWTConfig.Secret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "jwt secret is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{users: params.UserRepo, jwtCfg: params.JWTConfig, now: now}, nil
}

// IssueToken signs a token for any email; no account is required.
func (s *service) IssueToken(_ context.Context, email string) (Token, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Token{}, pkgerrors.New(pkgerrors.CodeValidation, "Email is required")
	}
	now := s.now()
	signed, err := pkgAuth.MintIdentityToken(s.jwtCfg, now, email)
	if err != nil {
		return Token{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return Token{Value: signed, ExpiresAt: now.Add(s.jwtCfg.Expiration)}, nil
}

// ResolveIdentity looks up the stored role for email. Emails without a user
// row resolve to an identity with no role.
func (s *service) ResolveIdentity(ctx context.Context, email string) (pkgAuth.Identity, error) {
	identity := pkgAuth.Identity{Email: email}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return identity, nil
		}
		return pkgAuth.Identity{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve user role")
	}
	identity.Role = user.Role
	return identity, nil
}
