package users

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/plantnet-backend/pkg/db"
	"github.com/angelmondragon/plantnet-backend/pkg/db/models"
	"github.com/angelmondragon/plantnet-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/plantnet-backend/pkg/errors"
	"github.com/angelmondragon/plantnet-backend/pkg/types"
)

type repository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]models.User, error)
}

// SaveResult is either the existing user or the insert acknowledgement.
type SaveResult struct {
	Existing *UserDTO
	Inserted *types.InsertResult
}

// Service exposes the user directory.
type Service interface {
	SaveUser(ctx context.Context, email string, input SaveUserRequest) (SaveResult, error)
	RoleByEmail(ctx context.Context, email string) (enums.UserRole, error)
	ListUsers(ctx context.Context) ([]UserDTO, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type service struct {
	repo repository
}

// NewService builds the users service.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "users repository is required")
	}
	return &service{repo: repo}, nil
}

// SaveUser is idempotent on email: an existing record is returned unchanged.
func (s *service) SaveUser(ctx context.Context, email string, input SaveUserRequest) (SaveResult, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return SaveResult{}, pkgerrors.New(pkgerrors.CodeValidation, "Email is required")
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		dto := FromModel(existing)
		return SaveResult{Existing: &dto}, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return SaveResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to save user")
	}

	user := &models.User{
		Email:    email,
		Name:     strings.TrimSpace(input.Name),
		PhotoURL: strings.TrimSpace(input.PhotoURL),
		Role:     enums.UserRoleCustomer,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent first sign-in; hand back the winner.
		if db.IsUniqueViolation(err, "users_email_key") {
			if winner, findErr := s.repo.FindByEmail(ctx, email); findErr == nil {
				dto := FromModel(winner)
				return SaveResult{Existing: &dto}, nil
			}
		}
		return SaveResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to save user")
	}

	inserted := types.Inserted(user.ID)
	return SaveResult{Inserted: &inserted}, nil
}

// RoleByEmail returns the stored role, or an empty role when the email is unknown.
func (s *service) RoleByEmail(ctx context.Context, email string) (enums.UserRole, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", nil
	}
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to get user role")
	}
	return user.Role, nil
}

func (s *service) ListUsers(ctx context.Context) ([]UserDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to get users")
	}
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) EmailExists(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "Email is required")
	}
	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to check email")
	}
	return exists, nil
}
