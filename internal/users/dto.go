package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/plantnet-backend/pkg/db/models"
	"github.com/angelmondragon/plantnet-backend/pkg/enums"
)

// UserDTO is the wire shape of a stored user.
type UserDTO struct {
	ID        uuid.UUID      `json:"_id"`
	Email     string         `json:"email"`
	Name      string         `json:"name,omitempty"`
	PhotoURL  string         `json:"photoURL,omitempty"`
	Role      enums.UserRole `json:"role"`
	CreatedAt time.Time      `json:"createdAt"`
}

// SaveUserRequest is the optional profile sent on first sign-in. Email comes from the path.
type SaveUserRequest struct {
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

// RoleDTO carries a nil role for unknown emails so it renders as null.
type RoleDTO struct {
	Role *enums.UserRole `json:"role"`
}

type CheckEmailRequest struct {
	Email string `json:"email"`
}

type ExistsDTO struct {
	Exists bool `json:"exists"`
}

func FromModel(u *models.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		PhotoURL:  u.PhotoURL,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
