package authapimodels

import (
	"net/mail"

	"github.com/bytesandbalance/jovyne-sub000/models"
)

type RegisterRequest struct {
	Email     string          `json:"email"`
	Password  string          `json:"password"`
	Role      models.RoleKind `json:"role"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Phone     string          `json:"phone"`
	Location  string          `json:"location"`
}

func (r RegisterRequest) Validate() error {
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return models.NewValidationError("email has invalid format")
	}
	if len(r.Password) < 8 {
		return models.NewValidationError("password must be at least 8 characters")
	}
	if !r.Role.IsValid() {
		return models.NewValidationError("unknown role %v", r.Role)
	}
	if r.FirstName == "" || r.LastName == "" {
		return models.NewValidationError("first and last name are required")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return models.NewValidationError("email has invalid format")
	}
	if r.Password == "" {
		return models.NewValidationError("password is required")
	}
	return nil
}

type TokenResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	Role         models.RoleKind `json:"role"`
	RoleID       string          `json:"role_id"`
}
