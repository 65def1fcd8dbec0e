package dto

import (
	"strings"
	"time"

	"github.com/hugh/ritum/internal/api/validation"
	"github.com/hugh/ritum/internal/auth"
	"github.com/hugh/ritum/internal/database/models"
)

type SignupRequest struct {
	Email     string          `json:"email"`
	Password  string          `json:"password"`
	Name      string          `json:"name"`
	OABNumber string          `json:"oab_number,omitempty"`
	OABState  string          `json:"oab_state,omitempty"`
	CPF       string          `json:"cpf,omitempty"`
	Phone     string          `json:"phone,omitempty"`
	Address   *models.Address `json:"address,omitempty"`
}

func (r SignupRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	} else if !validation.IsValidEmail(strings.TrimSpace(r.Email)) {
		errors["email"] = "Invalid email format"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	} else if ok, msg := validation.IsValidPassword(r.Password); !ok {
		errors["password"] = msg
	}
	if strings.TrimSpace(r.Name) == "" {
		errors["name"] = "Name is required"
	}
	if r.OABState != "" && !validation.IsValidUF(r.OABState) {
		errors["oab_state"] = "Invalid state"
	}
	if r.CPF != "" && !validation.IsValidCPF(r.CPF) {
		errors["cpf"] = "Invalid CPF"
	}
	ValidateAddress("address", r.Address, errors)

	return errors
}

func (r SignupRequest) Input() auth.RegisterInput {
	in := auth.RegisterInput{
		Email:     r.Email,
		Password:  r.Password,
		Name:      strings.TrimSpace(r.Name),
		OABNumber: r.OABNumber,
		OABState:  strings.ToUpper(r.OABState),
		CPF:       r.CPF,
		Phone:     r.Phone,
	}
	if r.Address != nil {
		in.Address = *r.Address
	}
	return in
}

// TokenRequest mirrors the OAuth2 password grant form.
type TokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r TokenRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Username == "" {
		errors["username"] = "Username is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	}

	return errors
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type UserResponse struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	OABNumber string          `json:"oab_number"`
	OABState  string          `json:"oab_state"`
	CPF       string          `json:"cpf"`
	Phone     string          `json:"phone"`
	Address   *models.Address `json:"address"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		OABNumber: u.OABNumber,
		OABState:  u.OABState,
		CPF:       u.CPF,
		Phone:     u.Phone,
		Address:   u.Address.Data().Ptr(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UpdateUserRequest is a partial profile update; absent fields are kept.
type UpdateUserRequest struct {
	Name      *string         `json:"name"`
	OABNumber *string         `json:"oab_number"`
	OABState  *string         `json:"oab_state"`
	CPF       *string         `json:"cpf"`
	Phone     *string         `json:"phone"`
	Address   *models.Address `json:"address"`
}

func (r UpdateUserRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		errors["name"] = "Name cannot be empty"
	}
	if r.OABState != nil && *r.OABState != "" && !validation.IsValidUF(*r.OABState) {
		errors["oab_state"] = "Invalid state"
	}
	if r.CPF != nil && *r.CPF != "" && !validation.IsValidCPF(*r.CPF) {
		errors["cpf"] = "Invalid CPF"
	}
	ValidateAddress("address", r.Address, errors)

	return errors
}

func (r UpdateUserRequest) Update() auth.ProfileUpdate {
	return auth.ProfileUpdate{
		Name:      r.Name,
		OABNumber: r.OABNumber,
		OABState:  r.OABState,
		CPF:       r.CPF,
		Phone:     r.Phone,
		Address:   r.Address,
	}
}

type PasswordUpdateRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (r PasswordUpdateRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.CurrentPassword == "" {
		errors["current_password"] = "Current password is required"
	}
	if r.NewPassword == "" {
		errors["new_password"] = "New password is required"
	} else if ok, msg := validation.IsValidPassword(r.NewPassword); !ok {
		errors["new_password"] = msg
	}

	return errors
}
