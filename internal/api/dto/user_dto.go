package dto

import (
	"time"

	"github.com/spec-kit/commerce-services/internal/domain"
)

// UserCreateRequest is the registration payload. It deliberately carries no
// role field: registration never grants elevated roles.
type UserCreateRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Email     string `json:"email" validate:"required,max=50,email"`
	Password  string `json:"password" validate:"required,min=6,max=100"`
	FirstName string `json:"firstName" validate:"omitempty,min=2,max=50"`
	LastName  string `json:"lastName" validate:"omitempty,min=2,max=50"`
	Phone     string `json:"phone"`
}

// UserPatchRequest is the sparse partial-update payload. Absent or blank
// fields are left untouched.
type UserPatchRequest struct {
	FirstName string `json:"firstName" validate:"omitempty,min=2,max=50"`
	LastName  string `json:"lastName" validate:"omitempty,min=2,max=50"`
	Email     string `json:"email" validate:"omitempty,max=50,email"`
	Phone     string `json:"phone"`
}

// UserPutRequest is the full-replacement payload: every mutable field,
// including role and active.
type UserPutRequest struct {
	Username  string          `json:"username" validate:"required,min=3,max=50"`
	Email     string          `json:"email" validate:"required,max=50,email"`
	Password  string          `json:"password" validate:"required,min=8,max=100"`
	FirstName string          `json:"firstName" validate:"omitempty,min=2,max=50"`
	LastName  string          `json:"lastName" validate:"omitempty,min=2,max=50"`
	Phone     string          `json:"phone"`
	Active    bool            `json:"active"`
	UserRole  domain.UserRole `json:"userRole" validate:"required,oneof=CUSTOMER SELLER ADMIN"`
}

// UserResponse is the projection returned by creation, lookups and PATCH.
type UserResponse struct {
	ID        int64           `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	FirstName string          `json:"firstName,omitempty"`
	LastName  string          `json:"lastName,omitempty"`
	Phone     string          `json:"phone,omitempty"`
	UserRole  domain.UserRole `json:"userRole"`
	CreatedAt time.Time       `json:"createdAt"`
}

// UserPutResponse is the richer projection returned by PUT.
type UserPutResponse struct {
	ID        int64           `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	FirstName string          `json:"firstName,omitempty"`
	LastName  string          `json:"lastName,omitempty"`
	Phone     string          `json:"phone,omitempty"`
	Active    bool            `json:"active"`
	UserRole  domain.UserRole `json:"userRole"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// LoginRequest is the credential payload for token issuance.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the signed token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
