// Package mapper translates between persisted entities and DTO shapes.
// Functions here are pure projections: no queries, no mutation of inputs
// other than the explicit Apply* helpers.
package mapper

import (
	"time"

	"github.com/spec-kit/commerce-services/internal/api/dto"
	"github.com/spec-kit/commerce-services/internal/domain"
)

// NewUserFromCreate builds a fresh entity from a registration request. The
// role is unconditionally CUSTOMER and both timestamps are set to now; the
// request shape cannot carry a role at all.
func NewUserFromCreate(req dto.UserCreateRequest, now time.Time) *domain.User {
	return &domain.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Active:    true,
		Role:      domain.RoleCustomer,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ApplyUserPut overwrites every mutable field from a full-replacement
// request and refreshes the update timestamp. ID and CreatedAt are immutable.
func ApplyUserPut(user *domain.User, req dto.UserPutRequest, now time.Time) {
	user.Username = req.Username
	user.Email = req.Email
	user.Password = req.Password
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Phone = req.Phone
	user.Active = req.Active
	user.Role = req.UserRole
	user.UpdatedAt = now
}

// UserResponse projects the entity onto the standard response shape.
// Password is excluded by construction.
func UserResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Phone:     user.Phone,
		UserRole:  user.Role,
		CreatedAt: user.CreatedAt,
	}
}

// UserPutResponse projects the entity onto the richer PUT response shape.
func UserPutResponse(user *domain.User) dto.UserPutResponse {
	return dto.UserPutResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Phone:     user.Phone,
		Active:    user.Active,
		UserRole:  user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
