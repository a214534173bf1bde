package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/identity"
	"github.com/labqueue/backend/internal/infrastructure/auth"
)

// LoginRequest carries the credentials presented at login
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginResponse returns the token pair and the authenticated user
type LoginResponse struct {
	AccessToken           string       `json:"access_token"`
	RefreshToken          string       `json:"refresh_token"`
	TokenType             string       `json:"token_type"`
	AccessTokenExpiresAt  time.Time    `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time    `json:"refresh_token_expires_at"`
	User                  UserResponse `json:"user"`
}

// RefreshRequest carries the refresh token to rotate
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenPairResponse returns a rotated token pair
type TokenPairResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	TokenType             string    `json:"token_type"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
}

// ChangePasswordRequest verifies the current password before changing it
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
}

// ResetPasswordRequest sets a user's password without the old one (admin)
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// VerifyTokenResponse reports the outcome of a token check
type VerifyTokenResponse struct {
	Valid       bool      `json:"valid"`
	UserID      string    `json:"user_id,omitempty"`
	Username    string    `json:"username,omitempty"`
	Role        string    `json:"role,omitempty"`
	Permissions []string  `json:"permissions,omitempty"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
}

// CreateUserRequest carries the data to register a staff account
type CreateUserRequest struct {
	Username  string     `json:"username" binding:"required,min=3,max=50"`
	Email     string     `json:"email" binding:"required,email,max=200"`
	Password  string     `json:"password" binding:"required,min=8,max=128"`
	FullName  string     `json:"full_name" binding:"required,min=2,max=200"`
	RoleID    uuid.UUID  `json:"role_id" binding:"required"`
	StationID *uuid.UUID `json:"station_id"`
}

// UpdateUserRequest carries the mutable user fields
type UpdateUserRequest struct {
	Email    string `json:"email" binding:"omitempty,email,max=200"`
	FullName string `json:"full_name" binding:"omitempty,min=2,max=200"`
}

// AssignStationRequest binds a user to a workstation; a nil station unbinds
type AssignStationRequest struct {
	StationID *uuid.UUID `json:"station_id"`
}

// AssignRoleRequest replaces a user's role
type AssignRoleRequest struct {
	RoleID uuid.UUID `json:"role_id" binding:"required"`
}

// UserResponse is the API representation of a user account
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	RoleID      uuid.UUID  `json:"role_id"`
	RoleName    string     `json:"role_name,omitempty"`
	StationID   *uuid.UUID `json:"station_id,omitempty"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Version     int        `json:"version"`
}

// UserListFilter holds query parameters for listing users
type UserListFilter struct {
	Status   string     `form:"status" binding:"omitempty,oneof=active locked deactivated"`
	RoleID   *uuid.UUID `form:"role_id"`
	Search   string     `form:"search"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// UserStatsResponse summarizes accounts by status and role
type UserStatsResponse struct {
	Total       int64            `json:"total"`
	Active      int64            `json:"active"`
	Locked      int64            `json:"locked"`
	Deactivated int64            `json:"deactivated"`
	ByRole      map[string]int64 `json:"by_role"`
}

// RoleResponse is the API representation of a role
type RoleResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Permissions []string  `json:"permissions"`
}

// ToUserResponse converts a domain user, with the role name when known
func ToUserResponse(user *identity.User, roleName string) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FullName:    user.FullName,
		RoleID:      user.RoleID,
		RoleName:    roleName,
		StationID:   user.StationID,
		Status:      string(user.Status),
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
		Version:     user.Version,
	}
}

// ToRoleResponse converts a domain role
func ToRoleResponse(role *identity.Role) RoleResponse {
	return RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		Permissions: role.Permissions,
	}
}

// ToRoleResponses converts a slice of domain roles
func ToRoleResponses(roles []identity.Role) []RoleResponse {
	responses := make([]RoleResponse, len(roles))
	for i := range roles {
		responses[i] = ToRoleResponse(&roles[i])
	}
	return responses
}

func toTokenPairResponse(pair *auth.TokenPair) TokenPairResponse {
	return TokenPairResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		TokenType:             pair.TokenType,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
	}
}
