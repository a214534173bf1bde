package identity

import (
	"strings"

	"github.com/labqueue/backend/internal/domain/shared"
)

// Built-in role names seeded by migration
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleAgent      = "agente"
)

// Permission codes follow the resource:action pattern
const (
	PermTicketsCall   = "tickets:call"
	PermTicketsManage = "tickets:manage"
	PermQueuesManage  = "queues:manage"
	PermCatalogManage = "catalog:manage"
	PermPatientsWrite = "patients:write"
	PermStationsWrite = "stations:write"
	PermUsersManage   = "users:manage"
	PermReportsView   = "reports:view"
)

// Role represents a named set of permissions
type Role struct {
	shared.BaseAggregateRoot
	Name        string   `gorm:"type:varchar(50);uniqueIndex;not null"`
	Description string   `gorm:"type:text"`
	Permissions []string `gorm:"serializer:json;type:text"`
}

// TableName returns the database table name
func (Role) TableName() string {
	return "roles"
}

// NewRole creates a new role with the given permissions
func NewRole(name, description string, permissions []string) (*Role, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Role name cannot be empty")
	}
	if len(name) > 50 {
		return nil, shared.NewDomainError("INVALID_NAME", "Role name cannot exceed 50 characters")
	}
	for _, p := range permissions {
		if !strings.Contains(p, ":") {
			return nil, shared.NewDomainError("INVALID_PERMISSION", "Permission must follow the resource:action pattern")
		}
	}
	return &Role{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		Permissions:       permissions,
	}, nil
}

// HasPermission reports whether the role grants the permission code
func (r *Role) HasPermission(code string) bool {
	for _, p := range r.Permissions {
		if p == code {
			return true
		}
	}
	return false
}
