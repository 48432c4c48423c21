// Package domain contains core types for user accounts.
package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Role is the validated role attached to an authenticated identity at the
// trust boundary. Downstream code branches on this enum and never re-infers
// roles from request data.
type Role string

const (
	RoleMember  Role = "member"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// ParseRole normalizes and validates a raw role value.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleMember:
		return RoleMember, true
	case RoleManager:
		return RoleManager, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// CanRateAsManager reports whether this role may submit manager-source answers.
func (r Role) CanRateAsManager() bool {
	return r == RoleManager || r == RoleAdmin
}

// User represents a participant in the evaluation exercise.
type User struct {
	ID           snowflake.ID      `gorm:"primaryKey" json:"id"`
	Email        string            `gorm:"type:text;not null;uniqueIndex" json:"email"`
	DisplayName  string            `gorm:"type:text;not null" json:"display_name"`
	Role         Role              `gorm:"type:text;not null;default:'member'" json:"role"`
	PasswordHash *string           `gorm:"type:text" json:"-"`
	Active       bool              `gorm:"not null;default:true" json:"active"`
	Metadata     datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }
