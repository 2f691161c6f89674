package models

import (
	"time"

	"gorm.io/datatypes"
)

// Admin roles
const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleModerator  = "MODERATOR"
	RoleAnalyst    = "ANALYST"
)

// AdminUser represents an admin user with special permissions.
// Admin identity is resolved through this table, never through
// identifiers baked into handlers.
type AdminUser struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	UserID      uint              `gorm:"uniqueIndex;not null" json:"user_id"`
	User        *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role        string            `gorm:"size:20;not null" json:"role"` // SUPER_ADMIN, MODERATOR, ANALYST
	Permissions datatypes.JSONMap `gorm:"type:jsonb" json:"permissions"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}

// AdminLog records admin actions for audit trail
type AdminLog struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	AdminID      uint              `gorm:"not null;index" json:"admin_id"`
	Admin        *AdminUser        `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
	Action       string            `gorm:"size:100;not null" json:"action"`
	ResourceType string            `gorm:"size:50" json:"resource_type"`
	ResourceID   *uint             `json:"resource_id"`
	Details      datatypes.JSONMap `gorm:"type:jsonb" json:"details"`
	CreatedAt    time.Time         `json:"created_at"`
}

func (AdminLog) TableName() string {
	return "admin_logs"
}
