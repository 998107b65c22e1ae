package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/softsellhq/softsell-backend/pkg/enums"
)

// User represents the canonical identity entity.
type User struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email         string     `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash  string     `gorm:"column:password_hash;not null"`
	Name          string     `gorm:"column:name;not null"`
	Role          enums.Role `gorm:"column:role;type:user_role;not null;default:'user'"`
	ContactNumber *string    `gorm:"column:contact_number"`
	QRCodeURL     *string    `gorm:"column:qr_code_url"`
	IsActive      bool       `gorm:"column:is_active;not null;default:true"`
	LastLoginAt   *time.Time `gorm:"column:last_login_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
