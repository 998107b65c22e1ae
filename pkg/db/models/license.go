package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/softsellhq/softsell-backend/pkg/enums"
)

// License represents a subscription listing moving through the marketplace lifecycle.
type License struct {
	ID                 uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title              string                `gorm:"column:title;not null"`
	Description        *string               `gorm:"column:description"`
	Category           enums.LicenseCategory `gorm:"column:category;type:license_category;not null;default:'Other'"`
	Status             enums.LicenseStatus   `gorm:"column:status;type:license_status;not null;default:'pending'"`
	Price              *decimal.Decimal      `gorm:"column:price;type:numeric(12,2)"`
	DaysToSell         int                   `gorm:"column:days_to_sell;not null"`
	DurationInDays     int                   `gorm:"column:duration_in_days;not null"`
	CredentialUsername string                `gorm:"column:credential_username;not null"`
	CredentialPassword string                `gorm:"column:credential_password;not null"`
	ContactNumber      string                `gorm:"column:contact_number;not null"`
	PaidToSeller       bool                  `gorm:"column:paid_to_seller;not null;default:false"`
	SellerID           uuid.UUID             `gorm:"column:seller_id;type:uuid;not null;index"`
	BuyerID            *uuid.UUID            `gorm:"column:buyer_id;type:uuid;index"`
	ExpiryDate         *time.Time            `gorm:"column:expiry_date"`
	CreatedAt          time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time             `gorm:"column:updated_at;autoUpdateTime"`

	Seller *User `gorm:"foreignKey:SellerID"`
	Buyer  *User `gorm:"foreignKey:BuyerID"`
}
