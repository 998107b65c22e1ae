package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/softsellhq/softsell-backend/pkg/enums"
)

// PaymentProof records a buyer's uploaded payment screenshot awaiting admin review.
type PaymentProof struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	LicenseID     uuid.UUID         `gorm:"column:license_id;type:uuid;not null;index"`
	BuyerID       uuid.UUID         `gorm:"column:buyer_id;type:uuid;not null;index"`
	TxnID         string            `gorm:"column:txn_id;not null"`
	ScreenshotURL string            `gorm:"column:screenshot_url;not null"`
	Status        enums.ProofStatus `gorm:"column:status;type:proof_status;not null;default:'pending'"`
	ReviewedBy    *uuid.UUID        `gorm:"column:reviewed_by;type:uuid"`
	ReviewedAt    *time.Time        `gorm:"column:reviewed_at"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`

	License *License `gorm:"foreignKey:LicenseID"`
	Buyer   *User    `gorm:"foreignKey:BuyerID"`
}
