package proofs

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/softsellhq/softsell-backend/pkg/db/models"
	"github.com/softsellhq/softsell-backend/pkg/enums"
)

// Actor identifies the authenticated caller for every proof operation.
type Actor struct {
	UserID uuid.UUID
	Role   enums.Role
}

// SubmitInput carries a buyer's payment evidence for a listing.
type SubmitInput struct {
	LicenseID        uuid.UUID
	TxnID            string
	ScreenshotBase64 string
}

// ProofView is the transport shape of a payment proof.
type ProofView struct {
	ID            uuid.UUID         `json:"id"`
	LicenseID     uuid.UUID         `json:"license_id"`
	BuyerID       uuid.UUID         `json:"buyer_id"`
	TxnID         string            `json:"txn_id"`
	ScreenshotURL string            `json:"screenshot_url"`
	Status        enums.ProofStatus `json:"status"`
	ReviewedBy    *uuid.UUID        `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time        `json:"reviewed_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// BuyerSummary is the slice of the buyer shown on the admin review queue.
type BuyerSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// LicenseSummary is the slice of the listing shown on the admin review queue.
type LicenseSummary struct {
	ID       uuid.UUID             `json:"id"`
	Title    string                `json:"title"`
	Category enums.LicenseCategory `json:"category"`
	Status   enums.LicenseStatus   `json:"status"`
	Price    *decimal.Decimal      `json:"price,omitempty"`
	SellerID uuid.UUID             `json:"seller_id"`
}

// PendingProofItem pairs a pending proof with the buyer and listing the admin
// needs to verify the payment.
type PendingProofItem struct {
	Proof   ProofView       `json:"proof"`
	Buyer   *BuyerSummary   `json:"buyer,omitempty"`
	License *LicenseSummary `json:"license,omitempty"`
}

func toView(m *models.PaymentProof) ProofView {
	return ProofView{
		ID:            m.ID,
		LicenseID:     m.LicenseID,
		BuyerID:       m.BuyerID,
		TxnID:         m.TxnID,
		ScreenshotURL: m.ScreenshotURL,
		Status:        m.Status,
		ReviewedBy:    m.ReviewedBy,
		ReviewedAt:    m.ReviewedAt,
		CreatedAt:     m.CreatedAt,
	}
}

func toPendingItem(m *models.PaymentProof) PendingProofItem {
	item := PendingProofItem{Proof: toView(m)}
	if m.Buyer != nil {
		item.Buyer = &BuyerSummary{
			ID:    m.Buyer.ID,
			Name:  m.Buyer.Name,
			Email: m.Buyer.Email,
		}
	}
	if m.License != nil {
		item.License = &LicenseSummary{
			ID:       m.License.ID,
			Title:    m.License.Title,
			Category: m.License.Category,
			Status:   m.License.Status,
			Price:    m.License.Price,
			SellerID: m.License.SellerID,
		}
	}
	return item
}
