package licenses

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/softsellhq/softsell-backend/pkg/db/models"
	"github.com/softsellhq/softsell-backend/pkg/enums"
	pkgpagination "github.com/softsellhq/softsell-backend/pkg/pagination"
)

// Actor identifies the authenticated caller for every license operation.
type Actor struct {
	UserID uuid.UUID
	Role   enums.Role
}

// SubmitInput holds the metadata required to list a subscription license.
type SubmitInput struct {
	Title              string
	Description        *string
	Category           string
	DaysToSell         int
	CredentialUsername string
	CredentialPassword string
	ContactNumber      string
}

// ListParams carries the caller plus cursor pagination inputs.
type ListParams struct {
	Actor Actor
	pkgpagination.Params
}

// ListResult wraps a page of license views with the next cursor.
type ListResult struct {
	Items  []LicenseView `json:"items"`
	Cursor string        `json:"cursor"`
}

// Credentials is the sensitive slice of a license, only present for eligible viewers.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LicenseView is the transport shape of a license. Credentials and the seller
// contact number appear only when the viewer is entitled to them.
type LicenseView struct {
	ID             uuid.UUID             `json:"id"`
	Title          string                `json:"title"`
	Description    *string               `json:"description,omitempty"`
	Category       enums.LicenseCategory `json:"category"`
	Status         enums.LicenseStatus   `json:"status"`
	Price          *decimal.Decimal      `json:"price,omitempty"`
	DaysToSell     int                   `json:"days_to_sell"`
	DurationInDays int                   `json:"duration_in_days"`
	ExpiryDate     *time.Time            `json:"expiry_date,omitempty"`
	PaidToSeller   bool                  `json:"paid_to_seller"`
	SellerID       uuid.UUID             `json:"seller_id"`
	BuyerID        *uuid.UUID            `json:"buyer_id,omitempty"`
	Credentials    *Credentials          `json:"credentials,omitempty"`
	ContactNumber  string                `json:"contact_number,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// PayoutParty is the contact slice of a user shown on the admin payout queue.
type PayoutParty struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	ContactNumber *string   `json:"contact_number,omitempty"`
	QRCodeURL     *string   `json:"qr_code_url,omitempty"`
}

// PayoutItem pairs an expired sold license with the parties the admin needs to
// settle it.
type PayoutItem struct {
	License LicenseView  `json:"license"`
	Seller  *PayoutParty `json:"seller,omitempty"`
	Buyer   *PayoutParty `json:"buyer,omitempty"`
}

func toPayoutParty(u *models.User) *PayoutParty {
	if u == nil {
		return nil
	}
	return &PayoutParty{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		ContactNumber: u.ContactNumber,
		QRCodeURL:     u.QRCodeURL,
	}
}

type listQuery struct {
	sellerID   *uuid.UUID
	buyerID    *uuid.UUID
	statuses   []enums.LicenseStatus
	unsoldOnly bool
	limit      int
	cursor     *pkgpagination.Cursor
}

// canReveal decides whether the actor may see credentials and contact details
// for the license. All masking flows through here so list and get cannot diverge.
func canReveal(actor Actor, m *models.License) bool {
	switch actor.Role {
	case enums.RoleAdmin:
		return true
	case enums.RoleSeller:
		return m.SellerID == actor.UserID
	case enums.RoleUser:
		return m.Status == enums.LicenseStatusSold && m.BuyerID != nil && *m.BuyerID == actor.UserID
	}
	return false
}

func toView(actor Actor, m *models.License) LicenseView {
	view := LicenseView{
		ID:             m.ID,
		Title:          m.Title,
		Description:    m.Description,
		Category:       m.Category,
		Status:         m.Status,
		Price:          m.Price,
		DaysToSell:     m.DaysToSell,
		DurationInDays: m.DurationInDays,
		ExpiryDate:     m.ExpiryDate,
		PaidToSeller:   m.PaidToSeller,
		SellerID:       m.SellerID,
		BuyerID:        m.BuyerID,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}

	if canReveal(actor, m) {
		view.Credentials = &Credentials{
			Username: m.CredentialUsername,
			Password: m.CredentialPassword,
		}
		view.ContactNumber = m.ContactNumber
	}

	return view
}

func toViews(actor Actor, rows []models.License) []LicenseView {
	views := make([]LicenseView, len(rows))
	for i := range rows {
		views[i] = toView(actor, &rows[i])
	}
	return views
}
