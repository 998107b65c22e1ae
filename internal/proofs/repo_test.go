package proofs

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/softsellhq/softsell-backend/pkg/db/models"
	"github.com/softsellhq/softsell-backend/pkg/enums"
)

func setupProofsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  name TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'user',
  contact_number TEXT,
  qr_code_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	licenses := `
CREATE TABLE IF NOT EXISTS licenses (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT,
  category TEXT NOT NULL DEFAULT 'Other',
  status TEXT NOT NULL DEFAULT 'pending',
  price TEXT,
  days_to_sell INTEGER NOT NULL,
  duration_in_days INTEGER NOT NULL,
  credential_username TEXT NOT NULL,
  credential_password TEXT NOT NULL,
  contact_number TEXT NOT NULL,
  paid_to_seller INTEGER NOT NULL DEFAULT 0,
  seller_id TEXT NOT NULL,
  buyer_id TEXT,
  expiry_date DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	proofs := `
CREATE TABLE IF NOT EXISTS payment_proofs (
  id TEXT PRIMARY KEY,
  license_id TEXT NOT NULL,
  buyer_id TEXT NOT NULL,
  txn_id TEXT NOT NULL,
  screenshot_url TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  reviewed_by TEXT,
  reviewed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(licenses).Error)
	require.NoError(t, db.Exec(proofs).Error)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role enums.Role) *models.User {
	t.Helper()

	user := &models.User{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "hash",
		Name:         "Seed " + string(role),
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedLicense(t *testing.T, db *gorm.DB, sellerID uuid.UUID, status enums.LicenseStatus) *models.License {
	t.Helper()

	license := &models.License{
		ID:                 uuid.New(),
		Title:              "ZEE5 Premium",
		Category:           enums.CategoryZEE5,
		Status:             status,
		DaysToSell:         7,
		DurationInDays:     30,
		CredentialUsername: "account@example.com",
		CredentialPassword: "hunter2",
		ContactNumber:      "+911234567890",
		SellerID:           sellerID,
		CreatedAt:          time.Now().UTC(),
	}
	require.NoError(t, db.Create(license).Error)
	return license
}

func seedProof(t *testing.T, db *gorm.DB, licenseID, buyerID uuid.UUID, created time.Time) *models.PaymentProof {
	t.Helper()

	proof := &models.PaymentProof{
		ID:            uuid.New(),
		LicenseID:     licenseID,
		BuyerID:       buyerID,
		TxnID:         "UPI-" + uuid.NewString()[:8],
		ScreenshotURL: "https://res.cloudinary.com/softsell/proof.png",
		Status:        enums.ProofStatusPending,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
	require.NoError(t, db.Create(proof).Error)
	return proof
}

func TestRepositoryApprove_sellsLicenseToProofBuyer(t *testing.T) {
	db := setupProofsTestDB(t)
	repo := NewRepository(db)
	seller := seedUser(t, db, enums.RoleSeller)
	buyer := seedUser(t, db, enums.RoleUser)
	admin := seedUser(t, db, enums.RoleAdmin)
	license := seedLicense(t, db, seller.ID, enums.LicenseStatusApproved)
	proof := seedProof(t, db, license.ID, buyer.ID, time.Now().UTC())

	now := time.Now().UTC()
	approved, sold, err := repo.Approve(context.Background(), proof.ID, admin.ID, now)
	require.NoError(t, err)

	assert.Equal(t, enums.ProofStatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, admin.ID, *approved.ReviewedBy)

	assert.Equal(t, enums.LicenseStatusSold, sold.Status)
	require.NotNil(t, sold.BuyerID)
	assert.Equal(t, buyer.ID, *sold.BuyerID)
	require.NotNil(t, sold.ExpiryDate)
	assert.Equal(t, now.AddDate(0, 0, license.DaysToSell), sold.ExpiryDate.UTC())
}

func TestRepositoryApprove_secondProofLoses(t *testing.T) {
	db := setupProofsTestDB(t)
	repo := NewRepository(db)
	seller := seedUser(t, db, enums.RoleSeller)
	buyerA := seedUser(t, db, enums.RoleUser)
	buyerB := seedUser(t, db, enums.RoleUser)
	admin := seedUser(t, db, enums.RoleAdmin)
	license := seedLicense(t, db, seller.ID, enums.LicenseStatusApproved)
	proofA := seedProof(t, db, license.ID, buyerA.ID, time.Now().UTC())
	proofB := seedProof(t, db, license.ID, buyerB.ID, time.Now().UTC())

	now := time.Now().UTC()
	_, _, err := repo.Approve(context.Background(), proofA.ID, admin.ID, now)
	require.NoError(t, err)

	_, _, err = repo.Approve(context.Background(), proofB.ID, admin.ID, now)
	require.ErrorIs(t, err, ErrLicenseUnavailable)

	var stored models.PaymentProof
	require.NoError(t, db.First(&stored, "id = ?", proofB.ID).Error)
	assert.Equal(t, enums.ProofStatusPending, stored.Status, "losing proof must stay pending")

	var soldTo models.License
	require.NoError(t, db.First(&soldTo, "id = ?", license.ID).Error)
	require.NotNil(t, soldTo.BuyerID)
	assert.Equal(t, buyerA.ID, *soldTo.BuyerID)
}

func TestRepositoryApprove_reviewedProofFails(t *testing.T) {
	db := setupProofsTestDB(t)
	repo := NewRepository(db)
	seller := seedUser(t, db, enums.RoleSeller)
	buyer := seedUser(t, db, enums.RoleUser)
	admin := seedUser(t, db, enums.RoleAdmin)
	license := seedLicense(t, db, seller.ID, enums.LicenseStatusApproved)
	proof := seedProof(t, db, license.ID, buyer.ID, time.Now().UTC())

	now := time.Now().UTC()
	ok, err := repo.Reject(context.Background(), proof.ID, admin.ID, now)
	require.NoError(t, err)
	require.True(t, ok)

	_, _, err = repo.Approve(context.Background(), proof.ID, admin.ID, now)
	require.ErrorIs(t, err, ErrProofNotPending)
}

func TestRepositoryListPending_preloadsAndOrders(t *testing.T) {
	db := setupProofsTestDB(t)
	repo := NewRepository(db)
	seller := seedUser(t, db, enums.RoleSeller)
	buyer := seedUser(t, db, enums.RoleUser)
	license := seedLicense(t, db, seller.ID, enums.LicenseStatusApproved)

	now := time.Now().UTC()
	older := seedProof(t, db, license.ID, buyer.ID, now.Add(-time.Hour))
	newer := seedProof(t, db, license.ID, buyer.ID, now)

	rows, err := repo.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, older.ID, rows[0].ID)
	assert.Equal(t, newer.ID, rows[1].ID)
	require.NotNil(t, rows[0].Buyer)
	assert.Equal(t, buyer.Email, rows[0].Buyer.Email)
	require.NotNil(t, rows[0].License)
	assert.Equal(t, license.Title, rows[0].License.Title)
}

func TestRepositoryHasPendingForLicense(t *testing.T) {
	db := setupProofsTestDB(t)
	repo := NewRepository(db)
	seller := seedUser(t, db, enums.RoleSeller)
	buyer := seedUser(t, db, enums.RoleUser)
	other := seedUser(t, db, enums.RoleUser)
	license := seedLicense(t, db, seller.ID, enums.LicenseStatusApproved)
	seedProof(t, db, license.ID, buyer.ID, time.Now().UTC())

	open, err := repo.HasPendingForLicense(context.Background(), license.ID, buyer.ID)
	require.NoError(t, err)
	assert.True(t, open)

	open, err = repo.HasPendingForLicense(context.Background(), license.ID, other.ID)
	require.NoError(t, err)
	assert.False(t, open)
}
