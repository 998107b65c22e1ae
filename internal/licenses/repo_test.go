package licenses

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/softsellhq/softsell-backend/pkg/db/models"
	"github.com/softsellhq/softsell-backend/pkg/enums"
)

func setupLicensesTestDB(t *testing.T) *gorm.DB {
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
	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(licenses).Error)
	return db
}

func newDBUser(t *testing.T, db *gorm.DB, role enums.Role) *models.User {
	t.Helper()

	user := &models.User{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "hash",
		Name:         "DB " + string(role),
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newDBLicense(t *testing.T, db *gorm.DB, sellerID uuid.UUID, status enums.LicenseStatus, created time.Time) *models.License {
	t.Helper()

	license := &models.License{
		ID:                 uuid.New(),
		Title:              "Spotify Family",
		Category:           enums.CategorySpotify,
		Status:             status,
		DaysToSell:         7,
		DurationInDays:     30,
		CredentialUsername: "account@example.com",
		CredentialPassword: "hunter2",
		ContactNumber:      "+911234567890",
		SellerID:           sellerID,
		CreatedAt:          created,
		UpdatedAt:          created,
	}
	require.NoError(t, db.Create(license).Error)
	return license
}

func TestRepositoryApprovePending_onlyOnce(t *testing.T) {
	db := setupLicensesTestDB(t)
	repo := NewRepository(db)
	seller := newDBUser(t, db, enums.RoleSeller)
	license := newDBLicense(t, db, seller.ID, enums.LicenseStatusPending, time.Now().UTC())

	price := decimal.NewFromInt(299)
	ok, err := repo.ApprovePending(context.Background(), license.ID, price)
	require.NoError(t, err)
	assert.True(t, ok)

	again, err := repo.ApprovePending(context.Background(), license.ID, price)
	require.NoError(t, err)
	assert.False(t, again, "second approval must lose the guarded update")

	stored, err := repo.FindByID(context.Background(), license.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.LicenseStatusApproved, stored.Status)
	require.NotNil(t, stored.Price)
	assert.True(t, stored.Price.Equal(price))
}

func TestRepositoryMarkSold_singleWinner(t *testing.T) {
	db := setupLicensesTestDB(t)
	repo := NewRepository(db)
	seller := newDBUser(t, db, enums.RoleSeller)
	buyerA := newDBUser(t, db, enums.RoleUser)
	buyerB := newDBUser(t, db, enums.RoleUser)
	license := newDBLicense(t, db, seller.ID, enums.LicenseStatusApproved, time.Now().UTC())

	expiry := time.Now().UTC().AddDate(0, 0, 7)
	first, err := repo.MarkSold(context.Background(), license.ID, buyerA.ID, expiry)
	require.NoError(t, err)
	second, err := repo.MarkSold(context.Background(), license.ID, buyerB.ID, expiry)
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second, "second buyer must not overwrite the sale")

	stored, err := repo.FindByID(context.Background(), license.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.LicenseStatusSold, stored.Status)
	require.NotNil(t, stored.BuyerID)
	assert.Equal(t, buyerA.ID, *stored.BuyerID)
}

func TestRepositoryMarkPaid_requiresExpiry(t *testing.T) {
	db := setupLicensesTestDB(t)
	repo := NewRepository(db)
	seller := newDBUser(t, db, enums.RoleSeller)
	buyer := newDBUser(t, db, enums.RoleUser)
	license := newDBLicense(t, db, seller.ID, enums.LicenseStatusApproved, time.Now().UTC())

	now := time.Now().UTC()
	_, err := repo.MarkSold(context.Background(), license.ID, buyer.ID, now.Add(time.Hour))
	require.NoError(t, err)

	early, err := repo.MarkPaid(context.Background(), license.ID, now)
	require.NoError(t, err)
	assert.False(t, early, "payout must wait for expiry")

	atExpiry, err := repo.MarkPaid(context.Background(), license.ID, now.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, atExpiry, "payout requires expiry strictly in the past")

	late, err := repo.MarkPaid(context.Background(), license.ID, now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.True(t, late)

	again, err := repo.MarkPaid(context.Background(), license.ID, now.Add(3*time.Hour))
	require.NoError(t, err)
	assert.False(t, again, "payout must only be recorded once")
}

func TestRepositoryList_pagination(t *testing.T) {
	db := setupLicensesTestDB(t)
	repo := NewRepository(db)
	seller := newDBUser(t, db, enums.RoleSeller)

	now := time.Now().UTC()
	older := newDBLicense(t, db, seller.ID, enums.LicenseStatusApproved, now.Add(-time.Hour))
	newer := newDBLicense(t, db, seller.ID, enums.LicenseStatusApproved, now)

	sellerID := seller.ID
	firstPage, err := repo.List(context.Background(), listQuery{sellerID: &sellerID, limit: 2})
	require.NoError(t, err)
	require.Len(t, firstPage, 2)
	assert.Equal(t, newer.ID, firstPage[0].ID)
	assert.Equal(t, older.ID, firstPage[1].ID)
}

func TestRepositoryList_statusAndBuyerFilters(t *testing.T) {
	db := setupLicensesTestDB(t)
	repo := NewRepository(db)
	seller := newDBUser(t, db, enums.RoleSeller)
	buyer := newDBUser(t, db, enums.RoleUser)

	now := time.Now().UTC()
	newDBLicense(t, db, seller.ID, enums.LicenseStatusPending, now.Add(-2*time.Minute))
	approved := newDBLicense(t, db, seller.ID, enums.LicenseStatusApproved, now.Add(-time.Minute))
	sold := newDBLicense(t, db, seller.ID, enums.LicenseStatusApproved, now)
	ok, err := repo.MarkSold(context.Background(), sold.ID, buyer.ID, now.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.True(t, ok)

	marketplace, err := repo.List(context.Background(), listQuery{
		statuses:   []enums.LicenseStatus{enums.LicenseStatusApproved},
		unsoldOnly: true,
		limit:      10,
	})
	require.NoError(t, err)
	require.Len(t, marketplace, 1)
	assert.Equal(t, approved.ID, marketplace[0].ID)

	buyerID := buyer.ID
	purchases, err := repo.List(context.Background(), listQuery{buyerID: &buyerID, limit: 10})
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	assert.Equal(t, sold.ID, purchases[0].ID)
}

func TestRepositoryListExpiredUnpaid_preloadsParties(t *testing.T) {
	db := setupLicensesTestDB(t)
	repo := NewRepository(db)
	seller := newDBUser(t, db, enums.RoleSeller)
	buyer := newDBUser(t, db, enums.RoleUser)

	now := time.Now().UTC()
	license := newDBLicense(t, db, seller.ID, enums.LicenseStatusApproved, now)
	ok, err := repo.MarkSold(context.Background(), license.ID, buyer.ID, now.Add(-time.Hour))
	require.NoError(t, err)
	require.True(t, ok)

	rows, err := repo.ListExpiredUnpaid(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].Seller)
	require.NotNil(t, rows[0].Buyer)
	assert.Equal(t, seller.Email, rows[0].Seller.Email)
	assert.Equal(t, buyer.Email, rows[0].Buyer.Email)
}

func TestRepositoryDeletePending_guardsFinalizedRows(t *testing.T) {
	db := setupLicensesTestDB(t)
	repo := NewRepository(db)
	seller := newDBUser(t, db, enums.RoleSeller)

	now := time.Now().UTC()
	pending := newDBLicense(t, db, seller.ID, enums.LicenseStatusPending, now)
	approved := newDBLicense(t, db, seller.ID, enums.LicenseStatusApproved, now)

	ok, err := repo.DeletePending(context.Background(), pending.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DeletePending(context.Background(), approved.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
