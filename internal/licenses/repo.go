package licenses

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/softsellhq/softsell-backend/pkg/db/models"
	"github.com/softsellhq/softsell-backend/pkg/enums"
)

// Repository persists licenses. Status transitions are guarded updates so two
// concurrent writers cannot both win the same transition.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a license repository on the provided gorm handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, license *models.License) error {
	return r.db.WithContext(ctx).Create(license).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.License, error) {
	var license models.License
	err := r.db.WithContext(ctx).First(&license, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &license, nil
}

// List returns one page of licenses ordered newest first, plus one buffer row
// so the caller can detect whether another page exists.
func (r *Repository) List(ctx context.Context, q listQuery) ([]models.License, error) {
	query := r.db.WithContext(ctx).Model(&models.License{})

	if q.sellerID != nil {
		query = query.Where("seller_id = ?", *q.sellerID)
	}
	if q.buyerID != nil {
		query = query.Where("buyer_id = ?", *q.buyerID)
	}
	if len(q.statuses) > 0 {
		query = query.Where("status IN ?", q.statuses)
	}
	if q.unsoldOnly {
		query = query.Where("buyer_id IS NULL")
	}
	if q.cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			q.cursor.CreatedAt, q.cursor.CreatedAt, q.cursor.ID,
		)
	}

	var rows []models.License
	err := query.
		Order("created_at DESC, id DESC").
		Limit(q.limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ApprovePending moves a pending license to approved and stamps its sale price.
// Returns false when the license was not pending anymore (or does not exist).
func (r *Repository) ApprovePending(ctx context.Context, id uuid.UUID, price decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.License{}).
		Where("id = ? AND status = ?", id, enums.LicenseStatusPending).
		Updates(map[string]any{
			"status": enums.LicenseStatusApproved,
			"price":  price,
		})
	return res.RowsAffected > 0, res.Error
}

// RejectPending moves a pending license to rejected.
func (r *Repository) RejectPending(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.License{}).
		Where("id = ? AND status = ?", id, enums.LicenseStatusPending).
		Update("status", enums.LicenseStatusRejected)
	return res.RowsAffected > 0, res.Error
}

// MarkSold assigns the buyer and expiry in the same guarded update that flips
// the status, so only one of several concurrent buyers can succeed.
func (r *Repository) MarkSold(ctx context.Context, id, buyerID uuid.UUID, expiry time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.License{}).
		Where("id = ? AND status = ? AND buyer_id IS NULL", id, enums.LicenseStatusApproved).
		Updates(map[string]any{
			"status":      enums.LicenseStatusSold,
			"buyer_id":    buyerID,
			"expiry_date": expiry,
		})
	return res.RowsAffected > 0, res.Error
}

// MarkPaid records the seller payout for a sold license whose expiry is
// strictly in the past.
func (r *Repository) MarkPaid(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.License{}).
		Where(
			"id = ? AND status = ? AND paid_to_seller = ? AND expiry_date < ?",
			id, enums.LicenseStatusSold, false, now,
		).
		Update("paid_to_seller", true)
	return res.RowsAffected > 0, res.Error
}

// DeletePending removes a license that is still awaiting review.
func (r *Repository) DeletePending(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, enums.LicenseStatusPending).
		Delete(&models.License{})
	return res.RowsAffected > 0, res.Error
}

// ListExpiredUnpaid returns sold licenses past expiry with the payout still
// outstanding, oldest expiry first, with parties preloaded for the payout view.
func (r *Repository) ListExpiredUnpaid(ctx context.Context, now time.Time) ([]models.License, error) {
	var rows []models.License
	err := r.db.WithContext(ctx).
		Preload("Seller").
		Preload("Buyer").
		Where(
			"status = ? AND paid_to_seller = ? AND expiry_date <= ?",
			enums.LicenseStatusSold, false, now,
		).
		Order("expiry_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
