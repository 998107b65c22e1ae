package proofs

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/softsellhq/softsell-backend/pkg/db/models"
	"github.com/softsellhq/softsell-backend/pkg/enums"
)

var (
	// ErrProofNotPending is returned when a review races another reviewer.
	ErrProofNotPending = errors.New("payment proof is not pending")
	// ErrLicenseUnavailable is returned when the listing was sold or pulled
	// before the proof could be approved.
	ErrLicenseUnavailable = errors.New("license is not available")
)

// Repository persists payment proofs. Approval runs the proof review and the
// license sale in one transaction so a proof can never be approved against a
// listing someone else already bought.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a proof repository on the provided gorm handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, proof *models.PaymentProof) error {
	return r.db.WithContext(ctx).Create(proof).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PaymentProof, error) {
	var proof models.PaymentProof
	err := r.db.WithContext(ctx).First(&proof, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &proof, nil
}

// ListPending returns proofs awaiting review, oldest first, with the buyer and
// listing preloaded for the admin queue.
func (r *Repository) ListPending(ctx context.Context) ([]models.PaymentProof, error) {
	var rows []models.PaymentProof
	err := r.db.WithContext(ctx).
		Preload("Buyer").
		Preload("License").
		Where("status = ?", enums.ProofStatusPending).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// HasPendingForLicense reports whether the buyer already has an open proof for
// the listing.
func (r *Repository) HasPendingForLicense(ctx context.Context, licenseID, buyerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PaymentProof{}).
		Where("license_id = ? AND buyer_id = ? AND status = ?", licenseID, buyerID, enums.ProofStatusPending).
		Count(&count).Error
	return count > 0, err
}

// Approve marks the proof approved and sells the license to the proof's buyer
// atomically. The license sale is a guarded update, so if another buyer's proof
// won first this returns ErrLicenseUnavailable and nothing is committed.
func (r *Repository) Approve(ctx context.Context, id, reviewerID uuid.UUID, now time.Time) (*models.PaymentProof, *models.License, error) {
	var (
		proof   models.PaymentProof
		license models.License
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&proof, "id = ?", id).Error; err != nil {
			return err
		}
		if proof.Status != enums.ProofStatusPending {
			return ErrProofNotPending
		}
		if err := tx.First(&license, "id = ?", proof.LicenseID).Error; err != nil {
			return err
		}

		expiry := now.AddDate(0, 0, license.DaysToSell)
		sale := tx.Model(&models.License{}).
			Where("id = ? AND status = ? AND buyer_id IS NULL", license.ID, enums.LicenseStatusApproved).
			Updates(map[string]any{
				"status":      enums.LicenseStatusSold,
				"buyer_id":    proof.BuyerID,
				"expiry_date": expiry,
			})
		if sale.Error != nil {
			return sale.Error
		}
		if sale.RowsAffected == 0 {
			return ErrLicenseUnavailable
		}

		review := tx.Model(&models.PaymentProof{}).
			Where("id = ? AND status = ?", id, enums.ProofStatusPending).
			Updates(map[string]any{
				"status":      enums.ProofStatusApproved,
				"reviewed_by": reviewerID,
				"reviewed_at": now,
			})
		if review.Error != nil {
			return review.Error
		}
		if review.RowsAffected == 0 {
			return ErrProofNotPending
		}

		proof.Status = enums.ProofStatusApproved
		proof.ReviewedBy = &reviewerID
		proof.ReviewedAt = &now
		license.Status = enums.LicenseStatusSold
		license.BuyerID = &proof.BuyerID
		license.ExpiryDate = &expiry
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &proof, &license, nil
}

// Reject marks a pending proof rejected. Returns false when the proof was
// already reviewed (or does not exist).
func (r *Repository) Reject(ctx context.Context, id, reviewerID uuid.UUID, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.PaymentProof{}).
		Where("id = ? AND status = ?", id, enums.ProofStatusPending).
		Updates(map[string]any{
			"status":      enums.ProofStatusRejected,
			"reviewed_by": reviewerID,
			"reviewed_at": now,
		})
	return res.RowsAffected > 0, res.Error
}
