package proofs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/softsellhq/softsell-backend/pkg/db/models"
	"github.com/softsellhq/softsell-backend/pkg/enums"
	pkgerrors "github.com/softsellhq/softsell-backend/pkg/errors"
	"github.com/softsellhq/softsell-backend/pkg/uploader"
)

// Service defines the behavior needed by the proof controller.
type Service interface {
	Submit(ctx context.Context, actor Actor, input SubmitInput) (*ProofView, error)
	ListPending(ctx context.Context, actor Actor) ([]PendingProofItem, error)
	Approve(ctx context.Context, actor Actor, id uuid.UUID) (*ProofView, error)
	Reject(ctx context.Context, actor Actor, id uuid.UUID) (*ProofView, error)
}

type proofRepository interface {
	Create(ctx context.Context, proof *models.PaymentProof) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.PaymentProof, error)
	ListPending(ctx context.Context) ([]models.PaymentProof, error)
	HasPendingForLicense(ctx context.Context, licenseID, buyerID uuid.UUID) (bool, error)
	Approve(ctx context.Context, id, reviewerID uuid.UUID, now time.Time) (*models.PaymentProof, *models.License, error)
	Reject(ctx context.Context, id, reviewerID uuid.UUID, now time.Time) (bool, error)
}

type licenseLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.License, error)
}

type userLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Notifier delivers review-outcome emails. Implementations are best effort:
// failures are logged, never returned.
type Notifier interface {
	ProofApproved(ctx context.Context, license *models.License, seller, buyer *models.User)
	ProofRejected(ctx context.Context, license *models.License, buyer *models.User)
}

type service struct {
	repo     proofRepository
	licenses licenseLookup
	users    userLookup
	uploads  uploader.Uploader
	notify   Notifier
	now      func() time.Time
}

// ServiceParams bundles the dependencies required to build a proof service.
type ServiceParams struct {
	Repo        proofRepository
	LicenseRepo licenseLookup
	UserRepo    userLookup
	Uploader    uploader.Uploader
	Notifier    Notifier
}

// NewService constructs a proof service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("proof repository is required")
	}
	if params.LicenseRepo == nil {
		return nil, fmt.Errorf("license repository is required")
	}
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Uploader == nil {
		return nil, fmt.Errorf("uploader is required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	return &service{
		repo:     params.Repo,
		licenses: params.LicenseRepo,
		users:    params.UserRepo,
		uploads:  params.Uploader,
		notify:   params.Notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Submit(ctx context.Context, actor Actor, input SubmitInput) (*ProofView, error) {
	txnID := strings.TrimSpace(input.TxnID)
	if txnID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}
	if err := uploader.ValidateImageDataURI(input.ScreenshotBase64); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment screenshot")
	}

	license, err := s.licenses.FindByID(ctx, input.LicenseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "license not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup license")
	}
	if license.SellerID == actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "you cannot buy your own listing")
	}
	if license.Status != enums.LicenseStatusApproved || license.BuyerID != nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "License already sold or not available")
	}

	open, err := s.repo.HasPendingForLicense(ctx, license.ID, actor.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check open proofs")
	}
	if open {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "you already have a proof awaiting review for this listing")
	}

	// Upload before touching the database so a failed upload never leaves a
	// proof row without its screenshot.
	screenshotURL, err := s.uploads.UploadImage(ctx, input.ScreenshotBase64, "proof_"+license.ID.String())
	if err != nil {
		return nil, err
	}

	proof := &models.PaymentProof{
		LicenseID:     license.ID,
		BuyerID:       actor.UserID,
		TxnID:         txnID,
		ScreenshotURL: screenshotURL,
		Status:        enums.ProofStatusPending,
	}
	if err := s.repo.Create(ctx, proof); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create payment proof")
	}

	view := toView(proof)
	return &view, nil
}

func (s *service) ListPending(ctx context.Context, actor Actor) ([]PendingProofItem, error) {
	if actor.Role != enums.RoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can review payment proofs")
	}

	rows, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list pending proofs")
	}

	items := make([]PendingProofItem, len(rows))
	for i := range rows {
		items[i] = toPendingItem(&rows[i])
	}
	return items, nil
}

func (s *service) Approve(ctx context.Context, actor Actor, id uuid.UUID) (*ProofView, error) {
	if actor.Role != enums.RoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can review payment proofs")
	}

	proof, license, err := s.repo.Approve(ctx, id, actor.UserID, s.now())
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment proof not found")
		case errors.Is(err, ErrProofNotPending):
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "proof already reviewed")
		case errors.Is(err, ErrLicenseUnavailable):
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "License already sold or not available")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "approve payment proof")
	}

	if seller, err := s.users.FindByID(ctx, license.SellerID); err == nil {
		if buyer, err := s.users.FindByID(ctx, proof.BuyerID); err == nil {
			s.notify.ProofApproved(ctx, license, seller, buyer)
		}
	}

	view := toView(proof)
	return &view, nil
}

func (s *service) Reject(ctx context.Context, actor Actor, id uuid.UUID) (*ProofView, error) {
	if actor.Role != enums.RoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can review payment proofs")
	}

	proof, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment proof not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup payment proof")
	}

	now := s.now()
	rejected, err := s.repo.Reject(ctx, id, actor.UserID, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reject payment proof")
	}
	if !rejected {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "proof already reviewed")
	}
	proof.Status = enums.ProofStatusRejected
	reviewer := actor.UserID
	proof.ReviewedBy = &reviewer
	proof.ReviewedAt = &now

	if license, err := s.licenses.FindByID(ctx, proof.LicenseID); err == nil {
		if buyer, err := s.users.FindByID(ctx, proof.BuyerID); err == nil {
			s.notify.ProofRejected(ctx, license, buyer)
		}
	}

	view := toView(proof)
	return &view, nil
}
