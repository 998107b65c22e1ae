package licenses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/softsellhq/softsell-backend/pkg/db/models"
	"github.com/softsellhq/softsell-backend/pkg/enums"
	pkgerrors "github.com/softsellhq/softsell-backend/pkg/errors"
	pkgpagination "github.com/softsellhq/softsell-backend/pkg/pagination"
)

// Service defines the behavior needed by the license controller.
type Service interface {
	Submit(ctx context.Context, actor Actor, input SubmitInput) (*LicenseView, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	GetByID(ctx context.Context, actor Actor, id uuid.UUID) (*LicenseView, error)
	Approve(ctx context.Context, actor Actor, id uuid.UUID, price decimal.Decimal) (*LicenseView, error)
	Reject(ctx context.Context, actor Actor, id uuid.UUID) (*LicenseView, error)
	Buy(ctx context.Context, actor Actor, id uuid.UUID) (*LicenseView, error)
	ListMyPurchases(ctx context.Context, params ListParams) (*ListResult, error)
	MarkAsPaid(ctx context.Context, actor Actor, id uuid.UUID) (*LicenseView, error)
	ListExpiredUnpaid(ctx context.Context, actor Actor) ([]PayoutItem, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
}

type licenseRepository interface {
	Create(ctx context.Context, license *models.License) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.License, error)
	List(ctx context.Context, q listQuery) ([]models.License, error)
	ApprovePending(ctx context.Context, id uuid.UUID, price decimal.Decimal) (bool, error)
	RejectPending(ctx context.Context, id uuid.UUID) (bool, error)
	MarkSold(ctx context.Context, id, buyerID uuid.UUID, expiry time.Time) (bool, error)
	MarkPaid(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
	DeletePending(ctx context.Context, id uuid.UUID) (bool, error)
	ListExpiredUnpaid(ctx context.Context, now time.Time) ([]models.License, error)
}

type userLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Notifier delivers lifecycle emails. Implementations are best effort: they log
// delivery failures instead of returning them, so a mail outage never rolls
// back a state transition.
type Notifier interface {
	LicenseSubmitted(ctx context.Context, license *models.License, seller *models.User)
	LicenseApproved(ctx context.Context, license *models.License, seller *models.User)
	LicensePurchased(ctx context.Context, license *models.License, seller, buyer *models.User)
	PaymentCompleted(ctx context.Context, license *models.License, seller, buyer *models.User)
}

type service struct {
	repo   licenseRepository
	users  userLookup
	notify Notifier
	now    func() time.Time
}

// ServiceParams bundles the dependencies required to build a license service.
type ServiceParams struct {
	Repo     licenseRepository
	UserRepo userLookup
	Notifier Notifier
}

// NewService constructs a license service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("license repository is required")
	}
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	return &service{
		repo:   params.Repo,
		users:  params.UserRepo,
		notify: params.Notifier,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Submit(ctx context.Context, actor Actor, input SubmitInput) (*LicenseView, error) {
	if actor.Role != enums.RoleSeller {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only sellers can list licenses")
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if input.DaysToSell < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "days to sell must be at least 1")
	}
	if strings.TrimSpace(input.CredentialUsername) == "" || strings.TrimSpace(input.CredentialPassword) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account credentials are required")
	}
	if strings.TrimSpace(input.ContactNumber) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact number is required")
	}

	license := &models.License{
		Title:              title,
		Description:        input.Description,
		Category:           enums.NormalizeLicenseCategory(input.Category),
		Status:             enums.LicenseStatusPending,
		DaysToSell:         input.DaysToSell,
		DurationInDays:     input.DaysToSell,
		CredentialUsername: strings.TrimSpace(input.CredentialUsername),
		CredentialPassword: input.CredentialPassword,
		ContactNumber:      strings.TrimSpace(input.ContactNumber),
		SellerID:           actor.UserID,
	}
	if err := s.repo.Create(ctx, license); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create license")
	}

	if seller, err := s.users.FindByID(ctx, actor.UserID); err == nil {
		s.notify.LicenseSubmitted(ctx, license, seller)
	}

	view := toView(actor, license)
	return &view, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	q := listQuery{}
	switch params.Actor.Role {
	case enums.RoleAdmin:
		// admins review everything
	case enums.RoleSeller:
		sellerID := params.Actor.UserID
		q.sellerID = &sellerID
	default:
		q.statuses = []enums.LicenseStatus{enums.LicenseStatusApproved}
		q.unsoldOnly = true
	}
	return s.page(ctx, params, q)
}

func (s *service) ListMyPurchases(ctx context.Context, params ListParams) (*ListResult, error) {
	buyerID := params.Actor.UserID
	return s.page(ctx, params, listQuery{buyerID: &buyerID})
}

func (s *service) page(ctx context.Context, params ListParams, q listQuery) (*ListResult, error) {
	cursor, err := pkgpagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pkgpagination.NormalizeLimit(params.Limit)
	q.cursor = cursor
	q.limit = limit + 1

	rows, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list licenses")
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pkgpagination.EncodeCursor(pkgpagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return &ListResult{
		Items:  toViews(params.Actor, rows),
		Cursor: next,
	}, nil
}

func (s *service) GetByID(ctx context.Context, actor Actor, id uuid.UUID) (*LicenseView, error) {
	license, err := s.findLicense(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canSee(actor, license) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Only eligible buyers can view this license")
	}
	view := toView(actor, license)
	return &view, nil
}

// canSee hides listings that are not part of the actor's marketplace surface.
// Approved listings are browsable by shoppers; sellers see only their own rows,
// and everything else is visible only to the parties involved and to admins.
func canSee(actor Actor, m *models.License) bool {
	if actor.Role == enums.RoleAdmin {
		return true
	}
	if m.SellerID == actor.UserID {
		return true
	}
	if m.BuyerID != nil && *m.BuyerID == actor.UserID {
		return true
	}
	return actor.Role == enums.RoleUser && m.Status == enums.LicenseStatusApproved
}

func (s *service) Approve(ctx context.Context, actor Actor, id uuid.UUID, price decimal.Decimal) (*LicenseView, error) {
	if actor.Role != enums.RoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can approve licenses")
	}
	if !price.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than zero")
	}

	license, err := s.findLicense(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.ApprovePending(ctx, id, price)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "approve license")
	}
	if !updated {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "license already finalized")
	}
	license.Status = enums.LicenseStatusApproved
	license.Price = &price

	if seller, err := s.users.FindByID(ctx, license.SellerID); err == nil {
		s.notify.LicenseApproved(ctx, license, seller)
	}

	view := toView(actor, license)
	return &view, nil
}

func (s *service) Reject(ctx context.Context, actor Actor, id uuid.UUID) (*LicenseView, error) {
	if actor.Role != enums.RoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can reject licenses")
	}

	license, err := s.findLicense(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.RejectPending(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reject license")
	}
	if !updated {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "license already finalized")
	}
	license.Status = enums.LicenseStatusRejected

	view := toView(actor, license)
	return &view, nil
}

func (s *service) Buy(ctx context.Context, actor Actor, id uuid.UUID) (*LicenseView, error) {
	license, err := s.findLicense(ctx, id)
	if err != nil {
		return nil, err
	}
	if license.SellerID == actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "you cannot buy your own listing")
	}

	now := s.now()
	expiry := now.AddDate(0, 0, license.DaysToSell)
	sold, err := s.repo.MarkSold(ctx, id, actor.UserID, expiry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "buy license")
	}
	if !sold {
		if license.Status == enums.LicenseStatusSold {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "License already sold")
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "License not available")
	}
	license.Status = enums.LicenseStatusSold
	buyerID := actor.UserID
	license.BuyerID = &buyerID
	license.ExpiryDate = &expiry

	s.notifyPurchase(ctx, license)

	view := toView(actor, license)
	return &view, nil
}

func (s *service) notifyPurchase(ctx context.Context, license *models.License) {
	seller, err := s.users.FindByID(ctx, license.SellerID)
	if err != nil || license.BuyerID == nil {
		return
	}
	buyer, err := s.users.FindByID(ctx, *license.BuyerID)
	if err != nil {
		return
	}
	s.notify.LicensePurchased(ctx, license, seller, buyer)
}

func (s *service) MarkAsPaid(ctx context.Context, actor Actor, id uuid.UUID) (*LicenseView, error) {
	if actor.Role != enums.RoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can record payouts")
	}

	license, err := s.findLicense(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	paid, err := s.repo.MarkPaid(ctx, id, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark license paid")
	}
	if !paid {
		switch {
		case license.PaidToSeller:
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payout already recorded")
		case license.Status != enums.LicenseStatusSold:
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "license has not been sold")
		default:
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "license has not expired yet")
		}
	}
	license.PaidToSeller = true

	if seller, err := s.users.FindByID(ctx, license.SellerID); err == nil && license.BuyerID != nil {
		if buyer, err := s.users.FindByID(ctx, *license.BuyerID); err == nil {
			s.notify.PaymentCompleted(ctx, license, seller, buyer)
		}
	}

	view := toView(actor, license)
	return &view, nil
}

func (s *service) ListExpiredUnpaid(ctx context.Context, actor Actor) ([]PayoutItem, error) {
	if actor.Role != enums.RoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can view the payout queue")
	}

	rows, err := s.repo.ListExpiredUnpaid(ctx, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list expired licenses")
	}

	items := make([]PayoutItem, len(rows))
	for i := range rows {
		items[i] = PayoutItem{
			License: toView(actor, &rows[i]),
			Seller:  toPayoutParty(rows[i].Seller),
			Buyer:   toPayoutParty(rows[i].Buyer),
		}
	}
	return items, nil
}

func (s *service) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	license, err := s.findLicense(ctx, id)
	if err != nil {
		return err
	}
	if actor.Role != enums.RoleAdmin && license.SellerID != actor.UserID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "you can only remove your own listings")
	}

	deleted, err := s.repo.DeletePending(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete license")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "only pending listings can be removed")
	}
	return nil
}

func (s *service) findLicense(ctx context.Context, id uuid.UUID) (*models.License, error) {
	license, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "license not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup license")
	}
	return license, nil
}
