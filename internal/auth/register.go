package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/softsellhq/softsell-backend/internal/users"
	"github.com/softsellhq/softsell-backend/pkg/enums"
	pkgerrors "github.com/softsellhq/softsell-backend/pkg/errors"
	"github.com/softsellhq/softsell-backend/pkg/security"
)

func (s *service) Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	role, err := enums.ParseRole(req.Role)
	if err != nil || role == enums.RoleAdmin {
		// admin accounts are provisioned out of band
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role must be user or seller")
	}

	var qrCodeURL *string
	if role == enums.RoleSeller {
		if req.QRCodeBase64 == nil || strings.TrimSpace(*req.QRCodeBase64) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sellers must upload a payment QR code")
		}
		url, err := s.uploads.UploadImage(ctx, *req.QRCodeBase64, "qr_"+email)
		if err != nil {
			return nil, err
		}
		qrCodeURL = &url
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Email:         email,
		PasswordHash:  passwordHash,
		Name:          strings.TrimSpace(req.Name),
		Role:          role,
		ContactNumber: req.ContactNumber,
		QRCodeURL:     qrCodeURL,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	return users.FromModel(user), nil
}
