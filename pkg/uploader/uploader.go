package uploader

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	cldapi "github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/softsellhq/softsell-backend/pkg/config"
	pkgerrors "github.com/softsellhq/softsell-backend/pkg/errors"
)

// Uploader stores an image and returns its public URL.
type Uploader interface {
	UploadImage(ctx context.Context, dataURI string, publicIDHint string) (string, error)
}

// Client uploads images to Cloudinary.
type Client struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// New builds a Cloudinary-backed uploader from configuration.
func New(cfg config.CloudinaryConfig) (*Client, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary cloud name, api key, and api secret are required")
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("initializing cloudinary: %w", err)
	}
	return &Client{cld: cld, folder: cfg.Folder}, nil
}

// UploadImage pushes a base64 image data URI to Cloudinary and returns the secure URL.
func (c *Client) UploadImage(ctx context.Context, dataURI string, publicIDHint string) (string, error) {
	if err := ValidateImageDataURI(dataURI); err != nil {
		return "", err
	}

	params := cldapi.UploadParams{
		Folder: c.folder,
	}
	if hint := sanitizePublicID(publicIDHint); hint != "" {
		params.PublicID = hint
	}

	resp, err := c.cld.Upload.Upload(ctx, dataURI, params)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "uploading image")
	}
	if resp == nil || resp.SecureURL == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "cloudinary returned no url")
	}
	return resp.SecureURL, nil
}

// ValidateImageDataURI checks the payload is a base64 image data URI.
func ValidateImageDataURI(dataURI string) error {
	trimmed := strings.TrimSpace(dataURI)
	if trimmed == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "image payload is required")
	}
	if !strings.HasPrefix(trimmed, "data:image/") {
		return pkgerrors.New(pkgerrors.CodeValidation, "image payload must be a data:image/* URI")
	}
	if !strings.Contains(trimmed, ";base64,") {
		return pkgerrors.New(pkgerrors.CodeValidation, "image payload must be base64 encoded")
	}
	return nil
}

func sanitizePublicID(hint string) string {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range hint {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
