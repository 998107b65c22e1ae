package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/softsellhq/softsell-backend/api/middleware"
	"github.com/softsellhq/softsell-backend/pkg/enums"
	pkgerrors "github.com/softsellhq/softsell-backend/pkg/errors"
)

// callerFromRequest resolves the authenticated user id and role seeded by the
// auth middleware.
func callerFromRequest(r *http.Request) (uuid.UUID, enums.Role, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	role, err := enums.ParseRole(middleware.RoleFromContext(r.Context()))
	if err != nil {
		return uuid.Nil, "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid actor role")
	}
	return userID, role, nil
}
