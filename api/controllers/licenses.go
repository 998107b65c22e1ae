package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/softsellhq/softsell-backend/api/responses"
	"github.com/softsellhq/softsell-backend/api/validators"
	"github.com/softsellhq/softsell-backend/internal/licenses"
	pkgerrors "github.com/softsellhq/softsell-backend/pkg/errors"
	"github.com/softsellhq/softsell-backend/pkg/logger"
	pkgpagination "github.com/softsellhq/softsell-backend/pkg/pagination"
)

type licenseSubmitRequest struct {
	Title              string  `json:"title" validate:"required"`
	Description        *string `json:"description"`
	Category           string  `json:"category" validate:"required"`
	DaysToSell         int     `json:"days_to_sell" validate:"required,gt=0"`
	CredentialUsername string  `json:"credential_username" validate:"required"`
	CredentialPassword string  `json:"credential_password" validate:"required"`
	ContactNumber      string  `json:"contact_number" validate:"required"`
}

type licenseApproveRequest struct {
	Price decimal.Decimal `json:"price" validate:"required"`
}

// LicenseSubmit lists a new license for admin review.
func LicenseSubmit(svc licenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := licenseActor(r, svc, logg, w)
		if err != nil {
			return
		}

		var body licenseSubmitRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Submit(r.Context(), actor, licenses.SubmitInput{
			Title:              body.Title,
			Description:        body.Description,
			Category:           body.Category,
			DaysToSell:         body.DaysToSell,
			CredentialUsername: body.CredentialUsername,
			CredentialPassword: body.CredentialPassword,
			ContactNumber:      body.ContactNumber,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// LicenseList returns the role-scoped marketplace listing.
func LicenseList(svc licenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := licenseActor(r, svc, logg, w)
		if err != nil {
			return
		}

		result, err := svc.List(r.Context(), licenses.ListParams{
			Actor:  actor,
			Params: paginationFromQuery(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// LicenseGet returns a single license with role-based masking applied.
func LicenseGet(svc licenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := licenseActor(r, svc, logg, w)
		if err != nil {
			return
		}

		id, err := licenseIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetByID(r.Context(), actor, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// LicenseApprove approves a pending license and stamps the sale price.
func LicenseApprove(svc licenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := licenseActor(r, svc, logg, w)
		if err != nil {
			return
		}

		id, err := licenseIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body licenseApproveRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Approve(r.Context(), actor, id, body.Price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// LicenseReject rejects a pending license.
func LicenseReject(svc licenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := licenseActor(r, svc, logg, w)
		if err != nil {
			return
		}

		id, err := licenseIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Reject(r.Context(), actor, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// LicenseBuy purchases an approved license directly.
func LicenseBuy(svc licenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := licenseActor(r, svc, logg, w)
		if err != nil {
			return
		}

		id, err := licenseIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Buy(r.Context(), actor, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// LicenseMyPurchases lists the caller's purchased licenses with credentials.
func LicenseMyPurchases(svc licenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := licenseActor(r, svc, logg, w)
		if err != nil {
			return
		}

		result, err := svc.ListMyPurchases(r.Context(), licenses.ListParams{
			Actor:  actor,
			Params: paginationFromQuery(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// LicenseMarkPaid records the seller payout for an expired sold license.
func LicenseMarkPaid(svc licenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := licenseActor(r, svc, logg, w)
		if err != nil {
			return
		}

		id, err := licenseIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.MarkAsPaid(r.Context(), actor, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// LicenseExpiredSold lists the admin payout queue.
func LicenseExpiredSold(svc licenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := licenseActor(r, svc, logg, w)
		if err != nil {
			return
		}

		items, err := svc.ListExpiredUnpaid(r.Context(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}

// LicenseDelete removes a pending listing.
func LicenseDelete(svc licenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := licenseActor(r, svc, logg, w)
		if err != nil {
			return
		}

		id, err := licenseIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), actor, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func licenseActor(r *http.Request, svc licenses.Service, logg *logger.Logger, w http.ResponseWriter) (licenses.Actor, error) {
	if svc == nil {
		err := pkgerrors.New(pkgerrors.CodeInternal, "license service unavailable")
		responses.WriteError(r.Context(), logg, w, err)
		return licenses.Actor{}, err
	}
	userID, role, err := callerFromRequest(r)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return licenses.Actor{}, err
	}
	return licenses.Actor{UserID: userID, Role: role}, nil
}

func licenseIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid license id")
	}
	return id, nil
}

func paginationFromQuery(r *http.Request) pkgpagination.Params {
	params := pkgpagination.Params{Cursor: r.URL.Query().Get("cursor")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			params.Limit = limit
		}
	}
	return params
}
