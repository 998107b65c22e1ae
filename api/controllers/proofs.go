package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/softsellhq/softsell-backend/api/responses"
	"github.com/softsellhq/softsell-backend/api/validators"
	"github.com/softsellhq/softsell-backend/internal/proofs"
	pkgerrors "github.com/softsellhq/softsell-backend/pkg/errors"
	"github.com/softsellhq/softsell-backend/pkg/logger"
)

type proofSubmitRequest struct {
	LicenseID        string `json:"license_id" validate:"required"`
	TxnID            string `json:"txn_id" validate:"required"`
	ScreenshotBase64 string `json:"screenshot_base64" validate:"required"`
}

// ProofSubmit records a buyer's payment evidence for admin review.
func ProofSubmit(svc proofs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := proofActor(r, svc, logg, w)
		if err != nil {
			return
		}

		var body proofSubmitRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		licenseID, err := uuid.Parse(strings.TrimSpace(body.LicenseID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid license_id"))
			return
		}

		view, err := svc.Submit(r.Context(), actor, proofs.SubmitInput{
			LicenseID:        licenseID,
			TxnID:            body.TxnID,
			ScreenshotBase64: body.ScreenshotBase64,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// ProofListPending lists proofs awaiting admin review.
func ProofListPending(svc proofs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := proofActor(r, svc, logg, w)
		if err != nil {
			return
		}

		items, err := svc.ListPending(r.Context(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}

// ProofApprove approves a proof and sells the license to its buyer.
func ProofApprove(svc proofs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := proofActor(r, svc, logg, w)
		if err != nil {
			return
		}

		id, err := proofIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Approve(r.Context(), actor, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// ProofReject rejects a proof.
func ProofReject(svc proofs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := proofActor(r, svc, logg, w)
		if err != nil {
			return
		}

		id, err := proofIDFromRequest(r)
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

func proofActor(r *http.Request, svc proofs.Service, logg *logger.Logger, w http.ResponseWriter) (proofs.Actor, error) {
	if svc == nil {
		err := pkgerrors.New(pkgerrors.CodeInternal, "proof service unavailable")
		responses.WriteError(r.Context(), logg, w, err)
		return proofs.Actor{}, err
	}
	userID, role, err := callerFromRequest(r)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return proofs.Actor{}, err
	}
	return proofs.Actor{UserID: userID, Role: role}, nil
}

func proofIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid proof id")
	}
	return id, nil
}
