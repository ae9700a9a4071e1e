package controllers

import (
	"net/http"

	"github.com/coloriginz/supplier-onboarding-backend/api/responses"
	"github.com/coloriginz/supplier-onboarding-backend/api/validators"
	"github.com/coloriginz/supplier-onboarding-backend/internal/vat"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/logger"
)

type vatCheckBody struct {
	VATNumber string `json:"vat_number" validate:"required"`
}

// VATCheck verifies an EU VAT number against VIES and returns the registered
// company details when available.
func VATCheck(checker vat.Checker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body vatCheckBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := checker.Check(r.Context(), body.VATNumber)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
