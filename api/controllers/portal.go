package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/coloriginz/supplier-onboarding-backend/api/responses"
	"github.com/coloriginz/supplier-onboarding-backend/api/validators"
	"github.com/coloriginz/supplier-onboarding-backend/internal/files"
	"github.com/coloriginz/supplier-onboarding-backend/internal/lifecycle"
	pkgerrors "github.com/coloriginz/supplier-onboarding-backend/pkg/errors"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/logger"
)

const birthDateLayout = "2006-01-02"

// PortalGetRequest serves the supplier's view of their own case, keyed by the
// invitation token.
func PortalGetRequest(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		request, err := svc.GetByInvitationToken(r.Context(), chi.URLParam(r, "token"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toPortalResponse(request))
	}
}

type supplierSubmitBody struct {
	CompanyName  string  `json:"company_name" validate:"required"`
	Street       string  `json:"street" validate:"required"`
	PostalCode   string  `json:"postal_code" validate:"required"`
	City         string  `json:"city" validate:"required"`
	Country      string  `json:"country" validate:"required"`
	ContactName  string  `json:"contact_name" validate:"required"`
	ContactEmail string  `json:"contact_email" validate:"required,email"`
	ContactPhone *string `json:"contact_phone,omitempty"`

	CocNumber *string `json:"coc_number,omitempty"`
	VATNumber *string `json:"vat_number,omitempty"`
	IBAN      *string `json:"iban,omitempty"`
	BankName  *string `json:"bank_name,omitempty"`

	DirectorName      *string `json:"director_name,omitempty"`
	DirectorBirthDate *string `json:"director_birth_date,omitempty"`

	AuctionNumber   *string `json:"auction_number,omitempty"`
	AuctionLocation *string `json:"auction_location,omitempty"`

	Files []fileMetaBody `json:"files,omitempty" validate:"dive"`
}

// PortalSubmit consumes the invitation token and records the supplier's form.
func PortalSubmit(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body supplierSubmitBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var birthDate *time.Time
		if body.DirectorBirthDate != nil {
			parsed, err := time.Parse(birthDateLayout, *body.DirectorBirthDate)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "director_birth_date must be YYYY-MM-DD"))
				return
			}
			birthDate = &parsed
		}

		request, err := svc.SupplierSubmit(r.Context(), chi.URLParam(r, "token"), lifecycle.SupplierSubmitInput{
			CompanyName:       body.CompanyName,
			Street:            body.Street,
			PostalCode:        body.PostalCode,
			City:              body.City,
			Country:           body.Country,
			ContactName:       body.ContactName,
			ContactEmail:      body.ContactEmail,
			ContactPhone:      body.ContactPhone,
			CocNumber:         body.CocNumber,
			VATNumber:         body.VATNumber,
			IBAN:              body.IBAN,
			BankName:          body.BankName,
			DirectorName:      body.DirectorName,
			DirectorBirthDate: birthDate,
			AuctionNumber:     body.AuctionNumber,
			AuctionLocation:   body.AuctionLocation,
			Files:             toFileMetas(body.Files),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toPortalResponse(request))
	}
}

// PortalFileUpload stages a document before submission. The token is only
// read, not consumed.
func PortalFileUpload(svc lifecycle.Service, fileSvc files.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		request, err := svc.GetByInvitationToken(r.Context(), chi.URLParam(r, "token"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		file, header, err := r.FormFile(uploadFormField)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "multipart field \"file\" is required"))
			return
		}
		defer func() { _ = file.Close() }()

		meta, err := fileSvc.Upload(r.Context(), files.UploadInput{
			RequestID:   request.ID,
			FileType:    r.FormValue("file_type"),
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
			Size:        header.Size,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, fileMetaBody{
			FileType:    string(meta.FileType),
			FileName:    meta.FileName,
			StoragePath: meta.StoragePath,
		})
	}
}
