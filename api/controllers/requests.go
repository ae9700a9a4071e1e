package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/coloriginz/supplier-onboarding-backend/api/middleware"
	"github.com/coloriginz/supplier-onboarding-backend/api/responses"
	"github.com/coloriginz/supplier-onboarding-backend/api/validators"
	"github.com/coloriginz/supplier-onboarding-backend/internal/audit"
	"github.com/coloriginz/supplier-onboarding-backend/internal/files"
	"github.com/coloriginz/supplier-onboarding-backend/internal/lifecycle"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/enums"
	pkgerrors "github.com/coloriginz/supplier-onboarding-backend/pkg/errors"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/logger"
)

type createRequestBody struct {
	SupplierType string  `json:"supplier_type" validate:"required"`
	Region       string  `json:"region" validate:"required"`
	Label        string  `json:"label" validate:"required"`
	SelfFill     bool    `json:"self_fill"`
	CompanyName  *string `json:"company_name,omitempty"`
	ContactName  *string `json:"contact_name,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty" validate:"omitempty,email"`
}

// RequestCreate starts a new onboarding case.
func RequestCreate(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createRequestBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.Create(r.Context(), middleware.ActorFromContext(r.Context()), lifecycle.CreateInput{
			SupplierType: enums.SupplierType(body.SupplierType),
			Region:       enums.Region(body.Region),
			Label:        enums.Label(body.Label),
			SelfFill:     body.SelfFill,
			CompanyName:  body.CompanyName,
			ContactName:  body.ContactName,
			ContactEmail: body.ContactEmail,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toRequestResponse(request))
	}
}

// RequestList pages through the cases visible under the actor's labels.
func RequestList(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.PageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := validators.StatusParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), middleware.ActorFromContext(r.Context()), lifecycle.ListInput{
			Status: status,
			Page:   page,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, toRequestResponses(result.Items), result.NextCursor)
	}
}

// RequestDetail returns one case with its files.
func RequestDetail(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "requestId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.Get(r.Context(), middleware.ActorFromContext(r.Context()), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toRequestResponse(request))
	}
}

// RequestAudit returns the case history, newest first. Label visibility is
// enforced by loading the request first.
func RequestAudit(svc lifecycle.Service, auditSvc audit.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "requestId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, err := svc.Get(r.Context(), middleware.ActorFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := validators.PageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := auditSvc.List(r.Context(), id, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, toAuditResponses(result.Items), result.NextCursor)
	}
}

type fileMetaBody struct {
	FileType    string `json:"file_type" validate:"required"`
	FileName    string `json:"file_name" validate:"required"`
	StoragePath string `json:"storage_path" validate:"required"`
}

func toFileMetas(bodies []fileMetaBody) []lifecycle.FileMeta {
	out := make([]lifecycle.FileMeta, len(bodies))
	for i, body := range bodies {
		out[i] = lifecycle.FileMeta{
			FileType:    enums.FileType(body.FileType),
			FileName:    body.FileName,
			StoragePath: body.StoragePath,
		}
	}
	return out
}

type purchaserSubmitBody struct {
	Incoterm          *string          `json:"incoterm,omitempty"`
	PaymentTerm       *string          `json:"payment_term,omitempty"`
	AccountManager    *string          `json:"account_manager,omitempty"`
	CommissionPercent *decimal.Decimal `json:"commission_percent,omitempty"`
	Files             []fileMetaBody   `json:"files,omitempty" validate:"dive"`
}

// RequestPurchaserSubmit records the purchasing review and advances the case
// to finance.
func RequestPurchaserSubmit(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "requestId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body purchaserSubmitBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.PurchaserSubmit(r.Context(), middleware.ActorFromContext(r.Context()), id, lifecycle.PurchaserSubmitInput{
			Incoterm:          body.Incoterm,
			PaymentTerm:       body.PaymentTerm,
			AccountManager:    body.AccountManager,
			CommissionPercent: body.CommissionPercent,
			Files:             toFileMetas(body.Files),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toRequestResponse(request))
	}
}

type financeSubmitBody struct {
	CreditorNumber string `json:"creditor_number" validate:"required"`
}

// RequestFinanceSubmit assigns the creditor number and advances the case to
// the ERP stage.
func RequestFinanceSubmit(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "requestId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body financeSubmitBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.FinanceSubmit(r.Context(), middleware.ActorFromContext(r.Context()), id, lifecycle.FinanceSubmitInput{
			CreditorNumber: body.CreditorNumber,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toRequestResponse(request))
	}
}

type erpSubmitBody struct {
	KbtCode string `json:"kbt_code" validate:"required"`
}

// RequestERPSubmit assigns the ERP code and completes the case.
func RequestERPSubmit(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "requestId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body erpSubmitBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.ERPSubmit(r.Context(), middleware.ActorFromContext(r.Context()), id, lifecycle.ERPSubmitInput{
			KbtCode: body.KbtCode,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toRequestResponse(request))
	}
}

type changeTypeBody struct {
	SupplierType string `json:"supplier_type" validate:"required"`
}

// RequestChangeType reclassifies the supplier without moving the status.
func RequestChangeType(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "requestId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body changeTypeBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.ChangeType(r.Context(), middleware.ActorFromContext(r.Context()), id, lifecycle.ChangeTypeInput{
			SupplierType: enums.SupplierType(body.SupplierType),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toRequestResponse(request))
	}
}

// requestAction wraps the body-less transitions.
func requestAction(action func(r *http.Request, id string) (any, error), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := action(r, chi.URLParam(r, "requestId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// RequestCancel closes the case, keeping its data for a later reopen.
func RequestCancel(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return requestAction(func(r *http.Request, raw string) (any, error) {
		id, err := validators.PathUUID(raw)
		if err != nil {
			return nil, err
		}
		request, err := svc.Cancel(r.Context(), middleware.ActorFromContext(r.Context()), id)
		if err != nil {
			return nil, err
		}
		return toRequestResponse(request), nil
	}, logg)
}

// RequestReopen reopens a cancelled case at the stage its data supports.
func RequestReopen(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return requestAction(func(r *http.Request, raw string) (any, error) {
		id, err := validators.PathUUID(raw)
		if err != nil {
			return nil, err
		}
		request, err := svc.Reopen(r.Context(), middleware.ActorFromContext(r.Context()), id)
		if err != nil {
			return nil, err
		}
		return toRequestResponse(request), nil
	}, logg)
}

// RequestResendInvitation rotates the invitation token and re-mails it.
func RequestResendInvitation(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return requestAction(func(r *http.Request, raw string) (any, error) {
		id, err := validators.PathUUID(raw)
		if err != nil {
			return nil, err
		}
		request, err := svc.ResendInvitation(r.Context(), middleware.ActorFromContext(r.Context()), id)
		if err != nil {
			return nil, err
		}
		return toRequestResponse(request), nil
	}, logg)
}

// RequestRemind nudges whoever the case is currently waiting on.
func RequestRemind(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return requestAction(func(r *http.Request, raw string) (any, error) {
		id, err := validators.PathUUID(raw)
		if err != nil {
			return nil, err
		}
		if err := svc.SendReminder(r.Context(), middleware.ActorFromContext(r.Context()), id); err != nil {
			return nil, err
		}
		return map[string]string{"status": "sent"}, nil
	}, logg)
}

const uploadFormField = "file"

// RequestFileUpload stages a document for a later submission. The multipart
// field "file" carries the content; "file_type" selects the document kind.
func RequestFileUpload(svc lifecycle.Service, fileSvc files.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "requestId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		// Visibility check: staff may only stage files for cases they can see.
		if _, err := svc.Get(r.Context(), middleware.ActorFromContext(r.Context()), id); err != nil {
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
			RequestID:   id,
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
