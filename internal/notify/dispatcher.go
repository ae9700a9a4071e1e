package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/coloriginz/supplier-onboarding-backend/internal/users"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/db/models"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/enums"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/mail"
)

// Suppliers have no account, so their mails default to Dutch.
const supplierLanguage = enums.LanguageNL

type dispatcher struct {
	users   users.Repository
	sender  mail.Sender
	baseURL string
	now     func() time.Time
}

// Params wires the dispatcher dependencies.
type Params struct {
	Users   users.Repository
	Sender  mail.Sender
	BaseURL string
	Clock   func() time.Time
}

// NewDispatcher builds the notification dispatcher.
func NewDispatcher(params Params) (Dispatcher, error) {
	if params.Users == nil {
		return nil, errors.New("users repository is required")
	}
	if params.Sender == nil {
		return nil, errors.New("mail sender is required")
	}
	now := params.Clock
	if now == nil {
		now = time.Now
	}
	return &dispatcher{
		users:   params.Users,
		sender:  params.Sender,
		baseURL: strings.TrimRight(params.BaseURL, "/"),
		now:     now,
	}, nil
}

func (d *dispatcher) Dispatch(ctx context.Context, input Input) error {
	if input.Request == nil {
		return errors.New("request is required")
	}

	switch input.Event {
	case EventInvitationSent:
		return d.mailSupplier(ctx, input.Request, enums.MailSupplierInvitation, d.invitationVars(input))
	case EventSupplierSubmitted:
		return multierr.Combine(
			d.mailCreator(ctx, input.Request, enums.MailSupplierSubmitted),
			d.mailSupplier(ctx, input.Request, enums.MailSupplierConfirmation, d.baseVars(input.Request)),
		)
	case EventAwaitingFinance:
		return d.mailRole(ctx, input.Request, enums.UserRoleFinance, enums.MailAwaitingFinance)
	case EventAwaitingERP:
		return d.mailRole(ctx, input.Request, enums.UserRoleERP, enums.MailAwaitingERP)
	case EventCompleted:
		return multierr.Combine(
			d.mailRole(ctx, input.Request, enums.UserRoleFinance, enums.MailRequestCompleted),
			d.mailCreator(ctx, input.Request, enums.MailRequestCompleted),
		)
	case EventReminder:
		return d.dispatchReminder(ctx, input.Request)
	default:
		return fmt.Errorf("unknown notification event %q", input.Event)
	}
}

// dispatchReminder targets whoever owes the next action for the current stage.
func (d *dispatcher) dispatchReminder(ctx context.Context, request *models.SupplierRequest) error {
	switch request.Status {
	case enums.RequestStatusInvitationSent:
		return d.mailSupplier(ctx, request, enums.MailReminder, d.reminderVars(request))
	case enums.RequestStatusAwaitingPurchaser:
		return d.mailCreatorWith(ctx, request, enums.MailReminder, d.reminderVars(request))
	case enums.RequestStatusAwaitingFinance:
		return d.mailRoleWith(ctx, request, enums.UserRoleFinance, enums.MailReminder, d.reminderVars(request))
	case enums.RequestStatusAwaitingERP:
		return d.mailRoleWith(ctx, request, enums.UserRoleERP, enums.MailReminder, d.reminderVars(request))
	default:
		return fmt.Errorf("no reminder recipients for status %q", request.Status)
	}
}

func (d *dispatcher) mailSupplier(ctx context.Context, request *models.SupplierRequest, template enums.MailTemplate, vars map[string]string) error {
	if request.ContactEmail == nil || *request.ContactEmail == "" {
		return fmt.Errorf("request %s has no supplier contact email", request.ID)
	}
	return d.sender.Send(ctx, *request.ContactEmail, template, vars, supplierLanguage)
}

func (d *dispatcher) mailCreator(ctx context.Context, request *models.SupplierRequest, template enums.MailTemplate) error {
	return d.mailCreatorWith(ctx, request, template, d.baseVars(request))
}

func (d *dispatcher) mailCreatorWith(ctx context.Context, request *models.SupplierRequest, template enums.MailTemplate, vars map[string]string) error {
	creator, err := d.users.FindByID(ctx, request.CreatedByID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("looking up request creator: %w", err)
	}
	if !creator.IsActive || !creator.ReceiveEmails {
		return nil
	}
	return d.sender.Send(ctx, creator.Email, template, vars, creator.Language)
}

func (d *dispatcher) mailRole(ctx context.Context, request *models.SupplierRequest, role enums.UserRole, template enums.MailTemplate) error {
	return d.mailRoleWith(ctx, request, role, template, d.baseVars(request))
}

func (d *dispatcher) mailRoleWith(ctx context.Context, request *models.SupplierRequest, role enums.UserRole, template enums.MailTemplate, vars map[string]string) error {
	recipients, err := d.users.ListActiveByRole(ctx, role, true)
	if err != nil {
		return fmt.Errorf("resolving %s recipients: %w", role, err)
	}

	var combined error
	for _, recipient := range recipients {
		if err := d.sender.Send(ctx, recipient.Email, template, vars, recipient.Language); err != nil {
			combined = multierr.Append(combined, fmt.Errorf("notifying %s: %w", recipient.Email, err))
		}
	}
	return combined
}

func (d *dispatcher) baseVars(request *models.SupplierRequest) map[string]string {
	vars := map[string]string{
		"label":       string(request.Label),
		"request_url": d.baseURL + "/requests/" + request.ID.String(),
	}
	if request.CompanyName != nil {
		vars["company_name"] = *request.CompanyName
	}
	if request.ContactName != nil {
		vars["contact_name"] = *request.ContactName
	}
	if request.CreditorNumber != nil {
		vars["creditor_number"] = *request.CreditorNumber
	}
	return vars
}

func (d *dispatcher) invitationVars(input Input) map[string]string {
	vars := d.baseVars(input.Request)
	vars["portal_url"] = d.baseURL + "/supplier/" + input.InvitationToken
	if input.Request.InvitationExpiresAt != nil {
		vars["expires_at"] = input.Request.InvitationExpiresAt.Format("2006-01-02")
	}
	return vars
}

func (d *dispatcher) reminderVars(request *models.SupplierRequest) map[string]string {
	vars := d.baseVars(request)
	vars["status"] = string(request.Status)
	vars["days_open"] = fmt.Sprintf("%d", int(d.now().Sub(request.CreatedAt).Hours()/24))
	if request.Status == enums.RequestStatusInvitationSent && request.InvitationToken != nil {
		vars["portal_url"] = d.baseURL + "/supplier/" + *request.InvitationToken
	}
	return vars
}
