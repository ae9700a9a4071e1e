package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userspkg "github.com/coloriginz/supplier-onboarding-backend/internal/users"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/db/models"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/enums"
)

type fakeDirectory struct {
	creator *models.User
	byRole  map[enums.UserRole][]models.User
}

func (f *fakeDirectory) WithTx(*gorm.DB) userspkg.Repository { return f }

func (f *fakeDirectory) Create(context.Context, *models.User) (*models.User, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDirectory) Update(context.Context, *models.User) error {
	return errors.New("not implemented")
}

func (f *fakeDirectory) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if f.creator != nil && f.creator.ID == id {
		return f.creator, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDirectory) FindByEmail(context.Context, string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDirectory) FindByActivationToken(context.Context, string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDirectory) FindByResetToken(context.Context, string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDirectory) List(context.Context) ([]models.User, error) { return nil, nil }

func (f *fakeDirectory) ListActiveByRole(_ context.Context, role enums.UserRole, optedInOnly bool) ([]models.User, error) {
	var out []models.User
	for _, user := range f.byRole[role] {
		if optedInOnly && !user.ReceiveEmails {
			continue
		}
		out = append(out, user)
	}
	return out, nil
}

type recordedMail struct {
	to       string
	template enums.MailTemplate
	vars     map[string]string
	lang     enums.Language
}

type fakeSender struct {
	sent    []recordedMail
	failFor map[string]error
}

func (f *fakeSender) Send(_ context.Context, to string, template enums.MailTemplate, vars map[string]string, lang enums.Language) error {
	if err, ok := f.failFor[to]; ok {
		return err
	}
	f.sent = append(f.sent, recordedMail{to: to, template: template, vars: vars, lang: lang})
	return nil
}

func strPtr(s string) *string { return &s }

func sampleRequest(status enums.RequestStatus, createdBy uuid.UUID) *models.SupplierRequest {
	return &models.SupplierRequest{
		ID:           uuid.New(),
		SupplierType: enums.SupplierTypeKoop,
		Region:       enums.RegionEU,
		Label:        enums.LabelColoriginz,
		Status:       status,
		CreatedByID:  createdBy,
		CompanyName:  strPtr("Bloemen BV"),
		ContactName:  strPtr("Jan"),
		ContactEmail: strPtr("supplier@example.test"),
		CreatedAt:    time.Now().Add(-48 * time.Hour),
	}
}

func newDispatcher(t *testing.T, directory *fakeDirectory, sender *fakeSender) Dispatcher {
	t.Helper()
	d, err := NewDispatcher(Params{
		Users:   directory,
		Sender:  sender,
		BaseURL: "https://onboard.example.test",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return d
}

func TestInvitationMailsSupplierWithPortalLink(t *testing.T) {
	sender := &fakeSender{}
	d := newDispatcher(t, &fakeDirectory{}, sender)

	request := sampleRequest(enums.RequestStatusInvitationSent, uuid.New())
	err := d.Dispatch(context.Background(), Input{
		Event:           EventInvitationSent,
		Request:         request,
		InvitationToken: "tok-123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(sender.sent))
	}
	got := sender.sent[0]
	if got.to != "supplier@example.test" || got.template != enums.MailSupplierInvitation {
		t.Fatalf("unexpected mail %+v", got)
	}
	if got.vars["portal_url"] != "https://onboard.example.test/supplier/tok-123" {
		t.Fatalf("unexpected portal url %q", got.vars["portal_url"])
	}
	if got.lang != enums.LanguageNL {
		t.Fatalf("supplier mail should default to Dutch, got %s", got.lang)
	}
}

func TestSupplierSubmittedMailsCreatorAndSupplier(t *testing.T) {
	creator := &models.User{
		ID:            uuid.New(),
		Email:         "purchaser@example.test",
		IsActive:      true,
		ReceiveEmails: true,
		Language:      enums.LanguageEN,
	}
	sender := &fakeSender{}
	d := newDispatcher(t, &fakeDirectory{creator: creator}, sender)

	request := sampleRequest(enums.RequestStatusAwaitingPurchaser, creator.ID)
	if err := d.Dispatch(context.Background(), Input{Event: EventSupplierSubmitted, Request: request}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sender.sent) != 2 {
		t.Fatalf("expected creator + supplier mail, got %d", len(sender.sent))
	}
	if sender.sent[0].to != "purchaser@example.test" || sender.sent[0].template != enums.MailSupplierSubmitted {
		t.Fatalf("unexpected creator mail %+v", sender.sent[0])
	}
	if sender.sent[1].to != "supplier@example.test" || sender.sent[1].template != enums.MailSupplierConfirmation {
		t.Fatalf("unexpected supplier mail %+v", sender.sent[1])
	}
}

func TestSupplierSubmittedSkipsOptedOutCreator(t *testing.T) {
	creator := &models.User{
		ID:            uuid.New(),
		Email:         "purchaser@example.test",
		IsActive:      true,
		ReceiveEmails: false,
	}
	sender := &fakeSender{}
	d := newDispatcher(t, &fakeDirectory{creator: creator}, sender)

	request := sampleRequest(enums.RequestStatusAwaitingPurchaser, creator.ID)
	if err := d.Dispatch(context.Background(), Input{Event: EventSupplierSubmitted, Request: request}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, m := range sender.sent {
		if m.to == "purchaser@example.test" {
			t.Fatal("opted-out creator must not be mailed")
		}
	}
}

func TestAwaitingFinanceMailsOptedInFinanceUsers(t *testing.T) {
	directory := &fakeDirectory{
		byRole: map[enums.UserRole][]models.User{
			enums.UserRoleFinance: {
				{Email: "fin1@example.test", IsActive: true, ReceiveEmails: true, Language: enums.LanguageNL},
				{Email: "fin2@example.test", IsActive: true, ReceiveEmails: false},
				{Email: "fin3@example.test", IsActive: true, ReceiveEmails: true, Language: enums.LanguageEN},
			},
		},
	}
	sender := &fakeSender{}
	d := newDispatcher(t, directory, sender)

	request := sampleRequest(enums.RequestStatusAwaitingFinance, uuid.New())
	if err := d.Dispatch(context.Background(), Input{Event: EventAwaitingFinance, Request: request}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sender.sent) != 2 {
		t.Fatalf("expected 2 opted-in recipients, got %d", len(sender.sent))
	}
	for _, m := range sender.sent {
		if m.template != enums.MailAwaitingFinance {
			t.Fatalf("unexpected template %s", m.template)
		}
	}
}

func TestOneFailedRecipientDoesNotBlockOthers(t *testing.T) {
	directory := &fakeDirectory{
		byRole: map[enums.UserRole][]models.User{
			enums.UserRoleERP: {
				{Email: "erp1@example.test", IsActive: true, ReceiveEmails: true},
				{Email: "erp2@example.test", IsActive: true, ReceiveEmails: true},
			},
		},
	}
	sender := &fakeSender{failFor: map[string]error{"erp1@example.test": errors.New("smtp refused")}}
	d := newDispatcher(t, directory, sender)

	request := sampleRequest(enums.RequestStatusAwaitingERP, uuid.New())
	err := d.Dispatch(context.Background(), Input{Event: EventAwaitingERP, Request: request})
	if err == nil {
		t.Fatal("expected aggregate error for the failed recipient")
	}
	if len(sender.sent) != 1 || sender.sent[0].to != "erp2@example.test" {
		t.Fatalf("remaining recipient must still be mailed, got %+v", sender.sent)
	}
}

func TestReminderTargetsCurrentStage(t *testing.T) {
	creator := &models.User{
		ID:            uuid.New(),
		Email:         "purchaser@example.test",
		IsActive:      true,
		ReceiveEmails: true,
	}
	directory := &fakeDirectory{
		creator: creator,
		byRole: map[enums.UserRole][]models.User{
			enums.UserRoleFinance: {{Email: "fin@example.test", IsActive: true, ReceiveEmails: true}},
			enums.UserRoleERP:     {{Email: "erp@example.test", IsActive: true, ReceiveEmails: true}},
		},
	}

	cases := []struct {
		status enums.RequestStatus
		wantTo string
	}{
		{enums.RequestStatusInvitationSent, "supplier@example.test"},
		{enums.RequestStatusAwaitingPurchaser, "purchaser@example.test"},
		{enums.RequestStatusAwaitingFinance, "fin@example.test"},
		{enums.RequestStatusAwaitingERP, "erp@example.test"},
	}

	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			sender := &fakeSender{}
			d := newDispatcher(t, directory, sender)

			request := sampleRequest(tc.status, creator.ID)
			request.InvitationToken = strPtr("tok-rem")
			if err := d.Dispatch(context.Background(), Input{Event: EventReminder, Request: request}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(sender.sent) != 1 || sender.sent[0].to != tc.wantTo {
				t.Fatalf("expected reminder to %s, got %+v", tc.wantTo, sender.sent)
			}
			if sender.sent[0].template != enums.MailReminder {
				t.Fatalf("unexpected template %s", sender.sent[0].template)
			}
		})
	}
}

func TestReminderRejectsTerminalStatus(t *testing.T) {
	d := newDispatcher(t, &fakeDirectory{}, &fakeSender{})
	request := sampleRequest(enums.RequestStatusCompleted, uuid.New())
	if err := d.Dispatch(context.Background(), Input{Event: EventReminder, Request: request}); err == nil {
		t.Fatal("expected error for terminal status")
	}
}
