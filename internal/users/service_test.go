package users

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coloriginz/supplier-onboarding-backend/internal/tokens"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/db/models"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/enums"
	apperrors "github.com/coloriginz/supplier-onboarding-backend/pkg/errors"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/logger"
)

type fakeRepo struct {
	byID    map[uuid.UUID]*models.User
	created []*models.User
	failErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[uuid.UUID]*models.User{}}
}

func (f *fakeRepo) WithTx(*gorm.DB) Repository { return f }

func (f *fakeRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	if f.failErr != nil {
		return nil, f.failErr
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.byID[user.ID] = user
	f.created = append(f.created, user)
	return user, nil
}

func (f *fakeRepo) Update(_ context.Context, user *models.User) error {
	f.byID[user.ID] = user
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeRepo) FindByEmail(context.Context, string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindByActivationToken(context.Context, string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindByResetToken(context.Context, string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) List(context.Context) ([]models.User, error) { return nil, nil }

func (f *fakeRepo) ListActiveByRole(context.Context, enums.UserRole, bool) ([]models.User, error) {
	return nil, nil
}

type fakeSender struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	to       string
	template enums.MailTemplate
	vars     map[string]string
}

func (f *fakeSender) Send(_ context.Context, to string, template enums.MailTemplate, vars map[string]string, _ enums.Language) error {
	f.sent = append(f.sent, sentMail{to: to, template: template, vars: vars})
	return f.err
}

func testService(t *testing.T, repo Repository, sender *fakeSender) Service {
	t.Helper()
	svc, err := NewService(Params{
		Repo:    repo,
		Issuer:  tokens.NewIssuer(),
		Sender:  sender,
		Logger:  logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		BaseURL: "https://onboard.example.test",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func TestCreateIssuesActivationTokenAndMails(t *testing.T) {
	repo := newFakeRepo()
	sender := &fakeSender{}
	svc := testService(t, repo, sender)

	user, err := svc.Create(context.Background(), CreateInput{
		Email:  " Jan@Example.com ",
		Name:   "Jan de Boer",
		Roles:  []string{"inkoper", "finance"},
		Labels: []string{"coloriginz"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.Email != "jan@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.ActivationToken == nil || *user.ActivationToken == "" {
		t.Fatal("expected activation token")
	}
	if user.PasswordHash != nil {
		t.Fatal("new account must start without a password")
	}
	if !user.IsPendingActivation() {
		t.Fatal("expected pending activation state")
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(sender.sent))
	}
	mail := sender.sent[0]
	if mail.template != enums.MailUserActivation {
		t.Fatalf("unexpected template %s", mail.template)
	}
	if mail.vars["activation_url"] == "" {
		t.Fatal("activation url missing from mail vars")
	}
}

func TestCreateRejectsBadInput(t *testing.T) {
	repo := newFakeRepo()
	svc := testService(t, repo, &fakeSender{})
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateInput
	}{
		{"missing email", CreateInput{Name: "x", Roles: []string{"admin"}}},
		{"missing name", CreateInput{Email: "a@b.c", Roles: []string{"admin"}}},
		{"no roles", CreateInput{Email: "a@b.c", Name: "x"}},
		{"unknown role", CreateInput{Email: "a@b.c", Name: "x", Roles: []string{"root"}}},
		{"unknown label", CreateInput{Email: "a@b.c", Name: "x", Roles: []string{"admin"}, Labels: []string{"acme"}}},
		{"unknown language", CreateInput{Email: "a@b.c", Name: "x", Roles: []string{"admin"}, Language: "fr"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.input); !apperrors.IsCode(err, apperrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
	if len(repo.created) != 0 {
		t.Fatal("rejected input must not create accounts")
	}
}

func TestCreateSurvivesMailFailure(t *testing.T) {
	repo := newFakeRepo()
	sender := &fakeSender{err: context.DeadlineExceeded}
	svc := testService(t, repo, sender)

	user, err := svc.Create(context.Background(), CreateInput{
		Email: "a@b.c",
		Name:  "x",
		Roles: []string{"erp"},
	})
	if err != nil {
		t.Fatalf("mail failure must not fail account creation: %v", err)
	}
	if user == nil || len(repo.created) != 1 {
		t.Fatal("account should exist despite mail failure")
	}
}

func TestUpdatePatchesOnlyProvidedFields(t *testing.T) {
	repo := newFakeRepo()
	svc := testService(t, repo, &fakeSender{})

	created, err := svc.Create(context.Background(), CreateInput{
		Email: "a@b.c", Name: "Before", Roles: []string{"admin"}, Labels: []string{"pfc"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	optOut := false
	name := "After"
	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{
		Name:          &name,
		ReceiveEmails: &optOut,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "After" || updated.ReceiveEmails {
		t.Fatalf("patch not applied: %+v", updated)
	}
	if len(updated.Labels) != 1 || updated.Labels[0] != "pfc" {
		t.Fatalf("untouched fields must survive: %+v", updated.Labels)
	}
}

func TestDeactivateAndReactivate(t *testing.T) {
	repo := newFakeRepo()
	svc := testService(t, repo, &fakeSender{})

	created, _ := svc.Create(context.Background(), CreateInput{
		Email: "a@b.c", Name: "x", Roles: []string{"finance"},
	})

	if err := svc.Deactivate(context.Background(), created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := svc.Get(context.Background(), created.ID)
	if got.IsActive {
		t.Fatal("expected deactivated account")
	}

	if err := svc.Reactivate(context.Background(), created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ = svc.Get(context.Background(), created.ID)
	if !got.IsActive {
		t.Fatal("expected reactivated account")
	}
}

func TestGetUnknownUserIsNotFound(t *testing.T) {
	svc := testService(t, newFakeRepo(), &fakeSender{})
	if _, err := svc.Get(context.Background(), uuid.New()); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
