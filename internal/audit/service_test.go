package audit

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coloriginz/supplier-onboarding-backend/pkg/db/models"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/enums"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/pagination"
)

type fakeRepo struct {
	appended []models.AuditLog
	logs     []models.AuditLog
	sawTx    bool
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository {
	if tx != nil {
		f.sawTx = true
	}
	return f
}

func (f *fakeRepo) Append(_ context.Context, log *models.AuditLog) error {
	f.appended = append(f.appended, *log)
	return nil
}

func (f *fakeRepo) ListByRequest(_ context.Context, requestID uuid.UUID, _ pagination.Params) ([]models.AuditLog, error) {
	var out []models.AuditLog
	for _, log := range f.logs {
		if log.RequestID == requestID {
			out = append(out, log)
		}
	}
	return out, nil
}

func TestRecordMarshalsDetails(t *testing.T) {
	repo := &fakeRepo{}
	svc, err := NewService(Params{Repo: repo})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	requestID := uuid.New()
	userID := uuid.New()
	err = svc.Record(context.Background(), nil, Entry{
		RequestID: requestID,
		Action:    enums.AuditSupplierTypeChanged,
		Details:   map[string]string{"old": "koop", "new": "o_kweker"},
		UserID:    &userID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.appended) != 1 {
		t.Fatalf("expected 1 append, got %d", len(repo.appended))
	}
	log := repo.appended[0]
	if log.Action != enums.AuditSupplierTypeChanged {
		t.Fatalf("unexpected action %s", log.Action)
	}
	if !strings.Contains(string(log.Details), `"old":"koop"`) {
		t.Fatalf("details not marshalled: %s", log.Details)
	}
	if log.UserID == nil || *log.UserID != userID {
		t.Fatal("user id not carried through")
	}
}

func TestRecordAllowsNilActor(t *testing.T) {
	repo := &fakeRepo{}
	svc, _ := NewService(Params{Repo: repo})

	err := svc.Record(context.Background(), nil, Entry{
		RequestID: uuid.New(),
		Action:    enums.AuditSupplierSubmitted,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.appended[0].UserID != nil {
		t.Fatal("expected nil user id for system action")
	}
	if repo.appended[0].Details != nil {
		t.Fatal("expected nil details when none provided")
	}
}

func TestRecordRejectsInvalidInput(t *testing.T) {
	repo := &fakeRepo{}
	svc, _ := NewService(Params{Repo: repo})

	if err := svc.Record(context.Background(), nil, Entry{Action: enums.AuditRequestCreated}); err == nil {
		t.Fatal("expected error for missing request id")
	}
	if err := svc.Record(context.Background(), nil, Entry{RequestID: uuid.New(), Action: "EDITED"}); err == nil {
		t.Fatal("expected error for unknown action")
	}
	if len(repo.appended) != 0 {
		t.Fatal("rejected entries must not be appended")
	}
}

func TestListPagesNewestFirstInput(t *testing.T) {
	requestID := uuid.New()
	now := time.Now()
	repo := &fakeRepo{}
	for i := 0; i < 4; i++ {
		repo.logs = append(repo.logs, models.AuditLog{
			ID:        uuid.New(),
			RequestID: requestID,
			Action:    enums.AuditRequestCreated,
			CreatedAt: now.Add(-time.Duration(i) * time.Minute),
		})
	}

	svc, _ := NewService(Params{Repo: repo})
	page, err := svc.List(context.Background(), requestID, pagination.Params{Limit: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(page.Items))
	}
	if page.NextCursor == "" {
		t.Fatal("expected next cursor for remaining row")
	}
}
