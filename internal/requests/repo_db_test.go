//go:build db
// +build db

package requests

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/coloriginz/supplier-onboarding-backend/pkg/db/models"
	"github.com/coloriginz/supplier-onboarding-backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("ONBOARD_TEST_DB_DSN")
	if dsn == "" {
		t.Skip("ONBOARD_TEST_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func seedUser(t *testing.T, tx *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:     uuid.New(),
		Email:  fmt.Sprintf("onboard_test_%s@example.com", uuid.NewString()),
		Name:   "Test Purchaser",
		Roles:  []string{"inkoper"},
		Labels: []string{"coloriginz"},
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func seedRequest(t *testing.T, tx *gorm.DB, creator *models.User, status enums.RequestStatus) *models.SupplierRequest {
	t.Helper()
	request := &models.SupplierRequest{
		ID:           uuid.New(),
		SupplierType: enums.SupplierTypeKoop,
		Region:       enums.RegionEU,
		Label:        enums.LabelColoriginz,
		Status:       status,
		CreatedByID:  creator.ID,
	}
	if err := tx.Create(request).Error; err != nil {
		t.Fatalf("create request: %v", err)
	}
	return request
}

func TestUpdateWhereStatusCompareAndSwap(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() { _ = tx.Rollback() })

	repo := NewRepository(tx)
	ctx := context.Background()

	creator := seedUser(t, tx)
	request := seedRequest(t, tx, creator, enums.RequestStatusAwaitingFinance)

	matched, err := repo.UpdateWhereStatus(ctx, request.ID, enums.RequestStatusAwaitingFinance, Patch{
		"status":          enums.RequestStatusAwaitingERP,
		"creditor_number": "CR-100",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !matched {
		t.Fatal("expected row to match expected status")
	}

	// A second update with the stale precondition must not match.
	matched, err = repo.UpdateWhereStatus(ctx, request.ID, enums.RequestStatusAwaitingFinance, Patch{
		"status": enums.RequestStatusAwaitingERP,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if matched {
		t.Fatal("stale precondition must not match any row")
	}

	updated, err := repo.FindByID(ctx, request.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if updated.Status != enums.RequestStatusAwaitingERP {
		t.Fatalf("unexpected status %s", updated.Status)
	}
	if updated.CreditorNumber == nil || *updated.CreditorNumber != "CR-100" {
		t.Fatalf("creditor number not persisted: %+v", updated.CreditorNumber)
	}
}

func TestCountActiveIdentifierSkipsCancelled(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() { _ = tx.Rollback() })

	repo := NewRepository(tx)
	ctx := context.Background()

	creator := seedUser(t, tx)
	value := "CR-" + uuid.NewString()[:8]

	active := seedRequest(t, tx, creator, enums.RequestStatusAwaitingERP)
	if err := tx.Model(active).Update("creditor_number", value).Error; err != nil {
		t.Fatalf("set creditor number: %v", err)
	}

	cancelled := seedRequest(t, tx, creator, enums.RequestStatusCancelled)
	if err := tx.Model(cancelled).Update("creditor_number", value).Error; err != nil {
		t.Fatalf("set creditor number: %v", err)
	}

	count, err := repo.CountCreditorNumber(ctx, value, uuid.New())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected cancelled request excluded, got count %d", count)
	}

	// Excluding the active holder itself yields zero.
	count, err = repo.CountCreditorNumber(ctx, value, active.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 when excluding owner, got %d", count)
	}
}

func TestListScopedByLabel(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() { _ = tx.Rollback() })

	repo := NewRepository(tx)
	ctx := context.Background()

	creator := seedUser(t, tx)
	seedRequest(t, tx, creator, enums.RequestStatusAwaitingPurchaser)

	rows, err := repo.List(ctx, ListFilter{Labels: []enums.Label{enums.LabelPFC}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, row := range rows {
		if row.Label != enums.LabelPFC {
			t.Fatalf("listing leaked label %s", row.Label)
		}
	}

	rows, err = repo.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 0 {
		t.Fatal("empty label scope must return nothing")
	}
}
