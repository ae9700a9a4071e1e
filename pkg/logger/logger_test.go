package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestContextFieldsPropagate(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "test", Output: &buf})

	ctx := logg.WithSupplierRequestID(context.Background(), "req-123")
	ctx = logg.WithActorRoles(ctx, []string{"inkoper", "finance"})
	logg.Info(ctx, "transition applied")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not json: %v", err)
	}
	if entry["supplier_request_id"] != "req-123" {
		t.Fatalf("expected supplier_request_id field, got %v", entry["supplier_request_id"])
	}
	if entry["actor_roles"] != "inkoper,finance" {
		t.Fatalf("expected joined roles, got %v", entry["actor_roles"])
	}
	if entry["service"] != "test" {
		t.Fatalf("expected service field, got %v", entry["service"])
	}
}

func TestErrorIncludesStack(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "test", Output: &buf})
	logg.Error(context.Background(), "boom", nil)
	if !strings.Contains(buf.String(), "stack") {
		t.Fatal("expected stack field on error log")
	}
}
