package enums

import "testing"

func TestParseRoleSetDeduplicates(t *testing.T) {
	set, err := ParseRoleSet([]string{"admin", "finance", "admin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set) != 2 {
		t.Fatalf("expected 2 roles, got %d", len(set))
	}
	if !set.Has(UserRoleAdmin) || !set.Has(UserRoleFinance) {
		t.Fatal("expected admin and finance in set")
	}
}

func TestParseRoleSetRejectsUnknown(t *testing.T) {
	if _, err := ParseRoleSet([]string{"inkoper", "root"}); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestRoleSetIntersects(t *testing.T) {
	set := RoleSet{UserRoleInkoper, UserRoleERP}
	if !set.Intersects(UserRoleERP) {
		t.Fatal("expected intersection with erp")
	}
	if set.Intersects(UserRoleFinance) {
		t.Fatal("did not expect intersection with finance")
	}
	if set.Intersects() {
		t.Fatal("empty allowed list must not match")
	}
}

func TestRequestStatusTerminal(t *testing.T) {
	if !RequestStatusCompleted.IsTerminal() || !RequestStatusCancelled.IsTerminal() {
		t.Fatal("completed and cancelled are terminal")
	}
	if RequestStatusAwaitingFinance.IsTerminal() {
		t.Fatal("awaiting_finance is not terminal")
	}
}
