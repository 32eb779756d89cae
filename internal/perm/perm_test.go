package perm

import (
	"encoding/json"
	"testing"
)

func TestNormalizeMixedEntries(t *testing.T) {
	var raw []RawEntry
	payload := `["Manage_Users", {"code":"manage_roles"}, {"name":"Manage_Attendance"}, {"code":"","name":""}, {}, 42, null, "  ", "MANAGE_USERS"]`
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	set := Normalize(raw)
	want := []string{"manage_users", "manage_roles", "manage_attendance"}
	if len(set) != len(want) {
		t.Fatalf("expected %d permissions, got %v", len(want), set.Names())
	}
	for _, name := range want {
		if !set.Has(name) {
			t.Fatalf("missing %s in %v", name, set.Names())
		}
	}
}

func TestNormalizeNilInput(t *testing.T) {
	set := Normalize(nil)
	if len(set) != 0 {
		t.Fatalf("expected empty set, got %v", set.Names())
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	raw := []RawEntry{{Code: "Manage_Users"}, {Name: "manage_users"}, {Code: "Checkin_Checkout"}}
	first := Normalize(raw)
	second := NormalizeStrings(first.Names())
	if len(first) != len(second) {
		t.Fatalf("idempotence broken: %v vs %v", first.Names(), second.Names())
	}
	for name := range first {
		if !second.Has(name) {
			t.Fatalf("second pass lost %s", name)
		}
	}
}

func TestNormalizeCodeWinsOverName(t *testing.T) {
	set := Normalize([]RawEntry{{Code: "manage_users", Name: "Users Administration"}})
	if !set.Has("manage_users") {
		t.Fatal("expected code to be used")
	}
	if set.Has("users administration") {
		t.Fatal("name should be ignored when code is present")
	}
}

func TestHasAnyEmptyRequirementFailsOpen(t *testing.T) {
	if !HasAny(nil, nil) {
		t.Fatal("empty requirement must be satisfied for any user")
	}
	if !HasAny([]RawEntry{{Code: "x"}}, []string{}) {
		t.Fatal("empty requirement must be satisfied for any user")
	}
}

func TestHasAnyCaseInsensitive(t *testing.T) {
	user := []RawEntry{{Code: "Manage_Users"}}
	if !HasAny(user, []string{"manage_users"}) {
		t.Fatal("expected case-insensitive match")
	}
	if !HasAny(user, []string{"MANAGE_USERS"}) {
		t.Fatal("expected case-insensitive match on requirement side")
	}
}

func TestHasAnyOrSemantics(t *testing.T) {
	user := []RawEntry{{Code: "manage_roles"}}
	if !HasAny(user, []string{"manage_users", "manage_roles"}) {
		t.Fatal("one matching requirement suffices")
	}
	if HasAny([]RawEntry{{Code: "checkin_checkout"}}, []string{"manage_attendance"}) {
		t.Fatal("no overlap must not satisfy")
	}
}

func TestHasAnyNoWildcards(t *testing.T) {
	user := []RawEntry{{Code: "manage_users_extra"}}
	if HasAny(user, []string{"manage_users"}) {
		t.Fatal("prefix must not match")
	}
}
