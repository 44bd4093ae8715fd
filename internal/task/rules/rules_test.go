package rules

import (
	"testing"

	"github.com/taskdeck/taskdeck/internal/common/errors"
)

func TestCanCreate_CaseInsensitiveConflict(t *testing.T) {
	siblings := []Sibling{{ID: "b1", Name: "Sprint 1"}}

	err := CanCreate("board", "u1", "u1", "sprint 1", siblings)
	if !errors.IsConflict(err) {
		t.Fatalf("expected conflict for case-folded duplicate, got %v", err)
	}

	err = CanCreate("board", "u1", "u1", "Sprint 2", siblings)
	if err != nil {
		t.Fatalf("expected distinct name to pass, got %v", err)
	}
}

func TestCanCreate_NoTrimming(t *testing.T) {
	siblings := []Sibling{{ID: "b1", Name: "Sprint 1"}}

	// Only case folding is applied; whitespace variants are distinct names.
	if err := CanCreate("board", "u1", "u1", " Sprint 1", siblings); err != nil {
		t.Fatalf("expected whitespace variant to pass, got %v", err)
	}
}

func TestCanCreate_ForbiddenBeforeConflict(t *testing.T) {
	siblings := []Sibling{{ID: "b1", Name: "Sprint 1"}}

	err := CanCreate("board", "u2", "u1", "Sprint 1", siblings)
	if !errors.IsForbidden(err) {
		t.Fatalf("expected forbidden for non-owner, got %v", err)
	}
}

func TestCanCreate_MissingCaller(t *testing.T) {
	err := CanCreate("board", "", "u1", "Sprint 1", nil)
	if errors.GetHTTPStatus(err) != 401 {
		t.Fatalf("expected unauthorized for empty caller, got %v", err)
	}
}

func TestCanRename_SelfIsNotConflict(t *testing.T) {
	siblings := []Sibling{
		{ID: "c1", Name: "Todo"},
		{ID: "c2", Name: "Done"},
	}

	// Renaming to the current name (even with different casing) is a no-op.
	if err := CanRename("column", "u1", "u1", "c1", "TODO", siblings); err != nil {
		t.Fatalf("expected self-rename to pass, got %v", err)
	}

	err := CanRename("column", "u1", "u1", "c1", "done", siblings)
	if !errors.IsConflict(err) {
		t.Fatalf("expected conflict against other sibling, got %v", err)
	}
}

func TestCanDelete_OwnershipOnly(t *testing.T) {
	if err := CanDelete("task", "u1", "u1"); err != nil {
		t.Fatalf("expected owner delete to pass, got %v", err)
	}
	if err := CanDelete("task", "u2", "u1"); !errors.IsForbidden(err) {
		t.Fatalf("expected forbidden delete for non-owner, got %v", err)
	}
}

func TestCanRead_Forbidden(t *testing.T) {
	if err := CanRead("board", "u2", "u1"); !errors.IsForbidden(err) {
		t.Fatal("expected forbidden read for non-owner")
	}
}
