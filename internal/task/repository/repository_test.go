package repository

import (
	"context"
	"testing"

	"github.com/taskdeck/taskdeck/internal/common/errors"
	"github.com/taskdeck/taskdeck/internal/task/models"
)

func seedBoard(t *testing.T, repo *MemoryRepository, ownerID, name string) *models.Board {
	t.Helper()
	board := &models.Board{OwnerID: ownerID, Name: name}
	if err := repo.CreateBoard(context.Background(), board); err != nil {
		t.Fatalf("CreateBoard: %v", err)
	}
	return board
}

func TestMemoryRepository_GetUserByEmailCaseInsensitive(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	user := &models.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "x"}
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	found, err := repo.GetUserByEmail(ctx, "ADA@Example.COM")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if found.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, found.ID)
	}

	if _, err := repo.GetUserByEmail(ctx, "nobody@example.com"); !errors.IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestMemoryRepository_DeleteBoardCascades(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	board := seedBoard(t, repo, "owner-1", "Platform")

	column := &models.Column{BoardID: board.ID, Name: "Todo"}
	if err := repo.CreateColumn(ctx, column); err != nil {
		t.Fatalf("CreateColumn: %v", err)
	}
	task := &models.Task{ColumnID: column.ID, Title: "Ship release"}
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	subtask := &models.Subtask{TaskID: task.ID, Title: "Tag version"}
	if err := repo.CreateSubtask(ctx, subtask); err != nil {
		t.Fatalf("CreateSubtask: %v", err)
	}

	if err := repo.DeleteBoard(ctx, board.ID); err != nil {
		t.Fatalf("DeleteBoard: %v", err)
	}

	if _, err := repo.GetColumn(ctx, column.ID); !errors.IsNotFound(err) {
		t.Errorf("expected column to be deleted, got %v", err)
	}
	if _, err := repo.GetTask(ctx, task.ID); !errors.IsNotFound(err) {
		t.Errorf("expected task to be deleted, got %v", err)
	}
	if _, err := repo.GetSubtask(ctx, subtask.ID); !errors.IsNotFound(err) {
		t.Errorf("expected subtask to be deleted, got %v", err)
	}
}

func TestMemoryRepository_DeleteTaskCascadesSubtasks(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	board := seedBoard(t, repo, "owner-1", "Platform")
	column := &models.Column{BoardID: board.ID, Name: "Todo"}
	if err := repo.CreateColumn(ctx, column); err != nil {
		t.Fatalf("CreateColumn: %v", err)
	}
	task := &models.Task{ColumnID: column.ID, Title: "Ship release"}
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	subtask := &models.Subtask{TaskID: task.ID, Title: "Tag version"}
	if err := repo.CreateSubtask(ctx, subtask); err != nil {
		t.Fatalf("CreateSubtask: %v", err)
	}

	if err := repo.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if _, err := repo.GetSubtask(ctx, subtask.ID); !errors.IsNotFound(err) {
		t.Errorf("expected subtask to be deleted, got %v", err)
	}

	// Column survives its tasks.
	if _, err := repo.GetColumn(ctx, column.ID); err != nil {
		t.Errorf("expected column to survive, got %v", err)
	}
}

func TestMemoryRepository_ListBoardsScopedToOwner(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	seedBoard(t, repo, "owner-1", "Alpha")
	seedBoard(t, repo, "owner-1", "Beta")
	seedBoard(t, repo, "owner-2", "Gamma")

	boards, err := repo.ListBoards(ctx, "owner-1")
	if err != nil {
		t.Fatalf("ListBoards: %v", err)
	}
	if len(boards) != 2 {
		t.Fatalf("expected 2 boards, got %d", len(boards))
	}
	for _, b := range boards {
		if b.OwnerID != "owner-1" {
			t.Errorf("expected owner-1 boards only, got owner %s", b.OwnerID)
		}
	}
}

func TestMemoryRepository_ReturnsDetachedCopies(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	board := seedBoard(t, repo, "owner-1", "Platform")

	got, err := repo.GetBoard(ctx, board.ID)
	if err != nil {
		t.Fatalf("GetBoard: %v", err)
	}
	got.Name = "Mutated"

	again, err := repo.GetBoard(ctx, board.ID)
	if err != nil {
		t.Fatalf("GetBoard: %v", err)
	}
	if again.Name != "Platform" {
		t.Errorf("mutating a returned board leaked into the store: got %q", again.Name)
	}

	// The caller's struct after create is detached from the store too.
	board.Name = "Also mutated"
	again, err = repo.GetBoard(ctx, board.ID)
	if err != nil {
		t.Fatalf("GetBoard: %v", err)
	}
	if again.Name != "Platform" {
		t.Errorf("mutating the created board leaked into the store: got %q", again.Name)
	}

	// Listed elements are detached as well.
	boards, err := repo.ListBoards(ctx, "owner-1")
	if err != nil {
		t.Fatalf("ListBoards: %v", err)
	}
	boards[0].Name = "Renamed in place"
	again, err = repo.GetBoard(ctx, board.ID)
	if err != nil {
		t.Fatalf("GetBoard: %v", err)
	}
	if again.Name != "Platform" {
		t.Errorf("mutating a listed board leaked into the store: got %q", again.Name)
	}
}

func TestMemoryRepository_UpdateMissingReturnsNotFound(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if err := repo.UpdateBoard(ctx, &models.Board{ID: "missing", Name: "x"}); !errors.IsNotFound(err) {
		t.Errorf("UpdateBoard: expected not found, got %v", err)
	}
	if err := repo.DeleteColumn(ctx, "missing"); !errors.IsNotFound(err) {
		t.Errorf("DeleteColumn: expected not found, got %v", err)
	}
	if _, err := repo.GetTask(ctx, "missing"); !errors.IsNotFound(err) {
		t.Errorf("GetTask: expected not found, got %v", err)
	}
	if err := repo.UpdateSubtask(ctx, &models.Subtask{ID: "missing", Title: "x"}); !errors.IsNotFound(err) {
		t.Errorf("UpdateSubtask: expected not found, got %v", err)
	}
}
