package repository

import (
	"context"

	"github.com/taskdeck/taskdeck/internal/task/models"
)

// Repository defines the interface for entity storage operations.
// Implementations must delete descendants when a parent is removed and must
// enforce a case-insensitive unique index per sibling group as the backstop
// for racing creates.
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// Board operations
	CreateBoard(ctx context.Context, board *models.Board) error
	GetBoard(ctx context.Context, id string) (*models.Board, error)
	UpdateBoard(ctx context.Context, board *models.Board) error
	DeleteBoard(ctx context.Context, id string) error
	ListBoards(ctx context.Context, ownerID string) ([]*models.Board, error)

	// Column operations
	CreateColumn(ctx context.Context, column *models.Column) error
	GetColumn(ctx context.Context, id string) (*models.Column, error)
	UpdateColumn(ctx context.Context, column *models.Column) error
	DeleteColumn(ctx context.Context, id string) error
	ListColumns(ctx context.Context, boardID string) ([]*models.Column, error)

	// Task operations
	CreateTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, id string) (*models.Task, error)
	UpdateTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, columnID string) ([]*models.Task, error)

	// Subtask operations
	CreateSubtask(ctx context.Context, subtask *models.Subtask) error
	GetSubtask(ctx context.Context, id string) (*models.Subtask, error)
	UpdateSubtask(ctx context.Context, subtask *models.Subtask) error
	DeleteSubtask(ctx context.Context, id string) error
	ListSubtasks(ctx context.Context, taskID string) ([]*models.Subtask, error)

	// Close closes the repository (for database connections)
	Close() error
}
