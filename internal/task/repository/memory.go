package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck/internal/common/errors"
	"github.com/taskdeck/taskdeck/internal/task/models"
)

// MemoryRepository provides in-memory entity storage operations.
// Deletes cascade manually through the hierarchy, mirroring the foreign-key
// behavior of the SQL stores. Used in tests and for throwaway dev runs.
//
// All reads return copies and all writes store copies so callers never hold
// aliases into the repository's own state, matching the row-scan semantics
// of the SQL stores.
type MemoryRepository struct {
	users    map[string]*models.User
	boards   map[string]*models.Board
	columns  map[string]*models.Column
	tasks    map[string]*models.Task
	subtasks map[string]*models.Subtask
	mu       sync.RWMutex
}

// Ensure MemoryRepository implements Repository interface
var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository creates a new in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:    make(map[string]*models.User),
		boards:   make(map[string]*models.Board),
		columns:  make(map[string]*models.Column),
		tasks:    make(map[string]*models.Task),
		subtasks: make(map[string]*models.Subtask),
	}
}

// Close is a no-op for in-memory repository
func (r *MemoryRepository) Close() error {
	return nil
}

// User operations

// CreateUser creates a new user
func (r *MemoryRepository) CreateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	r.users[user.ID] = &stored
	return nil
}

// GetUser retrieves a user by ID
func (r *MemoryRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("user", id)
	}
	out := *user
	return &out, nil
}

// GetUserByEmail retrieves a user by email under case-insensitive comparison
func (r *MemoryRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			out := *user
			return &out, nil
		}
	}
	return nil, errors.NotFound("user", email)
}

// Board operations

// CreateBoard creates a new board
func (r *MemoryRepository) CreateBoard(ctx context.Context, board *models.Board) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if board.ID == "" {
		board.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	board.CreatedAt = now
	board.UpdatedAt = now

	stored := *board
	r.boards[board.ID] = &stored
	return nil
}

// GetBoard retrieves a board by ID
func (r *MemoryRepository) GetBoard(ctx context.Context, id string) (*models.Board, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	board, ok := r.boards[id]
	if !ok {
		return nil, errors.NotFound("board", id)
	}
	out := *board
	return &out, nil
}

// UpdateBoard updates an existing board
func (r *MemoryRepository) UpdateBoard(ctx context.Context, board *models.Board) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.boards[board.ID]; !ok {
		return errors.NotFound("board", board.ID)
	}
	board.UpdatedAt = time.Now().UTC()
	stored := *board
	r.boards[board.ID] = &stored
	return nil
}

// DeleteBoard deletes a board and cascades to its columns, tasks, and subtasks
func (r *MemoryRepository) DeleteBoard(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.boards[id]; !ok {
		return errors.NotFound("board", id)
	}
	delete(r.boards, id)

	for colID, col := range r.columns {
		if col.BoardID == id {
			delete(r.columns, colID)
			r.cascadeDeleteTasks(colID)
		}
	}
	return nil
}

// ListBoards returns all boards owned by a user, ordered by creation
func (r *MemoryRepository) ListBoards(ctx context.Context, ownerID string) ([]*models.Board, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Board
	for _, board := range r.boards {
		if board.OwnerID == ownerID {
			out := *board
			result = append(result, &out)
		}
	}
	sort.Slice(result, func(i, j int) bool { return byCreation(result[i].CreatedAt, result[j].CreatedAt, result[i].ID, result[j].ID) })
	return result, nil
}

// Column operations

// CreateColumn creates a new column
func (r *MemoryRepository) CreateColumn(ctx context.Context, column *models.Column) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if column.ID == "" {
		column.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	column.CreatedAt = now
	column.UpdatedAt = now

	stored := *column
	r.columns[column.ID] = &stored
	return nil
}

// GetColumn retrieves a column by ID
func (r *MemoryRepository) GetColumn(ctx context.Context, id string) (*models.Column, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	column, ok := r.columns[id]
	if !ok {
		return nil, errors.NotFound("column", id)
	}
	out := *column
	return &out, nil
}

// UpdateColumn updates an existing column
func (r *MemoryRepository) UpdateColumn(ctx context.Context, column *models.Column) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.columns[column.ID]; !ok {
		return errors.NotFound("column", column.ID)
	}
	column.UpdatedAt = time.Now().UTC()
	stored := *column
	r.columns[column.ID] = &stored
	return nil
}

// DeleteColumn deletes a column and cascades to its tasks and subtasks
func (r *MemoryRepository) DeleteColumn(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.columns[id]; !ok {
		return errors.NotFound("column", id)
	}
	delete(r.columns, id)
	r.cascadeDeleteTasks(id)
	return nil
}

// ListColumns returns all columns for a board, ordered by creation
func (r *MemoryRepository) ListColumns(ctx context.Context, boardID string) ([]*models.Column, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Column
	for _, column := range r.columns {
		if column.BoardID == boardID {
			out := *column
			result = append(result, &out)
		}
	}
	sort.Slice(result, func(i, j int) bool { return byCreation(result[i].CreatedAt, result[j].CreatedAt, result[i].ID, result[j].ID) })
	return result, nil
}

// Task operations

// CreateTask creates a new task
func (r *MemoryRepository) CreateTask(ctx context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	stored := *task
	r.tasks[task.ID] = &stored
	return nil
}

// GetTask retrieves a task by ID
func (r *MemoryRepository) GetTask(ctx context.Context, id string) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, errors.NotFound("task", id)
	}
	out := *task
	return &out, nil
}

// UpdateTask updates an existing task
func (r *MemoryRepository) UpdateTask(ctx context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[task.ID]; !ok {
		return errors.NotFound("task", task.ID)
	}
	task.UpdatedAt = time.Now().UTC()
	stored := *task
	r.tasks[task.ID] = &stored
	return nil
}

// DeleteTask deletes a task and cascades to its subtasks
func (r *MemoryRepository) DeleteTask(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return errors.NotFound("task", id)
	}
	delete(r.tasks, id)
	r.cascadeDeleteSubtasks(id)
	return nil
}

// ListTasks returns all tasks in a column, ordered by creation
func (r *MemoryRepository) ListTasks(ctx context.Context, columnID string) ([]*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Task
	for _, task := range r.tasks {
		if task.ColumnID == columnID {
			out := *task
			result = append(result, &out)
		}
	}
	sort.Slice(result, func(i, j int) bool { return byCreation(result[i].CreatedAt, result[j].CreatedAt, result[i].ID, result[j].ID) })
	return result, nil
}

// Subtask operations

// CreateSubtask creates a new subtask
func (r *MemoryRepository) CreateSubtask(ctx context.Context, subtask *models.Subtask) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if subtask.ID == "" {
		subtask.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	subtask.CreatedAt = now
	subtask.UpdatedAt = now

	stored := *subtask
	r.subtasks[subtask.ID] = &stored
	return nil
}

// GetSubtask retrieves a subtask by ID
func (r *MemoryRepository) GetSubtask(ctx context.Context, id string) (*models.Subtask, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subtask, ok := r.subtasks[id]
	if !ok {
		return nil, errors.NotFound("subtask", id)
	}
	out := *subtask
	return &out, nil
}

// UpdateSubtask updates an existing subtask
func (r *MemoryRepository) UpdateSubtask(ctx context.Context, subtask *models.Subtask) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subtasks[subtask.ID]; !ok {
		return errors.NotFound("subtask", subtask.ID)
	}
	subtask.UpdatedAt = time.Now().UTC()
	stored := *subtask
	r.subtasks[subtask.ID] = &stored
	return nil
}

// DeleteSubtask deletes a subtask by ID
func (r *MemoryRepository) DeleteSubtask(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subtasks[id]; !ok {
		return errors.NotFound("subtask", id)
	}
	delete(r.subtasks, id)
	return nil
}

// ListSubtasks returns all subtasks on a task, ordered by creation
func (r *MemoryRepository) ListSubtasks(ctx context.Context, taskID string) ([]*models.Subtask, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Subtask
	for _, subtask := range r.subtasks {
		if subtask.TaskID == taskID {
			out := *subtask
			result = append(result, &out)
		}
	}
	sort.Slice(result, func(i, j int) bool { return byCreation(result[i].CreatedAt, result[j].CreatedAt, result[i].ID, result[j].ID) })
	return result, nil
}

// cascadeDeleteTasks removes all tasks in a column and their subtasks.
// Callers must hold the write lock.
func (r *MemoryRepository) cascadeDeleteTasks(columnID string) {
	for taskID, task := range r.tasks {
		if task.ColumnID == columnID {
			delete(r.tasks, taskID)
			r.cascadeDeleteSubtasks(taskID)
		}
	}
}

// cascadeDeleteSubtasks removes all subtasks on a task.
// Callers must hold the write lock.
func (r *MemoryRepository) cascadeDeleteSubtasks(taskID string) {
	for subID, sub := range r.subtasks {
		if sub.TaskID == taskID {
			delete(r.subtasks, subID)
		}
	}
}

// byCreation orders by creation time, breaking ties by ID for determinism
// within a single clock tick.
func byCreation(ti, tj time.Time, idi, idj string) bool {
	if ti.Equal(tj) {
		return idi < idj
	}
	return ti.Before(tj)
}
