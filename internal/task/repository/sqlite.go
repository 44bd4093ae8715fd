package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/taskdeck/taskdeck/internal/common/errors"
	"github.com/taskdeck/taskdeck/internal/task/models"
)

// SQLiteRepository provides SQLite-based entity storage operations
type SQLiteRepository struct {
	db *sql.DB
}

// Ensure SQLiteRepository implements Repository interface
var _ Repository = (*SQLiteRepository)(nil)

// NewSQLiteRepository creates a new SQLite repository
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)

	repo := &SQLiteRepository{db: db}

	// Initialize schema
	if err := repo.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return repo, nil
}

// initSchema creates the database tables if they don't exist.
// Foreign keys cascade so that deleting a parent removes all descendants.
// The lower() unique indexes are the store-level backstop for sibling name
// uniqueness when two creates race past the service check.
func (r *SQLiteRepository) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS boards (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS columns (
		id TEXT PRIMARY KEY,
		board_id TEXT NOT NULL,
		name TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (board_id) REFERENCES boards(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		column_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (column_id) REFERENCES columns(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS subtasks (
		id TEXT PRIMARY KEY,
		task_id TEXT NOT NULL,
		title TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(lower(email));
	CREATE UNIQUE INDEX IF NOT EXISTS idx_boards_owner_name ON boards(owner_id, lower(name));
	CREATE UNIQUE INDEX IF NOT EXISTS idx_columns_board_name ON columns(board_id, lower(name));
	CREATE UNIQUE INDEX IF NOT EXISTS idx_tasks_column_title ON tasks(column_id, lower(title));
	CREATE UNIQUE INDEX IF NOT EXISTS idx_subtasks_task_title ON subtasks(task_id, lower(title));
	`

	_, err := r.db.Exec(schema)
	return err
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// User operations

// CreateUser creates a new user
func (r *SQLiteRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)

	return err
}

// GetUser retrieves a user by ID
func (r *SQLiteRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	user := &models.User{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM users WHERE id = ?
	`, id).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, errors.NotFound("user", id)
	}
	return user, err
}

// GetUserByEmail retrieves a user by email under case-insensitive comparison
func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM users WHERE lower(email) = lower(?)
	`, email).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, errors.NotFound("user", email)
	}
	return user, err
}

// Board operations

// CreateBoard creates a new board
func (r *SQLiteRepository) CreateBoard(ctx context.Context, board *models.Board) error {
	if board.ID == "" {
		board.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	board.CreatedAt = now
	board.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO boards (id, owner_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, board.ID, board.OwnerID, board.Name, board.CreatedAt, board.UpdatedAt)

	return err
}

// GetBoard retrieves a board by ID
func (r *SQLiteRepository) GetBoard(ctx context.Context, id string) (*models.Board, error) {
	board := &models.Board{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, created_at, updated_at
		FROM boards WHERE id = ?
	`, id).Scan(&board.ID, &board.OwnerID, &board.Name, &board.CreatedAt, &board.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, errors.NotFound("board", id)
	}
	return board, err
}

// UpdateBoard updates an existing board
func (r *SQLiteRepository) UpdateBoard(ctx context.Context, board *models.Board) error {
	board.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		UPDATE boards SET name = ?, updated_at = ? WHERE id = ?
	`, board.Name, board.UpdatedAt, board.ID)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errors.NotFound("board", board.ID)
	}
	return nil
}

// DeleteBoard deletes a board by ID; columns, tasks, and subtasks cascade
func (r *SQLiteRepository) DeleteBoard(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM boards WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errors.NotFound("board", id)
	}
	return nil
}

// ListBoards returns all boards owned by a user
func (r *SQLiteRepository) ListBoards(ctx context.Context, ownerID string) ([]*models.Board, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, name, created_at, updated_at
		FROM boards WHERE owner_id = ? ORDER BY created_at
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*models.Board
	for rows.Next() {
		board := &models.Board{}
		err := rows.Scan(&board.ID, &board.OwnerID, &board.Name, &board.CreatedAt, &board.UpdatedAt)
		if err != nil {
			return nil, err
		}
		result = append(result, board)
	}
	return result, rows.Err()
}

// Column operations

// CreateColumn creates a new column
func (r *SQLiteRepository) CreateColumn(ctx context.Context, column *models.Column) error {
	if column.ID == "" {
		column.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	column.CreatedAt = now
	column.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO columns (id, board_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, column.ID, column.BoardID, column.Name, column.CreatedAt, column.UpdatedAt)

	return err
}

// GetColumn retrieves a column by ID
func (r *SQLiteRepository) GetColumn(ctx context.Context, id string) (*models.Column, error) {
	column := &models.Column{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, board_id, name, created_at, updated_at
		FROM columns WHERE id = ?
	`, id).Scan(&column.ID, &column.BoardID, &column.Name, &column.CreatedAt, &column.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, errors.NotFound("column", id)
	}
	return column, err
}

// UpdateColumn updates an existing column
func (r *SQLiteRepository) UpdateColumn(ctx context.Context, column *models.Column) error {
	column.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		UPDATE columns SET name = ?, updated_at = ? WHERE id = ?
	`, column.Name, column.UpdatedAt, column.ID)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errors.NotFound("column", column.ID)
	}
	return nil
}

// DeleteColumn deletes a column by ID; tasks and subtasks cascade
func (r *SQLiteRepository) DeleteColumn(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM columns WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errors.NotFound("column", id)
	}
	return nil
}

// ListColumns returns all columns for a board, ordered by creation
func (r *SQLiteRepository) ListColumns(ctx context.Context, boardID string) ([]*models.Column, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, board_id, name, created_at, updated_at
		FROM columns WHERE board_id = ? ORDER BY created_at
	`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*models.Column
	for rows.Next() {
		column := &models.Column{}
		err := rows.Scan(&column.ID, &column.BoardID, &column.Name, &column.CreatedAt, &column.UpdatedAt)
		if err != nil {
			return nil, err
		}
		result = append(result, column)
	}
	return result, rows.Err()
}

// Task operations

// CreateTask creates a new task
func (r *SQLiteRepository) CreateTask(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, column_id, title, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, task.ID, task.ColumnID, task.Title, task.Description, task.CreatedAt, task.UpdatedAt)

	return err
}

// GetTask retrieves a task by ID
func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (*models.Task, error) {
	task := &models.Task{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, column_id, title, description, created_at, updated_at
		FROM tasks WHERE id = ?
	`, id).Scan(&task.ID, &task.ColumnID, &task.Title, &task.Description, &task.CreatedAt, &task.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, errors.NotFound("task", id)
	}
	return task, err
}

// UpdateTask updates an existing task
func (r *SQLiteRepository) UpdateTask(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		UPDATE tasks SET title = ?, description = ?, updated_at = ? WHERE id = ?
	`, task.Title, task.Description, task.UpdatedAt, task.ID)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errors.NotFound("task", task.ID)
	}
	return nil
}

// DeleteTask deletes a task by ID; subtasks cascade
func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errors.NotFound("task", id)
	}
	return nil
}

// ListTasks returns all tasks in a column, ordered by creation
func (r *SQLiteRepository) ListTasks(ctx context.Context, columnID string) ([]*models.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, column_id, title, description, created_at, updated_at
		FROM tasks WHERE column_id = ? ORDER BY created_at
	`, columnID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*models.Task
	for rows.Next() {
		task := &models.Task{}
		err := rows.Scan(&task.ID, &task.ColumnID, &task.Title, &task.Description, &task.CreatedAt, &task.UpdatedAt)
		if err != nil {
			return nil, err
		}
		result = append(result, task)
	}
	return result, rows.Err()
}

// Subtask operations

// CreateSubtask creates a new subtask
func (r *SQLiteRepository) CreateSubtask(ctx context.Context, subtask *models.Subtask) error {
	if subtask.ID == "" {
		subtask.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	subtask.CreatedAt = now
	subtask.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subtasks (id, task_id, title, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, subtask.ID, subtask.TaskID, subtask.Title, subtask.Completed, subtask.CreatedAt, subtask.UpdatedAt)

	return err
}

// GetSubtask retrieves a subtask by ID
func (r *SQLiteRepository) GetSubtask(ctx context.Context, id string) (*models.Subtask, error) {
	subtask := &models.Subtask{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, task_id, title, completed, created_at, updated_at
		FROM subtasks WHERE id = ?
	`, id).Scan(&subtask.ID, &subtask.TaskID, &subtask.Title, &subtask.Completed, &subtask.CreatedAt, &subtask.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, errors.NotFound("subtask", id)
	}
	return subtask, err
}

// UpdateSubtask updates an existing subtask
func (r *SQLiteRepository) UpdateSubtask(ctx context.Context, subtask *models.Subtask) error {
	subtask.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		UPDATE subtasks SET title = ?, completed = ?, updated_at = ? WHERE id = ?
	`, subtask.Title, subtask.Completed, subtask.UpdatedAt, subtask.ID)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errors.NotFound("subtask", subtask.ID)
	}
	return nil
}

// DeleteSubtask deletes a subtask by ID
func (r *SQLiteRepository) DeleteSubtask(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM subtasks WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errors.NotFound("subtask", id)
	}
	return nil
}

// ListSubtasks returns all subtasks on a task, ordered by creation
func (r *SQLiteRepository) ListSubtasks(ctx context.Context, taskID string) ([]*models.Subtask, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, task_id, title, completed, created_at, updated_at
		FROM subtasks WHERE task_id = ? ORDER BY created_at
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*models.Subtask
	for rows.Next() {
		subtask := &models.Subtask{}
		err := rows.Scan(&subtask.ID, &subtask.TaskID, &subtask.Title, &subtask.Completed, &subtask.CreatedAt, &subtask.UpdatedAt)
		if err != nil {
			return nil, err
		}
		result = append(result, subtask)
	}
	return result, rows.Err()
}
