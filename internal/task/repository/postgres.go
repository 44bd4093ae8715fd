package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskdeck/taskdeck/internal/common/config"
	"github.com/taskdeck/taskdeck/internal/common/errors"
	"github.com/taskdeck/taskdeck/internal/task/models"
)

// PostgresRepository provides Postgres-based entity storage via pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// Ensure PostgresRepository implements Repository interface
var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository creates a connection pool from config, verifies it with
// a ping, and initializes the schema.
func NewPostgresRepository(ctx context.Context, cfg config.DatabaseConfig) (*PostgresRepository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// Configure pool settings
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.ConnConfig.ConnectTimeout = 10 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repo := &PostgresRepository{pool: pool}
	if err := repo.initSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return repo, nil
}

// initSchema mirrors the SQLite schema: cascading foreign keys plus
// case-insensitive unique indexes per sibling group.
func (r *PostgresRepository) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS boards (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS columns (
		id TEXT PRIMARY KEY,
		board_id TEXT NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		column_id TEXT NOT NULL REFERENCES columns(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS subtasks (
		id TEXT PRIMARY KEY,
		task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (lower(email));
	CREATE UNIQUE INDEX IF NOT EXISTS idx_boards_owner_name ON boards (owner_id, lower(name));
	CREATE UNIQUE INDEX IF NOT EXISTS idx_columns_board_name ON columns (board_id, lower(name));
	CREATE UNIQUE INDEX IF NOT EXISTS idx_tasks_column_title ON tasks (column_id, lower(title));
	CREATE UNIQUE INDEX IF NOT EXISTS idx_subtasks_task_title ON subtasks (task_id, lower(title));
	`

	_, err := r.pool.Exec(ctx, schema)
	return err
}

// Close closes the connection pool
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// User operations

// CreateUser creates a new user
func (r *PostgresRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)

	return err
}

// GetUser retrieves a user by ID
func (r *PostgresRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	user := &models.User{}

	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM users WHERE id = $1
	`, id).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)

	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("user", id)
	}
	return user, err
}

// GetUserByEmail retrieves a user by email under case-insensitive comparison
func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}

	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM users WHERE lower(email) = lower($1)
	`, email).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)

	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("user", email)
	}
	return user, err
}

// Board operations

// CreateBoard creates a new board
func (r *PostgresRepository) CreateBoard(ctx context.Context, board *models.Board) error {
	if board.ID == "" {
		board.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	board.CreatedAt = now
	board.UpdatedAt = now

	_, err := r.pool.Exec(ctx, `
		INSERT INTO boards (id, owner_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, board.ID, board.OwnerID, board.Name, board.CreatedAt, board.UpdatedAt)

	return err
}

// GetBoard retrieves a board by ID
func (r *PostgresRepository) GetBoard(ctx context.Context, id string) (*models.Board, error) {
	board := &models.Board{}

	err := r.pool.QueryRow(ctx, `
		SELECT id, owner_id, name, created_at, updated_at
		FROM boards WHERE id = $1
	`, id).Scan(&board.ID, &board.OwnerID, &board.Name, &board.CreatedAt, &board.UpdatedAt)

	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("board", id)
	}
	return board, err
}

// UpdateBoard updates an existing board
func (r *PostgresRepository) UpdateBoard(ctx context.Context, board *models.Board) error {
	board.UpdatedAt = time.Now().UTC()

	tag, err := r.pool.Exec(ctx, `
		UPDATE boards SET name = $1, updated_at = $2 WHERE id = $3
	`, board.Name, board.UpdatedAt, board.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("board", board.ID)
	}
	return nil
}

// DeleteBoard deletes a board by ID; columns, tasks, and subtasks cascade
func (r *PostgresRepository) DeleteBoard(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("board", id)
	}
	return nil
}

// ListBoards returns all boards owned by a user
func (r *PostgresRepository) ListBoards(ctx context.Context, ownerID string) ([]*models.Board, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, owner_id, name, created_at, updated_at
		FROM boards WHERE owner_id = $1 ORDER BY created_at
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*models.Board
	for rows.Next() {
		board := &models.Board{}
		if err := rows.Scan(&board.ID, &board.OwnerID, &board.Name, &board.CreatedAt, &board.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, board)
	}
	return result, rows.Err()
}

// Column operations

// CreateColumn creates a new column
func (r *PostgresRepository) CreateColumn(ctx context.Context, column *models.Column) error {
	if column.ID == "" {
		column.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	column.CreatedAt = now
	column.UpdatedAt = now

	_, err := r.pool.Exec(ctx, `
		INSERT INTO columns (id, board_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, column.ID, column.BoardID, column.Name, column.CreatedAt, column.UpdatedAt)

	return err
}

// GetColumn retrieves a column by ID
func (r *PostgresRepository) GetColumn(ctx context.Context, id string) (*models.Column, error) {
	column := &models.Column{}

	err := r.pool.QueryRow(ctx, `
		SELECT id, board_id, name, created_at, updated_at
		FROM columns WHERE id = $1
	`, id).Scan(&column.ID, &column.BoardID, &column.Name, &column.CreatedAt, &column.UpdatedAt)

	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("column", id)
	}
	return column, err
}

// UpdateColumn updates an existing column
func (r *PostgresRepository) UpdateColumn(ctx context.Context, column *models.Column) error {
	column.UpdatedAt = time.Now().UTC()

	tag, err := r.pool.Exec(ctx, `
		UPDATE columns SET name = $1, updated_at = $2 WHERE id = $3
	`, column.Name, column.UpdatedAt, column.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("column", column.ID)
	}
	return nil
}

// DeleteColumn deletes a column by ID; tasks and subtasks cascade
func (r *PostgresRepository) DeleteColumn(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM columns WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("column", id)
	}
	return nil
}

// ListColumns returns all columns for a board, ordered by creation
func (r *PostgresRepository) ListColumns(ctx context.Context, boardID string) ([]*models.Column, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, board_id, name, created_at, updated_at
		FROM columns WHERE board_id = $1 ORDER BY created_at
	`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*models.Column
	for rows.Next() {
		column := &models.Column{}
		if err := rows.Scan(&column.ID, &column.BoardID, &column.Name, &column.CreatedAt, &column.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, column)
	}
	return result, rows.Err()
}

// Task operations

// CreateTask creates a new task
func (r *PostgresRepository) CreateTask(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := r.pool.Exec(ctx, `
		INSERT INTO tasks (id, column_id, title, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, task.ID, task.ColumnID, task.Title, task.Description, task.CreatedAt, task.UpdatedAt)

	return err
}

// GetTask retrieves a task by ID
func (r *PostgresRepository) GetTask(ctx context.Context, id string) (*models.Task, error) {
	task := &models.Task{}

	err := r.pool.QueryRow(ctx, `
		SELECT id, column_id, title, description, created_at, updated_at
		FROM tasks WHERE id = $1
	`, id).Scan(&task.ID, &task.ColumnID, &task.Title, &task.Description, &task.CreatedAt, &task.UpdatedAt)

	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("task", id)
	}
	return task, err
}

// UpdateTask updates an existing task
func (r *PostgresRepository) UpdateTask(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now().UTC()

	tag, err := r.pool.Exec(ctx, `
		UPDATE tasks SET title = $1, description = $2, updated_at = $3 WHERE id = $4
	`, task.Title, task.Description, task.UpdatedAt, task.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("task", task.ID)
	}
	return nil
}

// DeleteTask deletes a task by ID; subtasks cascade
func (r *PostgresRepository) DeleteTask(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("task", id)
	}
	return nil
}

// ListTasks returns all tasks in a column, ordered by creation
func (r *PostgresRepository) ListTasks(ctx context.Context, columnID string) ([]*models.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, column_id, title, description, created_at, updated_at
		FROM tasks WHERE column_id = $1 ORDER BY created_at
	`, columnID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*models.Task
	for rows.Next() {
		task := &models.Task{}
		if err := rows.Scan(&task.ID, &task.ColumnID, &task.Title, &task.Description, &task.CreatedAt, &task.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, task)
	}
	return result, rows.Err()
}

// Subtask operations

// CreateSubtask creates a new subtask
func (r *PostgresRepository) CreateSubtask(ctx context.Context, subtask *models.Subtask) error {
	if subtask.ID == "" {
		subtask.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	subtask.CreatedAt = now
	subtask.UpdatedAt = now

	_, err := r.pool.Exec(ctx, `
		INSERT INTO subtasks (id, task_id, title, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, subtask.ID, subtask.TaskID, subtask.Title, subtask.Completed, subtask.CreatedAt, subtask.UpdatedAt)

	return err
}

// GetSubtask retrieves a subtask by ID
func (r *PostgresRepository) GetSubtask(ctx context.Context, id string) (*models.Subtask, error) {
	subtask := &models.Subtask{}

	err := r.pool.QueryRow(ctx, `
		SELECT id, task_id, title, completed, created_at, updated_at
		FROM subtasks WHERE id = $1
	`, id).Scan(&subtask.ID, &subtask.TaskID, &subtask.Title, &subtask.Completed, &subtask.CreatedAt, &subtask.UpdatedAt)

	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("subtask", id)
	}
	return subtask, err
}

// UpdateSubtask updates an existing subtask
func (r *PostgresRepository) UpdateSubtask(ctx context.Context, subtask *models.Subtask) error {
	subtask.UpdatedAt = time.Now().UTC()

	tag, err := r.pool.Exec(ctx, `
		UPDATE subtasks SET title = $1, completed = $2, updated_at = $3 WHERE id = $4
	`, subtask.Title, subtask.Completed, subtask.UpdatedAt, subtask.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("subtask", subtask.ID)
	}
	return nil
}

// DeleteSubtask deletes a subtask by ID
func (r *PostgresRepository) DeleteSubtask(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM subtasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("subtask", id)
	}
	return nil
}

// ListSubtasks returns all subtasks on a task, ordered by creation
func (r *PostgresRepository) ListSubtasks(ctx context.Context, taskID string) ([]*models.Subtask, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, task_id, title, completed, created_at, updated_at
		FROM subtasks WHERE task_id = $1 ORDER BY created_at
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*models.Subtask
	for rows.Next() {
		subtask := &models.Subtask{}
		if err := rows.Scan(&subtask.ID, &subtask.TaskID, &subtask.Title, &subtask.Completed, &subtask.CreatedAt, &subtask.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, subtask)
	}
	return result, rows.Err()
}
