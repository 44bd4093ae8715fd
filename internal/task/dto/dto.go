// Package dto defines the request and response payloads for the HTTP API.
package dto

import (
	"time"

	"github.com/taskdeck/taskdeck/internal/task/models"
)

// CreateBoardRequest is the payload for creating a board.
type CreateBoardRequest struct {
	Name string `json:"name" binding:"required,min=3,max=50"`
}

// UpdateBoardRequest is the payload for updating a board.
// Omitted fields are left unchanged.
type UpdateBoardRequest struct {
	Name *string `json:"name" binding:"omitnil,min=3,max=50"`
}

// CreateColumnRequest is the payload for creating a column.
type CreateColumnRequest struct {
	BoardID string `json:"boardId" binding:"required"`
	Name    string `json:"name" binding:"required,min=3,max=50"`
}

// UpdateColumnRequest is the payload for updating a column.
type UpdateColumnRequest struct {
	Name *string `json:"name" binding:"omitnil,min=3,max=50"`
}

// CreateTaskRequest is the payload for creating a task.
type CreateTaskRequest struct {
	ColumnID    string `json:"columnId" binding:"required"`
	Title       string `json:"title" binding:"required,min=3,max=50"`
	Description string `json:"description" binding:"required,min=3,max=255"`
}

// UpdateTaskRequest is the payload for updating a task.
type UpdateTaskRequest struct {
	Title       *string `json:"title" binding:"omitnil,min=3,max=50"`
	Description *string `json:"description" binding:"omitnil,min=3,max=255"`
}

// CreateSubtaskRequest is the payload for creating a subtask.
type CreateSubtaskRequest struct {
	TaskID string `json:"taskId" binding:"required"`
	Title  string `json:"title" binding:"required,min=3,max=50"`
}

// UpdateSubtaskRequest is the payload for updating a subtask.
type UpdateSubtaskRequest struct {
	Title     *string `json:"title" binding:"omitnil,min=3,max=50"`
	Completed *bool   `json:"completed"`
}

// BoardResponse is the API representation of a board.
type BoardResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ColumnResponse is the API representation of a column.
type ColumnResponse struct {
	ID        string    `json:"id"`
	BoardID   string    `json:"boardId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TaskResponse is the API representation of a task.
type TaskResponse struct {
	ID          string    `json:"id"`
	ColumnID    string    `json:"columnId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SubtaskResponse is the API representation of a subtask.
type SubtaskResponse struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromBoard converts a board model to its API representation.
func FromBoard(b *models.Board) BoardResponse {
	return BoardResponse{
		ID:        b.ID,
		Name:      b.Name,
		OwnerID:   b.OwnerID,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// FromBoards converts a slice of board models.
func FromBoards(boards []*models.Board) []BoardResponse {
	result := make([]BoardResponse, 0, len(boards))
	for _, b := range boards {
		result = append(result, FromBoard(b))
	}
	return result
}

// FromColumn converts a column model to its API representation.
func FromColumn(c *models.Column) ColumnResponse {
	return ColumnResponse{
		ID:        c.ID,
		BoardID:   c.BoardID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// FromColumns converts a slice of column models.
func FromColumns(columns []*models.Column) []ColumnResponse {
	result := make([]ColumnResponse, 0, len(columns))
	for _, c := range columns {
		result = append(result, FromColumn(c))
	}
	return result
}

// FromTask converts a task model to its API representation.
func FromTask(t *models.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		ColumnID:    t.ColumnID,
		Title:       t.Title,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// FromTasks converts a slice of task models.
func FromTasks(tasks []*models.Task) []TaskResponse {
	result := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		result = append(result, FromTask(t))
	}
	return result
}

// FromSubtask converts a subtask model to its API representation.
func FromSubtask(s *models.Subtask) SubtaskResponse {
	return SubtaskResponse{
		ID:        s.ID,
		TaskID:    s.TaskID,
		Title:     s.Title,
		Completed: s.Completed,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// FromSubtasks converts a slice of subtask models.
func FromSubtasks(subtasks []*models.Subtask) []SubtaskResponse {
	result := make([]SubtaskResponse, 0, len(subtasks))
	for _, s := range subtasks {
		result = append(result, FromSubtask(s))
	}
	return result
}
