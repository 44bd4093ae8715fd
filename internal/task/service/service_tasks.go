package service

import (
	"context"

	"github.com/taskdeck/taskdeck/internal/events"
	"github.com/taskdeck/taskdeck/internal/task/models"
	"github.com/taskdeck/taskdeck/internal/task/rules"
)

func taskSiblings(tasks []*models.Task) []rules.Sibling {
	siblings := make([]rules.Sibling, 0, len(tasks))
	for _, t := range tasks {
		siblings = append(siblings, rules.Sibling{ID: t.ID, Name: t.Title})
	}
	return siblings
}

// CreateTask creates a task in a column whose board the caller owns. The
// title must be unique among the column's tasks, compared case-insensitively.
func (s *Service) CreateTask(ctx context.Context, callerID, columnID, title, description string) (*models.Task, error) {
	column, err := s.repo.GetColumn(ctx, columnID)
	if err != nil {
		return nil, err
	}
	board, err := s.columnBoard(ctx, column)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.ListTasks(ctx, columnID)
	if err != nil {
		return nil, err
	}

	if err := rules.CanCreate("task", callerID, board.OwnerID, title, taskSiblings(existing)); err != nil {
		return nil, err
	}

	task := &models.Task{ColumnID: columnID, Title: title, Description: description}
	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.TaskCreated, map[string]interface{}{
		"task_id":   task.ID,
		"column_id": task.ColumnID,
		"title":     task.Title,
	})

	return task, nil
}

// GetTask returns a task if the caller owns its board.
func (s *Service) GetTask(ctx context.Context, callerID, taskID string) (*models.Task, error) {
	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	board, err := s.taskBoard(ctx, task)
	if err != nil {
		return nil, err
	}
	if err := rules.CanRead("task", callerID, board.OwnerID); err != nil {
		return nil, err
	}
	return task, nil
}

// ListTasks returns all tasks in a column whose board the caller owns.
func (s *Service) ListTasks(ctx context.Context, callerID, columnID string) ([]*models.Task, error) {
	column, err := s.repo.GetColumn(ctx, columnID)
	if err != nil {
		return nil, err
	}
	board, err := s.columnBoard(ctx, column)
	if err != nil {
		return nil, err
	}
	if err := rules.CanRead("task", callerID, board.OwnerID); err != nil {
		return nil, err
	}
	return s.repo.ListTasks(ctx, columnID)
}

// UpdateTask updates a task's title and description. Nil fields are left
// unchanged; a nil title skips the uniqueness check entirely.
func (s *Service) UpdateTask(ctx context.Context, callerID, taskID string, title, description *string) (*models.Task, error) {
	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	board, err := s.taskBoard(ctx, task)
	if err != nil {
		return nil, err
	}

	if title != nil {
		siblings, err := s.repo.ListTasks(ctx, task.ColumnID)
		if err != nil {
			return nil, err
		}
		if err := rules.CanRename("task", callerID, board.OwnerID, task.ID, *title, taskSiblings(siblings)); err != nil {
			return nil, err
		}
		task.Title = *title
	} else {
		if err := rules.CanRename("task", callerID, board.OwnerID, task.ID, task.Title, nil); err != nil {
			return nil, err
		}
	}

	if description != nil {
		task.Description = *description
	}

	if title == nil && description == nil {
		return task, nil
	}

	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.TaskUpdated, map[string]interface{}{
		"task_id":   task.ID,
		"column_id": task.ColumnID,
		"title":     task.Title,
	})

	return task, nil
}

// DeleteTask deletes a task and its subtasks.
func (s *Service) DeleteTask(ctx context.Context, callerID, taskID string) error {
	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	board, err := s.taskBoard(ctx, task)
	if err != nil {
		return err
	}
	if err := rules.CanDelete("task", callerID, board.OwnerID); err != nil {
		return err
	}

	if err := s.repo.DeleteTask(ctx, taskID); err != nil {
		return err
	}

	s.publishEvent(ctx, events.TaskDeleted, map[string]interface{}{
		"task_id":   task.ID,
		"column_id": task.ColumnID,
	})

	return nil
}
