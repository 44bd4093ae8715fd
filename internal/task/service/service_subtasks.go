package service

import (
	"context"

	"github.com/taskdeck/taskdeck/internal/events"
	"github.com/taskdeck/taskdeck/internal/task/models"
	"github.com/taskdeck/taskdeck/internal/task/rules"
)

func subtaskSiblings(subtasks []*models.Subtask) []rules.Sibling {
	siblings := make([]rules.Sibling, 0, len(subtasks))
	for _, st := range subtasks {
		siblings = append(siblings, rules.Sibling{ID: st.ID, Name: st.Title})
	}
	return siblings
}

// CreateSubtask creates a subtask on a task whose board the caller owns. The
// title must be unique among the task's subtasks, compared case-insensitively.
func (s *Service) CreateSubtask(ctx context.Context, callerID, taskID, title string) (*models.Subtask, error) {
	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	board, err := s.taskBoard(ctx, task)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.ListSubtasks(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := rules.CanCreate("subtask", callerID, board.OwnerID, title, subtaskSiblings(existing)); err != nil {
		return nil, err
	}

	subtask := &models.Subtask{TaskID: taskID, Title: title}
	if err := s.repo.CreateSubtask(ctx, subtask); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.SubtaskCreated, map[string]interface{}{
		"subtask_id": subtask.ID,
		"task_id":    subtask.TaskID,
		"title":      subtask.Title,
	})

	return subtask, nil
}

// GetSubtask returns a subtask if the caller owns its board.
func (s *Service) GetSubtask(ctx context.Context, callerID, subtaskID string) (*models.Subtask, error) {
	subtask, err := s.repo.GetSubtask(ctx, subtaskID)
	if err != nil {
		return nil, err
	}
	board, err := s.subtaskBoard(ctx, subtask)
	if err != nil {
		return nil, err
	}
	if err := rules.CanRead("subtask", callerID, board.OwnerID); err != nil {
		return nil, err
	}
	return subtask, nil
}

// ListSubtasks returns all subtasks on a task whose board the caller owns.
func (s *Service) ListSubtasks(ctx context.Context, callerID, taskID string) ([]*models.Subtask, error) {
	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	board, err := s.taskBoard(ctx, task)
	if err != nil {
		return nil, err
	}
	if err := rules.CanRead("subtask", callerID, board.OwnerID); err != nil {
		return nil, err
	}
	return s.repo.ListSubtasks(ctx, taskID)
}

// UpdateSubtask updates a subtask's title and completion state. Nil fields
// are left unchanged; a nil title skips the uniqueness check entirely.
func (s *Service) UpdateSubtask(ctx context.Context, callerID, subtaskID string, title *string, completed *bool) (*models.Subtask, error) {
	subtask, err := s.repo.GetSubtask(ctx, subtaskID)
	if err != nil {
		return nil, err
	}
	board, err := s.subtaskBoard(ctx, subtask)
	if err != nil {
		return nil, err
	}

	if title != nil {
		siblings, err := s.repo.ListSubtasks(ctx, subtask.TaskID)
		if err != nil {
			return nil, err
		}
		if err := rules.CanRename("subtask", callerID, board.OwnerID, subtask.ID, *title, subtaskSiblings(siblings)); err != nil {
			return nil, err
		}
		subtask.Title = *title
	} else {
		if err := rules.CanRename("subtask", callerID, board.OwnerID, subtask.ID, subtask.Title, nil); err != nil {
			return nil, err
		}
	}

	if completed != nil {
		subtask.Completed = *completed
	}

	if title == nil && completed == nil {
		return subtask, nil
	}

	if err := s.repo.UpdateSubtask(ctx, subtask); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.SubtaskUpdated, map[string]interface{}{
		"subtask_id": subtask.ID,
		"task_id":    subtask.TaskID,
		"title":      subtask.Title,
		"completed":  subtask.Completed,
	})

	return subtask, nil
}

// DeleteSubtask deletes a subtask.
func (s *Service) DeleteSubtask(ctx context.Context, callerID, subtaskID string) error {
	subtask, err := s.repo.GetSubtask(ctx, subtaskID)
	if err != nil {
		return err
	}
	board, err := s.subtaskBoard(ctx, subtask)
	if err != nil {
		return err
	}
	if err := rules.CanDelete("subtask", callerID, board.OwnerID); err != nil {
		return err
	}

	if err := s.repo.DeleteSubtask(ctx, subtaskID); err != nil {
		return err
	}

	s.publishEvent(ctx, events.SubtaskDeleted, map[string]interface{}{
		"subtask_id": subtask.ID,
		"task_id":    subtask.TaskID,
	})

	return nil
}
