// Package service implements the business logic for boards, columns, tasks,
// and subtasks: ownership checks, sibling uniqueness, and lifecycle events.
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskdeck/taskdeck/internal/common/logger"
	"github.com/taskdeck/taskdeck/internal/events/bus"
	"github.com/taskdeck/taskdeck/internal/task/models"
	"github.com/taskdeck/taskdeck/internal/task/repository"
)

// Service coordinates repository access, access rules, and event publishing.
type Service struct {
	repo     repository.Repository
	eventBus bus.EventBus
	logger   *logger.Logger
}

// NewService creates a new task service. The event bus may be nil, in which
// case lifecycle events are not published.
func NewService(repo repository.Repository, eventBus bus.EventBus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		logger:   log,
	}
}

// publishEvent publishes a lifecycle event to the event bus. Publishing is
// best-effort: failures are logged and do not fail the operation.
func (s *Service) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventBus == nil {
		return
	}

	event := bus.NewEvent(eventType, "task-service", data)
	if err := s.eventBus.Publish(ctx, eventType, event); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.Error(err))
	}
}

// columnBoard resolves the board a column belongs to.
func (s *Service) columnBoard(ctx context.Context, column *models.Column) (*models.Board, error) {
	return s.repo.GetBoard(ctx, column.BoardID)
}

// taskBoard resolves a task's root board through its column.
func (s *Service) taskBoard(ctx context.Context, task *models.Task) (*models.Board, error) {
	column, err := s.repo.GetColumn(ctx, task.ColumnID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetBoard(ctx, column.BoardID)
}

// subtaskBoard resolves a subtask's root board through its task and column.
func (s *Service) subtaskBoard(ctx context.Context, subtask *models.Subtask) (*models.Board, error) {
	task, err := s.repo.GetTask(ctx, subtask.TaskID)
	if err != nil {
		return nil, err
	}
	return s.taskBoard(ctx, task)
}
