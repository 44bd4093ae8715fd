package service

import (
	"context"

	"github.com/taskdeck/taskdeck/internal/events"
	"github.com/taskdeck/taskdeck/internal/task/models"
	"github.com/taskdeck/taskdeck/internal/task/rules"
)

func columnSiblings(columns []*models.Column) []rules.Sibling {
	siblings := make([]rules.Sibling, 0, len(columns))
	for _, c := range columns {
		siblings = append(siblings, rules.Sibling{ID: c.ID, Name: c.Name})
	}
	return siblings
}

// CreateColumn creates a column on a board owned by the caller. The name must
// be unique among the board's columns, compared case-insensitively.
func (s *Service) CreateColumn(ctx context.Context, callerID, boardID, name string) (*models.Column, error) {
	board, err := s.repo.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.ListColumns(ctx, boardID)
	if err != nil {
		return nil, err
	}

	if err := rules.CanCreate("column", callerID, board.OwnerID, name, columnSiblings(existing)); err != nil {
		return nil, err
	}

	column := &models.Column{BoardID: boardID, Name: name}
	if err := s.repo.CreateColumn(ctx, column); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.ColumnCreated, map[string]interface{}{
		"column_id": column.ID,
		"board_id":  column.BoardID,
		"name":      column.Name,
	})

	return column, nil
}

// GetColumn returns a column if the caller owns its board.
func (s *Service) GetColumn(ctx context.Context, callerID, columnID string) (*models.Column, error) {
	column, err := s.repo.GetColumn(ctx, columnID)
	if err != nil {
		return nil, err
	}
	board, err := s.columnBoard(ctx, column)
	if err != nil {
		return nil, err
	}
	if err := rules.CanRead("column", callerID, board.OwnerID); err != nil {
		return nil, err
	}
	return column, nil
}

// ListColumns returns all columns on a board owned by the caller.
func (s *Service) ListColumns(ctx context.Context, callerID, boardID string) ([]*models.Column, error) {
	board, err := s.repo.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := rules.CanRead("column", callerID, board.OwnerID); err != nil {
		return nil, err
	}
	return s.repo.ListColumns(ctx, boardID)
}

// UpdateColumn renames a column. A nil name leaves the column unchanged but
// still enforces ownership.
func (s *Service) UpdateColumn(ctx context.Context, callerID, columnID string, name *string) (*models.Column, error) {
	column, err := s.repo.GetColumn(ctx, columnID)
	if err != nil {
		return nil, err
	}
	board, err := s.columnBoard(ctx, column)
	if err != nil {
		return nil, err
	}

	if name == nil {
		if err := rules.CanRename("column", callerID, board.OwnerID, column.ID, column.Name, nil); err != nil {
			return nil, err
		}
		return column, nil
	}

	siblings, err := s.repo.ListColumns(ctx, column.BoardID)
	if err != nil {
		return nil, err
	}
	if err := rules.CanRename("column", callerID, board.OwnerID, column.ID, *name, columnSiblings(siblings)); err != nil {
		return nil, err
	}

	column.Name = *name
	if err := s.repo.UpdateColumn(ctx, column); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.ColumnUpdated, map[string]interface{}{
		"column_id": column.ID,
		"board_id":  column.BoardID,
		"name":      column.Name,
	})

	return column, nil
}

// DeleteColumn deletes a column and its tasks and subtasks.
func (s *Service) DeleteColumn(ctx context.Context, callerID, columnID string) error {
	column, err := s.repo.GetColumn(ctx, columnID)
	if err != nil {
		return err
	}
	board, err := s.columnBoard(ctx, column)
	if err != nil {
		return err
	}
	if err := rules.CanDelete("column", callerID, board.OwnerID); err != nil {
		return err
	}

	if err := s.repo.DeleteColumn(ctx, columnID); err != nil {
		return err
	}

	s.publishEvent(ctx, events.ColumnDeleted, map[string]interface{}{
		"column_id": column.ID,
		"board_id":  column.BoardID,
	})

	return nil
}
