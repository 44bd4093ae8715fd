package service

import (
	"context"

	"github.com/taskdeck/taskdeck/internal/events"
	"github.com/taskdeck/taskdeck/internal/task/models"
	"github.com/taskdeck/taskdeck/internal/task/rules"
)

// boardSiblings builds the uniqueness comparison set for a user's boards.
func boardSiblings(boards []*models.Board) []rules.Sibling {
	siblings := make([]rules.Sibling, 0, len(boards))
	for _, b := range boards {
		siblings = append(siblings, rules.Sibling{ID: b.ID, Name: b.Name})
	}
	return siblings
}

// CreateBoard creates a board owned by the caller. The caller must exist and
// the name must be unique among the caller's boards, compared
// case-insensitively.
func (s *Service) CreateBoard(ctx context.Context, callerID, name string) (*models.Board, error) {
	if callerID != "" {
		if _, err := s.repo.GetUser(ctx, callerID); err != nil {
			return nil, err
		}
	}

	existing, err := s.repo.ListBoards(ctx, callerID)
	if err != nil {
		return nil, err
	}

	if err := rules.CanCreate("board", callerID, callerID, name, boardSiblings(existing)); err != nil {
		return nil, err
	}

	board := &models.Board{OwnerID: callerID, Name: name}
	if err := s.repo.CreateBoard(ctx, board); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.BoardCreated, map[string]interface{}{
		"board_id": board.ID,
		"owner_id": board.OwnerID,
		"name":     board.Name,
	})

	return board, nil
}

// GetBoard returns a board if the caller owns it.
func (s *Service) GetBoard(ctx context.Context, callerID, boardID string) (*models.Board, error) {
	board, err := s.repo.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := rules.CanRead("board", callerID, board.OwnerID); err != nil {
		return nil, err
	}
	return board, nil
}

// ListBoards returns all boards owned by the caller.
func (s *Service) ListBoards(ctx context.Context, callerID string) ([]*models.Board, error) {
	if err := rules.CanRead("board", callerID, callerID); err != nil {
		return nil, err
	}
	return s.repo.ListBoards(ctx, callerID)
}

// UpdateBoard renames a board. A nil name leaves the board unchanged but
// still enforces ownership.
func (s *Service) UpdateBoard(ctx context.Context, callerID, boardID string, name *string) (*models.Board, error) {
	board, err := s.repo.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	if name == nil {
		if err := rules.CanRename("board", callerID, board.OwnerID, board.ID, board.Name, nil); err != nil {
			return nil, err
		}
		return board, nil
	}

	siblings, err := s.repo.ListBoards(ctx, board.OwnerID)
	if err != nil {
		return nil, err
	}
	if err := rules.CanRename("board", callerID, board.OwnerID, board.ID, *name, boardSiblings(siblings)); err != nil {
		return nil, err
	}

	board.Name = *name
	if err := s.repo.UpdateBoard(ctx, board); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.BoardUpdated, map[string]interface{}{
		"board_id": board.ID,
		"owner_id": board.OwnerID,
		"name":     board.Name,
	})

	return board, nil
}

// DeleteBoard deletes a board and everything under it.
func (s *Service) DeleteBoard(ctx context.Context, callerID, boardID string) error {
	board, err := s.repo.GetBoard(ctx, boardID)
	if err != nil {
		return err
	}
	if err := rules.CanDelete("board", callerID, board.OwnerID); err != nil {
		return err
	}

	if err := s.repo.DeleteBoard(ctx, boardID); err != nil {
		return err
	}

	s.publishEvent(ctx, events.BoardDeleted, map[string]interface{}{
		"board_id": board.ID,
		"owner_id": board.OwnerID,
	})

	return nil
}
