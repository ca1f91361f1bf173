package service

import (
	"context"
	"fmt"

	"github.com/freeeve/salvo/internal/model"
	"github.com/freeeve/salvo/internal/repository"
	"github.com/freeeve/salvo/internal/scenario"
)

// BoardService keeps the current board of each game.
type BoardService struct {
	store repository.BoardStore
}

// NewBoardService creates a BoardService.
func NewBoardService(store repository.BoardStore) *BoardService {
	return &BoardService{store: store}
}

// SetBoard validates and stores a game's board.
func (s *BoardService) SetBoard(ctx context.Context, gameID string, board *model.BoardSpec) error {
	if gameID == "" {
		return fmt.Errorf("%w: missing game id", ErrInvalidRequest)
	}
	if _, err := scenario.BuildBoard(board); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return s.store.SetBoard(ctx, gameID, board)
}

// GetBoard returns a game's board or ErrBoardNotFound.
func (s *BoardService) GetBoard(ctx context.Context, gameID string) (*model.BoardSpec, error) {
	board, err := s.store.GetBoard(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, fmt.Errorf("%w: game %s", ErrBoardNotFound, gameID)
	}
	return board, nil
}

func (s *BoardService) DeleteBoard(ctx context.Context, gameID string) error {
	return s.store.DeleteBoard(ctx, gameID)
}
