package repository

import (
	"context"
	"time"

	"github.com/freeeve/salvo/internal/model"
)

// WeaponRepository defines weapon catalog operations.
type WeaponRepository interface {
	// FindByName matches display or internal name, case-insensitively.
	// It returns nil, nil when no weapon matches.
	FindByName(ctx context.Context, name string) (*model.WeaponRecord, error)
	List(ctx context.Context) ([]model.WeaponRecord, error)
	Upsert(ctx context.Context, w model.WeaponRecord) error
}

// EstimateCache stores computed estimates keyed by request digest (Redis).
type EstimateCache interface {
	// GetEstimate returns nil, nil on a miss.
	GetEstimate(ctx context.Context, digest string) (*model.EstimateResult, error)
	SetEstimate(ctx context.Context, digest string, result *model.EstimateResult, ttl time.Duration) error
}

// BoardStore holds the current board of each game (Redis).
type BoardStore interface {
	SetBoard(ctx context.Context, gameID string, board *model.BoardSpec) error
	// GetBoard returns nil, nil when the game has no board.
	GetBoard(ctx context.Context, gameID string) (*model.BoardSpec, error)
	DeleteBoard(ctx context.Context, gameID string) error
}
