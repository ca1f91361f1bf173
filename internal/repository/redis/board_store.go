package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/freeeve/salvo/internal/model"
)

func boardKey(gameID string) string { return "game:" + gameID + ":board" }

// SetBoard replaces the stored board snapshot of a game.
func (c *Client) SetBoard(ctx context.Context, gameID string, board *model.BoardSpec) error {
	data, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("encode board: %w", err)
	}
	return c.rdb.Set(ctx, boardKey(gameID), data, 0).Err()
}

// GetBoard returns the stored board of a game, or nil when none is stored.
func (c *Client) GetBoard(ctx context.Context, gameID string) (*model.BoardSpec, error) {
	data, err := c.rdb.Get(ctx, boardKey(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get board: %w", err)
	}
	var board model.BoardSpec
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, fmt.Errorf("decode board: %w", err)
	}
	return &board, nil
}

// DeleteBoard removes a game's board. Deleting a missing board is not an error.
func (c *Client) DeleteBoard(ctx context.Context, gameID string) error {
	return c.rdb.Del(ctx, boardKey(gameID)).Err()
}
