package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/freeeve/salvo/internal/model"
)

func estimateKey(digest string) string { return "estimate:" + digest }

// GetEstimate returns the cached estimate for a request digest, or nil on a miss.
func (c *Client) GetEstimate(ctx context.Context, digest string) (*model.EstimateResult, error) {
	data, err := c.rdb.Get(ctx, estimateKey(digest)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get estimate: %w", err)
	}
	var res model.EstimateResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode cached estimate: %w", err)
	}
	return &res, nil
}

// SetEstimate caches an estimate. A zero ttl keeps it until evicted.
func (c *Client) SetEstimate(ctx context.Context, digest string, result *model.EstimateResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode estimate: %w", err)
	}
	return c.rdb.Set(ctx, estimateKey(digest), data, ttl).Err()
}
