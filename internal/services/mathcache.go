package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/yungbote/taskbank-backend/internal/formula"
	"github.com/yungbote/taskbank-backend/internal/logger"
	"github.com/yungbote/taskbank-backend/internal/types"
)

const mathStatusKeyPrefix = "mathstatus:"

// MathStatus is a task's cached formula summary across all of its text
// fields. Checking math presence over a large bank is hot during document
// planning; the full scan is only done on refresh.
type MathStatus struct {
	TaskID        uuid.UUID `json:"task_id"`
	HasMath       bool      `json:"has_math"`
	TotalFormulas int       `json:"total_formulas"`
	Errors        []string  `json:"errors,omitempty"`
	Warnings      []string  `json:"warnings,omitempty"`
	CachedAt      time.Time `json:"cached_at"`
}

// MathCacheStats summarizes the cache population.
type MathCacheStats struct {
	Cached      int `json:"cached"`
	WithMath    int `json:"with_math"`
	WithErrors  int `json:"with_errors"`
	WithWarning int `json:"with_warnings"`
}

type MathStatusCache interface {
	Get(ctx context.Context, taskID uuid.UUID) (*MathStatus, error)
	Refresh(ctx context.Context, task *types.Task) (*MathStatus, error)
	Warmup(ctx context.Context, tasks []*types.Task) (int, error)
	Clear(ctx context.Context) (int, error)
	Stats(ctx context.Context) (*MathCacheStats, error)
}

type mathStatusCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewMathStatusCache wraps a redis client. A zero ttl means entries only
// leave the cache through Clear or Refresh.
func NewMathStatusCache(client *redis.Client, ttl time.Duration, baseLog *logger.Logger) MathStatusCache {
	return &mathStatusCache{
		client: client,
		ttl:    ttl,
		log:    baseLog.With("service", "MathStatusCache"),
	}
}

// Get returns the cached status, or nil on a miss.
func (c *mathStatusCache) Get(ctx context.Context, taskID uuid.UUID) (*MathStatus, error) {
	raw, err := c.client.Get(ctx, mathStatusKeyPrefix+taskID.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var status MathStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, fmt.Errorf("cache entry for %s corrupt: %w", taskID, err)
	}
	return &status, nil
}

// Refresh recomputes the task's status from its current text fields and
// stores it.
func (c *mathStatusCache) Refresh(ctx context.Context, task *types.Task) (*MathStatus, error) {
	status := computeMathStatus(task)

	raw, err := json.Marshal(status)
	if err != nil {
		return nil, fmt.Errorf("encode status: %w", err)
	}
	if err := c.client.Set(ctx, mathStatusKeyPrefix+task.ID.String(), raw, c.ttl).Err(); err != nil {
		return nil, fmt.Errorf("cache set: %w", err)
	}
	return status, nil
}

// Warmup refreshes every given task and reports how many entries were
// written. Individual failures are logged and skipped; a warmup is an
// optimization, not a transaction.
func (c *mathStatusCache) Warmup(ctx context.Context, tasks []*types.Task) (int, error) {
	written := 0
	for _, task := range tasks {
		if ctx.Err() != nil {
			return written, ctx.Err()
		}
		if _, err := c.Refresh(ctx, task); err != nil {
			c.log.Warn("warmup skip", "task_id", task.ID, "error", err)
			continue
		}
		written++
	}
	c.log.Info("cache warmed", "written", written, "of", len(tasks))
	return written, nil
}

// Clear deletes every math status entry and returns how many were
// removed.
func (c *mathStatusCache) Clear(ctx context.Context) (int, error) {
	removed := 0
	iter := c.client.Scan(ctx, 0, mathStatusKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return removed, fmt.Errorf("cache del %s: %w", iter.Val(), err)
		}
		removed++
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("cache scan: %w", err)
	}
	return removed, nil
}

// Stats walks the cached entries and tallies them.
func (c *mathStatusCache) Stats(ctx context.Context) (*MathCacheStats, error) {
	stats := &MathCacheStats{}
	iter := c.client.Scan(ctx, 0, mathStatusKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		raw, err := c.client.Get(ctx, iter.Val()).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("cache get %s: %w", iter.Val(), err)
		}
		var status MathStatus
		if err := json.Unmarshal(raw, &status); err != nil {
			c.log.Warn("skipping corrupt cache entry", "key", iter.Val())
			continue
		}

		stats.Cached++
		if status.HasMath {
			stats.WithMath++
		}
		if len(status.Errors) > 0 {
			stats.WithErrors++
		}
		if len(status.Warnings) > 0 {
			stats.WithWarning++
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("cache scan: %w", err)
	}
	return stats, nil
}

func computeMathStatus(task *types.Task) *MathStatus {
	status := &MathStatus{TaskID: task.ID, CachedAt: time.Now()}
	for _, field := range task.TextFields() {
		res := formula.ProcessTextSafe(field.Value)
		if res.HasMath {
			status.HasMath = true
		}
		status.TotalFormulas += res.TotalFormulas
		status.Errors = append(status.Errors, res.Errors...)
		status.Warnings = append(status.Warnings, res.Warnings...)
	}
	return status
}
