package services

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/yungbote/taskbank-backend/internal/logger"
	"github.com/yungbote/taskbank-backend/internal/types"
)

func TestComputeMathStatus(t *testing.T) {
	task := &types.Task{
		Text:   "solve $x^2$ and $y^2$",
		Answer: "$42$",
		Hint:   "no math here",
	}

	status := computeMathStatus(task)
	if !status.HasMath {
		t.Fatal("HasMath = false")
	}
	if status.TotalFormulas != 3 {
		t.Fatalf("TotalFormulas = %d, want 3", status.TotalFormulas)
	}
	if len(status.Errors) != 0 {
		t.Fatalf("unexpected errors %v", status.Errors)
	}
}

func TestComputeMathStatusFieldOrder(t *testing.T) {
	// Diagnostics accumulate in the fixed field order, text before answer,
	// so repeated refreshes of the same task cache identical payloads.
	task := &types.Task{
		Text:   `$\input{a}$`,
		Answer: `$\include{b}$`,
	}

	status := computeMathStatus(task)
	if len(status.Errors) != 2 {
		t.Fatalf("got errors %v, want 2", status.Errors)
	}
	if !strings.Contains(status.Errors[0], `\input`) || !strings.Contains(status.Errors[1], `\include`) {
		t.Fatalf("errors not in field order: %v", status.Errors)
	}
}

func TestComputeMathStatusCollectsErrors(t *testing.T) {
	task := &types.Task{Text: `broken $\input{x}$`}

	status := computeMathStatus(task)
	if !status.HasMath || status.TotalFormulas != 1 {
		t.Fatalf("unexpected status %+v", status)
	}
	if len(status.Errors) == 0 {
		t.Fatal("expected errors for dangerous formula")
	}
}

// The round-trip tests need a live server; set REDIS_ADDR to run them.
func cacheForTest(t *testing.T) MathStatusCache {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 9})
	t.Cleanup(func() { _ = client.Close() })
	return NewMathStatusCache(client, time.Minute, logger.Nop())
}

func TestMathStatusCacheRoundTrip(t *testing.T) {
	cache := cacheForTest(t)
	ctx := context.Background()

	task := &types.Task{ID: uuid.New(), Text: "cached $a+b$"}

	if _, err := cache.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if status, err := cache.Get(ctx, task.ID); err != nil || status != nil {
		t.Fatalf("expected miss, got %+v, %v", status, err)
	}

	written, err := cache.Refresh(ctx, task)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !written.HasMath || written.TotalFormulas != 1 {
		t.Fatalf("unexpected status %+v", written)
	}

	got, err := cache.Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.TaskID != task.ID || got.TotalFormulas != 1 {
		t.Fatalf("unexpected cached status %+v", got)
	}

	stats, err := cache.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Cached != 1 || stats.WithMath != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	removed, err := cache.Clear(ctx)
	if err != nil || removed != 1 {
		t.Fatalf("clear removed %d, %v", removed, err)
	}
}
