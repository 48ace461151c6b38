package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/taskbank-backend/internal/logger"
	"github.com/yungbote/taskbank-backend/internal/repos"
	"github.com/yungbote/taskbank-backend/internal/services"
)

type MathCacheHandler struct {
	cache    services.MathStatusCache
	taskRepo repos.TaskRepo
	log      *logger.Logger
}

func NewMathCacheHandler(cache services.MathStatusCache, taskRepo repos.TaskRepo, baseLog *logger.Logger) *MathCacheHandler {
	return &MathCacheHandler{
		cache:    cache,
		taskRepo: taskRepo,
		log:      baseLog.With("handler", "MathCacheHandler"),
	}
}

func (h *MathCacheHandler) Stats(c *gin.Context) {
	stats, err := h.cache.Stats(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to read cache stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read cache stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (h *MathCacheHandler) Refresh(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	tasks, err := h.taskRepo.GetByIDs(c.Request.Context(), nil, []uuid.UUID{taskID})
	if err != nil || len(tasks) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	status, err := h.cache.Refresh(c.Request.Context(), tasks[0])
	if err != nil {
		h.log.Error("Failed to refresh cache entry", "task_id", taskID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to refresh cache entry"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

// Warmup recomputes the status of every task in the bank.
func (h *MathCacheHandler) Warmup(c *gin.Context) {
	ctx := c.Request.Context()

	ids, err := h.taskRepo.GetIDs(ctx, nil)
	if err != nil {
		h.log.Error("Failed to list tasks for warmup", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tasks"})
		return
	}
	tasks, err := h.taskRepo.GetByIDs(ctx, nil, ids)
	if err != nil {
		h.log.Error("Failed to load tasks for warmup", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load tasks"})
		return
	}

	written, err := h.cache.Warmup(ctx, tasks)
	if err != nil {
		h.log.Error("Cache warmup interrupted", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "warmup interrupted"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"written": written, "total": len(tasks)})
}

func (h *MathCacheHandler) Clear(c *gin.Context) {
	removed, err := h.cache.Clear(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to clear cache", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear cache"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
