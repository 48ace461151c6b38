package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/taskbank-backend/internal/logger"
	"github.com/yungbote/taskbank-backend/internal/repos"
	"github.com/yungbote/taskbank-backend/internal/services"
	"github.com/yungbote/taskbank-backend/internal/types"
)

type WorkHandler struct {
	workRepo    repos.WorkRepo
	variantRepo repos.VariantRepo
	variants    services.VariantGenerationService
	log         *logger.Logger
}

func NewWorkHandler(workRepo repos.WorkRepo, variantRepo repos.VariantRepo, variants services.VariantGenerationService, baseLog *logger.Logger) *WorkHandler {
	return &WorkHandler{
		workRepo:    workRepo,
		variantRepo: variantRepo,
		variants:    variants,
		log:         baseLog.With("handler", "WorkHandler"),
	}
}

type createWorkRequest struct {
	Name     string `json:"name" binding:"required"`
	Duration int    `json:"duration"`
}

func (h *WorkHandler) Create(c *gin.Context) {
	var req createWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	work := &types.Work{Name: req.Name, Duration: req.Duration}
	if work.Duration <= 0 {
		work.Duration = 45
	}

	created, err := h.workRepo.Create(c.Request.Context(), nil, []*types.Work{work})
	if err != nil {
		h.log.Error("Failed to create work", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create work"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"work": created[0]})
}

type addWorkGroupRequest struct {
	AnalogGroupID uuid.UUID `json:"analog_group_id" binding:"required"`
	Count         int       `json:"count"`
}

func (h *WorkHandler) AddGroup(c *gin.Context) {
	workID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid work id"})
		return
	}

	var req addWorkGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Count <= 0 {
		req.Count = 1
	}

	cfg := &types.WorkAnalogGroup{
		WorkID:        workID,
		AnalogGroupID: req.AnalogGroupID,
		Count:         req.Count,
	}
	if err := h.workRepo.AddGroup(c.Request.Context(), nil, cfg); err != nil {
		h.log.Error("Failed to add group to work", "work_id", workID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add group to work"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"configuration": cfg})
}

type generateVariantsRequest struct {
	Count int `json:"count" binding:"required,min=1"`
}

func (h *WorkHandler) GenerateVariants(c *gin.Context) {
	workID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid work id"})
		return
	}

	var req generateVariantsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.variants.GenerateVariants(c.Request.Context(), workID, req.Count)
	if err != nil {
		h.log.Error("Variant generation failed", "work_id", workID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"variants": result.Variants,
		"warnings": result.Warnings,
	})
}

func (h *WorkHandler) ListVariants(c *gin.Context) {
	workID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid work id"})
		return
	}

	variants, err := h.variantRepo.GetByWorkID(c.Request.Context(), nil, workID)
	if err != nil {
		h.log.Error("Failed to list variants", "work_id", workID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list variants"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"variants": variants})
}
