package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/taskbank-backend/internal/formula"
	"github.com/yungbote/taskbank-backend/internal/logger"
	"github.com/yungbote/taskbank-backend/internal/repos"
	"github.com/yungbote/taskbank-backend/internal/types"
)

type TaskHandler struct {
	taskRepo  repos.TaskRepo
	imageRepo repos.TaskImageRepo
	groupRepo repos.AnalogGroupRepo
	log       *logger.Logger
}

func NewTaskHandler(taskRepo repos.TaskRepo, imageRepo repos.TaskImageRepo, groupRepo repos.AnalogGroupRepo, baseLog *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskRepo:  taskRepo,
		imageRepo: imageRepo,
		groupRepo: groupRepo,
		log:       baseLog.With("handler", "TaskHandler"),
	}
}

type createTaskRequest struct {
	Text          string `json:"text" binding:"required"`
	Answer        string `json:"answer"`
	ShortSolution string `json:"short_solution"`
	FullSolution  string `json:"full_solution"`
	Hint          string `json:"hint"`
	Instruction   string `json:"instruction"`
	Section       string `json:"section"`
	Topic         string `json:"topic"`
	Subtopic      string `json:"subtopic"`
	TaskType      string `json:"task_type"`
	Difficulty    int    `json:"difficulty"`
}

func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task := &types.Task{
		Text:          req.Text,
		Answer:        req.Answer,
		ShortSolution: req.ShortSolution,
		FullSolution:  req.FullSolution,
		Hint:          req.Hint,
		Instruction:   req.Instruction,
		Section:       req.Section,
		Topic:         req.Topic,
		Subtopic:      req.Subtopic,
		TaskType:      req.TaskType,
		Difficulty:    req.Difficulty,
	}

	created, err := h.taskRepo.Create(c.Request.Context(), nil, []*types.Task{task})
	if err != nil {
		h.log.Error("Failed to create task", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": created[0]})
}

// CheckMath validates a task's text fields without storing anything; the
// editor calls this before save to show formula problems inline.
func (h *TaskHandler) CheckMath(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := formula.ProcessTextSafe(req.Text)
	c.JSON(http.StatusOK, gin.H{
		"has_math":       res.HasMath,
		"total_formulas": res.TotalFormulas,
		"has_errors":     res.HasErrors,
		"has_warnings":   res.HasWarnings,
		"errors":         res.Errors,
		"warnings":       res.Warnings,
	})
}

type addImageRequest struct {
	FilePath string `json:"file_path" binding:"required"`
	Position string `json:"position"`
	Caption  string `json:"caption"`
	Order    int    `json:"order"`
}

func (h *TaskHandler) AddImage(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	var req addImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	image := &types.TaskImage{
		TaskID:   taskID,
		FilePath: req.FilePath,
		Position: req.Position,
		Caption:  req.Caption,
		Order:    req.Order,
	}
	if image.Position == "" {
		image.Position = types.PositionBottom70
	}

	created, err := h.imageRepo.Create(c.Request.Context(), nil, []*types.TaskImage{image})
	if err != nil {
		h.log.Error("Failed to attach image", "task_id", taskID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to attach image"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"image": created[0]})
}

type createGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *TaskHandler) CreateGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.groupRepo.Create(c.Request.Context(), nil, []*types.AnalogGroup{
		{Name: req.Name, Description: req.Description},
	})
	if err != nil {
		h.log.Error("Failed to create group", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create group"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"group": created[0]})
}

func (h *TaskHandler) AddToGroup(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}
	taskID, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	if err := h.taskRepo.AddToGroup(c.Request.Context(), nil, taskID, groupID); err != nil {
		h.log.Error("Failed to add task to group", "group_id", groupID, "task_id", taskID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add task to group"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"group_id": groupID, "task_id": taskID})
}
