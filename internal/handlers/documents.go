package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/taskbank-backend/internal/logger"
	"github.com/yungbote/taskbank-backend/internal/services"
)

type DocumentHandler struct {
	documents services.DocumentGenerationService
	log       *logger.Logger
}

func NewDocumentHandler(documents services.DocumentGenerationService, baseLog *logger.Logger) *DocumentHandler {
	return &DocumentHandler{
		documents: documents,
		log:       baseLog.With("handler", "DocumentHandler"),
	}
}

type generateDocumentRequest struct {
	IncludeAnswers        bool `json:"include_answers"`
	IncludeShortSolutions bool `json:"include_short_solutions"`
	IncludeFullSolutions  bool `json:"include_full_solutions"`
	CompilePDF            bool `json:"compile_pdf"`
	RasterizePDF          bool `json:"rasterize_pdf"`
}

func (h *DocumentHandler) Generate(c *gin.Context) {
	workID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid work id"})
		return
	}

	var req generateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.documents.GenerateDocument(c.Request.Context(), workID, services.RenderOptions{
		IncludeAnswers:        req.IncludeAnswers,
		IncludeShortSolutions: req.IncludeShortSolutions,
		IncludeFullSolutions:  req.IncludeFullSolutions,
		CompilePDF:            req.CompilePDF,
		RasterizePDF:          req.RasterizePDF,
	})
	if err != nil {
		h.log.Error("Document generation failed", "work_id", workID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}
