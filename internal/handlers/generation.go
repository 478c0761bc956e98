package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/draftforge/draftforge-backend/internal/services"
)

type GenerationHandler struct {
	generationService services.GenerationService
}

func NewGenerationHandler(generationService services.GenerationService) *GenerationHandler {
	return &GenerationHandler{generationService: generationService}
}

func generationStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, services.ErrDocxOnly), errors.Is(err, services.ErrNoFeedback):
		return http.StatusBadRequest
	case notFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (gh *GenerationHandler) Plan(c *gin.Context) {
	projectID, ok := paramUUID(c, "project_id")
	if !ok {
		return
	}
	project, err := gh.generationService.PlanStructure(c.Request.Context(), projectID)
	if err != nil {
		RespondError(c, generationStatus(err), "plan_failed", err)
		return
	}
	RespondOK(c, gin.H{"project": project})
}

func (gh *GenerationHandler) GenerateSection(c *gin.Context) {
	sectionID, ok := paramUUID(c, "section_id")
	if !ok {
		return
	}
	section, err := gh.generationService.GenerateSection(c.Request.Context(), sectionID)
	if err != nil {
		RespondError(c, generationStatus(err), "generate_failed", err)
		return
	}
	RespondOK(c, gin.H{"section": section})
}

func (gh *GenerationHandler) Refine(c *gin.Context) {
	sectionID, ok := paramUUID(c, "section_id")
	if !ok {
		return
	}
	var req struct {
		Instruction string `json:"instruction"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	section, err := gh.generationService.RefineSection(c.Request.Context(), sectionID, req.Instruction)
	if err != nil {
		RespondError(c, generationStatus(err), "refine_failed", err)
		return
	}
	RespondOK(c, gin.H{"section": section})
}

func (gh *GenerationHandler) GenerateAll(c *gin.Context) {
	projectID, ok := paramUUID(c, "project_id")
	if !ok {
		return
	}
	sections, err := gh.generationService.GenerateAllSections(c.Request.Context(), projectID)
	if err != nil {
		RespondError(c, generationStatus(err), "generate_all_failed", err)
		return
	}
	RespondOK(c, gin.H{"sections": sections})
}

func (gh *GenerationHandler) GenerateFullDocument(c *gin.Context) {
	projectID, ok := paramUUID(c, "project_id")
	if !ok {
		return
	}
	sections, err := gh.generationService.GenerateFullDocument(c.Request.Context(), projectID)
	if err != nil {
		RespondError(c, generationStatus(err), "generate_document_failed", err)
		return
	}
	RespondOK(c, gin.H{"sections": sections})
}

func (gh *GenerationHandler) History(c *gin.Context) {
	sectionID, ok := paramUUID(c, "section_id")
	if !ok {
		return
	}
	history, err := gh.generationService.RefinementHistory(c.Request.Context(), sectionID)
	if err != nil {
		RespondError(c, generationStatus(err), "history_failed", err)
		return
	}
	RespondOK(c, gin.H{"history": history})
}
