package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/draftforge/draftforge-backend/internal/services"
)

type SectionHandler struct {
	sectionService services.SectionService
}

func NewSectionHandler(sectionService services.SectionService) *SectionHandler {
	return &SectionHandler{sectionService: sectionService}
}

func (sh *SectionHandler) Create(c *gin.Context) {
	projectID, ok := paramUUID(c, "project_id")
	if !ok {
		return
	}
	var req struct {
		Title       string     `json:"title"`
		InsertAfter *uuid.UUID `json:"insert_after,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	section, err := sh.sectionService.CreateSection(c.Request.Context(), projectID, req.Title, req.InsertAfter)
	if err != nil {
		status := http.StatusBadRequest
		if notFound(err) {
			status = http.StatusNotFound
		}
		RespondError(c, status, "create_failed", err)
		return
	}
	RespondOK(c, gin.H{"section": section})
}

func (sh *SectionHandler) Get(c *gin.Context) {
	sectionID, ok := paramUUID(c, "section_id")
	if !ok {
		return
	}
	section, err := sh.sectionService.GetSection(c.Request.Context(), sectionID)
	if err != nil {
		status := http.StatusInternalServerError
		if notFound(err) {
			status = http.StatusNotFound
		}
		RespondError(c, status, "get_failed", err)
		return
	}
	RespondOK(c, gin.H{"section": section})
}

func (sh *SectionHandler) Update(c *gin.Context) {
	sectionID, ok := paramUUID(c, "section_id")
	if !ok {
		return
	}
	var req struct {
		Title   *string `json:"title,omitempty"`
		Content *string `json:"content,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	section, err := sh.sectionService.UpdateSection(c.Request.Context(), sectionID, req.Title, req.Content)
	if err != nil {
		status := http.StatusBadRequest
		if notFound(err) {
			status = http.StatusNotFound
		}
		RespondError(c, status, "update_failed", err)
		return
	}
	RespondOK(c, gin.H{"section": section})
}

func (sh *SectionHandler) Delete(c *gin.Context) {
	sectionID, ok := paramUUID(c, "section_id")
	if !ok {
		return
	}
	if err := sh.sectionService.DeleteSection(c.Request.Context(), sectionID); err != nil {
		status := http.StatusBadRequest
		if notFound(err) {
			status = http.StatusNotFound
		}
		RespondError(c, status, "delete_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (sh *SectionHandler) Reorder(c *gin.Context) {
	sectionID, ok := paramUUID(c, "section_id")
	if !ok {
		return
	}
	var req struct {
		NewIndex int `json:"new_index"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	sections, err := sh.sectionService.ReorderSection(c.Request.Context(), sectionID, req.NewIndex)
	if err != nil {
		status := http.StatusBadRequest
		if notFound(err) {
			status = http.StatusNotFound
		}
		RespondError(c, status, "reorder_failed", err)
		return
	}
	RespondOK(c, gin.H{"sections": sections})
}
