package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/draftforge/draftforge-backend/internal/services"
)

type FeedbackHandler struct {
	feedbackService services.FeedbackService
}

func NewFeedbackHandler(feedbackService services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

func (fh *FeedbackHandler) Submit(c *gin.Context) {
	sectionID, ok := paramUUID(c, "section_id")
	if !ok {
		return
	}
	var req struct {
		Type string `json:"type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	fb, err := fh.feedbackService.SubmitFeedback(c.Request.Context(), sectionID, req.Type)
	if err != nil {
		status := http.StatusBadRequest
		if notFound(err) {
			status = http.StatusNotFound
		}
		RespondError(c, status, "feedback_failed", err)
		return
	}
	RespondOK(c, gin.H{"feedback": fb})
}

func (fh *FeedbackHandler) Remove(c *gin.Context) {
	sectionID, ok := paramUUID(c, "section_id")
	if !ok {
		return
	}
	if err := fh.feedbackService.RemoveFeedback(c.Request.Context(), sectionID); err != nil {
		status := http.StatusInternalServerError
		if notFound(err) {
			status = http.StatusNotFound
		}
		RespondError(c, status, "feedback_remove_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (fh *FeedbackHandler) Stats(c *gin.Context) {
	sectionID, ok := paramUUID(c, "section_id")
	if !ok {
		return
	}
	stats, err := fh.feedbackService.GetStats(c.Request.Context(), sectionID)
	if err != nil {
		status := http.StatusInternalServerError
		if notFound(err) {
			status = http.StatusNotFound
		}
		RespondError(c, status, "stats_failed", err)
		return
	}
	RespondOK(c, gin.H{"stats": stats})
}

func (fh *FeedbackHandler) ProjectStats(c *gin.Context) {
	projectID, ok := paramUUID(c, "project_id")
	if !ok {
		return
	}
	stats, err := fh.feedbackService.GetStatsForProject(c.Request.Context(), projectID)
	if err != nil {
		status := http.StatusInternalServerError
		if notFound(err) {
			status = http.StatusNotFound
		}
		RespondError(c, status, "stats_failed", err)
		return
	}
	RespondOK(c, gin.H{"stats": stats})
}

func (fh *FeedbackHandler) AddComment(c *gin.Context) {
	sectionID, ok := paramUUID(c, "section_id")
	if !ok {
		return
	}
	var req struct {
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	comment, err := fh.feedbackService.AddComment(c.Request.Context(), sectionID, req.Comment)
	if err != nil {
		status := http.StatusBadRequest
		if notFound(err) {
			status = http.StatusNotFound
		}
		RespondError(c, status, "comment_failed", err)
		return
	}
	RespondOK(c, gin.H{"comment": comment})
}

func (fh *FeedbackHandler) ListComments(c *gin.Context) {
	sectionID, ok := paramUUID(c, "section_id")
	if !ok {
		return
	}
	comments, err := fh.feedbackService.ListComments(c.Request.Context(), sectionID)
	if err != nil {
		status := http.StatusInternalServerError
		if notFound(err) {
			status = http.StatusNotFound
		}
		RespondError(c, status, "comments_failed", err)
		return
	}
	RespondOK(c, gin.H{"comments": comments})
}

func (fh *FeedbackHandler) DeleteComment(c *gin.Context) {
	commentID, ok := paramUUID(c, "comment_id")
	if !ok {
		return
	}
	if err := fh.feedbackService.DeleteComment(c.Request.Context(), commentID); err != nil {
		status := http.StatusInternalServerError
		if notFound(err) {
			status = http.StatusNotFound
		}
		RespondError(c, status, "comment_delete_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (fh *FeedbackHandler) Regenerate(c *gin.Context) {
	sectionID, ok := paramUUID(c, "section_id")
	if !ok {
		return
	}
	// The body is optional; without explicit feedback the service falls
	// back to the caller's latest comment.
	var req struct {
		Feedback string `json:"feedback"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	section, err := fh.feedbackService.RegenerateWithFeedback(c.Request.Context(), sectionID, req.Feedback)
	if err != nil {
		RespondError(c, generationStatus(err), "regenerate_failed", err)
		return
	}
	RespondOK(c, gin.H{"section": section})
}
