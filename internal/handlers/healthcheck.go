package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/draftforge/draftforge-backend/internal/services"
)

type HealthcheckHandler struct {
	model services.TextModel
}

func NewHealthcheckHandler(model services.TextModel) *HealthcheckHandler {
	return &HealthcheckHandler{model: model}
}

func (hh *HealthcheckHandler) Healthcheck(c *gin.Context) {
	aiStatus := "configured"
	if !hh.model.Configured() {
		aiStatus = "missing_api_key"
	}
	RespondOK(c, gin.H{
		"status":   "ok",
		"ai":       aiStatus,
		"ai_model": hh.model.ModelName(),
	})
}
