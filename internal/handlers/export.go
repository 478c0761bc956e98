package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/draftforge/draftforge-backend/internal/services"
)

type ExportHandler struct {
	exportService services.ExportService
}

func NewExportHandler(exportService services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

func (eh *ExportHandler) Export(c *gin.Context) {
	projectID, ok := paramUUID(c, "project_id")
	if !ok {
		return
	}
	result, err := eh.exportService.ExportProject(c.Request.Context(), projectID)
	if err != nil {
		status := http.StatusInternalServerError
		if notFound(err) {
			status = http.StatusNotFound
		}
		RespondError(c, status, "export_failed", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data.Bytes())
}
