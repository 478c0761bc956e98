package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/draftforge/draftforge-backend/internal/docgen"
	"github.com/draftforge/draftforge-backend/internal/logger"
	"github.com/draftforge/draftforge-backend/internal/repos"
	"github.com/draftforge/draftforge-backend/internal/requestdata"
	"github.com/draftforge/draftforge-backend/internal/types"
)

const (
	mimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimePptx = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
)

// ExportResult is a finished office document ready to stream to the client.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        *bytes.Buffer
}

type ExportService interface {
	// ExportProject renders the project to its office format, .docx or
	// .pptx according to the project type.
	ExportProject(ctx context.Context, projectID uuid.UUID) (*ExportResult, error)
}

type exportService struct {
	db          *gorm.DB
	log         *logger.Logger
	projectRepo repos.ProjectRepo
}

func NewExportService(db *gorm.DB, log *logger.Logger, projectRepo repos.ProjectRepo) ExportService {
	serviceLog := log.With("service", "ExportService")
	return &exportService{
		db:          db,
		log:         serviceLog,
		projectRepo: projectRepo,
	}
}

func (es *exportService) ExportProject(ctx context.Context, projectID uuid.UUID) (*ExportResult, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("Request data not set in context")
	}
	project, pErr := es.projectRepo.GetForUser(ctx, nil, projectID, rd.UserID)
	if pErr != nil {
		return nil, fmt.Errorf("Failed to get project: %w", pErr)
	}
	if project == nil {
		return nil, fmt.Errorf("Project not found")
	}

	sections := make([]docgen.Section, 0, len(project.Sections))
	for _, s := range project.Sections {
		sections = append(sections, docgen.Section{Title: s.Title, Content: s.Content})
	}

	buf := &bytes.Buffer{}
	result := &ExportResult{Data: buf}
	switch project.Type {
	case types.ProjectTypePptx:
		if wErr := docgen.WritePptx(buf, project.Title, sections); wErr != nil {
			return nil, fmt.Errorf("Failed to render presentation: %w", wErr)
		}
		result.Filename = docgen.SafeFilename(project.Title, "pptx")
		result.ContentType = mimePptx
	default:
		if wErr := docgen.WriteDocx(buf, project.Title, sections); wErr != nil {
			return nil, fmt.Errorf("Failed to render document: %w", wErr)
		}
		result.Filename = docgen.SafeFilename(project.Title, "docx")
		result.ContentType = mimeDocx
	}
	es.log.Info("Project exported", "project_id", projectID, "type", project.Type, "bytes", buf.Len())
	return result, nil
}
