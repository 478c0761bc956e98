package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/draftforge/draftforge-backend/internal/logger"
	"github.com/draftforge/draftforge-backend/internal/repos"
	"github.com/draftforge/draftforge-backend/internal/requestdata"
	"github.com/draftforge/draftforge-backend/internal/types"
	"github.com/draftforge/draftforge-backend/internal/utils"
)

type ProjectService interface {
	CreateProject(ctx context.Context, title, projectType, prompt string) (*types.Project, error)
	GetProject(ctx context.Context, projectID uuid.UUID) (*types.Project, error)
	ListProjects(ctx context.Context) ([]*types.Project, error)
	DeleteProject(ctx context.Context, projectID uuid.UUID) error
}

type projectService struct {
	db          *gorm.DB
	log         *logger.Logger
	projectRepo repos.ProjectRepo
}

func NewProjectService(db *gorm.DB, log *logger.Logger, projectRepo repos.ProjectRepo) ProjectService {
	serviceLog := log.With("service", "ProjectService")
	return &projectService{
		db:          db,
		log:         serviceLog,
		projectRepo: projectRepo,
	}
}

func (ps *projectService) CreateProject(ctx context.Context, title, projectType, prompt string) (*types.Project, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("Request data not set in context")
	}

	title = utils.ParseInputString(title)
	if title == "" {
		title = "Untitled Project"
	}
	projectType = strings.ToLower(strings.TrimSpace(projectType))
	if projectType != types.ProjectTypeDocx && projectType != types.ProjectTypePptx {
		return nil, fmt.Errorf("Invalid project type: %s", projectType)
	}

	project := &types.Project{
		ID:     uuid.New(),
		UserID: rd.UserID,
		Title:  title,
		Type:   projectType,
		Prompt: strings.TrimSpace(prompt),
	}
	created, cErr := ps.projectRepo.Create(ctx, nil, []*types.Project{project})
	if cErr != nil {
		return nil, fmt.Errorf("Failed to create project: %w", cErr)
	}
	ps.log.Info("Project created", "project_id", project.ID, "type", projectType)
	return created[0], nil
}

func (ps *projectService) GetProject(ctx context.Context, projectID uuid.UUID) (*types.Project, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("Request data not set in context")
	}
	project, gErr := ps.projectRepo.GetForUser(ctx, nil, projectID, rd.UserID)
	if gErr != nil {
		return nil, fmt.Errorf("Failed to get project: %w", gErr)
	}
	if project == nil {
		return nil, fmt.Errorf("Project not found")
	}
	return project, nil
}

func (ps *projectService) ListProjects(ctx context.Context) ([]*types.Project, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("Request data not set in context")
	}
	projects, lErr := ps.projectRepo.ListByUser(ctx, nil, rd.UserID)
	if lErr != nil {
		return nil, fmt.Errorf("Failed to list projects: %w", lErr)
	}
	return projects, nil
}

func (ps *projectService) DeleteProject(ctx context.Context, projectID uuid.UUID) error {
	// Ownership check before the delete.
	if _, gErr := ps.GetProject(ctx, projectID); gErr != nil {
		return gErr
	}
	if dErr := ps.projectRepo.Delete(ctx, nil, projectID); dErr != nil {
		return fmt.Errorf("Failed to delete project: %w", dErr)
	}
	ps.log.Info("Project deleted", "project_id", projectID)
	return nil
}
