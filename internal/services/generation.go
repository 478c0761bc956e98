package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/draftforge/draftforge-backend/internal/logger"
	"github.com/draftforge/draftforge-backend/internal/markdown"
	"github.com/draftforge/draftforge-backend/internal/repos"
	"github.com/draftforge/draftforge-backend/internal/requestdata"
	"github.com/draftforge/draftforge-backend/internal/types"
)

// ErrRateLimited is returned when the per-user generation quota is spent.
var ErrRateLimited = errors.New(ErrMsgRateLimit)

// ErrDocxOnly is returned when full-document generation is requested for a
// presentation project.
var ErrDocxOnly = errors.New("Full document generation only available for DOCX projects")

type GenerationService interface {
	// PlanStructure asks the model for a title and outline from the
	// project's prompt and replaces the project's sections with blank
	// sections in that order.
	PlanStructure(ctx context.Context, projectID uuid.UUID) (*types.Project, error)
	GenerateSection(ctx context.Context, sectionID uuid.UUID) (*types.Section, error)
	RefineSection(ctx context.Context, sectionID uuid.UUID, instruction string) (*types.Section, error)
	// GenerateAllSections fills every still-empty section of the project.
	GenerateAllSections(ctx context.Context, projectID uuid.UUID) ([]*types.Section, error)
	// GenerateFullDocument produces one markdown document covering every
	// section in a single model call, then splits it back into sections.
	GenerateFullDocument(ctx context.Context, projectID uuid.UUID) ([]*types.Section, error)
	RefinementHistory(ctx context.Context, sectionID uuid.UUID) ([]*types.RefinementHistory, error)
}

type generationService struct {
	db             *gorm.DB
	log            *logger.Logger
	model          TextModel
	limiter        RateLimiter
	projectRepo    repos.ProjectRepo
	sectionRepo    repos.SectionRepo
	refinementRepo repos.RefinementHistoryRepo
}

func NewGenerationService(
	db *gorm.DB,
	log *logger.Logger,
	model TextModel,
	limiter RateLimiter,
	projectRepo repos.ProjectRepo,
	sectionRepo repos.SectionRepo,
	refinementRepo repos.RefinementHistoryRepo,
) GenerationService {
	serviceLog := log.With("service", "GenerationService")
	return &generationService{
		db:             db,
		log:            serviceLog,
		model:          model,
		limiter:        limiter,
		projectRepo:    projectRepo,
		sectionRepo:    sectionRepo,
		refinementRepo: refinementRepo,
	}
}

func (gs *generationService) ownedProject(ctx context.Context, projectID uuid.UUID) (*types.Project, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("Request data not set in context")
	}
	project, gErr := gs.projectRepo.GetForUser(ctx, nil, projectID, rd.UserID)
	if gErr != nil {
		return nil, fmt.Errorf("Failed to get project: %w", gErr)
	}
	if project == nil {
		return nil, fmt.Errorf("Project not found")
	}
	return project, nil
}

func (gs *generationService) ownedSection(ctx context.Context, sectionID uuid.UUID) (*types.Section, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("Request data not set in context")
	}
	section, gErr := gs.sectionRepo.GetWithProject(ctx, nil, sectionID)
	if gErr != nil {
		return nil, fmt.Errorf("Failed to get section: %w", gErr)
	}
	if section == nil || section.Project == nil || section.Project.UserID != rd.UserID {
		return nil, fmt.Errorf("Section not found")
	}
	return section, nil
}

func (gs *generationService) checkQuota(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return fmt.Errorf("Request data not set in context")
	}
	allowed, aErr := gs.limiter.Allow(ctx, rd.UserID)
	if aErr != nil {
		return nil
	}
	if !allowed {
		return ErrRateLimited
	}
	return nil
}

func (gs *generationService) PlanStructure(ctx context.Context, projectID uuid.UUID) (*types.Project, error) {
	project, pErr := gs.ownedProject(ctx, projectID)
	if pErr != nil {
		return nil, pErr
	}
	if !gs.model.Configured() {
		return nil, errors.New(ErrMsgNoAPIKey)
	}
	if qErr := gs.checkQuota(ctx); qErr != nil {
		return nil, qErr
	}

	kind := OutlineSections
	prompt := buildDocumentPlanningPrompt(project.Prompt)
	if project.Type == types.ProjectTypePptx {
		kind = OutlineSlides
		prompt = buildPresentationPlanningPrompt(project.Prompt)
	}

	var outline Outline
	text, cErr := gs.model.Complete(ctx, prompt)
	if cErr != nil {
		gs.log.Error("Structure planning error", "project_id", projectID, "error", cErr)
		outline = fallbackOutline(kind)
	} else {
		outline = ParseOutline(text, kind)
	}

	txErr := gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, existing := range project.Sections {
			if dErr := gs.sectionRepo.Delete(ctx, tx, existing.ID); dErr != nil {
				return fmt.Errorf("Failed to clear existing sections: %w", dErr)
			}
		}
		sections := make([]*types.Section, 0, len(outline.Items))
		for i, item := range outline.Items {
			sections = append(sections, &types.Section{
				ID:         uuid.New(),
				ProjectID:  project.ID,
				Title:      item,
				OrderIndex: i,
			})
		}
		if _, cErr := gs.sectionRepo.Create(ctx, tx, sections); cErr != nil {
			return fmt.Errorf("Failed to create planned sections: %w", cErr)
		}
		if uErr := tx.Model(&types.Project{}).Where("id = ?", project.ID).
			Update("title", outline.Title).Error; uErr != nil {
			return fmt.Errorf("Failed to update project title: %w", uErr)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	gs.log.Info("Structure planned", "project_id", projectID, "sections", len(outline.Items))
	return gs.ownedProject(ctx, projectID)
}

func (gs *generationService) GenerateSection(ctx context.Context, sectionID uuid.UUID) (*types.Section, error) {
	section, sErr := gs.ownedSection(ctx, sectionID)
	if sErr != nil {
		return nil, sErr
	}
	if qErr := gs.checkQuota(ctx); qErr != nil {
		return nil, qErr
	}
	content := gs.completeOrSentinel(ctx, sectionPrompt(section.Project, section.Title))
	return gs.storeSectionContent(ctx, section, content)
}

func (gs *generationService) RefineSection(ctx context.Context, sectionID uuid.UUID, instruction string) (*types.Section, error) {
	section, sErr := gs.ownedSection(ctx, sectionID)
	if sErr != nil {
		return nil, sErr
	}
	if instruction == "" {
		return nil, fmt.Errorf("Refinement instruction is required")
	}
	if qErr := gs.checkQuota(ctx); qErr != nil {
		return nil, qErr
	}

	prompt := buildDocumentRefinementPrompt(section.Content, instruction)
	if section.Project.Type == types.ProjectTypePptx {
		prompt = buildPresentationRefinementPrompt(section.Content, instruction)
	}
	content := gs.completeOrSentinel(ctx, prompt)

	previous := section.Content
	updated, upErr := gs.storeSectionContent(ctx, section, content)
	if upErr != nil {
		return nil, upErr
	}
	history := &types.RefinementHistory{
		ID:              uuid.New(),
		SectionID:       section.ID,
		Prompt:          instruction,
		PreviousContent: previous,
		NewContent:      content,
	}
	if _, hErr := gs.refinementRepo.Create(ctx, nil, []*types.RefinementHistory{history}); hErr != nil {
		gs.log.Warn("Failed to record refinement history", "section_id", section.ID, "error", hErr)
	}
	return updated, nil
}

func (gs *generationService) GenerateAllSections(ctx context.Context, projectID uuid.UUID) ([]*types.Section, error) {
	project, pErr := gs.ownedProject(ctx, projectID)
	if pErr != nil {
		return nil, pErr
	}
	if qErr := gs.checkQuota(ctx); qErr != nil {
		return nil, qErr
	}
	for _, section := range project.Sections {
		if section.Content != "" {
			continue
		}
		section.Project = project
		content := gs.completeOrSentinel(ctx, sectionPrompt(project, section.Title))
		if _, uErr := gs.storeSectionContent(ctx, section, content); uErr != nil {
			return nil, uErr
		}
	}
	return gs.sectionRepo.GetByProjectOrdered(ctx, nil, projectID)
}

func (gs *generationService) GenerateFullDocument(ctx context.Context, projectID uuid.UUID) ([]*types.Section, error) {
	project, pErr := gs.ownedProject(ctx, projectID)
	if pErr != nil {
		return nil, pErr
	}
	if project.Type != types.ProjectTypeDocx {
		return nil, ErrDocxOnly
	}
	if len(project.Sections) == 0 {
		return nil, fmt.Errorf("Project has no sections to generate")
	}
	if !gs.model.Configured() {
		return nil, errors.New(ErrMsgNoAPIKey)
	}
	if qErr := gs.checkQuota(ctx); qErr != nil {
		return nil, qErr
	}

	titles := make([]string, 0, len(project.Sections))
	for _, s := range project.Sections {
		titles = append(titles, s.Title)
	}

	raw, cErr := gs.model.Complete(ctx, buildMarkdownDocumentPrompt(project.Title, titles, project.Prompt))
	if cErr != nil {
		if IsRateLimitError(cErr) {
			return nil, ErrRateLimited
		}
		return nil, fmt.Errorf("Failed to generate document: %w", cErr)
	}
	document := markdown.ExtractDocument(raw)
	gs.log.Info("Full document generated", "project_id", projectID, "chars", len(document))

	chunks := markdown.SplitBySections(document, titles)
	txErr := gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, section := range project.Sections {
			chunk, ok := chunks[section.Title]
			if !ok {
				continue
			}
			fields := map[string]interface{}{
				"content":      chunk,
				"html_content": markdown.ToHTML(chunk),
			}
			if uErr := gs.sectionRepo.Update(ctx, tx, section.ID, fields); uErr != nil {
				return fmt.Errorf("Failed to store section content: %w", uErr)
			}
		}
		return gs.projectRepo.Touch(ctx, tx, projectID)
	})
	if txErr != nil {
		return nil, txErr
	}
	return gs.sectionRepo.GetByProjectOrdered(ctx, nil, projectID)
}

func (gs *generationService) RefinementHistory(ctx context.Context, sectionID uuid.UUID) ([]*types.RefinementHistory, error) {
	if _, sErr := gs.ownedSection(ctx, sectionID); sErr != nil {
		return nil, sErr
	}
	return gs.refinementRepo.ListBySection(ctx, nil, sectionID)
}

// completeOrSentinel runs the prompt and maps every failure mode onto the
// displayable sentinel strings, so callers always get storable content.
func (gs *generationService) completeOrSentinel(ctx context.Context, prompt string) string {
	if !gs.model.Configured() {
		return ErrMsgNoAPIKey
	}
	text, err := gs.model.Complete(ctx, prompt)
	if err != nil {
		gs.log.Error("Content generation error", "error", err)
		if IsRateLimitError(err) {
			return ErrMsgRateLimit
		}
		return ErrMsgGeneration(err)
	}
	return text
}

func (gs *generationService) storeSectionContent(ctx context.Context, section *types.Section, content string) (*types.Section, error) {
	fields := map[string]interface{}{"content": content}
	// Slide content stays in the TITLE:/CONTENT: grammar; only document
	// markdown gets an HTML preview.
	if section.Project != nil && section.Project.Type == types.ProjectTypeDocx {
		fields["html_content"] = markdown.ToHTML(content)
	}
	txErr := gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if uErr := gs.sectionRepo.Update(ctx, tx, section.ID, fields); uErr != nil {
			return fmt.Errorf("Failed to store section content: %w", uErr)
		}
		return gs.projectRepo.Touch(ctx, tx, section.ProjectID)
	})
	if txErr != nil {
		return nil, txErr
	}
	section.Content = content
	if html, ok := fields["html_content"].(string); ok {
		section.HTMLContent = html
	}
	return section, nil
}

func sectionPrompt(project *types.Project, sectionTitle string) string {
	if project.Type == types.ProjectTypePptx {
		return buildPresentationSectionPrompt(project.Title, sectionTitle)
	}
	return buildDocumentSectionPrompt(project.Title, sectionTitle)
}
