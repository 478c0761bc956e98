package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/draftforge/draftforge-backend/internal/logger"
	"github.com/draftforge/draftforge-backend/internal/markdown"
	"github.com/draftforge/draftforge-backend/internal/repos"
	"github.com/draftforge/draftforge-backend/internal/requestdata"
	"github.com/draftforge/draftforge-backend/internal/types"
	"github.com/draftforge/draftforge-backend/internal/utils"
)

// ErrInvalidOrderIndex is returned when a reorder names an index outside the
// project's section range.
var ErrInvalidOrderIndex = errors.New("Invalid order index")

type SectionService interface {
	// CreateSection appends the section, or inserts it directly after the
	// section named by insertAfter when set.
	CreateSection(ctx context.Context, projectID uuid.UUID, title string, insertAfter *uuid.UUID) (*types.Section, error)
	GetSection(ctx context.Context, sectionID uuid.UUID) (*types.Section, error)
	UpdateSection(ctx context.Context, sectionID uuid.UUID, title, content *string) (*types.Section, error)
	DeleteSection(ctx context.Context, sectionID uuid.UUID) error
	// ReorderSection moves the section to newIndex, shifting the sections
	// in between. An index outside the project's range is rejected.
	ReorderSection(ctx context.Context, sectionID uuid.UUID, newIndex int) ([]*types.Section, error)
}

type sectionService struct {
	db          *gorm.DB
	log         *logger.Logger
	projectRepo repos.ProjectRepo
	sectionRepo repos.SectionRepo
}

func NewSectionService(db *gorm.DB, log *logger.Logger, projectRepo repos.ProjectRepo, sectionRepo repos.SectionRepo) SectionService {
	serviceLog := log.With("service", "SectionService")
	return &sectionService{
		db:          db,
		log:         serviceLog,
		projectRepo: projectRepo,
		sectionRepo: sectionRepo,
	}
}

// ownedSection loads the section and verifies the requesting user owns its
// project.
func (ss *sectionService) ownedSection(ctx context.Context, tx *gorm.DB, sectionID uuid.UUID) (*types.Section, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("Request data not set in context")
	}
	section, gErr := ss.sectionRepo.GetWithProject(ctx, tx, sectionID)
	if gErr != nil {
		return nil, fmt.Errorf("Failed to get section: %w", gErr)
	}
	if section == nil || section.Project == nil || section.Project.UserID != rd.UserID {
		return nil, fmt.Errorf("Section not found")
	}
	return section, nil
}

func (ss *sectionService) CreateSection(ctx context.Context, projectID uuid.UUID, title string, insertAfter *uuid.UUID) (*types.Section, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("Request data not set in context")
	}
	title = utils.ParseInputString(title)
	if title == "" {
		return nil, fmt.Errorf("Section title is required")
	}
	project, pErr := ss.projectRepo.GetForUser(ctx, nil, projectID, rd.UserID)
	if pErr != nil {
		return nil, fmt.Errorf("Failed to get project: %w", pErr)
	}
	if project == nil {
		return nil, fmt.Errorf("Project not found")
	}

	var created *types.Section
	txErr := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orderIndex := 0
		if insertAfter != nil {
			anchor, aErr := ss.sectionRepo.GetWithProject(ctx, tx, *insertAfter)
			if aErr != nil {
				return fmt.Errorf("Failed to get anchor section: %w", aErr)
			}
			if anchor == nil || anchor.ProjectID != projectID {
				return fmt.Errorf("Anchor section not found in project")
			}
			orderIndex = anchor.OrderIndex + 1
			if sErr := ss.sectionRepo.ShiftOrderIndexes(ctx, tx, projectID, orderIndex, -1, 1); sErr != nil {
				return fmt.Errorf("Failed to shift section order: %w", sErr)
			}
		} else {
			max, mErr := ss.sectionRepo.MaxOrderIndex(ctx, tx, projectID)
			if mErr != nil {
				return fmt.Errorf("Failed to get max order index: %w", mErr)
			}
			orderIndex = max + 1
		}
		section := &types.Section{
			ID:         uuid.New(),
			ProjectID:  projectID,
			Title:      title,
			OrderIndex: orderIndex,
		}
		out, cErr := ss.sectionRepo.Create(ctx, tx, []*types.Section{section})
		if cErr != nil {
			return fmt.Errorf("Failed to create section: %w", cErr)
		}
		created = out[0]
		return ss.projectRepo.Touch(ctx, tx, projectID)
	})
	if txErr != nil {
		return nil, txErr
	}
	ss.log.Info("Section created", "section_id", created.ID, "project_id", projectID)
	return created, nil
}

func (ss *sectionService) GetSection(ctx context.Context, sectionID uuid.UUID) (*types.Section, error) {
	return ss.ownedSection(ctx, nil, sectionID)
}

func (ss *sectionService) UpdateSection(ctx context.Context, sectionID uuid.UUID, title, content *string) (*types.Section, error) {
	section, oErr := ss.ownedSection(ctx, nil, sectionID)
	if oErr != nil {
		return nil, oErr
	}

	fields := map[string]interface{}{}
	if title != nil {
		trimmed := utils.ParseInputString(*title)
		if trimmed == "" {
			return nil, fmt.Errorf("Section title cannot be empty")
		}
		fields["title"] = trimmed
		section.Title = trimmed
	}
	if content != nil {
		fields["content"] = *content
		section.Content = *content
		if section.Project != nil && section.Project.Type == types.ProjectTypeDocx {
			html := markdown.ToHTML(*content)
			fields["html_content"] = html
			section.HTMLContent = html
		}
	}
	if len(fields) == 0 {
		return section, nil
	}

	txErr := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if uErr := ss.sectionRepo.Update(ctx, tx, sectionID, fields); uErr != nil {
			return fmt.Errorf("Failed to update section: %w", uErr)
		}
		return ss.projectRepo.Touch(ctx, tx, section.ProjectID)
	})
	if txErr != nil {
		return nil, txErr
	}
	return section, nil
}

func (ss *sectionService) DeleteSection(ctx context.Context, sectionID uuid.UUID) error {
	section, oErr := ss.ownedSection(ctx, nil, sectionID)
	if oErr != nil {
		return oErr
	}
	return ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, cErr := ss.sectionRepo.CountByProject(ctx, tx, section.ProjectID)
		if cErr != nil {
			return fmt.Errorf("Failed to count sections: %w", cErr)
		}
		if count <= 1 {
			return fmt.Errorf("Cannot delete the last section of a project")
		}
		if dErr := ss.sectionRepo.Delete(ctx, tx, sectionID); dErr != nil {
			return fmt.Errorf("Failed to delete section: %w", dErr)
		}
		// Close the gap left behind.
		if sErr := ss.sectionRepo.ShiftOrderIndexes(ctx, tx, section.ProjectID, section.OrderIndex+1, -1, -1); sErr != nil {
			return fmt.Errorf("Failed to shift section order: %w", sErr)
		}
		return ss.projectRepo.Touch(ctx, tx, section.ProjectID)
	})
}

func (ss *sectionService) ReorderSection(ctx context.Context, sectionID uuid.UUID, newIndex int) ([]*types.Section, error) {
	section, oErr := ss.ownedSection(ctx, nil, sectionID)
	if oErr != nil {
		return nil, oErr
	}

	var reordered []*types.Section
	txErr := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, cErr := ss.sectionRepo.CountByProject(ctx, tx, section.ProjectID)
		if cErr != nil {
			return fmt.Errorf("Failed to count sections: %w", cErr)
		}
		if newIndex < 0 || newIndex > int(count)-1 {
			return ErrInvalidOrderIndex
		}
		oldIndex := section.OrderIndex
		if newIndex != oldIndex {
			if newIndex > oldIndex {
				if sErr := ss.sectionRepo.ShiftOrderIndexes(ctx, tx, section.ProjectID, oldIndex+1, newIndex, -1); sErr != nil {
					return fmt.Errorf("Failed to shift section order: %w", sErr)
				}
			} else {
				if sErr := ss.sectionRepo.ShiftOrderIndexes(ctx, tx, section.ProjectID, newIndex, oldIndex-1, 1); sErr != nil {
					return fmt.Errorf("Failed to shift section order: %w", sErr)
				}
			}
			if uErr := ss.sectionRepo.Update(ctx, tx, sectionID, map[string]interface{}{"order_index": newIndex}); uErr != nil {
				return fmt.Errorf("Failed to move section: %w", uErr)
			}
		}
		sections, lErr := ss.sectionRepo.GetByProjectOrdered(ctx, tx, section.ProjectID)
		if lErr != nil {
			return fmt.Errorf("Failed to list sections: %w", lErr)
		}
		reordered = sections
		return ss.projectRepo.Touch(ctx, tx, section.ProjectID)
	})
	if txErr != nil {
		return nil, txErr
	}
	return reordered, nil
}

// sectionsSummary renders a compact listing of a project's sections for the
// chat context window.
func sectionsSummary(sections []*types.Section) string {
	var sb strings.Builder
	for i, s := range sections {
		preview := markdown.CleanForPreview(s.Content)
		if runes := []rune(preview); len(runes) > 200 {
			preview = string(runes[:200]) + "..."
		}
		if preview == "" {
			preview = "(empty)"
		}
		sb.WriteString(fmt.Sprintf("%d. %s: %s\n", i+1, s.Title, preview))
	}
	if sb.Len() == 0 {
		return "(no sections yet)"
	}
	return sb.String()
}
