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
)

// ErrNoFeedback is returned when regeneration is requested without explicit
// feedback and the user has left no comments to fall back on.
var ErrNoFeedback = errors.New("No feedback provided. Please add a comment explaining what needs improvement.")

// FeedbackStats is the per-section feedback rollup returned to the editor.
type FeedbackStats struct {
	SectionID    uuid.UUID `json:"section_id"`
	Likes        int64     `json:"likes"`
	Dislikes     int64     `json:"dislikes"`
	UserFeedback string    `json:"user_feedback,omitempty"`
}

type FeedbackService interface {
	// SubmitFeedback records or flips the user's like/dislike on a section.
	SubmitFeedback(ctx context.Context, sectionID uuid.UUID, feedbackType string) (*types.SectionFeedback, error)
	RemoveFeedback(ctx context.Context, sectionID uuid.UUID) error
	GetStats(ctx context.Context, sectionID uuid.UUID) (*FeedbackStats, error)
	// GetStatsForProject returns the rollup for every section of the project.
	GetStatsForProject(ctx context.Context, projectID uuid.UUID) ([]*FeedbackStats, error)
	AddComment(ctx context.Context, sectionID uuid.UUID, comment string) (*types.SectionComment, error)
	ListComments(ctx context.Context, sectionID uuid.UUID) ([]*types.SectionComment, error)
	DeleteComment(ctx context.Context, commentID uuid.UUID) error
	// RegenerateWithFeedback rewrites the section so it addresses the
	// given feedback (or the user's latest comment when none is given),
	// records the rewrite in the refinement history, then clears the
	// user's dislike and comments.
	RegenerateWithFeedback(ctx context.Context, sectionID uuid.UUID, feedback string) (*types.Section, error)
}

type feedbackService struct {
	db             *gorm.DB
	log            *logger.Logger
	model          TextModel
	limiter        RateLimiter
	sectionRepo    repos.SectionRepo
	projectRepo    repos.ProjectRepo
	feedbackRepo   repos.SectionFeedbackRepo
	commentRepo    repos.SectionCommentRepo
	refinementRepo repos.RefinementHistoryRepo
}

func NewFeedbackService(
	db *gorm.DB,
	log *logger.Logger,
	model TextModel,
	limiter RateLimiter,
	sectionRepo repos.SectionRepo,
	projectRepo repos.ProjectRepo,
	feedbackRepo repos.SectionFeedbackRepo,
	commentRepo repos.SectionCommentRepo,
	refinementRepo repos.RefinementHistoryRepo,
) FeedbackService {
	serviceLog := log.With("service", "FeedbackService")
	return &feedbackService{
		db:             db,
		log:            serviceLog,
		model:          model,
		limiter:        limiter,
		sectionRepo:    sectionRepo,
		projectRepo:    projectRepo,
		feedbackRepo:   feedbackRepo,
		commentRepo:    commentRepo,
		refinementRepo: refinementRepo,
	}
}

func (fs *feedbackService) ownedSection(ctx context.Context, sectionID uuid.UUID) (*types.Section, *requestdata.RequestData, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, nil, fmt.Errorf("Request data not set in context")
	}
	section, gErr := fs.sectionRepo.GetWithProject(ctx, nil, sectionID)
	if gErr != nil {
		return nil, nil, fmt.Errorf("Failed to get section: %w", gErr)
	}
	if section == nil || section.Project == nil || section.Project.UserID != rd.UserID {
		return nil, nil, fmt.Errorf("Section not found")
	}
	return section, rd, nil
}

func (fs *feedbackService) SubmitFeedback(ctx context.Context, sectionID uuid.UUID, feedbackType string) (*types.SectionFeedback, error) {
	feedbackType = strings.ToLower(strings.TrimSpace(feedbackType))
	if feedbackType != types.FeedbackTypeLike && feedbackType != types.FeedbackTypeDislike {
		return nil, fmt.Errorf("Invalid feedback type: %s", feedbackType)
	}
	_, rd, oErr := fs.ownedSection(ctx, sectionID)
	if oErr != nil {
		return nil, oErr
	}
	fb := &types.SectionFeedback{
		ID:        uuid.New(),
		SectionID: sectionID,
		UserID:    rd.UserID,
		Type:      feedbackType,
	}
	saved, uErr := fs.feedbackRepo.Upsert(ctx, nil, fb)
	if uErr != nil {
		return nil, fmt.Errorf("Failed to save feedback: %w", uErr)
	}
	return saved, nil
}

func (fs *feedbackService) RemoveFeedback(ctx context.Context, sectionID uuid.UUID) error {
	_, rd, oErr := fs.ownedSection(ctx, sectionID)
	if oErr != nil {
		return oErr
	}
	existing, gErr := fs.feedbackRepo.GetBySectionAndUser(ctx, nil, sectionID, rd.UserID)
	if gErr != nil {
		return fmt.Errorf("Failed to get feedback: %w", gErr)
	}
	if existing == nil {
		return nil
	}
	return fs.feedbackRepo.DeleteByIDs(ctx, nil, []uuid.UUID{existing.ID})
}

func (fs *feedbackService) GetStats(ctx context.Context, sectionID uuid.UUID) (*FeedbackStats, error) {
	_, rd, oErr := fs.ownedSection(ctx, sectionID)
	if oErr != nil {
		return nil, oErr
	}
	return fs.statsFor(ctx, sectionID, rd.UserID)
}

func (fs *feedbackService) statsFor(ctx context.Context, sectionID, userID uuid.UUID) (*FeedbackStats, error) {
	likes, lErr := fs.feedbackRepo.CountByType(ctx, nil, sectionID, types.FeedbackTypeLike)
	if lErr != nil {
		return nil, fmt.Errorf("Failed to count likes: %w", lErr)
	}
	dislikes, dErr := fs.feedbackRepo.CountByType(ctx, nil, sectionID, types.FeedbackTypeDislike)
	if dErr != nil {
		return nil, fmt.Errorf("Failed to count dislikes: %w", dErr)
	}
	stats := &FeedbackStats{SectionID: sectionID, Likes: likes, Dislikes: dislikes}
	own, oErr := fs.feedbackRepo.GetBySectionAndUser(ctx, nil, sectionID, userID)
	if oErr != nil {
		return nil, fmt.Errorf("Failed to get user feedback: %w", oErr)
	}
	if own != nil {
		stats.UserFeedback = own.Type
	}
	return stats, nil
}

func (fs *feedbackService) GetStatsForProject(ctx context.Context, projectID uuid.UUID) ([]*FeedbackStats, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("Request data not set in context")
	}
	project, pErr := fs.projectRepo.GetForUser(ctx, nil, projectID, rd.UserID)
	if pErr != nil {
		return nil, fmt.Errorf("Failed to get project: %w", pErr)
	}
	if project == nil {
		return nil, fmt.Errorf("Project not found")
	}
	out := make([]*FeedbackStats, 0, len(project.Sections))
	for _, section := range project.Sections {
		stats, sErr := fs.statsFor(ctx, section.ID, rd.UserID)
		if sErr != nil {
			return nil, sErr
		}
		out = append(out, stats)
	}
	return out, nil
}

func (fs *feedbackService) AddComment(ctx context.Context, sectionID uuid.UUID, comment string) (*types.SectionComment, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, fmt.Errorf("Comment cannot be empty")
	}
	_, rd, oErr := fs.ownedSection(ctx, sectionID)
	if oErr != nil {
		return nil, oErr
	}
	row := &types.SectionComment{
		ID:        uuid.New(),
		SectionID: sectionID,
		UserID:    rd.UserID,
		Comment:   comment,
	}
	created, cErr := fs.commentRepo.Create(ctx, nil, []*types.SectionComment{row})
	if cErr != nil {
		return nil, fmt.Errorf("Failed to create comment: %w", cErr)
	}
	return created[0], nil
}

func (fs *feedbackService) ListComments(ctx context.Context, sectionID uuid.UUID) ([]*types.SectionComment, error) {
	if _, _, oErr := fs.ownedSection(ctx, sectionID); oErr != nil {
		return nil, oErr
	}
	return fs.commentRepo.ListBySection(ctx, nil, sectionID)
}

func (fs *feedbackService) DeleteComment(ctx context.Context, commentID uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return fmt.Errorf("Request data not set in context")
	}
	comment, gErr := fs.commentRepo.GetByID(ctx, nil, commentID)
	if gErr != nil {
		return fmt.Errorf("Failed to get comment: %w", gErr)
	}
	if comment == nil || comment.UserID != rd.UserID {
		return fmt.Errorf("Comment not found")
	}
	return fs.commentRepo.DeleteByIDs(ctx, nil, []uuid.UUID{commentID})
}

func (fs *feedbackService) RegenerateWithFeedback(ctx context.Context, sectionID uuid.UUID, feedback string) (*types.Section, error) {
	section, rd, oErr := fs.ownedSection(ctx, sectionID)
	if oErr != nil {
		return nil, oErr
	}

	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		// Newest comment first.
		comments, cErr := fs.commentRepo.ListBySectionAndUser(ctx, nil, sectionID, rd.UserID)
		if cErr != nil {
			return nil, fmt.Errorf("Failed to list comments: %w", cErr)
		}
		if len(comments) > 0 {
			feedback = comments[0].Comment
		}
	}
	if feedback == "" {
		return nil, ErrNoFeedback
	}

	allowed, aErr := fs.limiter.Allow(ctx, rd.UserID)
	if aErr == nil && !allowed {
		return nil, ErrRateLimited
	}
	if !fs.model.Configured() {
		return nil, errors.New(ErrMsgNoAPIKey)
	}

	prompt := buildFeedbackRegenerationPrompt(section.Title, section.Content, feedback, section.Project.Type)
	content, genErr := fs.model.Complete(ctx, prompt)
	if genErr != nil {
		if IsRateLimitError(genErr) {
			return nil, ErrRateLimited
		}
		return nil, fmt.Errorf("Failed to regenerate section: %w", genErr)
	}

	previous := section.Content
	txErr := fs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		history := &types.RefinementHistory{
			ID:              uuid.New(),
			SectionID:       sectionID,
			Prompt:          "[FEEDBACK REGENERATION] " + feedback,
			PreviousContent: previous,
			NewContent:      content,
		}
		if _, hErr := fs.refinementRepo.Create(ctx, tx, []*types.RefinementHistory{history}); hErr != nil {
			return fmt.Errorf("Failed to record refinement history: %w", hErr)
		}
		fields := map[string]interface{}{"content": content}
		if section.Project.Type == types.ProjectTypeDocx {
			fields["html_content"] = markdown.ToHTML(content)
		}
		if uErr := fs.sectionRepo.Update(ctx, tx, sectionID, fields); uErr != nil {
			return fmt.Errorf("Failed to store regenerated content: %w", uErr)
		}
		// A dislike has been addressed, so reset it and the comments
		// behind it. Likes stay.
		own, gErr := fs.feedbackRepo.GetBySectionAndUser(ctx, tx, sectionID, rd.UserID)
		if gErr != nil {
			return fmt.Errorf("Failed to get feedback: %w", gErr)
		}
		if own != nil && own.Type == types.FeedbackTypeDislike {
			if dErr := fs.feedbackRepo.DeleteByIDs(ctx, tx, []uuid.UUID{own.ID}); dErr != nil {
				return fmt.Errorf("Failed to clear feedback: %w", dErr)
			}
			comments, lErr := fs.commentRepo.ListBySectionAndUser(ctx, tx, sectionID, rd.UserID)
			if lErr != nil {
				return fmt.Errorf("Failed to list comments: %w", lErr)
			}
			if len(comments) > 0 {
				ids := make([]uuid.UUID, 0, len(comments))
				for _, c := range comments {
					ids = append(ids, c.ID)
				}
				if dErr := fs.commentRepo.DeleteByIDs(ctx, tx, ids); dErr != nil {
					return fmt.Errorf("Failed to clear comments: %w", dErr)
				}
			}
		}
		return fs.projectRepo.Touch(ctx, tx, section.ProjectID)
	})
	if txErr != nil {
		return nil, txErr
	}
	section.Content = content
	if section.Project.Type == types.ProjectTypeDocx {
		section.HTMLContent = markdown.ToHTML(content)
	}
	fs.log.Info("Section regenerated from feedback", "section_id", sectionID)
	return section, nil
}
