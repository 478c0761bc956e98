package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/draftforge/draftforge-backend/internal/logger"
	"github.com/draftforge/draftforge-backend/internal/types"
)

type SectionFeedbackRepo interface {
	// Upsert creates the (section, user) feedback row or updates its type.
	Upsert(ctx context.Context, tx *gorm.DB, fb *types.SectionFeedback) (*types.SectionFeedback, error)
	GetBySectionAndUser(ctx context.Context, tx *gorm.DB, sectionID, userID uuid.UUID) (*types.SectionFeedback, error)
	GetByUserForSections(ctx context.Context, tx *gorm.DB, sectionIDs []uuid.UUID, userID uuid.UUID) ([]*types.SectionFeedback, error)
	CountByType(ctx context.Context, tx *gorm.DB, sectionID uuid.UUID, feedbackType string) (int64, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type sectionFeedbackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSectionFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) SectionFeedbackRepo {
	repoLog := baseLog.With("repo", "SectionFeedbackRepo")
	return &sectionFeedbackRepo{db: db, log: repoLog}
}

func (fr *sectionFeedbackRepo) Upsert(ctx context.Context, tx *gorm.DB, fb *types.SectionFeedback) (*types.SectionFeedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "section_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"type", "updated_at"}),
		}).
		Create(fb).Error; err != nil {
		return nil, err
	}
	return fr.GetBySectionAndUser(ctx, transaction, fb.SectionID, fb.UserID)
}

func (fr *sectionFeedbackRepo) GetBySectionAndUser(ctx context.Context, tx *gorm.DB, sectionID, userID uuid.UUID) (*types.SectionFeedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var result types.SectionFeedback
	err := transaction.WithContext(ctx).
		Where("section_id = ? AND user_id = ?", sectionID, userID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (fr *sectionFeedbackRepo) GetByUserForSections(ctx context.Context, tx *gorm.DB, sectionIDs []uuid.UUID, userID uuid.UUID) ([]*types.SectionFeedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var results []*types.SectionFeedback
	if len(sectionIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("section_id IN ? AND user_id = ?", sectionIDs, userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (fr *sectionFeedbackRepo) CountByType(ctx context.Context, tx *gorm.DB, sectionID uuid.UUID, feedbackType string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.SectionFeedback{}).
		Where("section_id = ? AND type = ?", sectionID, feedbackType).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (fr *sectionFeedbackRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.SectionFeedback{}).Error
}
