package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/draftforge/draftforge-backend/internal/logger"
	"github.com/draftforge/draftforge-backend/internal/types"
)

type SectionCommentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, comments []*types.SectionComment) ([]*types.SectionComment, error)
	GetByID(ctx context.Context, tx *gorm.DB, commentID uuid.UUID) (*types.SectionComment, error)
	ListBySection(ctx context.Context, tx *gorm.DB, sectionID uuid.UUID) ([]*types.SectionComment, error)
	ListBySectionAndUser(ctx context.Context, tx *gorm.DB, sectionID, userID uuid.UUID) ([]*types.SectionComment, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type sectionCommentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSectionCommentRepo(db *gorm.DB, baseLog *logger.Logger) SectionCommentRepo {
	repoLog := baseLog.With("repo", "SectionCommentRepo")
	return &sectionCommentRepo{db: db, log: repoLog}
}

func (cr *sectionCommentRepo) Create(ctx context.Context, tx *gorm.DB, comments []*types.SectionComment) ([]*types.SectionComment, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(comments) == 0 {
		return []*types.SectionComment{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (cr *sectionCommentRepo) GetByID(ctx context.Context, tx *gorm.DB, commentID uuid.UUID) (*types.SectionComment, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var result types.SectionComment
	err := transaction.WithContext(ctx).
		Where("id = ?", commentID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *sectionCommentRepo) ListBySection(ctx context.Context, tx *gorm.DB, sectionID uuid.UUID) ([]*types.SectionComment, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.SectionComment
	if err := transaction.WithContext(ctx).
		Where("section_id = ?", sectionID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *sectionCommentRepo) ListBySectionAndUser(ctx context.Context, tx *gorm.DB, sectionID, userID uuid.UUID) ([]*types.SectionComment, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.SectionComment
	if err := transaction.WithContext(ctx).
		Where("section_id = ? AND user_id = ?", sectionID, userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *sectionCommentRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.SectionComment{}).Error
}
