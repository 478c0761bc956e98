package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/draftforge/draftforge-backend/internal/logger"
	"github.com/draftforge/draftforge-backend/internal/types"
)

type SectionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, sections []*types.Section) ([]*types.Section, error)
	// GetWithProject returns the section with its owning project preloaded.
	// Nil when not found.
	GetWithProject(ctx context.Context, tx *gorm.DB, sectionID uuid.UUID) (*types.Section, error)
	GetByProjectOrdered(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.Section, error)
	Update(ctx context.Context, tx *gorm.DB, sectionID uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, sectionID uuid.UUID) error
	CountByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (int64, error)
	MaxOrderIndex(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (int, error)
	// ShiftOrderIndexes adds delta to order_index for every section of the
	// project whose order_index lies in [from, to]. Either bound may be -1
	// for open-ended.
	ShiftOrderIndexes(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, from, to, delta int) error
}

type sectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSectionRepo(db *gorm.DB, baseLog *logger.Logger) SectionRepo {
	repoLog := baseLog.With("repo", "SectionRepo")
	return &sectionRepo{db: db, log: repoLog}
}

func (sr *sectionRepo) Create(ctx context.Context, tx *gorm.DB, sections []*types.Section) ([]*types.Section, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if len(sections) == 0 {
		return []*types.Section{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&sections).Error; err != nil {
		return nil, err
	}
	return sections, nil
}

func (sr *sectionRepo) GetWithProject(ctx context.Context, tx *gorm.DB, sectionID uuid.UUID) (*types.Section, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var result types.Section
	err := transaction.WithContext(ctx).
		Preload("Project").
		Where("id = ?", sectionID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (sr *sectionRepo) GetByProjectOrdered(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.Section, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.Section
	if err := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("order_index ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *sectionRepo) Update(ctx context.Context, tx *gorm.DB, sectionID uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if len(fields) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Section{}).
		Where("id = ?", sectionID).
		Updates(fields).Error
}

func (sr *sectionRepo) Delete(ctx context.Context, tx *gorm.DB, sectionID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", sectionID).
		Delete(&types.Section{}).Error
}

func (sr *sectionRepo) CountByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Section{}).
		Where("project_id = ?", projectID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (sr *sectionRepo) MaxOrderIndex(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var max *int
	if err := transaction.WithContext(ctx).
		Model(&types.Section{}).
		Where("project_id = ?", projectID).
		Select("MAX(order_index)").
		Scan(&max).Error; err != nil {
		return -1, err
	}
	if max == nil {
		return -1, nil
	}
	return *max, nil
}

func (sr *sectionRepo) ShiftOrderIndexes(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, from, to, delta int) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	q := transaction.WithContext(ctx).
		Model(&types.Section{}).
		Where("project_id = ?", projectID)
	if from >= 0 {
		q = q.Where("order_index >= ?", from)
	}
	if to >= 0 {
		q = q.Where("order_index <= ?", to)
	}
	return q.UpdateColumn("order_index", gorm.Expr("order_index + ?", delta)).Error
}
