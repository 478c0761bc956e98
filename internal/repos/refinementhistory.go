package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/draftforge/draftforge-backend/internal/logger"
	"github.com/draftforge/draftforge-backend/internal/types"
)

type RefinementHistoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entries []*types.RefinementHistory) ([]*types.RefinementHistory, error)
	ListBySection(ctx context.Context, tx *gorm.DB, sectionID uuid.UUID) ([]*types.RefinementHistory, error)
}

type refinementHistoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRefinementHistoryRepo(db *gorm.DB, baseLog *logger.Logger) RefinementHistoryRepo {
	repoLog := baseLog.With("repo", "RefinementHistoryRepo")
	return &refinementHistoryRepo{db: db, log: repoLog}
}

func (rr *refinementHistoryRepo) Create(ctx context.Context, tx *gorm.DB, entries []*types.RefinementHistory) ([]*types.RefinementHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if len(entries) == 0 {
		return []*types.RefinementHistory{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (rr *refinementHistoryRepo) ListBySection(ctx context.Context, tx *gorm.DB, sectionID uuid.UUID) ([]*types.RefinementHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*types.RefinementHistory
	if err := transaction.WithContext(ctx).
		Where("section_id = ?", sectionID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
