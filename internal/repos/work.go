package repos

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/taskbank-backend/internal/logger"
	"github.com/yungbote/taskbank-backend/internal/types"
)

type WorkRepo interface {
	Create(ctx context.Context, tx *gorm.DB, works []*types.Work) ([]*types.Work, error)
	GetByID(ctx context.Context, tx *gorm.DB, workID uuid.UUID) (*types.Work, error)
	GetGroups(ctx context.Context, tx *gorm.DB, workID uuid.UUID) ([]*types.WorkAnalogGroup, error)
	AddGroup(ctx context.Context, tx *gorm.DB, cfg *types.WorkAnalogGroup) error
	IncrementVariantCounter(ctx context.Context, tx *gorm.DB, workID uuid.UUID, delta int) (int, error)
}

type workRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWorkRepo(db *gorm.DB, baseLog *logger.Logger) WorkRepo {
	return &workRepo{db: db, log: baseLog.With("repo", "WorkRepo")}
}

func (r *workRepo) Create(ctx context.Context, tx *gorm.DB, works []*types.Work) ([]*types.Work, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(works) == 0 {
		return []*types.Work{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&works).Error; err != nil {
		return nil, err
	}
	return works, nil
}

func (r *workRepo) GetByID(ctx context.Context, tx *gorm.DB, workID uuid.UUID) (*types.Work, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var work types.Work
	if err := transaction.WithContext(ctx).
		Where("id = ?", workID).
		First(&work).Error; err != nil {
		return nil, err
	}
	return &work, nil
}

// GetGroups returns the work's (group, quota) configuration in its stable
// configured order (creation order).
func (r *workRepo) GetGroups(ctx context.Context, tx *gorm.DB, workID uuid.UUID) ([]*types.WorkAnalogGroup, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.WorkAnalogGroup
	if err := transaction.WithContext(ctx).
		Where("work_id = ?", workID).
		Order("created_at ASC").
		Preload("AnalogGroup").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *workRepo) AddGroup(ctx context.Context, tx *gorm.DB, cfg *types.WorkAnalogGroup) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).Create(cfg).Error
}

// IncrementVariantCounter bumps the work's counter by delta inside the
// caller's transaction and returns the new value. A single UPDATE takes the
// row lock, so two concurrent generation batches cannot hand out the same
// variant numbers. The counter is never decremented: computing "next number"
// from max(existing) would collide after variant deletion.
func (r *workRepo) IncrementVariantCounter(ctx context.Context, tx *gorm.DB, workID uuid.UUID, delta int) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if delta <= 0 {
		return 0, fmt.Errorf("variant counter delta must be positive, got %d", delta)
	}

	res := transaction.WithContext(ctx).
		Model(&types.Work{}).
		Where("id = ?", workID).
		UpdateColumn("variant_counter", gorm.Expr("variant_counter + ?", delta))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("work %s not found", workID)
	}

	var counter int
	if err := transaction.WithContext(ctx).
		Model(&types.Work{}).
		Where("id = ?", workID).
		Pluck("variant_counter", &counter).Error; err != nil {
		return 0, err
	}
	return counter, nil
}
