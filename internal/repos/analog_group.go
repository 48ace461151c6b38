package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/taskbank-backend/internal/logger"
	"github.com/yungbote/taskbank-backend/internal/types"
)

type AnalogGroupRepo interface {
	Create(ctx context.Context, tx *gorm.DB, groups []*types.AnalogGroup) ([]*types.AnalogGroup, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID) ([]*types.AnalogGroup, error)
	GetTaskIDs(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) ([]uuid.UUID, error)
}

type analogGroupRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnalogGroupRepo(db *gorm.DB, baseLog *logger.Logger) AnalogGroupRepo {
	return &analogGroupRepo{db: db, log: baseLog.With("repo", "AnalogGroupRepo")}
}

func (r *analogGroupRepo) Create(ctx context.Context, tx *gorm.DB, groups []*types.AnalogGroup) ([]*types.AnalogGroup, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(groups) == 0 {
		return []*types.AnalogGroup{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *analogGroupRepo) GetByIDs(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID) ([]*types.AnalogGroup, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.AnalogGroup
	if len(groupIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", groupIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetTaskIDs returns the group's current membership. The result is a set:
// the join table's composite key forbids duplicates and no order is defined.
func (r *analogGroupRepo) GetTaskIDs(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var ids []uuid.UUID
	if err := transaction.WithContext(ctx).
		Table("task_group").
		Where("analog_group_id = ?", groupID).
		Pluck("task_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
