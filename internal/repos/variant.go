package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/taskbank-backend/internal/logger"
	"github.com/yungbote/taskbank-backend/internal/types"
)

type VariantRepo interface {
	CreateWithTasks(ctx context.Context, tx *gorm.DB, variant *types.Variant, taskIDs []uuid.UUID) (*types.Variant, error)
	GetByWorkID(ctx context.Context, tx *gorm.DB, workID uuid.UUID) ([]*types.Variant, error)
	GetTaskIDs(ctx context.Context, tx *gorm.DB, variantID uuid.UUID) ([]uuid.UUID, error)
}

type variantRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVariantRepo(db *gorm.DB, baseLog *logger.Logger) VariantRepo {
	return &variantRepo{db: db, log: baseLog.With("repo", "VariantRepo")}
}

// CreateWithTasks inserts the variant row and its task links. The join
// table's composite key collapses a task sampled from two groups into one
// membership row, matching set semantics.
func (r *variantRepo) CreateWithTasks(ctx context.Context, tx *gorm.DB, variant *types.Variant, taskIDs []uuid.UUID) (*types.Variant, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(variant).Error; err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool, len(taskIDs))
	tasks := make([]*types.Task, 0, len(taskIDs))
	for _, id := range taskIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		tasks = append(tasks, &types.Task{ID: id})
	}
	if len(tasks) == 0 {
		return variant, nil
	}

	if err := transaction.WithContext(ctx).
		Model(variant).
		Association("Tasks").
		Append(tasks); err != nil {
		return nil, err
	}
	return variant, nil
}

func (r *variantRepo) GetByWorkID(ctx context.Context, tx *gorm.DB, workID uuid.UUID) ([]*types.Variant, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Variant
	if err := transaction.WithContext(ctx).
		Where("work_id = ?", workID).
		Order("number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *variantRepo) GetTaskIDs(ctx context.Context, tx *gorm.DB, variantID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var ids []uuid.UUID
	if err := transaction.WithContext(ctx).
		Table("variant_task").
		Where("variant_id = ?", variantID).
		Pluck("task_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
