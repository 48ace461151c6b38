package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/taskbank-backend/internal/logger"
	"github.com/yungbote/taskbank-backend/internal/types"
)

type TaskImageRepo interface {
	Create(ctx context.Context, tx *gorm.DB, images []*types.TaskImage) ([]*types.TaskImage, error)
	GetByTaskID(ctx context.Context, tx *gorm.DB, taskID uuid.UUID) ([]*types.TaskImage, error)
	GetByTaskIDs(ctx context.Context, tx *gorm.DB, taskIDs []uuid.UUID) ([]*types.TaskImage, error)
}

type taskImageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskImageRepo(db *gorm.DB, baseLog *logger.Logger) TaskImageRepo {
	return &taskImageRepo{db: db, log: baseLog.With("repo", "TaskImageRepo")}
}

func (r *taskImageRepo) Create(ctx context.Context, tx *gorm.DB, images []*types.TaskImage) ([]*types.TaskImage, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(images) == 0 {
		return []*types.TaskImage{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

func (r *taskImageRepo) GetByTaskID(ctx context.Context, tx *gorm.DB, taskID uuid.UUID) ([]*types.TaskImage, error) {
	return r.GetByTaskIDs(ctx, tx, []uuid.UUID{taskID})
}

// GetByTaskIDs returns attachments in rendering order: display_order
// ascending, creation time breaking ties.
func (r *taskImageRepo) GetByTaskIDs(ctx context.Context, tx *gorm.DB, taskIDs []uuid.UUID) ([]*types.TaskImage, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TaskImage
	if len(taskIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("task_id IN ?", taskIDs).
		Order("display_order ASC, created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
