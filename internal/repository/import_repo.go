package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"review_import_v1_202509/internal/model"
)

// ==================== 接口定义 ====================

// ImportJobRepository 导入任务仓储接口
type ImportJobRepository interface {
	Create(ctx context.Context, job *model.ImportJob) error
	GetByID(ctx context.Context, id int64) (*model.ImportJob, error)
	Update(ctx context.Context, job *model.ImportJob) error
	// Finish 写入终态与计数，终态任务不再变更
	Finish(ctx context.Context, id int64, status string, imported, failed, skipped int, errMsg string) error
	ListByShop(ctx context.Context, shopID int64, page, pageSize int) ([]model.ImportJob, int64, error)
	// MarkStaleFailed 将卡在 processing 超过 deadline 的任务置为 failed
	// 进程中途退出会留下这种残骸，由定时任务清理
	MarkStaleFailed(ctx context.Context, deadline time.Time) (int64, error)

	WithTx(tx *gorm.DB) ImportJobRepository
}

// ==================== 仓储实现 ====================

type importJobRepo struct {
	db *gorm.DB
}

// NewImportJobRepository 创建导入任务仓储
func NewImportJobRepository(db *gorm.DB) ImportJobRepository {
	return &importJobRepo{db: db}
}

func (r *importJobRepo) WithTx(tx *gorm.DB) ImportJobRepository {
	return &importJobRepo{db: tx}
}

func (r *importJobRepo) Create(ctx context.Context, job *model.ImportJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *importJobRepo) GetByID(ctx context.Context, id int64) (*model.ImportJob, error) {
	var job model.ImportJob
	if err := r.db.WithContext(ctx).First(&job, id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *importJobRepo) Update(ctx context.Context, job *model.ImportJob) error {
	return r.db.WithContext(ctx).Save(job).Error
}

func (r *importJobRepo) Finish(ctx context.Context, id int64, status string, imported, failed, skipped int, errMsg string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&model.ImportJob{}).
		Where("id = ? AND status NOT IN (?, ?)", id, model.ImportStatusCompleted, model.ImportStatusFailed).
		Updates(map[string]interface{}{
			"status":         status,
			"total_imported": imported,
			"total_failed":   failed,
			"total_skipped":  skipped,
			"error_msg":      errMsg,
			"finished_at":    &now,
		}).Error
}

func (r *importJobRepo) ListByShop(ctx context.Context, shopID int64, page, pageSize int) ([]model.ImportJob, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var jobs []model.ImportJob
	var total int64

	q := r.db.WithContext(ctx).Model(&model.ImportJob{}).Where("shop_id = ?", shopID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&jobs).Error
	return jobs, total, err
}

func (r *importJobRepo) MarkStaleFailed(ctx context.Context, deadline time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.ImportJob{}).
		Where("status = ? AND updated_at < ?", model.ImportStatusProcessing, deadline).
		Updates(map[string]interface{}{
			"status":    model.ImportStatusFailed,
			"error_msg": "任务超时未完成，已自动终止",
		})
	return res.RowsAffected, res.Error
}
