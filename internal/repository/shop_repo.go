package repository

import (
	"context"

	"gorm.io/gorm"

	"review_import_v1_202509/internal/model"
)

// ==================== 接口定义 ====================

// ShopRepository 店铺仓储接口
type ShopRepository interface {
	Create(ctx context.Context, shop *model.Shop) error
	GetByID(ctx context.Context, id int64) (*model.Shop, error)
	GetByDomain(ctx context.Context, domain string) (*model.Shop, error)
	GetByPublicID(ctx context.Context, publicID string) (*model.Shop, error)
	Update(ctx context.Context, shop *model.Shop) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	MarkUninstalled(ctx context.Context, id int64) error

	// 配额操作
	// ConsumeQuota 条件自增：免费版且 reviews_imported >= review_limit 时不生效
	// 返回 false 表示配额已满。与插入评论放在同一事务中执行，避免并发下计数漂移
	ConsumeQuota(ctx context.Context, shopID int64) (bool, error)
	// ReleaseQuota 评论被隐藏/删除时回收配额，计数下限为 0
	ReleaseQuota(ctx context.Context, shopID int64) error
	// RecountImported 按实际行数校准 reviews_imported，夜间对账任务使用
	RecountImported(ctx context.Context, shopID int64) error

	ListActive(ctx context.Context) ([]model.Shop, error)

	WithTx(tx *gorm.DB) ShopRepository
}

// ==================== 仓储实现 ====================

type shopRepo struct {
	db *gorm.DB
}

// NewShopRepository 创建店铺仓储
func NewShopRepository(db *gorm.DB) ShopRepository {
	return &shopRepo{db: db}
}

func (r *shopRepo) WithTx(tx *gorm.DB) ShopRepository {
	return &shopRepo{db: tx}
}

func (r *shopRepo) Create(ctx context.Context, shop *model.Shop) error {
	return r.db.WithContext(ctx).Create(shop).Error
}

func (r *shopRepo) GetByID(ctx context.Context, id int64) (*model.Shop, error) {
	var shop model.Shop
	if err := r.db.WithContext(ctx).First(&shop, id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *shopRepo) GetByDomain(ctx context.Context, domain string) (*model.Shop, error) {
	var shop model.Shop
	if err := r.db.WithContext(ctx).
		Where("shopify_domain = ?", domain).
		First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *shopRepo) GetByPublicID(ctx context.Context, publicID string) (*model.Shop, error) {
	var shop model.Shop
	if err := r.db.WithContext(ctx).
		Where("public_shop_id = ?", publicID).
		First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *shopRepo) Update(ctx context.Context, shop *model.Shop) error {
	return r.db.WithContext(ctx).Save(shop).Error
}

func (r *shopRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Shop{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *shopRepo) MarkUninstalled(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Shop{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         model.ShopStatusUninstalled,
			"uninstalled_at": gorm.Expr("CURRENT_TIMESTAMP"),
			"access_token":   "",
		}).Error
}

func (r *shopRepo) ConsumeQuota(ctx context.Context, shopID int64) (bool, error) {
	// 单条条件 UPDATE，数据库侧原子执行
	// 朴素的"读-判-写"在并发导入下会竞态，这里不采用
	res := r.db.WithContext(ctx).
		Model(&model.Shop{}).
		Where("id = ? AND (plan <> ? OR reviews_imported < review_limit)", shopID, model.PlanFree).
		UpdateColumn("reviews_imported", gorm.Expr("reviews_imported + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *shopRepo) ReleaseQuota(ctx context.Context, shopID int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Shop{}).
		Where("id = ? AND reviews_imported > 0", shopID).
		UpdateColumn("reviews_imported", gorm.Expr("reviews_imported - 1")).Error
}

func (r *shopRepo) RecountImported(ctx context.Context, shopID int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Shop{}).
		Where("id = ?", shopID).
		UpdateColumn("reviews_imported", gorm.Expr(
			"(SELECT COUNT(*) FROM reviews WHERE reviews.shop_id = ? AND reviews.status IN (?, ?) AND reviews.deleted_at IS NULL)",
			shopID, model.ReviewStatusPending, model.ReviewStatusPublished,
		)).Error
}

func (r *shopRepo) ListActive(ctx context.Context) ([]model.Shop, error) {
	var shops []model.Shop
	err := r.db.WithContext(ctx).
		Where("status = ?", model.ShopStatusActive).
		Find(&shops).Error
	return shops, err
}
