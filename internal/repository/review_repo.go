package repository

import (
	"context"

	"gorm.io/gorm"

	"review_import_v1_202509/internal/model"
)

// ==================== 接口定义 ====================

// ReviewStats 单商品评论统计
type ReviewStats struct {
	Count          int64   `json:"count"`
	MeanRating     float64 `json:"mean_rating"`
	VerifiedCount  int64   `json:"verified_count"`
	WithPhotoCount int64   `json:"with_photos_count"`
}

// ReviewRepository 评论仓储接口
type ReviewRepository interface {
	// Create 插入评论，三元组冲突时返回 gorm.ErrDuplicatedKey
	Create(ctx context.Context, review *model.Review) error
	GetByID(ctx context.Context, id int64) (*model.Review, error)
	// ExistsTriple 应用层去重预检查，省一次无谓写入
	// 真正的去重由复合唯一索引保证，此方法结果不可作为安全依据
	ExistsTriple(ctx context.Context, shopID int64, shopifyProductID, sourceReviewID string) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status string) error

	// 媒体
	CreateMedia(ctx context.Context, media []model.ReviewMedia) error

	// 读取接口
	ListPublished(ctx context.Context, shopID int64, shopifyProductID string, limit, offset int) ([]model.Review, error)
	Stats(ctx context.Context, shopID int64, shopifyProductID string) (*ReviewStats, error)
	CountQuotaCounted(ctx context.Context, shopID int64) (int64, error)

	WithTx(tx *gorm.DB) ReviewRepository
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ==================== 仓储实现 ====================

type reviewRepo struct {
	db *gorm.DB
}

// NewReviewRepository 创建评论仓储
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepo{db: db}
}

func (r *reviewRepo) WithTx(tx *gorm.DB) ReviewRepository {
	return &reviewRepo{db: tx}
}

func (r *reviewRepo) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *reviewRepo) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepo) GetByID(ctx context.Context, id int64) (*model.Review, error) {
	var review model.Review
	if err := r.db.WithContext(ctx).
		Preload("Media").
		First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepo) ExistsTriple(ctx context.Context, shopID int64, shopifyProductID, sourceReviewID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("shop_id = ? AND shopify_product_id = ? AND source_review_id = ?",
			shopID, shopifyProductID, sourceReviewID).
		Count(&count).Error
	return count > 0, err
}

func (r *reviewRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *reviewRepo) CreateMedia(ctx context.Context, media []model.ReviewMedia) error {
	if len(media) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&media).Error
}

func (r *reviewRepo) ListPublished(ctx context.Context, shopID int64, shopifyProductID string, limit, offset int) ([]model.Review, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Preload("Media").
		Where("shop_id = ? AND shopify_product_id = ? AND status = ?",
			shopID, shopifyProductID, model.ReviewStatusPublished).
		Order("imported_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepo) Stats(ctx context.Context, shopID int64, shopifyProductID string) (*ReviewStats, error) {
	base := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("shop_id = ? AND shopify_product_id = ? AND status = ?",
			shopID, shopifyProductID, model.ReviewStatusPublished)

	stats := &ReviewStats{}
	if err := base.Session(&gorm.Session{}).Count(&stats.Count).Error; err != nil {
		return nil, err
	}
	if stats.Count == 0 {
		return stats, nil
	}

	var mean *float64
	if err := base.Session(&gorm.Session{}).
		Select("AVG(rating)").Scan(&mean).Error; err != nil {
		return nil, err
	}
	if mean != nil {
		stats.MeanRating = *mean
	}

	if err := base.Session(&gorm.Session{}).
		Where("verified = ?", true).
		Count(&stats.VerifiedCount).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("shop_id = ? AND shopify_product_id = ? AND status = ?",
			shopID, shopifyProductID, model.ReviewStatusPublished).
		Where("EXISTS (SELECT 1 FROM review_media WHERE review_media.review_id = reviews.id AND review_media.deleted_at IS NULL)").
		Count(&stats.WithPhotoCount).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *reviewRepo) CountQuotaCounted(ctx context.Context, shopID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("shop_id = ? AND status IN (?, ?)",
			shopID, model.ReviewStatusPending, model.ReviewStatusPublished).
		Count(&count).Error
	return count, err
}
