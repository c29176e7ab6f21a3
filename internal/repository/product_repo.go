package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"review_import_v1_202509/internal/model"
)

// ==================== 接口定义 ====================

// ProductRepository 商品仓储接口
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	GetByShopifyID(ctx context.Context, shopID int64, shopifyProductID string) (*model.Product, error)
	// GetOrCreate 按 (shop_id, shopify_product_id) 查找，不存在则创建
	// 返回值第二项表示是否新建
	GetOrCreate(ctx context.Context, product *model.Product) (*model.Product, bool, error)
	Update(ctx context.Context, product *model.Product) error
	ListByShop(ctx context.Context, shopID int64, page, pageSize int) ([]model.Product, int64, error)
	Delete(ctx context.Context, id int64) error

	WithTx(tx *gorm.DB) ProductRepository
}

// ==================== 仓储实现 ====================

type productRepo struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepo{db: tx}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) GetByShopifyID(ctx context.Context, shopID int64, shopifyProductID string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND shopify_product_id = ?", shopID, shopifyProductID).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) GetOrCreate(ctx context.Context, product *model.Product) (*model.Product, bool, error) {
	existing, err := r.GetByShopifyID(ctx, product.ShopID, product.ShopifyProductID)
	if err == nil {
		// 已存在则不覆盖来源信息
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		// 并发下另一请求可能已抢先创建，重查一次
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, err2 := r.GetByShopifyID(ctx, product.ShopID, product.ShopifyProductID)
			if err2 != nil {
				return nil, false, err2
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	return product, true, nil
}

func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepo) ListByShop(ctx context.Context, shopID int64, page, pageSize int) ([]model.Product, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{}).Where("shop_id = ?", shopID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&products).Error
	return products, total, err
}

func (r *productRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, id).Error
}
