package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"review_import_v1_202509/internal/model"
	"review_import_v1_202509/internal/repository"
)

// ==================== 读取接口 ====================

// QueryService 面向 widget 的只读接口
// 对合法商品 ID 是全函数：未知商品返回空列表/零值，绝不报错给店面
type QueryService struct {
	ShopRepo   repository.ShopRepository
	ReviewRepo repository.ReviewRepository
}

// NewQueryService 创建读取服务
func NewQueryService(shopRepo repository.ShopRepository, reviewRepo repository.ReviewRepository) *QueryService {
	return &QueryService{ShopRepo: shopRepo, ReviewRepo: reviewRepo}
}

// GetPublishedReviews 取已发布评论，imported_at 降序（同刻按行 ID 降序）
// publicShopID 是对外店铺标识，不是主键
func (s *QueryService) GetPublishedReviews(ctx context.Context, publicShopID, shopifyProductID string, limit, offset int) ([]model.Review, error) {
	shop, err := s.ShopRepo.GetByPublicID(ctx, publicShopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []model.Review{}, nil
		}
		return nil, err
	}

	reviews, err := s.ReviewRepo.ListPublished(ctx, shop.ID, shopifyProductID, limit, offset)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []model.Review{}
	}
	return reviews, nil
}

// GetStats 单商品评论聚合
func (s *QueryService) GetStats(ctx context.Context, publicShopID, shopifyProductID string) (*repository.ReviewStats, error) {
	shop, err := s.ShopRepo.GetByPublicID(ctx, publicShopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &repository.ReviewStats{}, nil
		}
		return nil, err
	}
	return s.ReviewRepo.Stats(ctx, shop.ID, shopifyProductID)
}
