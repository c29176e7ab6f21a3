package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"review_import_v1_202509/internal/model"
	"review_import_v1_202509/internal/repository"
)

// ==================== 店铺生命周期 ====================

// ShopService 安装/卸载与店铺查询
type ShopService struct {
	ShopRepo  repository.ShopRepository
	OwnerRepo repository.ShopOwnerRepository
}

// NewShopService 创建店铺服务
func NewShopService(shopRepo repository.ShopRepository, ownerRepo repository.ShopOwnerRepository) *ShopService {
	return &ShopService{ShopRepo: shopRepo, OwnerRepo: ownerRepo}
}

// Install 安装回调：建号（幂等）+ 建店
// 重复安装同一域名时恢复为激活态并更新凭证，不重复建店
func (s *ShopService) Install(ctx context.Context, email, ownerName, domain, accessToken string) (*model.Shop, error) {
	owner, err := s.OwnerRepo.GetOrCreate(ctx, email, ownerName)
	if err != nil {
		return nil, fmt.Errorf("创建账号失败: %w", err)
	}

	existing, err := s.ShopRepo.GetByDomain(ctx, domain)
	if err == nil {
		// 重装：恢复激活并刷新凭证
		if err := s.ShopRepo.UpdateFields(ctx, existing.ID, map[string]interface{}{
			"status":         model.ShopStatusActive,
			"access_token":   accessToken,
			"uninstalled_at": nil,
		}); err != nil {
			return nil, err
		}
		return s.ShopRepo.GetByID(ctx, existing.ID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	shop := &model.Shop{
		OwnerID:       owner.ID,
		ShopifyDomain: domain,
		// 对外标识必须不可猜测，与行 ID 解耦
		PublicShopID: uuid.NewString(),
		AccessToken:  accessToken,
		Plan:         model.PlanFree,
		ReviewLimit:  model.DefaultFreeReviewLimit,
		Status:       model.ShopStatusActive,
	}
	if err := s.ShopRepo.Create(ctx, shop); err != nil {
		return nil, fmt.Errorf("创建店铺失败: %w", err)
	}
	return shop, nil
}

// Uninstall 卸载：只标记不删除，数据保留
func (s *ShopService) Uninstall(ctx context.Context, domain string) error {
	shop, err := s.ShopRepo.GetByDomain(ctx, domain)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrShopNotFound
		}
		return err
	}
	return s.ShopRepo.MarkUninstalled(ctx, shop.ID)
}

// GetByID 查询店铺
func (s *ShopService) GetByID(ctx context.Context, id int64) (*model.Shop, error) {
	shop, err := s.ShopRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShopNotFound
		}
		return nil, err
	}
	return shop, nil
}
