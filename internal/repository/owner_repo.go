package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"review_import_v1_202509/internal/model"
)

// ShopOwnerRepository 商家账号仓储接口
type ShopOwnerRepository interface {
	GetByEmail(ctx context.Context, email string) (*model.ShopOwner, error)
	// GetOrCreate 首次安装时按邮箱建号
	GetOrCreate(ctx context.Context, email, name string) (*model.ShopOwner, error)

	WithTx(tx *gorm.DB) ShopOwnerRepository
}

type shopOwnerRepo struct {
	db *gorm.DB
}

// NewShopOwnerRepository 创建商家账号仓储
func NewShopOwnerRepository(db *gorm.DB) ShopOwnerRepository {
	return &shopOwnerRepo{db: db}
}

func (r *shopOwnerRepo) WithTx(tx *gorm.DB) ShopOwnerRepository {
	return &shopOwnerRepo{db: tx}
}

func (r *shopOwnerRepo) GetByEmail(ctx context.Context, email string) (*model.ShopOwner, error) {
	var owner model.ShopOwner
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&owner).Error; err != nil {
		return nil, err
	}
	return &owner, nil
}

func (r *shopOwnerRepo) GetOrCreate(ctx context.Context, email, name string) (*model.ShopOwner, error) {
	owner, err := r.GetByEmail(ctx, email)
	if err == nil {
		return owner, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := &model.ShopOwner{Email: email, Name: name}
	if err := r.db.WithContext(ctx).Create(created).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return r.GetByEmail(ctx, email)
		}
		return nil, err
	}
	return created, nil
}
