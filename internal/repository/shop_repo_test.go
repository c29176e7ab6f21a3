package repository

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"review_import_v1_202509/internal/model"
)

// ==================== 测试辅助 ====================

func setupShopRepoTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.Shop{}, &model.Review{}); err != nil {
		t.Fatalf("建表失败: %v", err)
	}
	return db
}

func createShop(t *testing.T, db *gorm.DB, plan string, limit, imported int) *model.Shop {
	shop := &model.Shop{
		ShopifyDomain:   plan + "-repo.myshopify.com",
		PublicShopID:    "pub-repo-" + plan,
		Plan:            plan,
		ReviewLimit:     limit,
		ReviewsImported: imported,
		Status:          model.ShopStatusActive,
	}
	if err := db.Create(shop).Error; err != nil {
		t.Fatalf("创建店铺失败: %v", err)
	}
	return shop
}

// ==================== 单元测试 ====================

func TestShopRepo_ConsumeQuota(t *testing.T) {
	db := setupShopRepoTestDB(t)
	repo := NewShopRepository(db)
	ctx := context.Background()

	// 免费版差一个满额：最后一个名额拿得到，之后拿不到
	shop := createShop(t, db, model.PlanFree, 50, 49)

	ok, err := repo.ConsumeQuota(ctx, shop.ID)
	if err != nil {
		t.Fatalf("扣配额失败: %v", err)
	}
	if !ok {
		t.Fatal("最后一个名额应扣减成功")
	}

	ok, err = repo.ConsumeQuota(ctx, shop.ID)
	if err != nil {
		t.Fatalf("扣配额失败: %v", err)
	}
	if ok {
		t.Error("配额满后仍扣减成功")
	}

	var fresh model.Shop
	db.First(&fresh, shop.ID)
	if fresh.ReviewsImported != 50 {
		t.Errorf("ReviewsImported = %d, 期望 50", fresh.ReviewsImported)
	}
}

func TestShopRepo_ConsumeQuota_PaidUnlimited(t *testing.T) {
	db := setupShopRepoTestDB(t)
	repo := NewShopRepository(db)

	// 付费套餐不看上限
	shop := createShop(t, db, model.PlanPro, 50, 200)
	ok, err := repo.ConsumeQuota(context.Background(), shop.ID)
	if err != nil {
		t.Fatalf("扣配额失败: %v", err)
	}
	if !ok {
		t.Error("付费套餐不应被配额拦截")
	}
}

func TestShopRepo_ReleaseQuota_FloorAtZero(t *testing.T) {
	db := setupShopRepoTestDB(t)
	repo := NewShopRepository(db)
	ctx := context.Background()

	shop := createShop(t, db, model.PlanFree, 50, 1)

	if err := repo.ReleaseQuota(ctx, shop.ID); err != nil {
		t.Fatalf("回收配额失败: %v", err)
	}
	// 已经 0 了再回收不能变负
	if err := repo.ReleaseQuota(ctx, shop.ID); err != nil {
		t.Fatalf("回收配额失败: %v", err)
	}

	var fresh model.Shop
	db.First(&fresh, shop.ID)
	if fresh.ReviewsImported != 0 {
		t.Errorf("ReviewsImported = %d, 期望 0", fresh.ReviewsImported)
	}
}

func TestShopRepo_RecountImported(t *testing.T) {
	db := setupShopRepoTestDB(t)
	repo := NewShopRepository(db)
	ctx := context.Background()

	// 计数被人为弄偏，对账后按实际行数校准
	shop := createShop(t, db, model.PlanFree, 50, 37)

	rows := []model.Review{
		{ShopID: shop.ID, ShopifyProductID: "g1", SourceReviewID: "1", Status: model.ReviewStatusPending},
		{ShopID: shop.ID, ShopifyProductID: "g1", SourceReviewID: "2", Status: model.ReviewStatusPublished},
		{ShopID: shop.ID, ShopifyProductID: "g1", SourceReviewID: "3", Status: model.ReviewStatusHidden},
		{ShopID: shop.ID, ShopifyProductID: "g1", SourceReviewID: "4", Status: model.ReviewStatusDeleted},
	}
	for i := range rows {
		if err := db.Create(&rows[i]).Error; err != nil {
			t.Fatalf("创建评论失败: %v", err)
		}
	}

	if err := repo.RecountImported(ctx, shop.ID); err != nil {
		t.Fatalf("对账失败: %v", err)
	}

	var fresh model.Shop
	db.First(&fresh, shop.ID)
	// 只有 pending + published 计入
	if fresh.ReviewsImported != 2 {
		t.Errorf("ReviewsImported = %d, 期望 2", fresh.ReviewsImported)
	}
}

func TestShopRepo_GetByPublicID(t *testing.T) {
	db := setupShopRepoTestDB(t)
	repo := NewShopRepository(db)
	ctx := context.Background()

	shop := createShop(t, db, model.PlanFree, 50, 0)

	found, err := repo.GetByPublicID(ctx, shop.PublicShopID)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if found.ID != shop.ID {
		t.Errorf("ID = %d, 期望 %d", found.ID, shop.ID)
	}

	if _, err := repo.GetByPublicID(ctx, "missing"); err == nil {
		t.Error("未知对外标识应报错")
	}
}

func TestShopRepo_DomainUnique(t *testing.T) {
	db := setupShopRepoTestDB(t)
	repo := NewShopRepository(db)
	ctx := context.Background()

	createShop(t, db, model.PlanFree, 50, 0)
	err := repo.Create(ctx, &model.Shop{
		ShopifyDomain: "free-repo.myshopify.com",
		PublicShopID:  "pub-other",
	})
	if err == nil {
		t.Fatal("重复域名应违反唯一约束")
	}
}
