package model

import (
	"time"
)

// Shop 套餐常量
const (
	PlanFree  = "free"  // 免费版，受 review_limit 限制
	PlanBasic = "basic" // 基础版
	PlanPro   = "pro"   // 专业版
)

// Shop 状态常量
const (
	ShopStatusActive      = 1 // 正常
	ShopStatusUninstalled = 2 // 已卸载（保留数据，不删除）
)

// 免费版默认配额
const DefaultFreeReviewLimit = 50

type Shop struct {
	BaseModel
	// 1. 核心身份
	OwnerID int64 `gorm:"index"` // 所属账号
	// Shopify 平台侧唯一域名，如 xxx.myshopify.com
	ShopifyDomain string `gorm:"size:255;uniqueIndex"`
	// 对外可见的店铺标识，用于 widget URL，不可猜测，与主键 ID 区分
	PublicShopID string `gorm:"size:64;uniqueIndex"`

	// 2. 平台授权
	AccessToken string `gorm:"size:255"` // Shopify 签发的访问凭证

	// 3. 套餐与配额
	Plan            string `gorm:"size:20;default:'free';comment:套餐 free/basic/pro"`
	ReviewLimit     int    `gorm:"default:50;comment:评论配额"`
	ReviewsImported int    `gorm:"default:0;comment:已导入评论数(pending+published)"`

	// 4. 状态
	Status        int        `gorm:"default:1;comment:状态 1-正常 2-已卸载"`
	UninstalledAt *time.Time

	// 5. 关联关系
	Owner    *ShopOwner `gorm:"foreignKey:OwnerID"`
	Products []Product  `gorm:"foreignKey:ShopID;constraint:OnDelete:CASCADE"`
	Reviews  []Review   `gorm:"foreignKey:ShopID;constraint:OnDelete:CASCADE"`
}

// IsQuotaExhausted 免费版配额是否已用尽
// 付费套餐不受配额限制
func (s *Shop) IsQuotaExhausted() bool {
	return s.Plan == PlanFree && s.ReviewsImported >= s.ReviewLimit
}
