package model

import (
	"time"
)

// Review 状态常量
const (
	ReviewStatusPending   = "pending"   // 待审核，计入配额
	ReviewStatusPublished = "published" // 已发布，计入配额
	ReviewStatusHidden    = "hidden"    // 已隐藏
	ReviewStatusDeleted   = "deleted"   // 已删除（软删）
)

// AI 推荐阈值：quality_score >= 7 即推荐
const RecommendThreshold = 7.0

type Review struct {
	BaseModel
	// 1. 归属链：Review 同时挂在 Shop 和 Product 下，Product.ShopID 必须等于 Review.ShopID
	ShopID    int64 `gorm:"index;uniqueIndex:idx_shop_product_review"`
	ProductID int64 `gorm:"index"`
	// 冗余存 Shopify 商品 ID，与 shop_id + source_review_id 组成去重三元组
	// 该复合唯一索引是去重的唯一权威手段，应用层预检查只是省一次往返
	ShopifyProductID string `gorm:"size:64;uniqueIndex:idx_shop_product_review"`

	// 2. 来源标识
	SourcePlatform string `gorm:"size:20;comment:来源平台"`
	SourceReviewID string `gorm:"size:64;uniqueIndex:idx_shop_product_review;comment:市场侧评论ID"`

	// 3. 评论内容
	Rating       int    `gorm:"comment:星级 1-5"`
	Title        string `gorm:"size:255"`
	Content      string `gorm:"type:text"`
	Translation  string `gorm:"type:text;comment:上游提供的翻译，原样透传"`
	ReviewerName string `gorm:"size:100;default:'Customer'"`
	Country      string `gorm:"size:50;default:'Unknown'"`
	Verified     bool   `gorm:"default:false;comment:是否购买后评价"`
	ReviewDate   string `gorm:"size:50;comment:上游原始格式日期"`

	// 4. 质量字段
	QualityScore  float64  `gorm:"type:decimal(4,1);default:0;comment:质量分 0-10"`
	AiRecommended bool     `gorm:"default:false;comment:恒等于 quality_score>=7"`
	Sentiment     *float64 `gorm:"type:decimal(3,2);comment:情感 0-1，可空"`

	// 5. 状态
	Status     string    `gorm:"size:20;index;default:'pending'"`
	ImportedAt time.Time `gorm:"index"`

	Media []ReviewMedia `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE"`
}

// CountsTowardQuota 是否计入店铺配额
func (r *Review) CountsTowardQuota() bool {
	return r.Status == ReviewStatusPending || r.Status == ReviewStatusPublished
}
