package model

// 来源平台常量
const (
	PlatformAliExpress = "aliexpress"
	PlatformAmazon     = "amazon"
	PlatformEbay       = "ebay"
	PlatformWalmart    = "walmart"
)

// Product 店铺内商品
// 以 Shopify 商品 ID 为查找键；首次为某 Shopify 商品导入评论时懒创建
type Product struct {
	BaseModel
	ShopID int64 `gorm:"index;uniqueIndex:idx_shop_shopify_product"`
	// Shopify 平台侧商品 ID（导入按它分组）
	ShopifyProductID string `gorm:"size:64;uniqueIndex:idx_shop_shopify_product"`
	Title            string `gorm:"size:255"`
	Handle           string `gorm:"size:255"`

	// 来源平台信息，用于追溯导入来源
	// 注意：SourceProductID 是市场侧商品 ID，与 ShopifyProductID 是两个体系，不可混用
	SourcePlatform  string `gorm:"size:20;comment:来源平台 aliexpress/amazon/ebay/walmart"`
	SourceProductID string `gorm:"size:64;index;comment:市场侧商品ID"`
	SourceSellerID  string `gorm:"size:64;comment:市场侧卖家ID"`
	SourceURL       string `gorm:"size:1024"`

	Reviews []Review `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}
