package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"review_import_v1_202509/internal/model"
)

// ==================== Shopify 连接器 ====================

// ShopifyConfig 平台侧配置
type ShopifyConfig struct {
	// Admin API 版本，如 2024-10
	APIVersion string
	Timeout    time.Duration
}

// StoreProduct 平台侧商品（连接器只暴露基础元数据）
type StoreProduct struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Handle    string `json:"handle"`
	ImageURL  string `json:"image_url"`
}

// ShopifyService 商家商品目录的薄连接器
// 只做查找与基础元数据，鉴权凭证来自店铺记录
type ShopifyService struct {
	Config *ShopifyConfig
	client *resty.Client
	// 测试时覆盖请求地址
	baseURLOverride string
}

// NewShopifyService 创建连接器
func NewShopifyService(cfg *ShopifyConfig) *ShopifyService {
	if cfg == nil {
		cfg = &ShopifyConfig{}
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2024-10"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &ShopifyService{
		Config: cfg,
		client: resty.New().SetTimeout(cfg.Timeout),
	}
}

// SearchProducts 按标题关键词搜索商品
func (s *ShopifyService) SearchProducts(ctx context.Context, shop *model.Shop, query string) ([]StoreProduct, error) {
	var result struct {
		Products []shopifyProduct `json:"products"`
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("X-Shopify-Access-Token", shop.AccessToken).
		SetQueryParam("title", query).
		SetQueryParam("limit", "20").
		SetResult(&result).
		Get(s.baseURL(shop) + "/products.json")
	if err != nil {
		return nil, fmt.Errorf("Shopify 请求失败: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("Shopify 接口异常 [%d]", resp.StatusCode())
	}

	products := make([]StoreProduct, 0, len(result.Products))
	for _, p := range result.Products {
		products = append(products, p.toStoreProduct())
	}
	return products, nil
}

// GetProduct 按商品 ID 查询
func (s *ShopifyService) GetProduct(ctx context.Context, shop *model.Shop, productID string) (*StoreProduct, error) {
	var result struct {
		Product shopifyProduct `json:"product"`
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("X-Shopify-Access-Token", shop.AccessToken).
		SetResult(&result).
		Get(fmt.Sprintf("%s/products/%s.json", s.baseURL(shop), productID))
	if err != nil {
		return nil, fmt.Errorf("Shopify 请求失败: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, ErrProductNotFound
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("Shopify 接口异常 [%d]", resp.StatusCode())
	}

	product := result.Product.toStoreProduct()
	return &product, nil
}

func (s *ShopifyService) baseURL(shop *model.Shop) string {
	if s.baseURLOverride != "" {
		return s.baseURLOverride
	}
	return fmt.Sprintf("https://%s/admin/api/%s", shop.ShopifyDomain, s.Config.APIVersion)
}

// ==================== 响应结构 ====================

type shopifyProduct struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Handle string `json:"handle"`
	Image  struct {
		Src string `json:"src"`
	} `json:"image"`
}

func (p shopifyProduct) toStoreProduct() StoreProduct {
	return StoreProduct{
		ProductID: fmt.Sprintf("%d", p.ID),
		Title:     p.Title,
		Handle:    p.Handle,
		ImageURL:  p.Image.Src,
	}
}
