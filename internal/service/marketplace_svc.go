package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ==================== 配置 ====================

// MarketplaceConfig 市场端配置
type MarketplaceConfig struct {
	// 评论接口地址，默认速卖通 feedback 端点
	FeedbackURL string
	// 商品详情页地址模板，%s 为商品 ID
	ProductPageURL string
	// 兜底代理端点（第三方服务），空则禁用该阶段
	ProxyEndpoint string
	// 兜底端点的预共享标识
	ProxyToken string
	Timeout    time.Duration
}

// DefaultMarketplaceConfig 默认配置（非敏感项）
func DefaultMarketplaceConfig() *MarketplaceConfig {
	return &MarketplaceConfig{
		FeedbackURL:    "https://feedback.aliexpress.com/pc/searchEvaluation.do",
		ProductPageURL: "https://www.aliexpress.com/item/%s.html",
		Timeout:        15 * time.Second,
	}
}

// ==================== 响应变体 ====================

// FetchKind 一次抓取的结果类别
type FetchKind int

const (
	FetchJSON      FetchKind = iota // 200 且 body 可解析为 JSON
	FetchHTML                       // 200 但 body 不是 JSON
	FetchNotFound                   // 404
	FetchBlocked                    // 其余 4xx，疑似风控
	FetchTransient                  // 5xx / 超时 / 连接错误，可重试
)

// FetchResult 市场端点返回结果
// 客户端本身不重试，重试策略由编排器决定
type FetchResult struct {
	Kind FetchKind
	JSON json.RawMessage
	HTML string
	Err  error
}

// ==================== 服务实现 ====================

// MarketplaceService 市场评论端点的专用 HTTP 客户端
type MarketplaceService struct {
	Config *MarketplaceConfig
	client *resty.Client
}

// NewMarketplaceService 创建市场客户端
// 统一挂浏览器风格请求头，市场端点对裸 UA 直接风控
func NewMarketplaceService(cfg *MarketplaceConfig) *MarketplaceService {
	if cfg == nil {
		cfg = DefaultMarketplaceConfig()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36").
		SetHeader("Accept", "application/json, text/html, */*").
		SetHeader("Accept-Language", "en-US,en;q=0.9")

	return &MarketplaceService{
		Config: cfg,
		client: client,
	}
}

// FetchFeedback 拉取一页评论
// page 对客户端是不透明的翻页参数，何时停止由编排器判断
func (s *MarketplaceService) FetchFeedback(ctx context.Context, productID, sellerID string, page, pageSize int) *FetchResult {
	if pageSize > 100 {
		pageSize = 100
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if page < 1 {
		page = 1
	}

	req := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"productId": productID,
			"lang":      "en_US",
			"country":   "US",
			"pageSize":  strconv.Itoa(pageSize),
			"filter":    "all",
			"sort":      "complex_default",
			"page":      strconv.Itoa(page),
		})
	if sellerID != "" {
		req.SetQueryParam("ownerMemberId", sellerID)
	}

	resp, err := req.Get(s.Config.FeedbackURL)
	return s.classify(resp, err)
}

// FetchProductPage 拉取商品详情页 HTML，供运行时状态/DOM 两个回退阶段使用
func (s *MarketplaceService) FetchProductPage(ctx context.Context, productID string) *FetchResult {
	pageURL := fmt.Sprintf(s.Config.ProductPageURL, productID)
	resp, err := s.client.R().SetContext(ctx).Get(pageURL)

	result := s.classify(resp, err)
	// 详情页永远按 HTML 处理
	if result.Kind == FetchJSON {
		result.Kind = FetchHTML
		result.HTML = string(result.JSON)
		result.JSON = nil
	}
	return result
}

// FetchViaProxy 调用兜底代理端点，该阶段合法地允许空结果
func (s *MarketplaceService) FetchViaProxy(ctx context.Context, productID, sellerID string, page int) *FetchResult {
	if s.Config.ProxyEndpoint == "" {
		return &FetchResult{Kind: FetchNotFound, Err: fmt.Errorf("未配置兜底代理端点")}
	}

	req := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"productId": productID,
			"page":      strconv.Itoa(page),
			"token":     s.Config.ProxyToken,
		})
	if sellerID != "" {
		req.SetQueryParam("sellerId", sellerID)
	}

	resp, err := req.Get(s.Config.ProxyEndpoint)
	return s.classify(resp, err)
}

// classify 将 HTTP 响应归入结果变体
func (s *MarketplaceService) classify(resp *resty.Response, err error) *FetchResult {
	if err != nil {
		// 超时与连接错误均归为瞬时错误，交给编排器重试
		return &FetchResult{Kind: FetchTransient, Err: err}
	}

	code := resp.StatusCode()
	body := resp.Body()

	switch {
	case code == http.StatusOK:
		trimmed := strings.TrimSpace(string(body))
		if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') && json.Valid(body) {
			return &FetchResult{Kind: FetchJSON, JSON: json.RawMessage(body)}
		}
		return &FetchResult{Kind: FetchHTML, HTML: string(body)}
	case code == http.StatusNotFound:
		return &FetchResult{Kind: FetchNotFound, Err: fmt.Errorf("HTTP 404")}
	case code >= 500:
		return &FetchResult{Kind: FetchTransient, Err: fmt.Errorf("HTTP %d", code)}
	case code >= 400:
		return &FetchResult{Kind: FetchBlocked, Err: fmt.Errorf("HTTP %d", code)}
	default:
		return &FetchResult{Kind: FetchTransient, Err: fmt.Errorf("意外状态码 %d", code)}
	}
}
