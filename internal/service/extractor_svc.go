package service

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// ==================== 标识提取 ====================

// 提取策略标签
const (
	SourceRuntimeFeedback = "runtime-feedback"
	SourceRuntimeRoot     = "runtime-root"
	SourceRuntimeStore    = "runtime-store"
	SourceURL             = "url"
)

var (
	itemPathRe       = regexp.MustCompile(`/item/(\d+)`)
	adminAccountIDRe = regexp.MustCompile(`adminAccountId=(\d+)`)
)

// ExtractorService 从市场页面上下文中提取商品/卖家标识
type ExtractorService struct{}

// NewExtractorService 创建标识提取服务
func NewExtractorService() *ExtractorService {
	return &ExtractorService{}
}

// ExtractFromURL 仅凭 URL 提取
func (s *ExtractorService) ExtractFromURL(rawURL string) (*ExtractedIdentity, error) {
	return s.Extract(&PageContext{URL: rawURL})
}

// Extract 按固定优先级依次尝试各策略，第一个拿到 product_id 的策略胜出
// seller_id 缺失不算失败，下游必须容忍
func (s *ExtractorService) Extract(page *PageContext) (*ExtractedIdentity, error) {
	state := s.decodeRuntimeState(page.RuntimeState)

	// 1. 运行时状态 - 评论模块
	if m := childMap(state, "data", "feedbackModule"); m != nil {
		if pid := idString(m["productId"]); pid != "" {
			return s.withSellerFallback(&ExtractedIdentity{
				ProductID: pid,
				SellerID:  idString(m["sellerAdminSeq"]),
				Source:    SourceRuntimeFeedback,
			}, page), nil
		}
	}

	// 2. 运行时状态 - 根节点
	if m := childMap(state, "data"); m != nil {
		if pid := idString(m["productId"]); pid != "" {
			return s.withSellerFallback(&ExtractedIdentity{
				ProductID: pid,
				SellerID:  idString(m["adminSeq"]),
				Source:    SourceRuntimeRoot,
			}, page), nil
		}
	}

	// 3. 运行时状态 - 店铺模块
	if m := childMap(state, "data", "storeModule"); m != nil {
		if pid := idString(m["productId"]); pid != "" {
			return s.withSellerFallback(&ExtractedIdentity{
				ProductID: pid,
				SellerID:  idString(m["sellerAdminSeq"]),
				Source:    SourceRuntimeStore,
			}, page), nil
		}
	}

	// 4. URL 路径 /item/<digits>
	if matches := itemPathRe.FindStringSubmatch(page.URL); len(matches) > 1 {
		return s.withSellerFallback(&ExtractedIdentity{
			ProductID: matches[1],
			Source:    SourceURL,
		}, page), nil
	}

	return nil, fmt.Errorf("%w: url=%s", ErrExtractionFailed, page.URL)
}

// withSellerFallback seller_id 缺失时从页面 HTML 里兜底找一次
func (s *ExtractorService) withSellerFallback(id *ExtractedIdentity, page *PageContext) *ExtractedIdentity {
	if id.SellerID == "" && page.HTML != "" {
		if matches := adminAccountIDRe.FindStringSubmatch(page.HTML); len(matches) > 1 {
			id.SellerID = matches[1]
		}
	}
	return id
}

// decodeRuntimeState 结构松散，解不开就当没有，不报错
func (s *ExtractorService) decodeRuntimeState(raw json.RawMessage) map[string]interface{} {
	return decodeLooseJSON(raw)
}

// ==================== 动态结构辅助 ====================

// childMap 沿路径逐层取子对象，任何一层缺失/类型不符返回 nil
func childMap(m map[string]interface{}, path ...string) map[string]interface{} {
	cur := m
	for _, key := range path {
		if cur == nil {
			return nil
		}
		next, ok := cur[key].(map[string]interface{})
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// idString 将 JSON 中的数字/字符串 ID 统一转为字符串
// 大数在 float64 下会丢精度，优先走 json.Number 不可行时按无小数格式化
func idString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return fmt.Sprintf("%.0f", val)
	case int64:
		return fmt.Sprintf("%d", val)
	default:
		return ""
	}
}
