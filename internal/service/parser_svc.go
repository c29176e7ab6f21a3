package service

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// ==================== 解析器 ====================

// 页面内运行时状态赋值形式：window.runParams = { ... };
var runtimeStateRe = regexp.MustCompile(`window\.runParams\s*=\s*(\{.*?\});`)

// 市场资源主机，运行时状态里的图片 URL 只保留该主机下的
const marketplaceAssetHost = "alicdn.com"

// ParserService 将三种输入形态（评论接口 JSON / 页面运行时状态 / 渲染后 DOM）
// 映射为统一评论结构。所有解析器都是全函数：结构不符返回空列表，从不报错
type ParserService struct{}

// NewParserService 创建解析服务
func NewParserService() *ParserService {
	return &ParserService{}
}

// ==================== JSON 解析器 ====================

// ParseFeedbackJSON 解析评论接口响应，评论位于 data.evaViewList[*]
func (s *ParserService) ParseFeedbackJSON(raw json.RawMessage) []ScrapedReview {
	root := decodeLooseJSON(raw)
	if root == nil {
		return []ScrapedReview{}
	}

	data := childMap(root, "data")
	if data == nil {
		return []ScrapedReview{}
	}
	items, ok := data["evaViewList"].([]interface{})
	if !ok {
		return []ScrapedReview{}
	}

	reviews := make([]ScrapedReview, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		review := s.mapFeedbackEntry(entry)
		if review.ID == "" {
			continue
		}
		reviews = append(reviews, review)
	}
	return reviews
}

// mapFeedbackEntry 上游字段 -> 统一结构
func (s *ParserService) mapFeedbackEntry(entry map[string]interface{}) ScrapedReview {
	review := ScrapedReview{
		ID:           idString(entry["evaluationId"]),
		ReviewerName: stringOr(entry["buyerName"], "Customer"),
		Text:         stringOr(entry["buyerFeedback"], ""),
		Translation:  stringOr(entry["buyerTranslationFeedback"], ""),
		Rating:       normalizeRating(entry["buyerEval"]),
		Date:         stringOr(entry["evalTime"], ""),
		Country:      stringOr(entry["buyerCountry"], "Unknown"),
		Images:       normalizeImages(entry["images"]),
		Platform:     PlatformNameAliExpress,
	}
	// 购买渠道的评价才算 verified；接口里无购买标记字段时默认为 true，
	// searchEvaluation 端点只返回订单评价
	review.Verified = true
	if v, ok := entry["buyerProductFeedBack"].(bool); ok {
		review.Verified = v
	}
	return review
}

// ==================== 运行时状态解析器 ====================

// ExtractRuntimeState 从页面 HTML 的脚本文本中恢复运行时状态对象
func (s *ParserService) ExtractRuntimeState(html string) json.RawMessage {
	matches := runtimeStateRe.FindStringSubmatch(html)
	if len(matches) < 2 {
		return nil
	}
	blob := matches[1]
	if !json.Valid([]byte(blob)) {
		return nil
	}
	return json.RawMessage(blob)
}

// ParseRuntimeState 解析运行时状态，评论位于 data.feedbackModule.feedbackList[*]
// 图片只保留市场资源主机下的 URL
func (s *ParserService) ParseRuntimeState(raw json.RawMessage) []ScrapedReview {
	root := decodeLooseJSON(raw)
	if root == nil {
		return []ScrapedReview{}
	}

	module := childMap(root, "data", "feedbackModule")
	if module == nil {
		return []ScrapedReview{}
	}
	items, ok := module["feedbackList"].([]interface{})
	if !ok {
		return []ScrapedReview{}
	}

	reviews := make([]ScrapedReview, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		review := s.mapFeedbackEntry(entry)
		if review.ID == "" {
			continue
		}
		// 资源主机过滤
		kept := make([]string, 0, len(review.Images))
		for _, img := range review.Images {
			if strings.Contains(img, marketplaceAssetHost) {
				kept = append(kept, img)
			}
		}
		review.Images = kept
		reviews = append(reviews, review)
	}
	return reviews
}

// ==================== 字段归一化 ====================

// 平台名（统一结构中的取值）
const (
	PlatformNameAliExpress = "aliexpress"
	PlatformNameAmazon     = "amazon"
	PlatformNameEbay       = "ebay"
	PlatformNameWalmart    = "walmart"
)

// normalizeRating 上游星级归一化到 1-5
// 部分接口按百分制回传（20/40/60/80/100），按 20 一档折算；超范围一律钳位
func normalizeRating(v interface{}) int {
	var n float64
	switch val := v.(type) {
	case json.Number:
		n, _ = val.Float64()
	case float64:
		n = val
	case string:
		n, _ = strconv.ParseFloat(val, 64)
	default:
		return 1
	}

	if n > 5 {
		n = n / 20
	}
	rating := int(n + 0.5)
	if rating < 1 {
		rating = 1
	}
	if rating > 5 {
		rating = 5
	}
	return rating
}

// normalizeImages 图片列表归一化：元素可能是字符串，也可能是带 imgUrl/url 的对象
// 只保留绝对 URL，协议相对地址补全为 https
func normalizeImages(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return []string{}
	}

	urls := make([]string, 0, len(items))
	for _, item := range items {
		var u string
		switch val := item.(type) {
		case string:
			u = val
		case map[string]interface{}:
			u = stringOr(val["imgUrl"], "")
			if u == "" {
				u = stringOr(val["url"], "")
			}
		}
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if strings.HasPrefix(u, "//") {
			u = "https:" + u
		}
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			continue
		}
		urls = append(urls, u)
	}
	return urls
}

func stringOr(v interface{}, fallback string) string {
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	return fallback
}

// decodeLooseJSON 用 json.Number 解码，避免长 ID 在 float64 下丢精度
func decodeLooseJSON(raw json.RawMessage) map[string]interface{} {
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var root map[string]interface{}
	if err := dec.Decode(&root); err != nil {
		return nil
	}
	return root
}
