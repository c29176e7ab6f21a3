package service

import (
	"encoding/json"
)

// ==================== 统一数据结构 ====================

// ScrapedReview 统一评论结构（所有解析器的输出，下游全部消费此结构）
type ScrapedReview struct {
	ID           string   `json:"id"`                    // 市场侧评论 ID，翻页间稳定
	ReviewerName string   `json:"reviewer_name"`         // 缺失时回退 "Customer"
	Text         string   `json:"text"`                  // 评论正文
	Translation  string   `json:"translation,omitempty"` // 上游提供的翻译，原样透传
	Rating       int      `json:"rating"`                // 1-5
	Date         string   `json:"date"`                  // 上游原始格式日期
	Country      string   `json:"country"`               // 缺失时回退 "Unknown"
	Verified     bool     `json:"verified"`              // 是否购买渠道评价
	Images       []string `json:"images"`                // 绝对图片 URL
	Platform     string   `json:"platform"`              // aliexpress/amazon/ebay/walmart

	// 打分结果，由 QualityScorer 填充
	QualityScore float64  `json:"quality_score"`
	Recommended  bool     `json:"ai_recommended"`
	Sentiment    *float64 `json:"sentiment,omitempty"`
}

// PageContext 书签脚本捕获的页面上下文
// RuntimeState 是页面内嵌的运行时状态对象，结构松散，各页面变体嵌套不同
type PageContext struct {
	URL          string          `json:"url"`
	RuntimeState json.RawMessage `json:"runtime_state,omitempty"`
	HTML         string          `json:"html,omitempty"`
}

// ExtractedIdentity 标识提取结果
type ExtractedIdentity struct {
	ProductID string `json:"product_id"`
	SellerID  string `json:"seller_id,omitempty"`
	Source    string `json:"source"` // 命中的策略标签
}

// ScrapeStats 一次抓取的聚合统计
type ScrapeStats struct {
	Total       int     `json:"total"`
	WithPhotos  int     `json:"with_photos"`
	Recommended int     `json:"recommended"`
	AvgScore    float64 `json:"avg_score"`
	AvgRating   float64 `json:"avg_rating"`
}

// ScrapeResult 编排器最终输出
// 编排器不抛错：全部阶段失败时 Reviews 为空，Stage 标记最后尝试的阶段
type ScrapeResult struct {
	Reviews []ScrapedReview `json:"reviews"`
	Stats   ScrapeStats     `json:"stats"`
	Stage   string          `json:"stage"` // 产出结果（或最后尝试）的阶段
}
