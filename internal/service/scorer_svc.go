package service

import (
	"strings"

	"review_import_v1_202509/internal/model"
)

// ==================== 质量打分 ====================

// 正向词表：命中数量分档加分
var qualityKeywords = []string{
	"quality", "perfect", "excellent", "amazing", "love",
	"recommend", "great", "fantastic", "wonderful", "satisfied",
	"happy", "exactly", "described", "fast shipping", "value",
}

// 垃圾词表：每命中一个扣 2 分
var spamKeywords = []string{
	"click here", "buy now", "discount code", "promo", "http://", "https://",
}

// ScorerService 纯函数打分器，同输入必同输出
// 两套口径并存（历史原因），调用方必须显式选择：
//   - ScoreFull  完整口径，编排器与批量导入使用
//   - ScoreLite  轻量口径，直抓端点使用
type ScorerService struct{}

// NewScorerService 创建打分服务
func NewScorerService() *ScorerService {
	return &ScorerService{}
}

// ScoreFull 完整口径
// 加分项逐项累计，垃圾词逐个扣 2 分，最终钳位到 [0, 10]
func (s *ScorerService) ScoreFull(review *ScrapedReview) (float64, bool) {
	score := 0.0
	textLen := len(review.Text)

	switch {
	case textLen > 200:
		score += 3
	case textLen > 100:
		score += 2
	case textLen > 50:
		score += 1
	}

	if len(review.Images) > 0 {
		score += 2
	}

	switch review.Rating {
	case 5:
		score += 2
	case 4:
		score += 1
	}

	if review.Verified {
		score += 1
	}

	lower := strings.ToLower(review.Text)
	hits := 0
	for _, kw := range qualityKeywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	switch {
	case hits >= 3:
		score += 2
	case hits >= 1:
		score += 1
	}

	// 情感项：接入情感分析器时 +1，当前未接入

	for _, kw := range spamKeywords {
		if strings.Contains(lower, kw) {
			score -= 2
		}
	}

	score = clampScore(score)
	return score, score >= model.RecommendThreshold
}

// ScoreLite 轻量口径：底分 5，只看长度/图片/星级
func (s *ScorerService) ScoreLite(review *ScrapedReview) (float64, bool) {
	score := 5.0
	textLen := len(review.Text)

	if textLen > 50 {
		score += 1
	}
	if textLen > 100 {
		score += 2
	}
	if len(review.Images) > 0 {
		score += 2
	}
	if review.Rating >= 4 {
		score += 1
	}

	score = clampScore(score)
	return score, score >= model.RecommendThreshold
}

// Apply 按完整口径打分并回填到结构上
func (s *ScorerService) Apply(review *ScrapedReview) {
	review.QualityScore, review.Recommended = s.ScoreFull(review)
}

// ApplyLite 按轻量口径打分并回填到结构上
func (s *ScorerService) ApplyLite(review *ScrapedReview) {
	review.QualityScore, review.Recommended = s.ScoreLite(review)
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}
