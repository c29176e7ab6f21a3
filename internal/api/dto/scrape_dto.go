package dto

import (
	"review_import_v1_202509/internal/service"
)

// ==================== 抓取接口 ====================

// Pagination 翻页信息
// has_more 只能基于"本页是否取满"推断，市场端点不回传总数
type Pagination struct {
	CurrentPage int  `json:"current_page"`
	PerPage     int  `json:"per_page"`
	HasMore     bool `json:"has_more"`
}

// ScrapeResp 抓取响应
// 全部阶段为空也返回 success=true，stage 字段带诊断标签
type ScrapeResp struct {
	Success    bool                    `json:"success"`
	Reviews    []service.ScrapedReview `json:"reviews"`
	Total      int                     `json:"total"`
	Stats      service.ScrapeStats     `json:"stats"`
	Stage      string                  `json:"stage"`
	Pagination Pagination              `json:"pagination"`
	SessionID  string                  `json:"session_id,omitempty"`
}
