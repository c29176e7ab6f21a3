package dto

// ==================== Widget 接口 ====================

// WidgetMedia widget 输出的媒体项
type WidgetMedia struct {
	Type     string `json:"type"`
	URL      string `json:"url"`
	ThumbURL string `json:"thumb_url,omitempty"`
}

// WidgetReview widget 输出的评论项（只暴露店面需要的字段）
type WidgetReview struct {
	ID           int64         `json:"id"`
	ReviewerName string        `json:"reviewer_name"`
	Country      string        `json:"country"`
	Rating       int           `json:"rating"`
	Content      string        `json:"content"`
	Translation  string        `json:"translation,omitempty"`
	Verified     bool          `json:"verified"`
	ReviewDate   string        `json:"review_date"`
	Media        []WidgetMedia `json:"media"`
}

// WidgetResp widget JSON 响应
type WidgetResp struct {
	Success   bool           `json:"success"`
	ProductID string         `json:"product_id"`
	Reviews   []WidgetReview `json:"reviews"`
	Total     int            `json:"total"`
}
