package dto

import (
	"review_import_v1_202509/internal/service"
)

// ==================== 导入接口 ====================

// SkipReq 标记跳过
type SkipReq struct {
	ReviewID  string `json:"review_id" binding:"required"`
	SessionID string `json:"session_id" binding:"required"`
}

// ImportSingleReq 单条导入
type ImportSingleReq struct {
	ShopID           int64                 `json:"shop_id" binding:"required"`
	ShopifyProductID string                `json:"hosting_product_id" binding:"required"`
	Review           service.ScrapedReview `json:"review" binding:"required"`
	SourcePlatform   string                `json:"platform"`
	SessionID        string                `json:"session_id"`
}

// ImportBulkReq 批量导入
type ImportBulkReq struct {
	ShopID           int64                   `json:"shop_id" binding:"required"`
	ShopifyProductID string                  `json:"hosting_product_id" binding:"required"`
	Reviews          []service.ScrapedReview `json:"reviews" binding:"required,min=1"`
	SourcePlatform   string                  `json:"platform"`
	SessionID        string                  `json:"session_id"`
	Filters          *service.ImportFilters  `json:"filters"`
}

// ImportSingleResp 单条导入响应
type ImportSingleResp struct {
	Success   bool   `json:"success"`
	ReviewID  int64  `json:"review_id"`
	ProductID int64  `json:"product_id"`
	Message   string `json:"message,omitempty"`
}

// ImportBulkResp 批量导入响应
type ImportBulkResp struct {
	Success       bool     `json:"success"`
	JobID         int64    `json:"job_id"`
	ImportedCount int      `json:"imported_count"`
	FailedCount   int      `json:"failed_count"`
	SkippedCount  int      `json:"skipped_count"`
	SkippedIDs    []string `json:"skipped_ids"`
}

// UpdateStatusReq 审核状态变更
type UpdateStatusReq struct {
	Status string `json:"status" binding:"required,oneof=published hidden deleted"`
}

// ==================== 管理端登录 ====================

// LoginReq 管理端登录
type LoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
