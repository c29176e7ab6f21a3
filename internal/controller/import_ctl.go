package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"review_import_v1_202509/internal/api/dto"
	"review_import_v1_202509/internal/service"
)

// ImportController 导入与审核入口
type ImportController struct {
	ingest *service.IngestService
}

// NewImportController 创建导入控制器
func NewImportController(ingest *service.IngestService) *ImportController {
	return &ImportController{ingest: ingest}
}

// Skip 标记跳过
// @Summary 标记某条评论为跳过
// @Tags Import
// @Accept json
// @Param body body dto.SkipReq true "跳过参数"
// @Router /admin/reviews/skip [post]
func (ctrl *ImportController) Skip(c *gin.Context) {
	var req dto.SkipReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "参数错误: " + err.Error()})
		return
	}

	ctrl.ingest.Skip(req.SessionID, req.ReviewID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "已标记跳过"})
}

// ImportSingle 单条导入
// @Summary 导入一条评论
// @Tags Import
// @Accept json
// @Param body body dto.ImportSingleReq true "导入参数"
// @Success 200 {object} dto.ImportSingleResp
// @Router /admin/reviews/import/single [post]
func (ctrl *ImportController) ImportSingle(c *gin.Context) {
	var req dto.ImportSingleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "参数错误: " + err.Error()})
		return
	}

	result, err := ctrl.ingest.ImportSingle(
		c.Request.Context(),
		req.ShopID,
		req.ShopifyProductID,
		&req.Review,
		req.SourcePlatform,
		nil,
		req.SessionID,
	)
	if err != nil {
		status, msg := importErrorStatus(err)
		c.JSON(status, gin.H{"success": false, "error": msg})
		return
	}

	c.JSON(http.StatusOK, dto.ImportSingleResp{
		Success:   true,
		ReviewID:  result.ReviewID,
		ProductID: result.ProductID,
	})
}

// ImportBulk 批量导入
// @Summary 批量导入评论
// @Tags Import
// @Accept json
// @Param body body dto.ImportBulkReq true "批量导入参数"
// @Success 200 {object} dto.ImportBulkResp
// @Router /admin/reviews/import/bulk [post]
func (ctrl *ImportController) ImportBulk(c *gin.Context) {
	var req dto.ImportBulkReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "参数错误: " + err.Error()})
		return
	}

	result, err := ctrl.ingest.ImportBulk(
		c.Request.Context(),
		req.ShopID,
		req.ShopifyProductID,
		req.Reviews,
		req.SourcePlatform,
		req.Filters,
		req.SessionID,
	)
	if err != nil {
		// 存储错误中断：已有部分进度也一并返回
		resp := gin.H{"success": false, "error": err.Error()}
		if result != nil {
			resp["imported_count"] = result.Imported
			resp["failed_count"] = result.Failed
			resp["skipped_count"] = result.Skipped
		}
		c.JSON(http.StatusInternalServerError, resp)
		return
	}

	c.JSON(http.StatusOK, dto.ImportBulkResp{
		Success:       true,
		JobID:         result.JobID,
		ImportedCount: result.Imported,
		FailedCount:   result.Failed,
		SkippedCount:  result.Skipped,
		SkippedIDs:    result.SkippedIDs,
	})
}

// UpdateStatus 审核状态流转
// @Summary 发布/隐藏/删除评论
// @Tags Import
// @Param id path int true "评论ID"
// @Param body body dto.UpdateStatusReq true "目标状态"
// @Router /admin/reviews/{id}/status [put]
func (ctrl *ImportController) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "无效的评论ID"})
		return
	}

	var req dto.UpdateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "参数错误: " + err.Error()})
		return
	}

	if err := ctrl.ingest.UpdateReviewStatus(c.Request.Context(), id, req.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListJobs 导入任务列表
// @Summary 查询店铺的批量导入记录
// @Tags Import
// @Param shop_id query int true "店铺ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Router /admin/imports [get]
func (ctrl *ImportController) ListJobs(c *gin.Context) {
	shopID, err := strconv.ParseInt(c.Query("shop_id"), 10, 64)
	if err != nil || shopID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "无效的 shop_id"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	jobs, total, err := ctrl.ingest.ListJobs(c.Request.Context(), shopID, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "查询失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "jobs": jobs, "total": total})
}

// importErrorStatus 错误类别 -> HTTP 状态码
// 调用方错误一律 4xx，存储错误 5xx
func importErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrQuotaExceeded):
		return http.StatusPaymentRequired, err.Error()
	case errors.Is(err, service.ErrDuplicate),
		errors.Is(err, service.ErrSkipped),
		errors.Is(err, service.ErrFilteredOut),
		errors.Is(err, service.ErrInvalidRating):
		return http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrShopNotFound):
		return http.StatusNotFound, err.Error()
	default:
		return http.StatusInternalServerError, "服务内部错误: " + err.Error()
	}
}
