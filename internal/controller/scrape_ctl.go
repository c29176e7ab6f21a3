package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"review_import_v1_202509/internal/api/dto"
	"review_import_v1_202509/internal/service"
)

// ScrapeController 抓取入口
type ScrapeController struct {
	orchestrator *service.OrchestratorService
	extractor    *service.ExtractorService
	scorer       *service.ScorerService
}

// NewScrapeController 创建抓取控制器
func NewScrapeController(orchestrator *service.OrchestratorService, extractor *service.ExtractorService, scorer *service.ScorerService) *ScrapeController {
	return &ScrapeController{
		orchestrator: orchestrator,
		extractor:    extractor,
		scorer:       scorer,
	}
}

// Scrape 运行回退抓取链
// @Summary 抓取市场商品评论
// @Tags Scrape
// @Param productId query string true "市场侧商品ID"
// @Param sellerId query string false "市场侧卖家ID"
// @Param page query int false "页码" default(1)
// @Param per_page query int false "每页数量" default(20)
// @Success 200 {object} dto.ScrapeResp
// @Router /api/scrape [get]
func (ctrl *ScrapeController) Scrape(c *gin.Context) {
	productID := c.Query("productId")
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "productId 不能为空"})
		return
	}

	sellerID := c.Query("sellerId")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	result := ctrl.orchestrator.Scrape(c.Request.Context(), productID, sellerID, page, perPage)

	c.JSON(http.StatusOK, dto.ScrapeResp{
		Success: true,
		Reviews: result.Reviews,
		Total:   result.Stats.Total,
		Stats:   result.Stats,
		Stage:   result.Stage,
		Pagination: dto.Pagination{
			CurrentPage: page,
			PerPage:     perPage,
			HasMore:     len(result.Reviews) >= perPage,
		},
	})
}

// ScrapeForSession 会话内抓取（书签脚本走这里，回显 session_id）
// @Summary 会话内抓取市场评论
// @Tags Scrape
// @Param productId query string true "市场侧商品ID"
// @Param platform query string false "来源平台" default(aliexpress)
// @Param id query string false "会话标识"
// @Success 200 {object} dto.ScrapeResp
// @Router /admin/reviews/import/url [get]
func (ctrl *ScrapeController) ScrapeForSession(c *gin.Context) {
	productID := c.Query("productId")
	if productID == "" {
		// 允许直接贴商品 URL
		if raw := c.Query("url"); raw != "" {
			identity, err := ctrl.extractor.ExtractFromURL(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			productID = identity.ProductID
		}
	}
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "productId 不能为空"})
		return
	}

	sellerID := c.Query("sellerId")
	sessionID := c.Query("id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	result := ctrl.orchestrator.Scrape(c.Request.Context(), productID, sellerID, page, perPage)

	c.JSON(http.StatusOK, dto.ScrapeResp{
		Success: true,
		Reviews: result.Reviews,
		Total:   result.Stats.Total,
		Stats:   result.Stats,
		Stage:   result.Stage,
		Pagination: dto.Pagination{
			CurrentPage: page,
			PerPage:     perPage,
			HasMore:     len(result.Reviews) >= perPage,
		},
		SessionID: sessionID,
	})
}

// Extract 从页面上下文提取商品/卖家标识
// @Summary 提取市场商品标识
// @Tags Scrape
// @Accept json
// @Success 200 {object} service.ExtractedIdentity
// @Router /api/extract [post]
func (ctrl *ScrapeController) Extract(c *gin.Context) {
	var page service.PageContext
	if err := c.ShouldBindJSON(&page); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "参数错误: " + err.Error()})
		return
	}

	identity, err := ctrl.extractor.Extract(&page)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": identity})
}
