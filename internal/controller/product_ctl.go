package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"review_import_v1_202509/internal/service"
)

// ProductController 平台侧商品查询（书签脚本选目标商品用）
type ProductController struct {
	shopSvc    *service.ShopService
	shopifySvc *service.ShopifyService
}

// NewProductController 创建商品控制器
func NewProductController(shopSvc *service.ShopService, shopifySvc *service.ShopifyService) *ProductController {
	return &ProductController{shopSvc: shopSvc, shopifySvc: shopifySvc}
}

// Search 按关键词搜索店铺商品
// @Summary 搜索 Shopify 商品
// @Tags Product
// @Param shop_id query int true "店铺ID"
// @Param q query string true "标题关键词"
// @Router /admin/products/search [get]
func (ctrl *ProductController) Search(c *gin.Context) {
	shopID, err := strconv.ParseInt(c.Query("shop_id"), 10, 64)
	if err != nil || shopID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "无效的 shop_id"})
		return
	}
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "q 不能为空"})
		return
	}

	ctx := c.Request.Context()
	shop, err := ctrl.shopSvc.GetByID(ctx, shopID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
		return
	}

	products, err := ctrl.shopifySvc.SearchProducts(ctx, shop, query)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
}

// Get 按商品 ID 查询
// @Summary 查询单个 Shopify 商品
// @Tags Product
// @Param shop_id query int true "店铺ID"
// @Param id path string true "Shopify 商品ID"
// @Router /admin/products/{id} [get]
func (ctrl *ProductController) Get(c *gin.Context) {
	shopID, err := strconv.ParseInt(c.Query("shop_id"), 10, 64)
	if err != nil || shopID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "无效的 shop_id"})
		return
	}

	ctx := c.Request.Context()
	shop, err := ctrl.shopSvc.GetByID(ctx, shopID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
		return
	}

	product, err := ctrl.shopifySvc.GetProduct(ctx, shop, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
}
