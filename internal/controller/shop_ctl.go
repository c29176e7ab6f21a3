package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"review_import_v1_202509/internal/service"
)

// ShopController 店铺生命周期
type ShopController struct {
	shopSvc *service.ShopService
}

// NewShopController 创建店铺控制器
func NewShopController(shopSvc *service.ShopService) *ShopController {
	return &ShopController{shopSvc: shopSvc}
}

type installReq struct {
	Email       string `json:"email" binding:"required,email"`
	OwnerName   string `json:"owner_name"`
	Domain      string `json:"domain" binding:"required"`
	AccessToken string `json:"access_token" binding:"required"`
}

// Install 安装回调
// @Summary 安装店铺（幂等）
// @Tags Shop
// @Accept json
// @Router /admin/shops/install [post]
func (ctrl *ShopController) Install(c *gin.Context) {
	var req installReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "参数错误: " + err.Error()})
		return
	}

	shop, err := ctrl.shopSvc.Install(c.Request.Context(), req.Email, req.OwnerName, req.Domain, req.AccessToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"shop_id":        shop.ID,
		"public_shop_id": shop.PublicShopID,
		"plan":           shop.Plan,
		"review_limit":   shop.ReviewLimit,
	})
}

// Uninstall 卸载回调：只标记不删数据
// @Summary 卸载店铺
// @Tags Shop
// @Router /admin/shops/uninstall [post]
func (ctrl *ShopController) Uninstall(c *gin.Context) {
	var req struct {
		Domain string `json:"domain" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "参数错误: " + err.Error()})
		return
	}

	if err := ctrl.shopSvc.Uninstall(c.Request.Context(), req.Domain); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
