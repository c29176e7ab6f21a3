package controller

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"review_import_v1_202509/internal/api/dto"
	"review_import_v1_202509/internal/config"
	"review_import_v1_202509/internal/middleware"
)

// AuthController 管理端登录
type AuthController struct {
	cfg *config.AdminConfig
}

// NewAuthController 创建鉴权控制器
func NewAuthController(cfg *config.AdminConfig) *AuthController {
	return &AuthController{cfg: cfg}
}

// Login 管理端登录，校验配置的用户名/密码后签发 JWT
// @Summary 管理端登录
// @Tags Auth
// @Accept json
// @Param body body dto.LoginReq true "登录参数"
// @Router /admin/auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "参数错误: " + err.Error()})
		return
	}

	if ctrl.cfg.Username == "" || ctrl.cfg.Password == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "管理端账号未配置"})
		return
	}

	// 常数时间比较，避免时序侧信道
	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(ctrl.cfg.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(ctrl.cfg.Password)) == 1
	if !userOK || !passOK {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "用户名或密码错误"})
		return
	}

	token, err := middleware.GenerateAdminToken(req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "签发凭证失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}
