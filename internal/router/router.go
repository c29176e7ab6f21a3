package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"review_import_v1_202509/internal/controller"
	"review_import_v1_202509/internal/middleware"
)

// Controllers 控制器集合
type Controllers struct {
	Auth    *controller.AuthController
	Scrape  *controller.ScrapeController
	Import  *controller.ImportController
	Widget  *controller.WidgetController
	Product *controller.ProductController
	Shop    *controller.ShopController
}

// 抓取端点冷却间隔
const scrapeCooldown = 2 * time.Second

// SetupRouter 注册所有路由
func SetupRouter(ctrls *Controllers) *gin.Engine {
	r := gin.Default()
	limiter := middleware.NewScrapeRateLimiter()

	// 1. 公共 API（书签脚本注入层直接调用）
	api := r.Group("/api")
	{
		api.GET("/scrape", middleware.Cooldown(limiter, scrapeCooldown), ctrls.Scrape.Scrape)
		api.POST("/extract", ctrls.Scrape.Extract)
	}

	// 2. 管理端（JWT 保护）
	admin := r.Group("/admin")
	{
		admin.POST("/auth/login", ctrls.Auth.Login)

		authed := admin.Group("", middleware.JWTAuth())
		{
			reviews := authed.Group("/reviews")
			{
				reviews.GET("/import/url", middleware.Cooldown(limiter, scrapeCooldown), ctrls.Scrape.ScrapeForSession)
				reviews.POST("/skip", ctrls.Import.Skip)
				reviews.POST("/import/single", ctrls.Import.ImportSingle)
				reviews.POST("/import/bulk", ctrls.Import.ImportBulk)
				reviews.PUT("/:id/status", ctrls.Import.UpdateStatus)
			}

			authed.GET("/imports", ctrls.Import.ListJobs)

			products := authed.Group("/products")
			{
				products.GET("/search", ctrls.Product.Search)
				products.GET("/:id", ctrls.Product.Get)
			}

			shops := authed.Group("/shops")
			{
				shops.POST("/install", ctrls.Shop.Install)
				shops.POST("/uninstall", ctrls.Shop.Uninstall)
			}
		}
	}

	// 3. 店面 widget（公开，永不 5xx）
	widget := r.Group("/widget")
	{
		widget.GET("/:public_shop_id/reviews/:product_id", ctrls.Widget.RenderHTML)
		widget.GET("/:public_shop_id/reviews/:product_id/api", ctrls.Widget.GetJSON)
	}

	return r
}
