package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"review_import_v1_202509/internal/config"
	"review_import_v1_202509/internal/controller"
	"review_import_v1_202509/internal/middleware"
	"review_import_v1_202509/internal/model"
	"review_import_v1_202509/internal/repository"
	"review_import_v1_202509/internal/router"
	"review_import_v1_202509/internal/service"
	"review_import_v1_202509/internal/task"
	"review_import_v1_202509/pkg/database"
)

func main() {
	// 1. 加载配置
	cfg := config.Load()

	// 2. 初始化数据库
	db := initDatabase(cfg)

	// 3. 初始化依赖
	deps := initDependencies(cfg, db)

	// 4. 启动定时任务
	initTasks(deps)

	// 5. 初始化路由并启动服务
	r := router.SetupRouter(deps.Controllers)
	startServer(cfg, r)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
}

// Repositories 仓库集合
type Repositories struct {
	Owner   repository.ShopOwnerRepository
	Shop    repository.ShopRepository
	Product repository.ProductRepository
	Review  repository.ReviewRepository
	Import  repository.ImportJobRepository
}

// Services 服务集合
type Services struct {
	Extractor    *service.ExtractorService
	Marketplace  *service.MarketplaceService
	Parser       *service.ParserService
	Scorer       *service.ScorerService
	Orchestrator *service.OrchestratorService
	Skips        *service.SkipRegistry
	Ingest       *service.IngestService
	Query        *service.QueryService
	Shop         *service.ShopService
	Shopify      *service.ShopifyService
}

func initDatabase(cfg *config.Config) *gorm.DB {
	if cfg.Database.DSN == "" {
		log.Fatal("缺少 DATABASE_DSN 配置")
	}
	return database.InitDB(cfg.Database.DSN,
		&model.ShopOwner{},
		&model.Shop{},
		&model.Product{},
		&model.Review{},
		&model.ReviewMedia{},
		&model.ImportJob{},
	)
}

// initDependencies 组装全部依赖
func initDependencies(cfg *config.Config, db *gorm.DB) *Dependencies {
	// -------- 仓库层 --------
	repos := &Repositories{
		Owner:   repository.NewShopOwnerRepository(db),
		Shop:    repository.NewShopRepository(db),
		Product: repository.NewProductRepository(db),
		Review:  repository.NewReviewRepository(db),
		Import:  repository.NewImportJobRepository(db),
	}

	// -------- 服务层 --------
	marketplaceSvc := service.NewMarketplaceService(&service.MarketplaceConfig{
		FeedbackURL:    cfg.Marketplace.FeedbackURL,
		ProductPageURL: cfg.Marketplace.ProductPageURL,
		ProxyEndpoint:  cfg.Marketplace.ProxyEndpoint,
		ProxyToken:     cfg.Marketplace.ProxyToken,
		Timeout:        cfg.Marketplace.Timeout,
	})
	parserSvc := service.NewParserService()
	scorerSvc := service.NewScorerService()
	skips := service.NewSkipRegistry()

	services := &Services{
		Extractor:    service.NewExtractorService(),
		Marketplace:  marketplaceSvc,
		Parser:       parserSvc,
		Scorer:       scorerSvc,
		Orchestrator: service.NewOrchestratorService(marketplaceSvc, parserSvc, scorerSvc),
		Skips:        skips,
		Ingest:       service.NewIngestService(repos.Shop, repos.Product, repos.Review, repos.Import, scorerSvc, skips),
		Query:        service.NewQueryService(repos.Shop, repos.Review),
		Shop:         service.NewShopService(repos.Shop, repos.Owner),
		Shopify:      service.NewShopifyService(&service.ShopifyConfig{APIVersion: cfg.Shopify.APIVersion}),
	}

	// -------- 中间件配置 --------
	if cfg.Admin.JWTSecret == "" {
		log.Fatal("缺少 ADMIN_JWT_SECRET 配置")
	}
	jwtCfg := middleware.DefaultJWTConfig()
	jwtCfg.SecretKey = cfg.Admin.JWTSecret
	middleware.SetJWTConfig(jwtCfg)

	// -------- 控制器层 --------
	controllers := &router.Controllers{
		Auth:    controller.NewAuthController(&cfg.Admin),
		Scrape:  controller.NewScrapeController(services.Orchestrator, services.Extractor, services.Scorer),
		Import:  controller.NewImportController(services.Ingest),
		Widget:  controller.NewWidgetController(services.Query),
		Product: controller.NewProductController(services.Shop, services.Shopify),
		Shop:    controller.NewShopController(services.Shop),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}
}

// ==================== 定时任务 ====================

func initTasks(deps *Dependencies) {
	maintenance := task.NewMaintenanceTask(deps.Repos.Shop, deps.Repos.Import)
	maintenance.Start()
}

// ==================== 服务启动 ====================

func startServer(cfg *config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}
