package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config 应用配置，全部来自环境变量
// 敏感项无默认值，缺失即空
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Marketplace MarketplaceConfig
	Shopify     ShopifyConfig
	Admin       AdminConfig
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Port      string
	WidgetURL string // 管理端 widget 基础地址
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	DSN string
}

// MarketplaceConfig 市场端点配置
type MarketplaceConfig struct {
	FeedbackURL    string
	ProductPageURL string
	ProxyEndpoint  string // 兜底代理端点，空则禁用
	ProxyToken     string // 兜底端点预共享标识
	Timeout        time.Duration
}

// ShopifyConfig 平台侧配置
type ShopifyConfig struct {
	APIKey     string
	APISecret  string
	APIVersion string
}

// AdminConfig 管理端登录配置
type AdminConfig struct {
	Username  string
	Password  string
	JWTSecret string
}

// Load 读取配置；.env 存在则先加载（本地开发用）
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("已加载 .env 文件")
	}

	return &Config{
		Server: ServerConfig{
			Port:      getEnv("SERVER_PORT", "8080"),
			WidgetURL: getEnv("WIDGET_BASE_URL", ""),
		},
		Database: DatabaseConfig{
			DSN: getEnv("DATABASE_DSN", ""),
		},
		Marketplace: MarketplaceConfig{
			FeedbackURL:    getEnv("ALIEXPRESS_FEEDBACK_URL", "https://feedback.aliexpress.com/pc/searchEvaluation.do"),
			ProductPageURL: getEnv("ALIEXPRESS_PRODUCT_URL", "https://www.aliexpress.com/item/%s.html"),
			ProxyEndpoint:  getEnv("SCRAPE_PROXY_ENDPOINT", ""),
			ProxyToken:     getEnv("SCRAPE_PROXY_TOKEN", ""),
			Timeout:        getDuration("SCRAPE_TIMEOUT", 15*time.Second),
		},
		Shopify: ShopifyConfig{
			APIKey:     getEnv("SHOPIFY_API_KEY", ""),
			APISecret:  getEnv("SHOPIFY_API_SECRET", ""),
			APIVersion: getEnv("SHOPIFY_API_VERSION", "2024-10"),
		},
		Admin: AdminConfig{
			Username:  getEnv("ADMIN_USERNAME", ""),
			Password:  getEnv("ADMIN_PASSWORD", ""),
			JWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
		},
	}
}

// ==================== 工具函数 ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
