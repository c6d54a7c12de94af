package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// 热搜存储后端
const (
	StoreAppwrite = "appwrite"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

const defaultAppSecret = "your-secret-key-change-in-production"

// Config 应用配置，启动时构造一次并以指针传给各组件
type Config struct {
	Env       string `validate:"required"`
	AppSecret string `validate:"required"`
	Port      string `validate:"required,numeric"`

	// 允许跨域的前端地址，"*" 表示任意
	CORSOrigin string

	TMDB     TMDBConfig
	Store    StoreConfig
	Appwrite AppwriteConfig
	Search   SearchConfig
	Log      LogConfig

	DatabaseURL string
	SessionTTL  time.Duration
}

// TMDBConfig 元数据接口配置
type TMDBConfig struct {
	BaseURL      string `validate:"required,url"`
	Token        string `validate:"required"`
	ImageBaseURL string `validate:"required,url"`
}

// StoreConfig 热搜存储配置
type StoreConfig struct {
	Backend string `validate:"oneof=appwrite postgres memory"`
}

// AppwriteConfig 文档数据库配置
type AppwriteConfig struct {
	Endpoint     string
	ProjectID    string
	DatabaseID   string
	CollectionID string
	APIKey       string
}

// SearchConfig 搜索相关参数
type SearchConfig struct {
	Debounce      time.Duration `validate:"gt=0"`
	TrendingLimit int           `validate:"gt=0"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string
	Format string `validate:"oneof=console json"`
	Path   string
}

// Load 加载配置
func Load() *Config {
	debounceMs, _ := strconv.Atoi(getEnv("SEARCH_DEBOUNCE_MS", "1000"))
	trendingLimit, _ := strconv.Atoi(getEnv("TRENDING_LIMIT", "5"))
	ttlMinutes, _ := strconv.Atoi(getEnv("SESSION_TTL_MINUTES", "30"))

	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "moviefinder")
	dbSSL := getEnv("DB_SSLMODE", "disable")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)

	appSecret := getEnv("APP_SECRET", defaultAppSecret)

	if getEnv("APP_ENV", "development") == "production" && appSecret == defaultAppSecret {
		fmt.Println("【严重警告】生产环境正在使用默认密钥！请立即设置 APP_SECRET 环境变量。")
	}

	return &Config{
		Env:        getEnv("APP_ENV", "development"),
		AppSecret:  appSecret,
		Port:       getEnv("PORT", "5005"),
		CORSOrigin: getEnv("CORS_ALLOWED_ORIGIN", ""),
		TMDB: TMDBConfig{
			BaseURL:      getEnv("TMDB_API_BASE_URL", "https://api.themoviedb.org/3"),
			Token:        getEnv("TMDB_API_TOKEN", getEnv("TMDB_API_KEY", "")),
			ImageBaseURL: getEnv("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p/w500"),
		},
		Store: StoreConfig{
			Backend: getEnv("STORE_BACKEND", StoreAppwrite),
		},
		Appwrite: AppwriteConfig{
			Endpoint:     getEnv("APPWRITE_ENDPOINT", ""),
			ProjectID:    getEnv("APPWRITE_PROJECT_ID", ""),
			DatabaseID:   getEnv("APPWRITE_DATABASE_ID", ""),
			CollectionID: getEnv("APPWRITE_TABLE_ID", getEnv("APPWRITE_COLLECTION_ID", "")),
			APIKey:       getEnv("APPWRITE_API_KEY", ""),
		},
		Search: SearchConfig{
			Debounce:      time.Duration(debounceMs) * time.Millisecond,
			TrendingLimit: trendingLimit,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
			Path:   getEnv("LOG_PATH", ""),
		},
		DatabaseURL: dbURL,
		SessionTTL:  time.Duration(ttlMinutes) * time.Minute,
	}
}

// Validate 校验配置；appwrite 后端需要完整的项目/库/集合信息
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}
	if c.Store.Backend == StoreAppwrite {
		a := c.Appwrite
		if a.Endpoint == "" || a.ProjectID == "" || a.DatabaseID == "" || a.CollectionID == "" {
			return fmt.Errorf("配置校验失败: appwrite 后端需要 APPWRITE_ENDPOINT/PROJECT_ID/DATABASE_ID/TABLE_ID")
		}
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("配置校验失败: SESSION_TTL_MINUTES 必须大于 0")
	}
	return nil
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
