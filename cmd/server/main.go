package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"

	"github.com/user/moviefinder/internal/appwrite"
	"github.com/user/moviefinder/internal/config"
	"github.com/user/moviefinder/internal/handler"
	"github.com/user/moviefinder/internal/logger"
	"github.com/user/moviefinder/internal/middleware"
	"github.com/user/moviefinder/internal/repository"
	"github.com/user/moviefinder/internal/router"
	"github.com/user/moviefinder/internal/service"
	"github.com/user/moviefinder/internal/session"
)

func main() {
	// 加载环境变量
	envErr := godotenv.Load()

	// 加载配置
	cfg := config.Load()

	// 初始化日志
	appLog := logger.New(cfg.Log)
	defer appLog.Close()
	log := appLog.Component("main")

	if envErr != nil {
		log.Info().Msg("未找到 .env 文件，使用系统环境变量")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("配置无效")
	}

	// 初始化热搜存储
	store, closeStore, err := newPopularityStore(cfg, appLog)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("热搜存储初始化失败")
	}
	defer closeStore()

	// 初始化服务
	tmdb := service.NewTMDBService(cfg.TMDB, appLog.Logger)
	popularity := service.NewPopularityService(store, cfg.TMDB.ImageBaseURL, appLog.Logger)
	registry := session.NewRegistry(tmdb, popularity, cfg, clockwork.NewRealClock(), appLog.Logger)

	// 初始化 Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// 启用 gzip，默认压缩级别
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 会话 Cookie 只保存会话 ID，状态在服务端
	cookieStore := cookie.NewStore([]byte(cfg.AppSecret))
	cookieStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("moviefinder", cookieStore))

	// 中间件
	r.Use(middleware.Logger(appLog.Logger))
	r.Use(middleware.Security())
	r.Use(middleware.CORS(cfg.CORSOrigin))

	// 注册路由
	h := handler.NewHandler(cfg, registry, appLog.Logger)
	router.RegisterRoutes(r, h)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// 在 goroutine 中启动服务器，这样我们就可以监听信号
	go func() {
		log.Info().Str("backend", cfg.Store.Backend).Msgf("服务器启动于 http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("服务器启动失败")
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("正在关闭服务器...")

	// 5 秒超时上下文用于关闭过程
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("服务器强制关闭")
	}

	// 取消所有会话中的请求和防抖计时器
	registry.Flush()

	log.Info().Msg("服务器已退出")
}

// newPopularityStore 按配置选择热搜存储后端，返回的 close 函数用于释放连接
func newPopularityStore(cfg *config.Config, appLog *logger.Logger) (service.PopularityStore, func(), error) {
	noop := func() {}

	switch cfg.Store.Backend {
	case config.StoreAppwrite:
		client := appwrite.NewClient(cfg.Appwrite, appLog.Logger)
		repo := repository.NewAppwritePopularityRepository(client, cfg.Appwrite.DatabaseID, cfg.Appwrite.CollectionID)
		return repo, noop, nil

	case config.StorePostgres:
		db, err := repository.InitDB(cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, noop, err
		}
		closeDB := func() {
			if err := sqlDB.Close(); err != nil {
				appLog.Error().Err(err).Msg("关闭数据库连接失败")
			}
		}
		return repository.NewPopularityRepository(db), closeDB, nil

	case config.StoreMemory:
		appLog.Warn().Msg("使用内存热搜存储，重启后数据丢失")
		return repository.NewMemoryPopularityRepository(), noop, nil
	}

	return nil, noop, fmt.Errorf("未知的存储后端: %s", cfg.Store.Backend)
}
