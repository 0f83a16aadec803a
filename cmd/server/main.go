package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"riddleward/internal/config"
	cronrunner "riddleward/internal/cron"
	"riddleward/internal/db"
	"riddleward/internal/handler"
	"riddleward/internal/logger"
	"riddleward/internal/metrics"
	gormrepository "riddleward/internal/repository/gorm"
	"riddleward/internal/service"
	"riddleward/internal/wallet"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("RW_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("RW_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	assetLookup := initAssetLookup(cfg.Wallet, logger)

	rotationSvc := &service.RotationService{Repo: store, Logger: logger}
	answerSvc := &service.AnswerService{Repo: store, Logger: logger}
	rewardSvc := &service.RewardService{
		Repo:   store,
		Assets: assetLookup,
		Config: cfg.Reward,
		Logger: logger,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New("api")
		engine.Use(m.GinMiddleware())
		engine.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	riddleHandler := &handler.RiddleHandler{
		Rotator: rotationSvc,
		Checker: answerSvc,
		Repo:    store,
		Logger:  logger,
	}
	riddleHandler.Register(engine)
	rewardHandler := &handler.RewardHandler{
		Rewards: rewardSvc,
		Repo:    store,
		Logger:  logger,
	}
	rewardHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled {
		reporter := &service.OpsReporter{Repo: store, Logger: logger}
		if _, err := cronRunner.Add(cfg.Cron.AbuseReport, func(ctx context.Context) {
			if err := reporter.Report(ctx); err != nil {
				logger.Warn("abuse report failed", zap.Error(err))
			}
		}); err != nil {
			logger.Warn("cron register abuse report failed", zap.Error(err))
		}

		if m != nil {
			if _, err := cronRunner.Add(cfg.Cron.PoolStats, func(context.Context) {
				m.UpdateDBPoolStats(dbConn.SQL.Stats())
			}); err != nil {
				logger.Warn("cron register pool stats failed", zap.Error(err))
			}
		}

		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func initAssetLookup(cfg config.WalletConfig, logger *zap.Logger) wallet.Lookup {
	if strings.EqualFold(cfg.Mode, "http") && strings.TrimSpace(cfg.BaseURL) != "" {
		httpClient := &http.Client{Timeout: cfg.Timeout}
		return wallet.NewClient(httpClient, cfg.BaseURL, cfg.APIKey)
	}
	if strings.EqualFold(cfg.Mode, "http") && logger != nil {
		logger.Warn("wallet lookup mode is http but base_url is empty, falling back to static")
	}
	return wallet.NewStaticLookup(cfg.Static)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
