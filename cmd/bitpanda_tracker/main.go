package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"bitpanda_tracker/internal/client"
	"bitpanda_tracker/internal/config"
	"bitpanda_tracker/internal/infrastructure/restapi"
	"bitpanda_tracker/internal/service"
	"bitpanda_tracker/internal/utils"
	"bitpanda_tracker/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
)

func main() {
	// logrus carries the config-loading phase; zap is the service logger.
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync()

	// Bridge slog consumers onto the same zap core.
	slogHandler := zapslog.NewHandler(zapLogger.Core(), &zapslog.HandlerOptions{})
	slog.SetDefault(slog.New(slogHandler))

	// Load configuration
	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Warnf("Invalid log level in config: %s. Defaulting to Info.", cfg.Logging.Level)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	if cfg.Logging.File != "" {
		file, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			log.SetOutput(file)
		} else {
			log.Infof("Failed to log to file, using default stdout: %v", err)
		}
	}

	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	// Initialize Prometheus metrics
	metrics.MustRegisterMetrics()
	metrics.TrackedWallets.Set(float64(len(cfg.Tracker.TrackedWallets)))

	// Initialize Bitpanda client
	requestTimeout := time.Duration(cfg.Bitpanda.RequestTimeoutMillis) * time.Millisecond
	bitpandaClient := client.NewBitpandaClient(
		cfg.Bitpanda.BaseURL,
		cfg.Bitpanda.APIKey,
		requestTimeout,
		cfg.Bitpanda.RateLimit,
		cfg.Bitpanda.BurstLimit,
		zapLogger,
	)
	zapLogger.Info("Bitpanda client initialized", zap.String("baseURL", cfg.Bitpanda.BaseURL))

	// Initialize services
	tickerSvc := service.NewTickerService(zapLogger, bitpandaClient)
	walletSvc := service.NewWalletService(zapLogger, bitpandaClient)
	valuationSvc := service.NewValuationService(zapLogger, tickerSvc, walletSvc)
	refreshSvc := service.NewRefreshService(
		zapLogger,
		tickerSvc,
		walletSvc,
		time.Duration(cfg.Tracker.PriceUpdateSeconds)*time.Second,
		time.Duration(cfg.Tracker.WalletUpdateMinutes)*time.Minute,
	)

	// Fail-fast cold start: both cadences must fetch once before we serve.
	refreshCtx, cancelRefresh := context.WithCancel(context.Background())
	defer cancelRefresh()
	if err := refreshSvc.Start(refreshCtx); err != nil {
		zapLogger.Fatal("Initial data fetch failed, refusing to start", zap.Error(err))
	}
	zapLogger.Info("Refresh scheduler started")

	// Initialize Gin router
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true // Adjust for production
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.Use(utils.ZapLoggerMiddleware(zapLogger))
	router.Use(gin.Recovery())

	trackerHandler := restapi.NewTrackerHandler(valuationSvc, tickerSvc, refreshSvc, cfg)
	restapi.RegisterTrackerRoutes(router, trackerHandler)

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	zapLogger.Info("Prometheus metrics endpoint enabled", zap.String("path", "/metrics"))

	// Pprof endpoints (for debugging performance issues)
	pprofRouter := router.Group("/debug/pprof")
	{
		pprofRouter.GET("/", gin.WrapF(pprof.Index))
		pprofRouter.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		pprofRouter.GET("/profile", gin.WrapF(pprof.Profile))
		pprofRouter.GET("/symbol", gin.WrapF(pprof.Symbol))
		pprofRouter.GET("/trace", gin.WrapF(pprof.Trace))
		pprofRouter.GET("/heap", gin.WrapH(pprof.Handler("heap")))
		pprofRouter.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
	}

	// Start server
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on port %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	// Stop the refresh loops first so no snapshot is applied mid-shutdown.
	cancelRefresh()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}
