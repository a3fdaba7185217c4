package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pawpatrol/config"
	"github.com/oksasatya/pawpatrol/internal/container"
	"github.com/oksasatya/pawpatrol/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/pawpatrol/internal/infrastructure/postgres"
	"github.com/oksasatya/pawpatrol/internal/infrastructure/search"
	"github.com/oksasatya/pawpatrol/internal/router"
	"github.com/oksasatya/pawpatrol/pkg/helpers"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	ctx := context.Background()

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetJWT(helpers.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL))

	switch cfg.DBDriver {
	case "memory":
		logger.Warn("using in-memory store; data is lost on restart")
		container.SetMemoryStore(memory.NewStore())
	default:
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			logger.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			logger.Fatalf("migration failed: %v", err)
		}
		container.SetPGPool(pool)
	}

	if cfg.RedisAddr != "" {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer func() { _ = rdb.Close() }()
		container.SetRedis(rdb)
	}

	if cfg.GCSBucket != "" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
		container.SetGCS(gcsClient)
	} else {
		logger.Warn("GCS_BUCKET not set; media uploads are disabled")
	}

	es, err := helpers.NewESClient(helpers.ESOptions{
		Addrs:    cfg.ESAddrs(),
		Username: cfg.ElasticsearchUser,
		Password: cfg.ElasticsearchPass,
	})
	if err != nil {
		logger.Fatalf("failed to init elasticsearch client: %v", err)
	}
	if es != nil {
		idxCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := search.NewReportIndex(es, cfg.ESReportsIndex).EnsureIndex(idxCtx); err != nil {
			// nearby search falls back to PostGIS while the index is unavailable
			helpers.LogWarn(logger, "ensure report index failed", err, logrus.Fields{"index": cfg.ESReportsIndex})
		}
		cancel()
		container.SetES(es)
	}

	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQReportsQueue)
		if err != nil {
			helpers.LogWarn(logger, "rabbitmq unavailable; report events will not be published", err, nil)
		} else {
			defer pub.Close()
			container.SetRabbitPub(pub)
		}
	}

	r := router.NewEngine(cfg, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}
