// Command server runs the Tier 3 Loyalty & Discount Decision Engine: a POS
// sidecar that decides loyalty eligibility, age-verification gating, and
// per-line discounts for tobacco-category transactions. Grounded on
// order_service/main.go's initDatabase/initRedis/initHTTPServer/startServer
// wiring.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rtnapps/Loyalty-Program/internal/cache"
	"github.com/rtnapps/Loyalty-Program/internal/clock"
	"github.com/rtnapps/Loyalty-Program/internal/config"
	"github.com/rtnapps/Loyalty-Program/internal/database"
	"github.com/rtnapps/Loyalty-Program/internal/httpapi"
	"github.com/rtnapps/Loyalty-Program/internal/locking"
	"github.com/rtnapps/Loyalty-Program/internal/logging"
	"github.com/rtnapps/Loyalty-Program/internal/metrics"
	"github.com/rtnapps/Loyalty-Program/internal/pipeline"
	"github.com/rtnapps/Loyalty-Program/internal/repository"
)

var log = logging.GetLogger("main")

func main() {
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", "error", err)
	}

	db, err := initDatabase(cfg)
	if err != nil {
		log.Fatal("failed to initialize database", "error", err)
	}
	defer database.Close()

	redisClient := initRedis(cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	engine := initEngine(cfg, db, redisClient)

	server := initHTTPServer(cfg, engine)
	startServer(server, cfg)
}

func initDatabase(cfg *config.Config) (*database.Database, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database initialized successfully")
	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Error("failed to parse redis URL, using default", "error", err)
		opt = &redis.Options{Addr: "localhost:6379"}
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Error("failed to connect to redis, running without cache", "error", err)
		return nil
	}

	log.Info("redis initialized successfully")
	return client
}

func initEngine(cfg *config.Config, db *database.Database, redisClient *redis.Client) *pipeline.Engine {
	profiles := repository.NewProfileRepository(db.DB)
	dailyCounts := repository.NewDailyCountRepository(db.Raw)
	validationLog := repository.NewValidationLogRepository(db.DB)
	catalogRepo := repository.NewCatalogRepository(db.DB)
	allowanceRepo := repository.NewAllowanceRepository(db.DB)
	avtRepo := repository.NewAVTRepository(db.DB)
	transactionRepo := repository.NewTransactionRepository(db.DB)

	catalogCache := cache.NewCatalogCache(redisClient, cfg.Business.CatalogCacheTTL, catalogRepo, allowanceRepo)

	lidLocks := locking.NewKeyMutex()

	stage1 := pipeline.NewStage1(dailyCounts, profiles, validationLog, lidLocks)
	stage2 := pipeline.NewStage2(avtRepo)
	stage3 := pipeline.NewStage3(catalogCache)
	stage4 := pipeline.NewStage4(catalogCache)
	stage5 := pipeline.NewStage5()
	stage6 := pipeline.NewStage6(cfg.Business)
	stage7 := pipeline.NewStage7()

	m := metrics.NewPipelineMetrics()

	engine := pipeline.NewEngine(stage1, stage2, stage3, stage4, stage5, stage6, stage7, transactionRepo, m)

	log.Info("decision engine initialized successfully")
	return engine
}

func initHTTPServer(cfg *config.Config, engine *pipeline.Engine) *http.Server {
	controller := httpapi.NewRewardsController(engine, clock.System{})
	router := httpapi.NewRouter(cfg.Environment, controller)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("http server initialized", "port", cfg.ServerPort)
	return server
}

func startServer(server *http.Server, cfg *config.Config) {
	go func() {
		log.Info("starting http server", "port", cfg.ServerPort, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start http server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", "error", err)
	}

	log.Info("server shutdown complete")
}
