package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/rs/cors"

	"github.com/wahdanz1/taxipred/internal/cache"
	"github.com/wahdanz1/taxipred/internal/config"
	"github.com/wahdanz1/taxipred/internal/dataset"
	"github.com/wahdanz1/taxipred/internal/geo"
	"github.com/wahdanz1/taxipred/internal/handlers"
	"github.com/wahdanz1/taxipred/internal/logger"
	"github.com/wahdanz1/taxipred/internal/middleware"
	"github.com/wahdanz1/taxipred/internal/ml"
	"github.com/wahdanz1/taxipred/internal/monitoring"
	"github.com/wahdanz1/taxipred/internal/repository"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.App.Env, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// Cleaned dataset backing /taxi and /taxi/stats.
	table, err := dataset.ReadCSV(cfg.Data.CleanCSV)
	if err != nil {
		zlog.Fatalw("failed to load cleaned dataset", "path", cfg.Data.CleanCSV, "error", err)
	}
	zlog.Infow("loaded cleaned dataset", "rows", table.Len(), "columns", len(table.Columns()))

	// Serving model. The server can come up without one; /predict reports
	// 503 until an artifact exists.
	modelPath := filepath.Join(cfg.Data.ModelDir, "model.json")
	predictor, err := ml.NewPredictor(modelPath)
	if err != nil {
		zlog.Warnw("model artifact not loaded, predictions disabled", "path", modelPath, "error", err)
		predictor = nil
	} else {
		zlog.Infow("loaded model artifact", "model", predictor.ModelName(), "mae", predictor.Metrics().MAE)
	}

	metrics := monitoring.NewMetrics("taxipred")
	health := monitoring.NewHealthChecker()

	health.RegisterCheck("dataset", func(ctx context.Context) *monitoring.CheckResult {
		return monitoring.Up(map[string]interface{}{"rows": table.Len()})
	})
	health.RegisterCheck("model", func(ctx context.Context) *monitoring.CheckResult {
		if predictor == nil || !predictor.Ready() {
			return monitoring.Down(fmt.Errorf("model artifact not loaded"))
		}
		return monitoring.Up(map[string]interface{}{"model": predictor.ModelName()})
	})

	// Optional Redis cache for geocoding results.
	var geoCache *cache.GeoCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		geoCache = cache.NewGeoCache(rdb, cfg.Redis.TTL)
		health.RegisterCheck("redis", func(ctx context.Context) *monitoring.CheckResult {
			if err := rdb.Ping(ctx).Err(); err != nil {
				return monitoring.Down(err)
			}
			return monitoring.Up(nil)
		})
		zlog.Infow("geocoding cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
	}

	// Optional Postgres prediction log.
	var predictionRepo *repository.PredictionRepository
	if cfg.DB.URL != "" {
		db, err := sql.Open("postgres", cfg.DB.URL)
		if err != nil {
			zlog.Fatalw("failed to open database", "error", err)
		}
		defer db.Close()

		predictionRepo = repository.NewPredictionRepository(db)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := predictionRepo.Migrate(ctx); err != nil {
			zlog.Fatalw("failed to migrate prediction log", "error", err)
		}
		cancel()

		health.RegisterCheck("database", func(ctx context.Context) *monitoring.CheckResult {
			if err := db.PingContext(ctx); err != nil {
				return monitoring.Down(err)
			}
			return monitoring.Up(nil)
		})
		zlog.Infow("prediction log enabled")
	}

	geoClient := geo.NewClient(cfg.Google.APIKey)

	taxiHandler := handlers.NewTaxiHandler(table)
	predictHandler := handlers.NewPredictHandler(predictor, predictionRepo, metrics, zlog)
	geoHandler := handlers.NewGeoHandler(geoClient, geoCache, metrics, zlog)
	modelHandler := handlers.NewModelHandler(predictor)

	router := mux.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery(zlog))
	router.Use(middleware.Logging(zlog))
	router.Use(middleware.Metrics(metrics))
	router.Use(middleware.SecureHeaders)
	router.Use(middleware.NewRateLimiter(cfg.App.RateLimitRPS, cfg.App.RateLimitBurst).Middleware)
	router.Use(middleware.MaxBodySize(1 << 20))
	router.Use(middleware.ContentTypeJSON)

	router.HandleFunc("/taxi", taxiHandler.GetDataset).Methods(http.MethodGet)
	router.HandleFunc("/taxi/stats", taxiHandler.GetStats).Methods(http.MethodGet)
	router.HandleFunc("/predict", predictHandler.Predict).Methods(http.MethodPost)
	router.HandleFunc("/suggestion", geoHandler.Suggest).Methods(http.MethodPost)
	router.HandleFunc("/distance", geoHandler.Distance).Methods(http.MethodPost)
	router.HandleFunc("/model/metrics", modelHandler.GetMetrics).Methods(http.MethodGet)
	router.HandleFunc("/model/importance", modelHandler.GetFeatureImportance).Methods(http.MethodGet)
	router.Handle("/health", health.Handler()).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	handler := cors.New(cors.Options{
		AllowedOrigins: cfg.App.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
	}).Handler(router)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zlog.Infow("server starting", "port", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Infow("server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Fatalw("forced shutdown", "error", err)
	}
	zlog.Infow("server stopped")
}
