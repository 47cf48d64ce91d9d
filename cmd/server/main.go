package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/beat-marketplace/internal/config"     // Internal config loader
	"github.com/iliyamo/beat-marketplace/internal/database"   // MySQL pool construction
	"github.com/iliyamo/beat-marketplace/internal/handler"    // HTTP handlers
	"github.com/iliyamo/beat-marketplace/internal/middleware" // cache + rate limit middleware
	"github.com/iliyamo/beat-marketplace/internal/queue"      // purchase event consumer
	"github.com/iliyamo/beat-marketplace/internal/repository" // DB repositories
	"github.com/iliyamo/beat-marketplace/internal/router"     // route registration
	"github.com/iliyamo/beat-marketplace/internal/storage"    // MinIO blob store
)

func main() {
	// Load .env when present; real deployments set env vars directly.
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not loaded: %v", err)
	}

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	store, err := storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	if err != nil {
		log.Fatalf("minio: %v", err)
	}

	// Redis is optional: a nil client disables the response cache and the
	// rate limiter without affecting the rest of the API.
	rdb := config.NewRedisClient()

	// Repositories share the single *sql.DB pool.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	beats := repository.NewBeatRepo(db)
	purchases := repository.NewPurchaseRepo(db)
	projects := repository.NewProjectRepo(db)
	stats := repository.NewStatsRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	beatH := handler.NewBeatHandler(cfg, beats, users, store)
	purchaseH := handler.NewPurchaseHandler(db, beats, purchases, users)
	projectH := handler.NewProjectHandler(projects, beats, purchases)
	statsH := handler.NewStatsHandler(stats, beats, purchases, projects)
	userH := handler.NewUserHandler(users, stats)
	staticH := handler.NewStaticHandler(store)

	// Background consumer appends completed purchases to logs/purchases.log.
	go func() {
		if err := queue.StartPurchaseConsumer(); err != nil {
			log.Printf("purchase consumer stopped: %v", err)
		}
	}()

	e := echo.New()

	// Global token-bucket rate limiter; per-route response cache is handed
	// to the public routes only.
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, beatH, userH, staticH, cache)
	router.RegisterProducer(e, beatH, purchaseH, cfg.JWTSecret)
	router.RegisterArtist(e, purchaseH, projectH, cfg.JWTSecret)
	router.RegisterStats(e, statsH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
