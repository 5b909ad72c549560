package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/salon-scheduler/internal/db"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/salon-scheduler/internal/logging"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/routes"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

func main() {

	cfg := config.Load()
	logging.InitLogger("salon-scheduler", cfg.AppEnv)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, redisClient := buildDeps(ctx, cfg)

	r := gin.New()
	r.Use(gin.Recovery())
	routes.RegisterRoutes(r, cfg, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("storage", cfg.StorageDriver).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	deps.Audit.Close()
	if redisClient != nil {
		_ = redisClient.Close()
	}
}

func buildDeps(ctx context.Context, cfg *config.Config) (routes.Deps, *redis.Client) {
	deps := routes.Deps{Clock: timezone.SystemClock{}}

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db := dbpkg.NewDB(cfg)
		deps.DB = db
		deps.Repo = repository.NewGormRepository(db)
		deps.Audit = audit.NewDispatcher(audit.New(db))
	case config.StorageMemory:
		repo := repository.NewMemoryRepository()
		if cfg.IsDevelopment() {
			seedDemo(repo, cfg)
		}
		deps.Repo = repo
		deps.Audit = audit.NewDispatcher(audit.LogSink{})
	default:
		log.Fatal().Str("driver", cfg.StorageDriver).Msg("unknown STORAGE_DRIVER")
	}

	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err == nil {
			deps.SlotCache = cache.NewRedisSlotCache(client, cfg.SlotCacheTTL)
			deps.Plans = cache.NewRedisPlanStore(client, cfg.DayOffPlanTTL)
			return deps, client
		}
		log.Warn().Err(err).Msg("redis unavailable, using in-process caches")
	}

	deps.SlotCache = cache.NewMemorySlotCache(4096, cfg.SlotCacheTTL)
	deps.Plans = cache.NewMemoryPlanStore(cfg.DayOffPlanTTL)
	return deps, nil
}

// seedDemo gives the in-memory store a bookable provider. Owner tokens
// for it carry providerId 1.
func seedDemo(repo *repository.MemoryRepository, cfg *config.Config) {
	p := repo.AddProvider(models.Provider{
		ID:                  1,
		Name:                "Demo Salon",
		Slug:                "demo",
		Timezone:            cfg.DefaultTimezone,
		Currency:            "BRL",
		MinNoticeHours:      2,
		DefaultSlotInterval: 30,
	})
	repo.AddService(models.Service{
		ProviderID:  p.ID,
		Name:        "Corte",
		DurationMin: 30,
		Price:       decimal.NewFromInt(50),
		Active:      true,
	})
	repo.AddService(models.Service{
		ProviderID:  p.ID,
		Name:        "Coloração",
		DurationMin: 90,
		Price:       decimal.NewFromInt(180),
		Active:      true,
	})
	log.Info().Str("slug", p.Slug).Msg("seeded demo provider")
}
