package main

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-goals/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/kanso-goals/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-goals/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-goals/internal/config"
	"github.com/comitanigiacomo/kanso-goals/internal/core/domain"
	"github.com/comitanigiacomo/kanso-goals/internal/core/services"
	"github.com/comitanigiacomo/kanso-goals/internal/core/undo"
)

type app struct {
	router *gin.Engine
	db     *sqlx.DB
	redis  *redis.Client
	undo   *undo.Registry
}

func (a *app) Close() {
	a.undo.Close()
	if a.redis != nil {
		a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

func newApp(cfg *config.Config, log *zap.Logger) (*app, error) {
	a := &app{}

	var goalRepo domain.GoalRepository
	if cfg.DB.Driver == "memory" {
		log.Warn("using in-memory goal store, data is lost on restart")
		goalRepo = repository.NewInMemoryGoalRepository()
	} else {
		db, err := repository.OpenDB(cfg.DB.Driver, cfg.DB.DSN())
		if err != nil {
			return nil, err
		}
		a.db = db

		if err := repository.RunMigrations(db.DB, cfg.DB.Driver); err != nil {
			db.Close()
			return nil, err
		}
		log.Info("database ready", zap.String("driver", cfg.DB.Driver))
		goalRepo = repository.NewSQLGoalRepository(db)
	}

	var prefStore domain.PreferenceStore = repository.NewInMemoryPreferenceStore()
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			if a.db != nil {
				a.db.Close()
			}
			return nil, fmt.Errorf("redis: %w", err)
		}
		a.redis = rdb
		log.Info("redis connected", zap.String("addr", cfg.Redis.Addr()))

		goalRepo = repository.NewCachedGoalRepository(goalRepo, rdb, cfg.CacheTTL, log.Named("cache"))
		prefStore = repository.NewRedisPreferenceStore(rdb)
	}

	a.undo = undo.NewRegistry(log.Named("undo"))

	prefService := services.NewPreferenceService(prefStore)
	goalService := services.NewGoalService(goalRepo, prefService, a.undo, services.UndoTTL{
		Edit:   cfg.UndoEditTTL,
		Delete: cfg.UndoDeleteTTL,
	})
	statsService := services.NewStatsService(goalRepo)

	a.router = adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		GoalHandler:       adapterHTTP.NewGoalHandler(goalService),
		PreferenceHandler: adapterHTTP.NewPreferenceHandler(prefService),
		StatsHandler:      adapterHTTP.NewStatsHandler(statsService),
		DB:                a.db,
		Redis:             a.redis,
		Logger:            log,
		RateLimit:         cfg.RateLimit,
		RateLimitWindow:   cfg.RateLimitWindow,
		CORSOrigins:       cfg.CORSOrigins,
		SwaggerEnabled:    cfg.SwaggerEnabled,
		StartTime:         time.Now(),
	})

	return a, nil
}
