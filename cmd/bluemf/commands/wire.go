package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/wonny/bluemf/backend/internal/artifact"
	"github.com/wonny/bluemf/backend/internal/brain"
	"github.com/wonny/bluemf/backend/internal/external/bluemf"
	"github.com/wonny/bluemf/backend/internal/rules"
	"github.com/wonny/bluemf/backend/internal/s0_data"
	"github.com/wonny/bluemf/backend/internal/s3_persist"
	"github.com/wonny/bluemf/backend/pkg/config"
	"github.com/wonny/bluemf/backend/pkg/database"
	"github.com/wonny/bluemf/backend/pkg/httputil"
	"github.com/wonny/bluemf/backend/pkg/logger"
	"github.com/wonny/bluemf/backend/pkg/redis"
)

// cachePrefix namespaces every Redis key written by this service
const cachePrefix = "bluemf"

// app holds the wired pipeline and the connections it owns
type app struct {
	cfg          *config.Config
	log          *logger.Logger
	db           *database.DB
	redis        *redis.Client
	repository   *s3_persist.Repository
	orchestrator *brain.Orchestrator
}

// Close releases database and Redis connections
func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.WithError(err).Warn("Failed to close redis")
		}
	}
}

// buildApp wires config → clients → orchestrator.
// With needDB the command fails without DATABASE_URL; otherwise the
// database is connected only when configured.
func buildApp(ctx context.Context, needDB bool) (*app, error) {
	// 1. Load config
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if needDB {
		if err := cfg.RequireDatabase(); err != nil {
			return nil, err
		}
	}

	// 2. Initialize logger
	log := logger.New(cfg)
	a := &app{cfg: cfg, log: log}

	// 3. Load rules
	r, err := rules.Load(cfg.Pipeline.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}

	// 4. Connect to database (optional unless needDB)
	deps := brain.Dependencies{
		Store: artifact.NewStore(cfg.Pipeline.DataDir),
		Rules: r,
	}
	if cfg.Database.URL != "" {
		db, err := database.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.db = db
		a.repository = s3_persist.NewRepository(db.Pool, log)
		deps.Repository = a.repository
		deps.Companies = a.repository
		log.Info("Connected to database")
	}

	// 5. Connect to Redis (no-op client when disabled)
	rc, err := redis.New(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	a.redis = rc
	deps.Cache = redis.NewCache(rc, cachePrefix)

	// 6. Create provider client and identifier source
	httpClient := httputil.New(log, cfg.Provider.Timeout)
	deps.Fetcher = bluemf.NewClient(httpClient, cfg.Provider, log)
	deps.IDs = s0_data.NewXLSXIdentifierSource(filepath.Join(cfg.Pipeline.DataDir, cfg.Pipeline.CompanyIDsFile))

	// 7. Create orchestrator
	a.orchestrator = brain.NewOrchestrator(deps, brain.Options{
		FetchWorkers:   cfg.Pipeline.FetchWorkers,
		AnalyzeWorkers: cfg.Pipeline.AnalyzeWorkers,
		MinValidYears:  cfg.Pipeline.MinValidYears,
	}, log)

	return a, nil
}
