package brain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/bluemf/backend/internal/artifact"
	"github.com/wonny/bluemf/backend/internal/contracts"
	"github.com/wonny/bluemf/backend/internal/rules"
	"github.com/wonny/bluemf/backend/internal/s0_data/collector"
	"github.com/wonny/bluemf/backend/internal/s1_preprocess"
	"github.com/wonny/bluemf/backend/internal/s2_analysis"
	"github.com/wonny/bluemf/backend/pkg/logger"
	"github.com/wonny/bluemf/backend/pkg/redis"
)

// Read-side errors
var (
	ErrAnalysisNotFound = errors.New("analysis data not found")
	ErrCompanyNotFound  = errors.New("company not found in analysis data")
	ErrNoDatabase       = errors.New("database is not configured")
)

// Dependencies are the collaborators of the orchestrator.
// IDs, Fetcher, Repository, Companies and Cache may be nil; the stages that
// need a missing collaborator report an error envelope.
type Dependencies struct {
	Store      *artifact.Store
	Rules      *rules.Rules
	IDs        contracts.IdentifierSource
	Fetcher    contracts.CompanyFetcher
	Repository contracts.AnalysisRepository
	Companies  contracts.CompanyReader
	Cache      *redis.Cache
}

// Options tune stage behavior
type Options struct {
	FetchWorkers   int
	AnalyzeWorkers int
	MinValidYears  int
}

// Orchestrator coordinates the fetch → preprocess → analyze → store pipeline
// ⭐ SSOT: 파이프라인 조율은 여기서만
type Orchestrator struct {
	store        *artifact.Store
	ids          contracts.IdentifierSource
	repository   contracts.AnalysisRepository
	companies    contracts.CompanyReader
	cache        *redis.Cache
	collector    *collector.Collector
	preprocessor *s1_preprocess.Preprocessor
	analyzer     *s2_analysis.Analyzer

	opts   Options
	logger *logger.Logger
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(deps Dependencies, opts Options, log *logger.Logger) *Orchestrator {
	r := deps.Rules
	if r == nil {
		r = rules.Default()
	}

	o := &Orchestrator{
		store:        deps.Store,
		ids:          deps.IDs,
		repository:   deps.Repository,
		companies:    deps.Companies,
		cache:        deps.Cache,
		preprocessor: s1_preprocess.NewPreprocessor(r, opts.MinValidYears, log),
		analyzer:     s2_analysis.NewAnalyzer(r, opts.AnalyzeWorkers, log),
		opts:         opts,
		logger:       log.WithComponent("orchestrator"),
	}
	if deps.Fetcher != nil {
		o.collector = collector.NewCollector(deps.Fetcher, log)
	}

	o.logger.WithFields(map[string]interface{}{
		"rules_hash":     r.Hash(),
		"synonym_groups": r.SynonymCount(),
	}).Debug("Orchestrator initialized")
	return o
}

// RefreshResult holds the outcome of a full pipeline run
type RefreshResult struct {
	RunID    string                  `json:"run_id"`
	Stages   []contracts.StageResult `json:"stages"`
	Duration time.Duration           `json:"duration"`
}

// OK reports whether every stage succeeded
func (r RefreshResult) OK() bool {
	if len(r.Stages) == 0 {
		return false
	}
	for _, s := range r.Stages {
		if !s.OK() {
			return false
		}
	}
	return true
}

// Refresh runs Fetch → Preprocess → AnalyzeAndStore, stopping at the first failing stage
func (o *Orchestrator) Refresh(ctx context.Context) RefreshResult {
	start := time.Now()
	runID := newRunID()
	result := RefreshResult{RunID: runID}

	o.logger.WithField("run_id", runID).Info("Starting pipeline refresh")

	stages := []func(context.Context, string) contracts.StageResult{
		o.fetch,
		o.preprocess,
		o.analyzeAndStore,
	}
	for _, stage := range stages {
		res := stage(ctx, runID)
		result.Stages = append(result.Stages, res)
		if !res.OK() {
			break
		}
	}

	result.Duration = time.Since(start)
	o.logger.WithFields(map[string]interface{}{
		"run_id":   runID,
		"ok":       result.OK(),
		"stages":   len(result.Stages),
		"duration": result.Duration.Seconds(),
	}).Info("Pipeline refresh finished")

	return result
}

func newRunID() string {
	return uuid.New().String()
}

func (o *Orchestrator) stageLogger(stage contracts.Stage, runID string) *logger.Logger {
	return o.logger.WithFields(map[string]interface{}{
		"stage":  stage.String(),
		"run_id": runID,
	})
}

// finish stamps the run id on an envelope and logs it
func finish(log *logger.Logger, runID string, res contracts.StageResult) contracts.StageResult {
	res.RunID = runID
	if res.OK() {
		log.WithField("message", res.Message).Info("Stage completed")
	} else {
		log.WithField("message", res.Message).Warn("Stage failed")
	}
	return res
}
