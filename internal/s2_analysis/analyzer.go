package s2_analysis

import (
	"context"
	"fmt"
	"sync"

	"github.com/wonny/bluemf/backend/internal/contracts"
	"github.com/wonny/bluemf/backend/internal/rules"
	"github.com/wonny/bluemf/backend/pkg/logger"
)

// Analyzer runs the engine over a whole collection with a worker pool.
// Companies are independent; one failing company never affects another.
type Analyzer struct {
	engine  *Engine
	workers int
	logger  *logger.Logger
}

// NewAnalyzer creates a batch analyzer. workers < 1 is treated as 1.
func NewAnalyzer(r *rules.Rules, workers int, log *logger.Logger) *Analyzer {
	if workers < 1 {
		workers = 1
	}
	return &Analyzer{
		engine:  NewEngine(r, log),
		workers: workers,
		logger:  log.WithComponent("analyzer"),
	}
}

// Engine exposes the single-company engine
func (a *Analyzer) Engine() *Engine {
	return a.engine
}

type analyzeJob struct {
	id  string
	rec contracts.CompanyRecord
}

// AnalyzeAll analyzes every company. The result has exactly one entry per input id.
func (a *Analyzer) AnalyzeAll(ctx context.Context, coll contracts.Collection) (contracts.AnalysisCollection, error) {
	a.logger.WithFields(map[string]interface{}{
		"companies": len(coll),
		"workers":   a.workers,
	}).Info("Starting financial analysis")

	jobCh := make(chan analyzeJob, len(coll))
	resultCh := make(chan contracts.AnalysisResult, len(coll))

	var wg sync.WaitGroup
	for i := 0; i < a.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				if ctx.Err() != nil {
					return
				}
				resultCh <- a.engine.AnalyzeCompany(job.id, job.rec)
			}
		}()
	}

	// 정렬된 순서로 투입 (로그 재현성)
	for _, id := range coll.IDs() {
		jobCh <- analyzeJob{id: id, rec: coll[id]}
	}
	close(jobCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make(contracts.AnalysisCollection, len(coll))
	for result := range resultCh {
		results[result.CompanyID] = result
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}

	counts := results.StatusCounts()
	a.logger.WithFields(map[string]interface{}{
		"total":             len(results),
		"success":           counts[contracts.StatusSuccess],
		"insufficient_data": counts[contracts.StatusInsufficientData],
		"error":             counts["error"],
	}).Info("Financial analysis completed")

	return results, nil
}
