package brain

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"github.com/wonny/bluemf/backend/internal/artifact"
	"github.com/wonny/bluemf/backend/internal/contracts"
	"github.com/wonny/bluemf/backend/internal/s0_data/collector"
	"github.com/wonny/bluemf/backend/pkg/redis"
)

// Envelope messages
const (
	msgNoCompanyIDs     = "No company IDs to process."
	msgRawMissing       = "Input file not found. Please run fetch-companies first."
	msgProcessedMissing = "Processed data not found. Please run preprocess-data first."
)

// Fetch downloads every listed company and writes the raw artifact
func (o *Orchestrator) Fetch(ctx context.Context) contracts.StageResult {
	return o.fetch(ctx, newRunID())
}

// Preprocess turns the raw artifact into the sanitized artifact
func (o *Orchestrator) Preprocess(ctx context.Context) contracts.StageResult {
	return o.preprocess(ctx, newRunID())
}

// Analyze computes metrics and insights from the sanitized artifact
func (o *Orchestrator) Analyze(ctx context.Context) contracts.StageResult {
	res, _ := o.analyze(ctx, newRunID())
	return res
}

// AnalyzeAndStore runs Analyze and persists the results in one transaction
func (o *Orchestrator) AnalyzeAndStore(ctx context.Context) contracts.StageResult {
	return o.analyzeAndStore(ctx, newRunID())
}

// === S0: Fetch ===

func (o *Orchestrator) fetch(ctx context.Context, runID string) contracts.StageResult {
	log := o.stageLogger(contracts.StageFetch, runID)
	log.Info("Running S0: Fetch")

	if o.ids == nil || o.collector == nil {
		return finish(log, runID, contracts.Failure(contracts.StageFetch, "Company data provider is not configured."))
	}

	ids, err := o.ids.CompanyIDs(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to read company IDs")
		return finish(log, runID, contracts.Failure(contracts.StageFetch, msgNoCompanyIDs))
	}
	if len(ids) == 0 {
		return finish(log, runID, contracts.Failure(contracts.StageFetch, msgNoCompanyIDs))
	}

	docs, summary, err := o.collector.CollectAll(ctx, ids, collector.Config{Workers: o.opts.FetchWorkers})
	if err != nil {
		return finish(log, runID, contracts.Failure(contracts.StageFetch, "Fetch failed: %v", err))
	}

	if err := o.store.WriteRaw(docs); err != nil {
		return finish(log, runID, contracts.Failure(contracts.StageFetch, "Failed to write raw data: %v", err))
	}

	res := contracts.Success(contracts.StageFetch, "Successfully retrieved data for %d companies.", len(docs))
	res.Summary = summary
	return finish(log, runID, res)
}

// === S1: Preprocess ===

func (o *Orchestrator) preprocess(ctx context.Context, runID string) (res contracts.StageResult) {
	log := o.stageLogger(contracts.StagePreprocess, runID)
	log.Info("Running S1: Preprocess")

	defer func() {
		if r := recover(); r != nil {
			res = finish(log, runID, contracts.Failure(contracts.StagePreprocess, "Preprocessing failed: %v", r))
		}
	}()

	raw, err := o.store.LoadRaw()
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			return finish(log, runID, contracts.Failure(contracts.StagePreprocess, msgRawMissing))
		}
		return finish(log, runID, contracts.Failure(contracts.StagePreprocess, "Failed to read input file: %v", err))
	}

	coll, undecodable := decodeRaw(raw)
	for _, id := range undecodable {
		log.WithField("company_id", id).Warn("Skipping company with undecodable raw document")
	}

	if err := ctx.Err(); err != nil {
		return finish(log, runID, contracts.Failure(contracts.StagePreprocess, "Preprocessing cancelled: %v", err))
	}

	out := o.preprocessor.Run(coll)
	if err := o.store.WriteSanitized(out.Sanitized); err != nil {
		return finish(log, runID, contracts.Failure(contracts.StagePreprocess, "Failed to write processed data: %v", err))
	}

	summary := out.Summary
	summary.Undecodable = undecodable

	res = contracts.Success(contracts.StagePreprocess, "Data preprocessing completed.")
	res.Summary = summary
	return finish(log, runID, res)
}

// decodeRaw decodes each company independently; failures are returned sorted
func decodeRaw(raw map[string]json.RawMessage) (contracts.Collection, []string) {
	coll := make(contracts.Collection, len(raw))
	var undecodable []string

	for id, doc := range raw {
		var rec contracts.CompanyRecord
		if err := json.Unmarshal(doc, &rec); err != nil {
			undecodable = append(undecodable, id)
			continue
		}
		coll[id] = rec
	}

	sort.Strings(undecodable)
	return coll, undecodable
}

// === S2: Analyze ===

func (o *Orchestrator) analyze(ctx context.Context, runID string) (res contracts.StageResult, results contracts.AnalysisCollection) {
	log := o.stageLogger(contracts.StageAnalyze, runID)
	log.Info("Running S2: Analyze")

	defer func() {
		if r := recover(); r != nil {
			res = finish(log, runID, contracts.Failure(contracts.StageAnalyze, "Analysis failed: %v", r))
			results = nil
		}
	}()

	coll, err := o.store.LoadSanitized()
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			return finish(log, runID, contracts.Failure(contracts.StageAnalyze, msgProcessedMissing)), nil
		}
		return finish(log, runID, contracts.Failure(contracts.StageAnalyze, "Failed to read processed data: %v", err)), nil
	}

	results, err = o.analyzer.AnalyzeAll(ctx, coll)
	if err != nil {
		return finish(log, runID, contracts.Failure(contracts.StageAnalyze, "Analysis failed: %v", err)), nil
	}

	if err := o.store.WriteAnalysis(results); err != nil {
		return finish(log, runID, contracts.Failure(contracts.StageAnalyze, "Failed to write analysis data: %v", err)), nil
	}
	o.invalidate(ctx, results)

	res = contracts.Success(contracts.StageAnalyze, "Data analysis completed.")
	res.Summary = contracts.AnalyzeSummary{
		Companies: len(results),
		Statuses:  results.StatusCounts(),
	}
	return finish(log, runID, res), results
}

// === S3: Store ===

func (o *Orchestrator) analyzeAndStore(ctx context.Context, runID string) contracts.StageResult {
	analyzed, results := o.analyze(ctx, runID)
	if !analyzed.OK() {
		return analyzed
	}

	log := o.stageLogger(contracts.StageStore, runID)
	log.Info("Running S3: Store")

	if o.repository == nil {
		return finish(log, runID, contracts.Failure(contracts.StageStore, "Error storing data in database: %v", ErrNoDatabase))
	}

	if err := o.repository.SaveAnalyses(ctx, results); err != nil {
		return finish(log, runID, contracts.Failure(contracts.StageStore, "Error storing data in database: %v", err))
	}

	// 저장된 회사 목록이 바뀌었으므로 다시 무효화
	o.invalidate(ctx, results)

	res := contracts.Success(contracts.StageStore, "Data analyzed and stored in database successfully")
	res.Summary = analyzed.Summary
	return finish(log, runID, res)
}

// invalidate drops cached read views of the analyzed companies and the listing
func (o *Orchestrator) invalidate(ctx context.Context, results contracts.AnalysisCollection) {
	if !o.cache.Enabled() {
		return
	}

	keys := []string{redis.CompanyListKey()}
	for _, id := range results.IDs() {
		keys = append(keys, redis.AnalysisKey(id))
	}
	if err := o.cache.Delete(ctx, keys...); err != nil {
		o.logger.WithError(err).Warn("Failed to invalidate analysis cache")
	}
}

// Describe reports which artifacts are present, for status output
func (o *Orchestrator) Describe() map[string]bool {
	return map[string]bool{
		artifact.RawFile:       o.store.Exists(artifact.RawFile),
		artifact.ProcessedFile: o.store.Exists(artifact.ProcessedFile),
		artifact.AnalysisFile:  o.store.Exists(artifact.AnalysisFile),
	}
}
