package brain

import (
	"context"
	"errors"
	"fmt"

	"github.com/wonny/bluemf/backend/internal/artifact"
	"github.com/wonny/bluemf/backend/internal/contracts"
	"github.com/wonny/bluemf/backend/internal/s3_persist"
	"github.com/wonny/bluemf/backend/pkg/redis"
)

// CompanyAnalysis returns one company's stored analysis merged with its
// company row. Without a row the view falls back to the analysis' own name.
func (o *Orchestrator) CompanyAnalysis(ctx context.Context, companyID string) (*contracts.CompanyAnalysisView, error) {
	var cached contracts.CompanyAnalysisView
	if hit, err := o.cache.Get(ctx, redis.AnalysisKey(companyID), &cached); err != nil {
		o.logger.WithError(err).Warn("Analysis cache read failed")
	} else if hit {
		return &cached, nil
	}

	results, err := o.store.LoadAnalysis()
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			return nil, ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("error reading analysis data: %w", err)
	}

	result, ok := results[companyID]
	if !ok {
		return nil, fmt.Errorf("company %s: %w", companyID, ErrCompanyNotFound)
	}

	company, err := o.companyRow(ctx, result)
	if err != nil {
		return nil, err
	}

	view := &contracts.CompanyAnalysisView{
		Company:  company,
		Analysis: result.Analysis,
		Pros:     nonNil(result.Pros),
		Cons:     nonNil(result.Cons),
		Status:   result.Status,
	}

	if err := o.cache.Set(ctx, redis.AnalysisKey(companyID), view, redis.TTLMedium); err != nil {
		o.logger.WithError(err).Warn("Analysis cache write failed")
	}
	return view, nil
}

func (o *Orchestrator) companyRow(ctx context.Context, result contracts.AnalysisResult) (contracts.CompanySummary, error) {
	fallback := contracts.CompanySummary{
		ID:          result.CompanyID,
		CompanyName: result.CompanyName,
	}
	if fallback.CompanyName == "" {
		fallback.CompanyName = result.CompanyID
	}

	if o.companies == nil {
		return fallback, nil
	}

	row, err := o.companies.GetCompany(ctx, result.CompanyID)
	if err != nil {
		if errors.Is(err, s3_persist.ErrCompanyNotFound) {
			return fallback, nil
		}
		return contracts.CompanySummary{}, fmt.Errorf("get company: %w", err)
	}
	return *row, nil
}

// ListCompanies returns the stored company rows
func (o *Orchestrator) ListCompanies(ctx context.Context) ([]contracts.CompanySummary, error) {
	if o.companies == nil {
		return nil, ErrNoDatabase
	}

	var cached []contracts.CompanySummary
	if hit, err := o.cache.Get(ctx, redis.CompanyListKey(), &cached); err != nil {
		o.logger.WithError(err).Warn("Company list cache read failed")
	} else if hit {
		return cached, nil
	}

	companies, err := o.companies.ListCompanies(ctx)
	if err != nil {
		return nil, err
	}

	if err := o.cache.Set(ctx, redis.CompanyListKey(), companies, redis.TTLShort); err != nil {
		o.logger.WithError(err).Warn("Company list cache write failed")
	}
	return companies, nil
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
