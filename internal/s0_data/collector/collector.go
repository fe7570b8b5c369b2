package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/bluemf/backend/internal/contracts"
	"github.com/wonny/bluemf/backend/pkg/logger"
)

// Config controls collection concurrency
type Config struct {
	Workers int
}

// Collector downloads the raw document of every company
// ⭐ SSOT: S0 원본 수집은 여기서만
type Collector struct {
	fetcher contracts.CompanyFetcher
	logger  *logger.Logger
}

// NewCollector creates a collector over a provider client
func NewCollector(fetcher contracts.CompanyFetcher, log *logger.Logger) *Collector {
	return &Collector{
		fetcher: fetcher,
		logger:  log.WithComponent("collector"),
	}
}

// FetchResult is the outcome of one company download
type FetchResult struct {
	CompanyID string
	Error     error
}

// CollectAll fetches every id with at most cfg.Workers requests in flight.
// Failed companies are logged and left out of the returned map; only context
// cancellation fails the whole collection.
func (c *Collector) CollectAll(ctx context.Context, ids []string, cfg Config) (map[string]json.RawMessage, contracts.FetchSummary, error) {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	c.logger.WithFields(map[string]interface{}{
		"companies": len(ids),
		"workers":   workers,
	}).Info("Starting company data collection")

	var (
		mu      sync.Mutex
		docs    = make(map[string]json.RawMessage, len(ids))
		results = make([]FetchResult, 0, len(ids))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			doc, err := c.fetcher.FetchCompany(gctx, id)

			mu.Lock()
			defer mu.Unlock()
			results = append(results, FetchResult{CompanyID: id, Error: err})

			if err != nil {
				c.logger.WithError(err).WithField("company_id", id).Error("Failed to fetch company data")
				return nil // 개별 실패는 배치를 중단하지 않음
			}

			docs[id] = doc
			c.logger.WithField("company_id", id).Debug("Fetched company data")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, contracts.FetchSummary{}, fmt.Errorf("collection cancelled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, contracts.FetchSummary{}, fmt.Errorf("collection cancelled: %w", err)
	}

	summary := contracts.FetchSummary{Requested: len(ids)}
	for _, r := range results {
		if r.Error != nil {
			summary.Failed = append(summary.Failed, r.CompanyID)
		}
	}
	sort.Strings(summary.Failed)
	summary.Fetched = len(docs)

	c.logger.WithFields(map[string]interface{}{
		"success": summary.Fetched,
		"failed":  len(summary.Failed),
		"total":   summary.Requested,
	}).Info("Company data collection completed")

	return docs, summary, nil
}
