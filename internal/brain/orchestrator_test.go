package brain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/bluemf/backend/internal/artifact"
	"github.com/wonny/bluemf/backend/internal/contracts"
	"github.com/wonny/bluemf/backend/internal/rules"
	"github.com/wonny/bluemf/backend/internal/s0_data"
	"github.com/wonny/bluemf/backend/internal/s3_persist"
	"github.com/wonny/bluemf/backend/pkg/logger"
	"github.com/wonny/bluemf/backend/pkg/redis"
)

// growingDoc is a provider document with five years of statements
func growingDoc(name string) string {
	return fmt.Sprintf(`{
		"company": {"name": %q, "ROE": "18.5%%", "website": "example.com"},
		"data": {
			"profitandloss": [
				{"revenue": "100", "PAT": "10"},
				{"revenue": "115", "PAT": "12"},
				{"revenue": "132.25", "PAT": "14.4"},
				{"revenue": "152.0875", "PAT": "17.28"},
				{"revenue": "174.900625", "PAT": "20.736", "div_payout": "35%%"}
			],
			"balancesheet": [
				{"debt": "0", "reserves_surplus": "1,000", "share_capital": "100"},
				{"debt": "0", "reserves_surplus": "1,000", "share_capital": "100"},
				{"debt": "0", "reserves_surplus": "1,000", "share_capital": "100"},
				{"debt": "0", "reserves_surplus": "1,000", "share_capital": "100"},
				{"debt": "0", "reserves_surplus": "1,000", "share_capital": "100"}
			]
		}
	}`, name)
}

type fakeFetcher struct {
	docs map[string]string
}

func (f *fakeFetcher) FetchCompany(_ context.Context, id string) (json.RawMessage, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, errors.New("unexpected status code: 404")
	}
	return json.RawMessage(doc), nil
}

type fakeRepo struct {
	saved     contracts.AnalysisCollection
	saveErr   error
	companies map[string]contracts.CompanySummary
}

func (r *fakeRepo) SaveAnalyses(_ context.Context, results contracts.AnalysisCollection) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = results
	return nil
}

func (r *fakeRepo) ListCompanies(context.Context) ([]contracts.CompanySummary, error) {
	out := []contracts.CompanySummary{}
	for _, c := range r.companies {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeRepo) GetCompany(_ context.Context, id string) (*contracts.CompanySummary, error) {
	c, ok := r.companies[id]
	if !ok {
		return nil, s3_persist.ErrCompanyNotFound
	}
	return &c, nil
}

func newTestOrchestrator(t *testing.T, ids []string, repo *fakeRepo) (*Orchestrator, *artifact.Store) {
	t.Helper()
	deps := newTestDeps(t, ids, repo)
	o := NewOrchestrator(deps, testOptions, logger.Nop())
	return o, deps.Store
}

var testOptions = Options{FetchWorkers: 2, AnalyzeWorkers: 2, MinValidYears: 5}

func newTestDeps(t *testing.T, ids []string, repo *fakeRepo) Dependencies {
	t.Helper()
	store := artifact.NewStore(t.TempDir())

	deps := Dependencies{
		Store: store,
		Rules: rules.Default(),
		IDs:   s0_data.StaticIdentifierSource(ids),
		Fetcher: &fakeFetcher{docs: map[string]string{
			"GROW": growingDoc("Growing Ltd"),
			"NAME": `{"company": {"website": "x"}, "data": {"profitandloss": []}}`,
		}},
	}
	if repo != nil {
		deps.Repository = repo
		deps.Companies = repo
	}
	return deps
}

// newTestCache starts an in-memory Redis server for the duration of the test
func newTestCache(t *testing.T) (*redis.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return redis.NewCache(redis.NewFromRedis(rdb), "bluemf"), mr
}

func TestFetch(t *testing.T) {
	o, store := newTestOrchestrator(t, []string{"GROW", "MISSING", "NAME"}, nil)

	res := o.Fetch(context.Background())
	require.True(t, res.OK(), res.Message)
	assert.Equal(t, "Successfully retrieved data for 2 companies.", res.Message)
	assert.Equal(t, contracts.StageFetch, res.Stage)
	assert.NotEmpty(t, res.RunID)

	summary, ok := res.Summary.(contracts.FetchSummary)
	require.True(t, ok)
	assert.Equal(t, []string{"MISSING"}, summary.Failed)

	raw, err := store.LoadRaw()
	require.NoError(t, err)
	assert.Len(t, raw, 2)
}

func TestFetchNoIDs(t *testing.T) {
	o, store := newTestOrchestrator(t, nil, nil)

	res := o.Fetch(context.Background())
	assert.False(t, res.OK())
	assert.Equal(t, "No company IDs to process.", res.Message)
	assert.False(t, store.Exists(artifact.RawFile))
}

func TestStageInputsMissing(t *testing.T) {
	o, store := newTestOrchestrator(t, nil, nil)

	pre := o.Preprocess(context.Background())
	assert.Equal(t, contracts.EnvelopeError, pre.Status)
	assert.Equal(t, "Input file not found. Please run fetch-companies first.", pre.Message)

	an := o.Analyze(context.Background())
	assert.Equal(t, contracts.EnvelopeError, an.Status)
	assert.Equal(t, "Processed data not found. Please run preprocess-data first.", an.Message)

	assert.False(t, store.Exists(artifact.ProcessedFile))
	assert.False(t, store.Exists(artifact.AnalysisFile))
}

func TestPreprocessUnreadableInput(t *testing.T) {
	o, store := newTestOrchestrator(t, nil, nil)

	require.NoError(t, store.WriteSanitized(contracts.Collection{}))
	before, err := os.ReadFile(store.Path(artifact.ProcessedFile))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), artifact.RawFile), []byte("{broken"), 0o644))

	res := o.Preprocess(context.Background())
	assert.False(t, res.OK())
	assert.Contains(t, res.Message, "Failed to read input file")

	after, err := os.ReadFile(store.Path(artifact.ProcessedFile))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestPreprocessSkipsUndecodableCompanies(t *testing.T) {
	o, store := newTestOrchestrator(t, nil, nil)

	require.NoError(t, store.WriteRaw(map[string]json.RawMessage{
		"GROW": json.RawMessage(growingDoc("Growing Ltd")),
		"ODD":  json.RawMessage(`["not", "an", "object"]`),
	}))

	res := o.Preprocess(context.Background())
	require.True(t, res.OK(), res.Message)

	summary, ok := res.Summary.(contracts.PreprocessSummary)
	require.True(t, ok)
	assert.Equal(t, []string{"ODD"}, summary.Undecodable)
	assert.Equal(t, 1, summary.TotalCompanies)

	sanitized, err := store.LoadSanitized()
	require.NoError(t, err)
	assert.Equal(t, []string{"GROW"}, sanitized.IDs())
}

func TestPipelineEndToEnd(t *testing.T) {
	repo := &fakeRepo{}
	o, store := newTestOrchestrator(t, []string{"GROW", "NAME"}, repo)
	ctx := context.Background()

	require.True(t, o.Fetch(ctx).OK())
	require.True(t, o.Preprocess(ctx).OK())

	res := o.AnalyzeAndStore(ctx)
	require.True(t, res.OK(), res.Message)
	assert.Equal(t, contracts.StageStore, res.Stage)

	// NAME has no company name and is removed during preprocessing
	require.Equal(t, []string{"GROW"}, repo.saved.IDs())
	grow := repo.saved["GROW"]
	assert.Equal(t, contracts.StatusSuccess, grow.Status)
	assert.Equal(t, "Growing Ltd", grow.CompanyName)
	assert.Equal(t, "Company is almost debt-free.", grow.Pros[0])

	first, err := os.ReadFile(store.Path(artifact.AnalysisFile))
	require.NoError(t, err)

	// re-running analysis on the same input gives identical bytes
	require.True(t, o.Analyze(ctx).OK())
	second, err := os.ReadFile(store.Path(artifact.AnalysisFile))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	view, err := o.CompanyAnalysis(ctx, "GROW")
	require.NoError(t, err)
	assert.Equal(t, "Growing Ltd", view.Company.CompanyName)
	assert.Equal(t, grow.Pros, view.Pros)
}

func TestAnalyzeAndStoreFailure(t *testing.T) {
	repo := &fakeRepo{saveErr: errors.New("connection refused")}
	o, _ := newTestOrchestrator(t, []string{"GROW"}, repo)
	ctx := context.Background()

	require.True(t, o.Fetch(ctx).OK())
	require.True(t, o.Preprocess(ctx).OK())

	res := o.AnalyzeAndStore(ctx)
	assert.False(t, res.OK())
	assert.Equal(t, "Error storing data in database: connection refused", res.Message)
}

func TestAnalyzeAndStoreWithoutDatabase(t *testing.T) {
	o, _ := newTestOrchestrator(t, []string{"GROW"}, nil)
	ctx := context.Background()

	require.True(t, o.Fetch(ctx).OK())
	require.True(t, o.Preprocess(ctx).OK())

	res := o.AnalyzeAndStore(ctx)
	assert.False(t, res.OK())
	assert.Contains(t, res.Message, ErrNoDatabase.Error())
}

func TestRefresh(t *testing.T) {
	repo := &fakeRepo{}
	o, _ := newTestOrchestrator(t, []string{"GROW"}, repo)

	result := o.Refresh(context.Background())
	require.True(t, result.OK())
	require.Len(t, result.Stages, 3)
	for _, s := range result.Stages {
		assert.Equal(t, result.RunID, s.RunID)
	}
	assert.Contains(t, repo.saved, "GROW")
}

func TestRefreshStopsAtFirstFailure(t *testing.T) {
	o, _ := newTestOrchestrator(t, nil, &fakeRepo{})

	result := o.Refresh(context.Background())
	assert.False(t, result.OK())
	require.Len(t, result.Stages, 1)
	assert.Equal(t, contracts.StageFetch, result.Stages[0].Stage)
}

func TestCompanyAnalysis(t *testing.T) {
	logo := "https://example.com/logo.png"
	repo := &fakeRepo{companies: map[string]contracts.CompanySummary{
		"DB": {ID: "DB", CompanyName: "From Database", CompanyLogo: &logo},
	}}
	o, store := newTestOrchestrator(t, nil, repo)
	ctx := context.Background()

	_, err := o.CompanyAnalysis(ctx, "DB")
	assert.ErrorIs(t, err, ErrAnalysisNotFound)

	require.NoError(t, store.WriteAnalysis(contracts.AnalysisCollection{
		"DB":   contracts.NewAnalysisResult("DB", contracts.Fields{"company_name": "From Artifact"}),
		"FILE": contracts.NewAnalysisResult("FILE", contracts.Fields{"company_name": "Only In File"}),
	}))

	view, err := o.CompanyAnalysis(ctx, "DB")
	require.NoError(t, err)
	assert.Equal(t, "From Database", view.Company.CompanyName)
	assert.Equal(t, &logo, view.Company.CompanyLogo)

	view, err = o.CompanyAnalysis(ctx, "FILE")
	require.NoError(t, err)
	assert.Equal(t, contracts.CompanySummary{ID: "FILE", CompanyName: "Only In File"}, view.Company)
	assert.Equal(t, []string{}, view.Pros)

	_, err = o.CompanyAnalysis(ctx, "NOPE")
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestListCompaniesWithoutDatabase(t *testing.T) {
	o, _ := newTestOrchestrator(t, nil, nil)

	_, err := o.ListCompanies(context.Background())
	assert.ErrorIs(t, err, ErrNoDatabase)
}

func TestAnalyzeInvalidatesCachedViews(t *testing.T) {
	cache, mr := newTestCache(t)
	deps := newTestDeps(t, []string{"GROW"}, nil)
	deps.Cache = cache
	o := NewOrchestrator(deps, testOptions, logger.Nop())
	ctx := context.Background()

	// an earlier analysis without insights, served once so the view is cached
	stale := contracts.NewAnalysisResult("GROW", contracts.Fields{"company_name": "Growing Ltd"})
	require.NoError(t, deps.Store.WriteAnalysis(contracts.AnalysisCollection{"GROW": stale}))

	before, err := o.CompanyAnalysis(ctx, "GROW")
	require.NoError(t, err)
	assert.Empty(t, before.Pros)
	assert.True(t, mr.Exists("bluemf:cache:analysis:GROW"))

	require.True(t, o.Fetch(ctx).OK())
	require.True(t, o.Preprocess(ctx).OK())
	require.True(t, o.Analyze(ctx).OK())
	assert.False(t, mr.Exists("bluemf:cache:analysis:GROW"))

	after, err := o.CompanyAnalysis(ctx, "GROW")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Company is almost debt-free.",
		"Company has been maintaining a healthy dividend payout of 35.0%",
		"Company has delivered good profit growth of 15.7% over past 5 years",
	}, after.Pros)
}

func TestCompanyAnalysisServedFromCache(t *testing.T) {
	cache, _ := newTestCache(t)
	deps := newTestDeps(t, []string{"GROW"}, nil)
	deps.Cache = cache
	o := NewOrchestrator(deps, testOptions, logger.Nop())
	ctx := context.Background()

	first := contracts.NewAnalysisResult("GROW", contracts.Fields{"company_name": "Growing Ltd"})
	first.Pros = []string{"cached"}
	require.NoError(t, deps.Store.WriteAnalysis(contracts.AnalysisCollection{"GROW": first}))

	_, err := o.CompanyAnalysis(ctx, "GROW")
	require.NoError(t, err)

	// the artifact disappears; the cached view is still served
	require.NoError(t, os.Remove(deps.Store.Path(artifact.AnalysisFile)))
	view, err := o.CompanyAnalysis(ctx, "GROW")
	require.NoError(t, err)
	assert.Equal(t, []string{"cached"}, view.Pros)
}
