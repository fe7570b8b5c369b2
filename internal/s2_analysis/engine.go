package s2_analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/wonny/bluemf/backend/internal/contracts"
	"github.com/wonny/bluemf/backend/internal/rules"
	"github.com/wonny/bluemf/backend/pkg/logger"
)

// Engine computes the metric block, pros and cons of a single company
// ⭐ SSOT: 지표 계산은 여기서만
type Engine struct {
	insights *Generator
	logger   *logger.Logger
}

// NewEngine creates an engine for one rule set
func NewEngine(r *rules.Rules, log *logger.Logger) *Engine {
	return &Engine{
		insights: NewGenerator(r),
		logger:   log.WithComponent("analysis_engine"),
	}
}

// AnalyzeCompany never fails as a whole; a failure is reported in Status and the
// metric block keeps whatever was computed before it.
func (e *Engine) AnalyzeCompany(id string, rec contracts.CompanyRecord) (result contracts.AnalysisResult) {
	result = contracts.NewAnalysisResult(id, rec.Company)

	defer func() {
		if r := recover(); r != nil {
			e.fail(&result, fmt.Sprint(r))
		}
	}()

	profit := contracts.StatementRowsFrom(rec.Rows(contracts.SectionProfitLoss))
	balance := contracts.StatementRowsFrom(rec.Rows(contracts.SectionBalanceSheet))
	if len(profit) == 0 || len(balance) == 0 {
		result.Status = contracts.StatusInsufficientData
		return result
	}

	snap := e.compute(&result.Analysis, profit, balance)
	if err := checkFinite(result.Analysis); err != nil {
		e.fail(&result, err.Error())
		return result
	}

	result.Pros = e.insights.Limit(e.insights.Pros(snap))
	result.Cons = e.insights.Limit(e.insights.Cons(snap))
	return result
}

// compute fills m block by block. The snapshot keeps unrounded current values.
func (e *Engine) compute(m *contracts.Metrics, profit, balance []contracts.StatementRow) Snapshot {
	sales := series(profit, func(r contracts.StatementRow) *float64 { return r.Sales })
	profits := series(profit, func(r contracts.StatementRow) *float64 { return r.NetProfit })
	debts := series(balance, func(r contracts.StatementRow) *float64 { return r.Borrowings })

	latestBS := balance[len(balance)-1]
	latestPL := profit[len(profit)-1]

	snap := Snapshot{
		CurrentDebt:     valueOr(latestBS.Borrowings, 0),
		CurrentEquity:   latestBS.Equity(),
		CurrentDividend: valueOr(latestPL.DividendPayout, 0),
		DebtHistory:     debts,
	}

	for _, years := range contracts.MetricWindows {
		m.CompoundedSalesGrowth.Set(years, round2Ptr(CAGR(sales, years)))
		m.CompoundedProfitGrowth.Set(years, round2Ptr(CAGR(profits, years)))
		m.ReturnOnEquity.Set(years, round2Ptr(AverageROE(profit, balance, years)))
	}

	m.DebtAnalysis = contracts.DebtAnalysis{
		CurrentDebt:       Round2(snap.CurrentDebt),
		CurrentEquity:     Round2(snap.CurrentEquity),
		DebtToEquityRatio: Round2(snap.DebtRatio()),
		DebtTrend:         DebtTrend(snap.CurrentDebt, debts),
	}

	status := contracts.DividendNotPaying
	if snap.CurrentDividend > 0 {
		status = contracts.DividendPaying
	}
	m.DividendAnalysis = contracts.DividendAnalysis{
		CurrentDividendPayout: Round2(snap.CurrentDividend),
		DividendStatus:        status,
	}

	snap.Metrics = *m
	return snap
}

// fail records msg on the partially-built result. Non-finite values are
// cleared so the result still serializes; pros and cons stay empty.
func (e *Engine) fail(result *contracts.AnalysisResult, msg string) {
	e.logger.WithFields(map[string]interface{}{
		"company_id": result.CompanyID,
		"error":      msg,
	}).Warn("Company analysis failed")

	dropNonFinite(&result.Analysis)
	result.Pros = []string{}
	result.Cons = []string{}
	result.Status = contracts.ErrorStatus(msg)
}

// dropNonFinite zeroes non-finite scalars and nulls non-finite window values
func dropNonFinite(m *contracts.Metrics) {
	for _, v := range []*float64{
		&m.DebtAnalysis.CurrentDebt,
		&m.DebtAnalysis.CurrentEquity,
		&m.DebtAnalysis.DebtToEquityRatio,
		&m.DividendAnalysis.CurrentDividendPayout,
	} {
		if !isFinite(*v) {
			*v = 0
		}
	}

	for _, p := range []*contracts.PeriodMetrics{
		&m.CompoundedSalesGrowth,
		&m.CompoundedProfitGrowth,
		&m.ReturnOnEquity,
	} {
		for _, years := range contracts.MetricWindows {
			if v := p.Get(years); v != nil && !isFinite(*v) {
				p.Set(years, nil)
			}
		}
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// checkFinite rejects metric blocks that cannot be serialized
func checkFinite(m contracts.Metrics) error {
	named := map[string]float64{
		"current_debt":            m.DebtAnalysis.CurrentDebt,
		"current_equity":          m.DebtAnalysis.CurrentEquity,
		"debt_to_equity_ratio":    m.DebtAnalysis.DebtToEquityRatio,
		"current_dividend_payout": m.DividendAnalysis.CurrentDividendPayout,
	}
	periods := map[string]contracts.PeriodMetrics{
		"compounded_sales_growth":  m.CompoundedSalesGrowth,
		"compounded_profit_growth": m.CompoundedProfitGrowth,
		"return_on_equity":         m.ReturnOnEquity,
	}
	for name, p := range periods {
		for _, years := range contracts.MetricWindows {
			if v := p.Get(years); v != nil {
				named[fmt.Sprintf("%s.%d_years", name, years)] = *v
			}
		}
	}

	for _, name := range sortedNames(named) {
		if !isFinite(named[name]) {
			return fmt.Errorf("%s is not finite", name)
		}
	}
	return nil
}

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func sortedNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
