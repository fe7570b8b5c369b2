package s2_analysis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wonny/bluemf/backend/internal/contracts"
	"github.com/wonny/bluemf/backend/internal/rules"
)

// Snapshot is the input of the insight rules: the rounded metric block plus
// the unrounded latest debt, equity and dividend values
type Snapshot struct {
	Metrics         contracts.Metrics
	CurrentDebt     float64
	CurrentEquity   float64
	CurrentDividend float64
	DebtHistory     []float64
}

// DebtRatio is the unrounded debt-to-equity percentage of the snapshot
func (s Snapshot) DebtRatio() float64 {
	return DebtRatio(s.CurrentDebt, s.CurrentEquity)
}

// insightRule is one ordered pros/cons rule. Windowed rules are evaluated once
// per insight window, in window order.
type insightRule struct {
	name     string
	template string
	windowed bool
	check    func(s Snapshot, years int) (value float64, ok bool)
}

// Generator turns a snapshot into ordered pros and cons messages
type Generator struct {
	pros       []insightRule
	cons       []insightRule
	windows    []int
	maxInsight int
}

// NewGenerator builds the rule lists from thresholds and templates
func NewGenerator(r *rules.Rules) *Generator {
	th := r.Thresholds()
	pt := r.Pros()
	ct := r.Cons()

	windowed := func(pick func(contracts.Metrics) contracts.PeriodMetrics, match func(float64) bool) func(Snapshot, int) (float64, bool) {
		return func(s Snapshot, years int) (float64, bool) {
			v := pick(s.Metrics).Get(years)
			if v == nil || !match(*v) {
				return 0, false
			}
			return *v, true
		}
	}
	roe := func(m contracts.Metrics) contracts.PeriodMetrics { return m.ReturnOnEquity }
	sales := func(m contracts.Metrics) contracts.PeriodMetrics { return m.CompoundedSalesGrowth }
	profit := func(m contracts.Metrics) contracts.PeriodMetrics { return m.CompoundedProfitGrowth }
	above := func(min float64) func(float64) bool { return func(v float64) bool { return v > min } }
	below := func(max float64) func(float64) bool { return func(v float64) bool { return v < max } }

	g := &Generator{
		windows:    r.InsightWindows(),
		maxInsight: r.MaxInsights(),
	}

	g.pros = []insightRule{
		{name: "debt_free", template: pt.DebtFree, check: func(s Snapshot, _ int) (float64, bool) {
			ratio := s.DebtRatio()
			return ratio, ratio < th.DebtFreeRatioMax
		}},
		{name: "debt_reduced", template: pt.DebtReduced, check: func(s Snapshot, _ int) (float64, bool) {
			h := s.DebtHistory
			return s.CurrentDebt, len(h) >= 2 && s.CurrentDebt < h[len(h)-2]
		}},
		{name: "good_roe", template: pt.GoodROE, windowed: true, check: windowed(roe, above(th.GoodROEMin))},
		{name: "healthy_dividend", template: pt.HealthyDividend, check: func(s Snapshot, _ int) (float64, bool) {
			return s.CurrentDividend, s.CurrentDividend > th.HealthyDividendMin
		}},
		{name: "good_profit_growth", template: pt.GoodProfitGrowth, windowed: true, check: windowed(profit, above(th.GoodGrowthMin))},
		{name: "good_sales_growth", template: pt.GoodSalesGrowth, windowed: true, check: windowed(sales, above(th.GoodGrowthMin))},
	}

	g.cons = []insightRule{
		{name: "high_debt", template: ct.HighDebt, check: func(s Snapshot, _ int) (float64, bool) {
			ratio := s.DebtRatio()
			return ratio, ratio > th.HighDebtRatioMin
		}},
		{name: "no_dividend", template: ct.NoDividend, check: func(s Snapshot, _ int) (float64, bool) {
			return s.CurrentDividend, s.CurrentDividend <= 0
		}},
		{name: "low_roe", template: ct.LowROE, windowed: true, check: windowed(roe, below(th.LowROEMax))},
		{name: "poor_sales_growth", template: ct.PoorSalesGrowth, windowed: true, check: windowed(sales, below(th.PoorGrowthMax))},
		{name: "poor_profit_growth", template: ct.PoorProfitGrowth, windowed: true, check: windowed(profit, below(th.PoorGrowthMax))},
	}

	return g
}

// Pros returns every matching pro message in rule order (not truncated)
func (g *Generator) Pros(s Snapshot) []string {
	return g.evaluate(g.pros, s)
}

// Cons returns every matching con message in rule order (not truncated)
func (g *Generator) Cons(s Snapshot) []string {
	return g.evaluate(g.cons, s)
}

// Limit keeps the first MaxInsights messages
func (g *Generator) Limit(messages []string) []string {
	return Truncate(messages, g.maxInsight)
}

func (g *Generator) evaluate(list []insightRule, s Snapshot) []string {
	out := []string{}
	for _, rule := range list {
		if !rule.windowed {
			if v, ok := rule.check(s, 0); ok {
				out = append(out, render(rule.template, v, 0))
			}
			continue
		}
		for _, years := range g.windows {
			if v, ok := rule.check(s, years); ok {
				out = append(out, render(rule.template, v, years))
			}
		}
	}
	return out
}

// Truncate returns at most n leading messages
func Truncate(messages []string, n int) []string {
	if n < 0 || len(messages) <= n {
		return messages
	}
	return messages[:n]
}

// render substitutes {value} (one decimal) and {period} (window years)
func render(template string, value float64, years int) string {
	return strings.NewReplacer(
		"{value}", fmt.Sprintf("%.1f", value),
		"{period}", strconv.Itoa(years),
	).Replace(template)
}
