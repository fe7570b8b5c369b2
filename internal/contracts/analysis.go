package contracts

import "strings"

// Analysis status values. Errors are reported as "error: <message>".
const (
	StatusSuccess          = "success"
	StatusInsufficientData = "insufficient_data"
	statusErrorPrefix      = "error: "
)

// Debt trend and dividend status values
const (
	TrendUnknown    = "unknown"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
	TrendIncreasing = "increasing"

	DividendUnknown   = "unknown"
	DividendPaying    = "paying"
	DividendNotPaying = "not_paying"
)

// MetricWindows are the CAGR/ROE look-back periods in years
var MetricWindows = []int{3, 5, 10}

// ErrorStatus formats a per-company failure status
func ErrorStatus(msg string) string {
	return statusErrorPrefix + msg
}

// IsErrorStatus reports whether status is a per-company failure
func IsErrorStatus(status string) bool {
	return strings.HasPrefix(status, statusErrorPrefix)
}

// PeriodMetrics holds one metric over the 3/5/10 year windows; nil means undefined
type PeriodMetrics struct {
	Years3  *float64 `json:"3_years"`
	Years5  *float64 `json:"5_years"`
	Years10 *float64 `json:"10_years"`
}

// Get returns the value for a window (nil for unknown windows)
func (p PeriodMetrics) Get(years int) *float64 {
	switch years {
	case 3:
		return p.Years3
	case 5:
		return p.Years5
	case 10:
		return p.Years10
	}
	return nil
}

// Set stores the value for a window; unknown windows are ignored
func (p *PeriodMetrics) Set(years int, v *float64) {
	switch years {
	case 3:
		p.Years3 = v
	case 5:
		p.Years5 = v
	case 10:
		p.Years10 = v
	}
}

// DebtAnalysis is the latest debt snapshot
type DebtAnalysis struct {
	CurrentDebt       float64 `json:"current_debt"`
	CurrentEquity     float64 `json:"current_equity"`
	DebtToEquityRatio float64 `json:"debt_to_equity_ratio"`
	DebtTrend         string  `json:"debt_trend"`
}

// DividendAnalysis is the latest dividend snapshot
type DividendAnalysis struct {
	CurrentDividendPayout float64 `json:"current_dividend_payout"`
	DividendStatus        string  `json:"dividend_status"`
}

// Metrics is the computed metric block of one company
type Metrics struct {
	CompoundedSalesGrowth  PeriodMetrics    `json:"compounded_sales_growth"`
	CompoundedProfitGrowth PeriodMetrics    `json:"compounded_profit_growth"`
	ReturnOnEquity         PeriodMetrics    `json:"return_on_equity"`
	DebtAnalysis           DebtAnalysis     `json:"debt_analysis"`
	DividendAnalysis       DividendAnalysis `json:"dividend_analysis"`
}

// AnalysisResult is the analyze-stage output for one company
// ⭐ SSOT: S2 → S3 전달 구조
type AnalysisResult struct {
	CompanyID   string   `json:"company_id"`
	CompanyName string   `json:"company_name"`
	CompanyInfo Fields   `json:"company_info"`
	Analysis    Metrics  `json:"analysis"`
	Pros        []string `json:"pros"`
	Cons        []string `json:"cons"`
	Status      string   `json:"status"`
}

// NewAnalysisResult returns a result pre-populated with defaults
func NewAnalysisResult(id string, info Fields) AnalysisResult {
	if info == nil {
		info = Fields{}
	}
	return AnalysisResult{
		CompanyID:   id,
		CompanyName: CompanyInfoFrom(info).NameOr(id),
		CompanyInfo: info,
		Analysis: Metrics{
			DebtAnalysis:     DebtAnalysis{DebtTrend: TrendUnknown},
			DividendAnalysis: DividendAnalysis{DividendStatus: DividendUnknown},
		},
		Pros:   []string{},
		Cons:   []string{},
		Status: StatusSuccess,
	}
}

// Succeeded reports whether metrics were computed
func (r AnalysisResult) Succeeded() bool {
	return r.Status == StatusSuccess
}

// AnalysisCollection maps company identifier to analysis result
type AnalysisCollection map[string]AnalysisResult

// IDs returns the identifiers in sorted order
func (c AnalysisCollection) IDs() []string {
	return sortedKeys(c)
}

// StatusCounts tallies results by status class (success, insufficient_data, error)
func (c AnalysisCollection) StatusCounts() map[string]int {
	counts := map[string]int{}
	for _, r := range c {
		switch {
		case IsErrorStatus(r.Status):
			counts["error"]++
		default:
			counts[r.Status]++
		}
	}
	return counts
}
