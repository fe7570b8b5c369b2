package s2_analysis

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/wonny/bluemf/backend/internal/contracts"
)

// debtRatioSentinel is reported when equity is zero or negative
const debtRatioSentinel = 100.0

// CAGR returns the compound annual growth rate in percent between values[len-years]
// and the last value. Nil when there are fewer than years values or either end is <= 0.
func CAGR(values []float64, years int) *float64 {
	if years <= 0 || len(values) < years {
		return nil
	}

	start := values[len(values)-years]
	end := values[len(values)-1]
	if start <= 0 || end <= 0 {
		return nil
	}

	cagr := (math.Pow(end/start, 1/float64(years)) - 1) * 100
	return &cagr
}

// AverageROE averages net_profit / (reserves + equity_capital) × 100 over the
// latest years rows. Years with no profit or non-positive equity are skipped.
func AverageROE(profit, balance []contracts.StatementRow, years int) *float64 {
	if years <= 0 || len(profit) < years || len(balance) < years {
		return nil
	}

	var sum float64
	n := 0
	for i := 1; i <= years; i++ {
		p := profit[len(profit)-i]
		b := balance[len(balance)-i]

		equity := b.Equity()
		if p.NetProfit == nil || equity <= 0 {
			continue
		}
		sum += *p.NetProfit / equity * 100
		n++
	}

	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

// DebtRatio returns debt / equity × 100, or 100 when equity <= 0
func DebtRatio(debt, equity float64) float64 {
	if equity > 0 {
		return debt / equity * 100
	}
	return debtRatioSentinel
}

// DebtTrend compares the current debt with the second-to-last observation
func DebtTrend(current float64, history []float64) string {
	if len(history) > 1 {
		prev := history[len(history)-2]
		switch {
		case current < prev:
			return contracts.TrendDecreasing
		case current == prev:
			return contracts.TrendStable
		}
	}
	return contracts.TrendIncreasing
}

// Round2 rounds half away from zero to 2 decimal places.
// NaN and ±Inf are returned unchanged.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func round2Ptr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := Round2(*v)
	return &r
}

// series collects the present values of one field in row order
func series(rows []contracts.StatementRow, pick func(contracts.StatementRow) *float64) []float64 {
	out := make([]float64, 0, len(rows))
	for _, r := range rows {
		if v := pick(r); v != nil {
			out = append(out, *v)
		}
	}
	return out
}
