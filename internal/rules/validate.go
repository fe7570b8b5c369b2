package rules

import (
	"fmt"
	"strings"
)

// ValidationError 검증 실패 (로드 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var supportedWindows = map[int]bool{3: true, 5: true, 10: true}

// Validate checks all required constraints of a rules document
func Validate(doc *Document) error {
	if doc.Version != 1 {
		return ValidationError{"version", "must be 1"}
	}

	// === Synonyms ===
	if len(doc.Synonyms) == 0 {
		return ValidationError{"synonyms", "at least one group required"}
	}
	seen := make(map[string]string)
	for i, g := range doc.Synonyms {
		field := fmt.Sprintf("synonyms[%d]", i)
		if strings.TrimSpace(g.Canonical) == "" {
			return ValidationError{field + ".canonical", "required"}
		}
		names := append([]string{g.Canonical}, g.Variants...)
		for j, v := range names {
			if v == "" {
				return ValidationError{field + ".variants", "empty variant"}
			}
			if j > 0 && v == g.Canonical {
				continue
			}
			if owner, dup := seen[v]; dup {
				return ValidationError{field + ".variants", fmt.Sprintf("%q already maps to %q", v, owner)}
			}
			seen[v] = g.Canonical
		}
	}

	// === Cleaning ===
	if len(doc.DescriptiveFields) == 0 {
		return ValidationError{"descriptive_fields", "at least one field required"}
	}
	if len(doc.StatementSections) == 0 {
		return ValidationError{"statement_sections", "at least one section required"}
	}
	if len(doc.Sentinels.Strict) == 0 {
		return ValidationError{"sentinels.strict", "at least one sentinel required"}
	}

	// === Insights ===
	ins := doc.Insights
	if len(ins.Windows) == 0 {
		return ValidationError{"insights.windows", "at least one window required"}
	}
	for _, w := range ins.Windows {
		if !supportedWindows[w] {
			return ValidationError{"insights.windows", fmt.Sprintf("%d is not one of 3, 5, 10", w)}
		}
	}
	if ins.MaxPerList < 1 {
		return ValidationError{"insights.max_per_list", "must be >= 1"}
	}
	th := ins.Thresholds
	if th.LowROEMax > th.GoodROEMin {
		return ValidationError{"insights.thresholds", "low_roe_max must be <= good_roe_min"}
	}
	if th.PoorGrowthMax > th.GoodGrowthMin {
		return ValidationError{"insights.thresholds", "poor_growth_max must be <= good_growth_min"}
	}
	if th.DebtFreeRatioMax > th.HighDebtRatioMin {
		return ValidationError{"insights.thresholds", "debt_free_ratio_max must be <= high_debt_ratio_min"}
	}

	templates := map[string]string{
		"insights.pros.debt_free":          ins.Pros.DebtFree,
		"insights.pros.debt_reduced":       ins.Pros.DebtReduced,
		"insights.pros.good_roe":           ins.Pros.GoodROE,
		"insights.pros.healthy_dividend":   ins.Pros.HealthyDividend,
		"insights.pros.good_profit_growth": ins.Pros.GoodProfitGrowth,
		"insights.pros.good_sales_growth":  ins.Pros.GoodSalesGrowth,
		"insights.cons.high_debt":          ins.Cons.HighDebt,
		"insights.cons.no_dividend":        ins.Cons.NoDividend,
		"insights.cons.low_roe":            ins.Cons.LowROE,
		"insights.cons.poor_sales_growth":  ins.Cons.PoorSalesGrowth,
		"insights.cons.poor_profit_growth": ins.Cons.PoorProfitGrowth,
	}
	for field, tmpl := range templates {
		if strings.TrimSpace(tmpl) == "" {
			return ValidationError{field, "required"}
		}
	}

	return nil
}
