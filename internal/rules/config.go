package rules

// Document is the YAML shape of a rules file
// ⭐ SSOT: 동의어 표, 정제 규칙, 인사이트 임계값/문구는 여기서만 정의
type Document struct {
	Version           int            `yaml:"version" json:"version"`
	Synonyms          []SynonymGroup `yaml:"synonyms" json:"synonyms"`
	DescriptiveFields []string       `yaml:"descriptive_fields" json:"descriptive_fields"`
	StatementSections []string       `yaml:"statement_sections" json:"statement_sections"`
	Sentinels         Sentinels      `yaml:"sentinels" json:"sentinels"`
	Insights          InsightConfig  `yaml:"insights" json:"insights"`
}

// SynonymGroup maps exact variant spellings onto one canonical key.
// Variants are listed in priority order.
type SynonymGroup struct {
	Canonical string   `yaml:"canonical" json:"canonical"`
	Variants  []string `yaml:"variants" json:"variants"`
}

// Sentinels are string literals that mean "absent"
type Sentinels struct {
	Text   []string `yaml:"text" json:"text"`     // descriptive fields
	Strict []string `yaml:"strict" json:"strict"` // every other field
}

// InsightConfig holds the pros/cons rule parameters
type InsightConfig struct {
	Windows    []int        `yaml:"windows" json:"windows"`
	MaxPerList int          `yaml:"max_per_list" json:"max_per_list"`
	Thresholds Thresholds   `yaml:"thresholds" json:"thresholds"`
	Pros       ProTemplates `yaml:"pros" json:"pros"`
	Cons       ConTemplates `yaml:"cons" json:"cons"`
}

// Thresholds are the numeric cut-offs of the insight rules (percentages)
type Thresholds struct {
	DebtFreeRatioMax   float64 `yaml:"debt_free_ratio_max" json:"debt_free_ratio_max"`
	HighDebtRatioMin   float64 `yaml:"high_debt_ratio_min" json:"high_debt_ratio_min"`
	GoodROEMin         float64 `yaml:"good_roe_min" json:"good_roe_min"`
	LowROEMax          float64 `yaml:"low_roe_max" json:"low_roe_max"`
	HealthyDividendMin float64 `yaml:"healthy_dividend_min" json:"healthy_dividend_min"`
	GoodGrowthMin      float64 `yaml:"good_growth_min" json:"good_growth_min"`
	PoorGrowthMax      float64 `yaml:"poor_growth_max" json:"poor_growth_max"`
}

// ProTemplates are message templates; {value} and {period} are substituted
type ProTemplates struct {
	DebtFree         string `yaml:"debt_free" json:"debt_free"`
	DebtReduced      string `yaml:"debt_reduced" json:"debt_reduced"`
	GoodROE          string `yaml:"good_roe" json:"good_roe"`
	HealthyDividend  string `yaml:"healthy_dividend" json:"healthy_dividend"`
	GoodProfitGrowth string `yaml:"good_profit_growth" json:"good_profit_growth"`
	GoodSalesGrowth  string `yaml:"good_sales_growth" json:"good_sales_growth"`
}

// ConTemplates are message templates; {value} and {period} are substituted
type ConTemplates struct {
	HighDebt         string `yaml:"high_debt" json:"high_debt"`
	NoDividend       string `yaml:"no_dividend" json:"no_dividend"`
	LowROE           string `yaml:"low_roe" json:"low_roe"`
	PoorSalesGrowth  string `yaml:"poor_sales_growth" json:"poor_sales_growth"`
	PoorProfitGrowth string `yaml:"poor_profit_growth" json:"poor_profit_growth"`
}
