package s1_preprocess

import (
	"github.com/wonny/bluemf/backend/internal/contracts"
	"github.com/wonny/bluemf/backend/internal/rules"
	"github.com/wonny/bluemf/backend/pkg/logger"
)

const sampleSize = 3

// Preprocessor chains normalize → coerce → validate → sanitize
// ⭐ SSOT: S0 원본 → S2 입력 변환은 여기서만
type Preprocessor struct {
	normalizer    *Normalizer
	coercer       *Coercer
	validator     *Validator
	sanitizer     *Sanitizer
	minValidYears int
	logger        *logger.Logger
}

// NewPreprocessor builds the four stages around one rule set
func NewPreprocessor(r *rules.Rules, minValidYears int, log *logger.Logger) *Preprocessor {
	return &Preprocessor{
		normalizer:    NewNormalizer(r, log),
		coercer:       NewCoercer(r, log),
		validator:     NewValidator(r, log),
		sanitizer:     NewSanitizer(r, log),
		minValidYears: minValidYears,
		logger:        log.WithComponent("preprocessor"),
	}
}

// Result is the output of one preprocessing run
type Result struct {
	Sanitized contracts.Collection
	Report    ValidationReport
	Summary   contracts.PreprocessSummary
}

// Run executes every stage. The input collection is not modified.
func (p *Preprocessor) Run(raw contracts.Collection) Result {
	p.logger.WithField("companies", len(raw)).Info("Starting data preprocessing")

	normalized := p.normalizer.Normalize(raw)
	coerced := p.coercer.Coerce(normalized)
	valid, report := p.validator.Validate(coerced, p.minValidYears)
	sanitized := p.sanitizer.Sanitize(valid)

	p.logSample(sanitized)

	summary := Summarize(sanitized)
	summary.Removed = report.Removed

	p.logger.WithFields(map[string]interface{}{
		"total_companies":                summary.TotalCompanies,
		"companies_with_sufficient_data": summary.CompaniesWithSufficientData,
		"average_years_data":             summary.AverageYearsData,
		"removed":                        summary.Removed,
	}).Info("Data preprocessing completed")

	return Result{Sanitized: sanitized, Report: report, Summary: summary}
}

// Summarize computes summary statistics of a sanitized collection.
// common_metrics counts the keys of each company's first profit-and-loss row.
func Summarize(coll contracts.Collection) contracts.PreprocessSummary {
	summary := contracts.PreprocessSummary{
		TotalCompanies: len(coll),
		CommonMetrics:  map[string]int{},
	}

	totalYears := 0
	for _, rec := range coll {
		if _, ok := rec.Data[contracts.SectionProfitLoss]; !ok {
			continue
		}
		rows := rec.Rows(contracts.SectionProfitLoss)
		summary.CompaniesWithSufficientData++
		totalYears += len(rows)

		if len(rows) > 0 {
			for metric := range rows[0] {
				summary.CommonMetrics[metric]++
			}
		}
	}

	if summary.CompaniesWithSufficientData > 0 {
		summary.AverageYearsData = float64(totalYears) / float64(summary.CompaniesWithSufficientData)
	}

	return summary
}

// logSample logs the shape of the first few companies at debug level
func (p *Preprocessor) logSample(coll contracts.Collection) {
	ids := coll.IDs()
	if len(ids) > sampleSize {
		ids = ids[:sampleSize]
	}

	for _, id := range ids {
		rec := coll[id]
		sections := map[string]int{}
		for name, section := range rec.Data {
			if section.IsRows() {
				sections[name] = len(section.Rows())
			}
		}

		companyKeys := make([]string, 0, len(rec.Company))
		for k := range rec.Company {
			companyKeys = append(companyKeys, k)
		}

		p.logger.WithFields(map[string]interface{}{
			"company_id":   id,
			"company_keys": companyKeys,
			"sections":     sections,
		}).Debug("Preprocessed data sample")
	}
}
