package s1_preprocess

import (
	"sort"
	"strings"

	"github.com/wonny/bluemf/backend/internal/contracts"
	"github.com/wonny/bluemf/backend/internal/rules"
	"github.com/wonny/bluemf/backend/pkg/logger"
)

// Rejection reasons
const (
	ReasonNoCompany    = "missing company section"
	ReasonNoName       = "missing company_name"
	ReasonNoData       = "missing data section"
	ReasonInsufficient = "no statement section and a single company field"
)

// Validator decides whether a company has enough data to keep
type Validator struct {
	rules  *rules.Rules
	logger *logger.Logger
}

// NewValidator creates a Validator bound to a rule set
func NewValidator(r *rules.Rules, log *logger.Logger) *Validator {
	return &Validator{rules: r, logger: log.WithComponent("validator")}
}

// ValidationReport counts the outcome of Validate
type ValidationReport struct {
	Kept    int               `json:"kept"`
	Removed int               `json:"removed"`
	Reasons map[string]string `json:"reasons,omitempty"` // company id → reason
}

// Validate keeps the companies that pass Check. minValidYears is recorded in the
// log only: year counts are not enforced.
func (v *Validator) Validate(coll contracts.Collection, minValidYears int) (contracts.Collection, ValidationReport) {
	out := make(contracts.Collection, len(coll))
	report := ValidationReport{Reasons: map[string]string{}}

	ids := coll.IDs()
	for _, id := range ids {
		rec := coll[id]
		if ok, reason := v.Check(rec); !ok {
			report.Removed++
			report.Reasons[id] = reason
			v.logger.WithFields(map[string]interface{}{
				"company_id": id,
				"reason":     reason,
			}).Info("Removed company due to insufficient data")
			continue
		}
		out[id] = rec
	}
	report.Kept = len(out)

	v.logger.WithFields(map[string]interface{}{
		"removed":         report.Removed,
		"kept":            report.Kept,
		"min_valid_years": minValidYears,
	}).Info("Invalid entries removed")

	return out, report
}

// Check applies the retention predicate to one record
func (v *Validator) Check(rec contracts.CompanyRecord) (bool, string) {
	if rec.Company == nil {
		return false, ReasonNoCompany
	}
	if !hasName(rec.Company) {
		return false, ReasonNoName
	}
	if rec.Data == nil {
		return false, ReasonNoData
	}
	if rec.HasAnySection(v.rules.StatementSections()) || rec.Company.Populated() > 1 {
		return true, ""
	}
	return false, ReasonInsufficient
}

func hasName(company contracts.Fields) bool {
	value, ok := company[contracts.FieldCompanyName]
	if !ok || value == nil {
		return false
	}
	if s, isString := value.(string); isString {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// RemovedIDs returns rejected company ids in sorted order
func (r ValidationReport) RemovedIDs() []string {
	ids := make([]string, 0, len(r.Reasons))
	for id := range r.Reasons {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
