package s1_preprocess

import (
	"math"

	"github.com/wonny/bluemf/backend/internal/contracts"
	"github.com/wonny/bluemf/backend/internal/rules"
	"github.com/wonny/bluemf/backend/pkg/logger"
)

// Sanitizer strips null, blank and sentinel values
type Sanitizer struct {
	rules  *rules.Rules
	logger *logger.Logger
}

// NewSanitizer creates a Sanitizer bound to a rule set
func NewSanitizer(r *rules.Rules, log *logger.Logger) *Sanitizer {
	return &Sanitizer{rules: r, logger: log.WithComponent("sanitizer")}
}

// Sanitize returns a new collection with absent values removed. Descriptive company
// fields keep empty strings; statement rows always use the strict rule.
func (s *Sanitizer) Sanitize(coll contracts.Collection) contracts.Collection {
	out := make(contracts.Collection, len(coll))
	dropped := 0

	for id, rec := range coll {
		var next contracts.CompanyRecord
		if rec.Company != nil {
			f, n := s.clean(rec.Company, true)
			next.Company = f
			dropped += n
		}
		if rec.Data != nil {
			next.Data = make(map[string]contracts.Section, len(rec.Data))
			for name, section := range rec.Data {
				next.Data[name] = section.MapRows(func(row contracts.Fields) contracts.Fields {
					f, n := s.clean(row, false)
					dropped += n
					return f
				})
			}
		}
		out[id] = next
	}

	s.logger.WithFields(map[string]interface{}{
		"companies": len(out),
		"dropped":   dropped,
	}).Info("Null fields removed")

	return out
}

// SanitizeCompany cleans a company section
func (s *Sanitizer) SanitizeCompany(f contracts.Fields) contracts.Fields {
	out, _ := s.clean(f, true)
	return out
}

// SanitizeRow cleans a statement row
func (s *Sanitizer) SanitizeRow(f contracts.Fields) contracts.Fields {
	out, _ := s.clean(f, false)
	return out
}

func (s *Sanitizer) clean(f contracts.Fields, company bool) (contracts.Fields, int) {
	out := make(contracts.Fields, len(f))
	dropped := 0

	for key, value := range f {
		lenient := company && s.rules.IsDescriptive(key)
		if s.absent(value, lenient) {
			dropped++
			continue
		}
		out[key] = value
	}

	return out, dropped
}

func (s *Sanitizer) absent(value interface{}, lenient bool) bool {
	switch v := value.(type) {
	case nil:
		return true
	case float64:
		// ±Inf has no JSON encoding, so it goes with NaN
		return math.IsNaN(v) || math.IsInf(v, 0)
	case string:
		if lenient {
			return s.rules.IsTextSentinel(v)
		}
		return s.rules.IsStrictSentinel(v)
	}
	return false
}
