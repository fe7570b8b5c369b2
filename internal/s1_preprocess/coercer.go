package s1_preprocess

import (
	"strconv"
	"strings"

	"github.com/wonny/bluemf/backend/internal/contracts"
	"github.com/wonny/bluemf/backend/internal/rules"
	"github.com/wonny/bluemf/backend/pkg/logger"
)

// ParseValue converts a string-encoded number or percentage.
// ok is false when the string does not hold a number; there is no error channel.
//
//	"1,234" → 1234   "(50)" → -50   "12.5%" → 12.5   "", "null", "None", "abc" → !ok
func ParseValue(s string) (v float64, ok bool) {
	if strings.Contains(s, "%") {
		return parsePercentage(s)
	}
	if isAbsentLiteral(s) {
		return 0, false
	}

	cleaned := strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		cleaned = "-" + cleaned[1:len(cleaned)-1]
	}

	return parseDecimal(cleaned)
}

// parseDecimal accepts decimal literals only: hex floats ("0x1p4") are rejected,
// and underscores are allowed between digits ("1_000").
func parseDecimal(s string) (float64, bool) {
	if strings.ContainsAny(s, "xX") {
		return 0, false
	}
	if strings.Contains(s, "_") {
		for i := 0; i < len(s); i++ {
			if s[i] == '_' && (i == 0 || i == len(s)-1 || !isDigit(s[i-1]) || !isDigit(s[i+1])) {
				return 0, false
			}
		}
		s = strings.ReplaceAll(s, "_", "")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// parsePercentage keeps digits, '.' and '-' only
func parsePercentage(s string) (float64, bool) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func isAbsentLiteral(s string) bool {
	return s == "" || s == "null" || s == "None"
}

// Coercer replaces string leaves with float64 or nil
type Coercer struct {
	rules  *rules.Rules
	logger *logger.Logger
}

// NewCoercer creates a Coercer bound to a rule set
func NewCoercer(r *rules.Rules, log *logger.Logger) *Coercer {
	return &Coercer{rules: r, logger: log.WithComponent("coercer")}
}

type coerceStats struct {
	converted int
	failed    int
}

// Coerce returns a new collection where every string value in company sections and
// statement rows is a float64 or nil. Descriptive company fields stay text.
func (c *Coercer) Coerce(coll contracts.Collection) contracts.Collection {
	out := make(contracts.Collection, len(coll))
	var stats coerceStats

	for id, rec := range coll {
		var next contracts.CompanyRecord
		if rec.Company != nil {
			next.Company = c.coerceFields(id, rec.Company, true, &stats)
		}
		if rec.Data != nil {
			next.Data = make(map[string]contracts.Section, len(rec.Data))
			for name, section := range rec.Data {
				next.Data[name] = section.MapRows(func(row contracts.Fields) contracts.Fields {
					return c.coerceFields(id, row, false, &stats)
				})
			}
		}
		out[id] = next
	}

	entry := c.logger.WithFields(map[string]interface{}{
		"companies": len(out),
		"converted": stats.converted,
		"failed":    stats.failed,
	})
	if stats.failed > 0 {
		entry.Warn("Numeric conversion completed with unparseable values")
	} else {
		entry.Info("Numeric conversion completed")
	}

	return out
}

// CoerceFields converts one map. company selects the company-section rules.
func (c *Coercer) CoerceFields(f contracts.Fields, company bool) contracts.Fields {
	var stats coerceStats
	return c.coerceFields("", f, company, &stats)
}

func (c *Coercer) coerceFields(id string, f contracts.Fields, company bool, stats *coerceStats) contracts.Fields {
	out := make(contracts.Fields, len(f))

	for key, value := range f {
		s, isString := value.(string)
		if !isString || (company && c.rules.IsDescriptive(key)) {
			out[key] = value
			continue
		}

		v, ok := ParseValue(s)
		if !ok {
			out[key] = nil
			if !isAbsentLiteral(s) {
				stats.failed++
				c.logger.WithFields(map[string]interface{}{
					"company_id": id,
					"field":      key,
					"value":      s,
				}).Debug("Could not convert value to float")
			}
			continue
		}

		out[key] = v
		stats.converted++
	}

	return out
}
