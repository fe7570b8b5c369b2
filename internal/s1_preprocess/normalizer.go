package s1_preprocess

import (
	"github.com/wonny/bluemf/backend/internal/contracts"
	"github.com/wonny/bluemf/backend/internal/rules"
	"github.com/wonny/bluemf/backend/pkg/logger"
)

// Normalizer rewrites variant field names onto canonical keys.
// It never interprets values.
type Normalizer struct {
	rules  *rules.Rules
	logger *logger.Logger
}

// NewNormalizer creates a Normalizer bound to a rule set
func NewNormalizer(r *rules.Rules, log *logger.Logger) *Normalizer {
	return &Normalizer{rules: r, logger: log.WithComponent("normalizer")}
}

// Normalize returns a new collection with canonical keys in every company
// section and statement row. Section names and pass-through sections are kept.
func (n *Normalizer) Normalize(raw contracts.Collection) contracts.Collection {
	out := make(contracts.Collection, len(raw))
	renamed := 0

	for id, rec := range raw {
		norm, count := n.normalizeRecord(rec)
		out[id] = norm
		renamed += count
	}

	n.logger.WithFields(map[string]interface{}{
		"companies": len(out),
		"renamed":   renamed,
	}).Info("Key names standardized")

	return out
}

// NormalizeFields rewrites the keys of one map. When several source keys map to
// the same canonical key the canonical spelling wins, then the earliest variant.
func (n *Normalizer) NormalizeFields(f contracts.Fields) contracts.Fields {
	out, _ := n.normalizeFields(f)
	return out
}

func (n *Normalizer) normalizeRecord(rec contracts.CompanyRecord) (contracts.CompanyRecord, int) {
	var out contracts.CompanyRecord
	total := 0

	if rec.Company != nil {
		f, count := n.normalizeFields(rec.Company)
		out.Company = f
		total += count
	}

	if rec.Data != nil {
		out.Data = make(map[string]contracts.Section, len(rec.Data))
		for name, section := range rec.Data {
			out.Data[name] = section.MapRows(func(row contracts.Fields) contracts.Fields {
				f, count := n.normalizeFields(row)
				total += count
				return f
			})
		}
	}

	return out, total
}

func (n *Normalizer) normalizeFields(f contracts.Fields) (contracts.Fields, int) {
	out := make(contracts.Fields, len(f))
	priority := make(map[string]int, len(f))
	renamed := 0

	for key, value := range f {
		canonical, p, matched := n.rules.Canonical(key)
		if matched && canonical != key {
			renamed++
		}
		if prev, taken := priority[canonical]; taken && prev <= p {
			continue
		}
		out[canonical] = value
		priority[canonical] = p
	}

	return out, renamed
}
