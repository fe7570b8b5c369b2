package s1_preprocess

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/bluemf/backend/internal/contracts"
	"github.com/wonny/bluemf/backend/internal/rules"
	"github.com/wonny/bluemf/backend/pkg/logger"
)

func TestSanitizeCompany(t *testing.T) {
	s := NewSanitizer(rules.Default(), logger.Nop())

	out := s.SanitizeCompany(contracts.Fields{
		"company_name":    "Acme",
		"company_logo":    "",
		"about_company":   "None",
		"website":         "null",
		"chart_link":      nil,
		"nse_profile":     math.NaN(),
		"roe_percentage":  14.2,
		"roce_percentage": "",
		"book_value":      nil,
		"face_value":      "nan",
	})

	assert.Equal(t, contracts.Fields{
		"company_name":   "Acme",
		"company_logo":   "",
		"roe_percentage": 14.2,
	}, out)
}

func TestSanitizeRow(t *testing.T) {
	s := NewSanitizer(rules.Default(), logger.Nop())

	out := s.SanitizeRow(contracts.Fields{
		"sales":          "",
		"net_profit":     10.0,
		"borrowings":     0.0,
		"reserves":       math.NaN(),
		"equity_capital": math.Inf(1),
		"eps":            "NaN",
		"company_logo":   "", // strict rule outside the company section
		"audited":        false,
	})

	assert.Equal(t, contracts.Fields{
		"net_profit": 10.0,
		"borrowings": 0.0,
		"audited":    false,
	}, out)
}

func TestSanitizeCollection(t *testing.T) {
	s := NewSanitizer(rules.Default(), logger.Nop())

	in := contracts.Collection{
		"X": {
			Company: contracts.Fields{"company_name": "X", "company_logo": "", "website": nil},
			Data: map[string]contracts.Section{
				"profitandloss": contracts.RowsSection([]contracts.Fields{{"sales": "", "net_profit": 3.0}}),
			},
		},
	}

	out := s.Sanitize(in)

	assert.Equal(t, contracts.Fields{"company_name": "X", "company_logo": ""}, out["X"].Company)
	assert.Equal(t, []contracts.Fields{{"net_profit": 3.0}}, out["X"].Rows("profitandloss"))
	assert.Contains(t, in["X"].Company, "website", "input must not be mutated")
}
