package s1_preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/bluemf/backend/internal/contracts"
	"github.com/wonny/bluemf/backend/internal/rules"
	"github.com/wonny/bluemf/backend/pkg/logger"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{"1,234", 1234, true},
		{"(50)", -50, true},
		{"12.5%", 12.5, true},
		{" 42 ", 42, true},
		{"-3.25", -3.25, true},
		{"1,00,000", 100000, true},
		{"(1,234.5)", -1234.5, true},
		{"ROE 18.4 %", 18.4, true},
		{"-7%", -7, true},
		{"", 0, false},
		{"null", 0, false},
		{"None", 0, false},
		{"abc", 0, false},
		{"%", 0, false},
		{"()", 0, false},
		{"1_000", 1000, true},
		{"1_000.5_5", 1000.55, true},
		{"1e3", 1000, true},
		{"_1000", 0, false},
		{"1__000", 0, false},
		{"1000_", 0, false},
		{"0x1p4", 0, false},
		{"0X10", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseValue(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestCoerceFields(t *testing.T) {
	c := NewCoercer(rules.Default(), logger.Nop())

	t.Run("statement row", func(t *testing.T) {
		out := c.CoerceFields(contracts.Fields{
			"sales":      "1,234",
			"net_profit": "(50)",
			"year":       "Mar 2024",
			"eps":        12.0,
			"flag":       true,
			"missing":    nil,
			"blank":      "",
		}, false)

		assert.Equal(t, contracts.Fields{
			"sales":      1234.0,
			"net_profit": -50.0,
			"year":       nil,
			"eps":        12.0,
			"flag":       true,
			"missing":    nil,
			"blank":      nil,
		}, out)
	})

	t.Run("company section keeps text fields", func(t *testing.T) {
		out := c.CoerceFields(contracts.Fields{
			"company_name":   "Acme Steel",
			"website":        "https://acme.example",
			"about_company":  "",
			"roe_percentage": "18.5%",
			"face_value":     "10",
			"book_value":     "n/a",
		}, true)

		assert.Equal(t, contracts.Fields{
			"company_name":   "Acme Steel",
			"website":        "https://acme.example",
			"about_company":  "",
			"roe_percentage": 18.5,
			"face_value":     10.0,
			"book_value":     nil,
		}, out)
	})

	t.Run("descriptive names in statement rows are coerced", func(t *testing.T) {
		out := c.CoerceFields(contracts.Fields{"website": "abc"}, false)
		assert.Equal(t, contracts.Fields{"website": nil}, out)
	})
}

func TestCoerceCollectionIsFresh(t *testing.T) {
	c := NewCoercer(rules.Default(), logger.Nop())
	in := decodeCollection(t, `{"X": {"company": {"company_name": "X", "roe_percentage": "9%"}, "data": {"profitandloss": [{"sales": "10"}], "notes": "raw"}}}`)

	out := c.Coerce(in)

	assert.Equal(t, 9.0, out["X"].Company["roe_percentage"])
	assert.Equal(t, 10.0, out["X"].Rows("profitandloss")[0]["sales"])
	assert.False(t, out["X"].Data["notes"].IsRows())
	assert.Equal(t, "9%", in["X"].Company["roe_percentage"], "input must not be mutated")
}
