package contracts

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantRows bool
		count    int
	}{
		{"row list", `[{"sales":1},{"sales":2}]`, true, 2},
		{"empty list", `[]`, true, 0},
		{"list with scalar", `[1, {"sales":2}]`, false, 0},
		{"list with null", `[null]`, false, 0},
		{"object", `{"note":"restated"}`, false, 0},
		{"string", `"n/a"`, false, 0},
		{"null", `null`, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Section
			require.NoError(t, json.Unmarshal([]byte(tt.input), &s))
			assert.Equal(t, tt.wantRows, s.IsRows())
			assert.Len(t, s.Rows(), tt.count)

			out, err := json.Marshal(s)
			require.NoError(t, err)
			assert.JSONEq(t, tt.input, string(out))
		})
	}
}

func TestSectionMapRows(t *testing.T) {
	s := RowsSection([]Fields{{"a": 1.0}})
	mapped := s.MapRows(func(f Fields) Fields {
		out := Fields{"b": 2.0}
		for k, v := range f {
			out[k] = v
		}
		return out
	})

	assert.Equal(t, Fields{"a": 1.0, "b": 2.0}, mapped.Rows()[0])
	assert.Equal(t, Fields{"a": 1.0}, s.Rows()[0], "source rows must not be mutated")

	raw := RawSection(json.RawMessage(`"x"`))
	assert.Equal(t, json.RawMessage(`"x"`), raw.MapRows(func(f Fields) Fields { return nil }).Raw())
}

func TestCompanyRecordJSON(t *testing.T) {
	t.Run("absent sections stay absent", func(t *testing.T) {
		var r CompanyRecord
		require.NoError(t, json.Unmarshal([]byte(`{"company":{"company_name":"X"}}`), &r))
		assert.Nil(t, r.Data)

		out, err := json.Marshal(r)
		require.NoError(t, err)
		assert.JSONEq(t, `{"company":{"company_name":"X"}}`, string(out))
	})

	t.Run("empty data survives a round trip", func(t *testing.T) {
		var r CompanyRecord
		require.NoError(t, json.Unmarshal([]byte(`{"company":{"company_name":"X"},"data":{}}`), &r))
		require.NotNil(t, r.Data)

		out, err := json.Marshal(r)
		require.NoError(t, err)
		assert.JSONEq(t, `{"company":{"company_name":"X"},"data":{}}`, string(out))
	})

	t.Run("row access", func(t *testing.T) {
		var r CompanyRecord
		require.NoError(t, json.Unmarshal([]byte(`{"data":{"profitandloss":[{"sales":10}],"notes":"x"}}`), &r))
		assert.Len(t, r.Rows(SectionProfitLoss), 1)
		assert.Nil(t, r.Rows("notes"))
		assert.Nil(t, r.Rows(SectionBalanceSheet))
		assert.True(t, r.HasAnySection([]string{SectionCashFlow, SectionProfitLoss}))
		assert.False(t, r.HasAnySection([]string{SectionCashFlow}))
	})
}

func TestFieldsAccessors(t *testing.T) {
	f := Fields{
		"sales":   12.5,
		"name":    "ACME",
		"missing": nil,
		"nan":     math.NaN(),
		"flag":    true,
	}

	v, ok := f.Float("sales")
	assert.True(t, ok)
	assert.Equal(t, 12.5, v)

	_, ok = f.Float("nan")
	assert.False(t, ok)
	_, ok = f.Float("name")
	assert.False(t, ok)

	assert.Equal(t, 4, f.Populated())

	s, ok := f.Text("name")
	assert.True(t, ok)
	assert.Equal(t, "ACME", s)
}

func TestTypedViews(t *testing.T) {
	info := CompanyInfoFrom(Fields{
		"company_name":   "ACME",
		"roe_percentage": 18.2,
		"sector":         "Steel",
		"website":        42.0,
	})
	require.NotNil(t, info.Name)
	assert.Equal(t, "ACME", *info.Name)
	require.NotNil(t, info.ROEPercentage)
	assert.Equal(t, 18.2, *info.ROEPercentage)
	assert.Nil(t, info.Website, "non-string website is treated as missing")
	assert.Equal(t, "ACME", info.NameOr("id"))
	assert.Equal(t, "id", CompanyInfoFrom(Fields{}).NameOr("id"))

	row := StatementRowFrom(Fields{"reserves": 80.0, "year": "Mar 2024"})
	assert.Equal(t, 80.0, row.Equity())
	assert.Nil(t, row.EquityCapital)
	assert.Nil(t, row.DividendPayout)
}

func TestCollectionIDs(t *testing.T) {
	c := Collection{"b": {}, "a": {}, "c": {}}
	assert.Equal(t, []string{"a", "b", "c"}, c.IDs())
}
