package s1_preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/bluemf/backend/internal/contracts"
	"github.com/wonny/bluemf/backend/internal/rules"
	"github.com/wonny/bluemf/backend/pkg/logger"
)

func TestValidatorCheck(t *testing.T) {
	v := NewValidator(rules.Default(), logger.Nop())
	pl := map[string]contracts.Section{"profitandloss": contracts.RowsSection(nil)}

	tests := []struct {
		name       string
		record     contracts.CompanyRecord
		want       bool
		wantReason string
	}{
		{
			name:       "no company section",
			record:     contracts.CompanyRecord{Data: pl},
			wantReason: ReasonNoCompany,
		},
		{
			name:       "no company name",
			record:     contracts.CompanyRecord{Company: contracts.Fields{"website": "w"}, Data: pl},
			wantReason: ReasonNoName,
		},
		{
			name:       "null company name",
			record:     contracts.CompanyRecord{Company: contracts.Fields{"company_name": nil}, Data: pl},
			wantReason: ReasonNoName,
		},
		{
			name:       "empty company name",
			record:     contracts.CompanyRecord{Company: contracts.Fields{"company_name": " "}, Data: pl},
			wantReason: ReasonNoName,
		},
		{
			name:       "no data section",
			record:     contracts.CompanyRecord{Company: contracts.Fields{"company_name": "X", "website": "y"}},
			wantReason: ReasonNoData,
		},
		{
			name: "name only and empty data",
			record: contracts.CompanyRecord{
				Company: contracts.Fields{"company_name": "X"},
				Data:    map[string]contracts.Section{},
			},
			wantReason: ReasonInsufficient,
		},
		{
			name: "two company fields and empty data",
			record: contracts.CompanyRecord{
				Company: contracts.Fields{"company_name": "X", "website": "y"},
				Data:    map[string]contracts.Section{},
			},
			want: true,
		},
		{
			name: "null second field does not count",
			record: contracts.CompanyRecord{
				Company: contracts.Fields{"company_name": "X", "roe_percentage": nil},
				Data:    map[string]contracts.Section{},
			},
			wantReason: ReasonInsufficient,
		},
		{
			name:   "statement section present",
			record: contracts.CompanyRecord{Company: contracts.Fields{"company_name": "X"}, Data: pl},
			want:   true,
		},
		{
			name: "cashflow only",
			record: contracts.CompanyRecord{
				Company: contracts.Fields{"company_name": "X"},
				Data:    map[string]contracts.Section{"cashflow": contracts.RowsSection(nil)},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := v.Check(tt.record)
			assert.Equal(t, tt.want, ok)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestValidate(t *testing.T) {
	v := NewValidator(rules.Default(), logger.Nop())

	coll := decodeCollection(t, `{
		"KEEP": {"company": {"company_name": "K"}, "data": {"balancesheet": []}},
		"DROP": {"company": {"company_name": "D"}, "data": {}},
		"NONE": {"data": {"profitandloss": []}}
	}`)

	out, report := v.Validate(coll, 5)

	assert.Equal(t, []string{"KEEP"}, out.IDs())
	assert.Equal(t, 1, report.Kept)
	assert.Equal(t, 2, report.Removed)
	assert.Equal(t, []string{"DROP", "NONE"}, report.RemovedIDs())
	assert.Equal(t, ReasonNoCompany, report.Reasons["NONE"])
}
