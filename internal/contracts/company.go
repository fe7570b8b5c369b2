package contracts

import (
	"sort"
)

// Canonical company-info keys
const (
	FieldCompanyName    = "company_name"
	FieldCompanyLogo    = "company_logo"
	FieldAboutCompany   = "about_company"
	FieldWebsite        = "website"
	FieldNSEProfile     = "nse_profile"
	FieldBSEProfile     = "bse_profile"
	FieldChartLink      = "chart_link"
	FieldFaceValue      = "face_value"
	FieldBookValue      = "book_value"
	FieldROCEPercentage = "roce_percentage"
	FieldROEPercentage  = "roe_percentage"
)

// Canonical statement keys
const (
	FieldSales          = "sales"
	FieldNetProfit      = "net_profit"
	FieldBorrowings     = "borrowings"
	FieldEquityCapital  = "equity_capital"
	FieldReserves       = "reserves"
	FieldDividendPayout = "dividend_payout"
)

// CompanyInfo is the typed view of a sanitized company section
type CompanyInfo struct {
	Name           *string
	Logo           *string
	About          *string
	Website        *string
	NSEProfile     *string
	BSEProfile     *string
	ChartLink      *string
	FaceValue      *float64
	BookValue      *float64
	ROCEPercentage *float64
	ROEPercentage  *float64
}

// CompanyInfoFrom extracts the typed view. Values of the wrong type are treated as missing.
func CompanyInfoFrom(f Fields) CompanyInfo {
	return CompanyInfo{
		Name:           textPtr(f, FieldCompanyName),
		Logo:           textPtr(f, FieldCompanyLogo),
		About:          textPtr(f, FieldAboutCompany),
		Website:        textPtr(f, FieldWebsite),
		NSEProfile:     textPtr(f, FieldNSEProfile),
		BSEProfile:     textPtr(f, FieldBSEProfile),
		ChartLink:      textPtr(f, FieldChartLink),
		FaceValue:      floatPtr(f, FieldFaceValue),
		BookValue:      floatPtr(f, FieldBookValue),
		ROCEPercentage: floatPtr(f, FieldROCEPercentage),
		ROEPercentage:  floatPtr(f, FieldROEPercentage),
	}
}

// NameOr returns the company name or fallback when it is missing or empty
func (c CompanyInfo) NameOr(fallback string) string {
	if c.Name == nil || *c.Name == "" {
		return fallback
	}
	return *c.Name
}

// StatementRow is the typed view of one sanitized statement row
type StatementRow struct {
	Sales          *float64
	NetProfit      *float64
	Borrowings     *float64
	EquityCapital  *float64
	Reserves       *float64
	DividendPayout *float64
}

// StatementRowFrom extracts the typed view of a statement row
func StatementRowFrom(f Fields) StatementRow {
	return StatementRow{
		Sales:          floatPtr(f, FieldSales),
		NetProfit:      floatPtr(f, FieldNetProfit),
		Borrowings:     floatPtr(f, FieldBorrowings),
		EquityCapital:  floatPtr(f, FieldEquityCapital),
		Reserves:       floatPtr(f, FieldReserves),
		DividendPayout: floatPtr(f, FieldDividendPayout),
	}
}

// StatementRowsFrom converts a section's rows in order
func StatementRowsFrom(rows []Fields) []StatementRow {
	out := make([]StatementRow, len(rows))
	for i, r := range rows {
		out[i] = StatementRowFrom(r)
	}
	return out
}

// Equity returns reserves + equity_capital with missing parts counted as 0
func (r StatementRow) Equity() float64 {
	return deref(r.Reserves) + deref(r.EquityCapital)
}

func textPtr(f Fields, key string) *string {
	if s, ok := f.Text(key); ok {
		return &s
	}
	return nil
}

func floatPtr(f Fields, key string) *float64 {
	if v, ok := f.Float(key); ok {
		return &v
	}
	return nil
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
