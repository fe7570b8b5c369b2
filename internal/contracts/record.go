package contracts

import (
	"bytes"
	"encoding/json"
	"math"
)

// Statement section names under a record's data map
const (
	SectionProfitLoss   = "profitandloss"
	SectionBalanceSheet = "balancesheet"
	SectionCashFlow     = "cashflow"
)

// Fields is one company-info map or one statement row.
// Leaves are nil, float64, bool, string, or other decoded JSON kept as-is.
type Fields map[string]interface{}

// Float returns the value under key when it is a finite number
func (f Fields) Float(key string) (float64, bool) {
	v, ok := f[key].(float64)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Text returns the value under key when it is a string
func (f Fields) Text(key string) (string, bool) {
	s, ok := f[key].(string)
	return s, ok
}

// Populated counts keys whose value is not nil
func (f Fields) Populated() int {
	n := 0
	for _, v := range f {
		if v != nil {
			n++
		}
	}
	return n
}

// Section is the value under one data key: either a list of rows ordered
// oldest to newest, or an unexpected shape kept verbatim.
type Section struct {
	rows []Fields
	raw  json.RawMessage
}

// RowsSection builds a row-list section
func RowsSection(rows []Fields) Section {
	if rows == nil {
		rows = []Fields{}
	}
	return Section{rows: rows}
}

// RawSection builds a pass-through section from raw JSON
func RawSection(raw json.RawMessage) Section {
	return Section{raw: append(json.RawMessage(nil), raw...)}
}

// IsRows reports whether the section is a list of rows
func (s Section) IsRows() bool {
	return s.raw == nil
}

// Rows returns the statement rows (nil for pass-through sections)
func (s Section) Rows() []Fields {
	if !s.IsRows() {
		return nil
	}
	return s.rows
}

// Raw returns the verbatim JSON of a pass-through section
func (s Section) Raw() json.RawMessage {
	return s.raw
}

// MapRows returns a new section with fn applied to every row; pass-through sections are copied.
func (s Section) MapRows(fn func(Fields) Fields) Section {
	if !s.IsRows() {
		return RawSection(s.raw)
	}
	out := make([]Fields, len(s.rows))
	for i, row := range s.rows {
		out[i] = fn(row)
	}
	return Section{rows: out}
}

// MarshalJSON implements json.Marshaler
func (s Section) MarshalJSON() ([]byte, error) {
	if !s.IsRows() {
		return s.raw, nil
	}
	if s.rows == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.rows)
}

// UnmarshalJSON implements json.Unmarshaler. Arrays made only of objects become rows;
// anything else is retained as raw JSON.
func (s *Section) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var rows []Fields
		if err := json.Unmarshal(trimmed, &rows); err == nil && allObjects(rows) {
			*s = RowsSection(rows)
			return nil
		}
	}
	*s = RawSection(trimmed)
	return nil
}

func allObjects(rows []Fields) bool {
	for _, r := range rows {
		if r == nil {
			return false
		}
	}
	return true
}

// CompanyRecord is one company's document at any pipeline stage.
// A nil Company or Data means the section was absent upstream.
type CompanyRecord struct {
	Company Fields             `json:"company,omitzero"`
	Data    map[string]Section `json:"data,omitzero"`
}

// Rows returns the statement rows of the named data section
func (r CompanyRecord) Rows(section string) []Fields {
	if r.Data == nil {
		return nil
	}
	return r.Data[section].Rows()
}

// HasAnySection reports whether data contains one of the given section keys
func (r CompanyRecord) HasAnySection(names []string) bool {
	for _, name := range names {
		if _, ok := r.Data[name]; ok {
			return true
		}
	}
	return false
}

// Collection maps company identifier to record. Each stage returns a new collection.
type Collection map[string]CompanyRecord

// IDs returns the identifiers in sorted order
func (c Collection) IDs() []string {
	return sortedKeys(c)
}
