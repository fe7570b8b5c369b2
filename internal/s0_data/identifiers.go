package s0_data

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tealeg/xlsx/v2"
)

// CompanyIDColumn is the header of the identifier column
const CompanyIDColumn = "company_id"

// ErrColumnMissing is returned when the sheet has no company_id header
var ErrColumnMissing = errors.New("company_id column not found")

// XLSXIdentifierSource reads company identifiers from a spreadsheet.
// The first sheet's first row is the header row.
type XLSXIdentifierSource struct {
	path string
}

// NewXLSXIdentifierSource creates a source for the given file
func NewXLSXIdentifierSource(path string) *XLSXIdentifierSource {
	return &XLSXIdentifierSource{path: path}
}

// Path returns the spreadsheet path
func (s *XLSXIdentifierSource) Path() string {
	return s.path
}

// CompanyIDs returns the trimmed, non-blank identifiers in sheet order
func (s *XLSXIdentifierSource) CompanyIDs(ctx context.Context) ([]string, error) {
	f, err := xlsx.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open file: %w", err)
	}

	if len(f.Sheets) == 0 {
		return nil, fmt.Errorf("xlsx: %s has no sheets", s.path)
	}
	sheet := f.Sheets[0]

	if len(sheet.Rows) == 0 {
		return nil, fmt.Errorf("xlsx: %w", ErrColumnMissing)
	}

	col := -1
	for j, cell := range sheet.Rows[0].Cells {
		if strings.TrimSpace(cell.String()) == CompanyIDColumn {
			col = j
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("xlsx: %w", ErrColumnMissing)
	}

	ids := make([]string, 0, len(sheet.Rows)-1)
	for _, row := range sheet.Rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if row == nil || col >= len(row.Cells) {
			continue
		}
		id := strings.TrimSpace(row.Cells[col].String())
		if id == "" {
			continue
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// StaticIdentifierSource serves a fixed identifier list
type StaticIdentifierSource []string

// CompanyIDs returns a copy of the list
func (s StaticIdentifierSource) CompanyIDs(context.Context) ([]string, error) {
	return append([]string(nil), s...), nil
}
