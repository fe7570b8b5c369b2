package s0_data

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func createTestXLSX(t *testing.T, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)
	for _, rowData := range rows {
		row := sheet.AddRow()
		for _, cellData := range rowData {
			cell := row.AddCell()
			cell.SetString(cellData)
		}
	}
	path := filepath.Join(t.TempDir(), "company_id.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestXLSXIdentifierSource(t *testing.T) {
	path := createTestXLSX(t, [][]string{
		{"sector", "company_id"},
		{"IT", " TCS "},
		{"IT", "INFY"},
		{"Bank", "  "},
		{"Bank", "HDFCBANK"},
	})

	ids, err := NewXLSXIdentifierSource(path).CompanyIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"TCS", "INFY", "HDFCBANK"}, ids)
}

func TestXLSXIdentifierSourceMissingColumn(t *testing.T) {
	path := createTestXLSX(t, [][]string{
		{"symbol"},
		{"TCS"},
	})

	_, err := NewXLSXIdentifierSource(path).CompanyIDs(context.Background())
	assert.ErrorIs(t, err, ErrColumnMissing)
}

func TestXLSXIdentifierSourceMissingFile(t *testing.T) {
	_, err := NewXLSXIdentifierSource(filepath.Join(t.TempDir(), "absent.xlsx")).CompanyIDs(context.Background())
	assert.Error(t, err)
}

func TestStaticIdentifierSource(t *testing.T) {
	src := StaticIdentifierSource{"A", "B"}

	ids, err := src.CompanyIDs(context.Background())
	require.NoError(t, err)
	ids[0] = "mutated"

	again, _ := src.CompanyIDs(context.Background())
	assert.Equal(t, []string{"A", "B"}, again)
}
