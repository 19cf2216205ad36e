package ingest

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeWorkbook(t *testing.T, sheetName string, rows [][]string) *bytes.Buffer {
	t.Helper()
	f := xlsx.NewFile()
	sh, err := f.AddSheet(sheetName)
	require.NoError(t, err)
	for _, row := range rows {
		r := sh.AddRow()
		for _, v := range row {
			r.AddCell().Value = v
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestReadWorkbook(t *testing.T) {
	buf := writeWorkbook(t, "Sheet1", [][]string{
		{"Date", "Cost"},
		{"2024-01-01", "1,000"},
	})
	table, err := ReadWorkbook(buf, "")
	require.NoError(t, err)
	require.Len(t, table, 2)
	assert.Equal(t, []any{"Date", "Cost"}, table[0])
	assert.Equal(t, []any{"2024-01-01", "1,000"}, table[1])
}

func TestReadWorkbookNamedSheet(t *testing.T) {
	buf := writeWorkbook(t, "Ads", [][]string{{"date", "cost"}})
	_, err := ReadWorkbook(bytes.NewReader(buf.Bytes()), "Missing")
	assert.Error(t, err)

	table, err := ReadWorkbook(buf, "Ads")
	require.NoError(t, err)
	assert.Len(t, table, 1)
}

func TestReadWorkbookGarbage(t *testing.T) {
	_, err := ReadWorkbook(bytes.NewBufferString("not a zip"), "")
	assert.Error(t, err)
}
