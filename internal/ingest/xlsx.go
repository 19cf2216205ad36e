package ingest

import (
	"bytes"
	"fmt"
	"io"

	"github.com/tealeg/xlsx/v2"

	"github.com/storeops/ads-ingest/internal/models"
)

// ReadWorkbook decodes an uploaded .xlsx workbook into the raw table the
// pipeline consumes. sheetName selects a sheet by name; empty means the
// first sheet. Cell values come back as strings, which is what the
// normalizer expects from spreadsheet sources.
func ReadWorkbook(r io.Reader, sheetName string) (models.RawTable, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	f, err := xlsx.OpenReaderAt(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	sh, err := pickSheet(f, sheetName)
	if err != nil {
		return nil, err
	}
	var table models.RawTable
	for _, row := range sh.Rows {
		cells := make([]any, len(row.Cells))
		for i, c := range row.Cells {
			cells[i] = c.String()
		}
		table = append(table, cells)
	}
	return table, nil
}

func pickSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if name != "" {
		sh, ok := f.Sheet[name]
		if !ok {
			return nil, fmt.Errorf("sheet %q not found", name)
		}
		return sh, nil
	}
	if len(f.Sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.Sheets[0], nil
}
