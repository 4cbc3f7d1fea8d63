// Package dataset parses uploaded CSV/Excel files into columnar tables and
// infers per-column scalar types.
package dataset

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/csv-analyst/backend/internal/models"
)

// Load parses an uploaded file into a Table, dispatching on the filename
// extension. Unknown extensions fail with models.ErrUnsupportedFormat.
func Load(name string, data []byte) (*models.Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return ParseCSV(name, bytes.NewReader(data))
	case ".xlsx", ".xls":
		return ParseXLSX(name, data)
	default:
		return nil, fmt.Errorf("%w: only CSV and Excel files are supported (got %q)",
			models.ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// buildTable assembles header+rows into a typed Table. Short rows are
// padded with nulls; blank cells are nulls.
func buildTable(sourceName string, header []string, rows [][]string) (*models.Table, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("%w: no header row", models.ErrParse)
	}
	cols := make([]models.Column, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		cols[i] = models.Column{
			Name:  name,
			Cells: make([]string, len(rows)),
			Valid: make([]bool, len(rows)),
		}
	}
	for r, row := range rows {
		for i := range cols {
			if i >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				continue
			}
			cols[i].Cells[r] = cell
			cols[i].Valid[r] = true
		}
	}
	for i := range cols {
		cols[i].Kind = inferKind(&cols[i])
	}
	return models.NewTable(sourceName, cols)
}
