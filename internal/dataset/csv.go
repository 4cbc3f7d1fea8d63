package dataset

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/csv-analyst/backend/internal/models"
)

// ParseCSV reads a CSV stream into a Table. The first record is the header.
// Records with fewer fields than the header are padded with nulls; records
// with more fields than the header fail the parse.
func ParseCSV(sourceName string, r io.Reader) (*models.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: file is empty", models.ErrParse)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", models.ErrParse, err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrParse, err)
		}
		if len(record) > len(header) {
			return nil, fmt.Errorf("%w: record %d has %d fields, expected %d",
				models.ErrParse, len(rows)+2, len(record), len(header))
		}
		rows = append(rows, record)
	}

	return buildTable(sourceName, header, rows)
}
