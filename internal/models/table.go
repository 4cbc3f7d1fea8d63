package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ColumnKind classifies the scalar type of a column.
type ColumnKind string

const (
	KindNumeric     ColumnKind = "numeric"
	KindCategorical ColumnKind = "categorical"
	KindBoolean     ColumnKind = "boolean"
	KindDatetime    ColumnKind = "datetime"
)

// Column is a single named column of a Table. Cells are stored as raw text
// with a parallel validity slice; an invalid cell is a null.
type Column struct {
	Name  string     `json:"name" msgpack:"name"`
	Kind  ColumnKind `json:"kind" msgpack:"kind"`
	Cells []string   `json:"cells" msgpack:"cells"`
	Valid []bool     `json:"valid" msgpack:"valid"`
}

// Table is an in-memory columnar dataset. All columns have the same row
// count; NewTable enforces this.
type Table struct {
	SourceName string   `json:"sourceName" msgpack:"sourceName"`
	Columns    []Column `json:"columns" msgpack:"columns"`
	RowCount   int      `json:"rowCount" msgpack:"rowCount"`
}

// NewTable builds a Table from columns, verifying the equal-row-count
// invariant.
func NewTable(sourceName string, cols []Column) (*Table, error) {
	rows := 0
	for i, c := range cols {
		if len(c.Cells) != len(c.Valid) {
			return nil, fmt.Errorf("column %q: cells/validity length mismatch", c.Name)
		}
		if i == 0 {
			rows = len(c.Cells)
			continue
		}
		if len(c.Cells) != rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", c.Name, len(c.Cells), rows)
		}
	}
	return &Table{SourceName: sourceName, Columns: cols, RowCount: rows}, nil
}

// Rows returns the number of rows.
func (t *Table) Rows() int { return t.RowCount }

// Cols returns the number of columns.
func (t *Table) Cols() int { return len(t.Columns) }

// ColumnNames returns the ordered column names.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name, case-insensitively.
func (t *Table) Column(name string) (*Column, bool) {
	for i := range t.Columns {
		if strings.EqualFold(t.Columns[i].Name, name) {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// AnyColumn returns the first column matching any of the given names,
// case-insensitively, trying names in the order given.
func (t *Table) AnyColumn(names ...string) (*Column, bool) {
	for _, name := range names {
		if c, ok := t.Column(name); ok {
			return c, true
		}
	}
	return nil, false
}

// ColumnsOfKind returns columns of the given kind, in table order.
func (t *Table) ColumnsOfKind(kind ColumnKind) []*Column {
	var out []*Column
	for i := range t.Columns {
		if t.Columns[i].Kind == kind {
			out = append(out, &t.Columns[i])
		}
	}
	return out
}

// NumericColumns returns the numeric columns in table order.
func (t *Table) NumericColumns() []*Column { return t.ColumnsOfKind(KindNumeric) }

// CategoricalColumns returns the categorical columns in table order.
func (t *Table) CategoricalColumns() []*Column { return t.ColumnsOfKind(KindCategorical) }

// DatetimeColumns returns the datetime columns in table order.
func (t *Table) DatetimeColumns() []*Column { return t.ColumnsOfKind(KindDatetime) }

// NumericLikeColumns returns numeric and boolean columns in table order.
// Boolean cells encode as 0/1 wherever arithmetic is needed, so both kinds
// participate in correlation and histogram passes.
func (t *Table) NumericLikeColumns() []*Column {
	var out []*Column
	for i := range t.Columns {
		if t.Columns[i].Kind == KindNumeric || t.Columns[i].Kind == KindBoolean {
			out = append(out, &t.Columns[i])
		}
	}
	return out
}

// TotalCells returns rows x columns.
func (t *Table) TotalCells() int { return t.Rows() * t.Cols() }

// NonNullCells counts valid cells across all columns.
func (t *Table) NonNullCells() int {
	n := 0
	for i := range t.Columns {
		n += t.Columns[i].NonNull()
	}
	return n
}

// DuplicateRows counts rows identical to an earlier row across all columns.
func (t *Table) DuplicateRows() int {
	if t.Rows() == 0 || t.Cols() == 0 {
		return 0
	}
	seen := make(map[string]struct{}, t.Rows())
	dups := 0
	var sb strings.Builder
	for r := 0; r < t.Rows(); r++ {
		sb.Reset()
		for i := range t.Columns {
			if t.Columns[i].Valid[r] {
				sb.WriteString(t.Columns[i].Cells[r])
			}
			sb.WriteByte(0x1f)
		}
		key := sb.String()
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}

// NonNull counts valid cells in the column.
func (c *Column) NonNull() int {
	n := 0
	for _, v := range c.Valid {
		if v {
			n++
		}
	}
	return n
}

// Nulls counts invalid cells in the column.
func (c *Column) Nulls() int { return len(c.Valid) - c.NonNull() }

// Strings returns the non-null cell values in row order.
func (c *Column) Strings() []string {
	out := make([]string, 0, len(c.Cells))
	for i, cell := range c.Cells {
		if c.Valid[i] {
			out = append(out, cell)
		}
	}
	return out
}

// Float64s returns the non-null cells that parse as numbers, in row order.
func (c *Column) Float64s() []float64 {
	out := make([]float64, 0, len(c.Cells))
	for i, cell := range c.Cells {
		if !c.Valid[i] {
			continue
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err == nil {
			out = append(out, f)
		}
	}
	return out
}

// FloatAt parses a single cell as a number, mapping boolean vocabulary to
// 0/1. The second return is false for null or unparseable cells.
func (c *Column) FloatAt(row int) (float64, bool) {
	if row < 0 || row >= len(c.Cells) || !c.Valid[row] {
		return 0, false
	}
	v := strings.ToLower(strings.TrimSpace(c.Cells[row]))
	switch v {
	case "true", "yes", "y":
		return 1, true
	case "false", "no", "n":
		return 0, true
	}
	f, err := strconv.ParseFloat(v, 64)
	return f, err == nil
}

// Sample returns up to n non-null cell values.
func (c *Column) Sample(n int) []string {
	out := make([]string, 0, n)
	for i, cell := range c.Cells {
		if len(out) >= n {
			break
		}
		if c.Valid[i] {
			out = append(out, cell)
		}
	}
	return out
}

// ValueCount pairs a distinct cell value with its occurrence count.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ValueCounts returns distinct non-null values ordered by count descending,
// ties broken by value ascending.
func (c *Column) ValueCounts() []ValueCount {
	counts := make(map[string]int)
	for i, cell := range c.Cells {
		if c.Valid[i] {
			counts[cell]++
		}
	}
	out := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	sortValueCounts(out)
	return out
}

// Unique returns the number of distinct non-null values.
func (c *Column) Unique() int {
	seen := make(map[string]struct{})
	for i, cell := range c.Cells {
		if c.Valid[i] {
			seen[cell] = struct{}{}
		}
	}
	return len(seen)
}

// TruthyCount counts non-null cells interpreted as boolean true / false.
// Cells outside the recognized vocabulary count for neither.
func (c *Column) TruthyCount() (trueN, falseN int) {
	for i, cell := range c.Cells {
		if !c.Valid[i] {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case "1", "true", "yes", "y":
			trueN++
		case "0", "false", "no", "n":
			falseN++
		}
	}
	return trueN, falseN
}

func sortValueCounts(vcs []ValueCount) {
	sort.Slice(vcs, func(i, j int) bool {
		if vcs[i].Count == vcs[j].Count {
			return vcs[i].Value < vcs[j].Value
		}
		return vcs[i].Count > vcs[j].Count
	})
}
