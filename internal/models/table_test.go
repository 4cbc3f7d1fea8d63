package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func column(name string, kind ColumnKind, cells ...string) Column {
	c := Column{Name: name, Kind: kind, Cells: make([]string, len(cells)), Valid: make([]bool, len(cells))}
	for i, cell := range cells {
		if cell != "" {
			c.Cells[i] = cell
			c.Valid[i] = true
		}
	}
	return c
}

func sampleTable(t *testing.T) *Table {
	t.Helper()
	table, err := NewTable("sample.csv", []Column{
		column("Survived", KindBoolean, "0", "1", "1", "0", ""),
		column("Age", KindNumeric, "22", "38", "", "35", "35"),
		column("Sex", KindCategorical, "male", "female", "female", "male", "male"),
	})
	require.NoError(t, err)
	return table
}

func TestNewTableRejectsRaggedColumns(t *testing.T) {
	_, err := NewTable("bad.csv", []Column{
		column("a", KindNumeric, "1", "2"),
		column("b", KindNumeric, "1"),
	})
	assert.Error(t, err)
}

func TestColumnLookupIsCaseInsensitive(t *testing.T) {
	table := sampleTable(t)

	col, ok := table.Column("age")
	require.True(t, ok)
	assert.Equal(t, "Age", col.Name)

	_, ok = table.Column("fare")
	assert.False(t, ok)

	col, ok = table.AnyColumn("fare", "SEX")
	require.True(t, ok)
	assert.Equal(t, "Sex", col.Name)
}

func TestNumericLikeIncludesBooleans(t *testing.T) {
	table := sampleTable(t)

	var names []string
	for _, c := range table.NumericLikeColumns() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Survived", "Age"}, names)
}

func TestNullAccounting(t *testing.T) {
	table := sampleTable(t)

	assert.Equal(t, 15, table.TotalCells())
	assert.Equal(t, 13, table.NonNullCells())

	age, _ := table.Column("Age")
	assert.Equal(t, 4, age.NonNull())
	assert.Equal(t, 1, age.Nulls())
}

func TestValueCountsOrdering(t *testing.T) {
	sex, _ := sampleTable(t).Column("Sex")

	assert.Equal(t, []ValueCount{
		{Value: "male", Count: 3},
		{Value: "female", Count: 2},
	}, sex.ValueCounts())
}

func TestValueCountsTiesBreakByValue(t *testing.T) {
	c := column("c", KindCategorical, "b", "a", "a", "b")
	assert.Equal(t, []ValueCount{
		{Value: "a", Count: 2},
		{Value: "b", Count: 2},
	}, c.ValueCounts())
}

func TestTruthyCountSkipsNullsAndUnknowns(t *testing.T) {
	c := column("flag", KindBoolean, "1", "yes", "FALSE", "", "maybe")
	trueN, falseN := c.TruthyCount()
	assert.Equal(t, 2, trueN)
	assert.Equal(t, 1, falseN)
}

func TestFloatAt(t *testing.T) {
	table := sampleTable(t)

	survived, _ := table.Column("Survived")
	v, ok := survived.FloatAt(1)
	require.True(t, ok)
	assert.Equal(t, 1.0, v)
	_, ok = survived.FloatAt(4)
	assert.False(t, ok)

	sex, _ := table.Column("Sex")
	_, ok = sex.FloatAt(0)
	assert.False(t, ok)

	age, _ := table.Column("Age")
	v, ok = age.FloatAt(0)
	require.True(t, ok)
	assert.Equal(t, 22.0, v)
}

func TestDuplicateRows(t *testing.T) {
	table, err := NewTable("dups.csv", []Column{
		column("a", KindNumeric, "1", "1", "2", "1"),
		column("b", KindCategorical, "x", "x", "y", "x"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, table.DuplicateRows())
}
