package dataset

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csv-analyst/backend/internal/models"
)

const manifestCSV = `PassengerId,Survived,Pclass,Sex,Age,Fare,Embarked
1,0,3,male,22,7.25,S
2,1,1,female,38,71.28,C
3,1,3,female,26,7.92,S
4,1,1,female,,53.1,S
`

func TestLoadCSV(t *testing.T) {
	table, err := Load("manifest.csv", []byte(manifestCSV))
	require.NoError(t, err)

	assert.Equal(t, "manifest.csv", table.SourceName)
	assert.Equal(t, 4, table.Rows())
	assert.Equal(t, 7, table.Cols())
	assert.Equal(t,
		[]string{"PassengerId", "Survived", "Pclass", "Sex", "Age", "Fare", "Embarked"},
		table.ColumnNames())
}

func TestLoadUnsupportedExtension(t *testing.T) {
	for _, name := range []string{"data.txt", "data.json", "data", "data.csv.gz"} {
		_, err := Load(name, []byte("a,b\n1,2\n"))
		assert.ErrorIs(t, err, models.ErrUnsupportedFormat, name)
	}
}

func TestLoadCaseInsensitiveExtension(t *testing.T) {
	_, err := Load("DATA.CSV", []byte("a,b\n1,2\n"))
	assert.NoError(t, err)
}

func TestParseCSVEmptyFile(t *testing.T) {
	_, err := ParseCSV("empty.csv", strings.NewReader(""))
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrParse)
	assert.Contains(t, err.Error(), "file is empty")
}

func TestParseCSVShortRowsPaddedWithNulls(t *testing.T) {
	table, err := ParseCSV("short.csv", strings.NewReader("a,b,c\n1,2\n4,5,6\n"))
	require.NoError(t, err)

	col, ok := table.Column("c")
	require.True(t, ok)
	assert.False(t, col.Valid[0])
	assert.True(t, col.Valid[1])
	assert.Equal(t, "6", col.Cells[1])
}

func TestParseCSVLongRowsRejected(t *testing.T) {
	_, err := ParseCSV("long.csv", strings.NewReader("a,b\n1,2\n3,4,5\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrParse)
	assert.Contains(t, err.Error(), "record 3 has 3 fields, expected 2")
}

func TestParseCSVBlankHeaderNamesFilled(t *testing.T) {
	table, err := ParseCSV("anon.csv", strings.NewReader("a,,c\n1,2,3\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "column_2", "c"}, table.ColumnNames())
}

func TestInferKinds(t *testing.T) {
	csv := strings.Join([]string{
		"id,flag,label,amount,when,empty",
		"1,0,red,1.5,2024-01-02,",
		"2,1,blue,2.25,2024-02-03,",
		"3,yes,red,3.75,2024-03-04,",
	}, "\n")

	table, err := ParseCSV("kinds.csv", strings.NewReader(csv))
	require.NoError(t, err)

	kinds := map[string]models.ColumnKind{}
	for _, name := range table.ColumnNames() {
		col, _ := table.Column(name)
		kinds[name] = col.Kind
	}

	assert.Equal(t, models.KindNumeric, kinds["id"])
	assert.Equal(t, models.KindBoolean, kinds["flag"])
	assert.Equal(t, models.KindCategorical, kinds["label"])
	assert.Equal(t, models.KindNumeric, kinds["amount"])
	assert.Equal(t, models.KindDatetime, kinds["when"])
	assert.Equal(t, models.KindCategorical, kinds["empty"])
}

func TestInferKindMixedFallsBackToCategorical(t *testing.T) {
	table, err := ParseCSV("mixed.csv", strings.NewReader("v\n1\ntwo\n3\n"))
	require.NoError(t, err)
	col, _ := table.Column("v")
	assert.Equal(t, models.KindCategorical, col.Kind)
}

// buildXLSX assembles a minimal single-sheet workbook with shared strings.
func buildXLSX(t *testing.T, sheetXML, sharedXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	files := map[string]string{
		"xl/workbook.xml": `<?xml version="1.0"?>
<workbook xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <sheets><sheet name="Sheet1" sheetId="1" r:id="rId1"/></sheets>
</workbook>`,
		"xl/_rels/workbook.xml.rels": `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/>
</Relationships>`,
		"xl/worksheets/sheet1.xml": sheetXML,
	}
	if sharedXML != "" {
		files["xl/sharedStrings.xml"] = sharedXML
	}
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestParseXLSX(t *testing.T) {
	sheet := `<?xml version="1.0"?>
<worksheet>
  <sheetData>
    <row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c></row>
    <row r="2"><c r="A2" t="s"><v>2</v></c><c r="B2"><v>34</v></c></row>
    <row r="3"><c r="A3" t="s"><v>3</v></c><c r="B3"><v>28</v></c></row>
  </sheetData>
</worksheet>`
	shared := `<?xml version="1.0"?>
<sst count="4" uniqueCount="4">
  <si><t>Name</t></si><si><t>Age</t></si><si><t>Alice</t></si><si><t>Bob</t></si>
</sst>`

	table, err := Load("people.xlsx", buildXLSX(t, sheet, shared))
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Age"}, table.ColumnNames())
	assert.Equal(t, 2, table.Rows())

	name, _ := table.Column("Name")
	assert.Equal(t, []string{"Alice", "Bob"}, name.Cells)
	age, _ := table.Column("Age")
	assert.Equal(t, models.KindNumeric, age.Kind)
}

func TestParseXLSXSparseCells(t *testing.T) {
	// Row 2 skips column B entirely; the reader must leave a null there.
	sheet := `<?xml version="1.0"?>
<worksheet>
  <sheetData>
    <row r="1">
      <c r="A1" t="inlineStr"><is><t>a</t></is></c>
      <c r="B1" t="inlineStr"><is><t>b</t></is></c>
      <c r="C1" t="inlineStr"><is><t>c</t></is></c>
    </row>
    <row r="2"><c r="A2"><v>1</v></c><c r="C2"><v>3</v></c></row>
  </sheetData>
</worksheet>`

	table, err := ParseXLSX("sparse.xlsx", buildXLSX(t, sheet, ""))
	require.NoError(t, err)

	b, ok := table.Column("b")
	require.True(t, ok)
	assert.False(t, b.Valid[0])
	c, _ := table.Column("c")
	assert.Equal(t, "3", c.Cells[0])
}

func TestParseXLSXNotAnArchive(t *testing.T) {
	_, err := Load("broken.xlsx", []byte("definitely not a zip"))
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrParse)
}

func TestColumnIndex(t *testing.T) {
	cases := map[string]int{"A1": 0, "B2": 1, "Z9": 25, "AA10": 26, "AB1": 27, "12": -1}
	for ref, want := range cases {
		assert.Equal(t, want, columnIndex(ref), ref)
	}
}
