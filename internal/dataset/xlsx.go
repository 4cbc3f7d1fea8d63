package dataset

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/csv-analyst/backend/internal/models"
)

// ParseXLSX reads the first worksheet of an .xlsx workbook into a Table.
// The first row is the header. Only the subset of OOXML this app needs is
// handled: shared strings, inline strings and plain cell values.
func ParseXLSX(sourceName string, data []byte) (*models.Table, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a valid xlsx archive: %v", models.ErrParse, err)
	}

	sheetPath := firstSheetPath(zr)
	sheetXML := readZipEntry(zr, sheetPath)
	if len(sheetXML) == 0 {
		return nil, fmt.Errorf("%w: workbook has no readable worksheet", models.ErrParse)
	}
	shared := parseSharedStrings(readZipEntry(zr, "xl/sharedStrings.xml"))

	rr := newRowReader(sheetXML, shared)
	header, ok := rr.next()
	if !ok || len(header) == 0 {
		return nil, fmt.Errorf("%w: worksheet is empty", models.ErrParse)
	}

	var rows [][]string
	for {
		row, ok := rr.next()
		if !ok {
			break
		}
		rows = append(rows, row)
	}

	return buildTable(sourceName, header, rows)
}

// firstSheetPath resolves the zip path of the workbook's first sheet via
// workbook.xml and its relationships, falling back to the conventional
// sheet1.xml location.
func firstSheetPath(zr *zip.Reader) string {
	rels := parseRelationships(readZipEntry(zr, "xl/_rels/workbook.xml.rels"))
	if rid := firstSheetRID(readZipEntry(zr, "xl/workbook.xml")); rid != "" {
		if target, ok := rels[rid]; ok {
			target = strings.TrimPrefix(target, "/")
			if !strings.HasPrefix(target, "xl/") {
				target = "xl/" + target
			}
			return target
		}
	}
	return "xl/worksheets/sheet1.xml"
}

func firstSheetRID(data []byte) string {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return ""
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "sheet" {
			continue
		}
		for _, a := range se.Attr {
			if a.Name.Local == "id" {
				return a.Value
			}
		}
	}
}

func parseRelationships(data []byte) map[string]string {
	out := map[string]string{}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Relationship" {
			continue
		}
		var id, target string
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "Id":
				id = a.Value
			case "Target":
				target = a.Value
			}
		}
		if id != "" && target != "" {
			out[id] = target
		}
	}
}

func readZipEntry(zr *zip.Reader, name string) []byte {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil
		}
		defer rc.Close()
		b, _ := io.ReadAll(rc)
		return b
	}
	return nil
}

func parseSharedStrings(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var out []string
	var buf strings.Builder
	inT := false
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "si":
				buf.Reset()
			case "t":
				inT = true
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inT = false
			case "si":
				out = append(out, buf.String())
			}
		case xml.CharData:
			if inT {
				buf.Write(el)
			}
		}
	}
}

// rowReader iterates <row> elements of a worksheet, resolving shared
// strings and sparse cell references ("C12" means columns A and B are
// empty in that row).
type rowReader struct {
	dec    *xml.Decoder
	shared []string
}

func newRowReader(sheetXML []byte, shared []string) *rowReader {
	return &rowReader{dec: xml.NewDecoder(bytes.NewReader(sheetXML)), shared: shared}
}

func (r *rowReader) next() ([]string, bool) {
	var row []string
	inRow := false
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, false
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "row":
				inRow = true
				row = nil
			case "c":
				if !inRow {
					continue
				}
				var ref, typ string
				for _, a := range el.Attr {
					switch a.Name.Local {
					case "r":
						ref = a.Value
					case "t":
						typ = a.Value
					}
				}
				idx := columnIndex(ref)
				if idx < 0 {
					idx = len(row)
				}
				for len(row) <= idx {
					row = append(row, "")
				}
				row[idx] = r.cellValue(typ)
			}
		case xml.EndElement:
			if el.Name.Local == "row" {
				return row, true
			}
		}
	}
}

// cellValue consumes tokens until </c>, capturing <v> or inline <is><t>.
func (r *rowReader) cellValue(typ string) string {
	var val string
	capture := ""
	var buf strings.Builder
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return val
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local == "v" || el.Name.Local == "t" {
				capture = el.Name.Local
				buf.Reset()
			}
		case xml.CharData:
			if capture != "" {
				buf.Write(el)
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "v", "t":
				val = buf.String()
				capture = ""
			case "c":
				if typ == "s" {
					idx := atoiSafe(val)
					if idx >= 0 && idx < len(r.shared) {
						return r.shared[idx]
					}
					return ""
				}
				return val
			}
		}
	}
}

// columnIndex maps a cell reference like "C12" to a zero-based column
// index; -1 when the reference carries no letters.
func columnIndex(ref string) int {
	i := 0
	for i < len(ref) && ((ref[i] >= 'A' && ref[i] <= 'Z') || (ref[i] >= 'a' && ref[i] <= 'z')) {
		i++
	}
	if i == 0 {
		return -1
	}
	idx := 0
	for _, ch := range strings.ToUpper(ref[:i]) {
		idx = idx*26 + int(ch-'A'+1)
	}
	return idx - 1
}

func atoiSafe(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			break
		}
		n = n*10 + int(s[i]-'0')
	}
	return n
}
