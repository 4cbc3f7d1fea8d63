package dataset

import (
	"strconv"
	"strings"
	"time"

	"github.com/csv-analyst/backend/internal/models"
)

var boolVocabulary = map[string]struct{}{
	"0": {}, "1": {}, "true": {}, "false": {}, "yes": {}, "no": {},
}

var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"02-Jan-2006",
}

// inferKind classifies a column from its non-null cells: boolean when every
// value is in the 0/1/true/false/yes/no vocabulary, numeric when every value
// parses as a float, datetime when at least 60% of values parse as dates,
// categorical otherwise. Columns with no non-null cells default to
// categorical.
func inferKind(c *models.Column) models.ColumnKind {
	nonNull := 0
	boolean := 0
	numeric := 0
	datetime := 0
	for i, cell := range c.Cells {
		if !c.Valid[i] {
			continue
		}
		nonNull++
		v := strings.ToLower(strings.TrimSpace(cell))
		if _, ok := boolVocabulary[v]; ok {
			boolean++
		}
		if _, err := strconv.ParseFloat(v, 64); err == nil {
			numeric++
		} else if parsesAsTime(cell) {
			datetime++
		}
	}
	switch {
	case nonNull == 0:
		return models.KindCategorical
	case boolean == nonNull:
		return models.KindBoolean
	case numeric == nonNull:
		return models.KindNumeric
	case float64(datetime)/float64(nonNull) >= 0.6:
		return models.KindDatetime
	default:
		return models.KindCategorical
	}
}

func parsesAsTime(s string) bool {
	s = strings.TrimSpace(s)
	for _, layout := range datetimeLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
