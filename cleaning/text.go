package cleaning

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/YuminosukeSato/buildingml/dataset"
	"github.com/YuminosukeSato/buildingml/pkg/log"
)

// CleanText normalises the string cells of column: NFC composition,
// lowercasing, removal of every rune that is not a letter, digit,
// underscore or whitespace, and trimming. Missing cells stay missing.
// Applying it twice gives the same result as applying it once.
func (c *Cleaner) CleanText(ds *dataset.Dataset, column string) (*dataset.Dataset, error) {
	col, err := dataset.RequireKind(ds, "CleanText", column, dataset.Categorical, dataset.Text)
	if err != nil {
		return nil, err
	}

	lower := cases.Lower(language.Und)
	values := col.Strings()
	changed := 0
	for i, v := range values {
		if col.IsMissing(i) {
			continue
		}
		cleaned := cleanString(lower, v)
		if cleaned != v {
			changed++
		}
		values[i] = cleaned
	}

	out, err := ds.WithColumn(dataset.NewStringColumn(column, col.Kind(), values, col.Valid()))
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Text column cleaned",
		log.OperationKey, "clean_text",
		log.ColumnKey, column,
		"changed", changed,
	)
	return out, nil
}

func cleanString(lower cases.Caser, s string) string {
	s = lower.String(norm.NFC.String(s))
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
	return strings.TrimSpace(s)
}
