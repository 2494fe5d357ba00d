package cleaning

import (
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/YuminosukeSato/buildingml/dataset"
	"github.com/YuminosukeSato/buildingml/pkg/errors"
	"github.com/YuminosukeSato/buildingml/pkg/log"
)

// DefaultDateFormat is the strftime pattern of dates such as "05-Mar-1998".
const DefaultDateFormat = "%d-%b-%Y"

// maxDateSamples bounds the offending values carried by a DateParseError.
const maxDateSamples = 5

// ConvertToDatetime parses the string cells of column with the strftime
// pattern format and replaces the column with a Datetime column.
//
// Values that do not match become missing cells. When at least one value
// failed, the converted Dataset is returned together with a
// *errors.DateParseError; callers that accept the coercion check for it
// with errors.As and carry on with the returned Dataset. A column that is
// already Datetime is returned unchanged.
func (c *Cleaner) ConvertToDatetime(ds *dataset.Dataset, column, format string) (*dataset.Dataset, error) {
	const op = "ConvertToDatetime"

	if format == "" {
		format = DefaultDateFormat
	}
	if _, err := strftime.Layout(format); err != nil {
		return nil, errors.NewValueError(op, "unsupported date format '"+format+"': "+err.Error())
	}
	col, err := dataset.RequireKind(ds, op, column, dataset.Categorical, dataset.Text, dataset.Datetime)
	if err != nil {
		return nil, err
	}
	if col.Kind() == dataset.Datetime {
		return ds, nil
	}

	times := make([]time.Time, col.Len())
	var total, failed int
	var samples []string
	for i := range times {
		if col.IsMissing(i) {
			continue
		}
		total++
		t, perr := strftime.Parse(format, col.Str(i))
		if perr != nil || t.IsZero() {
			failed++
			if len(samples) < maxDateSamples {
				samples = append(samples, col.Str(i))
			}
			continue
		}
		times[i] = t
	}

	out, err := ds.WithColumn(dataset.NewDatetimeColumn(column, times))
	if err != nil {
		return nil, err
	}
	c.logger.Info("Column converted to datetime",
		log.OperationKey, "convert_to_datetime",
		log.ColumnKey, column,
		"format", format,
		"failed", failed,
	)
	if failed > 0 {
		return out, errors.NewDateParseError(column, format, failed, total, samples)
	}
	return out, nil
}
