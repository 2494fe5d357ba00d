// Package cleaning implements the dataset cleaning stage: missing-value
// imputation and removal, outlier filtering, datetime parsing and text
// normalisation.
//
// Every operation validates its arguments before touching any data and
// returns a new Dataset; the input Dataset is never modified.
package cleaning

import (
	"math"
	"time"

	"github.com/YuminosukeSato/buildingml/dataset"
	"github.com/YuminosukeSato/buildingml/pkg/errors"
	"github.com/YuminosukeSato/buildingml/pkg/log"
)

// Cleaner applies cleaning operations to datasets.
type Cleaner struct {
	logger log.Logger
}

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithLogger sets the logger used for per-operation reports.
func WithLogger(l log.Logger) Option {
	return func(c *Cleaner) {
		c.logger = l
	}
}

// New creates a Cleaner.
func New(opts ...Option) *Cleaner {
	c := &Cleaner{}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.GetLoggerWithName("cleaning")
	}
	return c
}

// FillMissing replaces the missing cells of column with the mean, median
// or mode of its present values. Mean and median require a numeric
// column; mode accepts any kind and resolves ties to the smallest value.
// A column without present values is returned unchanged and a warning is
// logged.
func (c *Cleaner) FillMissing(ds *dataset.Dataset, column string, method FillMethod) (*dataset.Dataset, error) {
	const op = "FillMissing"

	col, ok := ds.Column(column)
	if !ok {
		return nil, errors.NewUnknownColumnError(op, column)
	}
	if err := method.Validate(); err != nil {
		return nil, err
	}
	if method != FillMode {
		if _, err := dataset.RequireKind(ds, op, column, dataset.Numeric); err != nil {
			return nil, err
		}
	}

	missing := col.MissingCount()
	if missing == 0 {
		return ds, nil
	}

	filled, ok := fillColumn(col, method)
	if !ok {
		c.logger.Warn("Fill statistic undefined, column left unchanged",
			log.OperationKey, "fill_missing",
			log.ColumnKey, column,
			log.MethodKey, string(method),
		)
		return ds, nil
	}

	out, err := ds.WithColumn(filled)
	if err != nil {
		return nil, err
	}
	c.logger.Info("Missing values filled",
		log.OperationKey, "fill_missing",
		log.ColumnKey, column,
		log.MethodKey, string(method),
		log.CellsFilledKey, missing,
	)
	return out, nil
}

func fillColumn(col *dataset.Column, method FillMethod) (*dataset.Column, bool) {
	switch col.Kind() {
	case dataset.Numeric:
		present := col.PresentFloats()
		var v float64
		switch method {
		case FillMean:
			v = mean(present)
		case FillMedian:
			v = median(present)
		default:
			var ok bool
			if v, ok = floatMode(present); !ok {
				v = math.NaN()
			}
		}
		if math.IsNaN(v) {
			return nil, false
		}
		values := col.Floats()
		for i := range values {
			if col.IsMissing(i) {
				values[i] = v
			}
		}
		return dataset.NewNumericColumn(col.Name(), values), true

	case dataset.Datetime:
		var present []time.Time
		for i := 0; i < col.Len(); i++ {
			if !col.IsMissing(i) {
				present = append(present, col.Time(i))
			}
		}
		v, ok := timeMode(present)
		if !ok {
			return nil, false
		}
		values := col.Times()
		for i := range values {
			if col.IsMissing(i) {
				values[i] = v
			}
		}
		return dataset.NewDatetimeColumn(col.Name(), values), true

	default:
		var present []string
		for i := 0; i < col.Len(); i++ {
			if !col.IsMissing(i) {
				present = append(present, col.Str(i))
			}
		}
		v, ok := stringMode(present)
		if !ok {
			return nil, false
		}
		values := col.Strings()
		for i := range values {
			if col.IsMissing(i) {
				values[i] = v
			}
		}
		return dataset.NewStringColumn(col.Name(), col.Kind(), values, nil), true
	}
}

// DropMissing removes every row that has a missing cell in any column.
func (c *Cleaner) DropMissing(ds *dataset.Dataset) *dataset.Dataset {
	out := ds.Filter(func(i int) bool { return !ds.RowHasMissing(i) })
	if dropped := ds.NumRows() - out.NumRows(); dropped > 0 {
		c.logger.Info("Rows with missing values dropped",
			log.OperationKey, "drop_missing",
			log.RowsDroppedKey, dropped,
			log.SamplesKey, out.NumRows(),
		)
	}
	return out
}

// RemoveOutliers drops every row whose value in column is extreme under
// method. The column must be numeric. Rows with a missing value in the
// column cannot satisfy the bounds and are dropped as well. Kept rows are
// not altered.
func (c *Cleaner) RemoveOutliers(ds *dataset.Dataset, column string, method OutlierMethod) (*dataset.Dataset, error) {
	const op = "RemoveOutliers"

	if !ds.Has(column) {
		return nil, errors.NewUnknownColumnError(op, column)
	}
	if err := method.Validate(); err != nil {
		return nil, err
	}
	col, err := dataset.RequireKind(ds, op, column, dataset.Numeric)
	if err != nil {
		return nil, err
	}

	present := col.PresentFloats()
	var keep func(v float64) bool
	switch method {
	case OutlierIQR:
		lower, upper := iqrBounds(present)
		keep = func(v float64) bool { return v >= lower && v <= upper }
	case OutlierZScore:
		keep = zScoreKeep(present)
	}

	out := ds.Filter(func(i int) bool {
		return !col.IsMissing(i) && keep(col.Float(i))
	})
	c.logger.Info("Outliers removed",
		log.OperationKey, "remove_outliers",
		log.ColumnKey, column,
		log.MethodKey, string(method),
		log.RowsDroppedKey, ds.NumRows()-out.NumRows(),
	)
	return out, nil
}
