// Package features derives model inputs from cleaned building records.
package features

import (
	"math"

	"github.com/YuminosukeSato/buildingml/dataset"
	"github.com/YuminosukeSato/buildingml/pkg/errors"
	"github.com/YuminosukeSato/buildingml/pkg/log"
)

const (
	DefaultDateColumn = "Construction Date"
	DefaultAgeColumn  = "Building Age"
)

// Deriver appends the building age and enforces row completeness.
type Deriver struct {
	referenceYear int
	dateColumn    string
	ageColumn     string
	logger        log.Logger
}

// Option configures a Deriver.
type Option func(*Deriver)

// WithDateColumn sets the construction date column.
func WithDateColumn(name string) Option {
	return func(d *Deriver) { d.dateColumn = name }
}

// WithAgeColumn sets the name of the derived age column.
func WithAgeColumn(name string) Option {
	return func(d *Deriver) { d.ageColumn = name }
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(d *Deriver) { d.logger = l }
}

// NewDeriver returns a Deriver computing ages relative to referenceYear.
func NewDeriver(referenceYear int, opts ...Option) (*Deriver, error) {
	if referenceYear <= 0 {
		return nil, errors.NewValidationError("referenceYear", "must be positive", referenceYear)
	}
	d := &Deriver{
		referenceYear: referenceYear,
		dateColumn:    DefaultDateColumn,
		ageColumn:     DefaultAgeColumn,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.dateColumn == "" {
		return nil, errors.NewValidationError("dateColumn", "must not be empty", d.dateColumn)
	}
	if d.ageColumn == "" {
		return nil, errors.NewValidationError("ageColumn", "must not be empty", d.ageColumn)
	}
	if d.logger == nil {
		d.logger = log.GetLoggerWithName("features")
	}
	return d, nil
}

// ReferenceYear returns the year ages are measured against.
func (d *Deriver) ReferenceYear() int { return d.referenceYear }

// AgeColumn returns the name of the derived column.
func (d *Deriver) AgeColumn() string { return d.ageColumn }

// Derive adds the age column (reference year minus construction year) and
// then drops every row that still has a missing cell. A missing date gives
// a missing age, so such rows are always dropped. An existing age column
// is replaced.
func (d *Deriver) Derive(ds *dataset.Dataset) (*dataset.Dataset, error) {
	const op = "Derive"

	if err := dataset.RequireColumns(ds, op, d.dateColumn); err != nil {
		return nil, err
	}
	dates, err := dataset.RequireKind(ds, op, d.dateColumn, dataset.Datetime)
	if err != nil {
		return nil, err
	}

	ages := make([]float64, dates.Len())
	for i := range ages {
		if dates.IsMissing(i) {
			ages[i] = math.NaN()
			continue
		}
		ages[i] = float64(d.referenceYear - dates.Time(i).Year())
	}

	withAge, err := ds.WithColumn(dataset.NewNumericColumn(d.ageColumn, ages))
	if err != nil {
		return nil, err
	}
	out := withAge.Filter(func(i int) bool { return !withAge.RowHasMissing(i) })

	d.logger.Info("Features derived",
		log.OperationKey, "derive",
		log.ReferenceYearKey, d.referenceYear,
		log.SamplesKey, out.NumRows(),
		log.RowsDroppedKey, ds.NumRows()-out.NumRows(),
	)
	return out, nil
}
