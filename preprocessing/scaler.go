package preprocessing

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/buildingml/dataset"
	"github.com/YuminosukeSato/buildingml/pkg/errors"
)

// minScale is the smallest standard deviation treated as non-constant;
// anything below scales by 1.
const minScale = 1e-8

// StandardScaler holds the statistics that map one numeric column to zero
// mean and unit variance.
type StandardScaler struct {
	// Column is the source column name.
	Column string

	// Mean is the column mean on the training rows.
	Mean float64

	// Scale is the population standard deviation, or 1 for a constant column.
	Scale float64
}

// fitScaler computes the population mean and standard deviation of col.
// A missing cell is a ValueError; NaN or Inf is a NumericalInstabilityError.
func fitScaler(col *dataset.Column) (StandardScaler, error) {
	if n := col.MissingCount(); n > 0 {
		return StandardScaler{}, errors.NewValueError("preprocessing.Fit",
			"numerical column '"+col.Name()+"' contains missing values")
	}
	values := col.Floats()
	if err := errors.CheckNumericalStability("preprocessing.Fit("+col.Name()+")", values); err != nil {
		return StandardScaler{}, err
	}

	mean, std := stat.PopMeanStdDev(values, nil)
	if math.Abs(std) < minScale || math.IsNaN(std) {
		std = 1.0
	}
	return StandardScaler{Column: col.Name(), Mean: mean, Scale: std}, nil
}

// Apply standardizes v.
func (s StandardScaler) Apply(v float64) float64 {
	return (v - s.Mean) / s.Scale
}

// Inverse maps a standardized value back to the original scale.
func (s StandardScaler) Inverse(z float64) float64 {
	return z*s.Scale + s.Mean
}
