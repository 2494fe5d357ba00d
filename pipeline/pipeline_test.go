package pipeline

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/buildingml/cleaning"
	"github.com/YuminosukeSato/buildingml/dataset"
	"github.com/YuminosukeSato/buildingml/pkg/errors"
	"github.com/YuminosukeSato/buildingml/pkg/log"
	"github.com/YuminosukeSato/buildingml/preprocessing"
)

var regionEffect = map[string]float64{"a": 0, "b": 10, "c": -5}

// buildings generates n records whose rent is an exact linear function of
// usable area, building age and region.
func buildings(t *testing.T, n int) *dataset.Dataset {
	t.Helper()
	rawRegions := []string{"A", "b ", "c!"}
	regions := []string{"a", "b", "c"}

	rows := make([]dataset.Row, n)
	for i := range rows {
		year := 1950 + i
		area := float64((i*37)%101 + 50)
		age := float64(2023 - year)
		rows[i] = dataset.Row{
			"Construction Date": time.Date(year, time.Month(i%12+1), 10, 0, 0, 0, 0, time.UTC).Format("02-Jan-2006"),
			"Bldg ANSI Usable":  area,
			"Region":            rawRegions[i%3],
			"Label":             fmt.Sprintf("bldg-%d", i),
			"Rent":              100 + 2*area - 3*age + regionEffect[regions[i%3]],
		}
	}
	ds, err := dataset.FromRows(dataset.Schema{
		{Name: "Construction Date", Kind: dataset.Text},
		{Name: "Bldg ANSI Usable", Kind: dataset.Numeric},
		{Name: "Region", Kind: dataset.Categorical},
		{Name: "Label", Kind: dataset.Text},
		{Name: "Rent", Kind: dataset.Numeric},
	}, rows)
	require.NoError(t, err)
	return ds
}

func testConfig() Config {
	return Config{
		Target:        "Rent",
		Fill:          []FillStep{{Column: "Bldg ANSI Usable", Method: cleaning.FillMedian}},
		Outliers:      []OutlierStep{{Column: "Bldg ANSI Usable", Method: cleaning.OutlierIQR}},
		TextColumns:   []string{"Region"},
		DateColumn:    "Construction Date",
		ReferenceYear: 2023,
		AgeColumn:     "Building Age",
		Features: preprocessing.ColumnSpec{
			Numerical:   []string{"Bldg ANSI Usable", "Building Age"},
			Categorical: []string{"Region"},
		},
		TestSize: 0.25,
		Seed:     42,
	}
}

func newTestPipeline(t *testing.T, cfg Config) (*Pipeline, *log.TestLogger) {
	t.Helper()
	_, tl := log.NewTestLoggerProvider(log.LevelDebug)
	p, err := New(cfg, WithLogger(tl))
	require.NoError(t, err)
	return p, tl
}

func TestRunExactLinearData(t *testing.T) {
	p, tl := newTestPipeline(t, testConfig())

	trained, result, err := p.Run(buildings(t, 40))
	require.NoError(t, err)
	require.NotNil(t, trained)

	assert.InDelta(t, 0, result.MSE, 1e-9)
	assert.InDelta(t, 1, result.R2, 1e-9)
	assert.Equal(t, "Rent", trained.Target)
	assert.Equal(t,
		[]string{"Bldg ANSI Usable", "Building Age", "Region=a", "Region=b", "Region=c"},
		sortRegionBlock(trained.FeatureNames()))
	assert.True(t, tl.ContainsMessage("Pipeline finished"))
}

// sortRegionBlock orders the one-hot names, which follow first appearance
// in the shuffled train split.
func sortRegionBlock(names []string) []string {
	out := append([]string(nil), names...)
	block := out[2:]
	for i := range block {
		for j := i + 1; j < len(block); j++ {
			if block[j] < block[i] {
				block[i], block[j] = block[j], block[i]
			}
		}
	}
	return out
}

func TestRunDeterministic(t *testing.T) {
	p, _ := newTestPipeline(t, testConfig())
	ds := buildings(t, 30)

	m1, r1, err := p.Run(ds)
	require.NoError(t, err)
	m2, r2, err := p.Run(ds)
	require.NoError(t, err)

	assert.Equal(t, r1, r2)
	assert.Equal(t, m1.Transform, m2.Transform)
	assert.Equal(t, m1.Regression.Coefficients(), m2.Regression.Coefficients())
	assert.NotEqual(t, m1.ID, m2.ID)
}

func TestPrepareCoercesBadDates(t *testing.T) {
	ds := buildings(t, 12)
	dates, _ := ds.Column("Construction Date")
	values := dates.Strings()
	values[3] = "sometime in 1990"
	values[7] = "1990/01/01"
	ds, err := ds.WithColumn(dataset.NewTextColumn("Construction Date", values, nil))
	require.NoError(t, err)

	p, tl := newTestPipeline(t, testConfig())
	prepared, err := p.Prepare(ds)
	require.NoError(t, err)

	assert.Equal(t, 10, prepared.NumRows())
	assert.True(t, prepared.Has("Building Age"))
	entry, ok := tl.Entry("Unparsable dates coerced to missing")
	require.True(t, ok)
	assert.Equal(t, float64(2), entry["failed"])
	assert.Equal(t, float64(12), entry["total"])

	region, _ := prepared.Column("Region")
	for _, v := range region.Strings() {
		assert.Contains(t, regionEffect, v)
	}
}

func TestRunReportsAllMissingColumns(t *testing.T) {
	cfg := testConfig()
	cfg.Fill = append(cfg.Fill, FillStep{Column: "Floors", Method: cleaning.FillMode})
	cfg.Features.Categorical = []string{"Region", "Borough"}
	p, _ := newTestPipeline(t, cfg)

	_, _, err := p.Run(buildings(t, 10))
	var me *errors.MissingColumnsError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, []string{"Floors", "Borough"}, me.Columns)
}

func TestRunRejectsNonNumericTarget(t *testing.T) {
	cfg := testConfig()
	cfg.Target = "Label"
	p, _ := newTestPipeline(t, cfg)

	_, _, err := p.Run(buildings(t, 10))
	var te *errors.ColumnTypeError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "Label", te.Column)
}

func TestNewValidatesConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		check  func(error) bool
	}{
		{"empty target", func(c *Config) { c.Target = "" }, isValidation},
		{"test size zero", func(c *Config) { c.TestSize = 0 }, isValidation},
		{"test size one", func(c *Config) { c.TestSize = 1 }, isValidation},
		{"reference year", func(c *Config) { c.ReferenceYear = 0 }, isValidation},
		{"target as feature", func(c *Config) { c.Features.Numerical = append(c.Features.Numerical, "Rent") }, isValidation},
		{"no features", func(c *Config) { c.Features = preprocessing.ColumnSpec{} }, isValidation},
		{"fill method", func(c *Config) { c.Fill[0].Method = "max" }, isInvalidMethod},
		{"outlier method", func(c *Config) { c.Outliers[0].Method = "MAD" }, isInvalidMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			_, err := New(cfg)
			assert.True(t, tt.check(err), "unexpected error %v", err)
		})
	}
}

func isValidation(err error) bool {
	var e *errors.ValidationError
	return errors.As(err, &e)
}

func isInvalidMethod(err error) bool {
	var e *errors.InvalidMethodError
	return errors.As(err, &e)
}

func TestTrainedModelSaveLoad(t *testing.T) {
	p, _ := newTestPipeline(t, testConfig())
	ds := buildings(t, 40)
	trained, _, err := p.Run(ds)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, trained.Save(&buf))
	loaded, err := Load(&buf)
	require.NoError(t, err)

	assert.Equal(t, trained.ID, loaded.ID)
	assert.Equal(t, trained.Transform, loaded.Transform)

	prepared, err := p.Prepare(ds)
	require.NoError(t, err)
	want, err := trained.Predict(prepared)
	require.NoError(t, err)
	got, err := loaded.Predict(prepared)
	require.NoError(t, err)
	assert.Equal(t, want.RawVector().Data, got.RawVector().Data)

	rent, _ := prepared.Column("Rent")
	for i, v := range rent.Floats() {
		assert.InDelta(t, v, got.AtVec(i), 1e-6)
	}
}
