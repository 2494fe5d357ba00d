package dataset

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/buildingml/pkg/errors"
)

func buildings(t *testing.T) *Dataset {
	t.Helper()
	return MustNew(
		NewNumericColumn("Bldg ANSI Usable", []float64{1200, math.NaN(), 800, 950}),
		NewCategoricalColumn("Region Code", []string{"01", "02", "", "01"}, []bool{true, true, false, true}),
		NewDatetimeColumn("Construction Date", []time.Time{
			time.Date(1990, 1, 5, 0, 0, 0, 0, time.UTC),
			time.Date(2001, 3, 1, 0, 0, 0, 0, time.UTC),
			time.Date(1975, 7, 9, 0, 0, 0, 0, time.UTC),
			{},
		}),
	)
}

func TestNew(t *testing.T) {
	t.Run("duplicate names", func(t *testing.T) {
		_, err := New(NewNumericColumn("a", []float64{1}), NewNumericColumn("a", []float64{2}))
		var ve *errors.ValidationError
		require.True(t, errors.As(err, &ve))
	})

	t.Run("ragged columns", func(t *testing.T) {
		_, err := New(NewNumericColumn("a", []float64{1, 2}), NewNumericColumn("b", []float64{1}))
		var de *errors.DimensionMismatchError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, 2, de.Expected)
		assert.Equal(t, 1, de.Got)
	})

	t.Run("schema and missing counts", func(t *testing.T) {
		ds := buildings(t)
		assert.Equal(t, 4, ds.NumRows())
		assert.Equal(t, []string{"Bldg ANSI Usable", "Region Code", "Construction Date"}, ds.Columns())
		assert.Equal(t, Schema{
			{Name: "Bldg ANSI Usable", Kind: Numeric},
			{Name: "Region Code", Kind: Categorical},
			{Name: "Construction Date", Kind: Datetime},
		}, ds.Schema())
		assert.Equal(t, map[string]int{"Bldg ANSI Usable": 1, "Region Code": 1, "Construction Date": 1}, ds.MissingCounts())
	})
}

func TestFromRows(t *testing.T) {
	schema := Schema{
		{Name: "Total Parking Spaces", Kind: Numeric},
		{Name: "Owned/Leased", Kind: Categorical},
		{Name: "Construction Date", Kind: Text},
	}

	t.Run("converts scalars and nils", func(t *testing.T) {
		ds, err := FromRows(schema, []Row{
			{"Total Parking Spaces": 12, "Owned/Leased": "OWNED", "Construction Date": "01-Jan-1990"},
			{"Total Parking Spaces": nil, "Owned/Leased": nil, "Construction Date": "05-Mar-2001"},
		})
		require.NoError(t, err)

		spaces, _ := ds.Column("Total Parking Spaces")
		assert.Equal(t, 12.0, spaces.Float(0))
		assert.True(t, spaces.IsMissing(1))

		owned, _ := ds.Column("Owned/Leased")
		assert.Equal(t, Categorical, owned.Kind())
		assert.True(t, owned.IsMissing(1))
		assert.Equal(t, Row{"Total Parking Spaces": 12.0, "Owned/Leased": "OWNED", "Construction Date": "01-Jan-1990"}, ds.Row(0))
	})

	t.Run("rows must share the column set", func(t *testing.T) {
		_, err := FromRows(schema, []Row{
			{"Total Parking Spaces": 1, "Owned/Leased": "OWNED", "Construction Date": "x"},
			{"Total Parking Spaces": 1, "Owned/Leased": "OWNED", "Zip": "x"},
		})
		var ve *errors.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "rows[1]", ve.ParamName)
	})

	t.Run("wrong cell type", func(t *testing.T) {
		_, err := FromRows(schema, []Row{
			{"Total Parking Spaces": "twelve", "Owned/Leased": "OWNED", "Construction Date": "x"},
		})
		var te *errors.ColumnTypeError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, "Total Parking Spaces", te.Column)
	})
}

func TestWithColumnDoesNotModifyReceiver(t *testing.T) {
	ds := buildings(t)
	replaced, err := ds.WithColumn(NewNumericColumn("Bldg ANSI Usable", []float64{1, 2, 3, 4}))
	require.NoError(t, err)

	orig, _ := ds.Column("Bldg ANSI Usable")
	assert.Equal(t, 1200.0, orig.Float(0))
	updated, _ := replaced.Column("Bldg ANSI Usable")
	assert.Equal(t, 1.0, updated.Float(0))

	appended, err := ds.WithColumn(NewNumericColumn("Building Age", []float64{33, 22, 48, math.NaN()}))
	require.NoError(t, err)
	assert.Equal(t, 4, appended.NumColumns())
	assert.Equal(t, 3, ds.NumColumns())

	_, err = ds.WithColumn(NewNumericColumn("short", []float64{1}))
	require.Error(t, err)
}

func TestFilterAndRowHasMissing(t *testing.T) {
	ds := buildings(t)
	complete := ds.Filter(func(i int) bool { return !ds.RowHasMissing(i) })
	require.Equal(t, 1, complete.NumRows())

	area, _ := complete.Column("Bldg ANSI Usable")
	assert.Equal(t, []float64{1200}, area.Floats())

	withRegion := ds.Filter(func(i int) bool {
		c, _ := ds.Column("Region Code")
		return !c.IsMissing(i)
	})
	area, _ = withRegion.Column("Bldg ANSI Usable")
	assert.Equal(t, []float64{1200, 950}, []float64{area.Float(0), area.Float(2)})
	assert.True(t, area.IsMissing(1))
}

func TestRequireColumns(t *testing.T) {
	ds := buildings(t)
	require.NoError(t, RequireColumns(ds, "test", "Region Code", "Construction Date"))

	err := RequireColumns(ds, "test", "Region Code", "Zip Code", "Building Age", "Zip Code")
	var me *errors.MissingColumnsError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, []string{"Zip Code", "Building Age"}, me.Columns)
}

func TestRequireKind(t *testing.T) {
	ds := buildings(t)

	_, err := RequireKind(ds, "FillMissing", "Region Code", Numeric)
	var te *errors.ColumnTypeError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "numeric", te.Expected)
	assert.Equal(t, "categorical", te.Got)

	_, err = RequireKind(ds, "FillMissing", "Zip", Numeric)
	var ue *errors.UnknownColumnError
	require.True(t, errors.As(err, &ue))

	col, err := RequireKind(ds, "CleanText", "Region Code", Categorical, Text)
	require.NoError(t, err)
	assert.Equal(t, "Region Code", col.Name())
}

func TestTrainTestSplit(t *testing.T) {
	values := make([]float64, 10)
	for i := range values {
		values[i] = float64(i)
	}
	ds := MustNew(NewNumericColumn("id", values))

	train, test, err := TrainTestSplit(ds, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, 8, train.NumRows())
	assert.Equal(t, 2, test.NumRows())

	seen := map[float64]bool{}
	for _, part := range []*Dataset{train, test} {
		col, _ := part.Column("id")
		for _, v := range col.Floats() {
			assert.False(t, seen[v], "row %v appears twice", v)
			seen[v] = true
		}
	}
	assert.Len(t, seen, 10)

	train2, test2, err := TrainTestSplit(ds, 0.2, 42)
	require.NoError(t, err)
	c1, _ := test.Column("id")
	c2, _ := test2.Column("id")
	assert.Equal(t, c1.Floats(), c2.Floats(), "same seed must give the same split")
	assert.Equal(t, train.NumRows(), train2.NumRows())

	_, _, err = TrainTestSplit(ds, 1.5, 42)
	require.Error(t, err)
	_, _, err = TrainTestSplit(MustNew(NewNumericColumn("id", []float64{1})), 0.5, 1)
	require.Error(t, err)
}

func TestSchemaRequire(t *testing.T) {
	s := buildings(t).Schema()

	require.NoError(t, s.Require("test", Field{"Bldg ANSI Usable", Numeric}, Field{"Region Code", Categorical}))

	err := s.Require("test", Field{"Floors", Numeric}, Field{"Region Code", Text}, Field{"Borough", Categorical})
	var me *errors.MissingColumnsError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, []string{"Floors", "Borough"}, me.Columns)

	err = s.Require("test", Field{"Region Code", Numeric})
	var te *errors.ColumnTypeError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "Region Code", te.Column)
}
