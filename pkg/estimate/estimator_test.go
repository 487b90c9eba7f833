package estimate

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdm0006/homeprice/pkg/house"
	"github.com/wdm0006/homeprice/pkg/log"
	tbl "github.com/wdm0006/homeprice/pkg/table"
	"github.com/wdm0006/homeprice/pkg/transform/impute"
)

func init() {
	log.CloseLogger()
}

var coef = []float64{-2000, 1500, 300, 40, -90, -25, 12000}

const intercept = 50000.0

func linearValue(x []float64) float64 {
	y := intercept
	for i, c := range coef {
		y += c * x[i]
	}
	return y
}

// syntheticFrame returns rows whose value is an exact linear function of
// the features, so least squares must recover it.
func syntheticFrame(t *testing.T, rows int) *tbl.Frame {
	cols := make([]*tbl.FloatColumn, len(house.FeatureNames))
	for j, name := range house.FeatureNames {
		cols[j] = tbl.NewFloatColumn(name, 0)
	}
	target := tbl.NewFloatColumn(DefaultTarget, 0)
	idx := tbl.NewIntColumn("Unnamed: 0", 0)
	for i := 0; i < rows; i++ {
		x := make([]float64, len(cols))
		for j := range cols {
			x[j] = 10 * math.Sin(float64((i+1)*(j+2))+float64(j))
			cols[j].Append(x[j])
		}
		target.Append(linearValue(x))
		idx.Append(int64(i))
	}
	all := []tbl.Column{idx}
	for _, c := range cols {
		all = append(all, c)
	}
	all = append(all, target)
	f, err := tbl.FromColumns(all...)
	require.NoError(t, err)
	return f
}

func TestRecoversLinearRelation(t *testing.T) {
	e := &Estimator{}
	require.NoError(t, e.Fit(context.Background(), syntheticFrame(t, 30)))

	x := []float64{-121, 37, 20, 5, 2, 3, 4.5}
	got, err := e.Predict(x)
	require.NoError(t, err)
	want := linearValue(x)
	assert.InDelta(t, want, got, math.Abs(want)*1e-6)
	assert.Len(t, e.Reference(), 30)
}

func TestEstimateHouseStoresPrice(t *testing.T) {
	e := &Estimator{}
	require.NoError(t, e.Fit(context.Background(), syntheticFrame(t, 30)))
	h := &house.House{Address: "1 Main St", Longitude: 1, Latitude: 2, HouseAge: 3, Rooms: 4, Bedrooms: 2, NumberOfPeople: 3, MonthlyIncome: 5}
	p, err := e.EstimateHouse(h)
	require.NoError(t, err)
	require.NotNil(t, h.Price)
	assert.Equal(t, p, *h.Price)
	assert.InDelta(t, linearValue(h.Features()), p, math.Abs(p)*1e-6)
}

func TestNotFitted(t *testing.T) {
	e := &Estimator{}
	_, err := e.Predict(make([]float64, len(house.FeatureNames)))
	assert.ErrorIs(t, err, ErrNotFitted)
	_, err = e.Histogram(1, 10)
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestPredictWrongWidth(t *testing.T) {
	e := &Estimator{}
	require.NoError(t, e.Fit(context.Background(), syntheticFrame(t, 30)))
	_, err := e.Predict([]float64{1, 2})
	assert.Error(t, err)
}

func TestMissingFeatureColumn(t *testing.T) {
	f := syntheticFrame(t, 30).Drop("rooms")
	err := (&Estimator{}).Fit(context.Background(), f)
	assert.Error(t, err)
}

func TestFitFileWithImputation(t *testing.T) {
	p := filepath.FromSlash("../../examples/data/housing_nulls.csv")
	e := &Estimator{Imputer: &impute.KNN{}}
	require.NoError(t, e.FitFile(context.Background(), p))
	// every row survives once the gaps are filled
	assert.Len(t, e.Reference(), 24)

	plain := &Estimator{}
	require.NoError(t, plain.FitFile(context.Background(), p))
	assert.Len(t, plain.Reference(), 19)

	h := &house.House{Address: "9 Bay St", Longitude: -122.25, Latitude: 37.85, HouseAge: 40, Rooms: 1500, Bedrooms: 300, NumberOfPeople: 700, MonthlyIncome: 4}
	v, err := e.EstimateHouse(h)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(v))

	chart, err := e.Histogram(v, 10)
	require.NoError(t, err)
	assert.Contains(t, chart, "compared to others")
}
