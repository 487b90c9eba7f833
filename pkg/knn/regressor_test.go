package knn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredictMeanOfNearest(t *testing.T) {
	x := [][]float64{{0}, {1}, {2}, {10}, {11}, {12}}
	y := []float64{0, 1, 2, 10, 11, 12}
	r := NewRegressor(3, Euclidean)
	assert.NoError(t, r.Fit(x, y))
	got, err := r.Predict([][]float64{{1}, {11}})
	assert.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 11}, got, 1e-12)
}

func TestPredictFewerRowsThanK(t *testing.T) {
	r := NewRegressor(DefaultK, Euclidean)
	assert.NoError(t, r.Fit([][]float64{{1, 2}, {2, 3}, {3, 4}}, []float64{5, 6, 7}))
	got, err := r.Predict([][]float64{{1, 2}})
	assert.NoError(t, err)
	assert.InDelta(t, 6.0, got[0], 1e-12)
}

func TestTiesKeepTrainingOrder(t *testing.T) {
	// rows 0 and 1 are equidistant from the query; K=1 must pick row 0
	r := NewRegressor(1, Manhattan)
	assert.NoError(t, r.Fit([][]float64{{-1}, {1}}, []float64{100, 200}))
	for i := 0; i < 10; i++ {
		got, err := r.Predict([][]float64{{0}})
		assert.NoError(t, err)
		assert.Equal(t, 100.0, got[0])
	}
}

func TestManhattanDiffersFromEuclidean(t *testing.T) {
	x := [][]float64{{0, 3}, {2, 2}}
	y := []float64{1, 2}
	q := [][]float64{{0, 0}}

	e := NewRegressor(1, Euclidean)
	assert.NoError(t, e.Fit(x, y))
	ge, _ := e.Predict(q)

	m := NewRegressor(1, Manhattan)
	assert.NoError(t, m.Fit(x, y))
	gm, _ := m.Predict(q)

	assert.Equal(t, 2.0, ge[0]) // sqrt(8) < 3
	assert.Equal(t, 1.0, gm[0]) // 3 < 4
}

func TestFitErrors(t *testing.T) {
	r := NewRegressor(5, Euclidean)
	assert.ErrorIs(t, r.Fit(nil, nil), ErrEmptyTrainingSet)
	assert.Error(t, r.Fit([][]float64{{1}}, []float64{1, 2}))
	assert.Error(t, r.Fit([][]float64{{1}, {1, 2}}, []float64{1, 2}))
	assert.Error(t, NewRegressor(0, Euclidean).Fit([][]float64{{1}}, []float64{1}))
	assert.Error(t, NewRegressor(1, "cosine").Fit([][]float64{{1}}, []float64{1}))

	_, err := NewRegressor(1, Euclidean).Predict([][]float64{{1}})
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestPredictWidthMismatch(t *testing.T) {
	r := NewRegressor(1, Euclidean)
	assert.NoError(t, r.Fit([][]float64{{1, 2}}, []float64{1}))
	_, err := r.Predict([][]float64{{1}})
	assert.Error(t, err)
}
