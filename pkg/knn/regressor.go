// Package knn implements a brute-force k-nearest-neighbours regressor.
package knn

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// DefaultK is the neighbour count used when none is configured.
const DefaultK = 5

// Metric names a distance function over feature vectors.
type Metric string

const (
	Euclidean Metric = "euclidean"
	Manhattan Metric = "manhattan"
)

// norm maps a metric onto the L-norm understood by floats.Distance.
func (m Metric) norm() (float64, error) {
	switch m {
	case "", Euclidean:
		return 2, nil
	case Manhattan:
		return 1, nil
	default:
		return 0, errors.Errorf("unsupported distance metric %q", string(m))
	}
}

// Validate reports whether m names a supported metric.
func (m Metric) Validate() error {
	_, err := m.norm()
	return err
}

var (
	ErrEmptyTrainingSet = errors.New("knn: empty training set")
	ErrNotFitted        = errors.New("knn: regressor is not fitted")
)

// Regressor predicts the unweighted mean target of the K training rows
// closest to a query. It stores its training data; Fit is cheap.
type Regressor struct {
	K      int
	Metric Metric

	x    [][]float64
	y    []float64
	dims int
	l    float64
}

func NewRegressor(k int, metric Metric) *Regressor {
	return &Regressor{K: k, Metric: metric}
}

// Fit records the training rows. x and y must be the same length and every
// row of x must have the same width.
func (r *Regressor) Fit(x [][]float64, y []float64) error {
	if len(x) != len(y) {
		return errors.Errorf("knn: %d feature rows but %d targets", len(x), len(y))
	}
	if len(x) == 0 {
		return ErrEmptyTrainingSet
	}
	if r.K <= 0 {
		return errors.Errorf("knn: neighbour count must be positive, got %d", r.K)
	}
	l, err := r.Metric.norm()
	if err != nil {
		return err
	}
	dims := len(x[0])
	for i, row := range x {
		if len(row) != dims {
			return errors.Errorf("knn: training row %d has %d features, want %d", i, len(row), dims)
		}
	}
	r.x, r.y, r.dims, r.l = x, y, dims, l
	return nil
}

// Predict returns one estimate per query row. When fewer than K training rows
// exist all of them are used. Equal distances keep training order, so the
// result does not depend on anything but the inputs.
func (r *Regressor) Predict(x [][]float64) ([]float64, error) {
	if r.x == nil {
		return nil, ErrNotFitted
	}
	out := make([]float64, len(x))
	for i, q := range x {
		if len(q) != r.dims {
			return nil, errors.Errorf("knn: query row %d has %d features, want %d", i, len(q), r.dims)
		}
		out[i] = r.predictOne(q)
	}
	return out, nil
}

type neighbour struct {
	d float64
	v float64
}

func (r *Regressor) predictOne(q []float64) float64 {
	k := r.K
	if k > len(r.x) {
		k = len(r.x)
	}
	// sorted K-slice of the closest rows seen so far
	nbrs := make([]neighbour, 0, k+1)
	for j, xj := range r.x {
		d := r.distance(q, xj)
		if len(nbrs) == k && d >= nbrs[k-1].d {
			continue
		}
		pos := sort.Search(len(nbrs), func(a int) bool { return nbrs[a].d > d })
		nbrs = append(nbrs, neighbour{})
		copy(nbrs[pos+1:], nbrs[pos:])
		nbrs[pos] = neighbour{d: d, v: r.y[j]}
		if len(nbrs) > k {
			nbrs = nbrs[:k]
		}
	}
	sum := 0.0
	for _, n := range nbrs {
		sum += n.v
	}
	return sum / float64(len(nbrs))
}

func (r *Regressor) distance(a, b []float64) float64 {
	if r.dims == 0 {
		return 0
	}
	d := floats.Distance(a, b, r.l)
	if math.IsNaN(d) {
		return math.Inf(1)
	}
	return d
}
