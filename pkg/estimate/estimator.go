// Package estimate fits an ordinary least squares house-value model on a
// reference dataset and prices individual houses with it.
package estimate

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/sjwhitworth/golearn/linear_models"
	"go.uber.org/zap"

	adapters "github.com/wdm0006/homeprice/adapters/golearn"
	"github.com/wdm0006/homeprice/pkg/house"
	"github.com/wdm0006/homeprice/pkg/io/csvio"
	"github.com/wdm0006/homeprice/pkg/log"
	tbl "github.com/wdm0006/homeprice/pkg/table"
	"github.com/wdm0006/homeprice/pkg/transform/impute"
)

// DefaultTarget is the dataset column holding the observed house value.
const DefaultTarget = "house_value"

var ErrNotFitted = errors.New("estimate: model is not fitted")

// Estimator predicts a house value from the house.FeatureNames columns.
type Estimator struct {
	// Target is the value column; empty means DefaultTarget.
	Target string
	// Imputer, when set, fills missing numeric cells before fitting. Rows
	// that still have missing features or target are dropped.
	Imputer *impute.KNN

	model     *linear_models.LinearRegression
	reference []float64
}

func (e *Estimator) target() string {
	if e.Target == "" {
		return DefaultTarget
	}
	return e.Target
}

// FitFile reads a reference CSV and fits on it.
func (e *Estimator) FitFile(ctx context.Context, path string) error {
	f, err := csvio.ReadFile(path, csvio.ReaderOptions{HasHeader: true})
	if err != nil {
		return errors.Wrapf(err, "estimate: load %s", path)
	}
	return e.Fit(ctx, f)
}

// Fit trains the model on f. Index columns whose name contains "unnamed"
// are discarded first.
func (e *Estimator) Fit(ctx context.Context, f *tbl.Frame) error {
	unnamed := lo.Filter(f.Schema().Names(), func(n string, _ int) bool {
		return strings.Contains(strings.ToLower(n), "unnamed")
	})
	f = f.Drop(unnamed...)

	if e.Imputer != nil {
		var err error
		f, err = tbl.NewPipeline().Add(e.Imputer).Run(ctx, f)
		if err != nil {
			return errors.Wrap(err, "estimate: prepare dataset")
		}
	}

	cols := append(append([]string(nil), house.FeatureNames...), e.target())
	train, dropped, err := completeRows(f, cols)
	if err != nil {
		return err
	}
	if dropped > 0 {
		log.Logger().Warn("dropped incomplete rows", zap.Int("rows", dropped))
	}
	inst, err := adapters.ToDenseInstances(train, e.target())
	if err != nil {
		return err
	}
	lr := linear_models.NewLinearRegression()
	if err := lr.Fit(inst); err != nil {
		return errors.Wrap(err, "estimate: fit linear regression")
	}
	e.model = lr
	targetCol, _ := train.ColumnByName(e.target())
	e.reference = make([]float64, train.Rows())
	for i := range e.reference {
		e.reference[i], _ = targetCol.(*tbl.FloatColumn).Get(i)
	}
	log.Logger().Info("fitted house value model",
		zap.Int("rows", train.Rows()),
		zap.Strings("features", house.FeatureNames))
	return nil
}

// completeRows copies the named numeric columns, as floats, keeping only
// rows where all of them are present.
func completeRows(f *tbl.Frame, names []string) (*tbl.Frame, int, error) {
	src := make([]tbl.Numeric, len(names))
	for i, name := range names {
		c, ok := f.ColumnByName(name)
		if !ok {
			return nil, 0, errors.Errorf("estimate: dataset has no column %s", name)
		}
		n, ok := c.(tbl.Numeric)
		if !ok {
			return nil, 0, errors.Errorf("estimate: column %s is %s, want numeric", name, c.Kind())
		}
		src[i] = n
	}
	out := make([]tbl.Column, len(names))
	dst := make([]*tbl.FloatColumn, len(names))
	for i, name := range names {
		dst[i] = tbl.NewFloatColumn(name, 0)
		out[i] = dst[i]
	}
	dropped := 0
	for row := 0; row < f.Rows(); row++ {
		if lo.SomeBy(src, func(c tbl.Numeric) bool { return c.IsNull(row) }) {
			dropped++
			continue
		}
		for i, c := range src {
			v, _ := c.Float(row)
			dst[i].Append(v)
		}
	}
	frame, err := tbl.FromColumns(out...)
	return frame, dropped, err
}

// Predict returns the model value for one feature vector in
// house.FeatureNames order.
func (e *Estimator) Predict(features []float64) (float64, error) {
	if e.model == nil {
		return 0, ErrNotFitted
	}
	if len(features) != len(house.FeatureNames) {
		return 0, errors.Errorf("estimate: got %d features, want %d", len(features), len(house.FeatureNames))
	}
	cols := make([]tbl.Column, 0, len(features)+1)
	for i, name := range house.FeatureNames {
		c := tbl.NewFloatColumn(name, 0)
		c.Append(features[i])
		cols = append(cols, c)
	}
	target := tbl.NewFloatColumn(e.target(), 0)
	target.AppendNull()
	cols = append(cols, target)
	row, err := tbl.FromColumns(cols...)
	if err != nil {
		return 0, err
	}
	inst, err := adapters.ToDenseInstances(row, e.target())
	if err != nil {
		return 0, err
	}
	pred, err := e.model.Predict(inst)
	if err != nil {
		return 0, errors.Wrap(err, "estimate: predict")
	}
	vals, err := adapters.ClassValues(pred)
	if err != nil {
		return 0, err
	}
	return vals[0], nil
}

// EstimateHouse prices h and stores the result on it.
func (e *Estimator) EstimateHouse(h *house.House) (float64, error) {
	p, err := e.Predict(h.Features())
	if err != nil {
		return 0, errors.WithMessagef(err, "house %q", h.Address)
	}
	h.SetPrice(p)
	return p, nil
}

// Reference returns the target values the model was fitted on.
func (e *Estimator) Reference() []float64 {
	return append([]float64(nil), e.reference...)
}

// Histogram renders the distribution of reference values as an ASCII chart
// and reports which bin the given value falls into.
func (e *Estimator) Histogram(value float64, bins int) (string, error) {
	if len(e.reference) == 0 {
		return "", ErrNotFitted
	}
	if bins <= 0 {
		bins = 30
	}
	low, high := e.reference[0], e.reference[0]
	for _, v := range e.reference {
		low = math.Min(low, v)
		high = math.Max(high, v)
	}
	counts := make([]float64, bins)
	width := (high - low) / float64(bins)
	bin := func(v float64) int {
		if width == 0 {
			return 0
		}
		b := int((v - low) / width)
		return max(0, min(b, bins-1))
	}
	for _, v := range e.reference {
		counts[bin(v)]++
	}
	caption := fmt.Sprintf("Your house value %.0f compared to others: bin %d of %d (values %.0f to %.0f)",
		value, bin(value)+1, bins, low, high)
	switch {
	case value < low:
		caption += ", below every reference house"
	case value > high:
		caption += ", above every reference house"
	}
	return asciigraph.Plot(counts, asciigraph.Height(10), asciigraph.Caption(caption)), nil
}
