package impute

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wdm0006/homeprice/pkg/knn"
	"github.com/wdm0006/homeprice/pkg/log"
	tbl "github.com/wdm0006/homeprice/pkg/table"
)

// KNN fills missing numeric cells with a k-nearest-neighbours regression.
//
// Numeric columns are Int and Float columns; every other column is carried
// through untouched. The predictors are the numeric columns that have no
// missing value at all, fixed before any column is filled, and the training
// rows are those complete across every numeric column. Each column with
// missing cells gets its own regressor fit on those rows.
//
// The returned frame holds the numeric columns first and the remaining
// columns after them, each group in its original order. Int columns that
// received predictions are widened to Float. The input frame is not modified.
type KNN struct {
	// K is the neighbour count; zero means knn.DefaultK.
	K int
	// Metric defaults to Euclidean.
	Metric knn.Metric
	// Parallelism bounds how many columns are fitted concurrently. Values
	// below 2 fill columns one at a time.
	Parallelism int
}

func (t *KNN) Name() string { return "impute_knn" }

// Impute runs a KNN imputer with default settings.
func Impute(ctx context.Context, f *tbl.Frame) (*tbl.Frame, error) {
	return (&KNN{}).Apply(ctx, f)
}

// plan is the per-call snapshot every column fit reads from. Nothing in it
// changes once the first column is filled.
type plan struct {
	numeric  []tbl.Numeric
	other    []tbl.Column
	missing  []int // indexes into numeric, left to right
	observed []int // fully observed numeric columns: the predictors
	train    []int // rows complete across all numeric columns
	trainX   [][]float64
}

func (t *KNN) Apply(ctx context.Context, f *tbl.Frame) (*tbl.Frame, error) {
	if t.K < 0 {
		return nil, &InvalidInputError{Reason: fmt.Sprintf("neighbour count must be positive, got %d", t.K)}
	}
	if err := t.Metric.Validate(); err != nil {
		return nil, &InvalidInputError{Reason: err.Error()}
	}
	p, err := newPlan(f)
	if err != nil {
		return nil, err
	}

	filled := make([]tbl.Column, len(p.numeric))
	if len(p.missing) > 0 {
		if len(p.observed) == 0 {
			return nil, &DegenerateFeatureSetError{Columns: p.names(p.missing)}
		}
		if len(p.train) == 0 {
			return nil, &NoTrainingDataError{Columns: p.names(lo.Range(len(p.numeric))), Rows: f.Rows()}
		}
		p.trainX = p.rowsOf(p.train)
		if err := t.fillAll(ctx, p, filled); err != nil {
			return nil, err
		}
	}

	cols := make([]tbl.Column, 0, f.Cols())
	for i, c := range p.numeric {
		if filled[i] != nil {
			cols = append(cols, filled[i])
		} else {
			cols = append(cols, c.Clone())
		}
	}
	for _, c := range p.other {
		cols = append(cols, c.Clone())
	}
	out, err := tbl.FromColumns(cols...)
	if err != nil {
		return nil, errors.Wrap(err, "impute: reassemble frame")
	}
	return out, nil
}

func (t *KNN) fillAll(ctx context.Context, p *plan, filled []tbl.Column) error {
	if t.Parallelism < 2 {
		for _, ci := range p.missing {
			if err := ctx.Err(); err != nil {
				return err
			}
			col, err := t.fill(p, ci)
			if err != nil {
				return err
			}
			filled[ci] = col
		}
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.Parallelism)
	for _, ci := range p.missing {
		ci := ci
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			col, err := t.fill(p, ci)
			if err != nil {
				return err
			}
			filled[ci] = col
			return nil
		})
	}
	return g.Wait()
}

// fill returns a copy of numeric column ci with its missing cells predicted.
func (t *KNN) fill(p *plan, ci int) (*tbl.FloatColumn, error) {
	src := p.numeric[ci]
	out := asFloat(src)

	query := lo.Filter(lo.Range(src.Len()), func(row int, _ int) bool { return src.IsNull(row) })
	if len(query) == 0 {
		return out, nil
	}

	y := make([]float64, len(p.train))
	for i, row := range p.train {
		y[i], _ = src.Float(row)
	}
	k := t.K
	if k == 0 {
		k = knn.DefaultK
	}
	reg := knn.NewRegressor(k, t.Metric)
	if err := reg.Fit(p.trainX, y); err != nil {
		return nil, errors.Wrapf(err, "impute: fit column %s", src.Name())
	}
	pred, err := reg.Predict(p.rowsOf(query))
	if err != nil {
		return nil, errors.Wrapf(err, "impute: predict column %s", src.Name())
	}
	for i, row := range query {
		out.Set(row, pred[i])
	}
	log.Logger().Debug("imputed column",
		zap.String("column", src.Name()),
		zap.Int("missing", len(query)),
		zap.Int("train_rows", len(p.train)),
		zap.Int("k", k))
	return out, nil
}

func newPlan(f *tbl.Frame) (*plan, error) {
	if f == nil {
		return nil, &InvalidInputError{Reason: "nil frame"}
	}
	if f.Cols() == 0 {
		return nil, &InvalidInputError{Reason: "frame has no columns"}
	}
	p := &plan{}
	for _, c := range f.Columns() {
		if c.Len() != f.Rows() {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("column %s has %d rows, frame has %d", c.Name(), c.Len(), f.Rows())}
		}
		if n, ok := c.(tbl.Numeric); ok && c.Kind().IsNumeric() {
			p.numeric = append(p.numeric, n)
		} else {
			p.other = append(p.other, c)
		}
	}
	if len(p.numeric) == 0 {
		return nil, &InvalidInputError{Reason: "frame has no numeric column"}
	}
	for i, c := range p.numeric {
		if c.NullCount() > 0 {
			p.missing = append(p.missing, i)
		} else {
			p.observed = append(p.observed, i)
		}
	}
	p.train = lo.Filter(lo.Range(f.Rows()), func(row int, _ int) bool {
		return lo.EveryBy(p.numeric, func(c tbl.Numeric) bool { return !c.IsNull(row) })
	})
	return p, nil
}

// rowsOf extracts the predictor features of the given rows.
func (p *plan) rowsOf(rows []int) [][]float64 {
	x := make([][]float64, len(rows))
	for i, row := range rows {
		x[i] = make([]float64, len(p.observed))
		for j, ci := range p.observed {
			x[i][j], _ = p.numeric[ci].Float(row)
		}
	}
	return x
}

func (p *plan) names(idx []int) []string {
	return lo.Map(idx, func(i int, _ int) string { return p.numeric[i].Name() })
}

func asFloat(c tbl.Numeric) *tbl.FloatColumn {
	switch col := c.(type) {
	case *tbl.FloatColumn:
		return col.Clone().(*tbl.FloatColumn)
	case *tbl.IntColumn:
		return col.ToFloat()
	}
	out := tbl.NewFloatColumn(c.Name(), c.Len())
	for i := 0; i < c.Len(); i++ {
		if v, ok := c.Float(i); ok {
			out.Set(i, v)
		} else {
			out.SetNull(i)
		}
	}
	return out
}
