// Package validate holds pipeline steps that reject a Frame whose values
// fall outside what the house-price model can use. They never modify the
// frame.
package validate

import (
	"context"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	tbl "github.com/wdm0006/homeprice/pkg/table"
)

// Range fails when an observed value of a numeric column is below Min or
// above Max. Nil bounds are open.
type Range struct {
	Column string
	Min    *float64
	Max    *float64
}

func (t *Range) Name() string { return "validate_range" }

func (t *Range) Apply(_ context.Context, f *tbl.Frame) (*tbl.Frame, error) {
	col, ok := f.ColumnByName(t.Column)
	if !ok {
		return nil, errors.Errorf("no column %q", t.Column)
	}
	c, ok := col.(tbl.Numeric)
	if !ok {
		return nil, errors.Errorf("column %q is %s, want numeric", t.Column, col.Kind())
	}
	bad := lo.CountBy(lo.Range(c.Len()), func(i int) bool {
		v, ok := c.Float(i)
		return ok && ((t.Min != nil && v < *t.Min) || (t.Max != nil && v > *t.Max))
	})
	if bad > 0 {
		return nil, errors.Errorf("column %s has %d out-of-range values", t.Column, bad)
	}
	return f, nil
}

// InSet fails when a string column holds a value outside Values.
type InSet struct {
	Column string
	Values map[string]struct{}
}

func NewInSet(col string, vals []string) *InSet {
	return &InSet{Column: col, Values: lo.SliceToMap(vals, func(v string) (string, struct{}) {
		return v, struct{}{}
	})}
}

func (t *InSet) Name() string { return "validate_in" }

func (t *InSet) Apply(_ context.Context, f *tbl.Frame) (*tbl.Frame, error) {
	col, ok := f.ColumnByName(t.Column)
	if !ok {
		return nil, errors.Errorf("no column %q", t.Column)
	}
	sc, ok := col.(*tbl.StringColumn)
	if !ok {
		return nil, errors.Errorf("column %q is %s, want string", t.Column, col.Kind())
	}
	var bad int
	for i := 0; i < sc.Len(); i++ {
		if v, ok := sc.Get(i); ok {
			if _, allowed := t.Values[v]; !allowed {
				bad++
			}
		}
	}
	if bad > 0 {
		return nil, errors.Errorf("column %s has %d values outside allowed set", t.Column, bad)
	}
	return f, nil
}
