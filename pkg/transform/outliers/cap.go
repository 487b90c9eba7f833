// Package outliers clamps extreme numeric values before they reach the
// distance computations of the imputer.
package outliers

import (
	"context"
	"math"

	"github.com/pkg/errors"

	tbl "github.com/wdm0006/homeprice/pkg/table"
)

// Cap clamps the observed values of a numeric column into [Min, Max]. Nil
// bounds are open. Int columns are rounded toward the inside of the range.
type Cap struct {
	Column string
	Min    *float64
	Max    *float64
}

func (t *Cap) Name() string { return "cap_range" }

func (t *Cap) clamp(v float64) float64 {
	if t.Min != nil && v < *t.Min {
		v = *t.Min
	}
	if t.Max != nil && v > *t.Max {
		v = *t.Max
	}
	return v
}

func (t *Cap) Apply(_ context.Context, f *tbl.Frame) (*tbl.Frame, error) {
	if t.Min != nil && t.Max != nil && *t.Min > *t.Max {
		return nil, errors.Errorf("cap_range: min %v above max %v", *t.Min, *t.Max)
	}
	col, ok := f.ColumnByName(t.Column)
	if !ok {
		return nil, errors.Errorf("cap_range: no column %q", t.Column)
	}
	switch c := col.(type) {
	case *tbl.FloatColumn:
		for i := 0; i < c.Len(); i++ {
			if v, ok := c.Get(i); ok {
				c.Set(i, t.clamp(v))
			}
		}
	case *tbl.IntColumn:
		for i := 0; i < c.Len(); i++ {
			v, ok := c.Get(i)
			if !ok {
				continue
			}
			x := t.clamp(float64(v))
			switch {
			case t.Min != nil && x == *t.Min:
				x = math.Ceil(x)
			case t.Max != nil && x == *t.Max:
				x = math.Floor(x)
			}
			c.Set(i, int64(x))
		}
	default:
		return nil, errors.Errorf("cap_range: column %q is %s, want numeric", t.Column, col.Kind())
	}
	return f, nil
}
