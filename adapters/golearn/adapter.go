// Package golearn converts Frames into github.com/sjwhitworth/golearn
// DenseInstances so the golearn models can be trained on them.
package golearn

import (
	"math"

	"github.com/pkg/errors"
	"github.com/sjwhitworth/golearn/base"

	tbl "github.com/wdm0006/homeprice/pkg/table"
)

// ToDenseInstances converts a Frame into golearn DenseInstances. Numeric
// columns become float attributes (missing cells are NaN), other columns
// become categorical attributes. When class is not empty the named column
// is registered as the class attribute.
func ToDenseInstances(f *tbl.Frame, class string) (*base.DenseInstances, error) {
	attrs := make([]base.Attribute, f.Cols())
	classIdx := -1
	for i, cs := range f.Schema().Columns {
		if cs.Type.IsNumeric() {
			attrs[i] = base.NewFloatAttribute(cs.Name)
		} else {
			ca := new(base.CategoricalAttribute)
			ca.SetName(cs.Name)
			attrs[i] = ca
		}
		if cs.Name == class {
			classIdx = i
		}
	}
	if class != "" && classIdx < 0 {
		return nil, errors.Errorf("golearn: class column %s not in frame", class)
	}

	inst := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, len(attrs))
	for i, a := range attrs {
		specs[i] = inst.AddAttribute(a)
	}
	if classIdx >= 0 {
		if err := inst.AddClassAttribute(attrs[classIdx]); err != nil {
			return nil, errors.Wrap(err, "golearn: class attribute")
		}
	}
	if err := inst.Extend(f.Rows()); err != nil {
		return nil, errors.Wrap(err, "golearn: extend")
	}

	for c := 0; c < f.Cols(); c++ {
		col := f.Column(c)
		for r := 0; r < f.Rows(); r++ {
			switch cc := col.(type) {
			case tbl.Numeric:
				v, ok := cc.Float(r)
				if !ok {
					v = math.NaN()
				}
				inst.Set(specs[c], r, base.PackFloatToBytes(v))
			case *tbl.StringColumn:
				if v, ok := cc.Get(r); ok {
					inst.Set(specs[c], r, attrs[c].GetSysValFromString(v))
				}
			}
		}
	}
	return inst, nil
}

// ClassValues reads the float class attribute of every row, typically the
// predictions returned by a golearn regressor.
func ClassValues(g base.FixedDataGrid) ([]float64, error) {
	classAttrs := g.AllClassAttributes()
	if len(classAttrs) != 1 {
		return nil, errors.Errorf("golearn: want one class attribute, got %d", len(classAttrs))
	}
	spec, err := g.GetAttribute(classAttrs[0])
	if err != nil {
		return nil, errors.Wrap(err, "golearn: class attribute spec")
	}
	_, rows := g.Size()
	out := make([]float64, rows)
	for r := 0; r < rows; r++ {
		out[r] = base.UnpackBytesToFloat(g.Get(spec, r))
	}
	return out, nil
}
