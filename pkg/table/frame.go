package table

import (
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
)

// Schema describes the logical shape of a dataset.
type Schema struct {
	Columns []ColumnSchema
}

type ColumnSchema struct {
	Name     string
	Type     Kind
	Nullable bool
}

// Names returns the column names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, cs := range s.Columns {
		names[i] = cs.Name
	}
	return names
}

// Kind enumerates supported logical types.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTime
)

// IsNumeric reports whether columns of this kind take part in numeric modeling.
// Bool is deliberately excluded, matching how dataframe libraries select numbers.
func (k Kind) IsNumeric() bool { return k == KindInt || k == KindFloat }

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	default:
		return "invalid"
	}
}

// Column is a typed, nullable column abstraction.
type Column interface {
	Name() string
	Kind() Kind
	Len() int
	IsNull(i int) bool
	SetNull(i int)
	NullCount() int
	Clone() Column
}

// Numeric is implemented by columns whose cells can be read as float64.
type Numeric interface {
	Column
	Float(i int) (float64, bool)
}

type BoolColumn struct {
	name  string
	data  []bool
	nulls []bool
}

func NewBoolColumn(name string, n int) *BoolColumn {
	return &BoolColumn{name: name, data: make([]bool, n), nulls: make([]bool, n)}
}
func (c *BoolColumn) Name() string           { return c.name }
func (c *BoolColumn) Kind() Kind             { return KindBool }
func (c *BoolColumn) Len() int               { return len(c.data) }
func (c *BoolColumn) IsNull(i int) bool      { return c.nulls[i] }
func (c *BoolColumn) SetNull(i int)          { c.nulls[i] = true }
func (c *BoolColumn) NullCount() int         { return countNulls(c.nulls) }
func (c *BoolColumn) Get(i int) (bool, bool) { return c.data[i], !c.nulls[i] }
func (c *BoolColumn) Set(i int, v bool)      { c.data[i] = v; c.nulls[i] = false }
func (c *BoolColumn) AppendNull()            { c.data = append(c.data, false); c.nulls = append(c.nulls, true) }
func (c *BoolColumn) Append(v bool)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }
func (c *BoolColumn) Clone() Column {
	return &BoolColumn{name: c.name, data: append([]bool(nil), c.data...), nulls: append([]bool(nil), c.nulls...)}
}

type IntColumn struct {
	name  string
	data  []int64
	nulls []bool
}

func NewIntColumn(name string, n int) *IntColumn {
	return &IntColumn{name: name, data: make([]int64, n), nulls: make([]bool, n)}
}
func (c *IntColumn) Name() string            { return c.name }
func (c *IntColumn) Kind() Kind              { return KindInt }
func (c *IntColumn) Len() int                { return len(c.data) }
func (c *IntColumn) IsNull(i int) bool       { return c.nulls[i] }
func (c *IntColumn) SetNull(i int)           { c.nulls[i] = true }
func (c *IntColumn) NullCount() int          { return countNulls(c.nulls) }
func (c *IntColumn) Get(i int) (int64, bool) { return c.data[i], !c.nulls[i] }
func (c *IntColumn) Set(i int, v int64)      { c.data[i] = v; c.nulls[i] = false }
func (c *IntColumn) AppendNull()             { c.data = append(c.data, 0); c.nulls = append(c.nulls, true) }
func (c *IntColumn) Append(v int64)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }
func (c *IntColumn) Float(i int) (float64, bool) {
	return float64(c.data[i]), !c.nulls[i]
}
func (c *IntColumn) Clone() Column {
	return &IntColumn{name: c.name, data: append([]int64(nil), c.data...), nulls: append([]bool(nil), c.nulls...)}
}

// ToFloat widens the column to a FloatColumn with the same name and nulls.
func (c *IntColumn) ToFloat() *FloatColumn {
	out := NewFloatColumn(c.name, len(c.data))
	for i, v := range c.data {
		out.data[i] = float64(v)
	}
	copy(out.nulls, c.nulls)
	return out
}

type FloatColumn struct {
	name  string
	data  []float64
	nulls []bool
}

func NewFloatColumn(name string, n int) *FloatColumn {
	return &FloatColumn{name: name, data: make([]float64, n), nulls: make([]bool, n)}
}

// FloatColumnOf builds a column from values; nil and NaN entries are nulls.
func FloatColumnOf(name string, vals ...*float64) *FloatColumn {
	c := NewFloatColumn(name, len(vals))
	for i, v := range vals {
		if v == nil {
			c.nulls[i] = true
			continue
		}
		c.Set(i, *v)
	}
	return c
}

func (c *FloatColumn) Name() string                { return c.name }
func (c *FloatColumn) Kind() Kind                  { return KindFloat }
func (c *FloatColumn) Len() int                    { return len(c.data) }
func (c *FloatColumn) IsNull(i int) bool           { return c.nulls[i] }
func (c *FloatColumn) SetNull(i int)               { c.nulls[i] = true }
func (c *FloatColumn) NullCount() int              { return countNulls(c.nulls) }
func (c *FloatColumn) Get(i int) (float64, bool)   { return c.data[i], !c.nulls[i] }
func (c *FloatColumn) Float(i int) (float64, bool) { return c.data[i], !c.nulls[i] }
func (c *FloatColumn) AppendNull()                 { c.data = append(c.data, 0); c.nulls = append(c.nulls, true) }

// Set stores v; NaN is stored as a null, so a FloatColumn never reports a
// NaN as an observed value.
func (c *FloatColumn) Set(i int, v float64) {
	if math.IsNaN(v) {
		c.data[i], c.nulls[i] = 0, true
		return
	}
	c.data[i], c.nulls[i] = v, false
}

// Append adds v, or a null when v is NaN.
func (c *FloatColumn) Append(v float64) {
	c.data = append(c.data, 0)
	c.nulls = append(c.nulls, false)
	c.Set(len(c.data)-1, v)
}
func (c *FloatColumn) Clone() Column {
	return &FloatColumn{name: c.name, data: append([]float64(nil), c.data...), nulls: append([]bool(nil), c.nulls...)}
}

type StringColumn struct {
	name  string
	data  []string
	nulls []bool
}

func NewStringColumn(name string, n int) *StringColumn {
	return &StringColumn{name: name, data: make([]string, n), nulls: make([]bool, n)}
}
func (c *StringColumn) Name() string             { return c.name }
func (c *StringColumn) Kind() Kind               { return KindString }
func (c *StringColumn) Len() int                 { return len(c.data) }
func (c *StringColumn) IsNull(i int) bool        { return c.nulls[i] }
func (c *StringColumn) SetNull(i int)            { c.nulls[i] = true }
func (c *StringColumn) NullCount() int           { return countNulls(c.nulls) }
func (c *StringColumn) Get(i int) (string, bool) { return c.data[i], !c.nulls[i] }
func (c *StringColumn) Set(i int, v string)      { c.data[i] = v; c.nulls[i] = false }
func (c *StringColumn) AppendNull()              { c.data = append(c.data, ""); c.nulls = append(c.nulls, true) }
func (c *StringColumn) Append(v string)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }
func (c *StringColumn) Clone() Column {
	return &StringColumn{name: c.name, data: append([]string(nil), c.data...), nulls: append([]bool(nil), c.nulls...)}
}

type TimeColumn struct {
	name  string
	data  []time.Time
	nulls []bool
}

func NewTimeColumn(name string, n int) *TimeColumn {
	return &TimeColumn{name: name, data: make([]time.Time, n), nulls: make([]bool, n)}
}
func (c *TimeColumn) Name() string                { return c.name }
func (c *TimeColumn) Kind() Kind                  { return KindTime }
func (c *TimeColumn) Len() int                    { return len(c.data) }
func (c *TimeColumn) IsNull(i int) bool           { return c.nulls[i] }
func (c *TimeColumn) SetNull(i int)               { c.nulls[i] = true }
func (c *TimeColumn) NullCount() int              { return countNulls(c.nulls) }
func (c *TimeColumn) Get(i int) (time.Time, bool) { return c.data[i], !c.nulls[i] }
func (c *TimeColumn) Set(i int, v time.Time)      { c.data[i] = v; c.nulls[i] = false }
func (c *TimeColumn) AppendNull() {
	c.data = append(c.data, time.Time{})
	c.nulls = append(c.nulls, true)
}
func (c *TimeColumn) Append(v time.Time) {
	c.data = append(c.data, v)
	c.nulls = append(c.nulls, false)
}
func (c *TimeColumn) Clone() Column {
	return &TimeColumn{name: c.name, data: append([]time.Time(nil), c.data...), nulls: append([]bool(nil), c.nulls...)}
}

func countNulls(nulls []bool) int {
	n := 0
	for _, null := range nulls {
		if null {
			n++
		}
	}
	return n
}

func newColumn(name string, k Kind) (Column, error) {
	switch k {
	case KindBool:
		return NewBoolColumn(name, 0), nil
	case KindInt:
		return NewIntColumn(name, 0), nil
	case KindFloat:
		return NewFloatColumn(name, 0), nil
	case KindString:
		return NewStringColumn(name, 0), nil
	case KindTime:
		return NewTimeColumn(name, 0), nil
	default:
		return nil, errors.Errorf("column %s: invalid kind %d", name, k)
	}
}

// Frame is a columnar container for tabular data.
type Frame struct {
	schema Schema
	cols   []Column
	index  map[string]int // name -> col index
	nrows  int
}

// NewFrame builds an empty frame for s. It panics on an invalid kind, as
// schemas are produced by readers that only emit valid kinds.
func NewFrame(s Schema) *Frame {
	f := &Frame{schema: s, cols: make([]Column, len(s.Columns)), index: make(map[string]int)}
	for i, cs := range s.Columns {
		col, err := newColumn(cs.Name, cs.Type)
		if err != nil {
			panic(err)
		}
		f.cols[i] = col
		f.index[cs.Name] = i
	}
	return f
}

// FromColumns assembles a frame from existing columns. All columns must have
// the same length and distinct names.
func FromColumns(cols ...Column) (*Frame, error) {
	f := &Frame{cols: make([]Column, 0, len(cols)), index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if c == nil {
			return nil, errors.Errorf("column %d is nil", i)
		}
		if _, dup := f.index[c.Name()]; dup {
			return nil, errors.Errorf("duplicate column: %s", c.Name())
		}
		if i == 0 {
			f.nrows = c.Len()
		} else if c.Len() != f.nrows {
			return nil, errors.Errorf("column %s has %d rows, want %d", c.Name(), c.Len(), f.nrows)
		}
		f.index[c.Name()] = i
		f.cols = append(f.cols, c)
		f.schema.Columns = append(f.schema.Columns, ColumnSchema{Name: c.Name(), Type: c.Kind(), Nullable: true})
	}
	return f, nil
}

func (f *Frame) Schema() Schema      { return f.schema }
func (f *Frame) Rows() int           { return f.nrows }
func (f *Frame) Cols() int           { return len(f.cols) }
func (f *Frame) Column(i int) Column { return f.cols[i] }

// Columns returns the frame's columns in order. The slice is a copy; the
// columns are not.
func (f *Frame) Columns() []Column { return append([]Column(nil), f.cols...) }

func (f *Frame) ColumnByName(name string) (Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// Clone deep-copies every column.
func (f *Frame) Clone() *Frame {
	cols := make([]Column, len(f.cols))
	for i, c := range f.cols {
		cols[i] = c.Clone()
	}
	out, _ := FromColumns(cols...)
	out.nrows = f.nrows
	return out
}

// Drop returns a frame without the named columns. Unknown names are ignored.
func (f *Frame) Drop(names ...string) *Frame {
	skip := make(map[string]struct{}, len(names))
	for _, n := range names {
		skip[n] = struct{}{}
	}
	keep := make([]Column, 0, len(f.cols))
	for _, c := range f.cols {
		if _, ok := skip[c.Name()]; !ok {
			keep = append(keep, c)
		}
	}
	out, _ := FromColumns(keep...)
	out.nrows = f.nrows
	return out
}

// Select returns a frame holding only the named columns, in the given order.
func (f *Frame) Select(names ...string) (*Frame, error) {
	cols := make([]Column, 0, len(names))
	for _, n := range names {
		c, ok := f.ColumnByName(n)
		if !ok {
			return nil, errors.Errorf("unknown column: %s", n)
		}
		cols = append(cols, c)
	}
	out, err := FromColumns(cols...)
	if err != nil {
		return nil, err
	}
	out.nrows = f.nrows
	return out, nil
}

// AppendNullRow appends a row with all-null values.
func (f *Frame) AppendNullRow() {
	for _, c := range f.cols {
		switch col := c.(type) {
		case *BoolColumn:
			col.AppendNull()
		case *IntColumn:
			col.AppendNull()
		case *FloatColumn:
			col.AppendNull()
		case *StringColumn:
			col.AppendNull()
		case *TimeColumn:
			col.AppendNull()
		default:
			panic("unknown column type")
		}
	}
	f.nrows++
}

// SetCell sets a single cell value by name (row must exist). A nil value
// marks the cell missing.
func (f *Frame) SetCell(row int, name string, v any) error {
	i, ok := f.index[name]
	if !ok {
		return fmt.Errorf("unknown column: %s", name)
	}
	c := f.cols[i]
	if v == nil {
		c.SetNull(row)
		return nil
	}
	switch col := c.(type) {
	case *BoolColumn:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("column %s expects bool", name)
		}
		col.Set(row, b)
	case *IntColumn:
		switch t := v.(type) {
		case int:
			col.Set(row, int64(t))
		case int64:
			col.Set(row, t)
		case float64:
			col.Set(row, int64(t))
		default:
			return fmt.Errorf("column %s expects int/int64", name)
		}
	case *FloatColumn:
		switch t := v.(type) {
		case float32:
			col.Set(row, float64(t))
		case float64:
			col.Set(row, t)
		case int:
			col.Set(row, float64(t))
		case int64:
			col.Set(row, float64(t))
		default:
			return fmt.Errorf("column %s expects float64", name)
		}
	case *StringColumn:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("column %s expects string", name)
		}
		col.Set(row, s)
	case *TimeColumn:
		t, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("column %s expects time.Time", name)
		}
		col.Set(row, t)
	default:
		return fmt.Errorf("unknown column kind")
	}
	return nil
}

// Cell returns the value at (row, name) boxed as any; nil for missing.
func (f *Frame) Cell(row int, name string) (any, error) {
	c, ok := f.ColumnByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown column: %s", name)
	}
	if c.IsNull(row) {
		return nil, nil
	}
	switch col := c.(type) {
	case *BoolColumn:
		v, _ := col.Get(row)
		return v, nil
	case *IntColumn:
		v, _ := col.Get(row)
		return v, nil
	case *FloatColumn:
		v, _ := col.Get(row)
		return v, nil
	case *StringColumn:
		v, _ := col.Get(row)
		return v, nil
	case *TimeColumn:
		v, _ := col.Get(row)
		return v, nil
	}
	return nil, fmt.Errorf("unknown column kind")
}
