// Package standardize normalises the text columns of a Frame, typically
// the categorical house attributes, before they are compared or encoded.
package standardize

import (
	"context"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	tbl "github.com/wdm0006/homeprice/pkg/table"
)

// rewrite applies fn to every non-null cell of the named string column.
func rewrite(f *tbl.Frame, step, name string, fn func(string) string) (*tbl.Frame, error) {
	col, ok := f.ColumnByName(name)
	if !ok {
		return nil, errors.Errorf("%s: no column %q", step, name)
	}
	c, ok := col.(*tbl.StringColumn)
	if !ok {
		return nil, errors.Errorf("%s: column %q is %s, want string", step, name, col.Kind())
	}
	for i := 0; i < c.Len(); i++ {
		if v, ok := c.Get(i); ok {
			c.Set(i, fn(v))
		}
	}
	return f, nil
}

type Trim struct{ Column string }

func (t *Trim) Name() string { return "trim" }

func (t *Trim) Apply(_ context.Context, f *tbl.Frame) (*tbl.Frame, error) {
	return rewrite(f, t.Name(), t.Column, strings.TrimSpace)
}

type Lower struct{ Column string }

func (t *Lower) Name() string { return "lower" }

func (t *Lower) Apply(_ context.Context, f *tbl.Frame) (*tbl.Frame, error) {
	return rewrite(f, t.Name(), t.Column, strings.ToLower)
}

// MapValues replaces cells found in Map; others are left as they are.
type MapValues struct {
	Column string
	Map    map[string]string
}

func (t *MapValues) Name() string { return "map_values" }

func (t *MapValues) Apply(_ context.Context, f *tbl.Frame) (*tbl.Frame, error) {
	return rewrite(f, t.Name(), t.Column, func(v string) string {
		if nv, ok := t.Map[v]; ok {
			return nv
		}
		return v
	})
}

type RegexReplace struct {
	Column  string
	Pattern string
	Replace string
	re      *regexp.Regexp
}

func (t *RegexReplace) Name() string { return "regex_replace" }

func (t *RegexReplace) Apply(_ context.Context, f *tbl.Frame) (*tbl.Frame, error) {
	if t.re == nil {
		re, err := regexp.Compile(t.Pattern)
		if err != nil {
			return nil, errors.Wrap(err, t.Name())
		}
		t.re = re
	}
	return rewrite(f, t.Name(), t.Column, func(v string) string {
		return t.re.ReplaceAllString(v, t.Replace)
	})
}
