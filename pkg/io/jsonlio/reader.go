// Package jsonlio reads and writes Frames as JSON Lines, one object per row.
package jsonlio

import (
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"

	iox "github.com/wdm0006/homeprice/pkg/io/ioutils"
	tbl "github.com/wdm0006/homeprice/pkg/table"
)

type ReaderOptions struct {
	SampleRows int // for inference; default 100
}

// Reader decodes a JSON Lines stream. Keys absent from a row, JSON null and
// blank strings are missing cells.
type Reader struct {
	dec    *json.Decoder
	closer io.Closer
	opt    ReaderOptions
	buf    []map[string]any
	line   int
}

// Open reads path, which may be gzip-compressed or "-" for stdin.
func Open(path string, opt ReaderOptions) (*Reader, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	r := NewReaderFrom(rc, opt)
	r.closer = rc
	return r, nil
}

func NewReaderFrom(r io.Reader, opt ReaderOptions) *Reader {
	if opt.SampleRows <= 0 {
		opt.SampleRows = 100
	}
	return &Reader{dec: json.NewDecoder(r), opt: opt}
}

func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

func (r *Reader) next() (map[string]any, error) {
	var m map[string]any
	if err := r.dec.Decode(&m); err != nil {
		if err == io.EOF {
			return nil, err
		}
		return nil, errors.Wrapf(err, "jsonl record %d", r.line+1)
	}
	r.line++
	return m, nil
}

// InferSchema samples the first rows. Columns are every key seen, sorted by
// name, so the result does not depend on key order within objects.
func (r *Reader) InferSchema() (tbl.Schema, error) {
	keys := map[string]struct{}{}
	for len(r.buf) < r.opt.SampleRows {
		m, err := r.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return tbl.Schema{}, err
		}
		r.buf = append(r.buf, m)
		for k := range m {
			keys[k] = struct{}{}
		}
	}
	names := make([]string, 0, len(keys))
	for k := range keys {
		names = append(names, k)
	}
	sort.Strings(names)
	schema := tbl.Schema{Columns: make([]tbl.ColumnSchema, len(names))}
	for i, k := range names {
		schema.Columns[i] = tbl.ColumnSchema{Name: k, Type: inferKind(r.buf, k), Nullable: true}
	}
	return schema, nil
}

// ReadAll decodes every remaining row, starting with the sampled ones.
// Keys outside schema are ignored.
func (r *Reader) ReadAll(schema tbl.Schema) (*tbl.Frame, error) {
	f := tbl.NewFrame(schema)
	for i, m := range r.buf {
		if err := appendRow(f, m); err != nil {
			return nil, errors.Wrapf(err, "jsonl record %d", i+1)
		}
	}
	r.buf = nil
	for {
		m, err := r.next()
		if err == io.EOF {
			return f, nil
		}
		if err != nil {
			return nil, err
		}
		if err := appendRow(f, m); err != nil {
			return nil, errors.Wrapf(err, "jsonl record %d", r.line)
		}
	}
}

// ReadFile opens path, infers its schema and reads every row.
func ReadFile(path string, opt ReaderOptions) (*tbl.Frame, error) {
	r, err := Open(path, opt)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	schema, err := r.InferSchema()
	if err != nil {
		return nil, err
	}
	return r.ReadAll(schema)
}

func appendRow(f *tbl.Frame, m map[string]any) error {
	f.AppendNullRow()
	row := f.Rows() - 1
	for _, cs := range f.Schema().Columns {
		v, err := convert(cs, m[cs.Name])
		if err != nil {
			return err
		}
		if v != nil {
			if err := f.SetCell(row, cs.Name, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// convert maps a decoded JSON value onto the column kind; nil means missing.
func convert(cs tbl.ColumnSchema, v any) (any, error) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		v = s
	}
	if v == nil {
		return nil, nil
	}
	bad := errors.Errorf("column %s: cannot read %v as %s", cs.Name, v, cs.Type)
	switch cs.Type {
	case tbl.KindFloat:
		switch t := v.(type) {
		case float64:
			return t, nil
		case string:
			if x, err := strconv.ParseFloat(t, 64); err == nil {
				return x, nil
			}
		}
		return nil, bad
	case tbl.KindInt:
		switch t := v.(type) {
		case float64:
			if t == float64(int64(t)) {
				return int64(t), nil
			}
		case string:
			if x, err := strconv.ParseInt(t, 10, 64); err == nil {
				return x, nil
			}
		}
		return nil, bad
	case tbl.KindBool:
		switch t := v.(type) {
		case bool:
			return t, nil
		case string:
			if x, err := strconv.ParseBool(strings.ToLower(t)); err == nil {
				return x, nil
			}
		}
		return nil, bad
	default:
		if s, ok := v.(string); ok {
			return s, nil
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return string(b), nil
	}
}

var numre = regexp.MustCompile(`^[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?$`)

// inferKind votes over the sampled values of one key.
func inferKind(sample []map[string]any, key string) tbl.Kind {
	var nNum, nInt, nBool, nStr int
	for _, m := range sample {
		switch t := m[key].(type) {
		case nil:
		case float64:
			nNum++
			if t == float64(int64(t)) {
				nInt++
			}
		case bool:
			nBool++
		case string:
			s := strings.TrimSpace(t)
			switch {
			case s == "":
			case numre.MatchString(s):
				nNum++
				if !strings.ContainsAny(s, ".eE") {
					nInt++
				}
			default:
				nStr++
			}
		default:
			nStr++
		}
	}
	switch {
	case nBool > 0 && nNum == 0 && nStr == 0:
		return tbl.KindBool
	case nNum > 0 && nBool == 0 && nStr == 0:
		if nInt == nNum {
			return tbl.KindInt
		}
		return tbl.KindFloat
	default:
		return tbl.KindString
	}
}
