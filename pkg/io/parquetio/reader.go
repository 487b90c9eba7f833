package parquetio

import (
	"io"
	"os"

	"github.com/pkg/errors"
	parquet "github.com/segmentio/parquet-go"

	tbl "github.com/wdm0006/homeprice/pkg/table"
)

// Reader loads flat Parquet files into Frames. Nested groups are not supported.
type Reader struct {
	file   *os.File
	reader *parquet.Reader
	schema tbl.Schema
}

func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	r := parquet.NewReader(f)
	schema, err := frameSchema(r.Schema())
	if err != nil {
		_ = r.Close()
		_ = f.Close()
		return nil, err
	}
	return &Reader{file: f, reader: r, schema: schema}, nil
}

func (r *Reader) Close() error {
	_ = r.reader.Close()
	return r.file.Close()
}

func (r *Reader) Schema() tbl.Schema { return r.schema }

// frameSchema maps each leaf of a flat Parquet schema onto a column kind.
func frameSchema(s *parquet.Schema) (tbl.Schema, error) {
	fields := s.Fields()
	out := tbl.Schema{Columns: make([]tbl.ColumnSchema, len(fields))}
	for i, field := range fields {
		if !field.Leaf() {
			return tbl.Schema{}, errors.Errorf("parquet: nested field %s is not supported", field.Name())
		}
		out.Columns[i] = tbl.ColumnSchema{Name: field.Name(), Type: kindOf(field.Type()), Nullable: field.Optional()}
	}
	return out, nil
}

func kindOf(t parquet.Type) tbl.Kind {
	switch t.Kind() {
	case parquet.Boolean:
		return tbl.KindBool
	case parquet.Int32, parquet.Int64:
		return tbl.KindInt
	case parquet.Float, parquet.Double:
		return tbl.KindFloat
	default:
		return tbl.KindString
	}
}

func (r *Reader) ReadAll() (*tbl.Frame, error) {
	f := tbl.NewFrame(r.schema)
	buf := make([]parquet.Row, 1024)
	for {
		n, err := r.reader.ReadRows(buf)
		for i := 0; i < n; i++ {
			f.AppendNullRow()
			setRow(f, f.Rows()-1, buf[i])
		}
		if err == io.EOF || (err == nil && n == 0) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "parquet: read rows")
		}
	}
	return f, nil
}

func setRow(f *tbl.Frame, row int, values parquet.Row) {
	for _, v := range values {
		if v.IsNull() || v.Column() < 0 || v.Column() >= f.Cols() {
			continue
		}
		switch col := f.Column(v.Column()).(type) {
		case *tbl.BoolColumn:
			col.Set(row, v.Boolean())
		case *tbl.IntColumn:
			if v.Kind() == parquet.Int32 {
				col.Set(row, int64(v.Int32()))
			} else {
				col.Set(row, v.Int64())
			}
		case *tbl.FloatColumn:
			if v.Kind() == parquet.Float {
				col.Set(row, float64(v.Float()))
			} else {
				col.Set(row, v.Double())
			}
		case *tbl.StringColumn:
			col.Set(row, string(v.ByteArray()))
		}
	}
}

// ReadFile reads a whole Parquet file into a Frame.
func ReadFile(path string) (*tbl.Frame, error) {
	r, err := OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return r.ReadAll()
}
