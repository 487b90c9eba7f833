package csvio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	iox "github.com/wdm0006/homeprice/pkg/io/ioutils"
	tbl "github.com/wdm0006/homeprice/pkg/table"
)

type ReaderOptions struct {
	HasHeader  bool
	Delimiter  rune // 0 = sniff, default ','
	SampleRows int  // for inference; default 100
	Strict     bool // if true, error on short/long records
}

// missingMarkers are cell values read as missing, in addition to the empty string.
var missingMarkers = map[string]struct{}{
	"na": {}, "n/a": {}, "nan": {}, "null": {}, "none": {}, "-nan": {},
}

var numre = regexp.MustCompile(`^[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?$`)

func isMissing(v string) bool {
	if v == "" {
		return true
	}
	_, ok := missingMarkers[strings.ToLower(v)]
	return ok
}

type Reader struct {
	r     *csv.Reader
	src   io.Closer
	opt   ReaderOptions
	buf   [][]string
	names []string
	// repair/warning counters
	shortRecords int
	longRecords  int
}

// Open opens a CSV file (optionally gzip compressed, "-" for stdin) and
// returns a Reader. The caller must Close it.
func Open(path string, opt ReaderOptions) (*Reader, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(rc)
	if opt.Delimiter == 0 {
		sample, _ := br.Peek(4096)
		opt.Delimiter = sniffDelimiter(sample)
	}
	r := NewReaderFrom(br, opt)
	r.src = rc
	return r, nil
}

// NewReaderFrom constructs a Reader from an arbitrary io.Reader (stdin, pipe).
func NewReaderFrom(r io.Reader, opt ReaderOptions) *Reader {
	rr := csv.NewReader(r)
	if opt.Delimiter != 0 {
		rr.Comma = opt.Delimiter
	}
	rr.LazyQuotes = true
	rr.FieldsPerRecord = -1
	return &Reader{r: rr, opt: opt}
}

func (r *Reader) Close() error {
	if r.src == nil {
		return nil
	}
	return r.src.Close()
}

// InferSchema reads header (if present) and samples rows to determine column
// kinds. The sampled rows are kept for ReadAll.
func (r *Reader) InferSchema() (tbl.Schema, []string, error) {
	rec, err := r.r.Read()
	if err != nil {
		return tbl.Schema{}, nil, errors.Wrap(err, "csv: read first record")
	}
	var names []string
	if r.opt.HasHeader {
		names = make([]string, len(rec))
		for i := range rec {
			names[i] = strings.TrimSpace(strings.ToValidUTF8(rec[i], "?"))
		}
		// strip BOM on first header cell if present
		if len(names) > 0 {
			names[0] = strings.TrimPrefix(names[0], "\ufeff")
		}
		rec, err = r.r.Read()
		if err == io.EOF {
			rec = nil
		} else if err != nil {
			return tbl.Schema{}, nil, errors.Wrap(err, "csv: read first data record")
		}
	} else {
		names = make([]string, len(rec))
		for i := range names {
			names[i] = "col_" + strconv.Itoa(i)
		}
	}

	var sample [][]string
	if rec != nil {
		sample = append(sample, append([]string(nil), rec...))
	}
	max := r.opt.SampleRows
	if max <= 0 {
		max = 100
	}
	for len(sample) > 0 && len(sample) < max {
		rr, err := r.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return tbl.Schema{}, nil, errors.Wrap(err, "csv: sample records")
		}
		sample = append(sample, append([]string(nil), rr...))
	}

	kinds := inferKinds(sample, len(names))
	schema := tbl.Schema{Columns: make([]tbl.ColumnSchema, len(names))}
	for i := range names {
		schema.Columns[i] = tbl.ColumnSchema{Name: names[i], Type: kinds[i], Nullable: true}
	}
	r.buf = append(r.buf, sample...)
	r.names = names
	return schema, names, nil
}

// ReadAll loads the rest of the CSV into a Frame.
func (r *Reader) ReadAll(schema tbl.Schema) (*tbl.Frame, error) {
	f := tbl.NewFrame(schema)
	line := 0
	next := func() ([]string, error) {
		if len(r.buf) > 0 {
			rec := r.buf[0]
			r.buf = r.buf[1:]
			return rec, nil
		}
		return r.r.Read()
	}
	for {
		rec, err := next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "csv: read record")
		}
		line++
		if err := r.appendRecord(f, schema, rec, line); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// appendRecord adds one record as a new row. Unparseable numeric cells are
// left missing.
func (r *Reader) appendRecord(f *tbl.Frame, schema tbl.Schema, rec []string, line int) error {
	switch {
	case len(rec) > len(schema.Columns):
		r.longRecords++
		if r.opt.Strict {
			return errors.Errorf("csv: long record at data row %d: need %d fields, got %d", line, len(schema.Columns), len(rec))
		}
	case len(rec) < len(schema.Columns):
		r.shortRecords++
		if r.opt.Strict {
			return errors.Errorf("csv: short record at data row %d: need %d fields, got %d", line, len(schema.Columns), len(rec))
		}
	}
	f.AppendNullRow()
	row := f.Rows() - 1
	for i, cs := range schema.Columns {
		if i >= len(rec) {
			break
		}
		val := strings.ToValidUTF8(strings.TrimSpace(rec[i]), "?")
		if isMissing(val) {
			continue
		}
		switch cs.Type {
		case tbl.KindFloat:
			if x, err := strconv.ParseFloat(val, 64); err == nil {
				_ = f.SetCell(row, cs.Name, x)
			}
		case tbl.KindInt:
			if x, err := strconv.ParseInt(val, 10, 64); err == nil {
				_ = f.SetCell(row, cs.Name, x)
			} else if x, err := strconv.ParseFloat(val, 64); err == nil {
				_ = f.SetCell(row, cs.Name, int64(x))
			}
		case tbl.KindBool:
			if x, err := strconv.ParseBool(strings.ToLower(val)); err == nil {
				_ = f.SetCell(row, cs.Name, x)
			}
		default:
			_ = f.SetCell(row, cs.Name, val)
		}
	}
	return nil
}

// inferKinds classifies whole columns: a column is numeric when most of its
// non-missing sampled cells look like numbers, never cell by cell.
func inferKinds(rows [][]string, ncol int) []tbl.Kind {
	kinds := make([]tbl.Kind, ncol)
	for c := 0; c < ncol; c++ {
		num, integer, boolean, str := 0, 0, 0, 0
		for _, row := range rows {
			if c >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[c])
			if isMissing(v) {
				continue
			}
			lv := strings.ToLower(v)
			switch {
			case numre.MatchString(v):
				num++
				if !strings.ContainsAny(v, ".eE") {
					integer++
				}
			case lv == "true" || lv == "false":
				boolean++
			default:
				str++
			}
		}
		switch {
		case num > str && num >= boolean:
			// prefer float over int to be permissive
			if integer == num {
				kinds[c] = tbl.KindInt
			} else {
				kinds[c] = tbl.KindFloat
			}
		case boolean > 0 && boolean > str:
			kinds[c] = tbl.KindBool
		default:
			kinds[c] = tbl.KindString
		}
	}
	return kinds
}

func sniffDelimiter(sample []byte) rune {
	if len(sample) == 0 {
		return ','
	}
	// only look at the first line so quoted text further down does not skew the count
	if i := strings.IndexByte(string(sample), '\n'); i > 0 {
		sample = sample[:i]
	}
	best, bestCount := byte(','), 0
	for _, c := range []byte{',', '\t', ';', '|'} {
		cnt := 0
		for _, b := range sample {
			if b == c {
				cnt++
			}
		}
		if cnt > bestCount {
			bestCount = cnt
			best = c
		}
	}
	return rune(best)
}

// Warnings returns a summary string of any repairs/mismatches encountered.
func (r *Reader) Warnings() string {
	if r.shortRecords == 0 && r.longRecords == 0 {
		return ""
	}
	parts := []string{}
	if r.shortRecords > 0 {
		parts = append(parts, fmt.Sprintf("short_records=%d", r.shortRecords))
	}
	if r.longRecords > 0 {
		parts = append(parts, fmt.Sprintf("long_records=%d", r.longRecords))
	}
	return strings.Join(parts, ", ")
}

// ReadFile opens path, infers its schema and reads every row.
func ReadFile(path string, opt ReaderOptions) (*tbl.Frame, error) {
	r, err := Open(path, opt)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	schema, _, err := r.InferSchema()
	if err != nil {
		return nil, err
	}
	return r.ReadAll(schema)
}
