package csvio

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/pkg/errors"

	iox "github.com/wdm0006/homeprice/pkg/io/ioutils"
	tbl "github.com/wdm0006/homeprice/pkg/table"
)

type WriterOptions struct {
	Delimiter rune // default ','
}

// WriteAll writes a Frame to a CSV file with headers. Paths ending in .gz
// are compressed; "-" writes to stdout.
func WriteAll(path string, f *tbl.Frame, opt WriterOptions) error {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	if err := Write(out, f, opt); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// Write encodes f as CSV onto w. Missing cells are written as empty fields.
func Write(w io.Writer, f *tbl.Frame, opt WriterOptions) error {
	cw := csv.NewWriter(w)
	if opt.Delimiter != 0 {
		cw.Comma = opt.Delimiter
	}
	if err := cw.Write(f.Schema().Names()); err != nil {
		return errors.Wrap(err, "csv: write header")
	}
	row := make([]string, f.Cols())
	for r := 0; r < f.Rows(); r++ {
		for c := range row {
			row[c] = formatCell(f.Column(c), r)
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "csv: write row %d", r)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCell(col tbl.Column, r int) string {
	switch c := col.(type) {
	case *tbl.FloatColumn:
		if v, ok := c.Get(r); ok {
			return strconv.FormatFloat(v, 'g', -1, 64)
		}
	case *tbl.IntColumn:
		if v, ok := c.Get(r); ok {
			return strconv.FormatInt(v, 10)
		}
	case *tbl.BoolColumn:
		if v, ok := c.Get(r); ok {
			return strconv.FormatBool(v)
		}
	case *tbl.StringColumn:
		if v, ok := c.Get(r); ok {
			return v
		}
	case *tbl.TimeColumn:
		if v, ok := c.Get(r); ok {
			return v.Format(time.RFC3339)
		}
	}
	return ""
}
