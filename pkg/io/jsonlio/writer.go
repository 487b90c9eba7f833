package jsonlio

import (
	"io"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"

	iox "github.com/wdm0006/homeprice/pkg/io/ioutils"
	tbl "github.com/wdm0006/homeprice/pkg/table"
)

// WriteAll writes f to path as JSON Lines. Paths ending in .gz are
// compressed; "-" writes to stdout.
func WriteAll(path string, f *tbl.Frame) (err error) {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return Write(out, f)
}

// Write encodes one object per row. Missing cells are omitted.
func Write(w io.Writer, f *tbl.Frame) error {
	enc := json.NewEncoder(w)
	names := f.Schema().Names()
	for r := 0; r < f.Rows(); r++ {
		m := make(map[string]any, len(names))
		for _, name := range names {
			v, err := f.Cell(r, name)
			if err != nil {
				return err
			}
			if v != nil {
				m[name] = v
			}
		}
		if err := enc.Encode(m); err != nil {
			return errors.Wrapf(err, "jsonl row %d", r)
		}
	}
	return nil
}
