// Package profile summarises the columns of a Frame, with emphasis on how
// many cells are missing.
package profile

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"

	tbl "github.com/wdm0006/homeprice/pkg/table"
)

type NumStats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

type ColumnProfile struct {
	Name  string    `json:"name"`
	Kind  string    `json:"kind"`
	Count int       `json:"count"`
	Nulls int       `json:"nulls"`
	Num   *NumStats `json:"num,omitempty"`
}

// Collect profiles every column of f in order.
func Collect(f *tbl.Frame) []ColumnProfile {
	out := make([]ColumnProfile, 0, f.Cols())
	for _, col := range f.Columns() {
		cp := ColumnProfile{Name: col.Name(), Kind: col.Kind().String(), Nulls: col.NullCount()}
		cp.Count = col.Len() - cp.Nulls
		if n, ok := col.(tbl.Numeric); ok && cp.Count > 0 {
			cp.Num = numStats(n)
		}
		out = append(out, cp)
	}
	return out
}

func numStats(c tbl.Numeric) *NumStats {
	s := &NumStats{Min: math.Inf(1), Max: math.Inf(-1)}
	var sum float64
	var n int
	for i := 0; i < c.Len(); i++ {
		v, ok := c.Float(i)
		if !ok {
			continue
		}
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
		sum += v
		n++
	}
	s.Mean = sum / float64(n)
	return s
}

// WithMissing returns the names of profiled columns that have nulls.
func WithMissing(ps []ColumnProfile) []string {
	var names []string
	for _, p := range ps {
		if p.Nulls > 0 {
			names = append(names, p.Name)
		}
	}
	return names
}

// WriteTable renders ps as a text table.
func WriteTable(w io.Writer, title string, ps []ColumnProfile) {
	fmt.Fprintln(w, title)
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"Column", "Kind", "Count", "Nulls", "Min", "Max", "Mean"})
	for _, p := range ps {
		row := []string{p.Name, p.Kind, strconv.Itoa(p.Count), strconv.Itoa(p.Nulls), "", "", ""}
		if p.Num != nil {
			row[4] = fmt.Sprintf("%.6g", p.Num.Min)
			row[5] = fmt.Sprintf("%.6g", p.Num.Max)
			row[6] = fmt.Sprintf("%.6g", p.Num.Mean)
		}
		tw.Append(row)
	}
	tw.Render()
}

// WriteJSON writes ps as an indented JSON document.
func WriteJSON(w io.Writer, ps []ColumnProfile) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Columns []ColumnProfile `json:"columns"`
	}{ps})
}
