// Command benchimpute times KNN imputation on a generated frame.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/wdm0006/homeprice/pkg/knn"
	tbl "github.com/wdm0006/homeprice/pkg/table"
	"github.com/wdm0006/homeprice/pkg/transform/impute"
)

// generate builds a frame of nf float, ni int and ns string columns. The
// first float column is kept fully observed so the imputer has a predictor.
func generate(rows, nf, ni, ns int, missp float64, rnd *rand.Rand) *tbl.Frame {
	var cols []tbl.ColumnSchema
	for i := 0; i < nf; i++ {
		cols = append(cols, tbl.ColumnSchema{Name: fmt.Sprintf("f%d", i), Type: tbl.KindFloat, Nullable: true})
	}
	for i := 0; i < ni; i++ {
		cols = append(cols, tbl.ColumnSchema{Name: fmt.Sprintf("i%d", i), Type: tbl.KindInt, Nullable: true})
	}
	for i := 0; i < ns; i++ {
		cols = append(cols, tbl.ColumnSchema{Name: fmt.Sprintf("s%d", i), Type: tbl.KindString, Nullable: true})
	}
	f := tbl.NewFrame(tbl.Schema{Columns: cols})
	for r := 0; r < rows; r++ {
		f.AppendNullRow()
		for ci, cs := range cols {
			if ci > 0 && rnd.Float64() < missp {
				continue
			}
			switch cs.Type {
			case tbl.KindFloat:
				_ = f.SetCell(r, cs.Name, rnd.Float64()*100)
			case tbl.KindInt:
				_ = f.SetCell(r, cs.Name, int64(rnd.Intn(100)))
			case tbl.KindString:
				_ = f.SetCell(r, cs.Name, "INLAND")
			}
		}
	}
	return f
}

func main() {
	var (
		rows    = flag.Int("rows", 20_000, "rows to generate")
		fcols   = flag.Int("float-cols", 4, "number of float columns")
		icols   = flag.Int("int-cols", 2, "number of int columns")
		scols   = flag.Int("string-cols", 1, "number of string columns")
		missp   = flag.Float64("missing", 0.01, "probability of a missing cell")
		k       = flag.Int("k", knn.DefaultK, "neighbours")
		metric  = flag.String("metric", string(knn.Euclidean), "euclidean or manhattan")
		par     = flag.Int("parallelism", runtime.GOMAXPROCS(0), "columns fitted concurrently")
		jsonOut = flag.Bool("json", false, "emit JSON summary")
		seed    = flag.Int64("seed", 42, "random seed")
	)
	flag.Parse()
	if *fcols < 1 {
		fmt.Fprintln(os.Stderr, "need at least one float column")
		os.Exit(2)
	}

	f := generate(*rows, *fcols, *icols, *scols, *missp, rand.New(rand.NewSource(*seed)))
	var missing int
	for _, c := range f.Columns() {
		missing += c.NullCount()
	}
	imp := &impute.KNN{K: *k, Metric: knn.Metric(*metric), Parallelism: *par}

	runtime.GC()
	var msBefore, msAfter runtime.MemStats
	runtime.ReadMemStats(&msBefore)
	start := time.Now()
	if _, err := imp.Apply(context.Background(), f); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	elapsed := time.Since(start)
	runtime.ReadMemStats(&msAfter)

	cellsPerSec := float64(missing) / elapsed.Seconds()
	summary := map[string]any{
		"rows":                  *rows,
		"missing_cells":         missing,
		"elapsed_ms":            elapsed.Milliseconds(),
		"cells_per_sec":         cellsPerSec,
		"mem_total_alloc_bytes": msAfter.TotalAlloc - msBefore.TotalAlloc,
		"gc_num":                msAfter.NumGC - msBefore.NumGC,
		"cols":                  map[string]int{"float": *fcols, "int": *icols, "string": *scols},
		"k":                     *k,
		"parallelism":           *par,
		"missing_prob":          *missp,
	}
	if *jsonOut {
		b, _ := json.MarshalIndent(summary, "", "  ")
		fmt.Println(string(b))
		return
	}
	fmt.Printf("Rows: %d\n", *rows)
	fmt.Printf("Missing cells: %d\n", missing)
	fmt.Printf("Elapsed: %s\n", elapsed)
	fmt.Printf("Throughput: %.0f cells/s\n", cellsPerSec)
	fmt.Printf("Total Alloc (delta): %d MB\n", (msAfter.TotalAlloc-msBefore.TotalAlloc)/1024/1024)
	fmt.Printf("GC cycles (delta): %d\n", msAfter.NumGC-msBefore.NumGC)
}
