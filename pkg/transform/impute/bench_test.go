package impute

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	tbl "github.com/wdm0006/homeprice/pkg/table"
)

// makeLargeFrame returns n rows of cols float columns; every column but the
// first loses roughly one cell in fifty.
func makeLargeFrame(b *testing.B, n, cols int) *tbl.Frame {
	rnd := rand.New(rand.NewSource(1))
	cs := make([]tbl.Column, cols)
	for c := range cs {
		col := tbl.NewFloatColumn(fmt.Sprintf("x%d", c), 0)
		for i := 0; i < n; i++ {
			if c > 0 && rnd.Intn(50) == 0 {
				col.AppendNull()
				continue
			}
			col.Append(rnd.Float64() * 100)
		}
		cs[c] = col
	}
	return mustFrame(b, cs...)
}

func BenchmarkImputeKNN(b *testing.B) {
	for _, par := range []int{1, 4} {
		b.Run(fmt.Sprintf("parallelism=%d", par), func(b *testing.B) {
			f := makeLargeFrame(b, 5000, 6)
			imp := &KNN{Parallelism: par}
			b.ResetTimer()
			for n := 0; n < b.N; n++ {
				if _, err := imp.Apply(context.Background(), f); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
