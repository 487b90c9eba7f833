package csvio

import "testing"

func BenchmarkReadHousing(b *testing.B) {
	for n := 0; n < b.N; n++ {
		fr, err := ReadFile(housingPath(), ReaderOptions{HasHeader: true})
		if err != nil {
			b.Fatal(err)
		}
		if fr.Rows() == 0 {
			b.Fatal("no rows")
		}
	}
}
