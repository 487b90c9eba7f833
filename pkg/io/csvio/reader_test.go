package csvio

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tbl "github.com/wdm0006/homeprice/pkg/table"
)

func housingPath() string {
	return filepath.FromSlash("../../../examples/data/housing_nulls.csv")
}

func TestInferAndRead(t *testing.T) {
	r, err := Open(housingPath(), ReaderOptions{HasHeader: true})
	require.NoError(t, err)
	defer func() { _ = r.Close() }()
	schema, names, err := r.InferSchema()
	require.NoError(t, err)
	require.Len(t, schema.Columns, 10)
	assert.Equal(t, "longitude", names[1])
	assert.Equal(t, tbl.KindFloat, schema.Columns[1].Type)
	assert.Equal(t, tbl.KindInt, schema.Columns[4].Type)
	assert.Equal(t, tbl.KindString, schema.Columns[9].Type)

	fr, err := r.ReadAll(schema)
	require.NoError(t, err)
	assert.Equal(t, 24, fr.Rows())
	bedrooms, _ := fr.ColumnByName("bedrooms")
	assert.Equal(t, 3, bedrooms.NullCount())
	income, _ := fr.ColumnByName("monthly_income_in_k_USD")
	assert.Equal(t, 2, income.NullCount())
	assert.Empty(t, r.Warnings())
}

func TestSniffSemicolon(t *testing.T) {
	assert.Equal(t, ';', sniffDelimiter([]byte("a;b;c\n1;2;3\n")))
	assert.Equal(t, '\t', sniffDelimiter([]byte("a\tb\n")))
	assert.Equal(t, ',', sniffDelimiter(nil))
}

func TestMixedColumnIsClassifiedAsWhole(t *testing.T) {
	in := "n,mixed,flag\n1,2,true\n2,x,false\n3,4,\n4,5,true\n"
	r := NewReaderFrom(strings.NewReader(in), ReaderOptions{HasHeader: true})
	schema, _, err := r.InferSchema()
	require.NoError(t, err)
	assert.Equal(t, tbl.KindInt, schema.Columns[0].Type)
	assert.Equal(t, tbl.KindInt, schema.Columns[1].Type)
	assert.Equal(t, tbl.KindBool, schema.Columns[2].Type)

	f, err := r.ReadAll(schema)
	require.NoError(t, err)
	mixed, _ := f.ColumnByName("mixed")
	assert.True(t, mixed.IsNull(1))
	flag, _ := f.ColumnByName("flag")
	assert.True(t, flag.IsNull(2))
}

func TestStrictShortRecord(t *testing.T) {
	r := NewReaderFrom(strings.NewReader("a,b\n1,2\n3\n"), ReaderOptions{HasHeader: true, Strict: true})
	schema, _, err := r.InferSchema()
	require.NoError(t, err)
	_, err = r.ReadAll(schema)
	assert.Error(t, err)

	r = NewReaderFrom(strings.NewReader("a,b\n1,2\n3\n"), ReaderOptions{HasHeader: true})
	schema, _, err = r.InferSchema()
	require.NoError(t, err)
	f, err := r.ReadAll(schema)
	require.NoError(t, err)
	assert.Equal(t, 2, f.Rows())
	assert.Equal(t, "short_records=1", r.Warnings())
}

func TestWriteRoundTrip(t *testing.T) {
	f, err := ReadFile(housingPath(), ReaderOptions{HasHeader: true})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, f, WriterOptions{}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 25)
	assert.True(t, strings.HasPrefix(lines[0], "Unnamed: 0,longitude,latitude"))
	assert.Equal(t, "2,-122.24,37.85,52,1467,,496,7.2574,352100,NEAR BAY", lines[3])

	p := filepath.Join(t.TempDir(), "out.csv.gz")
	require.NoError(t, WriteAll(p, f, WriterOptions{}))
	back, err := ReadFile(p, ReaderOptions{HasHeader: true})
	require.NoError(t, err)
	assert.Equal(t, f.Schema(), back.Schema())
	assert.Equal(t, f.Rows(), back.Rows())
}
