package parquetio

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tbl "github.com/wdm0006/homeprice/pkg/table"
)

func TestWriteThenRead(t *testing.T) {
	s := tbl.Schema{Columns: []tbl.ColumnSchema{
		{Name: "rooms", Type: tbl.KindInt, Nullable: true},
		{Name: "income", Type: tbl.KindFloat, Nullable: true},
		{Name: "proximity", Type: tbl.KindString, Nullable: true},
	}}
	f := tbl.NewFrame(s)
	for i := 0; i < 3; i++ {
		f.AppendNullRow()
		_ = f.SetCell(i, "rooms", int64(i+3))
		_ = f.SetCell(i, "proximity", "INLAND")
	}
	_ = f.SetCell(0, "income", 2.5)
	_ = f.SetCell(2, "income", 4.0)

	p := filepath.Join(t.TempDir(), "houses.parquet")
	require.NoError(t, WriteAll(p, f))

	back, err := ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, 3, back.Rows())
	assert.Equal(t, []string{"rooms", "income", "proximity"}, back.Schema().Names())

	income, ok := back.ColumnByName("income")
	require.True(t, ok)
	assert.Equal(t, tbl.KindFloat, income.Kind())
	assert.True(t, income.IsNull(1))
	v, _ := income.(*tbl.FloatColumn).Get(2)
	assert.Equal(t, 4.0, v)

	rooms, _ := back.ColumnByName("rooms")
	n, _ := rooms.(*tbl.IntColumn).Get(1)
	assert.Equal(t, int64(4), n)
}

func TestSchemaRejectsTagBreakingNames(t *testing.T) {
	_, err := parquetSchemaJSON(tbl.Schema{Columns: []tbl.ColumnSchema{{Name: "a,b", Type: tbl.KindFloat}}})
	assert.Error(t, err)
}
