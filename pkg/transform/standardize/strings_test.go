package standardize

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tbl "github.com/wdm0006/homeprice/pkg/table"
)

func proximity(t *testing.T) (*tbl.Frame, *tbl.StringColumn) {
	c := tbl.NewStringColumn("ocean_proximity", 0)
	c.Append("  NEAR BAY ")
	c.Append("INLAND")
	c.AppendNull()
	f, err := tbl.FromColumns(c)
	require.NoError(t, err)
	return f, c
}

func TestSteps(t *testing.T) {
	f, c := proximity(t)
	p := tbl.NewPipeline().
		Add(&Trim{Column: "ocean_proximity"}).
		Add(&Lower{Column: "ocean_proximity"}).
		Add(&RegexReplace{Column: "ocean_proximity", Pattern: `\s+`, Replace: "_"}).
		Add(&MapValues{Column: "ocean_proximity", Map: map[string]string{"inland": "<1H OCEAN"}})
	_, err := p.Run(context.Background(), f)
	require.NoError(t, err)

	v0, _ := c.Get(0)
	v1, _ := c.Get(1)
	assert.Equal(t, "near_bay", v0)
	assert.Equal(t, "<1H OCEAN", v1)
	assert.True(t, c.IsNull(2))
}

func TestErrors(t *testing.T) {
	f, _ := proximity(t)
	_, err := (&Trim{Column: "missing"}).Apply(context.Background(), f)
	assert.Error(t, err)

	_, err = (&RegexReplace{Column: "ocean_proximity", Pattern: "("}).Apply(context.Background(), f)
	assert.Error(t, err)

	g, err := tbl.FromColumns(tbl.FloatColumnOf("x"))
	require.NoError(t, err)
	_, err = (&Lower{Column: "x"}).Apply(context.Background(), g)
	assert.Error(t, err)
}
