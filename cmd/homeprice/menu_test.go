package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdm0006/homeprice/pkg/house"
)

type fixedPricer struct{ price float64 }

func (p fixedPricer) EstimateHouse(h *house.House) (float64, error) {
	h.SetPrice(p.price)
	return p.price, nil
}

func (p fixedPricer) Histogram(float64, int) (string, error) { return "<chart>", nil }

func script(lines ...string) *strings.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

var addMain = []string{"1", "1 Main St", "-122.23", "37.88", "41", "880", "129", "322", "8.3252"}

func TestMenuSession(t *testing.T) {
	dir := t.TempDir()
	store := house.NewStore()
	in := script(append(addMain,
		"4", "1 Main St",
		"3", "here", "1 Main St",
		"3", "TEXT", "1 Main St",
		"5",
		"2", "1 Main St",
		"2", "1 Main St",
		"6",
	)...)
	var out bytes.Buffer
	require.NoError(t, NewMenu(in, &out, store, fixedPricer{250000}, dir).Run())

	s := out.String()
	assert.Contains(t, s, "Great, now we have created a new house!")
	assert.Contains(t, s, "Estimated house price: 250000.00")
	assert.Contains(t, s, "<chart>")
	assert.Contains(t, s, "House Age in years")
	assert.Contains(t, s, "Addresses of all houses:")
	assert.Contains(t, s, "House at 1 Main St has been deleted.")
	assert.Contains(t, s, "House not found.")
	assert.True(t, strings.HasSuffix(s, "You have quit the program.\n"))
	assert.Zero(t, store.Len())

	b, err := os.ReadFile(filepath.Join(dir, "1_Main_St_info.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "House Price")
}

func TestMenuBadInput(t *testing.T) {
	store := house.NewStore()
	in := script(
		"seven",
		"9",
		"1", "2 Side St", "BACK",
		"1", "3 Side St", "abc",
		"3", "SOMEWHERE",
		"4", "nowhere",
		"BACK",
	)
	var out bytes.Buffer
	require.NoError(t, NewMenu(in, &out, store, nil, "").Run())

	s := out.String()
	assert.Equal(t, 2, strings.Count(s, "Invalid input! Please enter a number."))
	assert.Contains(t, s, "Please enter a valid number between 1 and 6.")
	assert.Contains(t, s, "Invalid input.")
	assert.Contains(t, s, "House not found for this address.")
	assert.Zero(t, store.Len())
}

func TestMenuRejectsInvalidHouse(t *testing.T) {
	store := house.NewStore()
	in := script("1", "4 Odd St", "0", "0", "10", "2", "5", "3", "4", "6")
	var out bytes.Buffer
	require.NoError(t, NewMenu(in, &out, store, nil, "").Run())

	assert.Contains(t, out.String(), "Error:")
	assert.Zero(t, store.Len())
}

func TestMenuNoModel(t *testing.T) {
	store := house.NewStore()
	in := script(append(addMain, "4", "1 Main St", "6")...)
	var out bytes.Buffer
	require.NoError(t, NewMenu(in, &out, store, nil, "").Run())
	assert.Contains(t, out.String(), "no price model loaded")
}
