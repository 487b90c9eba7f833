package house

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHouse() *House {
	return &House{
		Address:        "123 Test Street",
		Longitude:      -120.0,
		Latitude:       35.0,
		HouseAge:       10,
		Rooms:          5,
		Bedrooms:       3,
		NumberOfPeople: 4,
		MonthlyIncome:  10,
	}
}

func TestPrintInfo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testHouse().PrintInfo(&buf))
	want := "House Attributes:\n" +
		"Address: 123 Test Street\n" +
		"Longitude: -120.0\n" +
		"Latitude: 35.0\n" +
		"House Age in years: 10.0\n" +
		"Rooms: 5.0\n" +
		"Bedrooms: 3.0\n" +
		"Number of People: 4.0\n" +
		"Monthly Income (in k USD): 10.0"
	assert.Equal(t, want, strings.TrimSpace(buf.String()))
}

func TestWriteInfoFile(t *testing.T) {
	h := testHouse()
	h.SetPrice(300000)
	dir := t.TempDir()
	p, err := h.WriteInfoFile(dir)
	require.NoError(t, err)
	assert.Equal(t, "123_Test_Street_info.txt", h.InfoFileName())

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	want := "House Attributes:\n" +
		"Address: 123 Test Street\n" +
		"Longitude: -120.0\n" +
		"Latitude: 35.0\n" +
		"House Age: 10.0\n" +
		"Rooms: 5.0\n" +
		"Bedrooms: 3.0\n" +
		"Number of People: 4.0\n" +
		"Monthly Income (in k USD): 10.0\n" +
		"House Price: 300000.0\n"
	assert.Equal(t, want, string(b))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, testHouse().Validate())

	h := testHouse()
	h.Address = ""
	assert.Error(t, h.Validate())

	h = testHouse()
	h.Latitude = 120
	assert.Error(t, h.Validate())

	h = testHouse()
	h.Bedrooms = 9
	assert.Error(t, h.Validate())
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "-120.0", formatNumber(-120))
	assert.Equal(t, "8.3252", formatNumber(8.3252))
	assert.Equal(t, "0.0", formatNumber(0))
}

func TestFeaturesOrder(t *testing.T) {
	f := testHouse().Features()
	require.Len(t, f, len(FeatureNames))
	assert.Equal(t, -120.0, f[0])
	assert.Equal(t, 10.0, f[6])
}
