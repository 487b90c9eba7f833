// Package house holds house records and the registry that owns them.
package house

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// FeatureNames are the dataset columns a House maps onto, in Features order.
var FeatureNames = []string{
	"longitude",
	"latitude",
	"house_age",
	"rooms",
	"bedrooms",
	"number_of_people",
	"monthly_income_in_k_USD",
}

// House is one registered property. Price is nil until estimated.
type House struct {
	Address        string   `json:"address" validate:"required"`
	Longitude      float64  `json:"longitude" validate:"gte=-180,lte=180"`
	Latitude       float64  `json:"latitude" validate:"gte=-90,lte=90"`
	HouseAge       float64  `json:"house_age" validate:"gte=0"`
	Rooms          float64  `json:"rooms" validate:"gte=0"`
	Bedrooms       float64  `json:"bedrooms" validate:"gte=0,ltefield=Rooms"`
	NumberOfPeople float64  `json:"number_of_people" validate:"gte=0"`
	MonthlyIncome  float64  `json:"monthly_income_in_k_USD" validate:"gte=0"`
	Price          *float64 `json:"house_price,omitempty"`
}

var validate = validator.New()

// Validate checks the attribute ranges.
func (h *House) Validate() error {
	if err := validate.Struct(h); err != nil {
		return errors.Wrapf(err, "house %q", h.Address)
	}
	return nil
}

// Features returns the attributes in FeatureNames order.
func (h *House) Features() []float64 {
	return []float64{
		h.Longitude,
		h.Latitude,
		h.HouseAge,
		h.Rooms,
		h.Bedrooms,
		h.NumberOfPeople,
		h.MonthlyIncome,
	}
}

// SetPrice records an estimated price.
func (h *House) SetPrice(p float64) { h.Price = &p }

// PrintInfo writes the attribute block shown on screen.
func (h *House) PrintInfo(w io.Writer) error {
	return h.writeInfo(w, "House Age in years")
}

// InfoFileName is the file WriteInfoFile creates for this house.
func (h *House) InfoFileName() string {
	return strings.ReplaceAll(h.Address, " ", "_") + "_info.txt"
}

// WriteInfoFile writes the attribute block to <dir>/<address>_info.txt and
// returns the path written.
func (h *House) WriteInfoFile(dir string) (string, error) {
	p := filepath.Join(dir, h.InfoFileName())
	f, err := os.Create(p)
	if err != nil {
		return "", errors.Wrapf(err, "create %s", p)
	}
	if err := h.writeInfo(f, "House Age"); err != nil {
		_ = f.Close()
		return "", err
	}
	return p, f.Close()
}

func (h *House) writeInfo(w io.Writer, ageLabel string) error {
	lines := []string{
		"House Attributes:",
		"Address: " + h.Address,
		"Longitude: " + formatNumber(h.Longitude),
		"Latitude: " + formatNumber(h.Latitude),
		ageLabel + ": " + formatNumber(h.HouseAge),
		"Rooms: " + formatNumber(h.Rooms),
		"Bedrooms: " + formatNumber(h.Bedrooms),
		"Number of People: " + formatNumber(h.NumberOfPeople),
		"Monthly Income (in k USD): " + formatNumber(h.MonthlyIncome),
	}
	if h.Price != nil {
		lines = append(lines, "House Price: "+formatNumber(*h.Price))
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

// formatNumber prints the shortest representation, keeping a ".0" on whole
// numbers so attributes always read as decimals.
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
