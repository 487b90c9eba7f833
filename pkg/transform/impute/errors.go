package impute

import (
	"fmt"
	"strings"
)

// InvalidInputError reports a frame the imputer cannot work on at all.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "impute: invalid input: " + e.Reason
}

// DegenerateFeatureSetError is returned when every numeric column has at
// least one missing value, leaving no predictor to fit on.
type DegenerateFeatureSetError struct {
	Columns []string
}

func (e *DegenerateFeatureSetError) Error() string {
	return fmt.Sprintf("impute: no fully observed numeric column to predict from; all of [%s] have missing values",
		strings.Join(e.Columns, ", "))
}

// NoTrainingDataError is returned when no row is complete across the
// numeric columns.
type NoTrainingDataError struct {
	Columns []string
	Rows    int
}

func (e *NoTrainingDataError) Error() string {
	return fmt.Sprintf("impute: none of %d rows is complete across numeric columns [%s]",
		e.Rows, strings.Join(e.Columns, ", "))
}
