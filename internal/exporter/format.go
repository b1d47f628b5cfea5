package exporter

import (
	"math"
	"strconv"
)

// powerDecimals is the precision of kW values in CSV output (1 W).
const powerDecimals = 3

// formatPower formats a kW value for CSV output with a fixed number of
// decimals. NaN is written as an empty field.
func formatPower(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', powerDecimals, 64)
}

// cellValue converts a float to what excelize should store: NaN and
// infinities have no spreadsheet representation and become blank.
func cellValue(f float64) interface{} {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}
