// Package fips formats numeric county FIPS codes.
package fips

import "fmt"

// Digit widths of the state and county parts.
const (
	StateDigits  = 2
	CountyDigits = 3
	GEOIDDigits  = StateDigits + CountyDigits
)

// Format formats a numeric code with zero-padding.
func Format(code int, digits int) string {
	return fmt.Sprintf("%0*d", digits, code)
}

// GEOID returns the 5-digit county code, e.g. 1001 -> "01001".
func GEOID(code int) string {
	return Format(code, GEOIDDigits)
}

// State returns the 2-digit state part of a county code.
func State(code int) string {
	return Format(code/1000, StateDigits)
}

// County returns the 3-digit county part of a county code.
func County(code int) string {
	return Format(code%1000, CountyDigits)
}
