// Package check holds the string-shape checks used by the domain records.
package check

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	// Accepted phone shapes: digits only, digits joined by hyphens, and an
	// area code followed by an optional space and a hyphenated number.
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\d+$`),
		regexp.MustCompile(`^\d+(-\d+)*$`),
		regexp.MustCompile(`^\d+\s?\d+(-\d+)*$`),
	}

	postalCodePattern = regexp.MustCompile(`^[A-Za-z\d][A-Za-z\d\s-]*$`)
)

// Email reports whether s looks like an e-mail address.
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

// Phone reports whether s matches one of the accepted phone number shapes.
func Phone(s string) bool {
	for _, p := range phonePatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// PostalCode reports whether s starts with a letter or digit and contains
// only letters, digits, spaces and hyphens.
func PostalCode(s string) bool {
	return postalCodePattern.MatchString(s)
}

// Blank reports whether s is empty after trimming whitespace.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// PositiveNumber parses s as a float and reports whether it is a finite
// number greater than zero.
func PositiveNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, v > 0
}
