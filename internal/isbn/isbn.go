// Package isbn validates and normalizes ISBN identifiers.
//
// Validation checks shape only (ISBN-10 or ISBN-13 with optional
// separators); check-digit correctness is deliberately not verified,
// since the lookup service is the authority on whether an ISBN exists.
package isbn

import (
	"regexp"
	"strings"
)

var (
	isbn10Pattern = regexp.MustCompile(`^(?:\d[ -]?){9}[\dX]$`)
	isbn13Pattern = regexp.MustCompile(`^(?:\d[ -]?){12}\d$`)
)

// IsValid reports whether value looks like an ISBN-10 or ISBN-13,
// allowing space or hyphen separators between digits.
func IsValid(value string) bool {
	value = strings.TrimSpace(value)
	return isbn10Pattern.MatchString(value) || isbn13Pattern.MatchString(value)
}

// Normalize strips separators and surrounding whitespace. Returns the
// empty string when the result is not 10 or 13 characters long.
func Normalize(value string) string {
	value = strings.ReplaceAll(value, "-", "")
	value = strings.ReplaceAll(value, " ", "")
	value = strings.TrimSpace(value)

	if len(value) != 10 && len(value) != 13 {
		return ""
	}

	return value
}
