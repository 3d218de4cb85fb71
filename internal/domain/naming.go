package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// validName trims the given name and checks its length bounds, returning the
// trimmed value. All name-bearing catalog aggregates share these rules.
func validName(entity, name string, min, max int) (string, error) {
	trimmed := strings.TrimSpace(name)
	if n := utf8.RuneCountInString(trimmed); n < min || n > max {
		return "", fmt.Errorf("%s name must be between %d and %d characters: %w", entity, min, max, ErrInvalidValue)
	}
	return trimmed, nil
}
