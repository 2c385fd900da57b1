package search

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeQuery trims surrounding whitespace and converts the query to
// Unicode NFC, so that visually identical queries compare equal. It returns
// "" for empty or whitespace-only input.
func NormalizeQuery(q string) string {
	return norm.NFC.String(strings.TrimSpace(q))
}
