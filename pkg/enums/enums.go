// Package enums holds the closed string sets persisted in Postgres columns
// and accepted over the API.
package enums

import (
	"fmt"
	"slices"
	"strings"
)

// parse matches raw case-insensitively against the known values of kind.
func parse[T ~string](kind string, known []T, raw string) (T, error) {
	normalized := T(strings.ToLower(strings.TrimSpace(raw)))
	if slices.Contains(known, normalized) {
		return normalized, nil
	}
	return "", fmt.Errorf("invalid %s %q", kind, raw)
}

// names renders the known values for error details.
func names[T ~string](known []T) []string {
	out := make([]string, len(known))
	for i, v := range known {
		out[i] = string(v)
	}
	return out
}
