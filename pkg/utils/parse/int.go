// ABOUTME: Utility functions for parsing counts scraped from HTML
// ABOUTME: Accepts thousands separators and k/m suffixes, returning 0 on failure

package parse

import (
	"strconv"
	"strings"
)

// IntOrZero safely parses an integer from a string, returning 0 if parsing fails
func IntOrZero(s string) int {
	v, _ := strconv.Atoi(strings.TrimSpace(s))
	return v
}

// Count parses display counts such as "1,234", "12.5k" or "3M".
// Malformed or negative input yields 0.
func Count(s string) int {
	s = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	if s == "" {
		return 0
	}

	mult := 1.0
	switch {
	case strings.HasSuffix(s, "k"):
		mult, s = 1e3, strings.TrimSuffix(s, "k")
	case strings.HasSuffix(s, "m"):
		mult, s = 1e6, strings.TrimSuffix(s, "m")
	}

	if mult == 1 {
		return max(IntOrZero(s), 0)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return int(f * mult)
}
