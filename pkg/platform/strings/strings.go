// Package strings provides string helpers shared by form collection and
// record rendering.
package strings

import (
	"strings"
)

// Selected normalizes the values of a multi-select group: each value is
// trimmed, empties are dropped and duplicates removed. Order is preserved so
// the result follows the order the controls were posted in.
//
// Example:
//
//	Selected([]string{" cricket ", "kabaddi", "cricket", ""})
//	// Returns: []string{"cricket", "kabaddi"}
func Selected(values []string) []string {
	result := make([]string, 0, len(values))
	if len(values) == 0 {
		return result
	}

	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}

// SameSet reports whether a and b hold the same values regardless of order.
// Duplicates count once.
func SameSet(a, b []string) bool {
	as := make(map[string]struct{}, len(a))
	for _, v := range a {
		as[v] = struct{}{}
	}
	bs := make(map[string]struct{}, len(b))
	for _, v := range b {
		if _, ok := as[v]; !ok {
			return false
		}
		bs[v] = struct{}{}
	}
	return len(as) == len(bs)
}

// Humanize turns an option value such as "disaster_relief" into display text
// ("disaster relief").
func Humanize(value string) string {
	return strings.ReplaceAll(value, "_", " ")
}

// HumanizeList humanizes each value and joins them with ", ".
func HumanizeList(values []string) string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = Humanize(v)
	}
	return strings.Join(out, ", ")
}

// Or returns value, or fallback when value is blank.
func Or(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
