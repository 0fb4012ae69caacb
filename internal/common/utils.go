package common

import "strings"

// HasAnyPrefix returns true if s starts with any of the prefixes (case-insensitive).
func HasAnyPrefix(s string, prefixes ...string) bool {
	lower := strings.ToLower(s)
	for _, p := range prefixes {
		if strings.HasPrefix(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// NormalizeKey lower-cases and trims s and folds '-' and '_' into single spaces,
// so "Light-Rain", "light_rain" and " light rain " compare equal.
func NormalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
