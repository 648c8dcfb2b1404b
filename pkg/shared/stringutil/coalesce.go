package stringutil

import "strings"

// EnvOr returns value (trimmed) if non-empty, otherwise returns existing.
func EnvOr(existing, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return existing
	}
	return value
}

// FirstNonEmpty returns the first value that is non-empty after trimming, trimmed.
func FirstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
