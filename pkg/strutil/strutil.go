package strutil

import (
	"fmt"
	"strings"
)

// ParseKeyValues converts ["key=value"] to {"key":"value"}.
// An entry without "=" maps to an empty value, a later entry overrides an earlier one.
func ParseKeyValues(values []string) (map[string]string, error) {
	result := make(map[string]string, len(values))

	for _, value := range values {
		key, val, _ := strings.Cut(value, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid entry %q: empty key", value)
		}
		result[key] = val
	}

	return result, nil
}

// Dedupe returns the strings of in, in order, without duplicates.
func Dedupe(in []string) []string {
	m := make(map[string]struct{})

	var res []string

	for _, s := range in {
		if _, ok := m[s]; !ok {
			res = append(res, s)
			m[s] = struct{}{}
		}
	}

	return res
}
