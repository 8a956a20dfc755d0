package types

import (
	"regexp"
	"strings"
)

var positiveNumericRegex = regexp.MustCompile(`^[1-9][0-9]*$`)

// StringPtr converts a string to a pointer to a string
func StringPtr(s string) *string {
	return &s
}

// Uint64Ptr converts a uint64 to a pointer
func Uint64Ptr(v uint64) *uint64 {
	return &v
}

// StringNilOrEmpty checks if a pointer to a string is nil or blank
func StringNilOrEmpty(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// SafeString returns the pointed-to string or empty string
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// FirstNonEmpty returns the first argument that is not blank, trimmed
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// IsPositiveNumeric checks if a string is a decimal integer greater than zero
func IsPositiveNumeric(s string) bool {
	return positiveNumericRegex.MatchString(s)
}

// NormalizeTags trims tags, drops blanks and removes case-insensitive duplicates, keeping first occurrence
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		k := strings.ToLower(tag)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
