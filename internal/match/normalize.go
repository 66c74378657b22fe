package match

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	likeSpecials  = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
)

// LikeEscape is the escape character used by LikePattern. Queries must declare it with
// `ESCAPE '!'`, which parses identically on SQLite, PostgreSQL and MySQL.
const LikeEscape = "!"

// NormalizeInput trims the free-text medicine name and collapses internal whitespace.
func NormalizeInput(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}
	return whitespaceRun.ReplaceAllString(trimmed, " ")
}

// NormalizeBatch trims a batch number. Batch matching is exact, so case is preserved.
func NormalizeBatch(batch string) string {
	return strings.TrimSpace(batch)
}

// LikePattern builds a lower-cased `%term%` pattern with LIKE metacharacters escaped,
// so the SQL backends match exactly what ContainsFold matches.
func LikePattern(term string) string {
	return "%" + likeSpecials.Replace(strings.ToLower(term)) + "%"
}

// ContainsFold reports whether needle is a case-insensitive substring of haystack.
// An empty needle never matches.
func ContainsFold(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// SplitComposition splits a comma separated composition into trimmed ingredients.
func SplitComposition(composition string) []string {
	if strings.TrimSpace(composition) == "" {
		return []string{}
	}
	parts := strings.Split(composition, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// CompactStrings trims every entry and drops empty ones, preserving order.
func CompactStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// FirstNonEmpty returns the first value that is not blank.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
