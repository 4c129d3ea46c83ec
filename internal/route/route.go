// Package route turns free-text ride requests into ordered stop labels.
//
// Accepted shapes, tried in this order:
//
//	A -> B -> C   (also → and =>)
//	A; B; C
//	A
//	B
//	C
//
// Text without any of these separators is not a route.
package route

import (
	"regexp"
	"strings"
)

// CommentSeparator splits "route | comment".
const CommentSeparator = "|"

var arrowSplitter = regexp.MustCompile(`\s*(?:->|→|=>)\s*`)

var arrows = []string{"->", "→", "=>"}

// SplitComment splits text at the first "|". Both halves are trimmed.
func SplitComment(text string) (routePart, comment string) {
	left, right, found := strings.Cut(text, CommentSeparator)
	if !found {
		return strings.TrimSpace(text), ""
	}
	return strings.TrimSpace(left), strings.TrimSpace(right)
}

// Parse returns the stop labels of text, or nil when text does not look like a route.
func Parse(text string) []string {
	t := strings.TrimSpace(text)
	if t == "" {
		return nil
	}

	switch {
	case containsAny(t, arrows):
		return clean(arrowSplitter.Split(t, -1))
	case strings.Contains(t, ";"):
		return clean(strings.Split(t, ";"))
	case strings.Contains(t, "\n"):
		return clean(strings.Split(t, "\n"))
	}
	return nil
}

// Split is SplitComment followed by Parse.
func Split(text string) (stops []string, comment string) {
	routePart, comment := SplitComment(text)
	return Parse(routePart), comment
}

// IsRoute reports whether stops are enough to form an order.
func IsRoute(stops []string) bool {
	return len(stops) >= 2
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func clean(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
