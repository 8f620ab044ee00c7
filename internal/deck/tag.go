package deck

import (
	"slices"
	"strings"
)

// Tag is a topic name scoped to one owner. Questions refer to tags by name;
// a tag owns nothing.
type Tag struct {
	Owner string
	Name  string
}

// NormalizeTags trims whitespace, drops empty names and duplicates, and
// returns the remaining names sorted.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// SplitTags parses a comma separated tag list.
func SplitTags(s string) []string {
	return NormalizeTags(strings.Split(s, ","))
}
