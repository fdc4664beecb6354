package app

import (
	"regexp"
	"strings"
)

var (
	whitespaceCollapseRegex = regexp.MustCompile(`\s+`)
	repeatPunctRegex        = regexp.MustCompile(`([[:punct:]])([[:punct:]])+`)
)

// cleanDescription collapses whitespace runs and repeated punctuation so
// exported descriptions render cleanly in frontends.
func cleanDescription(desc string) string {
	if desc == "" {
		return desc
	}
	desc = repeatPunctRegex.ReplaceAllString(desc, `$1`)
	lines := strings.Split(desc, "\n")
	for i, line := range lines {
		lines[i] = whitespaceCollapseRegex.ReplaceAllString(line, " ")
	}
	return strings.Join(lines, "\n")
}
