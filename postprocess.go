package docweaver

import "regexp"

var redundantBreaks = regexp.MustCompile(`\n\n\n+`)

// RemoveRedundantLineBreaks collapses every run of three or more line
// breaks to a single blank line.
func RemoveRedundantLineBreaks(s string) string {
	return redundantBreaks.ReplaceAllString(s, "\n\n")
}
