package content

import (
	"regexp"
	"strings"
)

// ScriptExtension is appended to slugged titles to form script file names.
const ScriptExtension = ".fountain"

var (
	slugStrip    = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugCollapse = regexp.MustCompile(`[\s-]+`)
)

// Slugify converts a script title into a filesystem-safe file name stem:
// lowercased, stripped of characters outside letters/digits/whitespace/
// hyphen, with whitespace and hyphen runs collapsed to single hyphens.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = slugStrip.ReplaceAllString(s, "")
	s = slugCollapse.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ScriptFileName returns the relative path for a script with the given title.
func ScriptFileName(title string) string {
	return Slugify(title) + ScriptExtension
}

// InitialScriptContent returns the templated document body written when
// a script is created.
func InitialScriptContent(title string) string {
	return "Title: " + strings.ToUpper(title) + "\n\nINT. SCENE - DAY\n\n"
}
