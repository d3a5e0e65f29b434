package query

import (
	"regexp"
	"strings"
)

// bareToken matches values that are safe inside local-parameter syntax
// without quoting.
var bareToken = regexp.MustCompile(`^[A-Za-z0-9$_\-\^]+$`)

var quoteEscaper = strings.NewReplacer(`'`, `\'`, `"`, `\"`)

// Quote prepares a raw value for interpolation into engine local-parameter
// syntax. Bare tokens pass through unchanged; anything else is wrapped in
// quoteChar with internal quote characters backslash-escaped.
func Quote(value, quoteChar string) string {
	if bareToken.MatchString(value) {
		return value
	}
	return quoteChar + quoteEscaper.Replace(value) + quoteChar
}
