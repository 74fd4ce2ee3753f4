// Best-effort cleanup of loosely-typed upstream field values.
package normalize

import "regexp"

var (
	leadingJunkRe    = regexp.MustCompile(`^(?:%20|\s)+`)
	protocolSlashRe  = regexp.MustCompile(`(?i)(https?:)/{2,}`)
	duplicateSlashRe = regexp.MustCompile(`([^:/])/{2,}`)
)

// URL returns a canonical form of s: leading whitespace and encoded-space
// artifacts stripped, the protocol separator collapsed to exactly two
// slashes, duplicate slashes elsewhere collapsed to one. Total: malformed
// input comes back cleaned as far as possible, never an error.
func URL(s string) string {
	s = leadingJunkRe.ReplaceAllString(s, "")
	s = protocolSlashRe.ReplaceAllString(s, "${1}//")
	s = duplicateSlashRe.ReplaceAllString(s, "${1}/")

	return s
}
