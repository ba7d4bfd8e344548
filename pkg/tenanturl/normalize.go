// pkg/tenanturl/normalize.go
package tenanturl

import "strings"

const schemeSep = "://"

// Normalize canonicalizes a tenant identifier into its lookup key: the
// scheme and host of the URL, lowercased, with any path, query or trailing
// slash removed. Malformed input is canonicalized best-effort, never rejected.
//
// Normalize(Normalize(x)) == Normalize(x) for every x.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	start := 0
	if i := strings.Index(s, schemeSep); i >= 0 {
		start = i + len(schemeSep)
	}
	// cutting at the first separator after the scheme also drops a trailing slash
	if j := strings.IndexByte(s[start:], '/'); j >= 0 {
		s = s[:start+j]
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// Equal reports whether two tenant identifiers name the same tenant.
func Equal(a, b string) bool { return Normalize(a) == Normalize(b) }
