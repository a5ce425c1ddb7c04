package logofetch

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/purell"
)

var httpSchemeRe = regexp.MustCompile(`(?i)^https?://`)

// normalizeFlags reproduce the canonical form a browser URL parser produces
// without touching path, query or fragment.
const normalizeFlags = purell.FlagLowercaseScheme |
	purell.FlagLowercaseHost |
	purell.FlagRemoveDefaultPort

// NormalizeURL canonicalizes user input into an absolute http(s) URL.
// Input without an http:// or https:// prefix is assumed to be https.
// Returns false if the input is empty or cannot be parsed as a URL with a host.
//
// Example: "example.com" → "https://example.com/"
func NormalizeURL(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	if !httpSchemeRe.MatchString(s) {
		s = "https://" + s
	}

	u, err := url.Parse(cleanReference(s))
	if err != nil || u.Hostname() == "" {
		return "", false
	}
	if u.Path == "" && u.Opaque == "" {
		u.Path = "/"
	}

	return purell.NormalizeURL(u, normalizeFlags), true
}

// IsDataURL reports whether ref is a self-contained data: reference.
func IsDataURL(ref string) bool {
	return len(ref) >= 5 && strings.EqualFold(ref[:5], "data:")
}

// ResolveReference resolves a possibly relative reference against an
// absolute base URL. Data references are returned unchanged.
// Returns false for empty or malformed references, which callers skip.
func ResolveReference(ref, base string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}
	if IsDataURL(ref) {
		return ref, true
	}

	b, err := url.Parse(base)
	if err != nil || !b.IsAbs() {
		return "", false
	}
	r, err := url.Parse(cleanReference(ref))
	if err != nil {
		return "", false
	}
	return b.ResolveReference(r).String(), true
}

// cleanReference rewrites what browsers accept but net/url rejects. Before
// the query, backslashes act as slashes. Outside the query, a '%' that does
// not start an escape is literal and becomes %25.
func cleanReference(s string) string {
	head, query, fragment := s, "", ""
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		head, query = s[:i], s[i:]
	}
	if i := strings.IndexByte(query, '#'); i >= 0 {
		query, fragment = query[:i], query[i:]
	}
	head = strings.ReplaceAll(head, `\`, "/")
	return escapeStrayPercent(head) + query + escapeStrayPercent(fragment)
}

func escapeStrayPercent(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && (i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2])) {
			b.WriteString("%25")
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}
