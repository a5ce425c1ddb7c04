package logofetch

import "strings"

// SourceType records how a candidate was discovered.
// It describes provenance and does not rank results.
type SourceType string

// Candidate source types. The meta source types carry the selector that
// matched, so consumers can tell og:image and twitter:image apart.
const (
	SourceImgTag                   SourceType = "img-tag"
	SourceLinkIcon                 SourceType = "link-icon"
	SourceMetaOGImageProperty      SourceType = `meta[property="og:image"]`
	SourceMetaOGImageName          SourceType = `meta[name="og:image"]`
	SourceMetaTwitterImageProperty SourceType = `meta[property="twitter:image"]`
	SourceMetaTwitterImageName     SourceType = `meta[name="twitter:image"]`
	SourceInlineSVG                SourceType = "inline-svg"
	SourceImgTagGeneric            SourceType = "img-tag-generic"
)

// MetaImageSources lists the recognized meta image selectors in collection order.
var MetaImageSources = []SourceType{
	SourceMetaOGImageProperty,
	SourceMetaOGImageName,
	SourceMetaTwitterImageProperty,
	SourceMetaTwitterImageName,
}

// Collection limits.
const (
	// DefaultMaxCandidates caps the number of candidates returned by a collector.
	DefaultMaxCandidates = 25

	// DefaultGenericFallbackLimit stops the generic <img> fallback once the
	// running candidate count exceeds it.
	DefaultGenericFallbackLimit = 15
)

// LogoHints are the keywords that mark an element as a plausible logo.
var LogoHints = []string{"logo", "brand", "icon", "mark"}

// Attrs holds the markup attributes the logo heuristic looks at.
type Attrs struct {
	Alt   string `json:"alt,omitempty"`
	Class string `json:"class,omitempty"`
	ID    string `json:"id,omitempty"`
	Src   string `json:"src,omitempty"`
}

// LooksLikeLogo reports whether any logo hint appears as a substring of the
// lower-cased attribute values. Matching is deliberately loose: "iconic" and
// "trademark" both match, and the capped result list absorbs false positives.
func (a Attrs) LooksLikeLogo() bool {
	parts := make([]string, 0, 4)
	for _, v := range []string{a.Alt, a.Class, a.ID, a.Src} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	haystack := strings.ToLower(strings.Join(parts, " "))

	for _, hint := range LogoHints {
		if strings.Contains(haystack, hint) {
			return true
		}
	}
	return false
}

// Candidate is a discovered reference to a possible logo image that has not
// been fetched yet.
type Candidate struct {
	// OriginalURL is an absolute URL or a data: reference.
	OriginalURL string     `json:"originalUrl"`
	SourceType  SourceType `json:"sourceType"`
	Attrs       Attrs      `json:"attrs"`

	// Inline is set for candidates whose bytes are embedded in the page.
	Inline bool `json:"inline,omitempty"`
}

// SelfContained reports whether the candidate carries its own bytes and
// needs no network fetch.
func (c *Candidate) SelfContained() bool {
	return c.Inline || IsDataURL(c.OriginalURL)
}

// CandidateCollector finds logo candidates in an HTML document.
type CandidateCollector interface {
	// Collect parses html and returns candidates in priority order,
	// unique by OriginalURL. The baseURL resolves relative references.
	Collect(html string, baseURL string) ([]*Candidate, error)
}
