// Package goquery implements logo candidate discovery over parsed HTML
// using CSS selectors.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/logofetch"
)

var _ logofetch.CandidateCollector = (*Collector)(nil)

// ReferenceRule selects elements whose attribute holds a candidate reference.
type ReferenceRule struct {
	Selector string
	Attr     string
	Source   logofetch.SourceType

	// Match, if set, must accept the element's attributes.
	Match func(logofetch.Attrs) bool
}

// DefaultRules returns the reference rules in collection order:
// heuristic <img> matches, <link rel~=icon> and the meta image tags.
func DefaultRules() []ReferenceRule {
	rules := []ReferenceRule{
		{Selector: "img", Attr: "src", Source: logofetch.SourceImgTag, Match: logofetch.Attrs.LooksLikeLogo},
		{Selector: `link[rel*="icon"]`, Attr: "href", Source: logofetch.SourceLinkIcon},
	}
	for _, source := range logofetch.MetaImageSources {
		rules = append(rules, ReferenceRule{Selector: string(source), Attr: "content", Source: source})
	}
	return rules
}

// Collector finds logo candidates in HTML documents.
// Candidates are returned in rule order; inline <svg> logos follow the
// reference rules and a generic <img> fallback pads short results.
type Collector struct {
	rules                []ReferenceRule
	maxCandidates        int
	genericFallbackLimit int
}

// Option configures a Collector.
type Option func(*Collector)

// WithMaxCandidates caps the number of returned candidates.
// Defaults to logofetch.DefaultMaxCandidates (25).
func WithMaxCandidates(n int) Option {
	return func(c *Collector) {
		c.maxCandidates = n
	}
}

// WithGenericFallbackLimit sets the running count above which the generic
// <img> fallback stops adding candidates.
// Defaults to logofetch.DefaultGenericFallbackLimit (15).
func WithGenericFallbackLimit(n int) Option {
	return func(c *Collector) {
		c.genericFallbackLimit = n
	}
}

// WithRules replaces the reference rules.
func WithRules(rules []ReferenceRule) Option {
	return func(c *Collector) {
		c.rules = rules
	}
}

// NewCollector creates a new Collector.
func NewCollector(opts ...Option) *Collector {
	c := &Collector{
		rules:                DefaultRules(),
		maxCandidates:        logofetch.DefaultMaxCandidates,
		genericFallbackLimit: logofetch.DefaultGenericFallbackLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect parses html and returns logo candidates resolved against baseURL.
func (c *Collector) Collect(html string, baseURL string) ([]*logofetch.Candidate, error) {
	base, err := url.Parse(baseURL)
	if err != nil || !base.IsAbs() {
		return nil, logofetch.Errorf(logofetch.EINVALID, "invalid base URL: %q", baseURL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, logofetch.Errorf(logofetch.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	var candidates []*logofetch.Candidate

	push := func(ref string, source logofetch.SourceType, attrs logofetch.Attrs) {
		resolved, ok := logofetch.ResolveReference(ref, baseURL)
		if !ok || seen[resolved] {
			return
		}
		seen[resolved] = true
		candidates = append(candidates, &logofetch.Candidate{
			OriginalURL: resolved,
			SourceType:  source,
			Attrs:       attrs,
		})
	}

	for _, rule := range c.rules {
		doc.Find(rule.Selector).Each(func(_ int, sel *goquery.Selection) {
			var attrs logofetch.Attrs
			if rule.Match != nil {
				attrs = elementAttrs(sel)
				if !rule.Match(attrs) {
					return
				}
			}
			push(sel.AttrOr(rule.Attr, ""), rule.Source, attrs)
		})
	}

	// Inline SVGs have no src; only class and id are considered.
	doc.Find("svg").Each(func(_ int, sel *goquery.Selection) {
		attrs := logofetch.Attrs{
			Class: sel.AttrOr("class", ""),
			ID:    sel.AttrOr("id", ""),
		}
		if !attrs.LooksLikeLogo() {
			return
		}
		markup, err := goquery.OuterHtml(sel)
		if err != nil {
			return
		}
		ref := logofetch.EncodeDataURL(logofetch.SVGMIMEType, []byte(markup))
		if seen[ref] {
			return
		}
		seen[ref] = true
		candidates = append(candidates, &logofetch.Candidate{
			OriginalURL: ref,
			SourceType:  logofetch.SourceInlineSVG,
			Attrs:       attrs,
			Inline:      true,
		})
	})

	doc.Find("img").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if len(candidates) > c.genericFallbackLimit {
			return false
		}
		src := sel.AttrOr("src", "")
		if src == "" {
			return true
		}
		push(src, logofetch.SourceImgTagGeneric, logofetch.Attrs{})
		return len(candidates) <= c.genericFallbackLimit
	})

	if len(candidates) > c.maxCandidates {
		candidates = candidates[:c.maxCandidates]
	}
	return candidates, nil
}

// elementAttrs reads the attributes the logo heuristic inspects.
func elementAttrs(sel *goquery.Selection) logofetch.Attrs {
	return logofetch.Attrs{
		Alt:   sel.AttrOr("alt", ""),
		Class: sel.AttrOr("class", ""),
		ID:    sel.AttrOr("id", ""),
		Src:   sel.AttrOr("src", ""),
	}
}
