package goquery_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fwojciec/logofetch"
	"github.com/fwojciec/logofetch/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Collect(t *testing.T) {
	t.Parallel()

	t.Run("resolves img with logo alt text", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><img src="/logo.png" alt="Company Logo"></body></html>`

		c := goquery.NewCollector()
		candidates, err := c.Collect(html, "https://example.com/")

		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, "https://example.com/logo.png", candidates[0].OriginalURL)
		assert.Equal(t, logofetch.SourceImgTag, candidates[0].SourceType)
		assert.Equal(t, "Company Logo", candidates[0].Attrs.Alt)
		assert.Equal(t, "/logo.png", candidates[0].Attrs.Src)
		assert.False(t, candidates[0].Inline)
	})

	t.Run("collects link icons", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><link rel="shortcut icon" href="favicon.ico"><link rel="stylesheet" href="a.css"></head></html>`

		c := goquery.NewCollector()
		candidates, err := c.Collect(html, "https://example.com/")

		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, "https://example.com/favicon.ico", candidates[0].OriginalURL)
		assert.Equal(t, logofetch.SourceLinkIcon, candidates[0].SourceType)
	})

	t.Run("tags meta images with their selector", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
<meta name="twitter:image" content="/tw.png">
<meta property="og:image" content="https://cdn.example.com/og.png">
<meta property="og:title" content="Not an image">
</head></html>`

		c := goquery.NewCollector()
		candidates, err := c.Collect(html, "https://example.com/")

		require.NoError(t, err)
		require.Len(t, candidates, 2)
		assert.Equal(t, "https://cdn.example.com/og.png", candidates[0].OriginalURL)
		assert.Equal(t, logofetch.SourceMetaOGImageProperty, candidates[0].SourceType)
		assert.Equal(t, "https://example.com/tw.png", candidates[1].OriginalURL)
		assert.Equal(t, logofetch.SourceMetaTwitterImageName, candidates[1].SourceType)
	})

	t.Run("embeds inline svg logos as data URLs", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><svg class="logo" viewBox="0 0 10 10"><rect width="10" height="10"></rect></svg><svg class="chart"></svg></body></html>`

		c := goquery.NewCollector()
		candidates, err := c.Collect(html, "https://example.com/")

		require.NoError(t, err)
		require.Len(t, candidates, 1)
		cand := candidates[0]
		assert.Equal(t, logofetch.SourceInlineSVG, cand.SourceType)
		assert.True(t, cand.Inline)
		assert.True(t, strings.HasPrefix(cand.OriginalURL, "data:image/svg+xml;base64,"))
		assert.Equal(t, "logo", cand.Attrs.Class)

		markup, err := logofetch.DecodeDataURL(cand.OriginalURL)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(markup), "<svg"))
		assert.Contains(t, string(markup), `class="logo"`)
		assert.Contains(t, string(markup), "<rect")
	})

	t.Run("collects repeated inline svg markup once", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<header><svg class="logo"><path d="M0"/></svg></header>
<main><img src="/hero.jpg"></main>
<footer><svg class="logo"><path d="M0"/></svg></footer>
</body></html>`

		c := goquery.NewCollector()
		candidates, err := c.Collect(html, "https://example.com/")

		require.NoError(t, err)
		require.Len(t, candidates, 2)
		assert.Equal(t, logofetch.SourceInlineSVG, candidates[0].SourceType)
		assert.Equal(t, logofetch.SourceImgTagGeneric, candidates[1].SourceType)
	})

	t.Run("ignores src when matching inline svg", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><svg src="logo.svg"></svg></body></html>`

		c := goquery.NewCollector()
		candidates, err := c.Collect(html, "https://example.com/")

		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("orders passes by signal strength", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
<meta property="og:image" content="/og.png">
<link rel="icon" href="/favicon.ico">
</head><body>
<img src="/hero.jpg">
<svg id="brandmark"></svg>
<img src="/header-logo.png" class="logo">
</body></html>`

		c := goquery.NewCollector()
		candidates, err := c.Collect(html, "https://example.com/")

		require.NoError(t, err)
		require.Len(t, candidates, 5)
		assert.Equal(t, logofetch.SourceImgTag, candidates[0].SourceType)
		assert.Equal(t, "https://example.com/header-logo.png", candidates[0].OriginalURL)
		assert.Equal(t, logofetch.SourceLinkIcon, candidates[1].SourceType)
		assert.Equal(t, logofetch.SourceMetaOGImageProperty, candidates[2].SourceType)
		assert.Equal(t, logofetch.SourceInlineSVG, candidates[3].SourceType)
		assert.Equal(t, logofetch.SourceImgTagGeneric, candidates[4].SourceType)
		assert.Equal(t, "https://example.com/hero.jpg", candidates[4].OriginalURL)
	})

	t.Run("first occurrence wins across passes", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
<link rel="icon" href="/brand.png">
<meta property="og:image" content="https://example.com/brand.png">
</head><body>
<img src="brand.png" alt="brand">
<img src="/brand.png">
</body></html>`

		c := goquery.NewCollector()
		candidates, err := c.Collect(html, "https://example.com/")

		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, logofetch.SourceImgTag, candidates[0].SourceType)
	})

	t.Run("accepts data references without resolution", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><img alt="logo" src="data:image/png;base64,iVBORw0KGgo="></body></html>`

		c := goquery.NewCollector()
		candidates, err := c.Collect(html, "https://example.com/")

		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", candidates[0].OriginalURL)
		assert.False(t, candidates[0].Inline)
	})

	t.Run("skips elements without a usable reference", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
<link rel="icon">
<meta property="og:image" content="">
</head><body>
<img alt="logo">
<img src="" class="brand">
<img src="http://[::1" alt="logo">
</body></html>`

		c := goquery.NewCollector()
		candidates, err := c.Collect(html, "https://example.com/")

		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("caps generic fallback at sixteen", func(t *testing.T) {
		t.Parallel()

		var b strings.Builder
		b.WriteString("<html><body>")
		for i := 0; i < 40; i++ {
			fmt.Fprintf(&b, `<img src="/photos/%d.jpg">`, i)
		}
		b.WriteString("</body></html>")

		c := goquery.NewCollector()
		candidates, err := c.Collect(b.String(), "https://example.com/")

		require.NoError(t, err)
		require.Len(t, candidates, 16)
		for i, cand := range candidates {
			assert.Equal(t, logofetch.SourceImgTagGeneric, cand.SourceType)
			assert.Equal(t, fmt.Sprintf("https://example.com/photos/%d.jpg", i), cand.OriginalURL)
		}
	})

	t.Run("generic fallback adds nothing once prior passes exceed limit", func(t *testing.T) {
		t.Parallel()

		var b strings.Builder
		b.WriteString("<html><head>")
		for i := 0; i < 16; i++ {
			fmt.Fprintf(&b, `<link rel="icon" href="/icon-%d.png">`, i)
		}
		b.WriteString(`</head><body><img src="/photo.jpg"></body></html>`)

		c := goquery.NewCollector()
		candidates, err := c.Collect(b.String(), "https://example.com/")

		require.NoError(t, err)
		require.Len(t, candidates, 16)
		for _, cand := range candidates {
			assert.NotEqual(t, logofetch.SourceImgTagGeneric, cand.SourceType)
		}
	})

	t.Run("caps total candidates at twenty five", func(t *testing.T) {
		t.Parallel()

		var b strings.Builder
		b.WriteString("<html><head>")
		for i := 0; i < 30; i++ {
			fmt.Fprintf(&b, `<link rel="icon" href="/icon-%d.png">`, i)
		}
		b.WriteString("</head></html>")

		c := goquery.NewCollector()
		candidates, err := c.Collect(b.String(), "https://example.com/")

		require.NoError(t, err)
		require.Len(t, candidates, 25)
		assert.Equal(t, "https://example.com/icon-24.png", candidates[24].OriginalURL)
	})

	t.Run("never returns duplicates", func(t *testing.T) {
		t.Parallel()

		var b strings.Builder
		b.WriteString("<html><head>")
		for i := 0; i < 10; i++ {
			fmt.Fprintf(&b, `<link rel="icon" href="/icon-%d.png">`, i%3)
			fmt.Fprintf(&b, `<meta property="og:image" content="/icon-%d.png">`, i%4)
		}
		b.WriteString("</head><body>")
		for i := 0; i < 30; i++ {
			fmt.Fprintf(&b, `<img src="/icon-%d.png" alt="logo %d">`, i%7, i)
		}
		b.WriteString(`<header><svg class="logo"><path d="M0"/></svg></header>`)
		b.WriteString(`<footer><svg class="logo"><path d="M0"/></svg></footer>`)
		b.WriteString("</body></html>")

		c := goquery.NewCollector()
		candidates, err := c.Collect(b.String(), "https://example.com/")

		require.NoError(t, err)
		assert.LessOrEqual(t, len(candidates), 25)
		seen := make(map[string]bool)
		for _, cand := range candidates {
			assert.False(t, seen[cand.OriginalURL], "duplicate %s", cand.OriginalURL)
			seen[cand.OriginalURL] = true
		}
	})

	t.Run("respects configured limits", func(t *testing.T) {
		t.Parallel()

		var b strings.Builder
		b.WriteString("<html><body>")
		for i := 0; i < 20; i++ {
			fmt.Fprintf(&b, `<img src="/p/%d.jpg">`, i)
		}
		b.WriteString("</body></html>")

		c := goquery.NewCollector(goquery.WithGenericFallbackLimit(4), goquery.WithMaxCandidates(3))
		candidates, err := c.Collect(b.String(), "https://example.com/")

		require.NoError(t, err)
		assert.Len(t, candidates, 3)
	})

	t.Run("returns error for relative base URL", func(t *testing.T) {
		t.Parallel()

		c := goquery.NewCollector()
		_, err := c.Collect("<html></html>", "/relative")

		require.Error(t, err)
		assert.Equal(t, logofetch.EINVALID, logofetch.ErrorCode(err))
	})
}

func TestCollector_WithRules(t *testing.T) {
	t.Parallel()

	html := `<html><head><link rel="apple-touch-icon" href="/touch.png"><meta property="og:image" content="/og.png"></head></html>`

	c := goquery.NewCollector(goquery.WithRules([]goquery.ReferenceRule{
		{Selector: `link[rel="apple-touch-icon"]`, Attr: "href", Source: logofetch.SourceLinkIcon},
	}))
	candidates, err := c.Collect(html, "https://example.com/")

	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "https://example.com/touch.png", candidates[0].OriginalURL)
}
