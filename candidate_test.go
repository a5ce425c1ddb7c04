package logofetch_test

import (
	"testing"

	"github.com/fwojciec/logofetch"
	"github.com/stretchr/testify/assert"
)

func TestAttrs_LooksLikeLogo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		attrs logofetch.Attrs
		want  bool
	}{
		{name: "alt text", attrs: logofetch.Attrs{Alt: "Company Logo"}, want: true},
		{name: "class list", attrs: logofetch.Attrs{Class: "header__brand img-fluid"}, want: true},
		{name: "id", attrs: logofetch.Attrs{ID: "site-icon"}, want: true},
		{name: "source path", attrs: logofetch.Attrs{Src: "/assets/trademark.png"}, want: true},
		{name: "substring inside a word", attrs: logofetch.Attrs{Alt: "an iconic view"}, want: true},
		{name: "upper case", attrs: logofetch.Attrs{Class: "LOGO"}, want: true},
		{name: "no hints", attrs: logofetch.Attrs{Alt: "Team photo", Class: "hero", ID: "banner", Src: "/img/team.jpg"}, want: false},
		{name: "empty", attrs: logofetch.Attrs{}, want: false},
		{name: "hint split across attributes does not match", attrs: logofetch.Attrs{Alt: "lo", Class: "go"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.attrs.LooksLikeLogo())
		})
	}
}

func TestCandidate_SelfContained(t *testing.T) {
	t.Parallel()

	assert.True(t, (&logofetch.Candidate{OriginalURL: "data:image/svg+xml;base64,PHN2Zy8+", Inline: true}).SelfContained())
	assert.True(t, (&logofetch.Candidate{OriginalURL: "data:image/png;base64,AAAA"}).SelfContained())
	assert.False(t, (&logofetch.Candidate{OriginalURL: "https://example.com/logo.png"}).SelfContained())
}
