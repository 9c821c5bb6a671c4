// Package branding turns owner branding into the CSS custom properties the
// public page is styled with. Branding is presentation-only: a malformed
// color or logo URL is dropped, never an error.
package branding

import (
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/eyalbz/leadform/model"
)

// DefaultPrimaryColor is used whenever the owner never picked a color or the
// stored value is not a valid hex color.
const DefaultPrimaryColor = "#2563eb"

var reHexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Style is the sanitized presentation state applied to a rendered page.
type Style struct {
	PrimaryColor string
	LogoURL      string
}

// Apply sanitizes branding into a Style. It is a pure mapping: applying the
// same branding twice yields the same style, with no cumulative state.
func Apply(b model.Branding) Style {
	s := Style{PrimaryColor: DefaultPrimaryColor}

	if c := strings.TrimSpace(b.PrimaryColor); reHexColor.MatchString(c) {
		s.PrimaryColor = strings.ToLower(c)
	}
	if u := strings.TrimSpace(b.LogoURL); strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		s.LogoURL = u
	}
	return s
}

// CSSVars renders the style as CSS custom property declarations for the page
// template's root element.
func (s Style) CSSVars() template.CSS {
	return template.CSS(fmt.Sprintf("--lf-primary: %s;", s.PrimaryColor))
}
