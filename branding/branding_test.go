package branding

import (
	"strings"
	"testing"

	"github.com/eyalbz/leadform/model"
)

func TestApplySanitizesColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#FF0000", "#ff0000"},
		{"#abc", "#abc"},
		{" #abcdef ", "#abcdef"},
		{"", DefaultPrimaryColor},
		{"red", DefaultPrimaryColor},
		{"#12345", DefaultPrimaryColor},
		{"#gggggg", DefaultPrimaryColor},
		{"url(javascript:alert(1))", DefaultPrimaryColor},
	}

	for _, tt := range tests {
		got := Apply(model.Branding{PrimaryColor: tt.in})
		if got.PrimaryColor != tt.want {
			t.Errorf("Apply(%q).PrimaryColor = %q, want %q", tt.in, got.PrimaryColor, tt.want)
		}
	}
}

func TestApplySanitizesLogoURL(t *testing.T) {
	if got := Apply(model.Branding{LogoURL: "https://cdn.example.com/logo.png"}); got.LogoURL == "" {
		t.Error("https logo URL should survive")
	}
	for _, in := range []string{"", "javascript:alert(1)", "data:image/png;base64,AAAA", "ftp://x/logo.png"} {
		if got := Apply(model.Branding{LogoURL: in}); got.LogoURL != "" {
			t.Errorf("Apply(%q).LogoURL = %q, want dropped", in, got.LogoURL)
		}
	}
}

func TestApplyIdempotent(t *testing.T) {
	b := model.Branding{PrimaryColor: "#FF8800", LogoURL: "https://cdn.example.com/logo.png"}
	first := Apply(b)
	second := Apply(b)
	if first != second {
		t.Errorf("Apply drifted between calls: %+v vs %+v", first, second)
	}
}

func TestCSSVars(t *testing.T) {
	vars := string(Apply(model.Branding{PrimaryColor: "#ff0000"}).CSSVars())
	if !strings.Contains(vars, "--lf-primary: #ff0000;") {
		t.Errorf("CSSVars = %q", vars)
	}
}
