package public

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/eyalbz/leadform/model"
)

// URL builds the shareable public URL for a token: {base}/q/{token}, with
// optional lang and channel attribution parameters.
func URL(baseURL, token string, lang model.Lang, channel model.Channel) string {
	u := strings.TrimRight(baseURL, "/") + "/q/" + url.PathEscape(token)

	params := url.Values{}
	if lang != "" {
		params.Set("lang", string(lang))
	}
	if channel != "" && channel != model.ChannelLanding {
		params.Set("ch", string(channel))
	}
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// EmbedSnippet returns the HTML fragment owners paste into their own site to
// embed the questionnaire as an iframe. Pure string templating; the iframe
// carries no contract beyond the public URL itself.
func EmbedSnippet(baseURL, token string, lang model.Lang) string {
	src := URL(baseURL, token, lang, model.ChannelLanding)
	return fmt.Sprintf(
		`<iframe src="%s" width="100%%" height="640" frameborder="0" style="border:0;max-width:640px"></iframe>`,
		html.EscapeString(src),
	)
}
