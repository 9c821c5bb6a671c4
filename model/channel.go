package model

// Channel is the distribution channel a response was attributed to, read from
// the `ch`/`channel` query parameter of the public URL.
type Channel string

const (
	ChannelLanding  Channel = "landing"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelMail     Channel = "mail"
	ChannelQR       Channel = "qr"
	ChannelOther    Channel = "other"
)

// ParseChannel maps a query parameter to a known channel, defaulting to
// landing for anything unrecognized. Attribution is best-effort and must not
// fail a render.
func ParseChannel(s string) Channel {
	switch Channel(s) {
	case ChannelLanding, ChannelWhatsApp, ChannelMail, ChannelQR, ChannelOther:
		return Channel(s)
	}
	return ChannelLanding
}

type Lang string

const (
	LangHebrew  Lang = "he"
	LangEnglish Lang = "en"
)

func ParseLang(s string) Lang {
	if Lang(s) == LangEnglish {
		return LangEnglish
	}
	return LangHebrew
}

// RTL reports whether the language renders right-to-left.
func (l Lang) RTL() bool {
	return l == LangHebrew
}
