package messaging

import (
	"net/url"
	"strings"
)

// WhatsApp builds click-to-chat links to the restaurant's number.
type WhatsApp struct {
	number string
}

// NewWhatsApp keeps only the digits of number, as wa.me requires.
func NewWhatsApp(number string) *WhatsApp {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	return &WhatsApp{number: digits}
}

func (w *WhatsApp) Number() string { return w.number }

// Link returns the URL that opens a chat with message pre-filled.
func (w *WhatsApp) Link(message string) string {
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return "https://wa.me/" + w.number + "?text=" + text
}
