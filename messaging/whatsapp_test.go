package messaging

import (
	"net/url"
	"testing"
)

func TestLink(t *testing.T) {
	w := NewWhatsApp("+52 1 922 159 3688")
	if w.Number() != "5219221593688" {
		t.Fatalf("number = %q", w.Number())
	}

	msg := "*NUEVO PEDIDO*\n\n• 1x Clásica - $100.00\n*TOTAL:* $100.00"
	link := w.Link(msg)

	u, err := url.Parse(link)
	if err != nil {
		t.Fatal(err)
	}
	if u.Host != "wa.me" || u.Path != "/5219221593688" {
		t.Errorf("link = %s", link)
	}
	if got := u.Query().Get("text"); got != msg {
		t.Errorf("text round trip = %q", got)
	}
}

func TestLinkEncodesSpacesAsPercent20(t *testing.T) {
	link := NewWhatsApp("5219221593688").Link("a b+c")
	if want := "https://wa.me/5219221593688?text=a%20b%2Bc"; link != want {
		t.Errorf("link = %s, want %s", link, want)
	}
}
