package libretro

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const baseURL = "https://thumbnails.libretro.com"

// Thumbnail kinds hosted by the libretro CDN.
const (
	KindBoxart = "Named_Boxarts"
	KindSnap   = "Named_Snaps"
	KindTitle  = "Named_Titles"
)

// BoxartURL builds the boxart URL for a system directory and game name.
func BoxartURL(systemDir, gameName string) string {
	return thumbURL(systemDir, KindBoxart, gameName)
}

// SnapURL builds the in-game snapshot URL.
func SnapURL(systemDir, gameName string) string {
	return thumbURL(systemDir, KindSnap, gameName)
}

// TitleURL builds the title screen URL.
func TitleURL(systemDir, gameName string) string {
	return thumbURL(systemDir, KindTitle, gameName)
}

func thumbURL(systemDir, kind, gameName string) string {
	return fmt.Sprintf("%s/%s/%s/%s.png",
		baseURL, encodeSegment(systemDir), kind, encodeSegment(sanitizeName(gameName)))
}

// sanitizeName applies RetroArch's thumbnail file naming: characters
// illegal in file names become underscores.
func sanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch r {
		case '&', '*', '/', ':', '`', '"', '<', '>', '?', '\\', '|':
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// encodeSegment percent-encodes a URL path segment, keeping unreserved
// characters.
func encodeSegment(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 2)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9',
			c == '-', c == '_', c == '.', c == '~':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

// Prober checks thumbnail existence with HEAD requests.
type Prober struct {
	httpClient *http.Client
}

// NewProber builds a prober with a short timeout.
func NewProber() *Prober {
	return &Prober{
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Exists reports whether the CDN has a file at url.
func (p *Prober) Exists(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
