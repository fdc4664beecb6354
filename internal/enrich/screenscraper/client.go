package screenscraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/xxxsen/romkeep/internal/ratelimit"
)

const (
	apiBase = "https://api.screenscraper.fr/api2/jeuInfos.php"

	// Shared developer credentials published by the ScreenScraper
	// project for open-source clients.
	devID       = "NikkitaFTW"
	devPassword = "5RnA96uSQAE"
	softName    = "romkeep"

	// One request per second without a registered user account.
	minInterval = time.Second
)

// Media kinds extracted from a lookup response.
const (
	MediaCover      = "cover"
	MediaScreenshot = "screenshot"
	MediaFanart     = "fanart"
)

// Credentials is an optional ScreenScraper user account. Registered
// users get higher rate limits on the upstream side.
type Credentials struct {
	Username string
	Password string
}

// Media is a downloadable asset attached to a game.
type Media struct {
	Kind string
	URL  string
}

// GameData is the flattened result of a jeuInfos lookup.
type GameData struct {
	Name        string
	Description string
	Developer   string
	Publisher   string
	Genres      string
	ReleaseDate string
	Rating      float64
	Media       []Media
}

// Client queries the ScreenScraper v2 API.
type Client struct {
	creds      Credentials
	httpClient *http.Client
	limiter    *ratelimit.Limiter
}

// New builds a client. creds may be zero for anonymous access.
func New(creds Credentials) *Client {
	return &Client{
		creds: creds,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: ratelimit.New(minInterval, 1),
	}
}

// Lookup queries jeuInfos by rom name and system id, narrowing by md5
// when available. A nil result without error means the game is unknown
// upstream.
func (c *Client) Lookup(ctx context.Context, md5 string, romName string, systemID int64) (*GameData, error) {
	release, err := c.limiter.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	params := url.Values{}
	params.Set("devid", devID)
	params.Set("devpassword", devPassword)
	params.Set("softname", softName)
	params.Set("output", "json")
	params.Set("systemeid", strconv.FormatInt(systemID, 10))
	params.Set("romnom", romName)
	if md5 != "" {
		params.Set("md5", md5)
	}
	if c.creds.Username != "" {
		params.Set("ssid", c.creds.Username)
		params.Set("sspassword", c.creds.Password)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call screenscraper: %w", err)
	}
	defer resp.Body.Close()

	// 404 means not found, 430 means the daily quota for this rom
	// shape is exhausted. Both are treated as a miss.
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == 430 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, nil
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read screenscraper response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("screenscraper status %d: %s", resp.StatusCode, strings.TrimSpace(string(body[:min(len(body), 200)])))
	}
	// The API reports some errors as plain text with a 200 status.
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "Erreur") || strings.Contains(trimmed, "API closed") {
		return nil, nil
	}
	return parseLookup(body)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

type regionalText struct {
	Region string `json:"region"`
	Text   string `json:"text"`
}

type langText struct {
	Langue string `json:"langue"`
	Text   string `json:"text"`
}

type lookupResponse struct {
	Response struct {
		Jeu struct {
			Noms     []regionalText `json:"noms"`
			Synopsis []langText     `json:"synopsis"`
			Dates    []regionalText `json:"dates"`
			Genres   []struct {
				Noms []langText `json:"noms"`
			} `json:"genres"`
			Developpeur struct {
				Text string `json:"text"`
			} `json:"developpeur"`
			Editeur struct {
				Text string `json:"text"`
			} `json:"editeur"`
			Note struct {
				Text string `json:"text"`
			} `json:"note"`
			Medias []struct {
				Type string `json:"type"`
				URL  string `json:"url"`
			} `json:"medias"`
		} `json:"jeu"`
	} `json:"response"`
}

func parseLookup(body []byte) (*GameData, error) {
	var raw lookupResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode screenscraper response: %w", err)
	}
	jeu := raw.Response.Jeu

	name := pickRegional(jeu.Noms, "us", "wor", "eu", "jp")
	if name == "" {
		return nil, nil
	}

	data := &GameData{
		Name:        name,
		Description: pickLang(jeu.Synopsis, "en", "us"),
		Developer:   jeu.Developpeur.Text,
		Publisher:   jeu.Editeur.Text,
		ReleaseDate: pickRegional(jeu.Dates, "us", "wor", "eu"),
		Rating:      parseRating(jeu.Note.Text),
	}

	var genres []string
	for _, genre := range jeu.Genres {
		if text := pickLang(genre.Noms, "en", "us"); text != "" {
			genres = append(genres, text)
		}
	}
	data.Genres = strings.Join(genres, ", ")

	for _, media := range jeu.Medias {
		if media.URL == "" {
			continue
		}
		var kind string
		switch media.Type {
		case "box-2D", "box-2D-front":
			kind = MediaCover
		case "ss", "sstitle":
			kind = MediaScreenshot
		case "fanart":
			kind = MediaFanart
		default:
			continue
		}
		data.Media = append(data.Media, Media{Kind: kind, URL: media.URL})
	}
	return data, nil
}

// pickRegional returns the first entry matching the region preference
// order, falling back to the first non-empty entry.
func pickRegional(entries []regionalText, prefs ...string) string {
	for _, pref := range prefs {
		for _, entry := range entries {
			if entry.Region == pref && entry.Text != "" {
				return entry.Text
			}
		}
	}
	for _, entry := range entries {
		if entry.Text != "" {
			return entry.Text
		}
	}
	return ""
}

func pickLang(entries []langText, prefs ...string) string {
	for _, pref := range prefs {
		for _, entry := range entries {
			if entry.Langue == pref && entry.Text != "" {
				return entry.Text
			}
		}
	}
	for _, entry := range entries {
		if entry.Text != "" {
			return entry.Text
		}
	}
	return ""
}

// parseRating maps ScreenScraper's 0..20 community note to a 0..10
// scale.
func parseRating(text string) float64 {
	note, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || note <= 0 {
		return 0
	}
	rating := note / 2
	if rating > 10 {
		rating = 10
	}
	return rating
}
