package hasheous

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultHost = "https://hasheous.org"

// Result is a parsed Hasheous hash lookup.
type Result struct {
	HasheousID   int64
	Name         string
	Publisher    string
	Year         string
	Description  string
	Genres       []string
	IGDBGameID   string
	TGDBGameID   string
	RAGameID     string
	WikipediaURL string

	IGDBPlatformID string
	RAPlatformID   string

	Raw string
}

// Client talks to the public Hasheous lookup API.
type Client struct {
	host       string
	httpClient *http.Client
}

// New creates a Hasheous client. An empty host selects the public
// instance.
func New(host string) *Client {
	host = strings.TrimSuffix(strings.TrimSpace(host), "/")
	if host == "" {
		host = defaultHost
	}
	return &Client{
		host: host,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// LookupMD5 resolves an MD5 hash to its known-game record. A miss (any
// non-2xx status) returns (nil, nil) so callers can cache the absence.
func (c *Client) LookupMD5(ctx context.Context, md5sum string) (*Result, error) {
	endpoint := fmt.Sprintf("%s/api/v1/Lookup/ByHash/md5/%s", c.host, md5sum)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "romkeep/enrich")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hasheous lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read hasheous response: %w", err)
	}
	result, err := parseLookup(raw)
	if err != nil {
		return nil, fmt.Errorf("parse hasheous response: %w", err)
	}
	return result, nil
}

type metadataRef struct {
	Source     string          `json:"source"`
	ObjectType string          `json:"objectType"`
	ID         json.RawMessage `json:"id"`
}

type lookupResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Publisher *struct {
		Name string `json:"name"`
	} `json:"publisher"`
	Signature struct {
		Game struct {
			Year string `json:"year"`
		} `json:"game"`
	} `json:"signature"`
	Metadata []metadataRef `json:"metadata"`
	Platform struct {
		Metadata []metadataRef `json:"metadata"`
	} `json:"platform"`
	Attributes []struct {
		AttributeName string          `json:"attributeName"`
		Value         json.RawMessage `json:"value"`
	} `json:"attributes"`
}

func parseLookup(raw []byte) (*Result, error) {
	var body lookupResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	if body.Name == "" {
		return nil, nil
	}

	result := &Result{
		HasheousID: body.ID,
		Name:       body.Name,
		Year:       body.Signature.Game.Year,
		Raw:        string(raw),
	}
	if body.Publisher != nil {
		result.Publisher = body.Publisher.Name
	}

	for _, ref := range body.Metadata {
		id := idString(ref.ID)
		switch {
		case ref.Source == "IGDB" && ref.ObjectType == "Game":
			result.IGDBGameID = id
		case ref.Source == "TheGamesDb" && ref.ObjectType == "Game":
			result.TGDBGameID = id
		case ref.Source == "RetroAchievements" && ref.ObjectType == "Game":
			result.RAGameID = id
		case ref.Source == "Wikipedia":
			result.WikipediaURL = id
		}
	}
	for _, ref := range body.Platform.Metadata {
		id := idString(ref.ID)
		switch ref.Source {
		case "IGDB":
			result.IGDBPlatformID = id
		case "RetroAchievements":
			result.RAPlatformID = id
		}
	}

	for _, attr := range body.Attributes {
		switch attr.AttributeName {
		case "AIDescription":
			var text string
			if err := json.Unmarshal(attr.Value, &text); err == nil {
				result.Description = text
			}
		case "Tags":
			result.Genres = append(result.Genres, parseGenreTags(attr.Value)...)
		}
	}
	return result, nil
}

// idString accepts ids stored either as JSON strings or numbers.
func idString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func parseGenreTags(raw json.RawMessage) []string {
	var value struct {
		GameGenre struct {
			Tags []struct {
				Text string `json:"Text"`
			} `json:"Tags"`
		} `json:"GameGenre"`
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil
	}
	var genres []string
	for _, tag := range value.GameGenre.Tags {
		if tag.Text != "" {
			genres = append(genres, tag.Text)
		}
	}
	return genres
}
