package igdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/xxxsen/romkeep/internal/ratelimit"
)

const (
	tokenURL = "https://id.twitch.tv/oauth2/token"
	apiBase  = "https://api.igdb.com/v4"

	// IGDB allows 4 concurrent requests; spacing keeps bursts polite.
	maxInFlight = 4
	minInterval = 250 * time.Millisecond

	gameFields = "fields name, summary, storyline, aggregated_rating, first_release_date, " +
		"genres.name, themes.name, game_modes.name, player_perspectives.name, " +
		"cover.image_id, screenshots.image_id, " +
		"involved_companies.company.name, involved_companies.developer, involved_companies.publisher, " +
		"franchises.name;"
)

// Client talks to the IGDB v4 API using Twitch client-credential auth.
type Client struct {
	clientID     string
	clientSecret string
	httpClient   *http.Client
	limiter      *ratelimit.Limiter

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

// New creates an IGDB client from Twitch app credentials.
func New(clientID, clientSecret string) (*Client, error) {
	if strings.TrimSpace(clientID) == "" || strings.TrimSpace(clientSecret) == "" {
		return nil, fmt.Errorf("igdb client id and secret must be provided")
	}
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: ratelimit.New(minInterval, maxInFlight),
	}, nil
}

// ensureToken returns a valid bearer token, refreshing one minute before
// expiry.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.accessToken != "" && time.Now().Before(c.expiresAt) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("igdb token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("igdb token request: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var token struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("decode igdb token: %w", err)
	}
	c.accessToken = token.AccessToken
	c.expiresAt = time.Now().Add(time.Duration(token.ExpiresIn-60) * time.Second)
	return c.accessToken, nil
}

// query posts an APIcalypse body to one endpoint under rate limiting.
func (c *Client) query(ctx context.Context, endpoint, body string) ([]byte, error) {
	release, err := c.limiter.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	token, err := c.ensureToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiBase+"/"+endpoint, strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("igdb %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("igdb %s: status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return io.ReadAll(resp.Body)
}

// FetchByIDs batch-loads games by IGDB id.
func (c *Client) FetchByIDs(ctx context.Context, ids []int64) ([]Game, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%d", id))
	}
	body := fmt.Sprintf("%s where id = (%s); limit %d;", gameFields, strings.Join(parts, ","), len(ids))

	raw, err := c.query(ctx, "games", body)
	if err != nil {
		return nil, err
	}
	var games []Game
	if err := json.Unmarshal(raw, &games); err != nil {
		return nil, fmt.Errorf("decode igdb games: %w", err)
	}
	return games, nil
}

// Search finds the best-matching game for a name, nil when none.
func (c *Client) Search(ctx context.Context, name string) (*Game, error) {
	escaped := strings.ReplaceAll(name, `"`, `\"`)
	body := fmt.Sprintf("%s search \"%s\"; limit 1;", gameFields, escaped)

	raw, err := c.query(ctx, "games", body)
	if err != nil {
		return nil, err
	}
	var games []Game
	if err := json.Unmarshal(raw, &games); err != nil {
		return nil, fmt.Errorf("decode igdb search: %w", err)
	}
	if len(games) == 0 {
		return nil, nil
	}
	return &games[0], nil
}

// TestConnection verifies the credentials by acquiring a token.
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.ensureToken(ctx)
	return err
}
