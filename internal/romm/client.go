package romm

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
)

// DefaultPageSize is the page size used when walking the full library.
const DefaultPageSize = 50

// Platform is a RomM platform entry.
type Platform struct {
	ID             int64  `json:"id"`
	Slug           string `json:"slug"`
	Name           string `json:"name"`
	DisplayName    string `json:"display_name"`
	RomCount       int64  `json:"rom_count"`
	IsUnidentified bool   `json:"is_unidentified"`
}

// Metadatum is the nested metadata object attached to a ROM.
type Metadatum struct {
	Genres           []string `json:"genres"`
	FirstReleaseDate int64    `json:"first_release_date"`
}

// Rom is one entry from GET /api/roms.
type Rom struct {
	ID          int64      `json:"id"`
	PlatformID  int64      `json:"platform_id"`
	FsName      string     `json:"fs_name"`
	Name        string     `json:"name"`
	FsSizeBytes int64      `json:"fs_size_bytes"`
	Regions     []string   `json:"regions"`
	Summary     string     `json:"summary"`
	URLCover    string     `json:"url_cover"`
	Metadatum   *Metadatum `json:"metadatum"`
}

// Page is the paginated wrapper used by list endpoints.
type Page struct {
	Items  []Rom `json:"items"`
	Total  int64 `json:"total"`
	Limit  int64 `json:"limit"`
	Offset int64 `json:"offset"`
}

// ConnectionTest summarizes what a successful login can see.
type ConnectionTest struct {
	PlatformCount int64
	RomCount      int64
}

// Client talks to a RomM server using password-grant token auth.
type Client struct {
	host       string
	username   string
	password   string
	httpClient *http.Client

	mu          sync.Mutex
	accessToken string
}

// New creates a RomM client.
func New(host, username, password string) (*Client, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, fmt.Errorf("romm host must be provided")
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}
	if username == "" || password == "" {
		return nil, fmt.Errorf("romm username and password must be provided")
	}
	return &Client{
		host:     strings.TrimSuffix(host, "/"),
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Host returns the configured base URL.
func (c *Client) Host() string {
	return c.host
}

// authenticate performs the password grant and returns a fresh token.
func (c *Client) authenticate(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("username", c.username)
	form.Set("password", c.password)
	form.Set("grant_type", "password")
	form.Set("scope", "me.read roms.read platforms.read assets.read")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("romm authentication: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("romm authentication: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("decode romm token: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("romm authentication: empty access token")
	}
	return token.AccessToken, nil
}

func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.accessToken != "" {
		return c.accessToken, nil
	}
	token, err := c.authenticate(ctx)
	if err != nil {
		return "", err
	}
	c.accessToken = token
	return token, nil
}

// authGet performs an authenticated GET, re-authenticating once on 401.
func (c *Client) authGet(ctx context.Context, endpoint string) (*http.Response, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := c.doGet(ctx, endpoint, token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()

	token, err = c.authenticate(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.accessToken = token
	c.mu.Unlock()
	return c.doGet(ctx, endpoint, token)
}

func (c *Client) doGet(ctx context.Context, endpoint, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	return c.httpClient.Do(req)
}

// GetPlatforms retrieves every platform from RomM.
func (c *Client) GetPlatforms(ctx context.Context) ([]Platform, error) {
	resp, err := c.authGet(ctx, c.host+"/api/platforms")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("get platforms: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var platforms []Platform
	if err := json.NewDecoder(resp.Body).Decode(&platforms); err != nil {
		return nil, fmt.Errorf("decode platforms: %w", err)
	}
	return platforms, nil
}

// ListRoms fetches one page of the full library.
func (c *Client) ListRoms(ctx context.Context, limit, offset int64) (*Page, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	endpoint := fmt.Sprintf("%s/api/roms?limit=%d&offset=%d", c.host, limit, offset)
	resp, err := c.authGet(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("list roms: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var page Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode roms: %w", err)
	}
	return &page, nil
}

// DownloadURL builds the authenticated content URL for a remote ROM.
func (c *Client) DownloadURL(romID int64, fileName string) string {
	return fmt.Sprintf("%s/api/roms/%d/content/%s", c.host, romID, url.PathEscape(fileName))
}

// TestConnection authenticates and counts what the account can see.
func (c *Client) TestConnection(ctx context.Context) (*ConnectionTest, error) {
	if _, err := c.authenticate(ctx); err != nil {
		return nil, err
	}
	platforms, err := c.GetPlatforms(ctx)
	if err != nil {
		return nil, err
	}
	result := &ConnectionTest{PlatformCount: int64(len(platforms))}
	for _, p := range platforms {
		result.RomCount += p.RomCount
	}
	return result, nil
}
