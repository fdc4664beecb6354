package retroach

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const defaultHost = "https://retroachievements.org"

// Client queries the RetroAchievements web API to resolve ROM hashes to
// RA game ids.
type Client struct {
	host       string
	username   string
	apiKey     string
	httpClient *http.Client

	mu sync.Mutex
	// console id -> lowercase md5 -> game id; a console's hash index is
	// fetched once per process
	indexes map[int64]map[string]string
}

// New creates a RetroAchievements client. An empty host selects the
// public instance.
func New(host, username, apiKey string) *Client {
	host = strings.TrimSuffix(strings.TrimSpace(host), "/")
	if host == "" {
		host = defaultHost
	}
	return &Client{
		host:     host,
		username: username,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		indexes: make(map[int64]map[string]string),
	}
}

// FindGameID resolves an MD5 hash to the RA game id for one console.
// A hash RA does not know returns "".
func (c *Client) FindGameID(ctx context.Context, consoleID int64, md5sum string) (string, error) {
	index, err := c.consoleIndex(ctx, consoleID)
	if err != nil {
		return "", err
	}
	return index[strings.ToLower(md5sum)], nil
}

type gameListEntry struct {
	ID     int64    `json:"ID"`
	Hashes []string `json:"Hashes"`
}

func (c *Client) consoleIndex(ctx context.Context, consoleID int64) (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index, ok := c.indexes[consoleID]; ok {
		return index, nil
	}

	params := url.Values{}
	params.Set("z", c.username)
	params.Set("y", c.apiKey)
	params.Set("i", strconv.FormatInt(consoleID, 10))
	// h=1 includes hashes, f=1 limits the list to games with achievements
	params.Set("h", "1")
	params.Set("f", "1")
	endpoint := fmt.Sprintf("%s/API/API_GetGameList.php?%s", c.host, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "romkeep/enrich")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("retroachievements game list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("retroachievements game list: unexpected status %d", resp.StatusCode)
	}

	var games []gameListEntry
	if err := json.NewDecoder(resp.Body).Decode(&games); err != nil {
		return nil, fmt.Errorf("decode retroachievements game list: %w", err)
	}

	index := make(map[string]string)
	for _, game := range games {
		id := strconv.FormatInt(game.ID, 10)
		for _, hash := range game.Hashes {
			index[strings.ToLower(hash)] = id
		}
	}
	c.indexes[consoleID] = index
	return index, nil
}
