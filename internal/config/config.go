package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the application configuration loaded from json.
type Config struct {
	// DBPath locates the catalog database. Defaults to
	// ~/.romkeep/catalog.db when empty.
	DBPath string `json:"db_path"`
	// DataDir holds downloaded support files such as the LaunchBox
	// metadata mirror. Defaults to ~/.romkeep when empty.
	DataDir string `json:"data_dir"`

	Hasheous          HasheousConfig          `json:"hasheous"`
	IGDB              IGDBConfig              `json:"igdb"`
	ScreenScraper     ScreenScraperConfig     `json:"screenscraper"`
	RetroAchievements RetroAchievementsConfig `json:"retroachievements"`
	Romm              RommConfig              `json:"romm"`
	S3                S3Config                `json:"s3"`
	Retrom            RetromConfig            `json:"retrom"`
}

// HasheousConfig selects the hash lookup instance.
type HasheousConfig struct {
	Host string `json:"host"`
}

// IGDBConfig holds Twitch app credentials for the IGDB API.
type IGDBConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// ScreenScraperConfig holds an optional ScreenScraper user account.
type ScreenScraperConfig struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RetroAchievementsConfig holds a RetroAchievements web API account.
type RetroAchievementsConfig struct {
	Username string `json:"username"`
	APIKey   string `json:"api_key"`
}

// RommConfig holds credentials for a RomM server.
type RommConfig struct {
	Host     string `json:"host"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// S3Config holds the options for the artwork mirror bucket.
type S3Config struct {
	Host            string `json:"host"`
	Bucket          string `json:"bucket"`
	Region          string `json:"region"`
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	SessionToken    string `json:"session_token"`
	ForcePathStyle  bool   `json:"force_path_style"`
	// PublicBaseURL overrides the URL prefix recorded for mirrored
	// objects, for buckets served through a CDN.
	PublicBaseURL string `json:"public_base_url"`
}

// RetromConfig holds the postgres link of a Retrom server.
type RetromConfig struct {
	DBLink string `json:"db_link"`
}

// LoadFirst tries to load configuration from the given paths, returning
// the first successfully decoded configuration. If none of the paths
// contain a readable config, an error is returned.
func LoadFirst(paths ...string) (*Config, error) {
	var lastErr error
	for _, path := range paths {
		if path == "" {
			continue
		}
		cfg, err := Load(path)
		if errors.Is(err, os.ErrNotExist) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, err
		}
		return cfg, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("config not found in paths: %v", paths)
	}
	return nil, lastErr
}

// Load reads configuration from a single json file path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a configuration with every path defaulted, used when
// no config file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		c.DataDir = filepath.Join(home, ".romkeep")
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, "catalog.db")
	}
}

// ValidateS3 checks the fields the artwork mirror needs.
func (c *Config) ValidateS3() error {
	if c.S3.Host == "" {
		return errors.New("config.s3.host must be set")
	}
	if c.S3.Bucket == "" {
		return errors.New("config.s3.bucket must be set")
	}
	return nil
}
