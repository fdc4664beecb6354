package app

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	"github.com/xxxsen/romkeep/internal/config"
	"github.com/xxxsen/romkeep/internal/db"
)

func defaultConfigPaths() []string {
	paths := []string{"./config.json"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".romkeep", "config.json"))
	}
	paths = append(paths, "/etc/romkeep.json")
	return paths
}

// loadConfig reads the first readable config file, trying the explicit
// path first. A missing config is not an error, every option has a
// default.
func loadConfig(explicit string) (*config.Config, error) {
	paths := append([]string{explicit}, defaultConfigPaths()...)
	cfg, err := config.LoadFirst(paths...)
	if errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// openCatalog returns the shared catalog handle, opening it on first use.
func openCatalog(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	if database := db.Default(); database != nil {
		return database, nil
	}
	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	db.SetDefault(database)
	return database, nil
}
