package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kompox/zoneacme/adapters/store/file"
	"github.com/kompox/zoneacme/adapters/store/inmem"
	"github.com/kompox/zoneacme/adapters/store/rdb"
	"github.com/kompox/zoneacme/domain"
)

// buildAccountConfigRepository creates the account config store from the store URL.
//
//	file:<path>               YAML map file (default: $ZONEACME_HOME/account.yml)
//	sqlite:<dsn>, sqlite3:... SQLite database via gorm
//	mem:                      process-local map, nothing is persisted
func buildAccountConfigRepository(storeURL string) (domain.AccountConfigRepository, error) {
	switch {
	case strings.HasPrefix(storeURL, "file:"):
		path := strings.TrimPrefix(storeURL, "file:")
		if path == "" {
			return nil, fmt.Errorf("file path is required for file: URL")
		}
		return file.NewAccountConfigRepository(path), nil

	case strings.HasPrefix(storeURL, "sqlite:") || strings.HasPrefix(storeURL, "sqlite3:"):
		db, err := rdb.OpenFromURL(storeURL)
		if err != nil {
			return nil, err
		}
		if err := rdb.AutoMigrate(db); err != nil {
			return nil, err
		}
		return rdb.NewAccountConfigRepository(db), nil

	case strings.HasPrefix(storeURL, "mem:"):
		return inmem.NewAccountConfigRepository(), nil

	default:
		return nil, fmt.Errorf("unsupported store scheme: %s", storeURL)
	}
}

// buildAccountConfig resolves the store URL of cmd and opens it.
func buildAccountConfig(cmd *cobra.Command) (domain.AccountConfigRepository, error) {
	s, err := settingsFromContext(cmd.Context())
	if err != nil {
		return nil, err
	}
	return buildAccountConfigRepository(s.StoreURL)
}
