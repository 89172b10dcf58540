// Package cli defines the cobra command tree for folio.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/evcraddock/folio/internal/client"
	"github.com/evcraddock/folio/internal/comment"
	"github.com/evcraddock/folio/internal/config"
	"github.com/evcraddock/folio/internal/db"
)

var (
	flagFormat       string
	flagConfig       string
	flagEnvFile      string
	flagCommentsFile string
	flagStorage      string
	flagDB           string
	flagServer       string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "folio",
		Short:         "Backend for a personal portfolio site",
		Long:          "Serves the comments and contact-form API for a personal portfolio site, and manages stored comments from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (.yaml, .yml or .toml)")
	root.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "dotenv file to read if present")
	root.PersistentFlags().StringVar(&flagCommentsFile, "comments-file", "", "JSON comments file (default: comments.json)")
	root.PersistentFlags().StringVar(&flagStorage, "storage", "", "comment storage backend (json|sqlite|memory)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path for --storage sqlite (default: comments.db)")
	root.PersistentFlags().StringVar(&flagServer, "server", "", "talk to a running folio server at this URL instead of local storage (env: FOLIO_SERVER_URL)")

	root.AddCommand(
		newServeCmd(),
		newCommentsCmd(),
		newContactCmd(),
		newStatusCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return root
}

// loadConfig reads configuration and applies global flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig, flagEnvFile)
	if err != nil {
		return config.Config{}, err
	}

	if flagCommentsFile != "" {
		cfg.CommentsFile = flagCommentsFile
	}
	if flagStorage != "" {
		cfg.Storage = flagStorage
	}
	if flagDB != "" {
		cfg.DBPath = flagDB
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// openStore opens the configured comment store. The returned close
// function releases any database handle.
func openStore(ctx context.Context, cfg config.Config) (comment.Store, func(), error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		store := comment.NewSQLiteStore(database)
		if err := store.Init(ctx); err != nil {
			closeDB(database)
			return nil, nil, err
		}
		return store, func() { closeDB(database) }, nil
	case config.StorageMemory:
		return comment.NewMemoryStore(), func() {}, nil
	default:
		store := comment.NewFileStore(cfg.CommentsFile)
		if err := store.Init(ctx); err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}

// getServerURL returns the remote server URL from the --server flag or
// FOLIO_SERVER_URL. Empty means use local storage.
func getServerURL() string {
	if flagServer != "" {
		return flagServer
	}
	return os.Getenv("FOLIO_SERVER_URL")
}

// newAPIClient creates an HTTP client for url, falling back to the
// default local server address.
func newAPIClient(url string) *client.Client {
	if url == "" {
		url = "http://localhost:5000"
	}
	return client.New(url)
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// closeDB closes the database, logging any error to stderr.
func closeDB(database *sql.DB) {
	if err := database.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", err)
	}
}
