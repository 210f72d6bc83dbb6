// Package cmd implements the vust command line interface.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/gwj/vust/internal/db"
	"github.com/gwj/vust/internal/session"
	"github.com/gwj/vust/internal/syncconfig"
)

var (
	version string
	verbose bool
)

// SetVersion sets the version string
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Version returns the version string set at startup.
func Version() string {
	return version
}

var rootCmd = &cobra.Command{
	Use:   "vust",
	Short: "Offline-first bookmark, asset, and search engine store with sync",
	Long: `vust - A local-first store for website bookmarks, tracked assets, and
search engines, with session-oriented chunked sync against a vust server.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initLogging)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func initLogging() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	switch strings.ToLower(os.Getenv("VUST_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// Shared per-process resources. The config directory, database handle, and
// session store are resolved once and reused by every subcommand.
var (
	getConfigDir = sync.OnceValues(func() (string, error) {
		return syncconfig.ConfigDir()
	})

	getDB = sync.OnceValues(func() (*db.DB, error) {
		dir, err := getConfigDir()
		if err != nil {
			return nil, err
		}
		return db.Open(dir)
	})

	getSessions = sync.OnceValues(func() (*session.Store, error) {
		dir, err := getConfigDir()
		if err != nil {
			return nil, err
		}
		return session.NewStore(dir), nil
	})
)

// activeUser loads the current account, failing with a hint when nobody is
// signed in and signed-in access is required.
func activeUser(requireSignedIn bool) (session.User, error) {
	sessions, err := getSessions()
	if err != nil {
		return session.User{}, err
	}
	user, err := sessions.Active()
	if err != nil {
		return session.User{}, err
	}
	if requireSignedIn && (user.IsAnonymous() || !user.LoggedIn) {
		return session.User{}, fmt.Errorf("not signed in (run: vust login)")
	}
	return user, nil
}
