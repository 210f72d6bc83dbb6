package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gwj/vust/internal/output"
	vsync "github.com/gwj/vust/internal/sync"
	"github.com/gwj/vust/internal/syncclient"
	"github.com/gwj/vust/internal/syncconfig"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync local data with the vust server",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := activeUser(true)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		database, err := getDB()
		if err != nil {
			output.Error("open database: %v", err)
			return err
		}
		sessions, err := getSessions()
		if err != nil {
			return err
		}
		iconsDir, err := syncconfig.IconsDir()
		if err != nil {
			output.Error("resolve icons dir: %v", err)
			return err
		}

		serverURL := user.ServerAddress
		if serverURL == "" {
			serverURL = syncconfig.GetServerURL()
		}

		events := make(chan vsync.Event, 64)
		done := make(chan struct{})
		go func() {
			defer close(done)
			for ev := range events {
				output.Subtle("%s", ev)
			}
		}()

		engine := vsync.New(vsync.Config{
			DB:         database,
			Sessions:   sessions,
			API:        syncclient.New(serverURL, user.Token),
			AppVersion: Version(),
			ChunkSize:  syncconfig.GetChunkSize(),
			IconsDir:   iconsDir,
			Events:     events,
		})

		err = engine.Run()
		close(events)
		<-done

		var stateErr *vsync.AccountStateError
		switch {
		case err == nil:
			output.Success("sync complete")
			return nil
		case errors.As(err, &stateErr):
			switch stateErr.State {
			case vsync.StateAccountDeleted:
				output.Warning("this account was deleted on the server; local data has been removed")
			default:
				output.Warning("%s; signed out locally, data kept (run: vust login)", stateErr.State)
			}
			return err
		case errors.Is(err, vsync.ErrSyncInProgress):
			output.Warning("a sync is already running for this account")
			return err
		case errors.Is(err, vsync.ErrServerTooOld):
			output.Error("server is too old: %v", err)
			return err
		default:
			output.Error("sync failed: %v", err)
			return fmt.Errorf("sync: %w", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
