package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gwj/vust/internal/output"
	"github.com/gwj/vust/internal/syncconfig"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active account and sync cursor",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := activeUser(false)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		output.Info("user:    %s", user.Username)
		output.Info("uuid:    %s", user.UUID)
		if user.IsAnonymous() {
			output.Subtle("signed out; local data belongs to the anonymous account")
			return nil
		}

		server := user.ServerAddress
		if server == "" {
			server = syncconfig.GetServerURL()
		}
		output.Info("server:  %s", server)

		database, err := getDB()
		if err != nil {
			output.Error("open database: %v", err)
			return err
		}
		rev, err := database.LastSyncedRev(user.UUID)
		if err != nil {
			output.Error("read sync cursor: %v", err)
			return err
		}
		if rev == 0 {
			output.Subtle("never synced")
		} else {
			output.Info("synced:  revision %d", rev)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
