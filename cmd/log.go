package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gwj/vust/internal/output"
)

var logLimit int

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recent sync attempts for the active account",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := activeUser(false)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		database, err := getDB()
		if err != nil {
			output.Error("open database: %v", err)
			return err
		}

		entries, err := database.SyncLogTail(user.UUID, logLimit)
		if err != nil {
			output.Error("read sync log: %v", err)
			return err
		}
		if len(entries) == 0 {
			output.Subtle("no sync attempts recorded")
			return nil
		}
		for _, e := range entries {
			output.Info("%s", output.FormatSyncLogEntry(e))
		}
		return nil
	},
}

func init() {
	logCmd.Flags().IntVarP(&logLimit, "limit", "n", 20, "number of attempts to show")
	rootCmd.AddCommand(logCmd)
}
