package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gwj/vust/internal/db"
	"github.com/gwj/vust/internal/output"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the local database and config directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := getConfigDir()
		if err != nil {
			output.Error("resolve config dir: %v", err)
			return err
		}
		database, err := db.Initialize(dir)
		if err != nil {
			output.Error("initialize database: %v", err)
			return err
		}
		defer database.Close()

		output.Success("initialized vust database in %s", dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
