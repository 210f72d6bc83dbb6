package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gwj/vust/internal/output"
)

var claimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Adopt the anonymous account's local data into the signed-in account",
	Long: `claim reassigns every record owned by the built-in anonymous account to
the currently signed-in account, so data created while signed out is
included in the next sync. Ownership is never reassigned implicitly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := activeUser(true)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		sessions, err := getSessions()
		if err != nil {
			return err
		}
		database, err := getDB()
		if err != nil {
			output.Error("open database: %v", err)
			return err
		}

		anon, err := sessions.Anonymous()
		if err != nil {
			output.Error("find anonymous account: %v", err)
			return err
		}
		if err := database.ClaimUserData(anon.UUID, user.UUID); err != nil {
			output.Error("claim data: %v", err)
			return err
		}
		if err := sessions.BumpDataVersion(); err != nil {
			output.Warning("bump data version: %v", err)
		}
		output.Success("anonymous data now belongs to %s; run 'vust sync' to upload it", user.Username)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(claimCmd)
}
