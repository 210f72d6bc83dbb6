package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gwj/vust/internal/output"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and switch to the anonymous account",
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
		if err := sessions.SignOut(user.UUID); err != nil {
			output.Error("sign out: %v", err)
			return err
		}
		output.Success("signed out %s; local data kept", user.Username)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
