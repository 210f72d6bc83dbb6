package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gwj/vust/internal/output"
	"github.com/gwj/vust/internal/session"
	"github.com/gwj/vust/internal/syncconfig"
)

var (
	loginToken  string
	loginServer string
	loginUUID   string
)

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Sign in to a vust server account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if loginToken == "" {
			return fmt.Errorf("a token is required (--token)")
		}
		sessions, err := getSessions()
		if err != nil {
			return err
		}

		server := loginServer
		if server == "" {
			server = syncconfig.GetServerURL()
		}
		userUUID := loginUUID
		if userUUID == "" {
			userUUID = uuid.NewString()
		}

		user := session.User{
			UUID:          userUUID,
			Username:      args[0],
			Token:         loginToken,
			ServerAddress: server,
		}
		if err := sessions.SignIn(user); err != nil {
			output.Error("sign in: %v", err)
			return err
		}
		output.Success("signed in as %s (%s)", user.Username, server)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginToken, "token", "", "server-issued account token")
	loginCmd.Flags().StringVar(&loginServer, "server", "", "server base URL (default from config)")
	loginCmd.Flags().StringVar(&loginUUID, "uuid", "", "account uuid (default: newly generated)")
	rootCmd.AddCommand(loginCmd)
}
