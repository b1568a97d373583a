package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// tokenCmd groups token-related subcommands.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Platform access token utilities",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set TOKEN",
	Short: "Register a platform access token for the current account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		cfg := GetConfig()
		ctx, cancel := context.WithTimeout(context.Background(), cfg.BackendTimeout())
		defer cancel()
		message, err := client.UpdateToken(ctx, args[0])
		if err != nil {
			return err
		}
		if message == "" {
			message = "Token updated successfully."
		}
		fmt.Fprintln(cmd.OutOrStdout(), message)
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenSetCmd)
	rootCmd.AddCommand(tokenCmd)
}
