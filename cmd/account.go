package cmd

import (
	"context"
	"fmt"

	"threadlens/internal/render"

	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Show token status and the profile behind the saved token",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		cfg := GetConfig()
		ctx, cancel := context.WithTimeout(context.Background(), cfg.BackendTimeout())
		defer cancel()
		info, err := client.AccountInfo(ctx)
		if err != nil {
			return err
		}
		out, err := render.AccountInfo(info)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(accountCmd)
}
