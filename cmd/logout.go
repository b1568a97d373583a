package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"threadlens/internal/session"

	"github.com/spf13/cobra"
)

var logoutYes bool

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Logout is confirmed explicitly before any request is made.
		if !logoutYes {
			fmt.Fprint(cmd.OutOrStdout(), "Log out? [y/N]: ")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil {
				return err
			}
			answer := strings.ToLower(strings.TrimSpace(line))
			if answer != "y" && answer != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
		}

		client, err := newClient()
		if err != nil {
			return err
		}
		cfg := GetConfig()
		ctx, cancel := context.WithTimeout(context.Background(), cfg.BackendTimeout())
		defer cancel()
		if err := client.Logout(ctx); err != nil {
			return err
		}
		if err := session.Clear(); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

func init() {
	logoutCmd.Flags().BoolVarP(&logoutYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(logoutCmd)
}
