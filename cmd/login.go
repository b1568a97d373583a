package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"threadlens/internal/session"

	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the analytics backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		username := strings.TrimSpace(loginUsername)
		password := loginPassword
		reader := bufio.NewReader(cmd.InOrStdin())
		if username == "" {
			fmt.Fprint(cmd.OutOrStdout(), "Username: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return err
			}
			username = strings.TrimSpace(line)
		}
		if password == "" {
			fmt.Fprint(cmd.OutOrStdout(), "Password: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return err
			}
			password = strings.TrimRight(line, "\r\n")
		}

		client, err := newClient()
		if err != nil {
			return err
		}
		cfg := GetConfig()
		ctx, cancel := context.WithTimeout(context.Background(), cfg.BackendTimeout())
		defer cancel()
		if err := client.Login(ctx, username, password); err != nil {
			fmt.Fprintln(os.Stderr, "Login failed:", err)
			return err
		}
		if err := session.Save(session.FromHTTP(username, client.SessionCookies())); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged in successfully. Open the dashboard with: threadlens dash")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "account username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password (prompted if omitted)")
	rootCmd.AddCommand(loginCmd)
}
