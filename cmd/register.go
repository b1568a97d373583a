package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	registerUsername string
	registerPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		cfg := GetConfig()
		ctx, cancel := context.WithTimeout(context.Background(), cfg.BackendTimeout())
		defer cancel()
		message, err := client.Register(ctx, registerUsername, registerPassword)
		if err != nil {
			return err
		}
		if message == "" {
			message = "Account created successfully."
		}
		fmt.Fprintln(cmd.OutOrStdout(), message)
		fmt.Fprintln(cmd.OutOrStdout(), "Log in with: threadlens login -u", registerUsername)
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVarP(&registerUsername, "username", "u", "", "account username")
	registerCmd.Flags().StringVarP(&registerPassword, "password", "p", "", "account password")
	_ = registerCmd.MarkFlagRequired("username")
	_ = registerCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(registerCmd)
}
