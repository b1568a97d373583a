package cmd

import (
	"context"
	"fmt"

	"threadlens/internal/render"
	"threadlens/internal/sentiment"

	"github.com/spf13/cobra"
)

var postCmd = &cobra.Command{
	Use:   "post POST_ID",
	Short: "Fetch replies to one post and aggregate their sentiment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		cfg := GetConfig()
		ctx, cancel := context.WithTimeout(context.Background(), cfg.BackendTimeout())
		defer cancel()
		res, err := client.AnalyzePost(ctx, args[0])
		if err != nil {
			return err
		}
		out, err := render.PostAnalysis(sentiment.Aggregate(res.Analysis))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(postCmd)
}
