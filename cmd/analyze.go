package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"threadlens/internal/cache"
	"threadlens/internal/render"

	"github.com/spf13/cobra"
)

var analyzeNoCache bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze KEYWORD",
	Short: "Run the keyword trend analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		keyword := args[0]

		client, err := newClient()
		if err != nil {
			return err
		}

		var store *cache.Store
		if cfg.Cache.Enabled && !analyzeNoCache {
			rdb := cache.NewRedisClient(cfg.Redis)
			defer rdb.Close()
			store = cache.NewStore(rdb, cfg.CacheTTL())
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.BackendTimeout())
		defer cancel()

		if cached, ok, err := store.GetKeywordAnalysis(ctx, keyword); ok {
			out, rerr := render.KeywordAnalysis(cached)
			if rerr != nil {
				return rerr
			}
			fmt.Fprintln(cmd.OutOrStdout(), "(cached)")
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		} else if err != nil {
			slog.Warn("analysis cache read failed.", "keyword", keyword, "error", err)
		}

		analysis, err := client.Analyze(ctx, keyword)
		if err != nil {
			return err
		}
		if err := store.SetKeywordAnalysis(ctx, keyword, analysis); err != nil {
			slog.Warn("analysis cache write failed.", "keyword", keyword, "error", err)
		}
		out, err := render.KeywordAnalysis(analysis)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeNoCache, "no-cache", false, "always query the backend, skipping the result cache")
	rootCmd.AddCommand(analyzeCmd)
}
