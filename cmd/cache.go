package cmd

import (
	"context"
	"fmt"
	"time"

	"threadlens/internal/cache"

	"github.com/spf13/cobra"
)

// cacheCmd groups result-cache utilities.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Result cache utilities",
}

// cachePingCmd pings the configured Redis server.
var cachePingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Ping the cache Redis and print PONG",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		rdb := cache.NewRedisClient(cfg.Redis)
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		res, err := rdb.Ping(ctx).Result()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cachePingCmd)
	rootCmd.AddCommand(cacheCmd)
}
