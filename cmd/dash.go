package cmd

import (
	"threadlens/internal/api"
	"threadlens/internal/cache"
	"threadlens/internal/dash"

	"github.com/spf13/cobra"
)

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Open the interactive analytics dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		client, err := newClient()
		if err != nil {
			return err
		}

		var store *cache.Store
		if cfg.Cache.Enabled {
			rdb := cache.NewRedisClient(cfg.Redis)
			defer rdb.Close()
			store = cache.NewStore(rdb, cfg.CacheTTL())
		}

		return dash.Run(dash.Opts{
			Backend: client,
			Store:   store,
			Timeout: cfg.BackendTimeout(),
			Timeline: api.TimelineQuery{
				Limit: cfg.Timeline.Limit,
				Since: cfg.Timeline.Since,
				Until: cfg.Timeline.Until,
			},
		})
	},
}

func init() {
	rootCmd.AddCommand(dashCmd)
}
