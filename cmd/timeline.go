package cmd

import (
	"context"
	"fmt"

	"threadlens/internal/api"
	"threadlens/internal/render"
	"threadlens/worker"

	"github.com/spf13/cobra"
)

var (
	timelineLimit       string
	timelineSince       string
	timelineUntil       string
	timelineAnalyzeAll  bool
	timelineConcurrency int
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Fetch a batch of your posts, optionally analyzing every post's replies",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		q := api.TimelineQuery{
			Limit: cfg.Timeline.Limit,
			Since: cfg.Timeline.Since,
			Until: cfg.Timeline.Until,
		}
		if timelineLimit != "" {
			q.Limit = api.ParseLimit(timelineLimit)
		}
		if timelineSince != "" {
			q.Since = timelineSince
		}
		if timelineUntil != "" {
			q.Until = timelineUntil
		}

		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), cfg.BackendTimeout())
		defer cancel()
		posts, err := client.FetchTimeline(ctx, q)
		if err != nil {
			return err
		}

		out, err := render.Timeline(posts)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)

		if !timelineAnalyzeAll || len(posts) == 0 {
			return nil
		}

		// Per-post requests run independently; one slow or failing
		// post never blocks the others.
		batch := &worker.BatchAnalyzer{Client: client, Concurrency: timelineConcurrency}
		batchCtx, batchCancel := context.WithTimeout(context.Background(), cfg.BackendTimeout()*2)
		defer batchCancel()
		for _, res := range batch.Run(batchCtx, posts) {
			fmt.Fprintf(cmd.OutOrStdout(), "\n== Post %s ==\n", res.Post.ID)
			if res.Err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), render.ErrorMessage(api.UserMessage(res.Err)))
				continue
			}
			block, err := render.PostAnalysis(res.Summary)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), block)
		}
		return nil
	},
}

func init() {
	timelineCmd.Flags().StringVar(&timelineLimit, "limit", "", "number of posts to fetch (default 3; non-numeric input falls back to 3)")
	timelineCmd.Flags().StringVar(&timelineSince, "since", "", "lower date bound (empty for none)")
	timelineCmd.Flags().StringVar(&timelineUntil, "until", "", "upper date bound (\"now\" for none)")
	timelineCmd.Flags().BoolVar(&timelineAnalyzeAll, "analyze-all", false, "analyze replies to every fetched post")
	timelineCmd.Flags().IntVar(&timelineConcurrency, "concurrency", 4, "max concurrent reply analyses with --analyze-all")
	rootCmd.AddCommand(timelineCmd)
}
