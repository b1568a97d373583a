// Package worker fans out independent per-post analysis requests.
package worker

import (
	"context"
	"log/slog"
	"sync"

	"threadlens/internal/api"
	"threadlens/internal/sentiment"
)

// PostAnalyzer is the single backend call a batch needs.
type PostAnalyzer interface {
	AnalyzePost(ctx context.Context, postID string) (api.PostAnalysisResult, error)
}

// Result pairs one post with its aggregated analysis or its error.
// A failed post never affects any other post in the batch.
type Result struct {
	Post    api.Post
	Summary sentiment.Summary
	Err     error
}

// BatchAnalyzer runs reply analysis for a batch of posts with bounded
// concurrency.
type BatchAnalyzer struct {
	Client      PostAnalyzer
	Concurrency int
}

// Run analyzes every post and returns results in input order. Each
// post's request is fully independent; failures are recorded per post
// and logged, never propagated across the batch.
func (b *BatchAnalyzer) Run(ctx context.Context, posts []api.Post) []Result {
	workers := b.Concurrency
	if workers <= 0 {
		workers = 4
	}
	if workers > len(posts) {
		workers = len(posts)
	}

	results := make([]Result, len(posts))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, p := range posts {
		wg.Add(1)
		go func(i int, p api.Post) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res, err := b.Client.AnalyzePost(ctx, p.ID)
			if err != nil {
				slog.Error("batch: analyze post failed.", "post_id", p.ID, "error", err)
				results[i] = Result{Post: p, Err: err}
				return
			}
			results[i] = Result{Post: p, Summary: sentiment.Aggregate(res.Analysis)}
		}(i, p)
	}
	wg.Wait()
	return results
}
