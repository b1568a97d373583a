package worker

import (
	"context"
	"errors"
	"testing"

	"threadlens/internal/api"
)

func score(v float64) *float64 { return &v }

type fakeAnalyzer struct {
	results map[string]api.PostAnalysisResult
	errs    map[string]error
}

func (f *fakeAnalyzer) AnalyzePost(ctx context.Context, postID string) (api.PostAnalysisResult, error) {
	if err, ok := f.errs[postID]; ok {
		return api.PostAnalysisResult{}, err
	}
	return f.results[postID], nil
}

func TestBatchIsolatesFailures(t *testing.T) {
	posts := []api.Post{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	fa := &fakeAnalyzer{
		results: map[string]api.PostAnalysisResult{
			"a": {Analysis: api.PostAnalysis{PerReply: []api.ScoredReply{{Score: score(0.5)}}}},
			"c": {Analysis: api.PostAnalysis{PerReply: []api.ScoredReply{{Score: score(-0.5)}}}},
		},
		errs: map[string]error{"b": errors.New("backend down")},
	}

	b := &BatchAnalyzer{Client: fa, Concurrency: 2}
	results := b.Run(context.Background(), posts)

	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	// Results keep input order regardless of completion order.
	for i, id := range []string{"a", "b", "c"} {
		if results[i].Post.ID != id {
			t.Errorf("results[%d] = %q, want %q", i, results[i].Post.ID, id)
		}
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("healthy posts must not inherit the failing post's error")
	}
	if results[1].Err == nil {
		t.Errorf("failing post must report its error")
	}
	if results[0].Summary.CumulativeScore != 0.5 {
		t.Errorf("post a score = %v, want 0.5", results[0].Summary.CumulativeScore)
	}
}

func TestBatchDefaultsConcurrency(t *testing.T) {
	fa := &fakeAnalyzer{results: map[string]api.PostAnalysisResult{"a": {}}}
	b := &BatchAnalyzer{Client: fa}
	results := b.Run(context.Background(), []api.Post{{ID: "a"}})
	if len(results) != 1 || results[0].Err != nil {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestBatchEmptyInput(t *testing.T) {
	b := &BatchAnalyzer{Client: &fakeAnalyzer{}}
	if results := b.Run(context.Background(), nil); len(results) != 0 {
		t.Errorf("results = %v, want empty", results)
	}
}
