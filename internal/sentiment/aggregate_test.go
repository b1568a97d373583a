package sentiment

import (
	"math"
	"strings"
	"testing"

	"threadlens/internal/api"
)

func score(v float64) *float64 { return &v }

func TestAggregateMissingScoresContributeZero(t *testing.T) {
	a := api.PostAnalysis{
		PerReply: []api.ScoredReply{
			{Username: "a", Text: "bad", Label: "negative", Score: score(-0.8)},
			{Username: "b", Text: "ok"},
			{Username: "c", Text: "great", Label: "positive", Score: score(0.5)},
			{Username: "d", Text: "meh"},
		},
	}
	s := Aggregate(a)
	if math.Abs(s.CumulativeScore-(-0.3)) > 1e-9 {
		t.Errorf("cumulative score = %v, want -0.3", s.CumulativeScore)
	}
	if len(s.PerReply) != 4 {
		t.Errorf("per-reply count = %d, want 4 (unscored replies stay in the set)", len(s.PerReply))
	}
}

func TestAggregateEmptyReplies(t *testing.T) {
	s := Aggregate(api.PostAnalysis{})
	if s.CumulativeScore != 0 {
		t.Errorf("cumulative score = %v, want 0", s.CumulativeScore)
	}
	if s.OverallVerdict != VerdictNoData {
		t.Errorf("verdict = %q, want %q", s.OverallVerdict, VerdictNoData)
	}
}

func TestAggregateClassifiesBySign(t *testing.T) {
	cases := []struct {
		name    string
		scores  []*float64
		verdict string
	}{
		{"positive sum", []*float64{score(0.9), score(-0.2)}, VerdictPositive},
		{"negative sum", []*float64{score(-0.9), score(0.2)}, VerdictNegative},
		{"zero sum", []*float64{score(0.5), score(-0.5)}, VerdictNeutral},
		{"all unscored", []*float64{nil, nil}, VerdictNeutral},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := api.PostAnalysis{}
			for _, sc := range tc.scores {
				a.PerReply = append(a.PerReply, api.ScoredReply{Score: sc})
			}
			if got := Aggregate(a).OverallVerdict; got != tc.verdict {
				t.Errorf("verdict = %q, want %q", got, tc.verdict)
			}
		})
	}
}

func TestAggregateUpstreamVerdictWins(t *testing.T) {
	a := api.PostAnalysis{
		PerReply:         []api.ScoredReply{{Score: score(0.9)}},
		OverallSentiment: "Mostly Negative",
	}
	s := Aggregate(a)
	if s.OverallVerdict != "Mostly Negative" {
		t.Errorf("verdict = %q, want upstream passthrough", s.OverallVerdict)
	}
}

func TestAggregateFollowUpSuggestion(t *testing.T) {
	cases := []struct {
		verdict string
		want    bool
	}{
		{"negative", true},
		{"Mostly Negative", true},
		{"neutral", true},
		{"NEUTRAL", true},
		{"positive", false},
		{"Overwhelmingly Positive", false},
	}
	for _, tc := range cases {
		a := api.PostAnalysis{
			PerReply:         []api.ScoredReply{{Score: score(0.1)}},
			OverallSentiment: tc.verdict,
			Recommendations:  []string{"post more"},
		}
		s := Aggregate(a)
		got := false
		for _, r := range s.Recommendations {
			if r == FollowUpSuggestion {
				got = true
			}
		}
		if got != tc.want {
			t.Errorf("verdict %q: follow-up present = %v, want %v", tc.verdict, got, tc.want)
		}
		if s.Recommendations[0] != "post more" {
			t.Errorf("verdict %q: upstream recommendations not preserved first", tc.verdict)
		}
	}
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	recs := []string{"keep posting"}
	a := api.PostAnalysis{
		PerReply:         []api.ScoredReply{{Score: score(-1)}},
		OverallSentiment: "negative",
		Recommendations:  recs,
	}
	_ = Aggregate(a)
	if len(recs) != 1 || recs[0] != "keep posting" {
		t.Errorf("input recommendations mutated: %v", recs)
	}
}

func TestFollowUpMatchIsSubstringBased(t *testing.T) {
	if !NeedsFollowUp("slightly neutral-ish") {
		t.Errorf("expected substring match on neutral")
	}
	if NeedsFollowUp("positive") {
		t.Errorf("positive must not trigger follow-up")
	}
	if !strings.Contains(FollowUpSuggestion, "analyze") {
		t.Errorf("follow-up should point at the keyword analysis flow")
	}
}
