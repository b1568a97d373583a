// Package sentiment aggregates per-reply sentiment scores into a
// single verdict for one post. It is pure: no I/O, no shared state.
package sentiment

import (
	"strings"

	"threadlens/internal/api"
)

// Verdict strings used when the backend supplies none.
const (
	VerdictPositive = "positive"
	VerdictNeutral  = "neutral"
	VerdictNegative = "negative"
	VerdictNoData   = "no data"
)

// FollowUpSuggestion is appended to the recommendation list whenever
// the overall verdict is negative or neutral, pointing the user at the
// keyword recommendation flow.
const FollowUpSuggestion = "Reception looks weak. Run a keyword analysis (threadlens analyze <keyword>) for content ideas to improve it."

// Summary is the aggregate over one post's scored replies. It is
// recomputed in full on every analyze action and never merged with a
// previous result.
type Summary struct {
	PerReply        []api.ScoredReply
	CumulativeScore float64
	OverallVerdict  string
	Recommendations []string
}

// Aggregate computes the cumulative score and overall verdict for one
// post's analysis payload. Replies without a numeric score contribute
// exactly 0: missing data counts as neutral rather than being dropped
// from the set. An empty reply list yields score 0 and a "no data"
// verdict, never an error.
func Aggregate(a api.PostAnalysis) Summary {
	var sum float64
	for _, r := range a.PerReply {
		if r.Score != nil {
			sum += *r.Score
		}
	}

	verdict := strings.TrimSpace(a.OverallSentiment)
	if verdict == "" {
		if len(a.PerReply) == 0 {
			verdict = VerdictNoData
		} else {
			verdict = classify(sum)
		}
	}

	recs := make([]string, 0, len(a.Recommendations)+1)
	recs = append(recs, a.Recommendations...)
	if NeedsFollowUp(verdict) {
		recs = append(recs, FollowUpSuggestion)
	}

	return Summary{
		PerReply:        a.PerReply,
		CumulativeScore: sum,
		OverallVerdict:  verdict,
		Recommendations: recs,
	}
}

// classify maps a cumulative score to a verdict: >0 positive,
// <0 negative, ==0 neutral.
func classify(score float64) string {
	switch {
	case score > 0:
		return VerdictPositive
	case score < 0:
		return VerdictNegative
	default:
		return VerdictNeutral
	}
}

// NeedsFollowUp reports whether a verdict warrants the keyword
// recommendation follow-up. Matching is case-insensitive and
// substring-based so backend phrasings like "Mostly Negative" qualify.
func NeedsFollowUp(verdict string) bool {
	v := strings.ToLower(verdict)
	return strings.Contains(v, "negative") || strings.Contains(v, "neutral")
}
