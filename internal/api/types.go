package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Post is a single timeline entry returned by the backend.
type Post struct {
	ID        string `json:"id"`
	Text      string `json:"text,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Permalink string `json:"permalink,omitempty"`
}

// Reply is a raw reply to a post as returned by the backend.
type Reply struct {
	ID        string `json:"id,omitempty"`
	Username  string `json:"username,omitempty"`
	Text      string `json:"text,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// ScoredReply is one reply record from the backend's sentiment analysis.
// Score is nil when the model produced no numeric score for the reply.
type ScoredReply struct {
	Username string   `json:"username,omitempty"`
	Text     string   `json:"text,omitempty"`
	Label    string   `json:"label,omitempty"`
	Score    *float64 `json:"score,omitempty"`
}

// PostAnalysis is the sentiment payload for one post's replies.
type PostAnalysis struct {
	PerReply            []ScoredReply `json:"per_reply"`
	CumulativeSentiment *float64      `json:"cumulative_sentiment,omitempty"`
	OverallSentiment    string        `json:"overall_sentiment,omitempty"`
	Recommendations     []string      `json:"recommendations,omitempty"`
}

// PostAnalysisResult is the full response of AnalyzePost.
type PostAnalysisResult struct {
	Analysis PostAnalysis `json:"analysis"`
	Replies  []Reply      `json:"replies"`
}

// TrendData describes the backend's trend verdict for a keyword.
type TrendData struct {
	Trend  string `json:"trend"`
	Reason string `json:"reason"`
}

// RelatedTopic is one topic tied to the analyzed keyword.
//
// The backend contract sends the flat {title, type} shape. A nested
// {topic: {...}} entry was observed from older backend builds and is
// rejected with an explicit error instead of being silently dropped.
type RelatedTopic struct {
	Title string `json:"title"`
	Type  string `json:"type"`
}

func (t *RelatedTopic) UnmarshalJSON(data []byte) error {
	var probe struct {
		Title string          `json:"title"`
		Type  string          `json:"type"`
		Topic json.RawMessage `json:"topic"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if len(probe.Topic) > 0 {
		return fmt.Errorf("related topic: unsupported nested shape, expected flat {title, type}")
	}
	t.Title = probe.Title
	t.Type = probe.Type
	return nil
}

// RelatedQuery is one related search query, optionally flagged as rising.
type RelatedQuery struct {
	Query  string `json:"query"`
	Rising bool   `json:"rising"`
}

// NewsItem is one news result for the analyzed keyword.
type NewsItem struct {
	Title  string `json:"title"`
	Link   string `json:"link"`
	Source string `json:"source,omitempty"`
	Date   string `json:"date,omitempty"`
}

// KeywordAnalysis is the full response of Analyze.
type KeywordAnalysis struct {
	Keyword          string         `json:"keyword"`
	TrendData        TrendData      `json:"trend_data"`
	AIRecommendation string         `json:"ai_recommendation"`
	RelatedTopics    []RelatedTopic `json:"related_topics"`
	RelatedQueries   []RelatedQuery `json:"related_queries"`
	NewsItems        []NewsItem     `json:"news_items"`
}

// Profile carries the platform profile attached to a saved token.
type Profile struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	ProfilePictureURL string `json:"threads_profile_picture_url,omitempty"`
	Biography         string `json:"threads_biography,omitempty"`
}

// AccountInfo is the response of AccountInfo.
type AccountInfo struct {
	HasToken bool     `json:"has_token"`
	Profile  *Profile `json:"profile,omitempty"`
	Message  string   `json:"message,omitempty"`
}

// DefaultTimelineLimit is used when no usable limit is supplied.
const DefaultTimelineLimit = 3

// TimelineQuery bounds a timeline fetch. An empty Since means no lower
// bound; Until accepts the literal "now" for no upper bound.
type TimelineQuery struct {
	Limit int
	Since string
	Until string
}

// ParseLimit coerces free-form limit input to a positive integer,
// falling back to DefaultTimelineLimit for blank, non-numeric, or
// non-positive input.
func ParseLimit(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return DefaultTimelineLimit
	}
	return n
}
