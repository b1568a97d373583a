// Package render maps backend payloads to text fragments. Rendering is
// a pure data-to-text step; orchestrators decide when and where the
// fragments are shown.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/charmbracelet/glamour"

	"threadlens/internal/api"
	"threadlens/internal/sentiment"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var compiled = template.Must(template.ParseFS(templatesFS, "templates/*.tmpl"))

const (
	maxNewsItems      = 5
	maxRelatedTopics  = 5
	maxRelatedQueries = 7
)

// NoPostsMessage is the dedicated empty-timeline render, distinct from
// any error render.
const NoPostsMessage = "No posts found for this window."

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := compiled.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FormatScore renders a reply score to two decimals, or a dash when
// the reply carries no score.
func FormatScore(score *float64) string {
	if score == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *score)
}

// ErrorMessage renders an error into a flow's region.
func ErrorMessage(msg string) string {
	if strings.TrimSpace(msg) == "" {
		msg = "An unexpected error occurred."
	}
	return "Error: " + msg
}

type queryRow struct {
	Query  string
	Rising bool
}

type keywordData struct {
	Keyword        string
	Trend          string
	Reason         string
	Recommendation string
	NewsItems      []api.NewsItem
	Topics         []api.RelatedTopic
	Queries        []queryRow
}

// KeywordAnalysis renders the composed multi-section keyword result:
// trend verdict with reason, the backend's markdown recommendation,
// then top news, topics, and queries. Empty sections render an
// explicit placeholder line rather than nothing.
func KeywordAnalysis(a api.KeywordAnalysis) (string, error) {
	d := keywordData{
		Keyword:        a.Keyword,
		Trend:          a.TrendData.Trend,
		Reason:         a.TrendData.Reason,
		Recommendation: Markdown(a.AIRecommendation),
		NewsItems:      truncNews(a.NewsItems, maxNewsItems),
		Topics:         truncTopics(a.RelatedTopics, maxRelatedTopics),
	}
	for _, q := range a.RelatedQueries {
		if len(d.Queries) == maxRelatedQueries {
			break
		}
		d.Queries = append(d.Queries, queryRow(q))
	}
	return execute("keyword.tmpl", d)
}

func truncNews(items []api.NewsItem, n int) []api.NewsItem {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func truncTopics(items []api.RelatedTopic, n int) []api.RelatedTopic {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// Markdown renders the backend's markdown recommendation for the
// terminal. Glamour failures fall back to the raw text so the section
// is never lost to a rendering error.
func Markdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "auto")
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// Timeline renders a fetched batch of posts. An empty batch renders
// the dedicated no-posts message, not an empty container.
func Timeline(posts []api.Post) (string, error) {
	if len(posts) == 0 {
		return NoPostsMessage, nil
	}
	return execute("timeline.tmpl", posts)
}

type replyRow struct {
	Username string
	Text     string
	Label    string
	Score    string
}

type postData struct {
	Replies         []replyRow
	Cumulative      string
	Verdict         string
	Recommendations []string
}

// PostAnalysis renders the per-reply list and the aggregate block for
// one post.
func PostAnalysis(s sentiment.Summary) (string, error) {
	d := postData{
		Cumulative:      fmt.Sprintf("%.2f", s.CumulativeScore),
		Verdict:         s.OverallVerdict,
		Recommendations: s.Recommendations,
	}
	for _, r := range s.PerReply {
		username := r.Username
		if username == "" {
			username = "(unknown)"
		}
		d.Replies = append(d.Replies, replyRow{
			Username: username,
			Text:     r.Text,
			Label:    r.Label,
			Score:    FormatScore(r.Score),
		})
	}
	return execute("post.tmpl", d)
}

// AccountInfo renders token status and, when available, the profile
// behind the saved token.
func AccountInfo(info api.AccountInfo) (string, error) {
	return execute("account.tmpl", info)
}
