package dash

import (
	"threadlens/internal/api"
	"threadlens/internal/sentiment"
)

type timelineLoadedMsg struct {
	posts []api.Post
}

type timelineErrMsg struct {
	err error
}

type postAnalyzedMsg struct {
	postID  string
	summary sentiment.Summary
}

type postFailedMsg struct {
	postID string
	err    error
}

type keywordDoneMsg struct {
	analysis  api.KeywordAnalysis
	fromCache bool
}

type keywordErrMsg struct {
	err error
}
