package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestAnalyzeSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/analyze" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body["keyword"] != "shoes" {
			t.Errorf("keyword = %q, want shoes", body["keyword"])
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"keyword": "shoes",
			"trend_data": {"trend": "rising", "reason": "simple_delta: from 10 to 40"},
			"ai_recommendation": "## Ideas",
			"related_queries": [{"query": "running shoes", "rising": true}],
			"related_topics": [{"title": "Sneakers", "type": "Topic"}],
			"news_items": [{"title": "Shoe news", "link": "https://example.com"}]
		}`))
	})

	a, err := c.Analyze(context.Background(), "shoes")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if a.TrendData.Trend != "rising" {
		t.Errorf("trend = %q, want rising", a.TrendData.Trend)
	}
	if len(a.RelatedQueries) != 1 || a.RelatedQueries[0].Query != "running shoes" || !a.RelatedQueries[0].Rising {
		t.Errorf("related queries = %+v, want running shoes marked rising", a.RelatedQueries)
	}
}

func TestAnalyzeEmptyKeywordSendsNoRequest(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	_, err := c.Analyze(context.Background(), "   ")
	if !errors.Is(err, ErrEmptyKeyword) {
		t.Fatalf("err = %v, want ErrEmptyKeyword", err)
	}
	if called {
		t.Errorf("a request was issued for an empty keyword")
	}
}

func TestApplicationErrorIsAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "Keyword is required"}`))
	})
	_, err := c.Analyze(context.Background(), "shoes")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T(%v), want *APIError", err, err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "Keyword is required" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestApplicationErrorWithoutMessageGetsFallback(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{}`))
	})
	_, err := c.Analyze(context.Background(), "shoes")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T(%v), want *APIError", err, err)
	}
	if apiErr.Error() == "" {
		t.Errorf("expected a non-empty fallback message")
	}
}

func TestNonJSONSuccessBodyIsTransportError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	})
	_, err := c.Analyze(context.Background(), "shoes")
	var trErr *TransportError
	if !errors.As(err, &trErr) {
		t.Fatalf("err = %T(%v), want *TransportError", err, err)
	}
}

func TestNetworkFailureIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()
	c, err := New(url, time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = c.Analyze(context.Background(), "shoes")
	var trErr *TransportError
	if !errors.As(err, &trErr) {
		t.Fatalf("err = %T(%v), want *TransportError", err, err)
	}
}

func TestFetchTimelineRequestBody(t *testing.T) {
	var got struct {
		Limit int     `json:"limit"`
		Since *string `json:"since"`
		Until string  `json:"until"`
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"data": []}`))
	})

	posts, err := c.FetchTimeline(context.Background(), TimelineQuery{})
	if err != nil {
		t.Fatalf("FetchTimeline: %v", err)
	}
	if len(posts) != 0 {
		t.Errorf("posts = %v, want empty", posts)
	}
	if got.Limit != DefaultTimelineLimit {
		t.Errorf("limit = %d, want %d", got.Limit, DefaultTimelineLimit)
	}
	if got.Since != nil {
		t.Errorf("since = %v, want null", *got.Since)
	}
	if got.Until != "now" {
		t.Errorf("until = %q, want now", got.Until)
	}
}

func TestLoginStoresSessionCookie(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
		_, _ = w.Write([]byte(`{"message": "Logged in successfully."}`))
	})
	if err := c.Login(context.Background(), "u", "p"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	cookies := c.SessionCookies()
	if len(cookies) != 1 || cookies[0].Name != "session" || cookies[0].Value != "abc" {
		t.Errorf("cookies = %+v, want the session cookie", cookies)
	}
}

func TestAnalyzePostDecodesOptionalScores(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"analysis": {
				"per_reply": [
					{"username": "a", "text": "bad", "label": "negative", "score": -0.8},
					{"username": "b", "text": "ok"}
				],
				"overall_sentiment": "negative"
			},
			"replies": [{"id": "r1"}, {"id": "r2"}]
		}`))
	})
	res, err := c.AnalyzePost(context.Background(), "p1")
	if err != nil {
		t.Fatalf("AnalyzePost: %v", err)
	}
	pr := res.Analysis.PerReply
	if len(pr) != 2 {
		t.Fatalf("per_reply count = %d, want 2", len(pr))
	}
	if pr[0].Score == nil || *pr[0].Score != -0.8 {
		t.Errorf("first score = %v, want -0.8", pr[0].Score)
	}
	if pr[1].Score != nil {
		t.Errorf("second score = %v, want nil", *pr[1].Score)
	}
}

func TestRelatedTopicNestedShapeRejected(t *testing.T) {
	var topic RelatedTopic
	err := json.Unmarshal([]byte(`{"topic": {"title": "Sneakers", "type": "Topic"}}`), &topic)
	if err == nil {
		t.Fatalf("expected an error for the nested related-topic shape")
	}
}

func TestParseLimit(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"5", 5},
		{" 10 ", 10},
		{"", DefaultTimelineLimit},
		{"abc", DefaultTimelineLimit},
		{"0", DefaultTimelineLimit},
		{"-2", DefaultTimelineLimit},
	}
	for _, tc := range cases {
		if got := ParseLimit(tc.in); got != tc.want {
			t.Errorf("ParseLimit(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
