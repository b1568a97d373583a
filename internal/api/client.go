package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal HTTP client for the analytics backend API.
// The backend authenticates with a session cookie set by Login, so the
// client carries a cookie jar for the lifetime of the process.
type Client struct {
	baseURL string
	http    *http.Client
	jar     *cookiejar.Jar
}

// New creates a client for the backend at baseURL, e.g.
// "http://127.0.0.1:5000" (no trailing slash).
func New(baseURL string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout, Jar: jar},
		jar:     jar,
	}, nil
}

// SessionCookies returns the cookies currently held for the backend,
// so a CLI invocation can persist the login session.
func (c *Client) SessionCookies() []*http.Cookie {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil
	}
	return c.jar.Cookies(u)
}

// RestoreSession loads previously persisted cookies into the jar.
func (c *Client) RestoreSession(cookies []*http.Cookie) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return err
	}
	c.jar.SetCookies(u, cookies)
	return nil
}

// do issues one JSON request and decodes the response into out (when
// non-nil). Every failure path resolves to either *TransportError or
// *APIError so callers can render a message deterministically.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: "encode request", Err: err}
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &TransportError{Op: "build request", Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: "read response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		msg := ""
		if json.Unmarshal(raw, &payload) == nil {
			msg = payload.Error
			if msg == "" {
				msg = payload.Message
			}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &TransportError{Op: "decode response", Err: err}
	}
	return nil
}

// Login authenticates and stores the session cookie in the jar.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	return c.do(ctx, http.MethodPost, "/api/login", body, nil)
}

// Register creates an account and returns the backend's message.
func (c *Client) Register(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}
	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/register", body, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// Logout ends the current session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/logout", nil, nil)
}

// UpdateToken registers a platform access token for the current user.
func (c *Client) UpdateToken(ctx context.Context, token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", &APIError{StatusCode: http.StatusBadRequest, Message: "Token is required."}
	}
	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/update_token", map[string]string{"token": token}, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// AccountInfo reports token status and, when a token is saved, the
// platform profile behind it.
func (c *Client) AccountInfo(ctx context.Context) (AccountInfo, error) {
	var out AccountInfo
	if err := c.do(ctx, http.MethodGet, "/api/account_info", nil, &out); err != nil {
		return AccountInfo{}, err
	}
	return out, nil
}

// Analyze runs the keyword trend analysis. The trimmed keyword must be
// non-empty; an empty keyword is rejected before any request is sent.
func (c *Client) Analyze(ctx context.Context, keyword string) (KeywordAnalysis, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return KeywordAnalysis{}, ErrEmptyKeyword
	}
	var out KeywordAnalysis
	if err := c.do(ctx, http.MethodPost, "/api/analyze", map[string]string{"keyword": keyword}, &out); err != nil {
		return KeywordAnalysis{}, err
	}
	if out.Keyword == "" {
		out.Keyword = keyword
	}
	return out, nil
}

// FetchTimeline retrieves a batch of the user's posts for the query
// window. A non-positive limit falls back to the default.
func (c *Client) FetchTimeline(ctx context.Context, q TimelineQuery) ([]Post, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultTimelineLimit
	}
	if q.Until == "" {
		q.Until = "now"
	}
	body := struct {
		Limit int     `json:"limit"`
		Since *string `json:"since"`
		Until string  `json:"until"`
	}{Limit: q.Limit, Until: q.Until}
	if q.Since != "" {
		body.Since = &q.Since
	}
	var out struct {
		Data []Post `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/fetch_threads", body, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// AnalyzePost fetches the replies to one post and the sentiment
// analysis over them.
func (c *Client) AnalyzePost(ctx context.Context, postID string) (PostAnalysisResult, error) {
	if strings.TrimSpace(postID) == "" {
		return PostAnalysisResult{}, fmt.Errorf("post id must not be empty")
	}
	var out PostAnalysisResult
	if err := c.do(ctx, http.MethodPost, "/api/analyze_post", map[string]string{"post_id": postID}, &out); err != nil {
		return PostAnalysisResult{}, err
	}
	return out, nil
}
