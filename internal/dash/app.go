// Package dash is the interactive dashboard: a timeline pane with
// per-post reply analysis and a keyword analysis pane, each flow
// rendering only into its own region.
package dash

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"threadlens/internal/api"
	"threadlens/internal/cache"
	"threadlens/internal/render"
	"threadlens/internal/sentiment"
)

// backend is the slice of the API client the dashboard drives.
type backend interface {
	FetchTimeline(ctx context.Context, q api.TimelineQuery) ([]api.Post, error)
	AnalyzePost(ctx context.Context, postID string) (api.PostAnalysisResult, error)
	Analyze(ctx context.Context, keyword string) (api.KeywordAnalysis, error)
}

type focusPane int

const (
	focusTimeline focusPane = iota
	focusKeyword
	focusLimit
)

// Opts holds all parameters for launching the dashboard.
type Opts struct {
	Backend  backend
	Store    *cache.Store
	Timeout  time.Duration
	Timeline api.TimelineQuery
}

type App struct {
	backend backend
	store   *cache.Store
	timeout time.Duration
	query   api.TimelineQuery

	width  int
	height int
	focus  focusPane
	cursor int

	posts    []api.Post
	timeline flow
	flows    map[string]*postFlow
	keyword  flow

	keywordInput textinput.Model
	limitInput   textinput.Model
	spinner      spinner.Model
}

func NewApp(opts Opts) *App {
	ki := textinput.New()
	ki.Placeholder = "keyword to analyze"
	ki.Prompt = "> "
	ki.CharLimit = 100

	li := textinput.New()
	li.Placeholder = fmt.Sprintf("%d", api.DefaultTimelineLimit)
	li.Prompt = "limit: "
	li.CharLimit = 4

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &App{
		backend:      opts.Backend,
		store:        opts.Store,
		timeout:      timeout,
		query:        opts.Timeline,
		flows:        map[string]*postFlow{},
		keywordInput: ki,
		limitInput:   li,
		spinner:      sp,
	}
}

func (a *App) Init() tea.Cmd {
	if a.timeline.start() {
		return tea.Batch(a.fetchTimelineCmd(), a.spinner.Tick)
	}
	return nil
}

// fetchTimelineCmd captures the current query into the closure so a
// later edit cannot race the in-flight request.
func (a *App) fetchTimelineCmd() tea.Cmd {
	be := a.backend
	q := a.query
	timeout := a.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		posts, err := be.FetchTimeline(ctx, q)
		if err != nil {
			return timelineErrMsg{err: err}
		}
		return timelineLoadedMsg{posts: posts}
	}
}

func (a *App) analyzePostCmd(postID string) tea.Cmd {
	be := a.backend
	timeout := a.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := be.AnalyzePost(ctx, postID)
		if err != nil {
			return postFailedMsg{postID: postID, err: err}
		}
		return postAnalyzedMsg{postID: postID, summary: sentiment.Aggregate(res.Analysis)}
	}
}

func (a *App) analyzeKeywordCmd(keyword string) tea.Cmd {
	be := a.backend
	store := a.store
	timeout := a.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if cached, ok, err := store.GetKeywordAnalysis(ctx, keyword); err == nil && ok {
			return keywordDoneMsg{analysis: cached, fromCache: true}
		}
		analysis, err := be.Analyze(ctx, keyword)
		if err != nil {
			return keywordErrMsg{err: err}
		}
		_ = store.SetKeywordAnalysis(ctx, keyword, analysis)
		return keywordDoneMsg{analysis: analysis}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case timelineLoadedMsg:
		a.posts = msg.posts
		a.flows = newPostFlows(msg.posts)
		a.cursor = 0
		if len(msg.posts) == 0 {
			a.timeline.succeed(render.NoPostsMessage)
		} else {
			a.timeline.succeed("")
		}
		return a, nil

	case timelineErrMsg:
		a.timeline.fail(api.UserMessage(msg.err))
		return a, nil

	case postAnalyzedMsg:
		f, ok := a.flows[msg.postID]
		if !ok {
			// Timeline was replaced while the request was in flight.
			return a, nil
		}
		content, err := render.PostAnalysis(msg.summary)
		if err != nil {
			f.fail(err.Error())
			return a, nil
		}
		f.succeed(content)
		return a, nil

	case postFailedMsg:
		if f, ok := a.flows[msg.postID]; ok {
			f.fail(api.UserMessage(msg.err))
		}
		return a, nil

	case keywordDoneMsg:
		content, err := render.KeywordAnalysis(msg.analysis)
		if err != nil {
			a.keyword.fail(err.Error())
			return a, nil
		}
		if msg.fromCache {
			content = dimStyle.Render("(cached)") + "\n" + content
		}
		a.keyword.succeed(content)
		return a, nil

	case keywordErrMsg:
		a.keyword.fail(api.UserMessage(msg.err))
		return a, nil

	case spinner.TickMsg:
		if a.anyBusy() {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "tab":
		return a.cycleFocus()
	}

	switch a.focus {
	case focusKeyword:
		return a.handleKeywordKey(msg)
	case focusLimit:
		return a.handleLimitKey(msg)
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "j", "down":
		if a.cursor < len(a.posts)-1 {
			a.cursor++
		}
		return a, nil
	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil
	case "r":
		if a.timeline.start() {
			return a, tea.Batch(a.fetchTimelineCmd(), a.spinner.Tick)
		}
		return a, nil
	case "a", "enter":
		return a.startPostAnalysis()
	}
	return a, nil
}

func (a *App) handleKeywordKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return a.returnToTimeline(), nil
	case "enter":
		return a.startKeywordAnalysis()
	}
	var cmd tea.Cmd
	a.keywordInput, cmd = a.keywordInput.Update(msg)
	return a, cmd
}

func (a *App) handleLimitKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return a.returnToTimeline(), nil
	case "enter":
		a.query.Limit = api.ParseLimit(a.limitInput.Value())
		if a.timeline.start() {
			return a, tea.Batch(a.fetchTimelineCmd(), a.spinner.Tick)
		}
		return a, nil
	}
	var cmd tea.Cmd
	a.limitInput, cmd = a.limitInput.Update(msg)
	return a, cmd
}

// startPostAnalysis kicks off the reply analysis for the selected
// post, unless that post's flow already has a request in flight.
func (a *App) startPostAnalysis() (tea.Model, tea.Cmd) {
	if len(a.posts) == 0 || a.cursor >= len(a.posts) {
		return a, nil
	}
	id := a.posts[a.cursor].ID
	f, ok := a.flows[id]
	if !ok || !f.start() {
		return a, nil
	}
	return a, tea.Batch(a.analyzePostCmd(id), a.spinner.Tick)
}

// startKeywordAnalysis validates the keyword before any request is
// issued; an empty keyword renders a prompt, not a network error.
func (a *App) startKeywordAnalysis() (tea.Model, tea.Cmd) {
	keyword := strings.TrimSpace(a.keywordInput.Value())
	if keyword == "" {
		a.keyword.fail("Enter a keyword to analyze.")
		return a, nil
	}
	if !a.keyword.start() {
		return a, nil
	}
	return a, tea.Batch(a.analyzeKeywordCmd(keyword), a.spinner.Tick)
}

func (a *App) cycleFocus() (tea.Model, tea.Cmd) {
	a.keywordInput.Blur()
	a.limitInput.Blur()
	switch a.focus {
	case focusTimeline:
		a.focus = focusKeyword
		a.keywordInput.Focus()
		return a, textinput.Blink
	case focusKeyword:
		a.focus = focusLimit
		a.limitInput.Focus()
		return a, textinput.Blink
	default:
		a.focus = focusTimeline
		return a, nil
	}
}

func (a *App) returnToTimeline() *App {
	a.keywordInput.Blur()
	a.limitInput.Blur()
	a.focus = focusTimeline
	return a
}

func (a *App) anyBusy() bool {
	if a.timeline.busy() || a.keyword.busy() {
		return true
	}
	for _, f := range a.flows {
		if f.busy() {
			return true
		}
	}
	return false
}

// timelineRegion is the timeline flow's own render target.
func (a *App) timelineRegion() string {
	switch a.timeline.phase {
	case phaseLoading:
		return a.spinner.View() + " Fetching timeline..."
	case phaseFailed:
		return errorStyle.Render(render.ErrorMessage(a.timeline.errMsg))
	}
	if len(a.posts) == 0 {
		return a.timeline.content
	}
	var b strings.Builder
	for i, p := range a.posts {
		line := postLine(p)
		if f := a.flows[p.ID]; f != nil {
			line += " " + statusGlyph(f)
		}
		if i == a.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func postLine(p api.Post) string {
	text := p.Text
	if text == "" {
		text = p.Permalink
	}
	if len(text) > 60 {
		text = text[:57] + "..."
	}
	return fmt.Sprintf("[%s] %s", p.ID, text)
}

func statusGlyph(f *postFlow) string {
	switch f.phase {
	case phaseLoading:
		return dimStyle.Render("(analyzing...)")
	case phaseRendered:
		return dimStyle.Render("(analyzed)")
	case phaseFailed:
		return errorStyle.Render("(failed)")
	}
	return ""
}

// postRegion is the selected post's own render target, holding the
// reply analysis lifecycle for that post only.
func (a *App) postRegion() string {
	if len(a.posts) == 0 || a.cursor >= len(a.posts) {
		return dimStyle.Render("No post selected.")
	}
	f := a.flows[a.posts[a.cursor].ID]
	if f == nil {
		return dimStyle.Render("No post selected.")
	}
	switch f.phase {
	case phaseIdle:
		return dimStyle.Render("Press a to analyze replies to this post.")
	case phaseLoading:
		return a.spinner.View() + " Analyzing replies..."
	case phaseFailed:
		return errorStyle.Render(render.ErrorMessage(f.errMsg))
	}
	return f.content
}

// keywordRegion is the keyword flow's own render target.
func (a *App) keywordRegion() string {
	switch a.keyword.phase {
	case phaseIdle:
		return dimStyle.Render("Enter a keyword and press enter.")
	case phaseLoading:
		return a.spinner.View() + " Analyzing keyword..."
	case phaseFailed:
		return errorStyle.Render(render.ErrorMessage(a.keyword.errMsg))
	}
	return a.keyword.content
}

func (a *App) View() string {
	if a.width == 0 {
		return headerStyle.Render("threadlens")
	}

	header := headerStyle.Render("threadlens dashboard")

	leftWidth := int(float64(a.width) * 0.4)
	rightWidth := a.width - leftWidth - 2
	contentHeight := a.height - 8
	if contentHeight < 3 {
		contentHeight = 3
	}

	left := a.timelineRegion()
	right := a.postRegion()

	leftPane := paneStyle.Width(leftWidth).Height(contentHeight).Render(left)
	if a.focus == focusTimeline {
		leftPane = paneActiveStyle.Width(leftWidth).Height(contentHeight).Render(left)
	}
	rightPane := paneStyle.Width(rightWidth).Height(contentHeight).Render(right)

	inputs := a.keywordInput.View() + "  " + a.limitInput.View()
	keywordPane := paneStyle.Width(a.width - 2).Render(inputs + "\n" + a.keywordRegion())
	if a.focus == focusKeyword || a.focus == focusLimit {
		keywordPane = paneActiveStyle.Width(a.width - 2).Render(inputs + "\n" + a.keywordRegion())
	}

	hints := dimStyle.Render("  tab focus  j/k move  a analyze post  r refresh  q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane),
		keywordPane,
		hints,
	)
}

// Run starts the dashboard.
func Run(opts Opts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
