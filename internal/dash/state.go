package dash

import "threadlens/internal/api"

// phase is the explicit per-flow state machine: Idle -> Loading ->
// {Rendered, Failed}, re-enterable on the next user action.
type phase int

const (
	phaseIdle phase = iota
	phaseLoading
	phaseRendered
	phaseFailed
)

// flow is one independently rendered region of the dashboard. Each
// flow owns its own content; nothing is shared between flows, so
// completions for one can never disturb another's state.
type flow struct {
	phase   phase
	content string
	errMsg  string
}

// start moves the flow to Loading. It refuses while a request is
// already in flight; that disablement is the only re-entrancy guard.
func (f *flow) start() bool {
	if f.phase == phaseLoading {
		return false
	}
	f.phase = phaseLoading
	f.content = ""
	f.errMsg = ""
	return true
}

func (f *flow) succeed(content string) {
	f.phase = phaseRendered
	f.content = content
	f.errMsg = ""
}

func (f *flow) fail(msg string) {
	f.phase = phaseFailed
	f.errMsg = msg
}

func (f *flow) busy() bool { return f.phase == phaseLoading }

// postFlow scopes a reply-analysis flow to one post.
type postFlow struct {
	flow
	post api.Post
}

// newPostFlows builds a fresh Idle flow per post; any previous flows
// for a replaced timeline are discarded wholesale.
func newPostFlows(posts []api.Post) map[string]*postFlow {
	flows := make(map[string]*postFlow, len(posts))
	for _, p := range posts {
		flows[p.ID] = &postFlow{post: p}
	}
	return flows
}
