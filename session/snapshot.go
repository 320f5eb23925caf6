package session

import "parsr/backend"

func (s State) IsLoading() bool { return s == StateLoading }
func (s State) IsSuccess() bool { return s == StateSuccess }
func (s State) IsFailed() bool  { return s == StateFailed }

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// SourceTabView is the render-ready state of one open source tab.
type SourceTabView struct {
	Number  int
	Title   string
	Link    string
	Loading bool
	Failed  bool
	Summary *backend.SourceSummary
}

// Snapshot is a point-in-time copy of the controller state handed to the
// template layer, so rendering never races with a state change.
type Snapshot struct {
	Query     string
	Page      int
	State     State
	Error     string
	Response  *backend.SearchResponse
	ActiveTab string
	Tabs      []SourceTabView
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Query:     c.query,
		Page:      c.page,
		State:     c.state,
		Error:     c.errMsg,
		Response:  c.response,
		ActiveTab: c.activeTab,
	}

	for _, n := range c.openOrder {
		view := SourceTabView{
			Number:  n,
			Loading: c.loading[n],
			Failed:  c.failed[n],
			Summary: c.summaries[n],
		}
		if source, ok := c.findSourceLocked(n); ok {
			view.Title = source.Title
			view.Link = source.Link
		}
		snap.Tabs = append(snap.Tabs, view)
	}

	return snap
}
