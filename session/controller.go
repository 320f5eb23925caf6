// Package session holds the per-browser-session state of the results page:
// the current query and page, the open source tabs, and the summaries fetched
// for them. One Controller is single-writer per session; the mutex only
// guards against overlapping UI actions from the same browser.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"parsr/backend"
	"parsr/pkg/lru"
)

const OverviewTab = "overview"

var ErrEmptyQuery = errors.New("query must not be empty")

type State int

const (
	StateIdle State = iota
	StateLoading
	StateSuccess
	StateFailed
)

type Searcher interface {
	Search(ctx context.Context, req backend.SearchRequest) (*backend.SearchResponse, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, req backend.SummarizeRequest) (*backend.SourceSummary, error)
}

type Controller struct {
	mu         sync.Mutex
	searcher   Searcher
	summarizer Summarizer
	cache      *lru.Cache[*backend.SearchResponse]
	logger     *zap.Logger
	perPage    int

	// generation increments on every navigation; a fetch started under an
	// older generation is discarded instead of overwriting newer state.
	generation uint64

	query    string
	page     int
	state    State
	errMsg   string
	response *backend.SearchResponse

	activeTab string
	openOrder []int
	summaries map[int]*backend.SourceSummary
	failed    map[int]bool
	loading   map[int]bool
}

func NewController(searcher Searcher, summarizer Summarizer, cacheCapacity, perPage int, logger *zap.Logger) *Controller {
	if perPage <= 0 {
		perPage = 10
	}
	return &Controller{
		searcher:   searcher,
		summarizer: summarizer,
		cache:      lru.New[*backend.SearchResponse](cacheCapacity),
		logger:     logger,
		perPage:    perPage,
		activeTab:  OverviewTab,
		summaries:  make(map[int]*backend.SourceSummary),
		failed:     make(map[int]bool),
		loading:    make(map[int]bool),
	}
}

// SourceTab names the tab for a source number.
func SourceTab(n int) string {
	return fmt.Sprintf("source-%d", n)
}

// Navigate loads results for a query. A repeat visit to the query already on
// screen keeps the open tabs; a new query resets tabs and pagination and
// supersedes any fetch still in flight. A query with a cached response never
// touches the network.
func (c *Controller) Navigate(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return ErrEmptyQuery
	}

	c.mu.Lock()
	if query == c.query && c.state == StateSuccess {
		c.mu.Unlock()
		return nil
	}

	c.generation++
	gen := c.generation
	c.query = query
	c.page = 1
	c.resetTabsLocked()

	if cached, ok := c.cache.Get(query); ok {
		c.state = StateSuccess
		c.errMsg = ""
		c.response = cached
		if cached.CurrentPage > 0 {
			c.page = cached.CurrentPage
		}
		c.mu.Unlock()
		return nil
	}

	c.state = StateLoading
	c.response = nil
	c.mu.Unlock()

	resp, err := c.searcher.Search(ctx, backend.SearchRequest{
		Query:   query,
		Page:    1,
		PerPage: c.perPage,
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != gen {
		c.logger.Debug("discarding superseded search response", zap.String("query", query))
		return nil
	}

	if err != nil {
		c.state = StateFailed
		c.errMsg = err.Error()
		return err
	}

	c.state = StateSuccess
	c.errMsg = ""
	c.response = resp
	c.cache.Add(query, resp)
	return nil
}

// SetPage fetches a different page of the current query. The query itself is
// untouched.
func (c *Controller) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}

	c.mu.Lock()
	if c.query == "" {
		c.mu.Unlock()
		return ErrEmptyQuery
	}
	gen := c.generation
	query := c.query
	c.state = StateLoading
	c.mu.Unlock()

	resp, err := c.searcher.Search(ctx, backend.SearchRequest{
		Query:   query,
		Page:    page,
		PerPage: c.perPage,
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != gen {
		return nil
	}

	if err != nil {
		c.state = StateFailed
		c.errMsg = err.Error()
		return err
	}

	c.state = StateSuccess
	c.errMsg = ""
	c.page = page
	c.response = resp
	c.cache.Add(query, resp)
	return nil
}

// OpenSource opens the tab for a source. An already-open tab is only
// activated; the summary for a source is fetched at most once, and a failed
// fetch is terminal for the session.
func (c *Controller) OpenSource(ctx context.Context, n int) error {
	c.mu.Lock()

	if c.state != StateSuccess || c.response == nil {
		c.mu.Unlock()
		return fmt.Errorf("no results loaded")
	}

	if c.isOpenLocked(n) {
		c.activeTab = SourceTab(n)
		c.mu.Unlock()
		return nil
	}

	c.openOrder = append(c.openOrder, n)
	c.activeTab = SourceTab(n)

	if _, done := c.summaries[n]; done || c.failed[n] || c.loading[n] {
		c.mu.Unlock()
		return nil
	}

	source, ok := c.findSourceLocked(n)
	if !ok {
		c.failed[n] = true
		c.summaries[n] = nil
		c.mu.Unlock()
		return fmt.Errorf("unknown source number %d", n)
	}

	gen := c.generation
	query := c.query
	c.loading[n] = true
	c.mu.Unlock()

	summary, err := c.summarizer.Summarize(ctx, backend.SummarizeRequest{
		SourceURL:     source.Link,
		OriginalQuery: query,
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != gen {
		return nil
	}

	delete(c.loading, n)
	if err != nil {
		c.logger.Warn("summary fetch failed",
			zap.Int("source", n),
			zap.Error(err))
		c.failed[n] = true
		c.summaries[n] = nil
		return err
	}

	c.summaries[n] = summary
	return nil
}

// CloseSource removes a tab from the open set. The fetched summary is kept so
// reopening the tab does not refetch. Closing the active tab falls back to
// the overview.
func (c *Controller) CloseSource(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, open := range c.openOrder {
		if open == n {
			c.openOrder = append(c.openOrder[:i], c.openOrder[i+1:]...)
			break
		}
	}
	if c.activeTab == SourceTab(n) {
		c.activeTab = OverviewTab
	}
}

// Activate switches the visible tab. Unknown tabs are ignored.
func (c *Controller) Activate(tab string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if tab == OverviewTab {
		c.activeTab = OverviewTab
		return
	}
	for _, n := range c.openOrder {
		if tab == SourceTab(n) {
			c.activeTab = tab
			return
		}
	}
}

func (c *Controller) resetTabsLocked() {
	c.activeTab = OverviewTab
	c.openOrder = nil
	c.summaries = make(map[int]*backend.SourceSummary)
	c.failed = make(map[int]bool)
	c.loading = make(map[int]bool)
}

func (c *Controller) isOpenLocked(n int) bool {
	for _, open := range c.openOrder {
		if open == n {
			return true
		}
	}
	return false
}

func (c *Controller) findSourceLocked(n int) (backend.SearchResult, bool) {
	if c.response == nil {
		return backend.SearchResult{}, false
	}
	for _, s := range c.response.Sources {
		if s.SourceNumber == n {
			return s, true
		}
	}
	for _, s := range c.response.SearchResults {
		if s.SourceNumber == n {
			return s, true
		}
	}
	return backend.SearchResult{}, false
}
