// Package searchctl drives the search box: debounced suggestions, keyboard navigation
// over the dropdown, and full searches that run locally for short queries.
package searchctl

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dsjohal14/quitoemprende/internal/libs/textnorm"
	"github.com/dsjohal14/quitoemprende/internal/remote"
	"github.com/dsjohal14/quitoemprende/internal/scope/catalog"
	"github.com/dsjohal14/quitoemprende/internal/scope/search"
	"github.com/rs/zerolog"
)

const (
	// DefaultDebounce is the quiet period before a suggest request goes out
	DefaultDebounce = 350 * time.Millisecond
	// DefaultLimit is the page size of remote searches
	DefaultLimit = 20
)

// Client is the remote API the controller needs
type Client interface {
	Suggest(ctx context.Context, q string) (catalog.SuggestionSet, error)
	Search(ctx context.Context, p remote.SearchParams) (catalog.SearchResult, error)
}

// Options configures a Controller
type Options struct {
	Client Client
	// Catalog backs local searches for short queries
	Catalog  catalog.Snapshot
	Renderer Renderer
	// Debounce defaults to DefaultDebounce when zero
	Debounce time.Duration
	Limit    int
	// LocalFallback shows local matches while remote suggestions are pending
	LocalFallback bool
	Logger        *zerolog.Logger
}

type timer interface {
	Stop() bool
}

func realAfterFunc(d time.Duration, f func()) timer {
	return time.AfterFunc(d, f)
}

// Controller is the search box state machine. All methods are safe for concurrent use.
type Controller struct {
	client        Client
	renderer      Renderer
	debounce      time.Duration
	limit         int
	localFallback bool
	logger        zerolog.Logger
	afterFunc     func(time.Duration, func()) timer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	closed   bool
	revision uint64
	local    *search.Index

	query       string
	open        bool
	suggestions catalog.SuggestionSet
	flat        []catalog.Suggestion
	active      int
	suggestErr  error

	// suggestToken identifies the latest suggest cycle; stale completions are dropped
	suggestToken   uint64
	timer          timer
	cancelSuggest  context.CancelFunc
	suggestLoading bool

	// searchSeq identifies the latest search; stale results are dropped
	searchSeq uint64
	searching bool
	results   *catalog.SearchResult
	searchErr error
	// edited is set by input typed after the last search; the results stay
	// visible but no longer hold the phase at Results
	edited bool

	renderMu     sync.Mutex
	lastRendered uint64
}

// New creates a controller in the idle phase
func New(opts Options) *Controller {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = nopRenderer{}
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Controller{
		client:        opts.Client,
		renderer:      renderer,
		debounce:      debounce,
		limit:         limit,
		localFallback: opts.LocalFallback,
		logger:        logger,
		afterFunc:     realAfterFunc,
		ctx:           ctx,
		cancel:        cancel,
		local:         search.NewIndex(opts.Catalog),
		active:        -1,
	}
}

// SetCatalog replaces the snapshot used by local searches
func (c *Controller) SetCatalog(snap catalog.Snapshot) {
	local := search.NewIndex(snap)
	c.mu.Lock()
	c.local = local
	c.mu.Unlock()
}

// Snapshot returns the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Input records new query text and schedules a suggest when it is long enough
func (c *Controller) Input(text string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	c.query = text
	c.edited = true
	c.resetSuggestLocked()
	c.active = -1
	c.suggestErr = nil

	if !textnorm.IsRemote(text) {
		c.open = false
		c.setSuggestionsLocked(catalog.SuggestionSet{})
	} else {
		c.open = true
		if c.localFallback {
			m := c.local.Match(text)
			c.setSuggestionsLocked(m.AsSuggestions())
		}
		c.scheduleLocked()
	}

	snap := c.transitionLocked()
	c.mu.Unlock()
	c.render(snap)
}

// ArrowDown moves the highlight one entry down, stopping at the last one
func (c *Controller) ArrowDown() {
	c.move(1)
}

// ArrowUp moves the highlight one entry up, stopping at the first one
func (c *Controller) ArrowUp() {
	c.move(-1)
}

func (c *Controller) move(delta int) {
	c.mu.Lock()
	n := len(c.flat)
	if c.closed || !c.open || n == 0 {
		c.mu.Unlock()
		return
	}

	next := c.active + delta
	if next < 0 {
		next = 0
	}
	if next > n-1 {
		next = n - 1
	}
	if next == c.active {
		c.mu.Unlock()
		return
	}
	c.active = next

	snap := c.transitionLocked()
	c.mu.Unlock()
	c.render(snap)
}

// Enter selects the highlighted suggestion, or submits the query when none is highlighted
func (c *Controller) Enter() {
	c.mu.Lock()
	if c.open && c.active >= 0 && c.active < len(c.flat) {
		s := c.flat[c.active]
		c.mu.Unlock()
		c.selectSuggestion(s)
		return
	}
	c.mu.Unlock()
	c.Submit()
}

// Escape closes the dropdown; text and results stay
func (c *Controller) Escape() {
	c.Dismiss()
}

// Dismiss closes the dropdown, e.g. on a click outside it
func (c *Controller) Dismiss() {
	c.mu.Lock()
	if c.closed || !c.open {
		c.mu.Unlock()
		return
	}
	c.open = false
	c.active = -1

	snap := c.transitionLocked()
	c.mu.Unlock()
	c.render(snap)
}

// Select runs a search for the i-th entry of the flattened dropdown
func (c *Controller) Select(i int) {
	c.mu.Lock()
	if i < 0 || i >= len(c.flat) {
		c.mu.Unlock()
		return
	}
	s := c.flat[i]
	c.mu.Unlock()
	c.selectSuggestion(s)
}

func (c *Controller) selectSuggestion(s catalog.Suggestion) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.query = s.Query
	c.submitLocked()
	snap := c.transitionLocked()
	c.mu.Unlock()
	c.render(snap)
}

// Submit runs a full search for the current text. Whitespace-only text is ignored.
func (c *Controller) Submit() {
	c.mu.Lock()
	if c.closed || strings.TrimSpace(c.query) == "" {
		c.mu.Unlock()
		return
	}
	c.submitLocked()
	snap := c.transitionLocked()
	c.mu.Unlock()
	c.render(snap)
}

func (c *Controller) submitLocked() {
	text := strings.TrimSpace(c.query)
	if text == "" {
		return
	}

	c.resetSuggestLocked()
	c.open = false
	c.active = -1
	c.results = nil
	c.searchErr = nil
	c.edited = false
	c.searchSeq++
	seq := c.searchSeq

	if !textnorm.IsRemote(text) {
		c.searching = false
		res := c.local.Match(text).AsResult(text)
		c.results = &res
		return
	}

	c.searching = true
	params := remote.SearchParams{Query: text, Page: 1, Limit: c.limit}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		res, err := c.client.Search(c.ctx, params)
		c.applySearch(seq, res, err)
	}()
}

func (c *Controller) applySearch(seq uint64, res catalog.SearchResult, err error) {
	c.mu.Lock()
	if seq != c.searchSeq {
		c.mu.Unlock()
		c.logger.Debug().Str("query", res.Query).Uint64("seq", seq).Msg("stale search result dropped")
		return
	}

	c.searching = false
	switch {
	case err != nil && remote.IsCanceled(err):
		c.logger.Debug().Err(err).Msg("search canceled")
	case err != nil:
		c.logger.Warn().Err(err).Msg("search failed")
		c.results = nil
		c.searchErr = err
	default:
		c.results = &res
		c.searchErr = nil
	}

	snap := c.transitionLocked()
	c.mu.Unlock()
	c.render(snap)
}

// scheduleLocked arms the debounce timer for the current token.
// The WaitGroup slot is released by Stop or by the fired callback.
func (c *Controller) scheduleLocked() {
	tok := c.suggestToken
	c.wg.Add(1)
	c.timer = c.afterFunc(c.debounce, func() {
		c.fireSuggest(tok)
	})
}

// resetSuggestLocked stops the pending timer, aborts the in-flight suggest and
// invalidates any completion still on its way
func (c *Controller) resetSuggestLocked() {
	if c.timer != nil {
		if c.timer.Stop() {
			c.wg.Done()
		}
		c.timer = nil
	}
	if c.cancelSuggest != nil {
		c.cancelSuggest()
		c.cancelSuggest = nil
	}
	c.suggestLoading = false
	c.suggestToken++
}

func (c *Controller) fireSuggest(tok uint64) {
	c.mu.Lock()
	if c.closed || tok != c.suggestToken {
		c.mu.Unlock()
		c.wg.Done()
		return
	}

	c.timer = nil
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancelSuggest = cancel
	c.suggestLoading = true
	q := strings.TrimSpace(c.query)
	snap := c.transitionLocked()
	c.mu.Unlock()
	c.render(snap)

	go func() {
		defer c.wg.Done()
		defer cancel()
		set, err := c.client.Suggest(ctx, q)
		c.applySuggest(tok, q, set, err)
	}()
}

func (c *Controller) applySuggest(tok uint64, q string, set catalog.SuggestionSet, err error) {
	c.mu.Lock()
	if tok != c.suggestToken {
		c.mu.Unlock()
		c.logger.Debug().Str("query", q).Msg("stale suggestions dropped")
		return
	}

	c.cancelSuggest = nil
	c.suggestLoading = false

	if err != nil {
		if remote.IsCanceled(err) {
			c.mu.Unlock()
			c.logger.Debug().Str("query", q).Msg("suggest canceled")
			return
		}
		c.logger.Warn().Err(err).Str("query", q).Msg("suggest failed")
		c.setSuggestionsLocked(catalog.SuggestionSet{})
		c.suggestErr = err
	} else {
		c.setSuggestionsLocked(set)
		c.suggestErr = nil
	}
	c.active = -1

	snap := c.transitionLocked()
	c.mu.Unlock()
	c.render(snap)
}

func (c *Controller) setSuggestionsLocked(set catalog.SuggestionSet) {
	c.suggestions = set
	c.flat = set.Flatten()
}

// Wait blocks until pending debounce timers and in-flight requests settle
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels all pending work; later inputs are ignored
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.resetSuggestLocked()
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

func (c *Controller) phaseLocked() Phase {
	switch {
	case c.open:
		return PhaseSuggesting
	case !c.edited && (c.searching || c.results != nil || c.searchErr != nil):
		return PhaseResults
	case strings.TrimSpace(c.query) == "":
		return PhaseIdle
	default:
		return PhaseClosed
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Revision:       c.revision,
		Phase:          c.phaseLocked(),
		Query:          c.query,
		Open:           c.open,
		Suggestions:    c.suggestions,
		Flat:           c.flat,
		Active:         c.active,
		SuggestLoading: c.suggestLoading,
		SuggestError:   c.suggestErr,
		Searching:      c.searching,
		Results:        c.results,
		SearchError:    c.searchErr,
	}
}

func (c *Controller) transitionLocked() Snapshot {
	c.revision++
	return c.snapshotLocked()
}

// render draws snap unless a newer revision was already drawn
func (c *Controller) render(snap Snapshot) {
	c.renderMu.Lock()
	defer c.renderMu.Unlock()
	if snap.Revision <= c.lastRendered {
		return
	}
	c.lastRendered = snap.Revision
	c.renderer.Render(snap)
}
