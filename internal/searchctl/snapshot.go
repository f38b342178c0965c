package searchctl

import "github.com/dsjohal14/quitoemprende/internal/scope/catalog"

// Phase is the controller state as seen by the UI
type Phase int

const (
	// PhaseIdle has no query text and nothing on screen
	PhaseIdle Phase = iota
	// PhaseSuggesting shows the dropdown
	PhaseSuggesting
	// PhaseClosed has query text but no dropdown and no results
	PhaseClosed
	// PhaseResults shows a search result, a search error or a running search
	PhaseResults
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSuggesting:
		return "suggesting"
	case PhaseClosed:
		return "closed"
	case PhaseResults:
		return "results"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable copy of the controller state
type Snapshot struct {
	// Revision increases with every transition
	Revision uint64
	Phase    Phase
	Query    string

	Open        bool
	Suggestions catalog.SuggestionSet
	// Flat is Suggestions in dropdown order
	Flat []catalog.Suggestion
	// Active indexes Flat, -1 when nothing is highlighted
	Active         int
	SuggestLoading bool
	SuggestError   error

	Searching   bool
	Results     *catalog.SearchResult
	SearchError error
}

// ActiveSuggestion returns the highlighted suggestion, if any
func (s Snapshot) ActiveSuggestion() (catalog.Suggestion, bool) {
	if s.Active < 0 || s.Active >= len(s.Flat) {
		return catalog.Suggestion{}, false
	}
	return s.Flat[s.Active], true
}

// Renderer draws controller snapshots
type Renderer interface {
	Render(Snapshot)
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(Snapshot)

// Render implements Renderer
func (f RendererFunc) Render(s Snapshot) {
	f(s)
}

type nopRenderer struct{}

func (nopRenderer) Render(Snapshot) {}
