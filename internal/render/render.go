// Package render draws search controller snapshots and favorite lists on a terminal.
package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/dsjohal14/quitoemprende/internal/scope/catalog"
	"github.com/dsjohal14/quitoemprende/internal/searchctl"
)

type styles struct {
	title   lipgloss.Style
	active  lipgloss.Style
	kind    lipgloss.Style
	heading lipgloss.Style
	muted   lipgloss.Style
	err     lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	accent := lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}
	return styles{
		title:   r.NewStyle().Bold(true),
		active:  r.NewStyle().Bold(true).Foreground(accent),
		kind:    r.NewStyle().Faint(true),
		heading: r.NewStyle().Bold(true).Underline(true),
		muted:   r.NewStyle().Faint(true).Italic(true),
		err:     r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// Terminal writes snapshots to w. It implements searchctl.Renderer.
type Terminal struct {
	mu     sync.Mutex
	w      io.Writer
	styles styles
}

// New creates a terminal renderer; colors follow what w supports
func New(w io.Writer) *Terminal {
	return &Terminal{w: w, styles: newStyles(lipgloss.NewRenderer(w))}
}

// Render implements searchctl.Renderer
func (t *Terminal) Render(s searchctl.Snapshot) {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", t.styles.title.Render("search: "+s.Query), t.styles.kind.Render("["+s.Phase.String()+"]"))

	if s.Open {
		t.dropdown(&b, s)
	}
	if s.SuggestError != nil {
		b.WriteString(t.styles.err.Render("! suggestions unavailable: "+s.SuggestError.Error()) + "\n")
	}

	switch {
	case s.Searching:
		b.WriteString(t.styles.muted.Render("searching...") + "\n")
	case s.SearchError != nil:
		b.WriteString(t.styles.err.Render("! search failed: "+s.SearchError.Error()) + "\n")
	case s.Results != nil:
		t.results(&b, *s.Results)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = io.WriteString(t.w, b.String())
}

func (t *Terminal) dropdown(b *strings.Builder, s searchctl.Snapshot) {
	if len(s.Flat) == 0 {
		if s.SuggestLoading {
			b.WriteString("  " + t.styles.muted.Render("loading suggestions...") + "\n")
		}
		return
	}

	for i, sug := range s.Flat {
		kind := t.styles.kind.Render("(" + string(sug.Kind) + ")")
		if i == s.Active {
			fmt.Fprintf(b, "> %s %s\n", t.styles.active.Render(sug.Label), kind)
			continue
		}
		fmt.Fprintf(b, "  %s %s\n", sug.Label, kind)
	}
}

func (t *Terminal) results(b *strings.Builder, r catalog.SearchResult) {
	if r.Empty() {
		b.WriteString(t.styles.muted.Render(fmt.Sprintf("no results for %q", r.Query)) + "\n")
		return
	}

	if len(r.Results.Productos) > 0 {
		t.heading(b, "Productos", r.Counts.Productos)
		for _, p := range r.Results.Productos {
			line := fmt.Sprintf("  - %s  $%s", p.Nombre, p.Precio.StringFixed(2))
			if name := p.VentureName(); name != "" {
				line += "  " + t.styles.kind.Render(name)
			}
			b.WriteString(line + "\n")
		}
	}

	if len(r.Results.Emprendimientos) > 0 {
		t.heading(b, "Emprendimientos", r.Counts.Emprendimientos)
		for _, v := range r.Results.Emprendimientos {
			line := "  - " + v.NombreComercial
			if v.Ubicacion.Ciudad != "" {
				line += "  " + t.styles.kind.Render(v.Ubicacion.Ciudad)
			}
			b.WriteString(line + "\n")
		}
	}

	if len(r.Results.Emprendedores) > 0 {
		t.heading(b, "Emprendedores", r.Counts.Emprendedores)
		for _, o := range r.Results.Emprendedores {
			line := "  - " + o.FullName()
			if o.Email != "" {
				line += "  " + t.styles.kind.Render("<"+o.Email+">")
			}
			b.WriteString(line + "\n")
		}
	}
}

func (t *Terminal) heading(b *strings.Builder, name string, count int) {
	fmt.Fprintf(b, "%s\n", t.styles.heading.Render(fmt.Sprintf("%s (%d)", name, count)))
}

// Favorites writes the favorite list, one record per line
func (t *Terminal) Favorites(favs []catalog.Favorite) {
	var b strings.Builder

	if len(favs) == 0 {
		b.WriteString(t.styles.muted.Render("no favorites yet") + "\n")
	}
	for _, f := range favs {
		name := f.Meta.Nombre
		if name == "" {
			name = f.Item
		}
		fmt.Fprintf(&b, "* %s %s\n", name, t.styles.kind.Render("("+string(f.ItemModel)+" "+f.Item+")"))
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = io.WriteString(t.w, b.String())
}
