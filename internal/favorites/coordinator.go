// Package favorites keeps the signed-in user's favorites and flips them optimistically,
// reconciling with the server when a toggle fails.
package favorites

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dsjohal14/quitoemprende/internal/remote"
	"github.com/dsjohal14/quitoemprende/internal/scope/catalog"
	"github.com/dsjohal14/quitoemprende/internal/session"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// ErrUnauthenticated is returned by Load when there is no usable session
var ErrUnauthenticated = errors.New("not signed in")

// Client is the remote API the coordinator needs
type Client interface {
	MyFavorites(ctx context.Context, token string) ([]catalog.Favorite, error)
	ToggleFavorite(ctx context.Context, token string, req catalog.ToggleRequest) (catalog.ToggleResponse, error)
}

// Reconcile selects how a failed toggle is repaired
type Reconcile string

const (
	// ReconcileRefetch reloads the whole list from the server
	ReconcileRefetch Reconcile = "refetch"
	// ReconcileRollback undoes the optimistic step
	ReconcileRollback Reconcile = "rollback"
)

// ParseReconcile maps a config value to a strategy
func ParseReconcile(s string) (Reconcile, error) {
	switch Reconcile(s) {
	case "", ReconcileRefetch:
		return ReconcileRefetch, nil
	case ReconcileRollback:
		return ReconcileRollback, nil
	default:
		return "", fmt.Errorf("unknown reconcile strategy %q", s)
	}
}

// Status tells how a toggle settled
type Status int

const (
	// StatusCommitted means the server verdict was applied
	StatusCommitted Status = iota
	// StatusReconciled means the request failed and the index was repaired
	StatusReconciled
	// StatusRedirected means a login is required; nothing was changed
	StatusRedirected
	// StatusSuperseded means a newer toggle for the same id owns the outcome
	StatusSuperseded
)

func (s Status) String() string {
	switch s {
	case StatusCommitted:
		return "committed"
	case StatusReconciled:
		return "reconciled"
	case StatusRedirected:
		return "redirected"
	case StatusSuperseded:
		return "superseded"
	default:
		return "unknown"
	}
}

// Outcome is the result of one Toggle
type Outcome struct {
	Status Status
	// Action is the server verdict, empty unless committed
	Action catalog.ToggleAction
	// Favorited is the id's state after the toggle settled
	Favorited bool
	Err       error
}

// Options configures a Coordinator
type Options struct {
	Client  Client
	Session session.Provider
	// OnUnauthenticated receives the login intent when a toggle needs a session
	OnUnauthenticated func(session.RedirectIntent)
	// OnChange runs after every index mutation
	OnChange  func()
	Reconcile Reconcile
	Logger    *zerolog.Logger
	Now       func() time.Time
}

// Coordinator owns the favorites index
type Coordinator struct {
	client    Client
	session   session.Provider
	onUnauth  func(session.RedirectIntent)
	onChange  func()
	reconcile Reconcile
	logger    zerolog.Logger
	now       func() time.Time

	group singleflight.Group

	mu      sync.Mutex
	idx     *index
	seq     map[string]uint64
	pending map[string]int
}

// New creates a coordinator with an empty index
func New(opts Options) *Coordinator {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	reconcile := opts.Reconcile
	if reconcile == "" {
		reconcile = ReconcileRefetch
	}
	provider := opts.Session
	if provider == nil {
		provider = session.Static{}
	}

	return &Coordinator{
		client:    opts.Client,
		session:   provider,
		onUnauth:  opts.OnUnauthenticated,
		onChange:  opts.OnChange,
		reconcile: reconcile,
		logger:    logger,
		now:       now,
		idx:       newIndex(),
		seq:       make(map[string]uint64),
		pending:   make(map[string]int),
	}
}

// Load replaces the index with the server's list. Concurrent loads share one request.
func (c *Coordinator) Load(ctx context.Context) error {
	sess := c.session.Current()
	if !sess.Authenticated(c.now()) {
		c.mu.Lock()
		c.idx.replace(nil)
		c.mu.Unlock()
		c.changed()
		return ErrUnauthenticated
	}

	_, err, _ := c.group.Do("load:"+sess.Token, func() (any, error) {
		favs, err := c.client.MyFavorites(ctx, sess.Token)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.idx.replace(favs)
		c.mu.Unlock()
		c.changed()
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to load favorites: %w", err)
	}
	return nil
}

// Toggle flips id optimistically, sends the request and settles the index
func (c *Coordinator) Toggle(ctx context.Context, id string, kind catalog.ItemKind, meta catalog.FavoriteMeta) Outcome {
	sess := c.session.Current()
	if !sess.Authenticated(c.now()) {
		c.redirect("favorites require a session")
		return Outcome{Status: StatusRedirected, Favorited: c.Has(id)}
	}

	c.mu.Lock()
	prev, wasFav := c.idx.get(id)
	if wasFav {
		c.idx.remove(id)
	} else {
		c.idx.put(catalog.Favorite{Item: id, ItemModel: kind, Meta: meta, Activo: true})
	}
	c.seq[id]++
	seq := c.seq[id]
	c.pending[id]++
	c.mu.Unlock()
	c.changed()

	log := c.logger.With().Str("item_id", id).Str("item_model", string(kind)).Logger()

	resp, err := c.client.ToggleFavorite(ctx, sess.Token, catalog.ToggleRequest{
		ItemID:    id,
		ItemModel: kind,
		Meta:      meta,
	})

	c.mu.Lock()
	c.pending[id]--
	if c.pending[id] <= 0 {
		delete(c.pending, id)
	}
	if seq != c.seq[id] {
		fav := c.idx.has(id)
		c.mu.Unlock()
		log.Debug().Uint64("seq", seq).Msg("toggle superseded")
		return Outcome{Status: StatusSuperseded, Favorited: fav}
	}

	if err == nil {
		// The server verdict wins over the optimistic guess
		if resp.Action == catalog.ActionAdded {
			rec := catalog.Favorite{Item: id, ItemModel: kind, Meta: meta, Activo: true}
			if resp.Favorito != nil {
				rec = *resp.Favorito
				if rec.Item == "" {
					rec.Item = id
				}
				if rec.ItemModel == "" {
					rec.ItemModel = kind
				}
				rec.Activo = true
			}
			c.idx.put(rec)
		} else {
			c.idx.remove(id)
		}
		c.mu.Unlock()
		c.changed()
		return Outcome{Status: StatusCommitted, Action: resp.Action, Favorited: resp.Action == catalog.ActionAdded}
	}

	if remote.IsUnauthorized(err) {
		c.rollbackLocked(id, prev, wasFav)
		c.mu.Unlock()
		c.changed()
		log.Warn().Err(err).Msg("toggle rejected, session expired")
		c.redirect("session expired")
		return Outcome{Status: StatusRedirected, Favorited: wasFav, Err: err}
	}

	if c.reconcile == ReconcileRollback {
		c.rollbackLocked(id, prev, wasFav)
		c.mu.Unlock()
		c.changed()
		log.Warn().Err(err).Msg("toggle failed, rolled back")
		return Outcome{Status: StatusReconciled, Favorited: wasFav, Err: err}
	}
	c.mu.Unlock()

	log.Warn().Err(err).Msg("toggle failed, refetching")
	if lerr := c.Load(ctx); lerr != nil {
		log.Warn().Err(lerr).Msg("refetch failed, rolling back")
		c.mu.Lock()
		if seq == c.seq[id] {
			c.rollbackLocked(id, prev, wasFav)
		}
		c.mu.Unlock()
		c.changed()
	}
	return Outcome{Status: StatusReconciled, Favorited: c.Has(id), Err: err}
}

// rollbackLocked restores id to its state before the optimistic step
func (c *Coordinator) rollbackLocked(id string, prev catalog.Favorite, wasFav bool) {
	if wasFav {
		c.idx.put(prev)
		return
	}
	c.idx.remove(id)
}

func (c *Coordinator) redirect(reason string) {
	if c.onUnauth != nil {
		c.onUnauth(session.LoginRedirect(reason))
	}
}

func (c *Coordinator) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

// Has reports whether id is favorited
func (c *Coordinator) Has(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.idx.has(id)
}

// Get returns the favorite record for id
func (c *Coordinator) Get(id string) (catalog.Favorite, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.idx.get(id)
}

// Len returns the number of favorites
func (c *Coordinator) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.idx.len()
}

// IDs lists favorited ids in lexical order
func (c *Coordinator) IDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.idx.sortedIDs()
}

// Records lists favorite records ordered by item id
func (c *Coordinator) Records() []catalog.Favorite {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := c.idx.sortedIDs()
	out := make([]catalog.Favorite, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.idx.records[id])
	}
	return out
}

// Pending reports whether a toggle for id is still in flight
func (c *Coordinator) Pending(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending[id] > 0
}
