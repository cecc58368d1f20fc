package view

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/neexbeast/travelrec/internal/destination"
)

// Option customises a Controller.
type Option func(*Controller)

// WithDefaultHint makes Clear and the initial selection prefer the first
// destination whose city contains hint.
func WithDefaultHint(hint string) Option {
	return func(c *Controller) { c.hint = strings.TrimSpace(hint) }
}

// WithClockOptions configures the controller's clock.
func WithClockOptions(opts ...ClockOption) Option {
	return func(c *Controller) { c.clockOpts = append(c.clockOpts, opts...) }
}

// WithNavListener is called after every nav panel transition.
func WithNavListener(fn func(NavState)) Option {
	return func(c *Controller) { c.navListener = fn }
}

// Controller owns the state of one view session: the loaded records, the
// active record, the last query, the nav panel and exactly one clock.
// All methods are safe for concurrent use; they are serialised internally.
type Controller struct {
	id      string
	display Display
	log     *slog.Logger
	hint    string

	clockOpts   []ClockOption
	navListener func(NavState)

	clock *Clock
	nav   *Nav

	mu         sync.Mutex
	records    []destination.Record
	active     *destination.Record
	searchText string
	loadErr    error
}

// NewController builds a controller that renders into display.
func NewController(display Display, log *slog.Logger, opts ...Option) *Controller {
	c := &Controller{
		id:      uuid.NewString(),
		display: display,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = log.With("session", c.id)
	c.clock = NewClock(display.ShowStatus, c.log, c.clockOpts...)
	c.nav = NewNav(c.navListener)
	return c
}

// ID is the session identifier used in logs.
func (c *Controller) ID() string { return c.id }

// Nav returns the mobile navigation panel state.
func (c *Controller) Nav() *Nav { return c.nav }

// Init loads the records and shows the default destination. This is the
// fetch boundary: on failure the unavailable card is shown, the error is
// logged and returned, and the session stays empty until a new Init.
func (c *Controller) Init(ctx context.Context, loader destination.RecordLoader) error {
	records, err := loader.Load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.active = nil
	if err != nil {
		c.records = nil
		c.loadErr = err
		c.clock.Stop()
		c.log.Error("failed to load destinations", "err", err)
		c.display.ShowCard(UnavailableCard())
		c.display.ShowStatus(StatusPlaceholder)
		return err
	}

	c.records = records
	c.loadErr = nil
	if r, ok := destination.Default(records, c.hint); ok {
		c.showLocked(r)
	}
	return nil
}

// Show makes r the active record: renders its card and restarts the clock
// in its timezone. A zero Record is ignored.
func (c *Controller) Show(r destination.Record) {
	if r == (destination.Record{}) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showLocked(r)
}

// Select shows the record with the given id.
func (c *Controller) Select(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := destination.ByID(c.records, id)
	if !ok {
		return false
	}
	c.showLocked(r)
	return true
}

// Search shows the first record matching query. An empty query resets to
// the default destination, as Clear does. When nothing matches, the
// no-results card is shown and the clock is stopped.
func (c *Controller) Search(query string) (destination.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.searchText = query

	if c.loadErr != nil {
		c.display.ShowCard(UnavailableCard())
		return destination.Record{}, false
	}

	empty := strings.TrimSpace(query) == ""

	var (
		r  destination.Record
		ok bool
	)
	if empty {
		r, ok = destination.Default(c.records, c.hint)
	} else {
		r, ok = destination.Find(c.records, query)
	}
	if ok {
		c.showLocked(r)
		return r, true
	}

	if empty {
		// Nothing loaded yet: leave the initial markup alone.
		return destination.Record{}, false
	}

	c.clock.Stop()
	c.active = nil
	c.display.ShowCard(NoResultsCard(query))
	c.display.ShowStatus(StatusPlaceholder)
	c.log.Info("search matched nothing", "query", query)
	return destination.Record{}, false
}

// Clear empties the query and re-selects the default destination.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.searchText = ""
	if r, ok := destination.Default(c.records, c.hint); ok {
		c.showLocked(r)
	}
}

// SubmitFromNav runs a search from the mobile panel and closes it.
func (c *Controller) SubmitFromNav(query string) (destination.Record, bool) {
	r, ok := c.Search(query)
	c.nav.Close()
	return r, ok
}

// ClearFromNav clears from the mobile panel and closes it.
func (c *Controller) ClearFromNav() {
	c.Clear()
	c.nav.Close()
}

// RenderGrid rebuilds g with one card per record, in list order.
func (c *Controller) RenderGrid(g Grid) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loadErr != nil {
		g.ShowMessage(UnavailableMessage)
		return
	}

	cards := make([]Card, 0, len(c.records))
	for _, r := range c.records {
		cards = append(cards, GridCardFor(r))
	}
	g.ReplaceCards(cards)
}

// Active returns the record currently shown, if any.
func (c *Controller) Active() (destination.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil {
		return destination.Record{}, false
	}
	return *c.active, true
}

// SearchText returns the last submitted query.
func (c *Controller) SearchText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.searchText
}

// Close stops the clock. The controller must not be used afterwards.
func (c *Controller) Close() {
	c.clock.Stop()
}

func (c *Controller) showLocked(r destination.Record) {
	c.active = &r
	c.display.ShowCard(CardFor(r))
	c.clock.Start(r.Timezone)
}
