package view_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/travelrec/internal/destination"
	"github.com/neexbeast/travelrec/internal/view"
)

// ---- fakes ----

type recordingDisplay struct {
	mu       sync.Mutex
	cards    []view.Card
	statuses []string
}

func (d *recordingDisplay) ShowCard(c view.Card) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cards = append(d.cards, c)
}

func (d *recordingDisplay) ShowStatus(line string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.statuses = append(d.statuses, line)
}

func (d *recordingDisplay) lastCard() view.Card {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.cards) == 0 {
		return view.Card{}
	}
	return d.cards[len(d.cards)-1]
}

func (d *recordingDisplay) statusCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.statuses)
}

func (d *recordingDisplay) lastStatus() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.statuses) == 0 {
		return ""
	}
	return d.statuses[len(d.statuses)-1]
}

type recordingGrid struct {
	cards   []view.Card
	message string
}

func (g *recordingGrid) ReplaceCards(cards []view.Card) { g.cards = cards; g.message = "" }
func (g *recordingGrid) ShowMessage(msg string)         { g.cards = nil; g.message = msg }

type loaderFunc func(ctx context.Context) ([]destination.Record, error)

func (f loaderFunc) Load(ctx context.Context) ([]destination.Record, error) { return f(ctx) }

func staticLoader(records []destination.Record) loaderFunc {
	return func(_ context.Context) ([]destination.Record, error) { return records, nil }
}

func failingLoader() loaderFunc {
	return func(_ context.Context) ([]destination.Record, error) {
		return []destination.Record{}, errors.Join(destination.ErrDataUnavailable, errors.New("404"))
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedNow() time.Time {
	return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
}

func records() []destination.Record {
	return destination.Normalize(destination.Document{
		Countries: []destination.Country{
			{Name: "Japan", Cities: []destination.Place{{Name: "Tokyo, Japan", ImageURL: "tokyo.jpg", Description: "Neon"}}},
			{Name: "Canada", Cities: []destination.Place{{Name: "Toronto, Canada", Description: "CN Tower"}}},
		},
		Temples: []destination.Place{{Name: "Angkor Wat, Cambodia", Description: "Temple"}},
	})
}

func newController(t *testing.T, d view.Display, opts ...view.Option) *view.Controller {
	t.Helper()
	opts = append([]view.Option{view.WithClockOptions(view.WithTick(10*time.Millisecond), view.WithNow(fixedNow))}, opts...)
	c := view.NewController(d, discardLogger(), opts...)
	t.Cleanup(c.Close)
	return c
}

// ---- cards ----

func TestTitle(t *testing.T) {
	assert.Equal(t, "Kyoto, Japan", view.Title(destination.Record{Name: "x", City: "Kyoto", Country: "Japan"}))
	assert.Equal(t, "Angkor Wat, Cambodia", view.Title(destination.Record{Name: "Angkor Wat, Cambodia", City: "Angkor Wat"}))
	assert.Equal(t, "Solo", view.Title(destination.Record{City: "Solo"}))
	assert.Equal(t, "Japan", view.Title(destination.Record{Country: "Japan"}))
	assert.Equal(t, "", view.Title(destination.Record{}))
}

func TestCardFor_Temple(t *testing.T) {
	recs := destination.Normalize(destination.Document{
		Temples: []destination.Place{{Name: "Angkor Wat, Cambodia", Description: "Temple"}},
	})
	require.Len(t, recs, 1)

	c := view.CardFor(recs[0])
	assert.Equal(t, "Angkor Wat, Cambodia", c.Title)
	assert.Equal(t, "Temple", c.Description)
	assert.Equal(t, "", c.ImageURL)
	assert.Equal(t, "visit.html?type=temple&id=1", c.LinkURL)
}

func TestCardFor_EmptyLink(t *testing.T) {
	assert.Equal(t, "#", view.CardFor(destination.Record{Name: "x"}).LinkURL)
}

func TestNoResultsCard(t *testing.T) {
	c := view.NoResultsCard("atlantis")
	assert.Equal(t, "No results", c.Title)
	assert.Equal(t, `No destinations found for "atlantis".`, c.Description)
	assert.Empty(t, c.ImageURL)
}

func TestNoResultsCard_KeepsQueryVerbatim(t *testing.T) {
	c := view.NoResultsCard(`a"b\c`)
	assert.Equal(t, `No destinations found for "a"b\c".`, c.Description)
}

// ---- clock ----

func TestStatusLine(t *testing.T) {
	line, err := view.StatusLine(fixedNow(), "Asia/Tokyo")
	require.NoError(t, err)
	assert.Equal(t, "Current Local Time (Asia/Tokyo): 21:00:00", line)
}

func TestStatusLine_InvalidZoneFallsBack(t *testing.T) {
	line, err := view.StatusLine(fixedNow(), "Mars/Olympus_Mons")
	require.Error(t, err)
	assert.Equal(t, "Current Local Time: "+fixedNow().Local().Format("15:04:05"), line)
}

func TestClock_TicksAndStops(t *testing.T) {
	d := &recordingDisplay{}
	c := view.NewClock(d.ShowStatus, discardLogger(), view.WithTick(5*time.Millisecond), view.WithNow(fixedNow))

	c.Start("UTC")
	require.Eventually(t, func() bool { return d.statusCount() >= 3 }, time.Second, time.Millisecond)

	zone, running := c.Zone()
	assert.True(t, running)
	assert.Equal(t, "UTC", zone)

	c.Stop()
	n := d.statusCount()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, n, d.statusCount(), "no writes after Stop")

	_, running = c.Zone()
	assert.False(t, running)
}

func TestClock_StartReplacesRunningClock(t *testing.T) {
	d := &recordingDisplay{}
	c := view.NewClock(d.ShowStatus, discardLogger(), view.WithTick(5*time.Millisecond), view.WithNow(fixedNow))
	defer c.Stop()

	c.Start("Asia/Tokyo")
	c.Start("Australia/Sydney")
	from := d.statusCount() - 1

	zone, running := c.Zone()
	require.True(t, running)
	assert.Equal(t, "Australia/Sydney", zone)

	time.Sleep(30 * time.Millisecond)
	assert.Contains(t, d.lastStatus(), "Australia/Sydney")

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, s := range d.statuses[from:] {
		assert.NotContains(t, s, "Asia/Tokyo", "old clock kept writing")
	}
}

func TestClock_StopWhenIdle(t *testing.T) {
	c := view.NewClock(func(string) {}, discardLogger())
	c.Stop()
	c.Stop()
}

// ---- controller ----

func TestController_InitShowsFirstRecord(t *testing.T) {
	d := &recordingDisplay{}
	c := newController(t, d)

	require.NoError(t, c.Init(context.Background(), staticLoader(records())))

	active, ok := c.Active()
	require.True(t, ok)
	assert.Equal(t, 1, active.ID)
	assert.Equal(t, "Tokyo, Japan", d.lastCard().Title)
	assert.Equal(t, "Current Local Time (Asia/Tokyo): 21:00:00", d.lastStatus())
}

func TestController_InitWithHint(t *testing.T) {
	d := &recordingDisplay{}
	c := newController(t, d, view.WithDefaultHint("Toronto"))

	require.NoError(t, c.Init(context.Background(), staticLoader(records())))

	active, ok := c.Active()
	require.True(t, ok)
	assert.Equal(t, "Toronto", active.City)
	assert.Contains(t, d.lastStatus(), "America/Toronto")
}

func TestController_InitFailureShowsUnavailable(t *testing.T) {
	d := &recordingDisplay{}
	c := newController(t, d)

	err := c.Init(context.Background(), failingLoader())
	require.ErrorIs(t, err, destination.ErrDataUnavailable)

	assert.Equal(t, view.UnavailableCard(), d.lastCard())
	assert.Equal(t, view.StatusPlaceholder, d.lastStatus())
	_, ok := c.Active()
	assert.False(t, ok)

	g := &recordingGrid{}
	c.RenderGrid(g)
	assert.Equal(t, view.UnavailableMessage, g.message)

	_, ok = c.Search("tokyo")
	assert.False(t, ok)
	assert.Equal(t, "Data unavailable", d.lastCard().Title)
}

func TestController_SearchSwitchesClock(t *testing.T) {
	d := &recordingDisplay{}
	c := newController(t, d)
	require.NoError(t, c.Init(context.Background(), staticLoader(records())))

	r, ok := c.Search("cambodia")
	require.True(t, ok)
	assert.Equal(t, destination.KindTemple, r.Kind)
	assert.Equal(t, "cambodia", c.SearchText())
	assert.Equal(t, "Angkor Wat, Cambodia", d.lastCard().Title)

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, "Current Local Time (Asia/Phnom_Penh): 19:00:00", d.lastStatus())
}

func TestController_SearchNoMatchStopsClock(t *testing.T) {
	d := &recordingDisplay{}
	c := newController(t, d)
	require.NoError(t, c.Init(context.Background(), staticLoader(records())))

	_, ok := c.Search("atlantis")
	require.False(t, ok)

	assert.Equal(t, view.NoResultsCard("atlantis"), d.lastCard())
	assert.Equal(t, view.StatusPlaceholder, d.lastStatus())

	n := d.statusCount()
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, n, d.statusCount(), "time status must not update after a no-match")
	assert.Equal(t, view.StatusPlaceholder, d.lastStatus())

	_, active := c.Active()
	assert.False(t, active)
}

func TestController_EmptySearchResetsToFirst(t *testing.T) {
	d := &recordingDisplay{}
	c := newController(t, d)
	require.NoError(t, c.Init(context.Background(), staticLoader(records())))

	_, _ = c.Search("toronto")
	r, ok := c.Search("")
	require.True(t, ok)
	assert.Equal(t, 1, r.ID)
}

func TestController_EmptySearchUsesHint(t *testing.T) {
	d := &recordingDisplay{}
	c := newController(t, d, view.WithDefaultHint("toronto"))
	require.NoError(t, c.Init(context.Background(), staticLoader(records())))

	_, _ = c.Search("angkor")
	r, ok := c.Search("  ")
	require.True(t, ok)
	assert.Equal(t, "Toronto", r.City)

	active, ok := c.Active()
	require.True(t, ok)
	assert.Equal(t, r.ID, active.ID)
}

func TestController_ClearUsesHint(t *testing.T) {
	d := &recordingDisplay{}
	c := newController(t, d, view.WithDefaultHint("toronto"))
	require.NoError(t, c.Init(context.Background(), staticLoader(records())))

	_, _ = c.Search("angkor")
	c.Clear()

	active, ok := c.Active()
	require.True(t, ok)
	assert.Equal(t, "Toronto", active.City)
	assert.Equal(t, "", c.SearchText())
}

func TestController_Select(t *testing.T) {
	d := &recordingDisplay{}
	c := newController(t, d)
	require.NoError(t, c.Init(context.Background(), staticLoader(records())))

	assert.True(t, c.Select(2))
	active, _ := c.Active()
	assert.Equal(t, 2, active.ID)

	assert.False(t, c.Select(99))
}

func TestController_ShowZeroRecordIsNoop(t *testing.T) {
	d := &recordingDisplay{}
	c := newController(t, d)

	c.Show(destination.Record{})
	assert.Empty(t, d.cards)
	assert.Equal(t, 0, d.statusCount())
}

func TestController_RenderGrid(t *testing.T) {
	d := &recordingDisplay{}
	c := newController(t, d)
	require.NoError(t, c.Init(context.Background(), staticLoader(records())))

	g := &recordingGrid{}
	c.RenderGrid(g)
	require.Len(t, g.cards, 3)
	assert.Equal(t, "Tokyo, Japan", g.cards[0].Title)
	assert.Equal(t, "tokyo.jpg", g.cards[0].ImageURL)
	assert.Equal(t, "Angkor Wat, Cambodia", g.cards[2].Title)
}

func TestController_NavClosesAfterMobileSubmit(t *testing.T) {
	d := &recordingDisplay{}
	var seen []view.NavState
	c := newController(t, d, view.WithNavListener(func(s view.NavState) { seen = append(seen, s) }))
	require.NoError(t, c.Init(context.Background(), staticLoader(records())))

	c.Nav().Handle(view.TriggerToggle)
	require.True(t, c.Nav().State().Open)

	_, ok := c.SubmitFromNav("toronto")
	require.True(t, ok)
	assert.False(t, c.Nav().State().Open)

	c.Nav().Open()
	c.ClearFromNav()
	assert.False(t, c.Nav().State().Open)
	assert.Len(t, seen, 4)
}

// ---- nav ----

func closedState() view.NavState {
	return view.NavState{Open: false, AriaHidden: true, AriaExpanded: false, BackdropHidden: true, ScrollLocked: false}
}

func TestNav_StartsClosed(t *testing.T) {
	assert.Equal(t, closedState(), view.NewNav(nil).State())
}

func TestNav_OpenSetsAllFlags(t *testing.T) {
	n := view.NewNav(nil)
	n.Handle(view.TriggerToggle)

	s := n.State()
	assert.True(t, s.Open)
	assert.False(t, s.AriaHidden)
	assert.True(t, s.AriaExpanded)
	assert.False(t, s.BackdropHidden)
	assert.True(t, s.ScrollLocked)
}

func TestNav_EveryCloseTriggerRestoresClosedState(t *testing.T) {
	triggers := []view.Trigger{
		view.TriggerToggle,
		view.TriggerBackdrop,
		view.TriggerCloseControl,
		view.TriggerLink,
		view.TriggerEscape,
	}
	for _, tr := range triggers {
		t.Run(tr.String(), func(t *testing.T) {
			n := view.NewNav(nil)
			n.Open()
			n.Handle(tr)
			assert.Equal(t, closedState(), n.State())
		})
	}
}

func TestNav_HandleKey(t *testing.T) {
	n := view.NewNav(nil)
	n.Open()

	assert.False(t, n.HandleKey("enter"))
	assert.True(t, n.State().Open)

	assert.True(t, n.HandleKey("esc"))
	assert.Equal(t, closedState(), n.State())
}

func TestNav_NonToggleTriggersNeverOpen(t *testing.T) {
	n := view.NewNav(nil)
	n.Handle(view.TriggerBackdrop)
	n.Handle(view.TriggerEscape)
	assert.Equal(t, closedState(), n.State())
}

func TestNav_ConcurrentTogglesAlternate(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []bool
	)
	n := view.NewNav(func(s view.NavState) {
		mu.Lock()
		seen = append(seen, s.Open)
		mu.Unlock()
	})

	const toggles = 50
	var wg sync.WaitGroup
	for range toggles {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.Handle(view.TriggerToggle)
		}()
	}
	wg.Wait()

	// An even number of flips lands back on closed.
	assert.Equal(t, closedState(), n.State())

	opened := 0
	for _, open := range seen {
		if open {
			opened++
		}
	}
	assert.Len(t, seen, toggles)
	assert.Equal(t, toggles/2, opened)
}

func TestNav_Follow(t *testing.T) {
	n := view.NewNav(nil)
	n.Open()

	link, ok := n.Follow(1)
	require.True(t, ok)
	assert.Equal(t, "/destinations", link.Href)
	assert.Equal(t, closedState(), n.State())

	n.Open()
	_, ok = n.Follow(len(view.NavLinks))
	assert.False(t, ok)
	assert.True(t, n.State().Open, "out-of-range link leaves the panel alone")
}
