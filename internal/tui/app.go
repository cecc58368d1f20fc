// Package tui is the terminal front-end: a Bubble Tea program driving one
// view session.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/neexbeast/travelrec/internal/destination"
	"github.com/neexbeast/travelrec/internal/view"
)

// Page is the screen the program is showing.
type Page int

const (
	PageFeatured Page = iota
	PageDestinations
	PageAbout
)

func pageFor(href string) Page {
	switch href {
	case "/destinations":
		return PageDestinations
	case "/#about":
		return PageAbout
	default:
		return PageFeatured
	}
}

// Model is the root Bubble Tea model.
type Model struct {
	ctrl   *view.Controller
	loader destination.RecordLoader
	keys   KeyMap
	input  textinput.Model

	page   Page
	card   view.Card
	status string
	nav    view.NavState
	grid   GridMsg
	err    error
	width  int
}

// New creates a model driving ctrl. The controller's Display must deliver
// its writes to the running program as CardMsg and StatusMsg.
func New(ctrl *view.Controller, loader destination.RecordLoader) Model {
	in := textinput.New()
	in.Placeholder = "Enter a destination or keyword"
	in.CharLimit = 80
	in.Width = 40
	in.Focus()

	return Model{
		ctrl:   ctrl,
		loader: loader,
		keys:   DefaultKeyMap(),
		input:  in,
		status: view.StatusPlaceholder,
		nav:    ctrl.Nav().State(),
	}
}

// Init starts the initial load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, loadCmd(m.ctrl, m.loader))
}

// Controller calls can block on the clock, which writes back into the
// program, so they always run as commands and never inside Update.

func loadCmd(ctrl *view.Controller, loader destination.RecordLoader) tea.Cmd {
	return func() tea.Msg {
		return LoadedMsg{Err: ctrl.Init(context.Background(), loader)}
	}
}

func searchCmd(ctrl *view.Controller, query string, fromNav bool) tea.Cmd {
	return func() tea.Msg {
		var found bool
		if fromNav {
			_, found = ctrl.SubmitFromNav(query)
		} else {
			_, found = ctrl.Search(query)
		}
		return SearchDoneMsg{Found: found}
	}
}

func clearCmd(ctrl *view.Controller, fromNav bool) tea.Cmd {
	return func() tea.Msg {
		if fromNav {
			ctrl.ClearFromNav()
		} else {
			ctrl.Clear()
		}
		return SearchDoneMsg{Found: true}
	}
}

func gridCmd(ctrl *view.Controller) tea.Cmd {
	return func() tea.Msg {
		g := &gridCollector{}
		ctrl.RenderGrid(g)
		return g.msg
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case CardMsg:
		m.card = msg.Card
		return m, nil

	case StatusMsg:
		m.status = msg.Line
		return m, nil

	case GridMsg:
		m.grid = msg
		return m, nil

	case LoadedMsg:
		m.err = msg.Err
		return m, nil

	case SearchDoneMsg:
		m.nav = m.ctrl.Nav().State()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	nav := m.ctrl.Nav()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Menu):
		nav.Handle(view.TriggerToggle)
		m.nav = nav.State()
		return m, nil

	case key.Matches(msg, m.keys.Close):
		nav.HandleKey(msg.String())
		m.nav = nav.State()
		return m, nil

	case m.nav.Open && key.Matches(msg, m.keys.NavLink):
		i, _ := strconv.Atoi(msg.String())
		link, ok := nav.Follow(i - 1)
		m.nav = nav.State()
		if !ok {
			return m, nil
		}
		m.page = pageFor(link.Href)
		if m.page == PageDestinations {
			return m, gridCmd(m.ctrl)
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.page = PageFeatured
		return m, searchCmd(m.ctrl, m.input.Value(), m.nav.Open)

	case key.Matches(msg, m.keys.Clear):
		m.page = PageFeatured
		m.input.SetValue("")
		return m, clearCmd(m.ctrl, m.nav.Open)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Page returns the screen being shown.
func (m Model) Page() Page { return m.page }

// Card returns the featured card currently shown.
func (m Model) Card() view.Card { return m.card }

// Status returns the time status line currently shown.
func (m Model) Status() string { return m.status }

// NavOpen reports whether the navigation panel is open.
func (m Model) NavOpen() bool { return m.nav.Open }

// View renders the model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render("TravelBloom"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.nav.Open {
		b.WriteString(m.navView())
		b.WriteString("\n")
	}

	switch m.page {
	case PageDestinations:
		b.WriteString(m.gridView())
	case PageAbout:
		b.WriteString(CardStyle.Render(CardTextStyle.Render("Search cities, temples and beaches and see the local time at each destination.")))
	default:
		b.WriteString(cardView(m.card))
		b.WriteString("\n")
		b.WriteString(StatusStyle.Render(m.status))
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(ErrorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(FooterStyle.Render(m.helpView()))
	return b.String()
}

func (m Model) navView() string {
	lines := make([]string, 0, len(view.NavLinks))
	for i, l := range view.NavLinks {
		lines = append(lines, fmt.Sprintf("%d  %s", i+1, l.Label))
	}
	return NavStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) gridView() string {
	if m.grid.Message != "" {
		return ErrorStyle.Render(m.grid.Message)
	}
	cards := make([]string, 0, len(m.grid.Cards))
	for _, c := range m.grid.Cards {
		cards = append(cards, cardView(c))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func cardView(c view.Card) string {
	if c.Title == "" {
		return CardStyle.Render(CardTextStyle.Render("Loading destinations..."))
	}
	parts := []string{CardTitleStyle.Render(c.Title)}
	if c.Description != "" {
		parts = append(parts, CardTextStyle.Render(c.Description))
	}
	if c.ImageURL != "" {
		parts = append(parts, LinkStyle.Render(c.ImageURL))
	}
	parts = append(parts, LinkStyle.Render("Visit: "+c.LinkURL))
	return CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) helpView() string {
	items := make([]string, 0, len(m.keys.ShortHelp()))
	for _, k := range m.keys.ShortHelp() {
		h := k.Help()
		items = append(items, h.Key+" "+h.Desc)
	}
	return strings.Join(items, " • ")
}
