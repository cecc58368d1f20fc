package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/neexbeast/travelrec/internal/view"
)

// CardMsg carries a featured card written by the view controller.
type CardMsg struct {
	Card view.Card
}

// StatusMsg carries a time status line written by the view controller.
type StatusMsg struct {
	Line string
}

// GridMsg carries the destinations grid.
type GridMsg struct {
	Cards   []view.Card
	Message string
}

// LoadedMsg is sent once the initial dataset load has finished.
type LoadedMsg struct {
	Err error
}

// SearchDoneMsg is sent after a search or clear has been applied.
type SearchDoneMsg struct {
	Found bool
}

// Display forwards view writes to a running program as messages. Writes
// made before Attach are dropped.
type Display struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

// Attach routes future writes to send, normally (*tea.Program).Send.
func (d *Display) Attach(send func(tea.Msg)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.send = send
}

func (d *Display) ShowCard(c view.Card) { d.emit(CardMsg{Card: c}) }

func (d *Display) ShowStatus(line string) { d.emit(StatusMsg{Line: line}) }

func (d *Display) emit(msg tea.Msg) {
	d.mu.RLock()
	send := d.send
	d.mu.RUnlock()
	if send != nil {
		send(msg)
	}
}

// gridCollector implements view.Grid for one render.
type gridCollector struct {
	msg GridMsg
}

func (g *gridCollector) ReplaceCards(cards []view.Card) { g.msg = GridMsg{Cards: cards} }
func (g *gridCollector) ShowMessage(msg string)         { g.msg = GridMsg{Message: msg} }
