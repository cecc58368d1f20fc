package view

import "sync"

// Trigger is a user action aimed at the mobile navigation panel.
type Trigger int

const (
	TriggerToggle Trigger = iota
	TriggerBackdrop
	TriggerCloseControl
	TriggerLink
	TriggerEscape
)

func (t Trigger) String() string {
	switch t {
	case TriggerToggle:
		return "toggle"
	case TriggerBackdrop:
		return "backdrop"
	case TriggerCloseControl:
		return "close"
	case TriggerLink:
		return "link"
	case TriggerEscape:
		return "escape"
	default:
		return "unknown"
	}
}

// NavState mirrors the attributes a page sets on the panel.
type NavState struct {
	Open           bool `json:"open"`
	AriaHidden     bool `json:"aria_hidden"`
	AriaExpanded   bool `json:"aria_expanded"`
	BackdropHidden bool `json:"backdrop_hidden"`
	ScrollLocked   bool `json:"scroll_locked"`
}

var (
	navOpen   = NavState{Open: true, AriaHidden: false, AriaExpanded: true, BackdropHidden: false, ScrollLocked: true}
	navClosed = NavState{Open: false, AriaHidden: true, AriaExpanded: false, BackdropHidden: true, ScrollLocked: false}
)

// Nav is the open/closed state of the mobile navigation panel. It is
// independent of the destination data.
type Nav struct {
	mu       sync.Mutex
	state    NavState
	onChange func(NavState)
}

// NewNav returns a closed panel. onChange, if non-nil, is called after every
// transition with the new state.
func NewNav(onChange func(NavState)) *Nav {
	return &Nav{state: navClosed, onChange: onChange}
}

// State returns the current panel state.
func (n *Nav) State() NavState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Open shows the panel, the backdrop and locks page scrolling.
func (n *Nav) Open() { n.set(navOpen) }

// Close is the single close routine every dismissal path goes through.
func (n *Nav) Close() { n.set(navClosed) }

// Handle applies a trigger. Only the toggle control can open the panel.
func (n *Nav) Handle(t Trigger) {
	if t != TriggerToggle {
		n.Close()
		return
	}

	n.mu.Lock()
	next := navOpen
	if n.state.AriaExpanded {
		next = navClosed
	}
	n.state = next
	cb := n.onChange
	n.mu.Unlock()

	if cb != nil {
		cb(next)
	}
}

// HandleKey closes the panel on the escape key and reports whether the key
// was consumed.
func (n *Nav) HandleKey(key string) bool {
	switch key {
	case "esc", "Escape":
		n.Handle(TriggerEscape)
		return true
	}
	return false
}

func (n *Nav) set(s NavState) {
	n.mu.Lock()
	n.state = s
	cb := n.onChange
	n.mu.Unlock()

	if cb != nil {
		cb(s)
	}
}

// NavLink is one entry of the navigation panel.
type NavLink struct {
	Label string
	Href  string
}

// NavLinks are the panel entries shared by every front-end, in display order.
var NavLinks = []NavLink{
	{Label: "Home", Href: "/"},
	{Label: "Destinations", Href: "/destinations"},
	{Label: "About", Href: "/#about"},
}

// Follow activates the i-th entry of NavLinks, closing the panel. It reports
// false for an index out of range.
func (n *Nav) Follow(i int) (NavLink, bool) {
	if i < 0 || i >= len(NavLinks) {
		return NavLink{}, false
	}
	n.Handle(TriggerLink)
	return NavLinks[i], true
}
