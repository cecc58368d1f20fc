package api

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/neexbeast/travelrec/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	"description": sanitizeDescription,
}).ParseFS(templateFS, "templates/*.html"))

var (
	descriptionPolicyOnce sync.Once
	descriptionPolicy     *bluemonday.Policy
)

// sanitizeDescription lets dataset descriptions keep basic inline markup.
func sanitizeDescription(raw string) template.HTML {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	descriptionPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "strong", "i", "em", "br", "p", "span")
		descriptionPolicy = policy
	})
	// The policy output is safe HTML by construction.
	return template.HTML(descriptionPolicy.Sanitize(trimmed))
}

// pageDisplay captures a view session's latest writes for one render.
type pageDisplay struct {
	mu     sync.Mutex
	card   view.Card
	status string
}

func (d *pageDisplay) ShowCard(c view.Card) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.card = c
}

func (d *pageDisplay) ShowStatus(line string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = line
}

func (d *pageDisplay) snapshot() (view.Card, string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.card, d.status
}

type pageGrid struct {
	cards   []view.Card
	message string
}

func (g *pageGrid) ReplaceCards(cards []view.Card) { g.cards, g.message = cards, "" }
func (g *pageGrid) ShowMessage(msg string)         { g.cards, g.message = nil, msg }

type pageData struct {
	Query    string
	Card     view.Card
	Status   string
	Found    bool
	Grid     []view.Card
	Message  string
	NavLinks []view.NavLink
	Nav      view.NavState
}

// newSession builds a throwaway view session for one page render.
func (h *Handlers) newSession(d view.Display) *view.Controller {
	opts := append([]view.ClockOption{}, h.clockOpts...)
	opts = append(opts, view.WithNow(h.now))
	return view.NewController(d, h.log,
		view.WithDefaultHint(h.defaultCity),
		view.WithClockOptions(opts...),
	)
}

func (h *Handlers) render(w http.ResponseWriter, status int, name string, data pageData) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		h.log.Error("rendering page", "page", name, "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// HomePage handles GET /. It renders the featured card for ?q= (or the
// default destination) and subscribes to the featured stream for the clock.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	d := &pageDisplay{}
	ctrl := h.newSession(d)
	defer ctrl.Close()

	status := http.StatusOK
	found := true
	if err := ctrl.Init(r.Context(), h.catalog); err != nil {
		status = http.StatusServiceUnavailable
		found = false
	} else if q != "" {
		_, found = ctrl.Search(q)
	}
	card, line := d.snapshot()
	h.render(w, status, "home.html", pageData{
		Query:    q,
		Card:     card,
		Status:   line,
		Found:    found,
		NavLinks: view.NavLinks,
		Nav:      ctrl.Nav().State(),
	})
}

// DestinationsPage handles GET /destinations: the grid of every record.
func (h *Handlers) DestinationsPage(w http.ResponseWriter, r *http.Request) {
	ctrl := h.newSession(&pageDisplay{})
	defer ctrl.Close()

	status := http.StatusOK
	if err := ctrl.Init(r.Context(), h.catalog); err != nil {
		status = http.StatusServiceUnavailable
	}
	g := &pageGrid{}
	ctrl.RenderGrid(g)

	h.render(w, status, "destinations.html", pageData{
		Grid:     g.cards,
		Message:  g.message,
		NavLinks: view.NavLinks,
		Nav:      ctrl.Nav().State(),
	})
}
