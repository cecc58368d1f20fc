// Package view holds the presentation state of a destination page: the
// featured card, the live local-time line, the destinations grid and the
// mobile navigation panel. Front-ends supply a Display and a Grid and forward
// user input to a Controller.
package view

import (
	"fmt"

	"github.com/neexbeast/travelrec/internal/destination"
)

const (
	// StatusPlaceholder is shown when no destination is active.
	StatusPlaceholder = "Current Local Time: --:--:--"

	// UnavailableMessage explains a failed dataset load.
	UnavailableMessage = "Unable to load destinations. Serve this page via a local HTTP server."
)

// Card is the content of one card slot. It is always written as a whole.
type Card struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	LinkURL     string `json:"link_url"`
}

// Display is the featured-card region of a page.
// Implementations must be safe for use from the clock goroutine.
type Display interface {
	ShowCard(Card)
	ShowStatus(line string)
}

// Grid is the destinations grid region of a page.
type Grid interface {
	ReplaceCards(cards []Card)
	ShowMessage(msg string)
}

// Title picks the heading for a record: "City, Country" when both are known,
// otherwise the first non-empty of the combined name, city and country.
func Title(r destination.Record) string {
	if r.City != "" && r.Country != "" {
		return r.City + ", " + r.Country
	}
	for _, s := range []string{r.Name, r.City, r.Country} {
		if s != "" {
			return s
		}
	}
	return ""
}

// CardFor builds the featured card for a record.
func CardFor(r destination.Record) Card {
	link := r.VisitURL
	if link == "" {
		link = "#"
	}
	return Card{
		Title:       Title(r),
		Description: r.Description,
		ImageURL:    r.ImageURL,
		LinkURL:     link,
	}
}

// GridCardFor builds a grid card, which leads with the record's own name.
func GridCardFor(r destination.Record) Card {
	c := CardFor(r)
	if r.Name != "" {
		c.Title = r.Name
	}
	return c
}

// NoResultsCard is shown when a search matches nothing.
func NoResultsCard(query string) Card {
	return Card{
		Title:       "No results",
		Description: fmt.Sprintf("No destinations found for \"%s\".", query),
		LinkURL:     "#",
	}
}

// UnavailableCard is shown when the dataset could not be loaded.
func UnavailableCard() Card {
	return Card{
		Title:       "Data unavailable",
		Description: UnavailableMessage,
		LinkURL:     "#",
	}
}
