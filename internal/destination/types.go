package destination

import (
	"errors"
	"time"
)

// Kind is the category of a destination record.
type Kind string

const (
	KindCity   Kind = "city"
	KindTemple Kind = "temple"
	KindBeach  Kind = "beach"
)

// ErrDataUnavailable is returned when a dataset could not be fetched or parsed.
var ErrDataUnavailable = errors.New("destination data unavailable")

// Record is one normalized destination. Every field is always populated with
// at least its documented default; Timezone is never empty.
type Record struct {
	ID          int    `json:"id"`
	Kind        Kind   `json:"type"`
	Name        string `json:"name"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Timezone    string `json:"timezone"`
	VisitURL    string `json:"visit_url"`
}

// ---- raw document shapes ----

// Place is a city, temple or beach entry as it appears in a dataset document.
// Both field spellings seen in the wild are accepted (imageUrl / image).
type Place struct {
	Name        string `json:"name,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
}

// Country groups cities in the nested document shape.
type Country struct {
	Name   string  `json:"name,omitempty"`
	Cities []Place `json:"cities,omitempty"`
}

// FlatCity is an entry of the flat document shape.
type FlatCity struct {
	City        string `json:"city,omitempty"`
	Country     string `json:"country,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
	URL         string `json:"url,omitempty"`
}

// Document is a parsed dataset. Countries, Temples and Beaches make up the
// nested shape; Cities is the flat shape. Either part may be absent.
type Document struct {
	Countries []Country  `json:"countries,omitempty"`
	Temples   []Place    `json:"temples,omitempty"`
	Beaches   []Place    `json:"beaches,omitempty"`
	Cities    []FlatCity `json:"cities,omitempty"`
}

// Dataset is a dataset document as stored in the DB.
type Dataset struct {
	ID        int
	Name      string
	Document  Document
	FetchedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
