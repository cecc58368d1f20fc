package destination

import (
	"fmt"
	"strings"
)

// Normalize flattens dataset documents into records. Nested entries come first
// (countries and their cities, then temples, then beaches), followed by the
// flat cities list. Documents are consumed in argument order and IDs run
// 1..N across all of them.
func Normalize(docs ...Document) []Record {
	n := &normalizer{}
	for _, doc := range docs {
		for _, c := range doc.Countries {
			for _, p := range c.Cities {
				n.addPlace(KindCity, p, c.Name)
			}
		}
		for _, p := range doc.Temples {
			n.addPlace(KindTemple, p, "")
		}
		for _, p := range doc.Beaches {
			n.addPlace(KindBeach, p, "")
		}
		for _, fc := range doc.Cities {
			n.addFlat(fc)
		}
	}
	if n.records == nil {
		return []Record{}
	}
	return n.records
}

// SplitName splits a combined "City, Country" name on the first comma.
// A name without a comma is all city.
func SplitName(name string) (city, country string) {
	before, after, found := strings.Cut(name, ",")
	city = strings.TrimSpace(before)
	if found {
		country = strings.TrimSpace(after)
	}
	return city, country
}

// VisitURL builds the deep link for a record, or "#" when kind or id is unset.
func VisitURL(kind Kind, id int) string {
	if kind == "" || id <= 0 {
		return "#"
	}
	return fmt.Sprintf("visit.html?type=%s&id=%d", kind, id)
}

type normalizer struct {
	nextID  int
	records []Record
}

func (n *normalizer) id() int {
	n.nextID++
	return n.nextID
}

// addPlace appends a nested-shape entry. parentCountry is the enclosing
// country name for cities and is used only when the entry name has no
// country part.
func (n *normalizer) addPlace(kind Kind, p Place, parentCountry string) {
	name := strings.TrimSpace(p.Name)
	city, country := SplitName(name)
	if country == "" {
		country = strings.TrimSpace(parentCountry)
	}

	r := Record{
		ID:          n.id(),
		Kind:        kind,
		Name:        name,
		City:        city,
		Country:     country,
		Description: p.Description,
		ImageURL:    firstNonEmpty(p.ImageURL, p.Image),
		Timezone:    resolveTimezone(p.Timezone, name, city),
	}
	r.VisitURL = VisitURL(r.Kind, r.ID)
	n.records = append(n.records, r)
}

// addFlat appends a flat-shape entry.
func (n *normalizer) addFlat(fc FlatCity) {
	city := strings.TrimSpace(fc.City)
	country := strings.TrimSpace(fc.Country)
	name := joinNonEmpty(", ", city, country)

	// A flat entry that only carries a combined "City, Country" string.
	if country == "" && strings.Contains(city, ",") {
		city, country = SplitName(city)
	}

	r := Record{
		ID:          n.id(),
		Kind:        KindCity,
		Name:        name,
		City:        city,
		Country:     country,
		Description: fc.Description,
		ImageURL:    fc.Image,
		Timezone:    resolveTimezone(fc.Timezone, name, city),
	}
	r.VisitURL = firstNonEmpty(strings.TrimSpace(fc.URL), VisitURL(r.Kind, r.ID))
	n.records = append(n.records, r)
}

func resolveTimezone(explicit, name, city string) string {
	if tz := strings.TrimSpace(explicit); tz != "" {
		return tz
	}
	return InferTimezone(firstNonEmpty(name, city))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func joinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
