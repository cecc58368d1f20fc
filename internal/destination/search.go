package destination

import "strings"

// Find returns the first record, in list order, whose name, city or country
// contains query case-insensitively. An empty query matches the first record.
// The boolean is false when nothing matches or records is empty.
func Find(records []Record, query string) (Record, bool) {
	if len(records) == 0 {
		return Record{}, false
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return records[0], true
	}

	for _, r := range records {
		if containsFold(r.Name, q) || containsFold(r.City, q) || containsFold(r.Country, q) {
			return r, true
		}
	}
	return Record{}, false
}

// Default returns the first record whose city contains hint, falling back to
// the first record. An empty hint selects the first record.
func Default(records []Record, hint string) (Record, bool) {
	if len(records) == 0 {
		return Record{}, false
	}

	h := strings.ToLower(strings.TrimSpace(hint))
	if h != "" {
		for _, r := range records {
			if containsFold(r.City, h) {
				return r, true
			}
		}
	}
	return records[0], true
}

// ByID returns the record with the given id.
func ByID(records []Record, id int) (Record, bool) {
	for _, r := range records {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}

// containsFold reports whether s contains the already-lowercased needle.
func containsFold(s, needle string) bool {
	return s != "" && strings.Contains(strings.ToLower(s), needle)
}
