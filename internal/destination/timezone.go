package destination

import "strings"

// DefaultTimezone is used when no fragment of the zone table matches.
const DefaultTimezone = "UTC"

type zoneHint struct {
	fragment string
	zone     string
}

// zoneTable is matched in order; the first fragment contained in the
// lowercased name wins.
var zoneTable = []zoneHint{
	{"sydney", "Australia/Sydney"},
	{"melbourne", "Australia/Melbourne"},
	{"tokyo", "Asia/Tokyo"},
	{"kyoto", "Asia/Tokyo"},
	{"rio", "America/Sao_Paulo"},
	{"são paulo", "America/Sao_Paulo"},
	{"sao paulo", "America/Sao_Paulo"},
	{"angkor", "Asia/Phnom_Penh"},
	{"taj mahal", "Asia/Kolkata"},
	{"bora bora", "Pacific/Tahiti"},
	{"copacabana", "America/Sao_Paulo"},
	{"toronto", "America/Toronto"},
}

// InferTimezone guesses an IANA zone for a place name by substring match
// against the zone table. Unknown or empty names resolve to DefaultTimezone.
func InferTimezone(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return DefaultTimezone
	}
	for _, h := range zoneTable {
		if strings.Contains(n, h.fragment) {
			return h.zone
		}
	}
	return DefaultTimezone
}
