package search

import (
	"regexp"
	"strings"
)

var (
	locationPattern = regexp.MustCompile(`(?i)\bin\s+(.+)`)
	nearMePattern   = regexp.MustCompile(`(?i)near me`)
)

// ParsedQuery is a raw search string split into its search terms and any
// location phrase.
type ParsedQuery struct {
	Raw         string `json:"raw"`
	BaseQuery   string `json:"base_query"`
	Location    string `json:"location,omitempty"`
	HasLocation bool   `json:"has_location"`
	NearMe      bool   `json:"near_me"`
}

// ParseQueryForLocation extracts "in <place>" and "near me" phrases from raw.
//
// Only the first "in" is honored and it consumes the rest of the string, so
// "bikes in good condition in Denver" yields the location
// "good condition in Denver".
func ParseQueryForLocation(raw string) ParsedQuery {
	pq := ParsedQuery{Raw: raw}

	base := raw
	if m := locationPattern.FindStringSubmatchIndex(raw); m != nil {
		base = raw[:m[0]]
		pq.Location = strings.TrimSpace(raw[m[2]:m[3]])
		pq.HasLocation = pq.Location != ""
	}

	pq.NearMe = nearMePattern.MatchString(raw)
	base = nearMePattern.ReplaceAllString(base, "")
	pq.BaseQuery = strings.TrimSpace(base)
	return pq
}
