package search

import "github.com/sudo-init-do/gearhub/internal/listing"

func f64(v float64) *float64 { return &v }

func gear(id string, price float64) listing.Listing {
	return listing.Listing{ID: id, Name: id, PricePerDay: price, Status: listing.StatusActive}
}

func located(l listing.Listing, lat, lng float64) listing.Listing {
	l.Location.Latitude = f64(lat)
	l.Location.Longitude = f64(lng)
	return l
}

func ids(ls []listing.Listing) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.ID
	}
	return out
}

func scoredIDs(items []ScoredListing) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Listing.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
