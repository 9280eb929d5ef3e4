package admin

import (
	"sort"

	"github.com/sudo-init-do/gearhub/internal/listing"
)

const topRatedCount = 5

// Insights summarises the catalog.
type Insights struct {
	TotalListings     int               `json:"total_listings"`
	ActiveListings    int               `json:"active_listings"`
	SuspendedListings int               `json:"suspended_listings"`
	FeaturedListings  int               `json:"featured_listings"`
	ByCategory        map[string]int    `json:"by_category"`
	AveragePrice      float64           `json:"average_price"`
	MinPrice          float64           `json:"min_price"`
	MaxPrice          float64           `json:"max_price"`
	TopRated          []listing.Listing `json:"top_rated"`
	Unrated           int               `json:"unrated"`
}

// ComputeInsights derives catalog statistics. Prices consider every listing
// with a positive day price; TopRated holds at most five rated listings,
// highest first.
func ComputeInsights(listings []listing.Listing) Insights {
	report := Insights{
		ByCategory: make(map[string]int),
		TopRated:   []listing.Listing{},
	}

	var totalPrice float64
	var priced int
	rated := make([]listing.Listing, 0, len(listings))
	for _, l := range listings {
		report.TotalListings++
		if l.Status == listing.StatusSuspended {
			report.SuspendedListings++
		} else {
			report.ActiveListings++
		}
		if l.Featured {
			report.FeaturedListings++
		}
		if l.Category != "" {
			report.ByCategory[l.Category]++
		}

		if l.PricePerDay > 0 {
			totalPrice += l.PricePerDay
			if priced == 0 || l.PricePerDay < report.MinPrice {
				report.MinPrice = l.PricePerDay
			}
			if l.PricePerDay > report.MaxPrice {
				report.MaxPrice = l.PricePerDay
			}
			priced++
		}

		if l.Rated() {
			rated = append(rated, l)
		} else {
			report.Unrated++
		}
	}

	if priced > 0 {
		report.AveragePrice = totalPrice / float64(priced)
	}

	sort.SliceStable(rated, func(i, j int) bool {
		return rated[i].Rating > rated[j].Rating
	})
	if len(rated) > topRatedCount {
		rated = rated[:topRatedCount]
	}
	report.TopRated = append(report.TopRated, rated...)
	return report
}
