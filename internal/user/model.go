package user

import "time"

// OwnerProfile is the public view of someone renting gear out.
type OwnerProfile struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ListingCount  int       `json:"listing_count"`
	ReviewCount   int       `json:"review_count"`
	AverageRating float64   `json:"average_rating"`
	MemberSince   time.Time `json:"member_since"`
	Categories    []string  `json:"categories"`
}
