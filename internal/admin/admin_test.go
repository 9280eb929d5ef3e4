package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sudo-init-do/gearhub/internal/listing"
	"github.com/sudo-init-do/gearhub/internal/marketplace"
)

func gear(id, category string, price, rating float64) listing.Listing {
	return listing.Listing{ID: id, Name: id, Category: category, PricePerDay: price, Rating: rating, Status: listing.StatusActive}
}

func TestComputeInsights(t *testing.T) {
	suspended := gear("g", "kayaks", 60, 0)
	suspended.Status = listing.StatusSuspended
	featured := gear("a", "skis", 10, 4.1)
	featured.Featured = true

	report := ComputeInsights([]listing.Listing{
		featured,
		gear("b", "skis", 30, 4.9),
		gear("c", "surfboards", 20, 3.0),
		gear("d", "surfboards", 40, 0),
		gear("e", "camping", 0, 5),
		gear("f", "camping", 80, 4.5),
		gear("h", "climbing", 50, 2.2),
		suspended,
	})

	if report.TotalListings != 8 || report.ActiveListings != 7 || report.SuspendedListings != 1 || report.FeaturedListings != 1 {
		t.Fatalf("unexpected counts %+v", report)
	}
	if report.ByCategory["skis"] != 2 || report.ByCategory["camping"] != 2 || report.ByCategory["kayaks"] != 1 {
		t.Fatalf("unexpected categories %v", report.ByCategory)
	}
	if report.MinPrice != 10 || report.MaxPrice != 80 {
		t.Fatalf("expected price range 10..80, got %v..%v", report.MinPrice, report.MaxPrice)
	}
	// Free listing "e" is left out of the average.
	if report.AveragePrice != 290.0/7 {
		t.Fatalf("expected average %v, got %v", 290.0/7, report.AveragePrice)
	}
	if report.Unrated != 2 {
		t.Fatalf("expected 2 unrated, got %d", report.Unrated)
	}

	want := []string{"e", "b", "f", "a", "c"}
	if len(report.TopRated) != len(want) {
		t.Fatalf("expected %d top rated, got %d", len(want), len(report.TopRated))
	}
	for i, l := range report.TopRated {
		if l.ID != want[i] {
			t.Fatalf("expected top rated %v, got %s at %d", want, l.ID, i)
		}
	}
}

func TestComputeInsightsEmpty(t *testing.T) {
	report := ComputeInsights(nil)
	if report.TotalListings != 0 || report.AveragePrice != 0 || report.TopRated == nil {
		t.Fatalf("unexpected empty report %+v", report)
	}
}

func run(t *testing.T, h echo.HandlerFunc, id string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/admin/listings/"+id, nil), rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	return rec
}

func TestModeration(t *testing.T) {
	store := listing.NewMemoryStore(gear("a", "skis", 10, 4))
	h := NewHandler(store, marketplace.NewMemoryBookings())
	ctx := context.Background()

	if rec := run(t, h.FeatureListing, "a"); rec.Code != http.StatusOK {
		t.Fatalf("feature: expected 200, got %d", rec.Code)
	}
	if rec := run(t, h.SuspendListing, "a"); rec.Code != http.StatusOK {
		t.Fatalf("suspend: expected 200, got %d", rec.Code)
	}
	l, _ := store.Get(ctx, "a")
	if !l.Featured || l.Status != listing.StatusSuspended {
		t.Fatalf("unexpected listing %+v", l)
	}
	if active, _ := store.List(ctx); len(active) != 0 {
		t.Fatalf("expected suspended listing to leave search, got %d", len(active))
	}

	run(t, h.ActivateListing, "a")
	run(t, h.UnfeatureListing, "a")
	l, _ = store.Get(ctx, "a")
	if l.Featured || l.Status != listing.StatusActive {
		t.Fatalf("unexpected listing %+v", l)
	}

	if rec := run(t, h.SuspendListing, "missing"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestStats(t *testing.T) {
	bookings := marketplace.NewMemoryBookings()
	ctx := context.Background()
	for _, status := range []string{marketplace.StatusPending, marketplace.StatusPending, marketplace.StatusCompleted} {
		if _, err := bookings.CreateBooking(ctx, marketplace.Booking{ListingID: "a", Status: status}); err != nil {
			t.Fatalf("create booking: %v", err)
		}
	}
	h := NewHandler(listing.NewMemoryStore(gear("a", "skis", 10, 4)), bookings)

	rec := run(t, h.Stats, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Listings         Insights       `json:"listings"`
		Bookings         int            `json:"bookings"`
		BookingsByStatus map[string]int `json:"bookings_by_status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Bookings != 3 || body.BookingsByStatus[marketplace.StatusPending] != 2 || body.Listings.TotalListings != 1 {
		t.Fatalf("unexpected stats %+v", body)
	}
}
