package user

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sudo-init-do/gearhub/internal/listing"
)

func owned(id, ownerID, category string, rating float64, reviews int, created time.Time) listing.Listing {
	return listing.Listing{
		ID: id, Name: id, Category: category, PricePerDay: 10,
		Rating: rating, ReviewCount: reviews, Status: listing.StatusActive, CreatedAt: created,
		Owner: listing.Owner{ID: ownerID, Name: "Olive"},
	}
}

func TestBuildProfile(t *testing.T) {
	jan := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	suspended := owned("s", "o1", "kayaks", 1, 10, jan.Add(-time.Hour))
	suspended.Status = listing.StatusSuspended

	p, ok := BuildProfile("o1", []listing.Listing{
		owned("a", "o1", "skis", 4.5, 3, mar),
		owned("b", "o1", "camping", 4.0, 2, jan),
		owned("c", "o1", "skis", 0, 0, mar),
		owned("x", "o2", "skis", 5, 1, jan),
		suspended,
	})
	if !ok {
		t.Fatalf("expected a profile")
	}
	if p.Name != "Olive" || p.ListingCount != 3 || p.ReviewCount != 5 {
		t.Fatalf("unexpected profile %+v", p)
	}
	if p.AverageRating != 4.25 {
		t.Fatalf("expected 4.25, got %v", p.AverageRating)
	}
	if !p.MemberSince.Equal(jan) {
		t.Fatalf("expected member since %v, got %v", jan, p.MemberSince)
	}
	if len(p.Categories) != 2 || p.Categories[0] != "camping" || p.Categories[1] != "skis" {
		t.Fatalf("unexpected categories %v", p.Categories)
	}

	if _, ok := BuildProfile("nobody", nil); ok {
		t.Fatalf("expected no profile for an owner without listings")
	}
}

func TestGetPublicProfile(t *testing.T) {
	h := NewProfileHandler(listing.NewMemoryStore(owned("a", "o1", "skis", 4, 1, time.Now())))
	e := echo.New()

	for id, want := range map[string]int{"o1": http.StatusOK, "o2": http.StatusNotFound} {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/owners/"+id+"/profile", nil), rec)
		c.SetParamNames("id")
		c.SetParamValues(id)
		if err := h.GetPublicProfile(c); err != nil {
			t.Fatalf("handler: %v", err)
		}
		if rec.Code != want {
			t.Fatalf("%s: expected %d, got %d", id, want, rec.Code)
		}
	}
}
