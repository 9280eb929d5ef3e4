package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestSearchLimiterThrottlesBursts(t *testing.T) {
	e := echo.New()
	e.GET("/listings/search", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, searchLimiter())

	var ok, limited int
	for i := 0; i < searchRateLimit+5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/listings/search?q=kayak", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		switch rec.Code {
		case http.StatusOK:
			ok++
		case http.StatusTooManyRequests:
			limited++
		default:
			t.Fatalf("expected 200 or 429, got %d", rec.Code)
		}
	}
	if ok < searchRateLimit || limited == 0 {
		t.Fatalf("expected %d allowed and some throttled, got %d allowed and %d throttled", searchRateLimit, ok, limited)
	}
}
