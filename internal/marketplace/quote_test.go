package marketplace

import (
	"errors"
	"testing"
)

func TestQuote(t *testing.T) {
	weekly := board()
	daily := board()
	daily.PricePerWeek = nil

	tests := []struct {
		name       string
		start, end string
		withWeekly bool
		want       float64
		wantDays   int
	}{
		{"nine days weekly", "2026-03-01", "2026-03-09", true, 140, 9},
		{"nine days daily", "2026-03-01", "2026-03-09", false, 180, 9},
		{"single day", "2026-03-01", "2026-03-01", true, 20, 1},
		{"six days capped at a week", "2026-03-01", "2026-03-06", true, 100, 6},
		{"two full weeks", "2026-03-01", "2026-03-14", true, 200, 14},
		{"max range", "2026-03-01", "2026-04-29", false, 1200, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := daily
			if tt.withWeekly {
				l = weekly
			}
			start, end, err := ParseRange(tt.start, tt.end)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			q, err := Quote(l, start, end)
			if err != nil {
				t.Fatalf("quote: %v", err)
			}
			if q.Days != tt.wantDays {
				t.Fatalf("expected %d days, got %d", tt.wantDays, q.Days)
			}
			if q.Total != tt.want {
				t.Fatalf("expected total %v, got %v", tt.want, q.Total)
			}
		})
	}
}

func TestQuoteRejectsBadRanges(t *testing.T) {
	for _, r := range [][2]string{
		{"2026-03-09", "2026-03-01"},
		{"2026-03-01", "2026-04-30"},
		{"03/01/2026", "2026-03-02"},
		{"2026-03-01", ""},
	} {
		start, end, err := ParseRange(r[0], r[1])
		if err == nil {
			_, err = Quote(board(), start, end)
		}
		if !errors.Is(err, ErrInvalidRange) {
			t.Fatalf("%v: expected ErrInvalidRange, got %v", r, err)
		}
	}
}

func TestCanTransition(t *testing.T) {
	legal := [][2]string{
		{StatusPending, StatusAccepted},
		{StatusPending, StatusDeclined},
		{StatusPending, StatusCancelled},
		{StatusAccepted, StatusCompleted},
		{StatusAccepted, StatusCancelled},
	}
	for _, tr := range legal {
		if !CanTransition(tr[0], tr[1]) {
			t.Fatalf("expected %s -> %s to be legal", tr[0], tr[1])
		}
	}
	illegal := [][2]string{
		{StatusPending, StatusCompleted},
		{StatusAccepted, StatusDeclined},
		{StatusDeclined, StatusAccepted},
		{StatusCompleted, StatusCancelled},
		{StatusCancelled, StatusPending},
	}
	for _, tr := range illegal {
		if CanTransition(tr[0], tr[1]) {
			t.Fatalf("expected %s -> %s to be illegal", tr[0], tr[1])
		}
	}
}
