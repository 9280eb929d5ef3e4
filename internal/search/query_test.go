package search

import "testing"

func TestParseQueryForLocation(t *testing.T) {
	tests := []struct {
		raw  string
		want ParsedQuery
	}{
		{
			raw:  "surfboards in Los Angeles",
			want: ParsedQuery{BaseQuery: "surfboards", Location: "Los Angeles", HasLocation: true},
		},
		{
			raw:  "skis near me",
			want: ParsedQuery{BaseQuery: "skis", NearMe: true},
		},
		{
			raw:  "mountain bikes in good condition in Denver",
			want: ParsedQuery{BaseQuery: "mountain bikes", Location: "good condition in Denver", HasLocation: true},
		},
		{
			raw:  "kayaks IN   Seattle ",
			want: ParsedQuery{BaseQuery: "kayaks", Location: "Seattle", HasLocation: true},
		},
		{
			raw:  "Near Me tents",
			want: ParsedQuery{BaseQuery: "tents", NearMe: true},
		},
		{
			raw:  "",
			want: ParsedQuery{},
		},
		{
			// "in" must be a whole word.
			raw:  "inflatable paddleboards",
			want: ParsedQuery{BaseQuery: "inflatable paddleboards"},
		},
	}
	for _, tt := range tests {
		got := ParseQueryForLocation(tt.raw)
		tt.want.Raw = tt.raw
		if got != tt.want {
			t.Fatalf("ParseQueryForLocation(%q): expected %+v, got %+v", tt.raw, tt.want, got)
		}
	}
}
