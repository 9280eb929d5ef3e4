package listing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

var csvHeader = []string{
	"id", "name", "description", "category",
	"size", "weight", "material", "suitability",
	"price_per_day", "price_per_hour", "price_per_week",
	"rating", "review_count",
	"latitude", "longitude", "postal_code", "address",
	"owner_id", "owner_name", "featured", "status", "created_at",
}

// WriteCSV writes listings with a header row.
func WriteCSV(w io.Writer, listings []Listing) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, l := range listings {
		record := []string{
			l.ID, l.Name, l.Description, l.Category,
			l.Specifications.Size, l.Specifications.Weight, l.Specifications.Material, l.Specifications.Suitability,
			formatFloat(l.PricePerDay), formatOptional(l.PricePerHour), formatOptional(l.PricePerWeek),
			formatFloat(l.Rating), strconv.Itoa(l.ReviewCount),
			formatOptional(l.Location.Latitude), formatOptional(l.Location.Longitude), l.Location.PostalCode, l.Location.Address,
			l.Owner.ID, l.Owner.Name, strconv.FormatBool(l.Featured), l.Status, formatTime(l.CreatedAt),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write listing %s: %w", l.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses listings written by WriteCSV. Columns are matched by
// header name, so extra or reordered columns are fine; only name and
// price_per_day are required.
func ReadCSV(r io.Reader) ([]Listing, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"name", "price_per_day"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	var out []Listing
	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		get := func(name string) string {
			if i, ok := col[name]; ok && i < len(record) {
				return strings.TrimSpace(record[i])
			}
			return ""
		}

		l, err := parseRecord(get)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, l)
	}
	return out, nil
}

func parseRecord(get func(string) string) (Listing, error) {
	l := Listing{
		ID:          get("id"),
		Name:        get("name"),
		Description: get("description"),
		Category:    get("category"),
		Specifications: Specifications{
			Size:        get("size"),
			Weight:      get("weight"),
			Material:    get("material"),
			Suitability: get("suitability"),
		},
		Location: Location{
			PostalCode: get("postal_code"),
			Address:    get("address"),
		},
		Owner:  Owner{ID: get("owner_id"), Name: get("owner_name")},
		Status: get("status"),
	}
	if l.Name == "" {
		return Listing{}, errors.New("name is required")
	}

	var err error
	if l.PricePerDay, err = strconv.ParseFloat(get("price_per_day"), 64); err != nil || l.PricePerDay < 0 {
		return Listing{}, fmt.Errorf("invalid price_per_day %q", get("price_per_day"))
	}
	if l.PricePerHour, err = parseOptional(get("price_per_hour")); err != nil {
		return Listing{}, fmt.Errorf("price_per_hour: %w", err)
	}
	if l.PricePerWeek, err = parseOptional(get("price_per_week")); err != nil {
		return Listing{}, fmt.Errorf("price_per_week: %w", err)
	}
	if v := get("rating"); v != "" {
		if l.Rating, err = strconv.ParseFloat(v, 64); err != nil || l.Rating < 0 || l.Rating > 5 {
			return Listing{}, fmt.Errorf("invalid rating %q", v)
		}
	}
	if v := get("review_count"); v != "" {
		if l.ReviewCount, err = strconv.Atoi(v); err != nil || l.ReviewCount < 0 {
			return Listing{}, fmt.Errorf("invalid review_count %q", v)
		}
	}
	if l.Location.Latitude, err = parseOptional(get("latitude")); err != nil {
		return Listing{}, fmt.Errorf("latitude: %w", err)
	}
	if l.Location.Longitude, err = parseOptional(get("longitude")); err != nil {
		return Listing{}, fmt.Errorf("longitude: %w", err)
	}
	if v := get("featured"); v != "" {
		if l.Featured, err = strconv.ParseBool(v); err != nil {
			return Listing{}, fmt.Errorf("invalid featured %q", v)
		}
	}
	if v := get("created_at"); v != "" {
		if l.CreatedAt, err = time.Parse(time.RFC3339, v); err != nil {
			return Listing{}, fmt.Errorf("invalid created_at %q", v)
		}
	}
	return l, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseOptional(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", s)
	}
	return &v, nil
}
