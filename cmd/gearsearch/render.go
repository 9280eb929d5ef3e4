package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/sudo-init-do/gearhub/internal/search"
)

var (
	colorMuted  = lipgloss.Color("#7E8C80")
	colorText   = lipgloss.Color("#D6E0D3")
	colorAccent = lipgloss.Color("#8FA082")
	colorDanger = lipgloss.Color("#f38ba8")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Padding(0, 1)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)
)

func render(resp *search.Response) string {
	var b strings.Builder

	summary := fmt.Sprintf("%d results in %dms", resp.TotalHits, resp.TookMs)
	if resp.Parsed.HasLocation {
		summary += fmt.Sprintf(" for %q near %s", resp.Parsed.BaseQuery, resp.Parsed.Location)
	}
	b.WriteString(titleStyle.Render(summary))
	b.WriteString("\n")

	if len(resp.Results) == 0 {
		b.WriteString(mutedStyle.Render("no listings matched"))
		return b.String()
	}

	rows := make([][]string, 0, len(resp.Results))
	for i, r := range resp.Results {
		l := r.Listing
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			l.Name,
			l.Category,
			fmt.Sprintf("$%.2f", l.PricePerDay),
			formatRating(l.Rating, l.ReviewCount),
			formatDistance(r.DistanceMiles),
			fmt.Sprintf("%.2f", r.Score),
			featuredMark(l.Featured),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("#", "NAME", "CATEGORY", "DAY", "RATING", "MILES", "SCORE", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	b.WriteString(t.Render())
	return b.String()
}

func printBuckets(engine *search.Engine) {
	tables := []struct {
		name  string
		table *search.BucketTable
	}{
		{"price", engine.PriceBuckets()},
		{"rating", engine.RatingBuckets()},
	}
	for _, t := range tables {
		ids := make([]string, 0)
		for _, bucket := range t.table.Buckets() {
			ids = append(ids, bucket.ID)
		}
		fmt.Println(mutedStyle.Render(fmt.Sprintf("%s buckets: %s", t.name, strings.Join(ids, ", "))))
	}
}

func formatRating(rating float64, reviews int) string {
	if rating <= 0 {
		return "unrated"
	}
	return fmt.Sprintf("%.1f (%d)", rating, reviews)
}

func formatDistance(d *float64) string {
	if d == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *d)
}

func featuredMark(featured bool) string {
	if featured {
		return "★"
	}
	return ""
}
