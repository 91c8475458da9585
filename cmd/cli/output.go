package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/marcusziade/maykott/pkg/content"
	"github.com/marcusziade/maykott/pkg/db"
	"github.com/marcusziade/maykott/pkg/models"
)

// styles are the terminal styles of the CLI
type styles struct {
	Title  lipgloss.Style
	Header lipgloss.Style
	Label  lipgloss.Style
	Muted  lipgloss.Style
	Good   lipgloss.Style
	Bad    lipgloss.Style
	Gold   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer, color bool) styles {
	s := styles{
		Title:  r.NewStyle().Bold(true),
		Header: r.NewStyle().Bold(true),
		Label:  r.NewStyle().Bold(true),
		Muted:  r.NewStyle(),
		Good:   r.NewStyle(),
		Bad:    r.NewStyle(),
		Gold:   r.NewStyle(),
	}
	if !color {
		return s
	}
	s.Title = s.Title.Foreground(lipgloss.Color("#D4AF37")).MarginBottom(1)
	s.Header = s.Header.Foreground(lipgloss.Color("#7D7D7D")).Underline(true)
	s.Label = s.Label.Foreground(lipgloss.Color("#5FAFD7"))
	s.Muted = s.Muted.Foreground(lipgloss.Color("#7D7D7D"))
	s.Good = s.Good.Foreground(lipgloss.Color("#5FD75F"))
	s.Bad = s.Bad.Foreground(lipgloss.Color("#FF5F5F"))
	s.Gold = s.Gold.Foreground(lipgloss.Color("#D4AF37"))
	return s
}

func (a *app) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(a.out, string(data))
	return nil
}

// printTable writes rows in aligned columns under a styled header
func (a *app) printTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); i < len(widths) && w > widths[i] {
				widths[i] = w
			}
		}
	}

	line := func(cells []string, style func(int, string) string) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			padded := cell + strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
			parts[i] = style(i, padded)
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	fmt.Fprintln(a.out, line(headers, func(_ int, s string) string { return a.styles.Header.Render(s) }))
	for _, row := range rows {
		fmt.Fprintln(a.out, line(row, func(_ int, s string) string { return s }))
	}
}

func (a *app) printSubsidiaries(records []models.Subsidiary) {
	if len(records) == 0 {
		fmt.Fprintln(a.out, a.styles.Muted.Render("No holdings found matching your search."))
		return
	}

	fmt.Fprintln(a.out, a.styles.Title.Render(fmt.Sprintf("%d holdings", len(records))))
	rows := make([][]string, len(records))
	for i, s := range records {
		featured := ""
		if s.Featured {
			featured = "*"
		}
		rows[i] = []string{s.ID, s.Name, s.SectorLabel, s.AssetsUnderManagement, s.AnnualGrowth, featured}
	}
	a.printTable([]string{"ID", "NAME", "SECTOR", "AUM", "GROWTH", "FEATURED"}, rows)
}

func (a *app) printSubsidiary(s models.Subsidiary) {
	fmt.Fprintln(a.out, a.styles.Title.Render(s.Name))
	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(a.out, "%s %s\n", a.styles.Label.Render(label+":"), value)
		}
	}
	field("Sector", s.SectorLabel)
	if s.Badge != "" {
		field("Badge", a.styles.Gold.Render(s.Badge))
	}
	field("Assets Under Mgmt", s.AssetsUnderManagement)
	field("Annual Growth", a.styles.Good.Render(s.AnnualGrowth))
	field("Headquarters", s.Headquarters)
	field("Employees", s.Employees)
	if s.YearAcquired > 0 {
		field("Acquired", fmt.Sprint(s.YearAcquired))
	}
	field("Trend", sparkline(s.Sparkline()))
	fmt.Fprintf(a.out, "\n%s\n", s.Description)
	fmt.Fprintf(a.out, "\n%s %s\n", a.styles.Muted.Render("Inquire:"), s.InquirySubject())
}

// sparkline draws trend bars with block characters
func sparkline(bars []models.SparkBar) string {
	blocks := []rune(" ▂▄▆█")
	var sb strings.Builder
	for _, b := range bars {
		h := b.Height
		if h < 0 {
			h = 0
		}
		if h >= len(blocks) {
			h = len(blocks) - 1
		}
		sb.WriteRune(blocks[h])
	}
	return sb.String()
}

func (a *app) printLeaders(leaders []models.Leader) {
	fmt.Fprintln(a.out, a.styles.Title.Render("Leadership"))
	rows := make([][]string, len(leaders))
	for i, l := range leaders {
		rows[i] = []string{fmt.Sprint(l.Order), l.Name, l.Title}
	}
	a.printTable([]string{"#", "NAME", "TITLE"}, rows)
}

func (a *app) printInsights(hero *models.Insight, feed []models.Insight) {
	if hero != nil {
		fmt.Fprintln(a.out, a.styles.Title.Render(hero.Title))
		fmt.Fprintf(a.out, "%s · %s · %s\n\n", hero.SectorLabel, hero.Author, hero.ReadTime)
	}
	if len(feed) == 0 {
		fmt.Fprintln(a.out, a.styles.Muted.Render("No articles in this sector yet."))
		return
	}
	rows := make([][]string, len(feed))
	for i, in := range feed {
		rows[i] = []string{in.PublishedAt, in.SectorLabel, in.Title}
	}
	a.printTable([]string{"DATE", "SECTOR", "TITLE"}, rows)
}

func (a *app) printValid(source string, seed *content.Seed) {
	fmt.Fprintf(a.out, "%s %s: %d subsidiaries, %d leaders, %d insights\n",
		a.styles.Good.Render("ok"), source, len(seed.Subsidiaries), len(seed.Leaders), len(seed.Insights))
}

func (a *app) printProblems(source string, problems []string) {
	fmt.Fprintf(a.out, "%s %s\n", a.styles.Bad.Render("invalid"), source)
	for _, p := range problems {
		fmt.Fprintf(a.out, "  %s %s\n", a.styles.Bad.Render("-"), p)
	}
}

func (a *app) printExport(path string, counts db.Counts) {
	fmt.Fprintf(a.out, "%s %s: %d subsidiaries, %d leaders, %d insights\n",
		a.styles.Good.Render("exported"), path, counts.Subsidiaries, counts.Leaders, counts.Insights)
}
