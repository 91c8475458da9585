package content

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/marcusziade/maykott/pkg/models"
)

// Rules configures the checks Validate runs beyond the record invariants
type Rules struct {
	// AllowedImageHosts lists the hosts image URLs may point at. Empty allows any https host.
	AllowedImageHosts []string
}

// ValidationError lists every integrity problem found in a seed
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid content (%d problems): %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

type checker struct {
	rules    Rules
	problems []string
}

func (c *checker) addf(format string, args ...any) {
	c.problems = append(c.problems, fmt.Sprintf(format, args...))
}

// Validate checks the seed once, before any directory is built. It returns a
// *ValidationError naming every problem, or nil.
func Validate(seed *Seed, rules Rules) error {
	c := &checker{rules: rules}
	c.subsidiaries(seed.Subsidiaries)
	c.leaders(seed.Leaders)
	c.insights(seed.Insights)
	if len(c.problems) > 0 {
		return &ValidationError{Problems: c.problems}
	}
	return nil
}

func (c *checker) subsidiaries(records []models.Subsidiary) {
	seen := make(map[string]bool, len(records))
	for i, s := range records {
		prefix := fmt.Sprintf("subsidiary[%d]", i)
		c.id(prefix, s.ID, seen)
		if s.Name == "" {
			c.addf("%s: name is required", prefix)
		}
		if !s.Sector.Valid() {
			c.addf("%s: unknown sector %q", prefix, s.Sector)
		}
		if len(s.Trend) != models.TrendLength {
			c.addf("%s: trend has %d values, want %d", prefix, len(s.Trend), models.TrendLength)
		}
		for j, v := range s.Trend {
			if v < 1 || v > 4 {
				c.addf("%s: trend[%d] = %d is outside 1..4", prefix, j, v)
			}
		}
		switch s.BadgeVariant {
		case "", models.BadgeGold, models.BadgeDark:
		default:
			c.addf("%s: unknown badge variant %q", prefix, s.BadgeVariant)
		}
		if s.BadgeVariant != "" && s.Badge == "" {
			c.addf("%s: badge variant set without a badge", prefix)
		}
		c.image(prefix, s.ImageURL)
	}
}

func (c *checker) leaders(records []models.Leader) {
	seen := make(map[string]bool, len(records))
	for i, l := range records {
		prefix := fmt.Sprintf("leader[%d]", i)
		c.id(prefix, l.ID, seen)
		if l.Name == "" {
			c.addf("%s: name is required", prefix)
		}
		c.image(prefix, l.ImageURL)
	}
}

func (c *checker) insights(records []models.Insight) {
	seen := make(map[string]bool, len(records))
	slugs := make(map[string]bool, len(records))
	featured := 0
	for i, in := range records {
		prefix := fmt.Sprintf("insight[%d]", i)
		c.id(prefix, in.ID, seen)
		switch {
		case in.Slug == "":
			c.addf("%s: slug is required", prefix)
		case slugs[in.Slug]:
			c.addf("%s: duplicate slug %q", prefix, in.Slug)
		default:
			slugs[in.Slug] = true
		}
		if !in.Sector.Valid() {
			c.addf("%s: unknown sector %q", prefix, in.Sector)
		}
		if _, err := in.PublishedDate(); err != nil {
			c.addf("%s: published_at %q is not a date (YYYY-MM-DD)", prefix, in.PublishedAt)
		}
		if in.Featured {
			featured++
		}
		c.image(prefix, in.ImageURL)
	}
	if len(records) > 0 && featured != 1 {
		c.addf("insights: %d featured articles, want exactly 1", featured)
	}
}

func (c *checker) id(prefix, id string, seen map[string]bool) {
	switch {
	case id == "":
		c.addf("%s: id is required", prefix)
	case seen[id]:
		c.addf("%s: duplicate id %q", prefix, id)
	default:
		seen[id] = true
	}
}

func (c *checker) image(prefix, raw string) {
	if raw == "" {
		c.addf("%s: image_url is required", prefix)
		return
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		c.addf("%s: image_url %q is not an https URL", prefix, raw)
		return
	}
	if len(c.rules.AllowedImageHosts) > 0 && !slices.Contains(c.rules.AllowedImageHosts, u.Hostname()) {
		c.addf("%s: image host %q is not allowed", prefix, u.Hostname())
	}
}
