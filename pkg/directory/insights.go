package directory

import (
	"slices"

	"github.com/marcusziade/maykott/pkg/models"
)

// InsightFilter selects articles by sector
type InsightFilter = SectorFilter[models.InsightSector]

// Insights is the article directory
type Insights struct {
	records []models.Insight
}

// NewInsights creates a directory over a copy of records, keeping their order
func NewInsights(records []models.Insight) *Insights {
	return &Insights{records: slices.Clone(records)}
}

// All returns every article in seed order
func (d *Insights) All() []models.Insight {
	return slices.Clone(d.records)
}

// FeaturedInsight returns the hero article: the first featured record in
// seed order. It reports false when nothing is featured.
func (d *Insights) FeaturedInsight() (models.Insight, bool) {
	for _, in := range d.records {
		if in.Featured {
			return in, true
		}
	}
	return models.Insight{}, false
}

// NonFeatured returns the articles that are not featured, in seed order
func (d *Insights) NonFeatured() []models.Insight {
	out := make([]models.Insight, 0, len(d.records))
	for _, in := range d.records {
		if !in.Featured {
			out = append(out, in)
		}
	}
	return out
}

// FilterBySector returns the articles matching f in seed order
func (d *Insights) FilterBySector(f InsightFilter) []models.Insight {
	return filterBy(d.records, f, func(in models.Insight) models.InsightSector { return in.Sector })
}

// Feed returns the grid under the hero: FilterBySector(f) without the hero
// article. Only the hero is removed, matched by ID.
func (d *Insights) Feed(f InsightFilter) []models.Insight {
	list := d.FilterBySector(f)
	hero, ok := d.FeaturedInsight()
	if !ok {
		return list
	}
	return slices.DeleteFunc(list, func(in models.Insight) bool { return in.ID == hero.ID })
}

// FindBySlug looks up an article by slug
func (d *Insights) FindBySlug(slug string) (models.Insight, bool) {
	for _, in := range d.records {
		if in.Slug == slug {
			return in, true
		}
	}
	return models.Insight{}, false
}
