package models

import "time"

// InsightSector is the research sector an article is filed under
type InsightSector string

const (
	InsightEnergy          InsightSector = "energy"
	InsightLogistics       InsightSector = "logistics"
	InsightFinance         InsightSector = "finance"
	InsightTechnology      InsightSector = "technology"
	InsightInfrastructure  InsightSector = "infrastructure"
	InsightDecarbonization InsightSector = "decarbonization"
)

// InsightSectors returns every insight sector
func InsightSectors() []InsightSector {
	return []InsightSector{
		InsightEnergy,
		InsightLogistics,
		InsightFinance,
		InsightTechnology,
		InsightInfrastructure,
		InsightDecarbonization,
	}
}

// Valid reports whether s is a known insight sector
func (s InsightSector) Valid() bool {
	for _, known := range InsightSectors() {
		if s == known {
			return true
		}
	}
	return false
}

// DateLayout is the format of Insight.PublishedAt
const DateLayout = "2006-01-02"

// Insight represents a published article
type Insight struct {
	ID          string        `json:"id" yaml:"id"`
	Title       string        `json:"title" yaml:"title"`
	Excerpt     string        `json:"excerpt" yaml:"excerpt"`
	Sector      InsightSector `json:"sector" yaml:"sector"`
	SectorLabel string        `json:"sector_label" yaml:"sector_label"`
	ReadTime    string        `json:"read_time" yaml:"read_time"`
	PublishedAt string        `json:"published_at" yaml:"published_at"`
	ImageURL    string        `json:"image_url" yaml:"image_url"`
	ImageAlt    string        `json:"image_alt" yaml:"image_alt"`
	Author      string        `json:"author" yaml:"author"`
	AuthorTitle string        `json:"author_title" yaml:"author_title"`
	Featured    bool          `json:"featured" yaml:"featured"`
	Slug        string        `json:"slug" yaml:"slug"`
}

// PublishedDate parses PublishedAt
func (i Insight) PublishedDate() (time.Time, error) {
	return time.Parse(DateLayout, i.PublishedAt)
}
