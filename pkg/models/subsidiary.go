package models

import "slices"

// SubsidiarySector is the portfolio sector a holding belongs to
type SubsidiarySector string

const (
	SectorInfrastructure SubsidiarySector = "infrastructure"
	SectorTechnology     SubsidiarySector = "technology"
	SectorEnergy         SubsidiarySector = "energy"
	SectorLogistics      SubsidiarySector = "logistics"
	SectorFinance        SubsidiarySector = "finance"
	SectorEnvironmental  SubsidiarySector = "environmental"
)

// SubsidiarySectors returns every portfolio sector in display order
func SubsidiarySectors() []SubsidiarySector {
	return []SubsidiarySector{
		SectorInfrastructure,
		SectorTechnology,
		SectorEnergy,
		SectorLogistics,
		SectorFinance,
		SectorEnvironmental,
	}
}

// Valid reports whether s is a known portfolio sector
func (s SubsidiarySector) Valid() bool {
	for _, known := range SubsidiarySectors() {
		if s == known {
			return true
		}
	}
	return false
}

// Badge variants
const (
	BadgeGold = "gold"
	BadgeDark = "dark"
)

// TrendLength is the number of points in a subsidiary sparkline
const TrendLength = 5

// Subsidiary represents a portfolio holding
type Subsidiary struct {
	ID                    string           `json:"id" yaml:"id"`
	Name                  string           `json:"name" yaml:"name"`
	Sector                SubsidiarySector `json:"sector" yaml:"sector"`
	SectorLabel           string           `json:"sector_label" yaml:"sector_label"`
	Description           string           `json:"description" yaml:"description"`
	AssetsUnderManagement string           `json:"assets_under_management" yaml:"assets_under_management"`
	AnnualGrowth          string           `json:"annual_growth" yaml:"annual_growth"`
	Badge                 string           `json:"badge,omitempty" yaml:"badge,omitempty"`
	BadgeVariant          string           `json:"badge_variant,omitempty" yaml:"badge_variant,omitempty"`
	Icon                  string           `json:"icon" yaml:"icon"`
	ImageURL              string           `json:"image_url" yaml:"image_url"`
	ImageAlt              string           `json:"image_alt" yaml:"image_alt"`
	Trend                 []int            `json:"trend" yaml:"trend"`
	Featured              bool             `json:"featured" yaml:"featured"`
	YearAcquired          int              `json:"year_acquired,omitempty" yaml:"year_acquired,omitempty"`
	Headquarters          string           `json:"headquarters,omitempty" yaml:"headquarters,omitempty"`
	Employees             string           `json:"employees,omitempty" yaml:"employees,omitempty"`
}

// Clone returns a copy of s that shares no memory with it
func (s Subsidiary) Clone() Subsidiary {
	s.Trend = slices.Clone(s.Trend)
	return s
}

// SparkBar is one bar of a subsidiary's trend chart
type SparkBar struct {
	Height int  `json:"height"`
	Recent bool `json:"recent"`
}

// Sparkline converts the trend into chart bars. The last two bars are marked
// recent so they can be highlighted.
func (s Subsidiary) Sparkline() []SparkBar {
	bars := make([]SparkBar, len(s.Trend))
	for i, v := range s.Trend {
		bars[i] = SparkBar{Height: v, Recent: i >= 3}
	}
	return bars
}

// InquirySubject is the contact form subject pre-filled from a portfolio card
func (s Subsidiary) InquirySubject() string {
	return "Portfolio Inquiry: " + s.Name
}
