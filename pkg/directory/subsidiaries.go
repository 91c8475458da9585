package directory

import (
	"strings"

	"github.com/marcusziade/maykott/pkg/models"
)

// SubsidiaryFilter selects portfolio holdings by sector
type SubsidiaryFilter = SectorFilter[models.SubsidiarySector]

// Subsidiaries is the portfolio holding directory
type Subsidiaries struct {
	records []models.Subsidiary
}

// NewSubsidiaries creates a directory over a copy of records, keeping their order
func NewSubsidiaries(records []models.Subsidiary) *Subsidiaries {
	return &Subsidiaries{records: cloneHoldings(records)}
}

// All returns every holding in seed order
func (d *Subsidiaries) All() []models.Subsidiary {
	return cloneHoldings(d.records)
}

// Len returns the number of holdings
func (d *Subsidiaries) Len() int {
	return len(d.records)
}

// FilterBySector returns the holdings matching f in seed order. A sector that
// no holding uses yields an empty slice.
func (d *Subsidiaries) FilterBySector(f SubsidiaryFilter) []models.Subsidiary {
	return cloneHoldings(filterBy(d.records, f, func(s models.Subsidiary) models.SubsidiarySector { return s.Sector }))
}

// Featured returns featured holdings in seed order, at most limit of them.
// A limit of zero or less returns every featured holding.
func (d *Subsidiaries) Featured(limit int) []models.Subsidiary {
	return cloneHoldings(featured(d.records, func(s models.Subsidiary) bool { return s.Featured }, limit))
}

// FindByID looks up a holding by its exact ID
func (d *Subsidiaries) FindByID(id string) (models.Subsidiary, bool) {
	for _, s := range d.records {
		if s.ID == id {
			return s.Clone(), true
		}
	}
	return models.Subsidiary{}, false
}

// cloneHoldings copies records along with their trends
func cloneHoldings(records []models.Subsidiary) []models.Subsidiary {
	out := make([]models.Subsidiary, len(records))
	for i, s := range records {
		out[i] = s.Clone()
	}
	return out
}

// SectorCount is the number of holdings behind a portfolio tab
type SectorCount struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// SectorCounts counts the holdings behind each tab
func (d *Subsidiaries) SectorCounts(tabs []models.Tab) []SectorCount {
	counts := make([]SectorCount, 0, len(tabs))
	for _, tab := range tabs {
		f := ParseSectorFilter[models.SubsidiarySector](tab.Key)
		counts = append(counts, SectorCount{
			Key:   f.Key(),
			Label: tab.Label,
			Count: len(d.FilterBySector(f)),
		})
	}
	return counts
}

// SearchSubsidiaries keeps the holdings whose name or sector label contains
// query, ignoring case. The empty query keeps everything. Order is preserved.
func SearchSubsidiaries(records []models.Subsidiary, query string) []models.Subsidiary {
	q := strings.ToLower(query)
	out := make([]models.Subsidiary, 0, len(records))
	for _, s := range records {
		if strings.Contains(strings.ToLower(s.Name), q) ||
			strings.Contains(strings.ToLower(s.SectorLabel), q) {
			out = append(out, s)
		}
	}
	return out
}
