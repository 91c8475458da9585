package directory

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcusziade/maykott/pkg/models"
)

func holding(id, name string, sector models.SubsidiarySector, label string, featured bool) models.Subsidiary {
	return models.Subsidiary{
		ID:          id,
		Name:        name,
		Sector:      sector,
		SectorLabel: label,
		Trend:       []int{1, 2, 3, 4, 4},
		Featured:    featured,
	}
}

func testHoldings() []models.Subsidiary {
	return []models.Subsidiary{
		holding("a", "Alpha Port", models.SectorLogistics, "Harbour Logistics", true),
		holding("b", "Bravo Chips", models.SectorTechnology, "Semiconductors", false),
		holding("c", "Charlie Grid", models.SectorEnergy, "Power", true),
		holding("d", "Delta Code", models.SectorTechnology, "Software", true),
		holding("e", "Echo Bank", models.SectorFinance, "Merchant Banking", true),
	}
}

func ids(records []models.Subsidiary) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestSubsidiariesFilterBySector(t *testing.T) {
	d := NewSubsidiaries(testHoldings())

	got := ids(d.FilterBySector(OnlySector(models.SectorTechnology)))
	if diff := cmp.Diff([]string{"b", "d"}, got); diff != "" {
		t.Errorf("technology filter mismatch (-want +got):\n%s", diff)
	}

	all := d.FilterBySector(AllSectors[models.SubsidiarySector]())
	if diff := cmp.Diff(testHoldings(), all); diff != "" {
		t.Errorf("all filter should return the whole collection (-want +got):\n%s", diff)
	}
}

func TestSubsidiariesFilterUnknownSectorIsEmpty(t *testing.T) {
	d := NewSubsidiaries(testHoldings())
	got := d.FilterBySector(ParseSectorFilter[models.SubsidiarySector]("space-mining"))
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSubsidiariesFilterPartitionsCollection(t *testing.T) {
	d := NewSubsidiaries(testHoldings())
	seen := map[string]int{}
	for _, sector := range models.SubsidiarySectors() {
		for _, s := range d.FilterBySector(OnlySector(sector)) {
			assert.Equal(t, sector, s.Sector)
			seen[s.ID]++
		}
	}
	assert.Len(t, seen, d.Len())
	for id, n := range seen {
		assert.Equal(t, 1, n, "holding %s returned by more than one sector", id)
	}
}

func TestSubsidiariesFeatured(t *testing.T) {
	d := NewSubsidiaries(testHoldings())

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{name: "capped", limit: 3, want: []string{"a", "c", "d"}},
		{name: "cap above count", limit: 10, want: []string{"a", "c", "d", "e"}},
		{name: "uncapped", limit: 0, want: []string{"a", "c", "d", "e"}},
		{name: "single", limit: 1, want: []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Featured(tt.limit)
			if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
				t.Errorf("Featured(%d) mismatch (-want +got):\n%s", tt.limit, diff)
			}
			for _, s := range got {
				assert.True(t, s.Featured)
			}
		})
	}
}

func TestSubsidiariesFeaturedNoneFlagged(t *testing.T) {
	d := NewSubsidiaries([]models.Subsidiary{holding("x", "X", models.SectorEnergy, "", false)})
	assert.Empty(t, d.Featured(3))
}

func TestSubsidiariesFindByID(t *testing.T) {
	d := NewSubsidiaries(testHoldings())

	s, ok := d.FindByID("c")
	require.True(t, ok)
	assert.Equal(t, "Charlie Grid", s.Name)

	for _, id := range []string{"", "C", "zzz"} {
		_, ok := d.FindByID(id)
		assert.False(t, ok, "FindByID(%q) should report absence", id)
	}
}

func TestSubsidiariesAreCopied(t *testing.T) {
	input := testHoldings()
	d := NewSubsidiaries(input)
	input[0].Name = "mutated"

	out := d.All()
	assert.Equal(t, "Alpha Port", out[0].Name)
	out[1].Name = "mutated too"
	assert.Equal(t, "Bravo Chips", d.All()[1].Name)
}

func TestSubsidiaryTrendsAreCopied(t *testing.T) {
	input := testHoldings()
	d := NewSubsidiaries(input)
	input[0].Trend[0] = 42

	out := d.All()
	out[0].Trend[0] = 99
	d.FilterBySector(AllSectors[models.SubsidiarySector]())[0].Trend[1] = 99
	d.Featured(0)[0].Trend[2] = 99
	found, ok := d.FindByID("a")
	require.True(t, ok)
	found.Trend[3] = 99

	again, ok := d.FindByID("a")
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3, 4, 4}, again.Trend)
}

func TestSearchSubsidiaries(t *testing.T) {
	records := testHoldings()

	tests := []struct {
		query string
		want  []string
	}{
		{query: "", want: []string{"a", "b", "c", "d", "e"}},
		{query: "ALPHA", want: []string{"a"}},
		{query: "banking", want: []string{"e"}},
		{query: "CH", want: []string{"b", "c", "e"}},
		{query: "nothing matches", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := SearchSubsidiaries(records, tt.query)
			if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
				t.Errorf("SearchSubsidiaries(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestSearchComposesWithSectorFilter(t *testing.T) {
	d := NewSubsidiaries(testHoldings())
	tech := d.FilterBySector(OnlySector(models.SectorTechnology))

	if diff := cmp.Diff(tech, SearchSubsidiaries(tech, "")); diff != "" {
		t.Errorf("empty query should not change the sector result (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"d"}, ids(SearchSubsidiaries(tech, "software")))
}

func TestSectorCounts(t *testing.T) {
	d := NewSubsidiaries(testHoldings())
	tabs := []models.Tab{
		{Key: "all", Label: "All Holdings"},
		{Key: "technology", Label: "Technology"},
		{Key: "infrastructure", Label: "Infrastructure"},
	}
	want := []SectorCount{
		{Key: "all", Label: "All Holdings", Count: 5},
		{Key: "technology", Label: "Technology", Count: 2},
		{Key: "infrastructure", Label: "Infrastructure", Count: 0},
	}
	if diff := cmp.Diff(want, d.SectorCounts(tabs)); diff != "" {
		t.Errorf("SectorCounts mismatch (-want +got):\n%s", diff)
	}
}
