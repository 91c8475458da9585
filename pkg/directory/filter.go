// Package directory holds the read-only content directories of the site and
// the queries the pages run against them. Directories copy their input on
// construction and hand out fresh slices, so callers can never mutate the
// loaded collections.
package directory

// AllKey is the filter key that selects every sector
const AllKey = "all"

// SectorFilter selects records by sector. The zero value matches nothing;
// build one with AllSectors, OnlySector or ParseSectorFilter.
type SectorFilter[S ~string] struct {
	sector S
	all    bool
}

// AllSectors returns a filter that matches every record
func AllSectors[S ~string]() SectorFilter[S] {
	return SectorFilter[S]{all: true}
}

// OnlySector returns a filter that matches records of a single sector
func OnlySector[S ~string](sector S) SectorFilter[S] {
	return SectorFilter[S]{sector: sector}
}

// ParseSectorFilter converts a filter key from a query string or flag.
// "all" and the empty key select every sector; anything else, including
// unknown sectors, selects that single sector.
func ParseSectorFilter[S ~string](key string) SectorFilter[S] {
	if key == "" || key == AllKey {
		return AllSectors[S]()
	}
	return OnlySector(S(key))
}

// IsAll reports whether the filter matches every sector
func (f SectorFilter[S]) IsAll() bool {
	return f.all
}

// Sector returns the selected sector and false for AllSectors
func (f SectorFilter[S]) Sector() (S, bool) {
	return f.sector, !f.all
}

// Key returns the boundary representation of the filter
func (f SectorFilter[S]) Key() string {
	if f.all {
		return AllKey
	}
	return string(f.sector)
}

// Matches reports whether a record in sector s passes the filter
func (f SectorFilter[S]) Matches(s S) bool {
	return f.all || f.sector == s
}

func filterBy[T any, S ~string](records []T, f SectorFilter[S], sectorOf func(T) S) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if f.Matches(sectorOf(r)) {
			out = append(out, r)
		}
	}
	return out
}

func featured[T any](records []T, isFeatured func(T) bool, limit int) []T {
	out := make([]T, 0)
	for _, r := range records {
		if limit > 0 && len(out) == limit {
			break
		}
		if isFeatured(r) {
			out = append(out, r)
		}
	}
	return out
}
