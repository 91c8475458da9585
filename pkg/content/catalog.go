package content

import (
	"io/fs"

	"github.com/marcusziade/maykott/pkg/directory"
	"github.com/marcusziade/maykott/pkg/models"
)

// Catalog is the validated, read-only content of the site
type Catalog struct {
	Subsidiaries *directory.Subsidiaries
	Leadership   *directory.Leadership
	Insights     *directory.Insights
	Site         models.Site
}

// NewCatalog validates seed and builds its directories
func NewCatalog(seed *Seed, rules Rules) (*Catalog, error) {
	if err := Validate(seed, rules); err != nil {
		return nil, err
	}
	return &Catalog{
		Subsidiaries: directory.NewSubsidiaries(seed.Subsidiaries),
		Leadership:   directory.NewLeadership(seed.Leaders),
		Insights:     directory.NewInsights(seed.Insights),
		Site:         seed.Site,
	}, nil
}

// Open loads, validates and builds the catalog from fsys
func Open(fsys fs.FS, rules Rules) (*Catalog, error) {
	seed, err := Load(fsys)
	if err != nil {
		return nil, err
	}
	return NewCatalog(seed, rules)
}

// Default builds the catalog from the embedded seed files
func Default(rules Rules) (*Catalog, error) {
	return Open(EmbeddedFS(), rules)
}
