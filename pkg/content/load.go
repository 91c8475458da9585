// Package content loads the site's seed data, checks its integrity and
// assembles the directories the site serves from.
package content

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/marcusziade/maykott/pkg/models"
)

//go:embed data/*.yaml
var embedded embed.FS

// Seed file names
const (
	SubsidiariesFile = "subsidiaries.yaml"
	LeadershipFile   = "leadership.yaml"
	InsightsFile     = "insights.yaml"
	SiteFile         = "site.yaml"
)

// Seed is the raw content read from the seed files
type Seed struct {
	Subsidiaries []models.Subsidiary
	Leaders      []models.Leader
	Insights     []models.Insight
	Site         models.Site
}

// EmbeddedFS returns the seed files compiled into the binary
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(fmt.Sprintf("embedded content missing: %v", err))
	}
	return sub
}

// Load reads every seed file from fsys
func Load(fsys fs.FS) (*Seed, error) {
	seed := &Seed{}
	if err := decodeFile(fsys, SubsidiariesFile, &seed.Subsidiaries); err != nil {
		return nil, err
	}
	if err := decodeFile(fsys, LeadershipFile, &seed.Leaders); err != nil {
		return nil, err
	}
	if err := decodeFile(fsys, InsightsFile, &seed.Insights); err != nil {
		return nil, err
	}
	if err := decodeFile(fsys, SiteFile, &seed.Site); err != nil {
		return nil, err
	}
	return seed, nil
}

func decodeFile(fsys fs.FS, name string, out any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}
