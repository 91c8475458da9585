package models

// Page holds the metadata of one site page
type Page struct {
	Path        string `json:"path" yaml:"path"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// Stat is a headline figure shown in a stats bar
type Stat struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Tab is a sector filter tab. Key "all" selects every sector.
type Tab struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
}

// Intent is an inquiry category offered on the contact form
type Intent struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
	Sub   string `json:"sub" yaml:"sub"`
}

// Office is a regional headquarters listed on the contact page
type Office struct {
	Region  string `json:"region" yaml:"region"`
	Name    string `json:"name" yaml:"name"`
	Address string `json:"address" yaml:"address"`
	Phone   string `json:"phone" yaml:"phone"`
}

// Site holds the page-level content that is not one of the directories
type Site struct {
	Name           string      `json:"name" yaml:"name"`
	Pages          []Page      `json:"pages" yaml:"pages"`
	HomeStats      []Stat      `json:"home_stats" yaml:"home_stats"`
	PortfolioStats []Stat      `json:"portfolio_stats" yaml:"portfolio_stats"`
	PortfolioTabs  []Tab       `json:"portfolio_tabs" yaml:"portfolio_tabs"`
	InsightTabs    []Tab       `json:"insight_tabs" yaml:"insight_tabs"`
	Intents        []Intent    `json:"intents" yaml:"intents"`
	Offices        []Office    `json:"offices" yaml:"offices"`
	Milestones     []Milestone `json:"milestones" yaml:"milestones"`
}

// Page returns the metadata for path
func (s Site) Page(path string) (Page, bool) {
	for _, p := range s.Pages {
		if p.Path == path {
			return p, true
		}
	}
	return Page{}, false
}

// Intent returns the intent with the given key
func (s Site) Intent(key string) (Intent, bool) {
	for _, in := range s.Intents {
		if in.Key == key {
			return in, true
		}
	}
	return Intent{}, false
}

// Milestone is an entry on the company timeline
type Milestone struct {
	Year        string `json:"year" yaml:"year"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}
