package api

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/marcusziade/maykott/pkg/contact"
	"github.com/marcusziade/maykott/pkg/directory"
	"github.com/marcusziade/maykott/pkg/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"home", "about", "investment", "portfolio", "insights", "contact", "notfound"}

// pages holds one template set per page, each sharing the layout
var pages = parsePages()

func parsePages() map[string]*template.Template {
	out := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		out[name] = template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"))
	}
	return out
}

// tabView is a filter tab as rendered
type tabView struct {
	Key    string
	Label  string
	Count  int
	Active bool
}

// pageData is everything a page template may render
type pageData struct {
	Meta         models.Page
	Site         models.Site
	Path         string
	Subsidiaries []models.Subsidiary
	Leaders      []models.Leader
	Tabs         []tabView
	Query        string
	Hero         *models.Insight
	Insights     []models.Insight
	Subject      string
	Inquiry      contact.Inquiry
	Errors       contact.FieldErrors
	Receipt      *contact.Receipt
}

func (s *Server) newPageData(path string) pageData {
	meta, ok := s.catalog.Site.Page(path)
	if !ok {
		meta = models.Page{Path: path, Title: s.catalog.Site.Name}
	}
	return pageData{Meta: meta, Site: s.catalog.Site, Path: path}
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data pageData) {
	var buf bytes.Buffer
	if err := pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		s.logger.Error("Failed to render page", zap.String("page", name), zap.Error(err))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Debug("Failed to write page", zap.Error(err))
	}
}

func (s *Server) homePage(w http.ResponseWriter, r *http.Request) {
	data := s.newPageData("/")
	data.Subsidiaries = s.catalog.Subsidiaries.Featured(s.limits.FeaturedSubsidiaries)
	data.Leaders = s.catalog.Leadership.Featured(s.limits.FeaturedLeaders)
	s.render(w, http.StatusOK, "home", data)
}

func (s *Server) aboutPage(w http.ResponseWriter, r *http.Request) {
	data := s.newPageData("/about")
	data.Leaders = s.catalog.Leadership.AllOrdered()
	s.render(w, http.StatusOK, "about", data)
}

func (s *Server) investmentPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "investment", s.newPageData("/investment"))
}

func (s *Server) portfolioPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := directory.ParseSectorFilter[models.SubsidiarySector](q.Get("sector"))

	data := s.newPageData("/portfolio")
	data.Query = q.Get("q")
	data.Subsidiaries = directory.SearchSubsidiaries(s.catalog.Subsidiaries.FilterBySector(f), data.Query)
	for _, c := range s.catalog.Subsidiaries.SectorCounts(s.catalog.Site.PortfolioTabs) {
		data.Tabs = append(data.Tabs, tabView{Key: c.Key, Label: c.Label, Count: c.Count, Active: c.Key == f.Key()})
	}
	s.render(w, http.StatusOK, "portfolio", data)
}

func (s *Server) insightsPage(w http.ResponseWriter, r *http.Request) {
	f := directory.ParseSectorFilter[models.InsightSector](r.URL.Query().Get("sector"))

	data := s.newPageData("/insights")
	if hero, ok := s.catalog.Insights.FeaturedInsight(); ok {
		data.Hero = &hero
	}
	data.Insights = s.catalog.Insights.Feed(f)
	for _, tab := range s.catalog.Site.InsightTabs {
		key := directory.ParseSectorFilter[models.InsightSector](tab.Key).Key()
		data.Tabs = append(data.Tabs, tabView{Key: key, Label: tab.Label, Active: key == f.Key()})
	}
	s.render(w, http.StatusOK, "insights", data)
}

func (s *Server) contactPage(w http.ResponseWriter, r *http.Request) {
	data := s.newPageData("/contact")
	data.Subject = r.URL.Query().Get("subject")
	s.render(w, http.StatusOK, "contact", data)
}

// contactFormPost handles the HTML form. It renders the page again with
// either the field errors or the receipt.
func (s *Server) contactFormPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	inquiry := contact.Inquiry{
		Name:         r.PostFormValue("name"),
		Email:        r.PostFormValue("email"),
		Organization: r.PostFormValue("organization"),
		Intent:       r.PostFormValue("intent"),
		Subject:      r.PostFormValue("subject"),
		Message:      r.PostFormValue("message"),
	}

	data := s.newPageData("/contact")
	data.Inquiry = inquiry
	data.Subject = inquiry.Subject

	receipt, err := s.submitter.Submit(r.Context(), inquiry)
	if err != nil {
		var fields contact.FieldErrors
		if !errors.As(err, &fields) {
			http.Error(w, "Submission interrupted", http.StatusServiceUnavailable)
			return
		}
		data.Errors = fields
		s.render(w, http.StatusUnprocessableEntity, "contact", data)
		return
	}
	data.Receipt = &receipt
	s.render(w, http.StatusOK, "contact", data)
}

func (s *Server) notFoundPage(w http.ResponseWriter, r *http.Request) {
	data := s.newPageData(r.URL.Path)
	data.Meta.Title = "Page Not Found | " + s.catalog.Site.Name
	s.render(w, http.StatusNotFound, "notfound", data)
}
