package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/marcusziade/maykott/pkg/contact"
	"github.com/marcusziade/maykott/pkg/directory"
	"github.com/marcusziade/maykott/pkg/models"
)

// errorBody is the JSON shape of API errors
type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// insightsResponse is the insights page payload: the hero and the grid below it
type insightsResponse struct {
	Sector string           `json:"sector"`
	Hero   *models.Insight  `json:"hero,omitempty"`
	Feed   []models.Insight `json:"feed"`
}

// contactOptionsResponse lists what the contact form offers
type contactOptionsResponse struct {
	Intents []models.Intent `json:"intents"`
	Offices []models.Office `json:"offices"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorBody{Error: msg})
}

// listSubsidiaries handles GET /api/subsidiaries?sector=&q=
func (s *Server) listSubsidiaries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := directory.ParseSectorFilter[models.SubsidiarySector](q.Get("sector"))
	results := directory.SearchSubsidiaries(s.catalog.Subsidiaries.FilterBySector(f), q.Get("q"))
	s.writeJSON(w, http.StatusOK, results)
}

// featuredSubsidiaries handles GET /api/subsidiaries/featured
func (s *Server) featuredSubsidiaries(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.catalog.Subsidiaries.Featured(s.limits.FeaturedSubsidiaries))
}

// getSubsidiary handles GET /api/subsidiaries/{id}
func (s *Server) getSubsidiary(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	subsidiary, ok := s.catalog.Subsidiaries.FindByID(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("Subsidiary not found: %s", id))
		return
	}
	s.writeJSON(w, http.StatusOK, subsidiary)
}

// listSectors handles GET /api/sectors
func (s *Server) listSectors(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.catalog.Subsidiaries.SectorCounts(s.catalog.Site.PortfolioTabs))
}

// listLeaders handles GET /api/leaders
func (s *Server) listLeaders(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.catalog.Leadership.AllOrdered())
}

// featuredLeaders handles GET /api/leaders/featured
func (s *Server) featuredLeaders(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.catalog.Leadership.Featured(s.limits.FeaturedLeaders))
}

// listInsights handles GET /api/insights?sector=
func (s *Server) listInsights(w http.ResponseWriter, r *http.Request) {
	f := directory.ParseSectorFilter[models.InsightSector](r.URL.Query().Get("sector"))
	resp := insightsResponse{
		Sector: f.Key(),
		Feed:   s.catalog.Insights.Feed(f),
	}
	if hero, ok := s.catalog.Insights.FeaturedInsight(); ok {
		resp.Hero = &hero
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// featuredInsight handles GET /api/insights/featured
func (s *Server) featuredInsight(w http.ResponseWriter, r *http.Request) {
	hero, ok := s.catalog.Insights.FeaturedInsight()
	if !ok {
		s.writeError(w, http.StatusNotFound, "No featured insight")
		return
	}
	s.writeJSON(w, http.StatusOK, hero)
}

// getInsight handles GET /api/insights/{slug}
func (s *Server) getInsight(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	insight, ok := s.catalog.Insights.FindBySlug(slug)
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("Insight not found: %s", slug))
		return
	}
	s.writeJSON(w, http.StatusOK, insight)
}

// contactOptions handles GET /api/contact/options
func (s *Server) contactOptions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, contactOptionsResponse{
		Intents: s.catalog.Site.Intents,
		Offices: s.catalog.Site.Offices,
	})
}

// submitContact handles POST /api/contact
func (s *Server) submitContact(w http.ResponseWriter, r *http.Request) {
	var inquiry contact.Inquiry
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&inquiry); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	receipt, err := s.submitter.Submit(r.Context(), inquiry)
	if err != nil {
		var fields contact.FieldErrors
		switch {
		case errors.As(err, &fields):
			s.writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "Invalid inquiry", Fields: fields})
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			s.writeError(w, http.StatusServiceUnavailable, "Submission interrupted")
		default:
			s.logger.Error("Failed to submit inquiry", zap.Error(err))
			s.writeError(w, http.StatusInternalServerError, "Failed to submit inquiry")
		}
		return
	}
	s.writeJSON(w, http.StatusAccepted, receipt)
}

// healthz handles GET /healthz
func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) apiNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, http.StatusNotFound, fmt.Sprintf("No such endpoint: %s", r.URL.Path))
}
