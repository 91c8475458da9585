package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/marcusziade/maykott/pkg/contact"
	"github.com/marcusziade/maykott/pkg/content"
)

// Limits caps the featured sections served by the API and the home page
type Limits struct {
	FeaturedSubsidiaries int
	FeaturedLeaders      int
}

// Server represents the site server
type Server struct {
	catalog   *content.Catalog
	submitter *contact.Submitter
	limits    Limits
	logger    *zap.Logger
	router    *mux.Router
}

// Option defines a server option
type Option func(*Server)

// WithLimits sets the featured caps
func WithLimits(limits Limits) Option {
	return func(s *Server) {
		s.limits = limits
	}
}

// WithSubmitter sets the contact form submitter
func WithSubmitter(submitter *contact.Submitter) Option {
	return func(s *Server) {
		s.submitter = submitter
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new server over catalog
func NewServer(catalog *content.Catalog, options ...Option) *Server {
	s := &Server{
		catalog: catalog,
		limits:  Limits{FeaturedSubsidiaries: 3, FeaturedLeaders: 4},
		logger:  zap.NewNop(),
		router:  mux.NewRouter(),
	}
	for _, option := range options {
		option(s)
	}
	if s.submitter == nil {
		s.submitter = contact.NewSubmitter(catalog.Site.Intents, contact.WithLogger(s.logger))
	}
	s.routes()
	return s
}

// routes sets up the routes for the server
func (s *Server) routes() {
	s.router.Use(s.logRequests)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/subsidiaries", s.listSubsidiaries).Methods(http.MethodGet)
	api.HandleFunc("/subsidiaries/featured", s.featuredSubsidiaries).Methods(http.MethodGet)
	api.HandleFunc("/subsidiaries/{id}", s.getSubsidiary).Methods(http.MethodGet)
	api.HandleFunc("/sectors", s.listSectors).Methods(http.MethodGet)
	api.HandleFunc("/leaders", s.listLeaders).Methods(http.MethodGet)
	api.HandleFunc("/leaders/featured", s.featuredLeaders).Methods(http.MethodGet)
	api.HandleFunc("/insights", s.listInsights).Methods(http.MethodGet)
	api.HandleFunc("/insights/featured", s.featuredInsight).Methods(http.MethodGet)
	api.HandleFunc("/insights/{slug}", s.getInsight).Methods(http.MethodGet)
	api.HandleFunc("/contact/options", s.contactOptions).Methods(http.MethodGet)
	api.HandleFunc("/contact", s.submitContact).Methods(http.MethodPost)
	api.NotFoundHandler = s.logRequests(http.HandlerFunc(s.apiNotFound))

	s.router.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	s.router.HandleFunc("/", s.homePage).Methods(http.MethodGet)
	s.router.HandleFunc("/about", s.aboutPage).Methods(http.MethodGet)
	s.router.HandleFunc("/investment", s.investmentPage).Methods(http.MethodGet)
	s.router.HandleFunc("/portfolio", s.portfolioPage).Methods(http.MethodGet)
	s.router.HandleFunc("/insights", s.insightsPage).Methods(http.MethodGet)
	s.router.HandleFunc("/contact", s.contactPage).Methods(http.MethodGet)
	s.router.HandleFunc("/contact", s.contactFormPost).Methods(http.MethodPost)
	s.router.NotFoundHandler = s.logRequests(http.HandlerFunc(s.notFoundPage))
}

// ServeHTTP implements the http.Handler interface
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// HTTPServer wraps the server in an http.Server with timeouts
func (s *Server) HTTPServer(addr string, readTimeout, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
	}
}

// ListenAndServe serves until ctx is done, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Site server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down site server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logRequests logs every request with its status and duration
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("Request served",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
