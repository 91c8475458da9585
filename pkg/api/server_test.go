package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/marcusziade/maykott/pkg/contact"
	"github.com/marcusziade/maykott/pkg/content"
	"github.com/marcusziade/maykott/pkg/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testRules = content.Rules{AllowedImageHosts: []string{"images.unsplash.com", "lh3.googleusercontent.com", "plus.unsplash.com"}}

func newTestServer(t *testing.T, options ...Option) *Server {
	t.Helper()
	catalog, err := content.Default(testRules)
	require.NoError(t, err)
	options = append([]Option{
		WithSubmitter(contact.NewSubmitter(catalog.Site.Intents, contact.WithDelay(0))),
	}, options...)
	return NewServer(catalog, options...)
}

func do(t *testing.T, s *Server, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out), rec.Body.String())
	return out
}

func subsidiaryIDs(records []models.Subsidiary) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func insightIDs(records []models.Insight) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestListSubsidiaries(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"no filter", "", []string{"maykott-systems", "atlas-logistics", "nova-grid", "beta-infrastructure", "gamma-ventures", "delta-sustain", "epsilon-capital", "zeta-robotics"}},
		{"technology", "?sector=technology", []string{"maykott-systems", "gamma-ventures", "zeta-robotics"}},
		{"all with search", "?sector=all&q=LOGISTICS", []string{"atlas-logistics", "beta-infrastructure"}},
		{"sector and search", "?sector=technology&q=robot", []string{"zeta-robotics"}},
		{"unknown sector", "?sector=aerospace", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, "/api/subsidiaries"+tt.query, "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			got := decode[[]models.Subsidiary](t, rec)
			if diff := cmp.Diff(tt.want, subsidiaryIDs(got)); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFeaturedSubsidiariesCap(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/subsidiaries/featured", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"maykott-systems", "atlas-logistics", "nova-grid"}, subsidiaryIDs(decode[[]models.Subsidiary](t, rec)))

	s := newTestServer(t, WithLimits(Limits{FeaturedSubsidiaries: 1, FeaturedLeaders: 2}))
	rec = do(t, s, http.MethodGet, "/api/subsidiaries/featured", "")
	assert.Equal(t, []string{"maykott-systems"}, subsidiaryIDs(decode[[]models.Subsidiary](t, rec)))

	rec = do(t, s, http.MethodGet, "/api/leaders/featured", "")
	assert.Len(t, decode[[]models.Leader](t, rec), 2)
}

func TestGetSubsidiary(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/subsidiaries/nova-grid", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[models.Subsidiary](t, rec)
	assert.Equal(t, "Nova Grid", got.Name)
	assert.Equal(t, models.SectorEnergy, got.Sector)

	rec = do(t, s, http.MethodGet, "/api/subsidiaries/omega", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode[errorBody](t, rec).Error, "omega")
}

func TestListSectors(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/sectors", "")
	require.Equal(t, http.StatusOK, rec.Code)

	counts := map[string]int{}
	for _, c := range decode[[]struct {
		Key   string `json:"key"`
		Count int    `json:"count"`
	}](t, rec) {
		counts[c.Key] = c.Count
	}
	assert.Equal(t, map[string]int{"all": 8, "infrastructure": 1, "technology": 3, "energy": 1, "logistics": 1}, counts)
}

func TestLeaders(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/leaders", "")
	require.Equal(t, http.StatusOK, rec.Code)
	leaders := decode[[]models.Leader](t, rec)
	require.Len(t, leaders, 6)
	for i, l := range leaders {
		assert.Equal(t, i+1, l.Order)
	}

	rec = do(t, s, http.MethodGet, "/api/leaders/featured", "")
	featured := decode[[]models.Leader](t, rec)
	require.Len(t, featured, 4)
	assert.Equal(t, "arthur-maykott", featured[0].ID)
}

func TestListInsights(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"hydrogen-paradox-frontier-markets", "decarbonizing-supply-chains", "private-equity-high-inflation", "semiconductor-geopolitics", "sovereign-wealth-sustainable-forestry"}},
		{"?sector=energy", []string{"hydrogen-paradox-frontier-markets"}},
		{"?sector=infrastructure", []string{}},
		{"?sector=space", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, "/api/insights"+tt.query, "")
			require.Equal(t, http.StatusOK, rec.Code)
			got := decode[insightsResponse](t, rec)
			require.NotNil(t, got.Hero)
			assert.Equal(t, "global-infrastructure-outlook-2025", got.Hero.ID)
			assert.Equal(t, tt.want, insightIDs(got.Feed))
		})
	}
}

func TestFeaturedInsightAndSlug(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/insights/featured", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Global Infrastructure Outlook 2025", decode[models.Insight](t, rec).Title)

	rec = do(t, s, http.MethodGet, "/api/insights/semiconductor-geopolitics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.InsightSector("technology"), decode[models.Insight](t, rec).Sector)

	rec = do(t, s, http.MethodGet, "/api/insights/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFeaturedInsightAbsent(t *testing.T) {
	seed, err := content.Load(content.EmbeddedFS())
	require.NoError(t, err)
	seed.Insights = nil
	catalog, err := content.NewCatalog(seed, testRules)
	require.NoError(t, err)
	s := NewServer(catalog)

	rec := do(t, s, http.MethodGet, "/api/insights/featured", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/insights", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[insightsResponse](t, rec)
	assert.Nil(t, got.Hero)
	assert.Empty(t, got.Feed)
}

func TestContactOptions(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/contact/options", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[contactOptionsResponse](t, rec)
	require.Len(t, got.Intents, 3)
	assert.Equal(t, "sovereign", got.Intents[0].Key)
	assert.NotEmpty(t, got.Offices)
}

func TestSubmitContact(t *testing.T) {
	s := newTestServer(t)

	t.Run("accepted", func(t *testing.T) {
		body := `{"name":"Ada","email":"ada@example.com","intent":"private","message":"Hello"}`
		rec := do(t, s, http.MethodPost, "/api/contact", body)
		require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
		receipt := decode[contact.Receipt](t, rec)
		assert.NotEmpty(t, receipt.Reference)
		assert.False(t, receipt.ReceivedAt.IsZero())
	})

	t.Run("field errors", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/api/contact", `{"email":"nope","intent":"retail"}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		got := decode[errorBody](t, rec)
		assert.ElementsMatch(t, []string{"name", "email", "intent", "message"}, keys(got.Fields))
	})

	t.Run("malformed", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/api/contact", `{"name":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown field", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/api/contact", `{"name":"Ada","phone":"555"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSubmitContactCancelled(t *testing.T) {
	catalog, err := content.Default(testRules)
	require.NoError(t, err)
	s := NewServer(catalog, WithSubmitter(contact.NewSubmitter(catalog.Site.Intents, contact.WithDelay(time.Hour))))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	body := `{"name":"Ada","email":"ada@example.com","intent":"private","message":"Hello"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body)).WithContext(ctx)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUnknownAPIRoute(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/nothing/here", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestNotFoundRequestsAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := newTestServer(t, WithLogger(zap.New(core)))

	for _, target := range []string{"/api/nothing/here", "/no/such/page"} {
		rec := do(t, s, http.MethodGet, target, "")
		require.Equal(t, http.StatusNotFound, rec.Code)

		served := logs.FilterMessage("Request served").FilterField(zap.String("path", target)).All()
		require.Len(t, served, 1, target)
		assert.Equal(t, int64(http.StatusNotFound), served[0].ContextMap()["status"])
	}
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"status": "ok"}, decode[map[string]string](t, rec))
	assert.Empty(t, rec.Header().Get("X-Powered-By"))
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	s := newTestServer(t)
	srv := s.HTTPServer("127.0.0.1:0", time.Second, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.ListenAndServe(ctx, srv, time.Second)
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func formBody(values map[string]string) string {
	form := url.Values{}
	for k, v := range values {
		form.Set(k, v)
	}
	return form.Encode()
}
