package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tractionlab/api/config"
	"tractionlab/api/database"
	"tractionlab/api/logger"
	"tractionlab/api/metrics"
	"tractionlab/api/models"
	"tractionlab/api/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	stores *store.Stores
}

func newTestServer(t *testing.T, mutate func(*config.Config)) *testServer {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.DataDir = t.TempDir()
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, cfg.Validate())

	fs, err := database.NewFileStore(cfg.Storage.DataDir)
	require.NoError(t, err)
	t.Cleanup(fs.Close)

	m := metrics.New(prometheus.NewRegistry())
	stores := store.New(fs, cfg, m)
	return &testServer{
		router: NewRouter(cfg, stores, m, logger.New(io.Discard, "error", "json")),
		stores: stores,
	}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// =============================================================================
// Page visits
// =============================================================================

func TestIndex_FirstVisitSetsCookie(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	cookie := findCookie(w, "tl_visited_main")
	require.NotNil(t, cookie)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 365*24*3600, cookie.MaxAge)

	assert.Equal(t, 1, s.stores.Counters.Get("views_main"))
	assert.Equal(t, 1, s.stores.Counters.Get("unique_main"))
}

func TestIndex_ReturningVisitor(t *testing.T) {
	s := newTestServer(t, nil)

	first := s.do(httptest.NewRequest(http.MethodGet, "/", nil))
	cookie := findCookie(first, "tl_visited_main")
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	w := s.do(req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, findCookie(w, "tl_visited_main"))
	assert.Equal(t, 2, s.stores.Counters.Get("views_main"))
	assert.Equal(t, 1, s.stores.Counters.Get("unique_main"))
}

func TestIndex_ShowsLeadCount(t *testing.T) {
	s := newTestServer(t, nil)
	_, err := s.stores.LeadStore.CreateLead(models.EarlyAccessRequest{Email: "a@b.com", Consent: true}, "")
	require.NoError(t, err)
	require.NoError(t, s.stores.Counters.Set("interest_counter", 77))

	w := s.do(httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, w.Body.String(), `<span id="lead-count">1</span>`)
}

func TestGuide_ShowsClicks(t *testing.T) {
	s := newTestServer(t, nil)
	require.NoError(t, s.stores.Counters.Set("interest_counter", 42))

	w := s.do(httptest.NewRequest(http.MethodGet, "/guide", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<span id="interest-count">42</span>`)
	assert.NotNil(t, findCookie(w, "tl_visited_guide"))
	assert.Equal(t, 1, s.stores.Counters.Get("views_guide"))
}

func TestGuide_UntrackedPage(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) {
		c.Tracking.Pages = []string{"main", "survey"}
	})

	w := s.do(httptest.NewRequest(http.MethodGet, "/guide", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 0, s.stores.Counters.Get("views_guide"))
}

// =============================================================================
// Survey
// =============================================================================

func TestSurvey_GetRendersForm(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(httptest.NewRequest(http.MethodGet, "/survey", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<form method="post" action="/survey">`)
	assert.Empty(t, s.stores.Responses.LoadAll())
}

func TestSurvey_PostStoresResponse(t *testing.T) {
	s := newTestServer(t, nil)

	form := url.Values{
		"usefulness":        {"5"},
		"llm_usage":         {" daily "},
		"main_problem":      {"context gets lost"},
		"ready_to_practice": {"yes"},
		"product_interest":  {"maybe"},
		"email":             {"x@y.io"},
	}
	req := httptest.NewRequest(http.MethodPost, "/survey", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := s.do(req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "your answers were saved")

	rows := s.stores.Responses.LoadAll()
	require.Len(t, rows, 1)
	assert.Equal(t, "daily", rows[0].LLMUsage)
	assert.Equal(t, "context gets lost", rows[0].MainProblem)
	assert.NotEmpty(t, rows[0].Timestamp)
	assert.Equal(t, 1, s.stores.Counters.Get("views_survey"))
}

// =============================================================================
// JSON API
// =============================================================================

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestInterest_Increments(t *testing.T) {
	s := newTestServer(t, nil)

	s.do(httptest.NewRequest(http.MethodPost, "/api/interest", nil))
	w := s.do(httptest.NewRequest(http.MethodPost, "/api/interest", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode(t, w)["count"])
}

func TestEarlyAccess_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"invalid email", `{"email":"not-an-email","consent":true}`, "invalid_email"},
		{"no consent", `{"email":"a@b.com","consent":false}`, "no_consent"},
		{"missing consent", `{"email":"a@b.com"}`, "no_consent"},
		{"malformed body", `{"email":`, "invalid_email"},
		{"not an object", `["a@b.com"]`, "invalid_email"},
		{"zero consent", `{"email":"a@b.com","consent":0}`, "no_consent"},
		{"empty consent", `{"email":"a@b.com","consent":""}`, "no_consent"},
		{"null consent", `{"email":"a@b.com","consent":null}`, "no_consent"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil)

			w := s.do(postJSON("/api/early-access", tt.body))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := decode(t, w)
			assert.Equal(t, false, body["ok"])
			assert.Equal(t, tt.code, body["error"])
			assert.Empty(t, s.stores.Leads.LoadAll())
		})
	}
}

func TestEarlyAccess_Success(t *testing.T) {
	s := newTestServer(t, nil)

	req := postJSON("/api/early-access", `{"email":"a@b.com","consent":true}`)
	req.Header.Set("User-Agent", "test-agent/1.0")
	w := s.do(req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, float64(1), body["count"])

	leads := s.stores.Leads.LoadAll()
	require.Len(t, leads, 1)
	assert.Equal(t, "test-agent/1.0", leads[0].UserAgent)
	assert.Equal(t, "landing", leads[0].Source)
	assert.Equal(t, 1, s.stores.Counters.Get("interest_counter"))

	w = s.do(postJSON("/api/early-access", `{"email":"c@d.com","consent":true}`))
	assert.Equal(t, float64(2), decode(t, w)["count"])
}

func TestEarlyAccess_LenientConsent(t *testing.T) {
	bodies := []string{
		`{"email":"a@b.com","consent":"yes"}`,
		`{"email":"a@b.com","consent":1}`,
		`{"email":" a@b.com ","consent":"on"}`,
	}
	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			s := newTestServer(t, nil)

			w := s.do(postJSON("/api/early-access", body))

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, true, decode(t, w)["ok"])
			leads := s.stores.Leads.LoadAll()
			require.Len(t, leads, 1)
			assert.Equal(t, "a@b.com", leads[0].Email)
			assert.True(t, leads[0].Consent)
		})
	}
}

func TestMetricsAPI(t *testing.T) {
	s := newTestServer(t, nil)
	s.do(httptest.NewRequest(http.MethodGet, "/", nil))
	s.do(httptest.NewRequest(http.MethodGet, "/", nil))
	s.do(httptest.NewRequest(http.MethodGet, "/guide", nil))
	s.do(httptest.NewRequest(http.MethodPost, "/api/interest", nil))

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"main":   {"views_total": 2, "views_unique": 2},
		"guide":  {"views_total": 1, "views_unique": 1},
		"survey": {"views_total": 0, "views_unique": 0},
		"clicks": 1
	}`, w.Body.String())
}

func TestAPI_CORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(httptest.NewRequest(http.MethodOptions, "/api/early-access", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

// =============================================================================
// Admin and ambient routes
// =============================================================================

func TestAdmin_HTML(t *testing.T) {
	s := newTestServer(t, nil)
	_, err := s.stores.Surveys.Submit(models.SurveyForm{Usefulness: "4", MainProblem: "too slow"})
	require.NoError(t, err)

	w := s.do(httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Survey (1 responses)")
	assert.Contains(t, w.Body.String(), "too slow")
	assert.Equal(t, 0, s.stores.Counters.Get("views_main"), "admin must not register visits")
}

func TestAdmin_JSON(t *testing.T) {
	s := newTestServer(t, nil)
	for _, email := range []string{"a@b.com", "c@d.com"} {
		_, err := s.stores.LeadStore.CreateLead(models.EarlyAccessRequest{Email: email, Consent: true}, "")
		require.NoError(t, err)
	}

	w := s.do(httptest.NewRequest(http.MethodGet, "/admin?format=json", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var report models.AdminReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 2, report.EarlyAccessTotal)
	assert.Len(t, report.EarlyAccessLast, 2)
	assert.Equal(t, 2, report.Metrics.Clicks)
	assert.Equal(t, 0, report.SurveyStats.Total)
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestPrometheusEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	s.do(httptest.NewRequest(http.MethodGet, "/", nil))

	w := s.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `landing_page_views_total{page="main"} 1`)
	assert.Contains(t, w.Body.String(), `landing_unique_visitors_total{page="main"} 1`)
}
