package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/faskes-equity/internal/cluster"
	"github.com/sells-group/faskes-equity/internal/model"
	"github.com/sells-group/faskes-equity/internal/profile"
	"github.com/sells-group/faskes-equity/internal/report"
)

func testServer(t *testing.T, opts Options) http.Handler {
	t.Helper()
	s, err := cluster.NewScaler([]float64{100, 500, 0.5, 50}, []float64{50, 250, 0.2, 25})
	require.NoError(t, err)
	m, err := cluster.NewModel([][]float64{{-1, -1, -1, -1}, {0, 0, 0, 0}, {1, 1, 1, 1}})
	require.NoError(t, err)
	e, err := cluster.NewEngine(s, m, profile.Default())
	require.NoError(t, err)

	summary := report.Summarize([]model.Region{
		{Province: "ACEH", Cluster: 0, Features: model.Features{FacilityCount: 100, VisitCount: 400}},
		{Province: "BALI", Cluster: 1, Features: model.Features{FacilityCount: 300, VisitCount: 900}},
	})
	return NewServer(e, summary, opts).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := testServer(t, Options{})
	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestClassify_OK(t *testing.T) {
	h := testServer(t, Options{})
	rec := do(t, h, http.MethodPost, "/v1/classify",
		`{"facility_count":50,"visit_count":250,"mean_facility_weight":0.3,"total_facility_weight":25}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got model.Classification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, model.ClusterID(0), got.Cluster)
	assert.Equal(t, "Wilayah Tertinggal", got.Profile.Name)
	assert.Len(t, got.Distances, 3)
	assert.NotEmpty(t, got.RequestID)
}

func TestClassify_BadRequests(t *testing.T) {
	h := testServer(t, Options{})
	tests := []struct {
		name   string
		body   string
		detail string
	}{
		{"malformed", `{"facility_count":`, ""},
		{"unknown field", `{"facility_count":1,"visit_count":1,"mean_facility_weight":1,"total_facility_weight":1,"x":1}`, "unknown field"},
		{"missing field", `{"facility_count":1,"visit_count":1}`, "mean_facility_weight, total_facility_weight"},
		{"negative", `{"facility_count":-1,"visit_count":1,"mean_facility_weight":1,"total_facility_weight":1}`, "facility_count must be >= 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/v1/classify", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

			var p Problem
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
			assert.Equal(t, http.StatusBadRequest, p.Status)
			assert.Contains(t, p.Detail, tt.detail)
		})
	}
}

func TestClusters(t *testing.T) {
	h := testServer(t, Options{})
	rec := do(t, h, http.MethodGet, "/v1/clusters", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		K        int                    `json:"k"`
		Clusters []model.ClusterProfile `json:"clusters"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.K)
	require.Len(t, body.Clusters, 3)
	assert.Equal(t, "Wilayah Relatif Maju", body.Clusters[2].Name)
}

func TestClusterByID(t *testing.T) {
	h := testServer(t, Options{})

	rec := do(t, h, http.MethodGet, "/v1/clusters/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Profile model.ClusterProfile `json:"profile"`
		Stats   report.ClusterStats  `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Wilayah Tertekan", body.Profile.Name)
	assert.Equal(t, 1, body.Stats.Regions)
	assert.Equal(t, 300.0, body.Stats.MeanFacilityCount)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/v1/clusters/9", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/v1/clusters/abc", "").Code)
}

func TestSummary(t *testing.T) {
	h := testServer(t, Options{})
	rec := do(t, h, http.MethodGet, "/v1/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got report.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 2, got.Provinces)
	assert.Equal(t, int64(400), got.TotalFacilities)
	assert.Equal(t, int64(1300), got.TotalVisits)
}

func TestRateLimit(t *testing.T) {
	h := testServer(t, Options{RateLimit: 0.001, RateBurst: 2})

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/v1/summary", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/v1/summary", "").Code)
	rec := do(t, h, http.MethodGet, "/v1/summary", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// health is outside the limited group
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := testServer(t, Options{})
	do(t, h, http.MethodPost, "/v1/classify",
		`{"facility_count":150,"visit_count":750,"mean_facility_weight":0.7,"total_facility_weight":75}`)

	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "faskes_classifications_total")
	assert.Contains(t, rec.Body.String(), "faskes_http_requests_total")
}

func TestCORS(t *testing.T) {
	h := testServer(t, Options{CORSOrigins: []string{"https://dashboard.example.org"}})
	req := httptest.NewRequest(http.MethodOptions, "/v1/classify", nil)
	req.Header.Set("Origin", "https://dashboard.example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://dashboard.example.org", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(cluster.ErrInvalidInput))
	assert.Equal(t, http.StatusBadRequest, statusFor(cluster.ErrShapeMismatch))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(cluster.ErrModelNotLoaded))
	assert.Equal(t, http.StatusInternalServerError, statusFor(cluster.ErrDegenerateScale))
	assert.Equal(t, http.StatusInternalServerError, statusFor(cluster.ErrConfiguration))
	assert.Equal(t, "unknown_cluster", errorKind(cluster.ErrUnknownCluster))
}

func TestNilEngine(t *testing.T) {
	h := NewServer(nil, report.Summary{}, Options{}).Handler()
	rec := do(t, h, http.MethodPost, "/v1/classify",
		`{"facility_count":1,"visit_count":1,"mean_facility_weight":1,"total_facility_weight":1}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
