package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/crime-dashboard/internal/catalog"
	"github.com/crime-dashboard/internal/config"
	"github.com/crime-dashboard/internal/dataset"
	httpDelivery "github.com/crime-dashboard/internal/delivery/http"
	"github.com/crime-dashboard/internal/delivery/http/handler"
	"github.com/crime-dashboard/internal/repository/cache"
	"github.com/crime-dashboard/internal/usecase"
)

const adminKey = "test-admin-key"

type testEnv struct {
	server    *httpDelivery.Server
	repo      *memReportRepo
	publisher *recordingPublisher
}

func newTestEnv(t *testing.T, source dataset.Source) *testEnv {
	t.Helper()
	log := zap.NewNop()

	cfg := &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0, AllowOrigins: []string{"http://localhost:5173"}},
		Auth:   config.AuthConfig{AdminAPIKey: adminKey},
	}

	cat := catalog.MustDefault()
	repo := newMemReportRepo()
	publisher := &recordingPublisher{}

	loader := dataset.NewLoader(source, log)
	statsUC := usecase.NewCrimeStatsUseCase(loader, cache.NewQueryCache(0), cat, log)
	reportUC := usecase.NewReportUseCase(repo, nopCache{}, publisher, cat, usecase.ReportUseCaseConfig{}, log)
	moderationUC := usecase.NewModerationStatsUseCase(repo, nopCache{}, 0, log)
	dashboardUC := usecase.NewDashboardUseCase(statsUC, reportUC, log)

	server := httpDelivery.NewServer(cfg, log, httpDelivery.Handlers{
		Health:  handler.NewHealthHandler(nil, log),
		Crime:   handler.NewCrimeHandler(statsUC, dashboardUC, log),
		Catalog: handler.NewCatalogHandler(cat, log),
		Reports: handler.NewReportHandler(reportUC, moderationUC, log),
	})

	return &testEnv{server: server, repo: repo, publisher: publisher}
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers map[string]string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := e.server.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func TestServer_Health(t *testing.T) {
	env := newTestEnv(t, stringSource{body: testCSV})

	status, _ := env.do(t, http.MethodGet, "/api/v1/health", nil, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestServer_CrimeStatistics(t *testing.T) {
	env := newTestEnv(t, stringSource{body: testCSV})

	t.Run("summary with dataset meta", func(t *testing.T) {
		status, body := env.do(t, http.MethodGet, "/api/v1/crime/summary", nil, nil)
		require.Equal(t, http.StatusOK, status)

		var data struct {
			TotalIncidents int `json:"total_incidents"`
		}
		require.NoError(t, json.Unmarshal(body.Data, &data))
		assert.Equal(t, 8100, data.TotalIncidents)

		ds := body.Meta["dataset"].(map[string]any)
		assert.Equal(t, "inline.csv", ds["source"])
		assert.Equal(t, false, ds["synthetic"])
	})

	t.Run("filtered summary", func(t *testing.T) {
		status, body := env.do(t, http.MethodGet, "/api/v1/crime/summary?district=Hyderabad&type=Theft", nil, nil)
		require.Equal(t, http.StatusOK, status)

		var data struct {
			TotalIncidents int `json:"total_incidents"`
		}
		require.NoError(t, json.Unmarshal(body.Data, &data))
		assert.Equal(t, 5000, data.TotalIncidents)
	})

	t.Run("invalid year", func(t *testing.T) {
		status, body := env.do(t, http.MethodGet, "/api/v1/crime/summary?year=latest", nil, nil)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INVALID_FILTER", body.Error.Code)
	})

	t.Run("top districts limit validation", func(t *testing.T) {
		status, _ := env.do(t, http.MethodGet, "/api/v1/crime/top-districts?limit=500", nil, nil)
		assert.Equal(t, http.StatusBadRequest, status)

		status, body := env.do(t, http.MethodGet, "/api/v1/crime/top-districts?limit=1", nil, nil)
		require.Equal(t, http.StatusOK, status)
		var data struct {
			Districts []struct {
				District string `json:"district"`
				Crimes   int    `json:"crimes"`
			} `json:"districts"`
		}
		require.NoError(t, json.Unmarshal(body.Data, &data))
		require.Len(t, data.Districts, 1)
		assert.Equal(t, "Hyderabad", data.Districts[0].District)
	})

	t.Run("district records with escaped name", func(t *testing.T) {
		status, body := env.do(t, http.MethodGet, "/api/v1/crime/districts/CID/records", nil, nil)
		require.Equal(t, http.StatusOK, status)
		assert.EqualValues(t, 1, body.Meta["total"])
	})

	t.Run("category types", func(t *testing.T) {
		status, body := env.do(t, http.MethodGet, "/api/v1/crime/categories/Property%20Crime/types", nil, nil)
		require.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `{"category":"Property Crime","types":["Theft"]}`, string(body.Data))
	})

	t.Run("map and dashboard", func(t *testing.T) {
		status, _ := env.do(t, http.MethodGet, "/api/v1/crime/map", nil, nil)
		assert.Equal(t, http.StatusOK, status)

		status, body := env.do(t, http.MethodGet, "/api/v1/dashboard", nil, nil)
		require.Equal(t, http.StatusOK, status)
		var data struct {
			ApprovedReports *int `json:"approved_reports"`
		}
		require.NoError(t, json.Unmarshal(body.Data, &data))
		require.NotNil(t, data.ApprovedReports)
		assert.Equal(t, 0, *data.ApprovedReports)
	})
}

func TestServer_DatasetUnavailable(t *testing.T) {
	env := newTestEnv(t, dataset.FileSource{Path: "testdata/does-not-exist.csv"})

	status, body := env.do(t, http.MethodGet, "/api/v1/crime/summary", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "DATASET_UNAVAILABLE", body.Error.Code)

	// Справочники и легенда от набора не зависят
	status, _ = env.do(t, http.MethodGet, "/api/v1/crime/severity-legend", nil, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = env.do(t, http.MethodGet, "/api/v1/catalog", nil, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestServer_NearestDistrict(t *testing.T) {
	env := newTestEnv(t, stringSource{body: testCSV})

	status, body := env.do(t, http.MethodGet, "/api/v1/districts/nearest?lat=17.98&lng=79.60", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body.Data), `"district":"Warangal"`)

	status, body = env.do(t, http.MethodGet, "/api/v1/districts/nearest?lat=51.5&lng=-0.12", nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "LOCATION_OUT_OF_RANGE", body.Error.Code)

	status, _ = env.do(t, http.MethodGet, "/api/v1/districts/nearest?lat=17.98", nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestServer_ReportLifecycle(t *testing.T) {
	env := newTestEnv(t, stringSource{body: testCSV})
	auth := map[string]string{"Authorization": "Bearer " + adminKey}

	submission := map[string]any{
		"crime_category": "Property Crime",
		"crime_type":     "Theft",
		"district":       "Hyderabad",
		"description":    "Phone snatched near the bus stop",
		"location":       map[string]float64{"lat": 17.3617, "lng": 78.4747},
		"exact_location": "Koti bus stop",
		"email":          "citizen@example.com",
		"is_anonymous":   true,
	}

	status, body := env.do(t, http.MethodPost, "/api/v1/reports", submission, nil)
	require.Equal(t, http.StatusCreated, status, body)

	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &created))
	assert.Equal(t, "pending", created.Status)
	assert.NotContains(t, string(body.Data), "email")

	// Pending сообщение не видно публично
	status, _ = env.do(t, http.MethodGet, "/api/v1/reports/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// Модерация требует ключ
	status, body = env.do(t, http.MethodGet, "/api/v1/admin/reports", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", body.Error.Code)

	// Анонимное сообщение хранится без email
	status, body = env.do(t, http.MethodGet, "/api/v1/admin/reports/"+created.ID, nil, auth)
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, string(body.Data), "citizen@example.com")

	status, body = env.do(t, http.MethodPatch, "/api/v1/admin/reports/"+created.ID+"/status",
		map[string]string{"status": "approved"}, auth)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body.Data), `"status":"approved"`)

	status, body = env.do(t, http.MethodPatch, "/api/v1/admin/reports/"+created.ID+"/status",
		map[string]string{"status": "rejected"}, auth)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_STATUS_TRANSITION", body.Error.Code)

	status, _ = env.do(t, http.MethodGet, "/api/v1/reports/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = env.do(t, http.MethodGet, "/api/v1/reports", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body.Meta["total"])

	status, body = env.do(t, http.MethodGet, "/api/v1/admin/reports/summary", nil, map[string]string{"X-API-Key": adminKey})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body.Data), `"approved":1`)

	env.publisher.mu.Lock()
	defer env.publisher.mu.Unlock()
	require.Len(t, env.publisher.events, 2)
	assert.Equal(t, "created", string(env.publisher.events[0].Type))
	assert.Equal(t, "status_changed", string(env.publisher.events[1].Type))
}

func TestServer_ReportValidation(t *testing.T) {
	env := newTestEnv(t, stringSource{body: testCSV})

	status, body := env.do(t, http.MethodPost, "/api/v1/reports", map[string]any{
		"crime_category": "Property Crime",
		"crime_type":     "Theft",
		"district":       "Hyderabad",
		"description":    "Phone snatched near the bus stop",
		"location":       map[string]float64{"lat": 17.3617, "lng": 78.4747},
		"exact_location": "Koti bus stop",
		"is_anonymous":   false,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
	assert.Contains(t, body.Error.Details, "email")

	status, body = env.do(t, http.MethodGet, "/api/v1/reports/not-a-uuid", nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_REPORT_ID", body.Error.Code)
}

func TestServer_ReloadDataset(t *testing.T) {
	env := newTestEnv(t, stringSource{body: testCSV})

	status, body := env.do(t, http.MethodPost, "/api/v1/admin/dataset/reload", nil, map[string]string{"X-API-Key": adminKey})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body.Data), `"records":4`)
}

func TestServer_UnknownRoute(t *testing.T) {
	env := newTestEnv(t, stringSource{body: testCSV})

	status, body := env.do(t, http.MethodGet, "/api/v1/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, body.Error)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
}
