package rosreg_client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosverk/rosreg/sdk/go/rosreg_client"
)

func envelopeJSON(data interface{}) map[string]interface{} {
	return map[string]interface{}{
		"success":   true,
		"data":      data,
		"timestamp": 1756100000,
	}
}

func TestClientCreateRisk(t *testing.T) {
	var gotPath, gotActor, gotContentType string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotActor = r.Header.Get("X-Actor")
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(envelopeJSON(map[string]interface{}{
			"id":         "9f1b4a6e-0000-0000-0000-000000000001",
			"project_id": "9f1b4a6e-0000-0000-0000-000000000002",
			"title":      "Fiber cut on main route",
			"type":       "technical",
			"status":     "identified",
			"current": map[string]interface{}{
				"likelihood": 4, "consequence": 5, "score": 20, "level": "high", "color": "red",
			},
		}))
	}))
	defer server.Close()

	client := rosreg_client.NewClient(server.URL, rosreg_client.WithActor("ola.nordmann"))

	risk, err := client.CreateRisk(context.Background(), &rosreg_client.CreateRiskRequest{
		ProjectID: "9f1b4a6e-0000-0000-0000-000000000002",
		Title:     "Fiber cut on main route",
		Type:      "technical",
		Current:   rosreg_client.Assessment{Likelihood: 4, Consequence: 5},
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/risks", gotPath)
	assert.Equal(t, "ola.nordmann", gotActor)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "Fiber cut on main route", gotBody["title"])

	assert.Equal(t, "Fiber cut on main route", risk.Title)
	assert.Equal(t, 20, risk.Current.Score)
	assert.Equal(t, "high", risk.Current.Level)
}

func TestClientListRisksQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/risks", r.URL.Path)
		assert.Equal(t, "high", r.URL.Query().Get("level"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "", r.URL.Query().Get("status"))

		_ = json.NewEncoder(w).Encode(envelopeJSON(map[string]interface{}{
			"risks": []interface{}{},
			"pagination": map[string]interface{}{
				"page": 2, "page_size": 20, "total": 41, "total_pages": 3,
			},
		}))
	}))
	defer server.Close()

	client := rosreg_client.NewClient(server.URL)

	list, err := client.ListRisks(context.Background(), &rosreg_client.ListRisksQuery{Level: "high", Page: 2})
	require.NoError(t, err)
	assert.Empty(t, list.Risks)
	assert.Equal(t, int64(41), list.Pagination.Total)
	assert.Equal(t, 3, list.Pagination.TotalPages)
}

func TestClientErrorMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error": map[string]interface{}{
				"code":    "not_found",
				"message": "not found",
			},
			"trace_id":  "abc123",
			"timestamp": 1756100000,
		})
	}))
	defer server.Close()

	client := rosreg_client.NewClient(server.URL)

	_, err := client.GetRisk(context.Background(), "9f1b4a6e-0000-0000-0000-00000000dead")
	require.Error(t, err)

	var apiErr *rosreg_client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, rosreg_client.CodeNotFound, apiErr.Code)
	assert.Equal(t, "abc123", apiErr.TraceID)
	assert.True(t, rosreg_client.IsNotFound(err))
	assert.False(t, rosreg_client.IsConflict(err))
}

func TestClientDownloadExport(t *testing.T) {
	csv := "ID,Title\r\n1,Fiber cut\r\n"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/export/download", r.URL.Path)
		assert.Equal(t, "signed-token", r.URL.Query().Get("token"))

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="risk_register.csv"`)
		_, _ = w.Write([]byte(csv))
	}))
	defer server.Close()

	client := rosreg_client.NewClient(server.URL)

	doc, err := client.DownloadExport(context.Background(), "signed-token")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", doc.ContentType)
	assert.Equal(t, "risk_register.csv", doc.Filename)
	assert.Equal(t, csv, string(doc.Content))
}

func TestClientDownloadExportRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error": map[string]interface{}{
				"code":    "export_token_invalid",
				"message": "export token invalid",
			},
			"timestamp": 1756100000,
		})
	}))
	defer server.Close()

	client := rosreg_client.NewClient(server.URL)

	_, err := client.DownloadExport(context.Background(), "expired")
	require.Error(t, err)

	var apiErr *rosreg_client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, rosreg_client.CodeExportToken, apiErr.Code)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestClientHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "not_ready",
			"checks": map[string]string{
				"database": "ok",
				"redis":    "error: connection refused",
			},
		})
	}))
	defer server.Close()

	client := rosreg_client.NewClient(server.URL)

	status, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "not_ready", status.Status)
	assert.Equal(t, "ok", status.Checks["database"])
}
