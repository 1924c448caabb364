package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/graphmem"
	"github.com/soundprediction/graphmem/pkg/config"
	"github.com/soundprediction/graphmem/pkg/logger"
	"github.com/soundprediction/graphmem/pkg/server"
)

func newTestServer(t *testing.T) *server.Server {
	t.Helper()
	store, err := graphmem.New(graphmem.Options{
		Path:   filepath.Join(t.TempDir(), "graph.json"),
		Logger: logger.NewLogger(io.Discard, slog.LevelError, "text"),
	})
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Server.Host = "localhost"
	cfg.Server.Port = 0
	cfg.Server.Mode = "test"

	srv := server.New(cfg, store, logger.NewLogger(io.Discard, slog.LevelError, "text"))
	srv.Setup()
	return srv
}

func doJSON(t *testing.T, srv *server.Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/health", "/ready", "/live"} {
		w := doJSON(t, srv, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, "path %s", path)
	}
}

func TestEntityLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/entities", map[string]any{
		"entities": []map[string]any{
			{"name": "a", "entityType": "svc", "observations": []string{"x"}},
			{"name": "b", "entityType": "db"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, srv, http.MethodPost, "/api/v1/relations", map[string]any{
		"relations": []map[string]any{
			{"from": "a", "to": "b", "relationType": "depends_on"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, srv, http.MethodGet, "/api/v1/graph", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var graph struct {
		Entities  []json.RawMessage `json:"entities"`
		Relations []json.RawMessage `json:"relations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &graph))
	assert.Len(t, graph.Entities, 2)
	assert.Len(t, graph.Relations, 1)

	w = doJSON(t, srv, http.MethodDelete, "/api/v1/entities", map[string]any{
		"names": []string{"a"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, srv, http.MethodGet, "/api/v1/graph", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &graph))
	assert.Len(t, graph.Entities, 1)
	assert.Empty(t, graph.Relations)
}

func TestSearchOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/api/v1/entities", map[string]any{
		"entities": []map[string]any{
			{"name": "cache", "entityType": "redis"},
		},
	})

	w := doJSON(t, srv, http.MethodGet, "/api/v1/search?q=redis", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cache")

	w = doJSON(t, srv, http.MethodGet, "/api/v1/search?q=", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestErrorStatusMapping(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/api/v1/entities", map[string]any{
		"entities": []map[string]any{
			{"name": "a", "entityType": "svc"},
		},
	})

	t.Run("merge into missing target is a conflict", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPost, "/api/v1/merge", map[string]any{
			"source": "a", "target": "ghost",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("paths between unknown entities are not found", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPost, "/api/v1/paths", map[string]any{
			"source": "a", "target": "ghost", "maxLength": 2,
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/entities", bytes.NewReader([]byte("{")))
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unsupported export format is a bad request", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodGet, "/api/v1/export/xlsx", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBackupRestoreOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/api/v1/entities", map[string]any{
		"entities": []map[string]any{{"name": "a", "entityType": "svc"}},
	})

	w := doJSON(t, srv, http.MethodPost, "/api/v1/admin/backup", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var info struct {
		File string `json:"file"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	require.NotEmpty(t, info.File)

	doJSON(t, srv, http.MethodPost, "/api/v1/entities", map[string]any{
		"entities": []map[string]any{{"name": "b", "entityType": "svc"}},
	})

	w = doJSON(t, srv, http.MethodPost, "/api/v1/admin/restore", map[string]any{
		"backupFile": info.File,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, srv, http.MethodGet, "/api/v1/graph", nil)
	var graph struct {
		Entities []json.RawMessage `json:"entities"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &graph))
	assert.Len(t, graph.Entities, 1)
}
