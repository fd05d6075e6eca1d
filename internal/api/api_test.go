package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/heimdex/bsi-exporter/internal/db"
	"github.com/heimdex/bsi-exporter/internal/export"
	"github.com/heimdex/bsi-exporter/internal/scene/scenetest"
	"github.com/heimdex/bsi-exporter/internal/settings"
)

const testToken = "test-token"

type testEnv struct {
	cfg    ServerConfig
	scene  *scenetest.Scene
	repo   settings.Repository
	router http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("db.New() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })

	repo := settings.NewRepository(database.Conn())
	if err := repo.SetConfig(context.Background(), settings.AuthTokenKey, testToken); err != nil {
		t.Fatalf("SetConfig() error = %v", err)
	}

	s := scenetest.New(
		[]*scenetest.Node{scenetest.NewNode("root_point").Add(scenetest.NewNode("spine"))},
		&scenetest.Clip{ClipName: "walk_01", Start: 0, Stop: 2},
		&scenetest.Clip{ClipName: "Idle", Start: 0, Stop: 0},
		&scenetest.Clip{ClipName: "run", Start: 5, Stop: 6},
	)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := ServerConfig{
		Exporter:   export.New(export.Config{Scene: s, Logger: logger}),
		Repository: repo,
		Logger:     logger,
		StartTime:  time.Now(),
		Version:    "test",
	}
	return &testEnv{cfg: cfg, scene: s, repo: repo, router: NewRouter(cfg)}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json.Marshal error: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+testToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body=%s)", err, rr.Body.String())
	}
}
