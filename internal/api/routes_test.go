package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/heimdex/bsi-exporter/internal/settings"
)

func TestHealth_NoAuth(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	var resp HealthResponse
	decodeJSON(t, rr, &resp)
	if resp.Status != "ok" || resp.Version != "test" || resp.Clips != 3 {
		t.Errorf("health = %+v", resp)
	}
}

func TestMetrics_Exposed(t *testing.T) {
	env := newTestEnv(t)

	// populate the exporter series before scraping
	env.do(t, http.MethodPost, "/export", map[string]interface{}{"output_dir": t.TempDir(), "clips": []string{"run"}})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if !strings.Contains(rr.Body.String(), "bsi_clips_exported_total") {
		t.Error("metrics output missing bsi_clips_exported_total")
	}
}

func TestListClips(t *testing.T) {
	env := newTestEnv(t)
	if err := env.repo.SetConfig(context.Background(), settings.ExportPathKey("run"), "/exports/run.bsi"); err != nil {
		t.Fatalf("SetConfig() error = %v", err)
	}

	rr := env.do(t, http.MethodGet, "/clips", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp ClipsResponse
	decodeJSON(t, rr, &resp)
	want := []ClipResponse{
		{Name: "walk_01", Start: 0, Stop: 2, Eligible: true},
		{Name: "Idle", Start: 0, Stop: 0, Eligible: false},
		{Name: "run", Start: 5, Stop: 6, Eligible: true, LastExportPath: "/exports/run.bsi"},
	}
	if len(resp.Clips) != len(want) {
		t.Fatalf("clips = %+v", resp.Clips)
	}
	for i := range want {
		if resp.Clips[i] != want[i] {
			t.Errorf("clips[%d] = %+v, want %+v", i, resp.Clips[i], want[i])
		}
	}
}

func TestListExports(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, clip := range []string{"walk_01", "run", "walk_01"} {
		rec := &settings.ExportRecord{
			ID:        string(rune('a' + i)),
			RunID:     "run-1",
			Clip:      clip,
			Status:    settings.ExportStatusOK,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := env.repo.RecordExport(ctx, rec); err != nil {
			t.Fatalf("RecordExport() error = %v", err)
		}
	}

	tests := []struct {
		name    string
		path    string
		wantIDs []string
	}{
		{name: "all newest first", path: "/exports", wantIDs: []string{"c", "b", "a"}},
		{name: "limit", path: "/exports?limit=1", wantIDs: []string{"c"}},
		{name: "by clip", path: "/exports?clip=walk_01", wantIDs: []string{"c", "a"}},
		{name: "unknown clip", path: "/exports?clip=jump", wantIDs: []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := env.do(t, http.MethodGet, tc.path, nil)
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
			}
			var resp ExportsResponse
			decodeJSON(t, rr, &resp)
			if resp.Exports == nil {
				t.Fatal("exports = null, want array")
			}
			if len(resp.Exports) != len(tc.wantIDs) {
				t.Fatalf("exports = %d, want %d", len(resp.Exports), len(tc.wantIDs))
			}
			for i, id := range tc.wantIDs {
				if resp.Exports[i].ID != id {
					t.Errorf("exports[%d].ID = %q, want %q", i, resp.Exports[i].ID, id)
				}
			}
		})
	}
}

func TestListExports_BadLimit(t *testing.T) {
	env := newTestEnv(t)

	for _, limit := range []string{"0", "-3", "many"} {
		rr := env.do(t, http.MethodGet, "/exports?limit="+limit, nil)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("limit=%s status = %d, want %d", limit, rr.Code, http.StatusBadRequest)
		}
	}
}
