package settings

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/heimdex/bsi-exporter/internal/db"
	"github.com/heimdex/bsi-exporter/internal/export"
)

func setupTestDB(t *testing.T) (*db.DB, Repository) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	database, err := db.New(dbPath, nil)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	repo := NewRepository(database.Conn())
	return database, repo
}

func TestConfig_GetSet(t *testing.T) {
	database, repo := setupTestDB(t)
	defer database.Close()
	ctx := context.Background()

	got, err := repo.GetConfig(ctx, "missing")
	if err != nil {
		t.Fatalf("GetConfig() error = %v", err)
	}
	if got != "" {
		t.Errorf("GetConfig(missing) = %q, want empty", got)
	}

	if err := repo.SetConfig(ctx, "auth_token", "one"); err != nil {
		t.Fatalf("SetConfig() error = %v", err)
	}
	if err := repo.SetConfig(ctx, "auth_token", "two"); err != nil {
		t.Fatalf("SetConfig() overwrite error = %v", err)
	}

	got, err = repo.GetConfig(ctx, "auth_token")
	if err != nil {
		t.Fatalf("GetConfig() error = %v", err)
	}
	if got != "two" {
		t.Errorf("GetConfig(auth_token) = %q, want two", got)
	}
}

func TestExportPaths(t *testing.T) {
	database, repo := setupTestDB(t)
	defer database.Close()
	ctx := context.Background()

	dir, err := LastExportDir(ctx, repo, "walk_01")
	if err != nil || dir != "" {
		t.Fatalf("LastExportDir() = %q, %v; want empty", dir, err)
	}

	path := filepath.Join("/exports", "units", "walk_01.bsi")
	if err := RememberExportPaths(ctx, repo, []string{"walk_01", "run"}, path); err != nil {
		t.Fatalf("RememberExportPaths() error = %v", err)
	}

	for _, clip := range []string{"walk_01", "run"} {
		dir, err := LastExportDir(ctx, repo, clip)
		if err != nil {
			t.Fatalf("LastExportDir(%s) error = %v", clip, err)
		}
		if dir != filepath.Join("/exports", "units") {
			t.Errorf("LastExportDir(%s) = %q", clip, dir)
		}
	}

	raw, _ := repo.GetConfig(ctx, `walk_01\export_path`)
	if raw != path {
		t.Errorf("raw config value = %q, want %q", raw, path)
	}
}

func TestRecordResult(t *testing.T) {
	database, repo := setupTestDB(t)
	defer database.Close()
	ctx := context.Background()

	res := &export.Result{
		RunID: "run-1",
		Exported: []export.ClipResult{
			{Clip: "walk_01", Path: "/out/walk_01.bsi", Frames: 31, Nodes: 4, Bytes: 1024},
		},
		Failed: []*export.ClipError{
			{Clip: "idle", Kind: export.KindMissingRoot, Err: export.ErrMissingRoot},
		},
	}
	if err := RecordResult(ctx, repo, res); err != nil {
		t.Fatalf("RecordResult() error = %v", err)
	}

	records, err := repo.ListExports(ctx, 10)
	if err != nil {
		t.Fatalf("ListExports() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}

	byClip := map[string]*ExportRecord{}
	for _, r := range records {
		byClip[r.Clip] = r
		if r.RunID != "run-1" {
			t.Errorf("record %s run id = %q", r.Clip, r.RunID)
		}
	}
	if ok := byClip["walk_01"]; ok == nil || ok.Status != ExportStatusOK || ok.Frames != 31 || ok.Bytes != 1024 {
		t.Errorf("walk_01 record = %+v", ok)
	}
	if failed := byClip["idle"]; failed == nil || failed.Status != ExportStatusFailed || failed.Kind != "missing_root" || failed.Error == "" {
		t.Errorf("idle record = %+v", failed)
	}
}

func TestListExportsByClip_NewestFirst(t *testing.T) {
	database, repo := setupTestDB(t)
	defer database.Close()
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		err := repo.RecordExport(ctx, &ExportRecord{
			ID: id, RunID: "r", Clip: "walk", Status: ExportStatusOK, CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("RecordExport(%s) error = %v", id, err)
		}
	}
	if err := repo.RecordExport(ctx, &ExportRecord{ID: "x", RunID: "r", Clip: "run", Status: ExportStatusOK}); err != nil {
		t.Fatalf("RecordExport(x) error = %v", err)
	}

	records, err := repo.ListExportsByClip(ctx, "walk", 2)
	if err != nil {
		t.Fatalf("ListExportsByClip() error = %v", err)
	}
	if len(records) != 2 || records[0].ID != "c" || records[1].ID != "b" {
		t.Fatalf("ListExportsByClip() = %+v, want c then b", records)
	}
	if !records[0].CreatedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("CreatedAt = %v", records[0].CreatedAt)
	}
}

type failingRepo struct {
	Repository
}

func (failingRepo) SetConfig(ctx context.Context, key, value string) error {
	return errors.New("read-only")
}

func TestRememberExportPaths_Error(t *testing.T) {
	err := RememberExportPaths(context.Background(), failingRepo{}, []string{"walk"}, "/x/walk.bsi")
	if err == nil {
		t.Fatal("RememberExportPaths() expected error")
	}
}

func TestRememberResult(t *testing.T) {
	database, repo := setupTestDB(t)
	defer database.Close()
	ctx := context.Background()

	res := &export.Result{
		Exported: []export.ClipResult{
			{Clip: "walk_01", Path: filepath.Join("/a", "walk_01.bsi")},
			{Clip: "run", Path: filepath.Join("/b", "run.bsi")},
		},
		Failed: []*export.ClipError{{Clip: "idle", Kind: export.KindIO, Err: errors.New("disk full")}},
	}
	if err := RememberResult(ctx, repo, res); err != nil {
		t.Fatalf("RememberResult() error = %v", err)
	}

	want := map[string]string{"walk_01": "/a", "run": "/b", "idle": ""}
	for clip, wantDir := range want {
		dir, err := LastExportDir(ctx, repo, clip)
		if err != nil {
			t.Fatalf("LastExportDir(%s) error = %v", clip, err)
		}
		if dir != filepath.FromSlash(wantDir) {
			t.Errorf("LastExportDir(%s) = %q, want %q", clip, dir, wantDir)
		}
	}
}
