package settings

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/heimdex/bsi-exporter/internal/export"
)

// LastExportDir returns the directory of the last path remembered for clip,
// or "" when none is stored.
func LastExportDir(ctx context.Context, repo Repository, clip string) (string, error) {
	path, err := repo.GetConfig(ctx, ExportPathKey(clip))
	if err != nil || path == "" {
		return "", err
	}
	return filepath.Dir(path), nil
}

// RememberExportPaths stores path as the last export path of every clip.
func RememberExportPaths(ctx context.Context, repo Repository, clips []string, path string) error {
	for _, clip := range clips {
		if err := repo.SetConfig(ctx, ExportPathKey(clip), path); err != nil {
			return fmt.Errorf("failed to remember export path for %q: %w", clip, err)
		}
	}
	return nil
}

// RememberResult stores the written path of every exported clip of res.
func RememberResult(ctx context.Context, repo Repository, res *export.Result) error {
	for _, out := range res.Exported {
		if err := RememberExportPaths(ctx, repo, []string{out.Clip}, out.Path); err != nil {
			return err
		}
	}
	return nil
}

// RecordResult appends one history row per exported or failed clip.
func RecordResult(ctx context.Context, repo Repository, res *export.Result) error {
	for _, out := range res.Exported {
		rec := &ExportRecord{
			ID:     uuid.NewString(),
			RunID:  res.RunID,
			Clip:   out.Clip,
			Path:   out.Path,
			Status: ExportStatusOK,
			Frames: out.Frames,
			Nodes:  out.Nodes,
			Bytes:  out.Bytes,
		}
		if err := repo.RecordExport(ctx, rec); err != nil {
			return fmt.Errorf("failed to record export of %q: %w", out.Clip, err)
		}
	}
	for _, f := range res.Failed {
		rec := &ExportRecord{
			ID:     uuid.NewString(),
			RunID:  res.RunID,
			Clip:   f.Clip,
			Status: ExportStatusFailed,
			Kind:   string(f.Kind),
			Error:  f.Err.Error(),
		}
		if err := repo.RecordExport(ctx, rec); err != nil {
			return fmt.Errorf("failed to record failure of %q: %w", f.Clip, err)
		}
	}
	return nil
}
