package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/heimdex/bsi-exporter/internal/export"
	"github.com/heimdex/bsi-exporter/internal/logging"
	"github.com/heimdex/bsi-exporter/internal/rig"
	"github.com/heimdex/bsi-exporter/internal/scene"
	"github.com/heimdex/bsi-exporter/internal/settings"
	"github.com/heimdex/bsi-exporter/internal/watcher"
)

const exportShortDescription = `Export clips to .bsi files`
const exportLongDescription = `Command "export"

Write one <clip>.bsi file per clip into the output directory.

With --clip only the named clips are exported, whatever their names. Without
it every clip whose name contains only lowercase letters, digits and
underscores is exported.

Without --dir the directory the first clip was last exported to is reused.
With --watch the scene is re-exported each time the rig document changes.
`

var errNoOutputDir = errors.New("no output directory: pass --dir")

func exportCommand(root *rootCommand) *cobra.Command {
	run := &exportRun{root: root}
	var watch bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: exportShortDescription,
		Long:  exportLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := root.loadScene()
			if err != nil {
				return err
			}

			database, repo, err := root.openRepository()
			if err != nil {
				return err
			}
			defer database.Close()
			run.repo = repo

			dir, err := run.resolveDir(ctx, s)
			if err != nil {
				return err
			}

			err = run.exportScene(ctx, s, dir)
			if !watch {
				return err
			}
			if err != nil {
				root.logger.Warn("export failed, waiting for changes", "error", err)
			}
			return run.watch(ctx, dir)
		},
	}

	cmd.Flags().StringVarP(&run.dir, "dir", "d", "", "output directory")
	cmd.Flags().StringArrayVarP(&run.clips, "clip", "c", nil, "clip to export, repeatable")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-export when the scene file changes")
	return cmd
}

type exportRun struct {
	root  *rootCommand
	repo  settings.Repository
	dir   string
	clips []string

	mu sync.Mutex
}

// resolveDir returns --dir, or the directory the first clip to export was
// last written to.
func (r *exportRun) resolveDir(ctx context.Context, s scene.Scene) (string, error) {
	dir := r.dir
	if dir == "" {
		first := ""
		if len(r.clips) > 0 {
			first = r.clips[0]
		} else if eligible, _ := export.Eligible(s.Clips()); len(eligible) > 0 {
			first = eligible[0].Name()
		}
		if first != "" {
			last, err := settings.LastExportDir(ctx, r.repo, first)
			if err != nil {
				return "", err
			}
			dir = last
		}
	}
	if dir == "" {
		return "", errNoOutputDir
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	if err := export.ValidateOutputDir(abs); err != nil {
		return "", err
	}
	return abs, nil
}

func (r *exportRun) exportScene(ctx context.Context, s scene.Scene, dir string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bar := newProgressBar(r.root.errOut)
	exporter := r.root.newExporter(s, bar)

	var (
		res *export.Result
		err error
	)
	if len(r.clips) > 0 {
		res, err = exporter.ExportNamed(dir, r.clips)
	} else {
		res, err = exporter.ExportAll(dir)
	}
	bar.finish()

	logger := logging.WithRunID(r.root.logger, res.RunID)
	if herr := settings.RecordResult(ctx, r.repo, res); herr != nil {
		logger.Warn("failed to record export history", "error", herr)
	}
	if herr := settings.RememberResult(ctx, r.repo, res); herr != nil {
		logger.Warn("failed to remember export paths", "error", herr)
	}

	printSummary(r.root.out, res)

	if err != nil {
		return err
	}
	return resultError(res)
}

func (r *exportRun) watch(ctx context.Context, dir string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watcher.NewFSWatcher(r.root.logger, watcher.DefaultDebounce)
	if err != nil {
		return err
	}
	defer w.Stop()

	w.OnChange(func(path string, event watcher.EventType) {
		logger := r.root.logger.With("path", logging.SanitizePath(path), "event", event.String())
		if event == watcher.EventDelete {
			logger.Warn("scene file removed, waiting for it to return")
			return
		}

		s, err := rig.Load(path)
		if err != nil {
			logger.Error("failed to reload scene", "error", err)
			return
		}
		logger.Info("scene changed, exporting")
		if err := r.exportScene(ctx, s, dir); err != nil {
			logger.Error("export failed", "error", err)
		}
	})

	err = w.Watch(ctx, r.root.sceneFile)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// resultError turns an incomplete run into a non-zero exit status.
func resultError(res *export.Result) error {
	if len(res.Unresolved) > 0 {
		return fmt.Errorf("%w: %s", export.ErrClipUnknown, strings.Join(res.Unresolved, ", "))
	}
	if len(res.Failed) > 0 {
		return fmt.Errorf("%d of %d clips failed to export", len(res.Failed), len(res.Failed)+len(res.Exported))
	}
	return nil
}

func printSummary(w io.Writer, res *export.Result) {
	for _, out := range res.Exported {
		fmt.Fprintf(w, "wrote %s (%d frames, %d nodes, %s)\n", out.Path, out.Frames, out.Nodes, humanize.Bytes(uint64(out.Bytes)))
	}
	for _, f := range res.Failed {
		fmt.Fprintf(w, "failed %s: %v\n", f.Clip, f.Err)
	}
	for _, name := range res.Unresolved {
		fmt.Fprintf(w, "unknown clip %s\n", name)
	}
	if len(res.Skipped) > 0 {
		fmt.Fprintf(w, "skipped %d clips: %s\n", len(res.Skipped), strings.Join(res.Skipped, ", "))
	}
}
