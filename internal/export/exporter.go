package export

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heimdex/bsi-exporter/internal/anim"
	"github.com/heimdex/bsi-exporter/internal/logging"
	"github.com/heimdex/bsi-exporter/internal/metrics"
	"github.com/heimdex/bsi-exporter/internal/scene"
)

// DefaultRootName is the naming convention for the exported subtree root.
const DefaultRootName = "root_point"

type Config struct {
	Scene    scene.Scene
	RootName string
	Encode   EncodeOptions
	Progress ProgressSink
	Logger   *slog.Logger
}

// Exporter writes one .bsi artifact per clip. Clip activation mutates the
// scene's evaluation state, so runs are serialized.
type Exporter struct {
	scene    scene.Scene
	rootName string
	encode   EncodeOptions
	progress ProgressSink
	logger   *slog.Logger

	mu sync.Mutex
}

func New(cfg Config) *Exporter {
	rootName := cfg.RootName
	if rootName == "" {
		rootName = DefaultRootName
	}
	return &Exporter{
		scene:    cfg.Scene,
		rootName: rootName,
		encode:   cfg.Encode.withDefaults(),
		progress: cfg.Progress,
		logger:   logging.WithComponent(logging.OrDiscard(cfg.Logger), "exporter"),
	}
}

// Scene returns the scene the exporter reads from.
func (e *Exporter) Scene() scene.Scene {
	return e.scene
}

// Export writes every clip in clips to dir, in order, whatever its name.
//
// Missing-root and I/O failures are collected in Result.Failed and the batch
// continues. An evaluation failure stops the run: the returned error is the
// *ClipError and Result holds what was exported before it.
func (e *Exporter) Export(dir string, clips []scene.Clip) (*Result, error) {
	return e.run(dir, clips, newResult(dir))
}

// ExportAll writes every clip of the scene whose name passes ShouldExport.
func (e *Exporter) ExportAll(dir string) (*Result, error) {
	eligible, skipped := Eligible(e.scene.Clips())
	res := newResult(dir)
	res.Skipped = skipped
	return e.run(dir, eligible, res)
}

// ExportNamed resolves names against the scene and exports the clips found.
// Unknown names are reported in Result.Unresolved.
func (e *Exporter) ExportNamed(dir string, names []string) (*Result, error) {
	clips, unresolved := ResolveClips(e.scene, names)
	res := newResult(dir)
	res.Unresolved = unresolved
	return e.run(dir, clips, res)
}

func newResult(dir string) *Result {
	return &Result{RunID: uuid.NewString(), OutputDir: dir}
}

func (e *Exporter) run(dir string, clips []scene.Clip, res *Result) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	metrics.ExportsActive.Inc()
	defer metrics.ExportsActive.Dec()

	logger := logging.WithRunID(e.logger, res.RunID)
	logger.Info("export started", "output_dir", logging.SanitizePath(dir), "clips", len(clips), "skipped", len(res.Skipped))

	r := &clipRun{Exporter: e, dir: dir, logger: logger, track: newTracker(e.progress, len(clips))}
	for _, clip := range clips {
		started := time.Now()
		out, err := r.exportClip(clip)
		if err != nil {
			var clipErr *ClipError
			if !errors.As(err, &clipErr) {
				clipErr = &ClipError{Clip: clip.Name(), Kind: KindIO, Err: err}
			}
			res.Failed = append(res.Failed, clipErr)
			metrics.RecordClip(string(clipErr.Kind), 0, time.Since(started))

			if clipErr.Fatal() {
				logger.Error("export aborted", "clip", clip.Name(), "error", clipErr.Err)
				return res, clipErr
			}
			logger.Warn("clip export failed", "clip", clip.Name(), "kind", clipErr.Kind, "error", clipErr.Err)
		} else {
			res.Exported = append(res.Exported, out)
			metrics.RecordClip("ok", out.Frames, time.Since(started))
		}
		r.track.nextClip()
	}

	logger.Info("export finished", "status", res.Status(), "exported", len(res.Exported), "failed", len(res.Failed))
	return res, nil
}

// clipRun is the state of one run. The hierarchy is enumerated on the first
// clip and reused for every later clip of the run.
type clipRun struct {
	*Exporter
	dir    string
	logger *slog.Logger
	track  *tracker
	nodes  []scene.Node
	names  []string
}

func (r *clipRun) exportClip(clip scene.Clip) (ClipResult, error) {
	name := clip.Name()
	logger := logging.WithClip(r.logger, name)

	if r.nodes == nil {
		root := scene.FindNode(r.scene.RootModel(), r.rootName)
		if root == nil {
			return ClipResult{}, &ClipError{Clip: name, Kind: KindMissingRoot, Err: fmt.Errorf("%w: %q", ErrMissingRoot, r.rootName)}
		}
		r.nodes = scene.Enumerate(root)
		r.names = scene.Names(r.nodes)
		logger.Debug("hierarchy enumerated", "nodes", len(r.nodes))
	}

	start, stop := clip.Span()
	r.track.startClip(name, stop-start+1)

	table, err := anim.Capture(r.scene, clip, r.nodes, r.track.nextFrame)
	if err != nil {
		return ClipResult{}, &ClipError{Clip: name, Kind: KindEvaluation, Err: err}
	}

	path := OutputPath(r.dir, name)
	n, err := writeFile(path, r.names, table, r.encode)
	if err != nil {
		return ClipResult{}, &ClipError{Clip: name, Kind: KindIO, Err: err}
	}

	logger.Info("clip exported", "path", logging.SanitizePath(path), "frames", table.Len(), "nodes", len(r.nodes), "bytes", n)
	return ClipResult{Clip: name, Path: path, Frames: table.Len(), Nodes: len(r.nodes), Bytes: n}, nil
}

// writeFile is not transactional: a failed write leaves the partial file.
func writeFile(path string, names []string, table *anim.Table, opts EncodeOptions) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}

	cw := &countingWriter{w: f}
	if err := WriteBSI(cw, names, table, opts); err != nil {
		f.Close()
		return cw.n, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return cw.n, fmt.Errorf("failed to close %s: %w", path, err)
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
