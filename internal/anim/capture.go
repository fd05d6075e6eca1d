package anim

import (
	"errors"
	"fmt"

	"github.com/heimdex/bsi-exporter/internal/scene"
	"github.com/heimdex/bsi-exporter/internal/transform"
)

// ErrEvaluation marks a failure raised by the evaluation environment. The
// evaluation state is unreliable afterwards, so callers abort the whole run.
var ErrEvaluation = errors.New("scene evaluation failed")

// Table is a dense frame-by-node matrix table for one clip.
type Table struct {
	// Frames holds the absolute frame number of each snapshot.
	Frames []int
	// Snapshots has one entry per frame, each with one matrix per node in
	// enumeration order.
	Snapshots [][]transform.Matrix
}

// Len returns the number of frames.
func (t *Table) Len() int {
	return len(t.Snapshots)
}

// Track returns node i's matrix for every frame.
func (t *Table) Track(i int) []transform.Matrix {
	track := make([]transform.Matrix, len(t.Snapshots))
	for f, snap := range t.Snapshots {
		track[f] = snap[i]
	}
	return track
}

// Capture activates clip and snapshots nodes at every frame of its span,
// start and stop inclusive. onAdvance, if not nil, is called once per frame
// advance of the time cursor.
func Capture(ev scene.Evaluator, clip scene.Clip, nodes []scene.Node, onAdvance func()) (*Table, error) {
	if err := ev.Activate(clip); err != nil {
		return nil, evalError("activate", clip, err)
	}
	if err := ev.Reevaluate(); err != nil {
		return nil, evalError("evaluate", clip, err)
	}

	start, stop := clip.Span()
	if err := ev.Seek(start); err != nil {
		return nil, evalError("seek", clip, err)
	}

	count := stop - start + 1
	if count < 1 {
		count = 1
	}
	table := &Table{
		Frames:    make([]int, 0, count),
		Snapshots: make([][]transform.Matrix, 0, count),
	}

	frame := start
	for {
		if err := ev.Reevaluate(); err != nil {
			return nil, evalError("evaluate", clip, err)
		}
		table.Frames = append(table.Frames, frame)
		table.Snapshots = append(table.Snapshots, Snapshot(nodes))
		if frame >= stop {
			break
		}
		if err := ev.Step(); err != nil {
			return nil, evalError("step", clip, err)
		}
		frame++
		if onAdvance != nil {
			onAdvance()
		}
	}
	return table, nil
}

func evalError(op string, clip scene.Clip, err error) error {
	return fmt.Errorf("%w: %s clip %q: %w", ErrEvaluation, op, clip.Name(), err)
}
