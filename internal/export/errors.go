package export

import (
	"errors"
	"fmt"
)

// ErrorKind distinguishes the failure classes of an export run.
type ErrorKind string

const (
	// KindMissingRoot: the clip's scene has no node named after the root
	// convention. Reported per clip; the batch continues.
	KindMissingRoot ErrorKind = "missing_root"
	// KindIO: the artifact could not be created or written. Reported per
	// clip; the batch continues and a partial file may remain.
	KindIO ErrorKind = "io"
	// KindEvaluation: the environment failed while evaluating. Aborts the run.
	KindEvaluation ErrorKind = "evaluation"
)

var (
	ErrMissingRoot = errors.New("root node not found")
	ErrClipUnknown = errors.New("clip not found")
)

// ClipError is the failure of one clip's export.
type ClipError struct {
	Clip string
	Kind ErrorKind
	Err  error
}

func (e *ClipError) Error() string {
	return fmt.Sprintf("export clip %q (%s): %v", e.Clip, e.Kind, e.Err)
}

func (e *ClipError) Unwrap() error {
	return e.Err
}

// Fatal reports whether the error must abort the remaining clips.
func (e *ClipError) Fatal() bool {
	return e.Kind == KindEvaluation
}
