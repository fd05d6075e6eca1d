package export

// ExportRequest is what an external UI submits to run an export.
type ExportRequest struct {
	OutputDir string   `json:"output_dir"`
	Clips     []string `json:"clips"`
	All       bool     `json:"all"`
}

// ClipResult describes one written artifact.
type ClipResult struct {
	Clip   string `json:"clip"`
	Path   string `json:"path"`
	Frames int    `json:"frames"`
	Nodes  int    `json:"nodes"`
	Bytes  int64  `json:"bytes"`
}

// Result is the outcome of an export run.
type Result struct {
	RunID      string
	OutputDir  string
	Exported   []ClipResult
	Failed     []*ClipError
	Skipped    []string
	Unresolved []string
}

// Status summarizes the run: "ok", "partial" or "failed".
func (r *Result) Status() string {
	switch {
	case len(r.Failed) == 0 && len(r.Unresolved) == 0:
		return "ok"
	case len(r.Exported) > 0:
		return "partial"
	default:
		return "failed"
	}
}

// MissingRoot returns the clips that failed for lack of a root node.
func (r *Result) MissingRoot() []string {
	var clips []string
	for _, f := range r.Failed {
		if f.Kind == KindMissingRoot {
			clips = append(clips, f.Clip)
		}
	}
	return clips
}

type ClipFailure struct {
	Clip  string    `json:"clip"`
	Kind  ErrorKind `json:"kind"`
	Error string    `json:"error"`
}

type ExportResponse struct {
	Status     string        `json:"status"`
	RunID      string        `json:"run_id"`
	OutputDir  string        `json:"output_dir"`
	Exported   []ClipResult  `json:"exported"`
	Failed     []ClipFailure `json:"failed"`
	Skipped    []string      `json:"skipped"`
	Unresolved []string      `json:"unresolved_clips"`
}

// Response converts r for JSON clients.
func (r *Result) Response() ExportResponse {
	resp := ExportResponse{
		Status:     r.Status(),
		RunID:      r.RunID,
		OutputDir:  r.OutputDir,
		Exported:   r.Exported,
		Failed:     make([]ClipFailure, 0, len(r.Failed)),
		Skipped:    r.Skipped,
		Unresolved: r.Unresolved,
	}
	if resp.Exported == nil {
		resp.Exported = []ClipResult{}
	}
	if resp.Skipped == nil {
		resp.Skipped = []string{}
	}
	if resp.Unresolved == nil {
		resp.Unresolved = []string{}
	}
	for _, f := range r.Failed {
		resp.Failed = append(resp.Failed, ClipFailure{Clip: f.Clip, Kind: f.Kind, Error: f.Err.Error()})
	}
	return resp
}
