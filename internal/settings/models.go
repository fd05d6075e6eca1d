package settings

import (
	"time"
)

const (
	ExportStatusOK     = "ok"
	ExportStatusFailed = "failed"

	// AuthTokenKey holds the bearer token the HTTP API accepts.
	AuthTokenKey = "auth_token"
)

// ExportRecord is one clip's entry in the export history.
type ExportRecord struct {
	ID        string    `json:"id"`
	RunID     string    `json:"run_id"`
	Clip      string    `json:"clip"`
	Path      string    `json:"path,omitempty"`
	Status    string    `json:"status"`
	Kind      string    `json:"kind,omitempty"`
	Error     string    `json:"error,omitempty"`
	Frames    int       `json:"frames"`
	Nodes     int       `json:"nodes"`
	Bytes     int64     `json:"bytes"`
	CreatedAt time.Time `json:"created_at"`
}

type ConfigEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ExportPathKey is the config key holding the last output filename chosen
// for clip.
func ExportPathKey(clip string) string {
	return clip + `\export_path`
}
