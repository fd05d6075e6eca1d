package api

import (
	"github.com/heimdex/bsi-exporter/internal/scene"
	"github.com/heimdex/bsi-exporter/internal/settings"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
	Clips   int    `json:"clips"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type ClipResponse struct {
	Name           string `json:"name"`
	Start          int    `json:"start"`
	Stop           int    `json:"stop"`
	Eligible       bool   `json:"eligible"`
	LastExportPath string `json:"last_export_path,omitempty"`
}

type ClipsResponse struct {
	Clips []ClipResponse `json:"clips"`
}

type ExportsResponse struct {
	Exports []*settings.ExportRecord `json:"exports"`
}

func ClipToResponse(c scene.Clip, eligible bool, lastPath string) ClipResponse {
	start, stop := c.Span()
	return ClipResponse{
		Name:           c.Name(),
		Start:          start,
		Stop:           stop,
		Eligible:       eligible,
		LastExportPath: lastPath,
	}
}
