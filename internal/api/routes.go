package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heimdex/bsi-exporter/internal/export"
	"github.com/heimdex/bsi-exporter/internal/settings"
)

const (
	defaultExportsLimit = 50
	maxExportsLimit     = 500
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Repository, cfg.Logger))

		r.Get("/clips", listClipsHandler(cfg))
		r.Post("/export", exportHandler(cfg))
		r.Get("/exports", listExportsHandler(cfg))
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: cfg.Version,
			UptimeS: uptime,
			Clips:   len(cfg.Exporter.Scene().Clips()),
		})
	}
}

func listClipsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clips := cfg.Exporter.Scene().Clips()

		resp := ClipsResponse{Clips: make([]ClipResponse, len(clips))}
		for i, c := range clips {
			path, err := cfg.Repository.GetConfig(r.Context(), settings.ExportPathKey(c.Name()))
			if err != nil {
				WriteError(w, http.StatusInternalServerError, "failed to read export paths", "INTERNAL_ERROR")
				return
			}
			resp.Clips[i] = ClipToResponse(c, export.ShouldExport(c.Name()), path)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func listExportsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultExportsLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				WriteError(w, http.StatusBadRequest, "limit must be a positive integer", "BAD_REQUEST")
				return
			}
			limit = min(n, maxExportsLimit)
		}

		var (
			records []*settings.ExportRecord
			err     error
		)
		if clip := r.URL.Query().Get("clip"); clip != "" {
			records, err = cfg.Repository.ListExportsByClip(r.Context(), clip, limit)
		} else {
			records, err = cfg.Repository.ListExports(r.Context(), limit)
		}
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list exports", "INTERNAL_ERROR")
			return
		}
		if records == nil {
			records = []*settings.ExportRecord{}
		}
		WriteJSON(w, http.StatusOK, ExportsResponse{Exports: records})
	}
}
