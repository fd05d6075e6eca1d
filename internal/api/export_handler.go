package api

import (
	"encoding/json"
	"net/http"

	"github.com/heimdex/bsi-exporter/internal/export"
	"github.com/heimdex/bsi-exporter/internal/logging"
	"github.com/heimdex/bsi-exporter/internal/settings"
)

func exportHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req export.ExportRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		if err := export.ValidateOutputDir(req.OutputDir); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		if !req.All && len(req.Clips) == 0 {
			WriteError(w, http.StatusBadRequest, "clips must not be empty unless all is set", "BAD_REQUEST")
			return
		}
		if req.All && len(req.Clips) > 0 {
			WriteError(w, http.StatusBadRequest, "clips and all are mutually exclusive", "BAD_REQUEST")
			return
		}

		var (
			res *export.Result
			err error
		)
		if req.All {
			res, err = cfg.Exporter.ExportAll(req.OutputDir)
		} else {
			res, err = cfg.Exporter.ExportNamed(req.OutputDir, req.Clips)
		}

		if cfg.OnExport != nil {
			cfg.OnExport(res, err)
		}

		ctx := r.Context()
		logger := logging.WithRunID(cfg.Logger, res.RunID)
		if herr := settings.RecordResult(ctx, cfg.Repository, res); herr != nil {
			logger.Warn("failed to record export history", "error", herr)
		}
		if herr := settings.RememberResult(ctx, cfg.Repository, res); herr != nil {
			logger.Warn("failed to remember export paths", "error", herr)
		}

		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "EVALUATION_FAILED")
			return
		}

		if len(res.Exported) == 0 && len(res.Failed) == 0 && len(res.Unresolved) > 0 {
			WriteError(w, http.StatusUnprocessableEntity, "no clips could be resolved", "UNRESOLVABLE_CLIPS")
			return
		}

		WriteJSON(w, http.StatusOK, res.Response())
	}
}
