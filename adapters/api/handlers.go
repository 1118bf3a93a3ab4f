package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rick2x/fieldprofiler/app"
	"github.com/rick2x/fieldprofiler/domain/core"
	"github.com/rick2x/fieldprofiler/domain/profile"
	apperrors "github.com/rick2x/fieldprofiler/internal/errors"
)

func (a *App) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleListFields(w http.ResponseWriter, r *http.Request) {
	layer := chi.URLParam(r, "layer")
	source, err := a.sources.Resolve(layer)
	if err != nil {
		a.writeError(w, err)
		return
	}
	infos, err := source.Fields(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

func (a *App) handleProfile(w http.ResponseWriter, r *http.Request) {
	layer := chi.URLParam(r, "layer")
	source, err := a.sources.Resolve(layer)
	if err != nil {
		a.writeError(w, err)
		return
	}

	var dto ProfileRequestDTO
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			a.writeError(w, apperrors.InvalidInput("invalid request body: "+err.Error()))
			return
		}
	}

	run, err := a.profiles.Profile(r.Context(), source, app.ProfileRequest{
		Layer:       layer,
		Fields:      dto.Fields,
		SelectedIDs: toRecordIDs(dto.SelectedIDs),
		Config:      dto.Config,
	}, a.defaults)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRunDTO(run))
}

// handleDropLayerCache evicts a cached file layer so the next profile rereads
// it from disk, picking up edits made since the first open.
func (a *App) handleDropLayerCache(w http.ResponseWriter, r *http.Request) {
	a.sources.Invalidate(chi.URLParam(r, "layer"))
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID := core.RunID(chi.URLParam(r, "id"))
	run, ok := a.profiles.Run(runID)
	if !ok {
		a.writeError(w, apperrors.NotFound("run "+runID.String()))
		return
	}
	writeJSON(w, http.StatusOK, toRunDTO(run))
}

func (a *App) handleSelect(w http.ResponseWriter, r *http.Request) {
	runID := core.RunID(chi.URLParam(r, "id"))

	var dto SelectRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		a.writeError(w, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}
	if dto.Field == "" || dto.Key == "" {
		a.writeError(w, apperrors.InvalidInput("field and key are required"))
		return
	}

	result, err := a.profiles.Select(r.Context(), runID, dto.Field, profile.Key(dto.Key))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *App) handleExport(w http.ResponseWriter, r *http.Request) {
	runID := core.RunID(chi.URLParam(r, "id"))

	format, err := app.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	payload, err := a.exports.Export(runID, format)
	if err != nil {
		a.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

// writeError maps application errors onto HTTP statuses.
func (a *App) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperrors.GetCode(err) {
	case apperrors.CodeNotFound, apperrors.CodeFieldNotFound, apperrors.CodeLayerNotFound:
		status = http.StatusNotFound
	case apperrors.CodeInvalidInput:
		status = http.StatusBadRequest
	default:
		if core.IsNotFoundError(err) {
			status = http.StatusNotFound
		}
	}
	if status == http.StatusInternalServerError {
		a.logger.Error("request failed: %v", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
