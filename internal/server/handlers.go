package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cdyellick/ponte/pkg/chartfile"
	"github.com/cdyellick/ponte/pkg/errors"
	"github.com/cdyellick/ponte/pkg/pipeline"
	"github.com/cdyellick/ponte/pkg/store"
)

// maxBodyBytes caps chart definition uploads.
const maxBodyBytes = 1 << 20

var formatContentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateChart(w http.ResponseWriter, r *http.Request) {
	var def chartfile.Definition
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&def); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidDefinition, err, "decoding chart definition"))
		return
	}

	// Reject definitions the core would refuse before storing them.
	if _, err := def.Build(); err != nil {
		s.writeError(w, err)
		return
	}

	chart := &store.StoredChart{Definition: def}
	if err := s.store.Save(r.Context(), chart); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, chart)
}

func (s *Server) handleListCharts(w http.ResponseWriter, r *http.Request) {
	charts, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, charts)
}

func (s *Server) handleGetChart(w http.ResponseWriter, r *http.Request) {
	chart, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chart)
}

func (s *Server) handleDeleteChart(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleChartLayout returns the pixel-space layout as JSON.
func (s *Server) handleChartLayout(w http.ResponseWriter, r *http.Request) {
	chart, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	opts := optionsFromQuery(r)
	opts.Formats = []string{pipeline.FormatJSON}
	result, err := s.runner.Execute(r.Context(), chart.Definition, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(result.Artifacts[pipeline.FormatJSON])
}

// handleChartRender returns a rendered artifact in the requested format.
func (s *Server) handleChartRender(w http.ResponseWriter, r *http.Request) {
	chart, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, err)
		return
	}

	opts := optionsFromQuery(r)
	opts.Formats = []string{format}
	result, err := s.runner.Execute(r.Context(), chart.Definition, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", formatContentTypes[format])
	_, _ = w.Write(result.Artifacts[format])
}

// optionsFromQuery reads shared layout and render options from the query
// string. Unparseable values fall back to the pipeline defaults.
func optionsFromQuery(r *http.Request) pipeline.Options {
	q := r.URL.Query()
	opts := pipeline.Options{
		Title: q.Get("title"),
		Style: q.Get("style"),
	}
	if v, err := strconv.ParseFloat(q.Get("width"), 64); err == nil {
		opts.Width = v
	}
	if v, err := strconv.ParseFloat(q.Get("height"), 64); err == nil {
		opts.Height = v
	}
	if v, err := strconv.ParseFloat(q.Get("scale"), 64); err == nil {
		opts.Scale = v
	}
	if v, err := strconv.ParseBool(q.Get("values")); err == nil {
		opts.ShowValues = v
	}
	if v, err := strconv.ParseBool(q.Get("refresh")); err == nil {
		opts.Refresh = v
	}
	return opts
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error code to an HTTP status and emits a JSON body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeNotFound, errors.ErrCodeChartNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidMask, errors.ErrCodeInvalidLayer,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidStyle, errors.ErrCodeInvalidDefinition,
		errors.ErrCodeUnsupported:
		status = http.StatusBadRequest
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "code", code, "err", err)
	}
	writeJSON(w, status, map[string]string{
		"code":  string(code),
		"error": errors.UserMessage(err),
	})
}
