package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/geomkit/pkg/buildinfo"
	"github.com/matzehuels/geomkit/pkg/dataset"
	"github.com/matzehuels/geomkit/pkg/errors"
	"github.com/matzehuels/geomkit/pkg/observability"
	"github.com/matzehuels/geomkit/pkg/pipeline"
)

// chartRequest is the body of the layout and render endpoints. Data is a
// JSON array or tree, or a string holding CSV or YAML text named by
// DataFormat.
type chartRequest struct {
	Data       json.RawMessage  `json:"data"`
	DataFormat string           `json:"data_format,omitempty"`
	Options    pipeline.Options `json:"options"`
}

type scalesRequest struct {
	Data       json.RawMessage       `json:"data"`
	DataFormat string                `json:"data_format,omitempty"`
	Options    pipeline.ScaleOptions `json:"options"`
}

type renderResponse struct {
	Artifacts map[string][]byte `json:"artifacts"`
	DataHash  string            `json:"data_hash"`
	Cached    bool              `json:"cached"`
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:      "image/svg+xml",
	pipeline.FormatPNG:      "image/png",
	pipeline.FormatPDF:      "application/pdf",
	pipeline.FormatJSON:     "application/json",
	pipeline.FormatDOT:      "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatGraphSVG: "image/svg+xml",
	pipeline.FormatGraphPNG: "image/png",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	req, ds, err := s.decodeChart(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := req.Options
	opts.Chart = chi.URLParam(r, "chart")
	opts.Logger = s.logger

	scene, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), ds, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Cache", cacheHeader(hit))
	writeJSON(w, http.StatusOK, scene)
}

// handleRender answers a single format with the raw artifact and several
// formats with a JSON object of base64 artifacts.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, ds, err := s.decodeChart(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := req.Options
	opts.Chart = chi.URLParam(r, "chart")
	opts.Logger = s.logger

	result, err := s.runner.Execute(r.Context(), ds, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	hit := result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit
	w.Header().Set("X-Cache", cacheHeader(hit))

	if len(result.Artifacts) == 1 {
		for format, data := range result.Artifacts {
			w.Header().Set("Content-Type", contentTypes[format])
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(data)
		}
		return
	}
	writeJSON(w, http.StatusOK, renderResponse{
		Artifacts: result.Artifacts,
		DataHash:  result.DataHash,
		Cached:    hit,
	})
}

func (s *Server) handleScales(w http.ResponseWriter, r *http.Request) {
	var req scalesRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	ds, err := readData(r.Context(), req.Data, req.DataFormat)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Options.Palette) == 0 {
		req.Options.Palette = s.chart.ColorPalette
	}
	d, err := pipeline.Scales(ds, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// decodeChart reads a chart request whose chart options start from the
// server's configured defaults.
func (s *Server) decodeChart(w http.ResponseWriter, r *http.Request) (chartRequest, *dataset.Dataset, error) {
	chart := s.chart
	chart.ColorPalette = append([]string(nil), s.chart.ColorPalette...)
	req := chartRequest{Options: pipeline.Options{Config: &chart}}
	if err := s.decode(w, r, &req); err != nil {
		return req, nil, err
	}
	ds, err := readData(r.Context(), req.Data, req.DataFormat)
	return req, ds, err
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := r.Body
	if s.maxBody > 0 {
		body = http.MaxBytesReader(w, r.Body, s.maxBody)
	}
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed request body")
	}
	return nil
}

// readData parses the request's dataset. A JSON string carries CSV (the
// default) or YAML text.
func readData(ctx context.Context, raw json.RawMessage, format string) (*dataset.Dataset, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "data is required")
	}
	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "data")
		}
		if format == "" {
			format = "csv"
		}
		return pipeline.ReadDatasetBytes(ctx, "request", []byte(text), format)
	}
	if format != "" && format != "json" {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "data_format %q requires data as a string", format)
	}
	return pipeline.ReadDatasetBytes(ctx, "request", raw, "json")
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}

	route := r.URL.Path
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
		route = rctx.RoutePattern()
	}
	observability.HTTP().OnError(r.Context(), r.Method, route, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "route", route, "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	_ = enc.Encode(v)
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
