package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/masonry/pkg/buildinfo"
	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/io"
	"github.com/matzehuels/masonry/pkg/layout"
	"github.com/matzehuels/masonry/pkg/pipeline"
	"github.com/matzehuels/masonry/pkg/store"
)

// =============================================================================
// Request and Response Types
// =============================================================================

// PackRequest is the body of POST /v1/pack. Options absent from the body
// keep the server defaults.
type PackRequest struct {
	Items   []layout.Item    `json:"items"`
	Options pipeline.Options `json:"options"`
}

// PackResponse describes a stored packing pass.
type PackResponse struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	ItemsHash string        `json:"items_hash"`
	Cached    bool          `json:"cached"`
	Placed    int           `json:"placed"`
	Unplaced  []string      `json:"unplaced,omitempty"`
	Layout    layout.Layout `json:"layout"`
}

// LayoutSummary is one entry of GET /v1/layouts.
type LayoutSummary struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Items     int       `json:"items"`
	Placed    int       `json:"placed"`
	Unplaced  int       `json:"unplaced"`
	Columns   int       `json:"columns"`
	Rows      int       `json:"rows"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handlePack(w http.ResponseWriter, r *http.Request) {
	req := PackRequest{Options: s.defaults}
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.checkLimits(req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := io.NormalizeItems(req.Items); err != nil {
		writeError(w, r, err)
		return
	}

	l, hit, err := s.runner.PackWithCacheInfo(r.Context(), req.Items, req.Options)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rec := store.NewRecord(req.Items, l)
	rec.ItemsHash = pipeline.HashItems(req.Items)
	if err := s.store.Save(r.Context(), rec); err != nil {
		s.logger.Error("save layout", "id", rec.ID, "err", err)
		writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/v1/layouts/"+rec.ID)
	writeJSON(w, http.StatusCreated, PackResponse{
		ID:        rec.ID,
		CreatedAt: rec.CreatedAt,
		ItemsHash: rec.ItemsHash,
		Cached:    hit,
		Placed:    len(l.Blocks),
		Unplaced:  l.Unplaced,
		Layout:    l,
	})
}

func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "limit must be a positive integer"))
			return
		}
		limit = n
	}

	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]LayoutSummary, 0, len(recs))
	for _, rec := range recs {
		out = append(out, LayoutSummary{
			ID:        rec.ID,
			CreatedAt: rec.CreatedAt,
			Items:     len(rec.Items),
			Placed:    len(rec.Layout.Blocks),
			Unplaced:  len(rec.Layout.Unplaced),
			Columns:   rec.Layout.Columns,
			Rows:      rec.Layout.Rows,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"layouts": out})
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	rec, err := s.record(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PackResponse{
		ID:        rec.ID,
		CreatedAt: rec.CreatedAt,
		ItemsHash: rec.ItemsHash,
		Placed:    len(rec.Layout.Blocks),
		Unplaced:  rec.Layout.Unplaced,
		Layout:    rec.Layout,
	})
}

func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := store.ValidateID(id); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := s.record(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	opts := s.defaults
	opts.Formats = []string{format}
	if err := applyRenderQuery(&opts, r); err != nil {
		writeError(w, r, err)
		return
	}
	if opts.Scale > s.maxScale {
		writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "scale %g exceeds %g", opts.Scale, s.maxScale))
		return
	}

	artifacts, hit, err := s.runner.RenderWithCacheInfo(r.Context(), rec.Layout, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	cacheStatus := "miss"
	if hit {
		cacheStatus = "hit"
	}
	data := artifacts[format]
	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) record(r *http.Request) (*store.Record, error) {
	id := chi.URLParam(r, "id")
	if err := store.ValidateID(id); err != nil {
		return nil, err
	}
	return s.store.Get(r.Context(), id)
}

// checkLimits rejects pack requests larger than the server allows.
func (s *Server) checkLimits(req PackRequest) error {
	switch o := req.Options; {
	case len(req.Items) > s.maxItems:
		return errors.New(errors.ErrCodeInvalidInput, "too many items: %d (max %d)", len(req.Items), s.maxItems)
	case o.Columns > s.maxColumns:
		return errors.New(errors.ErrCodeInvalidInput, "too many columns: %d (max %d)", o.Columns, s.maxColumns)
	case o.RowBound > s.maxRowBound:
		return errors.New(errors.ErrCodeInvalidInput, "row_bound %d exceeds %d", o.RowBound, s.maxRowBound)
	case o.MaxCellHeight > s.maxRowBound:
		return errors.New(errors.ErrCodeInvalidInput, "max_cell_height %d exceeds %d", o.MaxCellHeight, s.maxRowBound)
	}
	return nil
}

// decode reads a JSON body into v, rejecting unknown fields and bodies
// larger than the configured limit.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return errors.New(errors.ErrCodeInvalidInput, "decode request: %v", err)
	}
	return nil
}

// applyRenderQuery reads style, grid, labels and scale from the query string.
func applyRenderQuery(opts *pipeline.Options, r *http.Request) error {
	q := r.URL.Query()
	if v := q.Get("style"); v != "" {
		opts.Style = v
	}
	if v := q.Get("grid"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "grid must be a boolean")
		}
		opts.ShowGrid = b
	}
	if v := q.Get("labels"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "labels must be a boolean")
		}
		opts.HideLabels = !b
	}
	if v := q.Get("scale"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return errors.New(errors.ErrCodeInvalidInput, "scale must be a positive number")
		}
		opts.Scale = f
	}
	return nil
}
