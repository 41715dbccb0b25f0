package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/sizemap/pkg/buildinfo"
	"github.com/matzehuels/sizemap/pkg/errors"
	"github.com/matzehuels/sizemap/pkg/observability"
	"github.com/matzehuels/sizemap/pkg/pipeline"
	"github.com/matzehuels/sizemap/pkg/render/nodelink"
	"github.com/matzehuels/sizemap/pkg/render/sink"
	"github.com/matzehuels/sizemap/pkg/render/styles"
	"github.com/matzehuels/sizemap/pkg/session"
	"github.com/matzehuels/sizemap/pkg/treemap/color"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatTXT:  "text/plain; charset=utf-8",
	pipeline.FormatDOT:  "text/vnd.graphviz",
}

// =============================================================================
// Stateless endpoints
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"build":   buildinfo.Get(),
		"viewers": s.Viewers(),
	})
}

type treeResponse struct {
	Hash    string `json:"hash"`
	Name    string `json:"name"`
	Entries int    `json:"entries"`
	Leaves  int    `json:"leaves"`
}

func (s *Server) handleUploadTree(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxTreeBytes))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read tree"))
		return
	}
	root, hash, err := s.runner.Load(r.Context(), pipeline.Options{Input: data, InputName: "upload"})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, treeResponse{
		Hash:    hash,
		Name:    root.Name(),
		Entries: root.Count(),
		Leaves:  len(root.Leaves()),
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	hash := q.Get("tree")
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	width, height, err := parseViewport(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := pipeline.Options{
		Width:       width,
		Height:      height,
		Address:     q.Get("address"),
		Formats:     []string{format},
		Interactive: q.Get("interactive") == "true",
	}
	if err := opts.ValidateForRender(); err != nil {
		s.writeError(w, r, err)
		return
	}

	root, err := s.runner.LoadByHash(r.Context(), hash)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	frame, layoutHit, err := s.runner.FrameWithCacheInfo(r.Context(), root, hash, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	artifacts, renderHit, err := s.runner.RenderWithCacheInfo(r.Context(), root, frame, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Sizemap-Address", frame.Address)
	w.Header().Set("X-Sizemap-Cache", cacheHeader(layoutHit, renderHit))
	s.writeBytes(w, contentTypes[format], artifacts[format])
}

func cacheHeader(layoutHit, renderHit bool) string {
	switch {
	case renderHit:
		return "hit"
	case layoutHit:
		return "layout"
	default:
		return "miss"
	}
}

// =============================================================================
// Session lifecycle
// =============================================================================

type openRequest struct {
	Tree    string  `json:"tree"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Address string  `json:"address"`
}

type sessionResponse struct {
	ID      string `json:"id"`
	Address string `json:"address"`
}

func (s *Server) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	var req openRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if err := errors.ValidateViewport(req.Width, req.Height); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidateAddress(req.Address); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess := session.New(req.Tree, req.Width, req.Height, s.ttl)
	sess.Address = req.Address
	v, err := s.buildViewer(r.Context(), *sess)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Set(r.Context(), &v.sess); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "store session"))
		return
	}

	s.mu.Lock()
	s.viewers[sess.ID] = v
	s.mu.Unlock()

	s.logger.Info("viewer opened", "session", sess.ID, "tree", sess.TreeHash, "address", v.sess.Address)
	observability.Server().OnSession(r.Context(), "open", sess.ID)
	s.writeJSON(w, http.StatusCreated, sessionResponse{ID: sess.ID, Address: v.sess.Address})
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sid")
	if !session.ValidID(id) {
		s.writeError(w, r, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id))
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "delete session"))
		return
	}
	s.dropViewer(id)
	observability.Server().OnSession(r.Context(), "close", id)
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Viewer endpoints
// =============================================================================

// resize applies the optional width and height query parameters.
func resize(r *http.Request, v *viewer) error {
	q := r.URL.Query()
	if q.Get("width") == "" && q.Get("height") == "" {
		return nil
	}
	vp := v.view.Viewport()
	width, height, err := parseViewport(r)
	if err != nil {
		return err
	}
	if q.Get("width") == "" {
		width = vp.Width
	}
	if q.Get("height") == "" {
		height = vp.Height
	}
	if err := v.view.Resize(width, height); err != nil {
		return err
	}
	v.sess.Width, v.sess.Height = width, height
	return nil
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request, v *viewer) {
	if err := resize(r, v); err != nil {
		s.writeError(w, r, err)
		return
	}
	vp := v.view.Viewport()
	hover := v.view.Hover()
	hoverID := 0
	if hover.Node != nil {
		hoverID = hover.Node.ID()
	}
	data, err := sink.RenderJSON(v.view.Frame(), vp.Width, vp.Height,
		sink.WithJSONAddress(v.view.Address()),
		sink.WithJSONHover(hover.Visible, hoverID),
		sink.WithJSONStats(v.view.Stats()),
	)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode frame"))
		return
	}
	s.writeBytes(w, contentTypes[pipeline.FormatJSON], data)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request, v *viewer) {
	if err := resize(r, v); err != nil {
		s.writeError(w, r, err)
		return
	}
	vp := v.view.Viewport()
	opts := []sink.SVGOption{sink.WithInteraction(), sink.WithTitle(v.view.Root().Name())}
	if h := v.view.Hover(); h.Visible && h.Node != nil {
		opts = append(opts, sink.WithHovered(h.Node.ID()))
	}
	s.writeBytes(w, contentTypes[pipeline.FormatSVG], sink.RenderSVG(v.view.Frame(), vp.Width, vp.Height, opts...))
}

type zoomResponse struct {
	Changed bool   `json:"changed"`
	Address string `json:"address"`
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request, v *viewer) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	changed := v.view.Activate(id)
	s.writeJSON(w, http.StatusOK, zoomResponse{Changed: changed, Address: v.view.Address()})
}

func (s *Server) handleZoomOut(w http.ResponseWriter, r *http.Request, v *viewer) {
	changed := v.view.ZoomOut()
	s.writeJSON(w, http.StatusOK, zoomResponse{Changed: changed, Address: v.view.Address()})
}

func (s *Server) handleUnzoom(w http.ResponseWriter, r *http.Request, v *viewer) {
	changed := v.view.Unzoom()
	s.writeJSON(w, http.StatusOK, zoomResponse{Changed: changed, Address: v.view.Address()})
}

type hoverResponse struct {
	Visible bool   `json:"visible"`
	ID      int    `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Path    string `json:"path,omitempty"`
	Size    string `json:"size,omitempty"`
	Percent string `json:"percent,omitempty"`
}

func hoverOf(v *viewer) hoverResponse {
	h := v.view.Hover()
	resp := hoverResponse{Visible: h.Visible}
	if h.Node == nil {
		return resp
	}
	size := v.view.SizeOf(h.Node)
	resp.ID = h.Node.ID()
	resp.Name = h.Node.Name()
	resp.Path = addressOf(h.Node)
	resp.Size = styles.Size(size)
	resp.Percent = styles.Percent(size, v.view.SizeOf(v.view.Root()))
	return resp
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request, v *viewer) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	v.view.Move(id)
	s.writeJSON(w, http.StatusOK, hoverOf(v))
}

func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request, v *viewer) {
	switch ev := chi.URLParam(r, "event"); ev {
	case "enter":
		v.view.Enter()
	case "leave":
		v.view.Leave()
	default:
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "unknown pointer event %q", ev))
		return
	}
	s.writeJSON(w, http.StatusOK, hoverOf(v))
}

type addressBody struct {
	Address string `json:"address"`
}

func (s *Server) handleGetAddress(w http.ResponseWriter, r *http.Request, v *viewer) {
	s.writeJSON(w, http.StatusOK, addressBody{Address: v.view.Address()})
}

func (s *Server) handlePutAddress(w http.ResponseWriter, r *http.Request, v *viewer) {
	var body addressBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	v.view.Navigate(body.Address)
	s.writeJSON(w, http.StatusOK, addressBody{Address: v.view.Address()})
}

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request, v *viewer) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := errors.ValidateFormat(format, []string{pipeline.FormatSVG, pipeline.FormatDOT}); err != nil {
		s.writeError(w, r, err)
		return
	}
	depth := 0
	if d := q.Get("depth"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil || n < 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid depth %q", d))
			return
		}
		depth = n
	}

	root := v.view.Root()
	start := v.view.Scope()
	if start == nil {
		start = root
	}
	dot := nodelink.ToDOT(start, nodelink.Options{Detailed: true, MaxDepth: depth, Colors: color.New(root)})
	if format == pipeline.FormatDOT {
		s.writeBytes(w, contentTypes[pipeline.FormatDOT], []byte(dot))
		return
	}
	svg, err := nodelink.RenderSVG(r.Context(), dot)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render outline"))
		return
	}
	s.writeBytes(w, contentTypes[pipeline.FormatSVG], svg)
}
