// Package server implements the HTTP API of `sizemap serve`.
//
// Each browser tab owns a viewer session. The session (tree hash, viewport,
// address) lives in a [session.Store]; the live [treemap.View] built from it
// is kept in memory and guarded by a per-viewer mutex. Views are rebuilt on
// demand from the tree cache, so a server restart with a file-backed session
// store and cache resumes every viewer where it left off.
//
// # Routes
//
//	GET    /healthz
//	GET    /                                  viewer page
//	POST   /api/trees                         upload a tree, returns its hash
//	GET    /api/render?tree=&format=&width=&height=&address=
//	POST   /api/sessions                      open a viewer
//	DELETE /api/sessions/{sid}
//	GET    /api/sessions/{sid}/frame          JSON frame
//	GET    /api/sessions/{sid}/svg            interactive SVG
//	POST   /api/sessions/{sid}/activate/{id}
//	POST   /api/sessions/{sid}/zoomout
//	POST   /api/sessions/{sid}/unzoom
//	POST   /api/sessions/{sid}/hover/{id}
//	POST   /api/sessions/{sid}/pointer/{enter|leave}
//	GET    /api/sessions/{sid}/address
//	PUT    /api/sessions/{sid}/address
//	GET    /api/sessions/{sid}/outline        DOT or SVG outline of the scope
package server

import (
	"context"
	"embed"
	"io"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/sizemap/pkg/pipeline"
	"github.com/matzehuels/sizemap/pkg/session"
)

//go:embed static/*
var staticFS embed.FS

// maxTreeBytes bounds uploaded tree documents.
const maxTreeBytes = 64 << 20

// Config configures a [Server].
type Config struct {
	// Runner loads trees and renders stateless artifacts. Required.
	Runner *pipeline.Runner

	// Store persists viewer sessions. Defaults to a MemoryStore.
	Store session.Store

	// SessionTTL is the idle lifetime of a viewer. Defaults to session.DefaultTTL.
	SessionTTL time.Duration

	// Logger receives request and session logs. Defaults to a discard logger.
	Logger *log.Logger
}

// Server serves the viewer API.
type Server struct {
	runner *pipeline.Runner
	store  session.Store
	ttl    time.Duration
	logger *log.Logger

	mu      sync.Mutex
	viewers map[string]*viewer
}

// New creates a server from cfg.
func New(cfg Config) *Server {
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, nil)
	}
	if cfg.Store == nil {
		cfg.Store = session.NewMemoryStore()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = session.DefaultTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	return &Server{
		runner:  cfg.Runner,
		store:   cfg.Store,
		ttl:     cfg.SessionTTL,
		logger:  cfg.Logger,
		viewers: make(map[string]*viewer),
	}
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	static, _ := fs.Sub(staticFS, "static")
	r.Handle("/*", http.FileServer(http.FS(static)))

	r.Route("/api", func(r chi.Router) {
		r.Post("/trees", s.handleUploadTree)
		r.Get("/render", s.handleRender)
		r.Post("/sessions", s.handleOpenSession)

		r.Route("/sessions/{sid}", func(r chi.Router) {
			r.Delete("/", s.handleCloseSession)
			r.Get("/frame", s.withViewer(s.handleFrame))
			r.Get("/svg", s.withViewer(s.handleSVG))
			r.Post("/activate/{id}", s.withViewer(s.handleActivate))
			r.Post("/zoomout", s.withViewer(s.handleZoomOut))
			r.Post("/unzoom", s.withViewer(s.handleUnzoom))
			r.Post("/hover/{id}", s.withViewer(s.handleHover))
			r.Post("/pointer/{event}", s.withViewer(s.handlePointer))
			r.Get("/address", s.withViewer(s.handleGetAddress))
			r.Put("/address", s.withViewer(s.handlePutAddress))
			r.Get("/outline", s.withViewer(s.handleOutline))
		})
	})
	return r
}

// Start runs background maintenance until ctx is done: expired sessions are
// removed from the store and their views dropped from memory.
func (s *Server) Start(ctx context.Context, interval time.Duration) {
	session.StartCleanup(ctx, s.store, interval, s.logger)
	if interval <= 0 {
		interval = session.DefaultCleanupInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()
}

// Viewers returns the number of views held in memory.
func (s *Server) Viewers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.viewers)
}
