package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/sizemap/pkg/errors"
	"github.com/matzehuels/sizemap/pkg/observability"
	"github.com/matzehuels/sizemap/pkg/session"
	"github.com/matzehuels/sizemap/pkg/treemap"
	"github.com/matzehuels/sizemap/pkg/treemap/address"
)

// viewer is a live view bound to its session. All access goes through mu.
type viewer struct {
	mu   sync.Mutex
	sess session.Session
	view *treemap.View
}

type viewerHandler func(w http.ResponseWriter, r *http.Request, v *viewer)

// withViewer resolves {sid} to a locked viewer, and persists the session
// after the handler returns.
func (s *Server) withViewer(h viewerHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := s.viewer(r.Context(), chi.URLParam(r, "sid"))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		v.mu.Lock()
		defer v.mu.Unlock()

		h(w, r, v)

		v.sess.Address = v.view.Address()
		v.sess.Touch(s.ttl)
		if err := s.store.Set(r.Context(), &v.sess); err != nil {
			s.logger.Warn("persist session failed", "session", v.sess.ID, "error", err)
		}
	}
}

// viewer returns the live view of a session, rebuilding it from the store
// and the tree cache when it is not in memory.
func (s *Server) viewer(ctx context.Context, id string) (*viewer, error) {
	if !session.ValidID(id) {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.viewers[id]; ok {
		return v, nil
	}

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read session %s", id)
	}
	if sess == nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	v, err := s.buildViewer(ctx, *sess)
	if err != nil {
		return nil, err
	}
	s.viewers[id] = v
	s.logger.Debug("viewer restored", "session", id)
	observability.Server().OnSession(ctx, "restore", id)
	return v, nil
}

// buildViewer creates the view for sess. User activations write the new
// address back into the session.
func (s *Server) buildViewer(ctx context.Context, sess session.Session) (*viewer, error) {
	root, err := s.runner.LoadByHash(ctx, sess.TreeHash)
	if err != nil {
		return nil, err
	}
	v := &viewer{sess: sess}
	v.view = treemap.New(root,
		treemap.WithLogger(s.logger.With("session", sess.ID)),
		treemap.WithHost(address.HostFunc(func(addr string) {
			v.sess.Address = addr
		})),
	)
	if err := v.view.Resize(sess.Width, sess.Height); err != nil {
		return nil, err
	}
	v.view.Navigate(sess.Address)
	v.sess.Address = v.view.Address()
	// Clients hover ids of the frame they drew for this session.
	v.view.Layout()
	return v, nil
}

// sweep drops views whose session expired.
func (s *Server) sweep(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, v := range s.viewers {
		v.mu.Lock()
		expired := v.sess.IsExpired()
		v.mu.Unlock()
		if expired {
			delete(s.viewers, id)
			observability.Server().OnSession(ctx, "expire", id)
		}
	}
}

func (s *Server) dropViewer(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.viewers, id)
}
