// Package preview serves a built documentation site locally so
// exported notebook bundles can be checked in a browser before
// deployment.  A websocket endpoint broadcasts a reload notice when
// the output tree changes; pages opt in, nothing is injected.
package preview

import (
	"context"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-hclog"
)

// Server manages the preview serving components.
type Server struct {
	l hclog.Logger

	dir      string
	interval time.Duration

	n   *http.Server
	r   chi.Router
	rel *reloader

	stop chan struct{}
}

// An Option configures a Server.
type Option func(s *Server)

// WithLogger configures the logging instance for this server.
func WithLogger(l hclog.Logger) Option {
	return func(s *Server) { s.l = l.Named("preview") }
}

// WithDir sets the built site directory to serve.
func WithDir(dir string) Option {
	return func(s *Server) { s.dir = dir }
}

// WithPollInterval overrides how often the output tree is checked for
// changes.
func WithPollInterval(d time.Duration) Option {
	return func(s *Server) { s.interval = d }
}

// New returns a preview server ready to serve.
func New(opts ...Option) *Server {
	s := new(Server)
	s.l = hclog.NewNullLogger()
	s.r = chi.NewRouter()
	s.n = &http.Server{}
	s.interval = time.Second
	s.stop = make(chan struct{})
	for _, o := range opts {
		o(s)
	}
	s.rel = newReloader(s.l)

	s.r.Get("/ws/reload", s.rel.handler)
	s.r.Handle("/*", http.FileServer(http.Dir(s.dir)))
	return s
}

// Serve binds and serves the preview until Shutdown.
func (s *Server) Serve(bind string) error {
	s.l.Info("Preview serving", "bind", bind, "dir", s.dir)
	s.n.Addr = bind
	s.n.Handler = s.r

	go s.watch()
	return s.n.ListenAndServe()
}

// Shutdown stops the server and the change watcher.
func (s *Server) Shutdown(ctx context.Context) error {
	close(s.stop)
	return s.n.Shutdown(ctx)
}

// watch polls the output tree and publishes a reload notice when any
// file's mtime advances.  Polling keeps the watcher portable; a build
// rewrites many files at once and a single coalesced notice per tick
// is enough.
func (s *Server) watch() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	last := s.latestMtime()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if t := s.latestMtime(); t.After(last) {
				last = t
				s.l.Debug("Output changed, notifying clients")
				s.rel.publish([]byte("reload"))
			}
		}
	}
}

func (s *Server) latestMtime() time.Time {
	var latest time.Time
	filepath.WalkDir(s.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if info, err := os.Stat(p); err == nil && info.ModTime().After(latest) {
			latest = info.ModTime()
		}
		return nil
	})
	return latest
}
