package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.trai.ch/zerr"

	"github.com/esmd-dev/esmd/internal/core/domain"
	"github.com/esmd-dev/esmd/internal/core/ports"
)

// Server hosts the middleware chain over HTTP.
type Server struct {
	cfg       *domain.Config
	transform *TransformMiddleware
	log       ports.Logger

	httpServer *http.Server
}

// New assembles the router: recoverer, the transform middleware, then static
// files from the public directory and the project root, with an index.html
// fallback for navigation requests.
func New(cfg *domain.Config, transform *TransformMiddleware, log ports.Logger) *Server {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(transform.Handler)
	r.Handle("/*", staticHandler(cfg))

	return &Server{
		cfg:       cfg,
		transform: transform,
		log:       log,
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// ListenAndServe blocks until the context is cancelled or the listener
// fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return zerr.Wrap(err, "failed to listen")
	}
	s.log.Info("dev server listening", "addr", lis.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// staticHandler serves public assets and raw project files, falling back to
// index.html so browser navigation lands on the app shell.
func staticHandler(cfg *domain.Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := domain.CleanURL(r.URL.Path)

		if public := cfg.PublicFile(path); public != "" {
			if info, err := os.Stat(public); err == nil && !info.IsDir() {
				http.ServeFile(w, r, public)
				return
			}
		}

		file := filepath.Join(cfg.Root, strings.TrimPrefix(path, "/"))
		if info, err := os.Stat(file); err == nil && !info.IsDir() && cfg.AllowedToServe(file) {
			http.ServeFile(w, r, file)
			return
		}

		index := filepath.Join(cfg.Root, "index.html")
		if _, err := os.Stat(index); err == nil {
			http.ServeFile(w, r, index)
			return
		}
		http.NotFound(w, r)
	})
}
