// Package server serves the web client: the page, the launcher, the
// bootstrap wasm and the rendering module.
package server

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"path/filepath"
	"runtime"
	"time"

	"github.com/pkg/errors"

	webclient "github.com/violetrx/webclient"
	"github.com/violetrx/webclient/internal/asset"
	"github.com/violetrx/webclient/internal/config"
	"github.com/violetrx/webclient/internal/shautil"
)

type file struct {
	name    string
	content []byte
	etag    string
	modTime time.Time
}

func (f *file) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("ETag", f.etag)
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, f.name, f.modTime, bytes.NewReader(f.content))
}

type Server struct {
	cfg      config.Config
	log      *slog.Logger
	page     []byte
	launcher webclient.Launcher
	app      *file
	glue     *file
	asset    *file
	info     *asset.Info
}

// New reads the dist directory and validates the rendering module.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	s := &Server{cfg: cfg, log: logger}

	var err error
	if s.app, err = readFile(filepath.Join(cfg.Dist, cfg.AppWasm)); err != nil {
		return nil, err
	}
	if s.glue, err = readFile(filepath.Join(cfg.Dist, cfg.GlueJS)); err != nil {
		return nil, err
	}

	var wasm []byte
	if s.info, wasm, err = asset.Load(ctx, filepath.Join(cfg.Dist, cfg.Asset), asset.RequiredExports); err != nil {
		return nil, err
	}
	s.asset = &file{name: cfg.Asset, content: wasm, etag: s.info.ETag(), modTime: time.Now()}
	logger.Info("rendering module ready",
		"path", cfg.Asset, "size", s.info.Size, "sha256", s.info.SHA256, "exports", len(s.info.Exports))

	goroot := cfg.Goroot
	if goroot == "" {
		goroot = runtime.GOROOT()
	}
	if _, err = webclient.FromGoroot(goroot); err != nil {
		return nil, errors.WithMessage(err, "wasm_exec.js")
	}

	client := cfg.Client()
	s.launcher = webclient.Launcher{
		Goroot:   goroot,
		GluePath: "./" + cfg.GlueJS,
		AppPath:  cfg.AppWasm,
		StatusID: client.StatusID,
	}

	var page bytes.Buffer
	if err = (webclient.Page{Title: cfg.Title, Client: client, Launcher: "." + webclient.LauncherPath}).Render(&page); err != nil {
		return nil, errors.Wrap(err, "render page")
	}
	s.page = page.Bytes()
	return s, nil
}

func readFile(path string) (*file, error) {
	content, sum, err := shautil.ReadWithSha(path)
	if err != nil {
		return nil, errors.Wrap(err, "read dist file")
	}
	return &file{name: filepath.Base(path), content: content, etag: shautil.ETag(sum), modTime: time.Now()}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.servePage)
	mux.Handle(webclient.LauncherPath, s.launcher)
	mux.Handle("/"+s.cfg.AppWasm, s.app)
	mux.Handle("/"+s.cfg.GlueJS, s.glue)
	mux.Handle("/"+s.cfg.Asset, s.asset)
	return s.logRequests(mux)
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(s.page)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("serving web client", "addr", s.cfg.Listen)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}
