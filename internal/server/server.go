package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"NexusStream/internal/render"
)

// Source is what the server needs from the refresh loop.
type Source interface {
	View() *render.View
	Ticker() string
	SetTicker(ticker string) string
}

// Config configures the dashboard server.
type Config struct {
	Addr           string
	Title          string
	RefreshSeconds int
	Tickers        []render.TickerRef
	Logger         zerolog.Logger
}

// Server serves the dashboard page and accepts ticker changes.
type Server struct {
	cfg    Config
	source Source
	httpd  *http.Server
}

// New creates a dashboard server.
func New(cfg Config, source Source) *Server {
	s := &Server{cfg: cfg, source: source}
	s.httpd = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP routes of the dashboard.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("POST /ticker", s.handleTicker)
	mux.HandleFunc("GET /api/view", s.handleView)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	return mux
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info().Str("addr", s.cfg.Addr).Msg("dashboard listening")
		errCh <- s.httpd.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpd.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	page := render.Page{
		Title:          s.cfg.Title,
		Ticker:         s.source.Ticker(),
		Tickers:        s.cfg.Tickers,
		RefreshSeconds: s.cfg.RefreshSeconds,
		View:           s.source.View(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.WritePage(w, page); err != nil {
		s.cfg.Logger.Error().Err(err).Msg("rendering dashboard page")
	}
}

func (s *Server) handleTicker(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	s.source.SetTicker(r.PostForm.Get("ticker"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleView(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.source.View()); err != nil {
		s.cfg.Logger.Error().Err(err).Msg("encoding view")
	}
}
