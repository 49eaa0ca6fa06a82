// Package server exposes the sync engine over HTTP.
package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/quartz"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/sadopc/tally/internal/activity"
	"github.com/sadopc/tally/internal/syncer"
)

// RefreshHeader carries the shared secret that unlocks a forced refresh.
const RefreshHeader = "X-Refresh-Secret"

type Pinger interface {
	Ping() error
}

type Config struct {
	Orchestrators []*syncer.Orchestrator
	Store         Pinger
	RefreshSecret string
	// RateLimit is requests per minute per client IP. Zero disables it.
	RateLimit int
	Location  *time.Location
	Clock     quartz.Clock
	Logger    zerolog.Logger
	// Gatherer backs /metrics. Nil leaves the route out.
	Gatherer prometheus.Gatherer
}

type Server struct {
	router   chi.Router
	orchs    map[activity.Source]*syncer.Orchestrator
	store    Pinger
	secret   string
	loc      *time.Location
	clock    quartz.Clock
	log      zerolog.Logger
	gatherer prometheus.Gatherer
}

func New(cfg Config) *Server {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	s := &Server{
		orchs:    make(map[activity.Source]*syncer.Orchestrator, len(cfg.Orchestrators)),
		store:    cfg.Store,
		secret:   cfg.RefreshSecret,
		loc:      cfg.Location,
		clock:    cfg.Clock,
		log:      cfg.Logger,
		gatherer: cfg.Gatherer,
	}
	for _, o := range cfg.Orchestrators {
		s.orchs[o.Source()] = o
	}
	s.router = s.routes(cfg.RateLimit)
	return s
}

func (s *Server) routes(rateLimit int) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(hlog.NewHandler(s.log))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("took", d).
			Msg("request")
	}))

	r.Get("/health", s.handleHealth)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		if rateLimit > 0 {
			r.Use(httprate.Limit(rateLimit, time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
				}),
			))
		}
		r.Post("/auth-refresh", s.handleAuthRefresh)
		r.Get("/{source}", s.handleActivity)
	})
	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then drains
// in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		if err := s.store.Ping(); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("health check")
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, Response{Message: "ok"})
}

// ActivityResponse is the body of GET /api/{source}.
type ActivityResponse struct {
	Source    activity.Source       `json:"source"`
	StartDate activity.Date         `json:"startDate"`
	EndDate   activity.Date         `json:"endDate"`
	Total     int                   `json:"total"`
	Data      []activity.Record     `json:"data"`
	Streak    activity.StreakResult `json:"streak"`
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	src := activity.Source(chi.URLParam(r, "source"))
	o, ok := s.orchs[src]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown source %q", src))
		return
	}

	q := r.URL.Query()
	rng, err := parseRange(q.Get("startDate"), q.Get("endDate"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	force := q.Get("refresh") == "true"
	if force && !s.checkSecret(r.Header.Get(RefreshHeader)) {
		writeError(w, http.StatusUnauthorized, "refresh requires a valid secret")
		return
	}

	res, err := o.Sync(r.Context(), syncer.Request{Range: rng, Force: force})
	switch {
	case errors.Is(err, syncer.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Str("source", string(src)).Msg("sync request failed")
		writeError(w, http.StatusServiceUnavailable, fmt.Sprintf("failed to load %s data", src))
		return
	}

	data := res.Records
	if data == nil {
		data = []activity.Record{}
	}
	writeJSON(w, http.StatusOK, ActivityResponse{
		Source:    src,
		StartDate: rng.Start,
		EndDate:   rng.End,
		Total:     activity.Summarize(data).Total,
		Data:      data,
		Streak:    activity.Streaks(data, syncer.Today(s.clock, s.loc)),
	})
}

type authRefreshRequest struct {
	Password string `json:"password" validate:"required"`
}

func (s *Server) handleAuthRefresh(w http.ResponseWriter, r *http.Request) {
	var req authRefreshRequest
	if !readJSON(w, r, &req) {
		return
	}
	if s.secret == "" {
		writeError(w, http.StatusInternalServerError, "refresh secret is not configured")
		return
	}
	if !s.checkSecret(req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid password")
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true})
}

func (s *Server) checkSecret(got string) bool {
	if s.secret == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(s.secret)) == 1
}

func parseRange(start, end string) (activity.Range, error) {
	if start == "" || end == "" {
		return activity.Range{}, errors.New("startDate and endDate are required")
	}
	var (
		r   activity.Range
		err error
	)
	if r.Start, err = activity.ParseDate(start); err != nil {
		return activity.Range{}, fmt.Errorf("startDate: %w", err)
	}
	if r.End, err = activity.ParseDate(end); err != nil {
		return activity.Range{}, fmt.Errorf("endDate: %w", err)
	}
	return r, nil
}
