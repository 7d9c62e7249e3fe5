// Package api provides the HTTP surface of the call-flow engine: the carrier
// webhooks driving the conversation, the operator endpoints placing calls,
// and the usual health and metrics plumbing.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/voicebridge/sahaya/internal/catalog"
	"github.com/voicebridge/sahaya/internal/clips"
	"github.com/voicebridge/sahaya/internal/config"
	"github.com/voicebridge/sahaya/internal/dispatch"
	"github.com/voicebridge/sahaya/internal/explain"
	xlog "github.com/voicebridge/sahaya/internal/log"
	"github.com/voicebridge/sahaya/internal/notify"
	"github.com/voicebridge/sahaya/internal/script"
)

// Deps bundles the collaborators the HTTP handlers delegate to.
type Deps struct {
	Catalog    *catalog.Facade
	Explain    *explain.Generator
	Clips      *clips.Locator
	Notifier   *notify.Dispatcher
	Dispatcher *dispatch.Router
	Selection  dispatch.Selection
}

// Server is the HTTP API server.
type Server struct {
	cfg     config.AppConfig
	builder *script.Builder
	deps    Deps

	validateSignature func(r *http.Request) bool // nil disables carrier auth

	startTime time.Time
	logger    zerolog.Logger
}

// New creates the server. Carrier signature validation is enabled when the
// configuration carries a Twilio auth token and the validate flag.
func New(cfg config.AppConfig, deps Deps) *Server {
	s := &Server{
		cfg:       cfg,
		builder:   script.NewBuilder(cfg.BaseURL),
		deps:      deps,
		startTime: time.Now(),
		logger:    xlog.WithComponent("api"),
	}
	if cfg.Twilio.ValidateSignatures && cfg.Twilio.AuthToken != "" {
		s.validateSignature = newSignatureCheck(cfg.Twilio.AuthToken, cfg.BaseURL)
	}
	return s
}

// Router wires all routes with the ingress middleware stack.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(s.recoverer)
	r.Use(requestID)
	r.Use(s.requestLogger)
	if s.cfg.RateLimitRPS > 0 {
		r.Use(httprate.LimitByIP(s.cfg.RateLimitRPS, time.Second))
	}

	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/call", func(r chi.Router) {
			// Carrier-facing webhooks. They answer markup under all
			// circumstances; a webhook error is dead air on a live call.
			r.Group(func(r chi.Router) {
				r.Use(s.carrierRecoverer)
				r.Use(s.carrierAuth)
				r.Get("/twiml", s.handleIntro)
				r.Post("/twiml", s.handleIntro)
				r.Post("/stage/{stage}", s.handleStage)
				r.Post("/status", s.handleCallStatus)
			})

			// Operator-facing endpoints.
			r.Post("/initiate", s.handleInitiate)
			r.Get("/preview", s.handlePreview)
		})

		r.Get("/schemes", s.handleSchemes)
		r.Post("/eligibility-check", s.handleEligibilityCheck)
		r.Get("/status", s.handleServiceStatus)
	})

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests and
// pending notifications.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info().Str("listen", s.cfg.Listen).Msg("http server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	if s.deps.Notifier != nil {
		s.deps.Notifier.Wait()
	}
	if err != nil {
		return err
	}
	s.logger.Info().Msg("http server stopped")
	return nil
}
