package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	handlers "github.com/lan-tools/net-atlas/pkg/handlers/audit"
	netatlasmiddleware "github.com/lan-tools/net-atlas/pkg/server/middleware"
)

type WebAPI struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server
}

type Dependencies struct {
	Audit handlers.Service
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func ConfigureRouter(logger zerolog.Logger, config Config) *chi.Mux {
	auditHandler := handlers.NewHandler(config.Dependencies.Audit)

	router := chi.NewRouter()

	router.Use(netatlasmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1/sites/{site}", func(r chi.Router) {
		r.Post("/audit", auditHandler.RunAudit)
		r.Get("/audit/summary", auditHandler.GetSummary)
		r.Get("/audit/latest", auditHandler.GetLatest)
		r.Get("/audit/{id}", auditHandler.GetAudit)

		r.Get("/issues", auditHandler.ListIssues)
		r.Get("/issues/dismissed", auditHandler.ListDismissed)
		r.Post("/issues/dismiss", auditHandler.DismissIssue)
		r.Post("/issues/restore", auditHandler.RestoreIssue)
		r.Delete("/issues/dismissed", auditHandler.ClearDismissed)
	})

	return router
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	router := ConfigureRouter(logger, config)

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
