// Package server exposes the mortgage analysis engine over HTTP.
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

	"github.com/lakeinlake/know-your-mortgage/pkg/config"
	"github.com/lakeinlake/know-your-mortgage/pkg/marketdata"
	kymmiddleware "github.com/lakeinlake/know-your-mortgage/pkg/server/middleware"
	"github.com/lakeinlake/know-your-mortgage/pkg/store"
)

type WebAPI struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server

	shutdownTimeout time.Duration
}

type Dependencies struct {
	// Defaults backs any request section left empty.
	Defaults *config.Config
	// History is optional; when nil the history endpoints return 503
	// and runs are not recorded.
	History *store.History
	// Census is optional; when nil demographics answer from the
	// bundled samples.
	Census *marketdata.CensusClient
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func ConfigureRouter(logger zerolog.Logger, deps Dependencies) *chi.Mux {
	h := NewHandler(deps.Defaults, deps.History, deps.Census)

	router := chi.NewRouter()

	router.Use(kymmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", h.Analyze)
		r.Post("/compare", h.Compare)
		r.Post("/rentvsbuy", h.RentVsBuy)
		r.Post("/affordability", h.Affordability)
		r.Post("/purchase-power", h.PurchasePower)
		r.Post("/sensitivity", h.Sensitivity)

		r.Post("/export/pdf", h.ExportPDF)
		r.Post("/export/html", h.ExportHTML)
		r.Post("/export/csv", h.ExportCSV)

		r.Get("/tax-rates/{state}", h.TaxRates)
		r.Get("/indices", h.Indices)
		r.Get("/demographics", h.Demographics)
		r.Get("/history", h.History)
		r.Get("/history/{id}", h.HistoryRun)
		r.Get("/healthz", h.Healthz)
	})

	return router
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	router := ConfigureRouter(logger, config.Dependencies)

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
		shutdownTimeout: config.ShutdownTimeout,
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

		timeout := w.shutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
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
