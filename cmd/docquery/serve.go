package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/docquery-go/docquery/executor"
	"github.com/AntonStoeckl/docquery-go/docquery/promadapters"
	"github.com/AntonStoeckl/docquery-go/internal/httpapi"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second

	logMsgServing      = "serving http api"
	logMsgShuttingDown = "shutting down http api"
	logAttrAddr        = "addr"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the query API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	eng, err := a.openEngine(ctx)
	if err != nil {
		return err
	}
	defer eng.close()

	metrics, err := promadapters.NewMetricsCollector(promadapters.WithRegisterer(prometheus.DefaultRegisterer))
	if err != nil {
		return err
	}

	svc, err := a.newService(eng.collection, executor.WithMetrics(metrics))
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)

	router, err := httpapi.NewRouter(
		svc,
		httpapi.WithLogger(a.logger),
		httpapi.WithGatherer(prometheus.DefaultGatherer),
	)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              a.cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)

	go func() {
		a.logger.Info(logMsgServing, logAttrAddr, a.cfg.HTTP.Addr)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err = <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err

	case <-ctx.Done():
		a.logger.Info(logMsgShuttingDown, logAttrAddr, a.cfg.HTTP.Addr)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	}
}
