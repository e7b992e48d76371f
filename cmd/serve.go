package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/pable/go-soccer-metrics/internal/api"
	"github.com/pable/go-soccer-metrics/internal/pipeline"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

var (
	serveAddr  string
	serveWarm  bool
	servePprof bool
	serveCORS  []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the KPI tables over HTTP",
	Long: `Starts an HTTP API over the selected tournament. The tables are computed (or
read from table files) on the first request and kept for the process lifetime.
Prometheus metrics of the pipeline are exposed on /metrics.

Examples:
  socmetrics serve --addr :9000
  curl localhost:9000/api/teams/England/profile`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides api_addr)")
	serveCmd.Flags().BoolVar(&serveWarm, "warm", false, "compute the tables before accepting requests")
	serveCmd.Flags().BoolVar(&servePprof, "pprof", false, "expose /debug/pprof")
	serveCmd.Flags().StringSliceVar(&serveCORS, "cors-origin", nil, "allow cross-origin GETs from these origins (\"*\" for any)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	addr := cfg.APIAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner, rec := newRunner()
	// Runs are detached from request contexts so a dropped client cannot
	// fail the shared computation.
	load := func(context.Context) (*pipeline.Output, error) {
		return runner.Run(ctx, cfg)
	}
	if serveWarm {
		if _, err := load(ctx); err != nil {
			return err
		}
	}

	gin.SetMode(gin.ReleaseMode)
	var mw []gin.HandlerFunc
	if len(serveCORS) > 0 {
		mw = append(mw, api.CORS(serveCORS))
	}
	h := api.NewHandler(load, cfg.GoalKickTolerance, logger)
	r := api.NewRouter(h, rec.Registry(), mw...)
	if servePprof {
		pprof.Register(r)
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", addr).Info("starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
