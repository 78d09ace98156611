package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"imagebind/internal/builder"
	"imagebind/internal/config"
	"imagebind/internal/events"
	"imagebind/internal/httpapi"
	"imagebind/internal/viewmodel"
	"imagebind/pkg/types"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr, corsOrigins string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the view model over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if origins := splitCSV(corsOrigins); len(origins) > 0 {
				cfg.CORSEnabled = true
				cfg.CORSAllowedOrigins = origins
			}
			log := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			return runServe(cmd.Context(), cfg, log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", envStr("IMAGEBIND_ADDR", ""), "HTTP listen address, e.g. :8080")
	cmd.Flags().StringVar(&corsOrigins, "cors-origins", "", "Comma-separated allowed CORS origins (enables CORS)")
	return cmd
}

// logDeclaration reports store transitions through the server log.
func logDeclaration(log zerolog.Logger) *events.BackgroundImage {
	return events.NewBackgroundImage().
		Named("ServerLog").
		OnBusyChanged(func(busy bool) { log.Debug().Bool("busy", busy).Msg("state") }).
		OnArtifactReady(func(a *types.Artifact) {
			log.Info().Str("url", a.URL).Str("format", a.Format).Int("width", a.Width).Int("height", a.Height).Msg("artifact ready")
		}).
		OnError(func(err error) { log.Warn().Err(err).Msg("download error") })
}

func runServe(parent context.Context, cfg config.Config, log zerolog.Logger) error {
	httpapi.SetLogger(log)
	httpapi.SetMaxBodyBytes(cfg.MaxRequestBytes)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSAllowedOrigins, nil, nil)

	f := newFetcher(cfg)
	vm, err := builder.Build(func() *viewmodel.ViewModel {
		return viewmodel.New(viewmodel.Config{Fetcher: f, Logger: &log})
	}, []events.Declaration{logDeclaration(log), httpapi.StateMetrics()})
	if err != nil {
		return err
	}
	defer vm.Close()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	httpapi.SetBaseContext(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(vm),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("imagebind listening")
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
	log.Info().Msg("imagebind stopped")
	return nil
}
