package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"imagebind/internal/builder"
	"imagebind/internal/common/fsutil"
	"imagebind/internal/config"
	"imagebind/internal/events"
	"imagebind/internal/fetcher"
	"imagebind/internal/viewmodel"
	"imagebind/pkg/types"
)

func newFetchCmd(opts *rootOptions) *cobra.Command {
	var out string
	var timeoutSec int
	cmd := &cobra.Command{
		Use:     "fetch <url>",
		Short:   "Download one image and report the outcome",
		Example: "  imagebind fetch https://example.com/bg.png --out ~/Pictures/",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if timeoutSec > 0 {
				cfg.FetchTimeoutSeconds = timeoutSec
			}
			log := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runFetch(ctx, cmd, cfg, log, args[0], out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the image to this file or directory")
	cmd.Flags().IntVar(&timeoutSec, "timeout", 0, "Fetch timeout in seconds (overrides config)")
	return cmd
}

func newFetcher(cfg config.Config) *fetcher.HTTPFetcher {
	return fetcher.New(fetcher.Options{
		Timeout:      time.Duration(cfg.FetchTimeoutSeconds) * time.Second,
		MaxBodyBytes: cfg.MaxBodyBytes,
		UserAgent:    cfg.UserAgent,
	})
}

// runFetch wires a terminal "view" to the view model and performs one download.
func runFetch(ctx context.Context, cmd *cobra.Command, cfg config.Config, log zerolog.Logger, rawURL, out string) error {
	var (
		artifact *types.Artifact
		failure  error
		started  time.Time
	)
	view := events.NewBackgroundImage().
		Named("Terminal").
		OnBusyChanged(func(busy bool) {
			if busy {
				started = time.Now()
				log.Info().Str("url", rawURL).Msg("downloading")
				return
			}
			log.Debug().Dur("dur", time.Since(started)).Msg("idle")
		}).
		OnArtifactReady(func(a *types.Artifact) { artifact = a }).
		OnError(func(err error) { failure = err })

	f := newFetcher(cfg)
	vm, err := builder.Build(func() *viewmodel.ViewModel {
		return viewmodel.New(viewmodel.Config{Fetcher: f, Logger: &log})
	}, []events.Declaration{view})
	if err != nil {
		return err
	}
	defer vm.Close()

	if err := vm.DownloadImage(ctx, rawURL); err != nil {
		return err
	}
	if failure != nil {
		return failure
	}
	if artifact == nil {
		return fmt.Errorf("download finished without an artifact")
	}

	dest := ""
	if out != "" {
		var urlPath string
		if u, err := url.Parse(rawURL); err == nil {
			urlPath = u.Path
		}
		if dest, err = fsutil.OutputPath(out, urlPath, artifact.Format); err != nil {
			return err
		}
		if err := fsutil.WriteFileAtomic(dest, artifact.Data, 0o644); err != nil {
			return fmt.Errorf("save artifact: %w", err)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %dx%d %d bytes", artifact.Format, artifact.Width, artifact.Height, artifact.Size)
	if dest != "" {
		fmt.Fprintf(cmd.OutOrStdout(), " -> %s", dest)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}
