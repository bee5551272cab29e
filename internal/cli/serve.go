package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"pluginbuilder/internal/builder"
	"pluginbuilder/internal/httpapi"
)

var _ httpapi.Service = (*builder.Builder)(nil)

type serveOptions struct {
	project     string
	cors        bool
	corsOrigins []string
}

// serve runs the HTTP control API until SIGINT/SIGTERM, then shuts the
// server down and closes the build session.
func serve(ctx context.Context, b *builder.Builder, log zerolog.Logger, opts serveOptions) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.project != "" {
		if _, err := b.Open(ctx, opts.project); err != nil {
			log.Warn().Err(err).Str("plugin", opts.project).Msg("open project at startup")
		} else if _, err := b.BuildAndCompile(); err != nil {
			log.Warn().Err(err).Msg("initial build")
		}
	}

	httpapi.SetLogger(log)
	httpapi.SetBaseContext(ctx)
	httpapi.SetCORSOptions(opts.cors, opts.corsOrigins, nil, nil)
	addr := b.Config().Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           httpapi.NewMux(b),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("projects", b.Config().Paths.ProjectsDir).Msg("pluginbuilder listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
	if err := b.Close(); err != nil {
		log.Error().Err(err).Msg("close build session")
	}
	return serveErr
}
