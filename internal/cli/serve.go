package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/herd-ag/herdstore/internal/httpapi"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve records over HTTP",
		Long: `Start the HTTP API over the configured store:

  GET  /health
  GET  /v1/records/:type?field=value
  GET  /v1/records/:type/:id
  POST /v1/records/:type

Example:
  herdstore serve --addr :8080 --db ./herd.duckdb`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default from config, :8080)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	addr := opts.Addr
	if addr == "" {
		addr = opts.Config.HTTPAddr
	}

	s, logger, err := opts.openStore(cmd, f)
	if err != nil {
		return err
	}
	defer closeStore(s, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := httpapi.NewServer(s, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(addr)
	}()

	logger.Info("http server listening", "addr", addr, "db", opts.Config.Database, "driver", s.Driver())
	fmt.Fprintf(cmd.ErrOrStderr(), "Serving %s on %s. Press Ctrl-C to stop.\n", opts.Config.Database, addr)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return f.Fail(ErrCodeGeneric, fmt.Errorf("http server: %w", err))
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", opts.Config.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.Config.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return f.Fail(ErrCodeGeneric, fmt.Errorf("http shutdown: %w", err))
	}

	logger.Info("http server stopped gracefully")
	return nil
}
