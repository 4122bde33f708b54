package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/jaminalder/tictactoe-history/internal/app"
	"github.com/jaminalder/tictactoe-history/internal/config"
	"github.com/jaminalder/tictactoe-history/internal/web"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func Serve() *cobra.Command {
	var configPath, addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the game over HTTP",
		Long: heredoc.Docf(`
			Start the web server. Each visitor gets their own game, kept in memory
			until it has been idle for the configured session TTL.

			Configuration is read from --config, or from %s when
			present. TICTACTOE_* environment variables override file values.
		`, config.DefaultPath),
		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				host, port, err := net.SplitHostPort(addr)
				if err != nil {
					return fmt.Errorf("invalid --addr: %w", err)
				}
				conf.HTTP.Host, conf.HTTP.Port = host, port
			}
			if debugEnabled(cmd) {
				conf.Log.Level = "debug"
			}

			log, err := newLogger(conf.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, conf, log)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the YAML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (host:port), overrides the config")

	return cmd
}

// run serves HTTP until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, conf *config.Config, log zerolog.Logger) error {
	svc := app.NewService(log)

	srv := &http.Server{
		Addr:         conf.HTTP.Addr(),
		Handler:      web.NewServer(svc, log, conf.Game.Heartbeat),
		ReadTimeout:  conf.HTTP.ReadTimeout,
		WriteTimeout: conf.HTTP.WriteTimeout,
		IdleTimeout:  conf.HTTP.IdleTimeout,
		// event streams end with ctx
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	if conf.Game.PruneInterval > 0 {
		go svc.RunJanitor(ctx, conf.Game.PruneInterval, conf.Game.SessionTTL)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("could not shut down HTTP server: %w", err)
	}
	return nil
}
