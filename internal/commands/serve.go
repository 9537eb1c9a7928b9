package commands

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/autobrr/mediaweb/internal/app"
	"github.com/autobrr/mediaweb/internal/buildinfo"
)

const shutdownTimeout = 10 * time.Second

func ServeCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "serve",
		Short: "start the web server",
		Long:  `start the web server`,
		Example: `  mediaweb serve
  mediaweb serve --listen :9090`,
	}

	var listenAddr string
	command.Flags().StringVar(&listenAddr, "listen", "", "address to listen on (overrides config)")

	command.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if listenAddr != "" {
			cfg.Server.ListenAddr = listenAddr
		}

		log.Info().
			Str("version", buildinfo.Version).
			Str("commit", buildinfo.Commit).
			Str("build_date", buildinfo.Date).
			Msg("Starting mediaweb")

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx, cfg, buildinfo.Version)
		if err != nil {
			return err
		}
		defer func() {
			if err := a.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close cache")
			}
		}()

		srv := &http.Server{
			Addr:         cfg.Server.ListenAddr,
			Handler:      a.Engine,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: cfg.Backend.Timeout.Duration + 15*time.Second,
			IdleTimeout:  60 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			log.Info().
				Str("address", cfg.Server.ListenAddr).
				Str("mode", gin.Mode()).
				Str("backend", a.Client.Endpoint()).
				Msg("Starting server")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			log.Info().Msg("Shutting down server...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		if err := g.Wait(); err != nil {
			log.Error().Err(err).Msg("Server stopped with error")
			return err
		}

		log.Info().Msg("Server exiting")
		return nil
	}

	return command
}
