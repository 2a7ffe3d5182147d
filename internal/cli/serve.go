package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dfryer1193/postbrowser/blog/domain"
	"github.com/dfryer1193/postbrowser/internal/middleware"
	"github.com/dfryer1193/postbrowser/internal/rest"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the post browser and the posts directory over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfig(cmd)
			if err != nil {
				return err
			}

			// Listen before resolving so a source pointing at our own
			// /posts route is reachable during the first manifest load.
			ln, err := net.Listen("tcp", cfg.Addr)
			if err != nil {
				return err
			}

			a, err := buildApp(cmd.Context(), cfg)
			if err != nil && !errors.Is(err, domain.ErrUnsupportedContext) {
				ln.Close()
				return err
			}
			if err == nil {
				a.browser.Start()
			}
			defer func() {
				if err := a.browser.Close(); err != nil {
					log.Error().Err(err).Msg("Failed to gracefully close post browser")
				}
			}()

			gin.SetMode(gin.ReleaseMode)
			service := gin.New()
			service.Use(middleware.LoggingMiddleware())
			service.Use(gin.CustomRecovery(middleware.HandlePanics()))
			rest.NewApi(service, rest.NewHandler(a.browser, a.page), cfg.PostsDir)

			srv := &http.Server{
				Handler: service,
			}

			go func() {
				log.Info().Str("addr", ln.Addr().String()).Str("source", cfg.SourceURL).Msg("Starting server")
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal().Err(err).Msg("Failed to start server")
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, os.Interrupt)
			<-quit

			log.Info().Msg("Shutting down server...")
			ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				return err
			}

			log.Info().Msg("Server stopped")
			return nil
		},
	}
}
