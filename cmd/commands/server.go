package commands

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/BeamLabEU/phoenix-kit-sub002/internal/api"
	"github.com/BeamLabEU/phoenix-kit-sub002/internal/watcher"
)

// newServerCmd creates the "serve" command to start the PostKit server.
func newServerCmd(state *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the PostKit server",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := requireAuthConfig(&state.Config)
			if err != nil {
				return err
			}

			ctx := context.Background()

			err = state.DB.Seed(ctx)
			if err != nil {
				log.Fatalf("Failed to seed database: %v", err)
			}

			services, err := buildCore(state)
			if err != nil {
				log.Fatalf("Failed to build services: %v", err)
			}
			defer func() {
				err := services.Close()
				if err != nil {
					log.Printf("Error cleaning up services: %v", err)
				}
			}()

			appName := api.DefaultAppName
			if state.Config.AppName != "" {
				appName = state.Config.AppName
			}

			server, err := api.NewServer(api.ServerConfig{
				Database:          state.DB,
				Content:           services.Content,
				RenderCache:       services.RenderCache,
				Listing:           services.Listing,
				Renderer:          services.Renderer,
				Hub:               services.Hub,
				JwtSecret:         state.Config.JWTSecret,
				JwksURL:           state.Config.JWKSURL,
				JwtIssuer:         state.Config.JWTIssuer,
				AppName:           appName,
				Production:        state.Config.Production,
				TrustProxyHeaders: state.Config.TrustProxyHeaders,
				Port:              state.Config.Port,
			})
			if err != nil {
				log.Fatalf("Failed to create server: %v", err)
			}

			log.Printf("Starting %s on :%d", appName, state.Config.Port)
			log.Printf("Content root: %s", state.Config.ContentDir)

			if state.Config.JWKSURL != "" {
				log.Printf("Auth Mode: External IDP (JWKS: %s)", state.Config.JWKSURL)
			} else {
				log.Printf("Auth Mode: Local HMAC")
			}

			watchCtx, stopWatch := context.WithCancel(ctx)
			defer stopWatch()

			if state.Config.WatchContent {
				w, err := watcher.New(state.Config.ContentDir, services.Listing, nil)
				if err != nil {
					log.Fatalf("Failed to start content watcher: %v", err)
				}

				go func() {
					err := w.Run(watchCtx)
					if err != nil && !errors.Is(err, context.Canceled) {
						log.Printf("Content watcher stopped: %v", err)
					}
				}()

				log.Println("Content watcher enabled")
			}

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

			go func() {
				err = server.Start()
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Printf("Server failed: %v", err)
					close(stop)
				}
			}()

			<-stop
			log.Println("Shutdown signal received...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			err = server.Shutdown(shutdownCtx)
			if err != nil {
				log.Printf("Server forced to shutdown: %v", err)
			}

			log.Println("Server exited gracefully.")

			return nil
		},
	}

	return cmd
}
