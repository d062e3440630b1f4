package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saulo-duarte/aizzler/internal/config"
	"github.com/saulo-duarte/aizzler/internal/container"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewServeCmd builds the subcommand that runs the HTTP API.
func NewServeCmd(configPath, port *string) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port, migrate)
		},
	}
	cmd.Flags().StringVar(port, "port", "", "port to listen on (overrides config and PORT)")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "run migrations before serving")
	return cmd
}

func runServer(ctx context.Context, configPath, portFlag string, migrate bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := config.WithContext(ctx)

	settings, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if portFlag != "" {
		settings.Server.Port = portFlag
	}

	c, err := container.New(ctx, settings)
	if err != nil {
		return err
	}
	defer c.Close()

	if migrate {
		if err := container.Migrate(config.DB); err != nil {
			return err
		}
	}

	server := &http.Server{
		Addr:              ":" + settings.Server.Port,
		Handler:           c.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("Starting aizzler API on :%s", settings.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
