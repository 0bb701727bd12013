package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/majawitosz/tab-backend/internal/api"
	v1 "github.com/majawitosz/tab-backend/internal/api/v1"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.withReporting(ctx); err != nil {
			return err
		}

		opts := api.RouterOptions{Mode: a.cfg.Server.Mode}
		if a.cfg.Storage.Provider == "local" {
			opts.MediaDir = a.cfg.Storage.LocalDir
		}
		router := api.NewRouter(api.Handlers{
			Report: v1.NewReportHandler(a.reportService(), a.log),
			Health: v1.NewHealthHandler(a.pool, a.log),
		}, opts, a.log)

		srv := &http.Server{
			Addr:              a.cfg.Server.Address,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			a.log.Infow("http server listening", "address", srv.Addr)
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

		a.log.Infow("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().String("address", ":8000", "Address the HTTP server listens on")
	viper.BindPFlag("server.address", serveCmd.Flags().Lookup("address"))
	rootCmd.AddCommand(serveCmd)
}
