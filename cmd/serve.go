package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"api_ledger/api"
	"api_ledger/internal/uploads"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ledger JSON API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8081", "listen address")
	serveCmd.Flags().String("backend", "file", "table backend: file, blob or memory")
	serveCmd.Flags().String("table-path", "../vista-sot-master.csv", "CSV file of the file backend")
	serveCmd.Flags().String("upload-dir", "public/uploads", "directory of uploaded attachments")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, "addr", "backend", "table-path", "upload-dir")
	if err != nil {
		return err
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ledgerService := a.ledgerService()
	if _, err := ledgerService.Load(ctx); err != nil {
		// the API still starts; POST /api/sot/reload retries
		a.logger.Warn("starting with an empty ledger", zap.Error(err))
	}

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	api.InitRoutes(r, ledgerService, a.uploadService(), a.logger)
	if local, ok := a.uploads.(*uploads.LocalStore); ok {
		r.Static("/"+cfg.UploadPrefix, local.Dir())
	}

	srv := &http.Server{Addr: cfg.Addr, Handler: r}
	errc := make(chan error, 1)
	go func() {
		a.logger.Info("listening", zap.String("addr", cfg.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error trying to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
