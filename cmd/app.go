package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"api_ledger/internal/blob"
	"api_ledger/internal/config"
	"api_ledger/internal/ledger"
	"api_ledger/internal/uploads"
)

// app bundles the collaborators selected by the configuration.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	blob    *blob.Client
	storage ledger.Storage
	uploads uploads.Store
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.Production() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func newApp(cfg config.Config) (*app, error) {
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logger}
	if cfg.BlobURL != "" {
		a.blob = blob.NewClient(cfg.BlobURL, cfg.BlobToken, cfg.BlobTimeout, logger.Named("blob"))
	}

	switch cfg.Backend {
	case config.BackendBlob:
		a.storage = ledger.NewBlobStorage(a.blob, cfg.BlobTableKey)
		a.uploads = uploads.NewBlobStore(a.blob, cfg.UploadPrefix)
	case config.BackendMemory:
		a.storage = ledger.NewMemoryStorage()
		a.uploads = uploads.NewLocalStore(cfg.UploadDir, "/"+cfg.UploadPrefix)
	default:
		a.storage = ledger.NewFileStorage(cfg.TablePath)
		a.uploads = uploads.NewLocalStore(cfg.UploadDir, "/"+cfg.UploadPrefix)
	}

	logger.Info("configuration loaded",
		zap.String("backend", cfg.Backend),
		zap.String("env", cfg.Env),
	)
	return a, nil
}

func (a *app) ledgerService() *ledger.Service {
	return ledger.NewService(a.storage, a.logger.Named("ledger"), ledger.WithCurrency(a.cfg.Currency))
}

func (a *app) uploadService() *uploads.Service {
	return uploads.NewService(a.uploads, a.logger.Named("uploads"))
}

func (a *app) close() {
	if a.blob != nil {
		if err := a.blob.Close(); err != nil {
			a.logger.Warn("failed to close blob client", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
