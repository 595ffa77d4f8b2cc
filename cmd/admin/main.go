package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"

	"finitefield.org/catalog-admin/internal/admin/catalog"
	"finitefield.org/catalog-admin/internal/admin/config"
	"finitefield.org/catalog-admin/internal/admin/httpserver"
	"finitefield.org/catalog-admin/internal/admin/httpserver/middleware"
	"finitefield.org/catalog-admin/internal/admin/observability"
	"finitefield.org/catalog-admin/internal/admin/uploads"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("catalog admin: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Submissions carry the incoming trace to the catalog backend.
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	if cfg.Session.Generated {
		logger.Warn("session keys generated at startup; sessions will not survive a restart")
	}

	features := catalog.DefaultFeatures()
	if cfg.Catalog.FeaturesFile != "" {
		features, err = catalog.LoadFeatures(cfg.Catalog.FeaturesFile)
		if err != nil {
			return err
		}
	}

	store, closeStore, err := buildUploads(ctx, cfg.Uploads, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	service, submitter, err := buildCatalog(cfg.Catalog, store, logger)
	if err != nil {
		return err
	}

	srv, err := httpserver.New(httpserver.Config{
		Address:             cfg.Server.Address,
		BasePath:            cfg.Server.BasePath,
		LoginPath:           cfg.Server.LoginPath,
		Environment:         cfg.Server.Environment,
		Authenticator:       buildAuthenticator(ctx, cfg.Firebase, logger),
		CSRFCookieSecure:    cfg.Session.CookieSecure,
		SessionHashKey:      cfg.Session.HashKey,
		SessionBlockKey:     cfg.Session.BlockKey,
		SessionCookieSecure: cfg.Session.CookieSecure,
		Logger:              logger,
		CatalogService:      service,
		CatalogSubmitter:    submitter,
		SubmitTimeout:       cfg.Catalog.SubmitTimeout,
		Features:            features,
		Uploads:             store,
		MaxUploadBytes:      cfg.Uploads.MaxBytes,
		EditorCapacity:      cfg.Editors.Capacity,
		EditorTTL:           cfg.Editors.TTL,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	logger.Info("admin server listening",
		zap.String("addr", cfg.Server.Address),
		zap.String("base_path", cfg.Server.BasePath),
		zap.String("environment", cfg.Server.Environment),
	)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	logger.Info("admin server stopped")
	return nil
}

func buildAuthenticator(ctx context.Context, cfg config.FirebaseConfig, logger *zap.Logger) middleware.Authenticator {
	if cfg.ProjectID == "" {
		logger.Warn("FIREBASE_PROJECT_ID not set; using passthrough authenticator")
		return nil
	}

	verifier, err := middleware.NewFirebaseVerifier(ctx, cfg.ProjectID)
	if err != nil {
		logger.Error("failed to initialise Firebase auth", zap.Error(err))
		return nil
	}

	logger.Info("Firebase authenticator enabled", zap.String("project_id", cfg.ProjectID))
	return middleware.NewFirebaseAuthenticator(verifier)
}

func buildUploads(ctx context.Context, cfg config.UploadsConfig, logger *zap.Logger) (uploads.Store, func(), error) {
	if cfg.Bucket == "" {
		logger.Info("UPLOADS_BUCKET not set; keeping image files in memory")
		return uploads.NewMemoryStore(), func() {}, nil
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, nil, err
	}
	store, err := uploads.NewGCSStore(client, cfg.Bucket, cfg.Prefix)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	logger.Info("GCS upload store enabled", zap.String("bucket", cfg.Bucket), zap.String("prefix", cfg.Prefix))
	return store, func() { _ = client.Close() }, nil
}

func buildCatalog(cfg config.CatalogConfig, files catalog.FileOpener, logger *zap.Logger) (catalog.Service, catalog.Submitter, error) {
	if cfg.APIBaseURL == "" {
		logger.Warn("CATALOG_API_BASE_URL not set; using the built-in demo catalog")
		return catalog.NewStaticService(nil), &catalog.StaticSubmitter{}, nil
	}

	client := &http.Client{Timeout: 30 * time.Second}
	service, err := catalog.NewHTTPService(cfg.APIBaseURL, client)
	if err != nil {
		return nil, nil, err
	}
	submitter, err := catalog.NewHTTPSubmitter(cfg.APIBaseURL, cfg.SubmitPath, client, files)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("catalog backend configured", zap.String("submit_endpoint", submitter.Endpoint()))
	return service, submitter, nil
}
