package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"finitefield.org/catalog-admin/internal/admin/catalog"
	"finitefield.org/catalog-admin/internal/admin/httpserver"
	"finitefield.org/catalog-admin/internal/admin/httpserver/middleware"
	"finitefield.org/catalog-admin/internal/admin/observability"
	"finitefield.org/catalog-admin/internal/admin/uploads"
)

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*httpserver.Config)

// WithAuthenticator overrides the authenticator used by the admin server.
func WithAuthenticator(auth middleware.Authenticator) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Authenticator = auth
	}
}

// WithBasePath sets a custom base path for the admin routes.
func WithBasePath(path string) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.BasePath = path
	}
}

// WithCatalogService wires a custom seed source.
func WithCatalogService(service catalog.Service) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.CatalogService = service
	}
}

// WithSubmitter wires a custom submitter, usually a *catalog.StaticSubmitter.
func WithSubmitter(submitter catalog.Submitter) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.CatalogSubmitter = submitter
	}
}

// WithUploads overrides the upload store.
func WithUploads(store uploads.Store) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Uploads = store
	}
}

// WithMetrics shares a metrics registry with the test.
func WithMetrics(metrics *observability.Metrics) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Metrics = metrics
	}
}

// NewServer constructs an httptest server running the admin HTTP stack with
// in-memory collaborators.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	cfg := httpserver.Config{
		Address:          ":0",
		BasePath:         "/admin",
		Environment:      "Development",
		CSRFCookieName:   CSRFCookieName,
		CSRFHeaderName:   middleware.DefaultCSRFHeader,
		Authenticator:    middleware.DefaultAuthenticator(),
		CatalogService:   catalog.NewStaticService(nil),
		CatalogSubmitter: &catalog.StaticSubmitter{},
		Uploads:          uploads.NewMemoryStore(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	srv, err := httpserver.New(cfg)
	if err != nil {
		t.Fatalf("httpserver.New: %v", err)
	}
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

// CSRFCookieName is the CSRF cookie used by NewServer.
const CSRFCookieName = "csrf_token"

// CSRFToken returns the CSRF cookie value issued by a response.
func CSRFToken(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == CSRFCookieName {
			return c.Value
		}
	}
	return ""
}
