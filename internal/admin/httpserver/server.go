package httpserver

import (
	"context"
	"crypto/rand"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"finitefield.org/catalog-admin/internal/admin/catalog"
	"finitefield.org/catalog-admin/internal/admin/editors"
	custommw "finitefield.org/catalog-admin/internal/admin/httpserver/middleware"
	"finitefield.org/catalog-admin/internal/admin/httpserver/ui"
	"finitefield.org/catalog-admin/internal/admin/observability"
	"finitefield.org/catalog-admin/internal/admin/rbac"
	appsession "finitefield.org/catalog-admin/internal/admin/session"
	"finitefield.org/catalog-admin/internal/admin/uploads"
	"finitefield.org/catalog-admin/public"
)

// Config holds runtime options for the admin HTTP server.
type Config struct {
	Address          string
	BasePath         string
	LoginPath        string
	Environment      string
	Authenticator    custommw.Authenticator
	CSRFCookieName   string
	CSRFCookiePath   string
	CSRFCookieSecure bool
	CSRFHeaderName   string

	SessionHashKey      []byte
	SessionBlockKey     []byte
	SessionCookieSecure bool

	Logger  *zap.Logger
	Metrics *observability.Metrics

	CatalogService   catalog.Service
	CatalogSubmitter catalog.Submitter
	SubmitTimeout    time.Duration
	Features         []catalog.FeatureOption

	Uploads        uploads.Store
	MaxUploadBytes int64

	EditorCapacity int
	EditorTTL      time.Duration
}

// Server is the admin HTTP server. Its Shutdown also drains background
// submissions and drops the in-memory editors.
type Server struct {
	*http.Server

	sender   *catalog.Sender
	registry *editors.Registry
}

// Shutdown stops accepting requests, waits for in-flight handlers, then waits
// for started submissions. ctx bounds the whole sequence.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.Server.Shutdown(ctx)
	if drainErr := s.sender.Drain(ctx); drainErr != nil && err == nil {
		err = drainErr
	}
	s.registry.Purge()
	return err
}

// New constructs the HTTP server with middleware stack and embedded assets.
func New(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = observability.NewMetrics()
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(observability.InjectLoggerMiddleware(logger))
	router.Use(observability.TraceMiddleware())
	router.Use(observability.RequestLoggerMiddleware())
	router.Use(chimw.Recoverer)
	router.Use(chimw.Timeout(60 * time.Second))

	staticContent, err := public.StaticFS()
	if err != nil {
		return nil, err
	}
	router.Handle("/public/static/*", http.StripPrefix("/public/static/", http.FileServer(http.FS(staticContent))))
	router.Handle("/metrics", metrics.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	sessions, err := newSessionManager(cfg)
	if err != nil {
		return nil, err
	}

	service := cfg.CatalogService
	if service == nil {
		service = catalog.NewStaticService(nil)
	}
	submitter := cfg.CatalogSubmitter
	if submitter == nil {
		submitter = &catalog.StaticSubmitter{}
	}
	store := cfg.Uploads
	if store == nil {
		store = uploads.NewMemoryStore()
	}

	basePath := normalizeBasePath(cfg.BasePath)
	loginPath := resolveLoginPath(basePath, cfg.LoginPath)

	registry := editors.NewRegistry(service, editors.Config{
		BasePath: basePath,
		Features: cfg.Features,
		Capacity: cfg.EditorCapacity,
		TTL:      cfg.EditorTTL,
		Metrics:  metrics,
		Logger:   logger,
	})
	sender := catalog.NewSender(submitter, logger,
		catalog.WithSubmitTimeout(cfg.SubmitTimeout),
		catalog.WithOutcomeHook(metrics.ObserveSubmission),
	)

	authenticator := cfg.Authenticator
	if authenticator == nil {
		authenticator = custommw.DefaultAuthenticator()
	}

	csrfCfg := custommw.CSRFConfig{
		CookieName: cfg.CSRFCookieName,
		CookiePath: firstNonEmpty(cfg.CSRFCookiePath, basePath),
		HeaderName: cfg.CSRFHeaderName,
		Secure:     cfg.CSRFCookieSecure,
	}

	mountAdminRoutes(router, basePath, routeOptions{
		Authenticator: authenticator,
		LoginPath:     loginPath,
		Environment:   cfg.Environment,
		CSRF:          csrfCfg,
		Sessions:      sessions,
		Editors:       registry,
		UI: ui.NewHandlers(ui.Dependencies{
			Editors:        registry,
			Uploads:        store,
			Sender:         sender,
			Metrics:        metrics,
			BasePath:       basePath,
			MaxUploadBytes: cfg.MaxUploadBytes,
		}),
	})

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return &Server{Server: srv, sender: sender, registry: registry}, nil
}

type routeOptions struct {
	Authenticator custommw.Authenticator
	LoginPath     string
	Environment   string
	CSRF          custommw.CSRFConfig
	Sessions      custommw.SessionStore
	Editors       *editors.Registry
	UI            *ui.Handlers
}

func mountAdminRoutes(router chi.Router, base string, opts routeOptions) {
	authHandlers := newAuthHandlers(opts.Authenticator, opts.Editors, base, opts.LoginPath)
	handlers := opts.UI

	common := func(r chi.Router) {
		r.Use(custommw.HTMX())
		r.Use(custommw.NoStore())
		r.Use(custommw.RequestInfoMiddleware(base, opts.Environment))
		r.Use(custommw.Session(opts.Sessions))
		r.Use(custommw.CSRF(opts.CSRF))
	}

	loginRoute, loginInside := relativeTo(base, opts.LoginPath)
	if !loginInside {
		router.Group(func(r chi.Router) {
			common(r)
			r.Get(opts.LoginPath, authHandlers.LoginForm)
			r.Post(opts.LoginPath, authHandlers.LoginSubmit)
		})
	}

	router.Route(base, func(r chi.Router) {
		common(r)
		if loginInside {
			r.Get(loginRoute, authHandlers.LoginForm)
			r.Post(loginRoute, authHandlers.LoginSubmit)
		}

		r.Group(func(r chi.Router) {
			r.Use(custommw.Auth(opts.Authenticator, opts.LoginPath))
			r.Post("/logout", authHandlers.Logout)

			r.Group(func(r chi.Router) {
				r.Use(custommw.RequireCapability(rbac.CapCatalogView))
				r.Get("/", handlers.Home)
				r.Get("/products", handlers.OpenProduct)
			})

			r.Route("/products/{productID}/characteristics", func(r chi.Router) {
				r.Use(custommw.RequireCapability(rbac.CapCatalogManage))
				r.Get("/", handlers.CharacteristicsPage)
				RegisterFragment(r, "/forms", handlers.Forms)
				r.Post("/{formType}/add", handlers.AddEntry)
				r.Post("/{formType}/{entryID}/fields", handlers.SetFields)
				r.Post("/{formType}/{entryID}/apply", handlers.ApplyEntry)
				r.Delete("/{formType}/{entryID}", handlers.DeleteEntry)
				r.Get("/uploads/{key}", handlers.Upload)
			})
		})
	})
}

func newSessionManager(cfg Config) (*appsession.Manager, error) {
	hashKey := cfg.SessionHashKey
	blockKey := cfg.SessionBlockKey
	if len(hashKey) == 0 {
		hashKey = make([]byte, 64)
		blockKey = make([]byte, 32)
		if _, err := rand.Read(hashKey); err != nil {
			return nil, err
		}
		if _, err := rand.Read(blockKey); err != nil {
			return nil, err
		}
	}
	return appsession.NewManager(appsession.Config{
		HashKey:      hashKey,
		BlockKey:     blockKey,
		CookiePath:   normalizeBasePath(cfg.BasePath),
		CookieSecure: cfg.SessionCookieSecure,
	})
}

func normalizeBasePath(path string) string {
	p := strings.TrimSpace(path)
	if p == "" {
		return "/admin"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	if p == "" {
		return "/"
	}
	return p
}

func resolveLoginPath(base string, override string) string {
	if strings.TrimSpace(override) != "" {
		return override
	}
	if base == "/" {
		return "/login"
	}
	return base + "/login"
}

// relativeTo returns the route of path inside base, if path lives under it.
func relativeTo(base, path string) (string, bool) {
	if base == "/" {
		return path, strings.HasPrefix(path, "/")
	}
	if !strings.HasPrefix(path, base+"/") {
		return "", false
	}
	return strings.TrimPrefix(path, base), true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// RegisterFragment registers a GET handler intended for htmx fragment rendering.
func RegisterFragment(r chi.Router, pattern string, handler http.HandlerFunc) {
	r.With(custommw.RequireHTMX()).Get(pattern, handler)
}
