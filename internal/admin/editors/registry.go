// Package editors keeps one product characteristics editor per admin session
// and product. Editors expire after a period of inactivity.
package editors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"finitefield.org/catalog-admin/internal/admin/catalog"
	"finitefield.org/catalog-admin/internal/admin/observability"
	"finitefield.org/catalog-admin/internal/admin/productform"
	"finitefield.org/catalog-admin/internal/admin/templates/products"
)

const (
	DefaultCapacity = 512
	DefaultTTL      = 30 * time.Minute
)

// ErrEditorNotFound is returned by Get when no live editor exists.
var ErrEditorNotFound = errors.New("editors: editor not found")

// Editor bundles the state store of one product with its rendered forms.
type Editor struct {
	SessionID    string
	ProductID    string
	Store        *productform.Store
	Orchestrator *products.Orchestrator

	// mu serialises read-then-dispatch sequences issued by handlers.
	mu sync.Mutex
}

// Routes returns the endpoints of the editor's page.
func (e *Editor) Routes() products.Routes {
	return e.Orchestrator.View().Routes
}

// Lock serialises handler work on the editor. Dispatch itself is already safe.
func (e *Editor) Lock() { e.mu.Lock() }

// Unlock releases Lock.
func (e *Editor) Unlock() { e.mu.Unlock() }

// Config configures a Registry.
type Config struct {
	BasePath string
	Features []catalog.FeatureOption
	Capacity int
	TTL      time.Duration
	Metrics  *observability.Metrics
	Logger   *zap.Logger
	// Sequence is shared by every editor so entry ids are unique process wide.
	Sequence *productform.Sequence
}

// Registry is a bounded, expiring set of editors.
type Registry struct {
	service  catalog.Service
	basePath string
	features []catalog.FeatureOption
	metrics  *observability.Metrics
	logger   *zap.Logger
	ids      *productform.Sequence

	// mu orders refreshes and inserts against Close so a closed editor is
	// never put back.
	mu    sync.Mutex
	cache *expirable.LRU[string, *Editor]
	group singleflight.Group
}

// NewRegistry constructs a registry seeding new editors from service.
func NewRegistry(service catalog.Service, cfg Config) *Registry {
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Sequence == nil {
		cfg.Sequence = productform.NewSequence(nil)
	}
	if len(cfg.Features) == 0 {
		cfg.Features = catalog.DefaultFeatures()
	}

	r := &Registry{
		service:  service,
		basePath: cfg.BasePath,
		features: cfg.Features,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
		ids:      cfg.Sequence,
	}
	r.cache = expirable.NewLRU[string, *Editor](cfg.Capacity, r.evicted, cfg.TTL)
	return r
}

// Open returns the editor for the session and product, creating it from the
// catalog seed on first use. Concurrent opens of the same editor share one
// seed request, which outlives the cancellation of the request that started it.
func (r *Registry) Open(ctx context.Context, sessionID, productID, token string) (*Editor, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, catalog.ErrProductNotFound
	}
	key := cacheKey(sessionID, productID)
	if editor, ok := r.touch(key); ok {
		return editor, nil
	}

	seedCtx := context.WithoutCancel(ctx)
	v, err, _ := r.group.Do(key, func() (any, error) {
		if editor, ok := r.touch(key); ok {
			return editor, nil
		}
		if r.service == nil {
			return nil, catalog.ErrNotConfigured
		}
		seed, err := r.service.Characteristics(seedCtx, token, productID)
		if err != nil {
			return nil, fmt.Errorf("editors: seed %s: %w", productID, err)
		}
		editor := r.build(sessionID, productID, seed)
		r.mu.Lock()
		r.cache.Add(key, editor)
		r.mu.Unlock()
		r.metrics.EditorOpened()
		r.logger.Debug("editor opened",
			zap.String("product_id", productID),
			zap.Int("entries", len(seed)),
		)
		return editor, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Editor), nil
}

// Get returns a live editor without creating one.
func (r *Registry) Get(sessionID, productID string) (*Editor, error) {
	if editor, ok := r.touch(cacheKey(sessionID, strings.TrimSpace(productID))); ok {
		return editor, nil
	}
	return nil, ErrEditorNotFound
}

// Close drops every editor of a session, e.g. on logout.
func (r *Registry) Close(sessionID string) {
	prefix := sessionID + "\x00"
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, key := range r.cache.Keys() {
		if strings.HasPrefix(key, prefix) {
			r.cache.Remove(key)
		}
	}
}

// Purge drops every editor.
func (r *Registry) Purge() {
	r.cache.Purge()
}

// Len reports the number of live editors.
func (r *Registry) Len() int {
	return r.cache.Len()
}

// touch looks up an editor and restarts its expiry.
func (r *Registry) touch(key string) (*Editor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	editor, ok := r.cache.Get(key)
	if !ok {
		return nil, false
	}
	r.cache.Add(key, editor)
	return editor, true
}

func (r *Registry) build(sessionID, productID string, seed productform.Seed) *Editor {
	store := productform.NewStore(
		productform.SeedState(seed, r.ids),
		productform.WithSequence(r.ids),
		productform.WithMiddleware(r.metrics.DispatchMiddleware(), r.logActions(productID)),
	)
	view := products.View{
		Routes:   products.NewRoutes(r.basePath, productID),
		Features: r.features,
	}
	return &Editor{
		SessionID:    sessionID,
		ProductID:    productID,
		Store:        store,
		Orchestrator: products.NewOrchestrator(store, view, r.logger.With(zap.String("product_id", productID))),
	}
}

func (r *Registry) logActions(productID string) productform.Middleware {
	return func(next productform.DispatchFunc) productform.DispatchFunc {
		return func(action productform.Action) {
			r.logger.Debug("productform action",
				zap.String("product_id", productID),
				zap.String("type", string(action.Type)),
				zap.Int64("entry_id", action.Payload.ID),
				zap.String("form_type", string(action.Payload.FormType)),
			)
			next(action)
		}
	}
}

func (r *Registry) evicted(_ string, editor *Editor) {
	if editor == nil {
		return
	}
	editor.Orchestrator.Close()
	r.metrics.EditorClosed()
}

func cacheKey(sessionID, productID string) string {
	return sessionID + "\x00" + productID
}
