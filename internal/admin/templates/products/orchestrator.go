package products

import (
	"context"
	"sync"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"finitefield.org/catalog-admin/internal/admin/productform"
	h "finitefield.org/catalog-admin/internal/admin/templates/helpers"
)

// Orchestrator keeps a rendered copy of an editor's forms in sync with its
// store. Every dispatch re-renders all four collections from scratch.
type Orchestrator struct {
	store  *productform.Store
	view   View
	logger *zap.Logger

	mu       sync.RWMutex
	html     string
	version  uint64
	rendered bool

	unsubscribe func()
	closeOnce   sync.Once
}

// NewOrchestrator renders the initial state and subscribes to the store.
func NewOrchestrator(store *productform.Store, view View, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := &Orchestrator{
		store:  store,
		view:   view,
		logger: logger,
	}
	o.renderForms()
	o.unsubscribe = store.Subscribe(o.renderForms)
	return o
}

func (o *Orchestrator) renderForms() {
	state, version := o.store.Snapshot()
	html, err := h.RenderString(context.Background(), Forms(state, o.view))
	if err != nil {
		o.logger.Error("render product forms", zap.Error(err), zap.Uint64("version", version))
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	// Subscribers of concurrent dispatches may finish out of order.
	if o.rendered && version < o.version {
		return
	}
	o.html = html
	o.version = version
	o.rendered = true
}

// HTML returns the latest rendered forms fragment.
func (o *Orchestrator) HTML() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.html
}

// Version returns the store version the cached fragment was rendered from.
func (o *Orchestrator) Version() uint64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.version
}

// Fragment returns the cached forms fragment as a component.
func (o *Orchestrator) Fragment() templ.Component {
	return h.Raw(o.HTML())
}

// View returns the render configuration.
func (o *Orchestrator) View() View {
	return o.view
}

// Close stops following the store.
func (o *Orchestrator) Close() {
	o.closeOnce.Do(func() {
		if o.unsubscribe != nil {
			o.unsubscribe()
		}
	})
}
