package ui

import (
	"errors"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"finitefield.org/catalog-admin/internal/admin/catalog"
	"finitefield.org/catalog-admin/internal/admin/editors"
	custommw "finitefield.org/catalog-admin/internal/admin/httpserver/middleware"
	"finitefield.org/catalog-admin/internal/admin/observability"
	"finitefield.org/catalog-admin/internal/admin/templates/helpers"
	"finitefield.org/catalog-admin/internal/admin/templates/products"
	"finitefield.org/catalog-admin/internal/admin/uploads"
)

const defaultMaxUploadBytes = 10 << 20

// Dependencies collects the services required by the UI handlers.
type Dependencies struct {
	Editors        *editors.Registry
	Uploads        uploads.Store
	Sender         *catalog.Sender
	Metrics        *observability.Metrics
	BasePath       string
	MaxUploadBytes int64
}

// Handlers exposes HTTP handlers for the characteristics editor.
type Handlers struct {
	editors        *editors.Registry
	uploads        uploads.Store
	sender         *catalog.Sender
	metrics        *observability.Metrics
	basePath       string
	maxUploadBytes int64
}

// NewHandlers wires the UI handler set.
func NewHandlers(deps Dependencies) *Handlers {
	if deps.Editors == nil {
		panic("ui: editor registry is required")
	}
	store := deps.Uploads
	if store == nil {
		store = uploads.NewMemoryStore()
	}
	maxBytes := deps.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	return &Handlers{
		editors:        deps.Editors,
		uploads:        store,
		sender:         deps.Sender,
		metrics:        deps.Metrics,
		basePath:       deps.BasePath,
		maxUploadBytes: maxBytes,
	}
}

// Home renders the product picker.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	data := products.HomeData{
		BasePath:  h.basePath,
		CSRFToken: custommw.CSRFTokenFromContext(r.Context()),
	}
	if sess, ok := custommw.SessionFromContext(r.Context()); ok {
		data.Recent = sess.Products()
	}
	templ.Handler(products.Home(data)).ServeHTTP(w, r)
}

// OpenProduct redirects the picker form to the product's editor page.
func (h *Handlers) OpenProduct(w http.ResponseWriter, r *http.Request) {
	productID := strings.TrimSpace(r.URL.Query().Get("product_id"))
	if productID == "" {
		http.Redirect(w, r, helpers.JoinPath(h.basePath), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, products.NewRoutes(h.basePath, productID).Page(), http.StatusSeeOther)
}

// CharacteristicsPage renders the full editor page for a product.
func (h *Handlers) CharacteristicsPage(w http.ResponseWriter, r *http.Request) {
	editor, ok := h.openEditor(w, r)
	if !ok {
		return
	}
	if sess, ok := custommw.SessionFromContext(r.Context()); ok {
		sess.TrackProduct(editor.ProductID)
	}

	page := products.PageData{
		ProductID: editor.ProductID,
		Routes:    editor.Routes(),
		CSRFToken: custommw.CSRFTokenFromContext(r.Context()),
		Forms:     editor.Orchestrator,
	}
	templ.Handler(products.Index(page)).ServeHTTP(w, r)
}

// Forms returns the current forms fragment.
func (h *Handlers) Forms(w http.ResponseWriter, r *http.Request) {
	editor, ok := h.openEditor(w, r)
	if !ok {
		return
	}
	writeForms(w, editor)
}

// openEditor gets or seeds the editor of the session and product in the URL.
func (h *Handlers) openEditor(w http.ResponseWriter, r *http.Request) (*editors.Editor, bool) {
	logger := observability.FromContext(r.Context())
	productID := chi.URLParam(r, "productID")

	user, ok := custommw.UserFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return nil, false
	}
	sessionID := user.UID
	if sess, ok := custommw.SessionFromContext(r.Context()); ok {
		sessionID = sess.ID()
	}

	editor, err := h.editors.Open(r.Context(), sessionID, productID, user.Token)
	switch {
	case err == nil:
		return editor, true
	case errors.Is(err, catalog.ErrProductNotFound):
		http.NotFound(w, r)
	default:
		logger.Error("open editor failed", zap.String("product_id", productID), zap.Error(err))
		http.Error(w, "Не удалось загрузить характеристики товара. Попробуйте позже.", http.StatusBadGateway)
	}
	return nil, false
}

func writeForms(w http.ResponseWriter, editor *editors.Editor) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(editor.Orchestrator.HTML()))
}
