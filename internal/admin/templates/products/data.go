package products

import (
	"net/url"
	"strconv"

	"finitefield.org/catalog-admin/internal/admin/catalog"
	"finitefield.org/catalog-admin/internal/admin/productform"
	"finitefield.org/catalog-admin/internal/admin/templates/helpers"
)

// FormsContainerID is the element the forms fragment is swapped into.
const FormsContainerID = "product-forms"

// Routes builds the editor URLs of one product.
type Routes struct {
	Base      string
	ProductID string
}

// NewRoutes binds the editor routes to a product under the admin base path.
func NewRoutes(basePath, productID string) Routes {
	return Routes{
		Base:      helpers.JoinPath(basePath, "products", url.PathEscape(productID), "characteristics"),
		ProductID: productID,
	}
}

// Page is the editor page URL.
func (r Routes) Page() string {
	return r.Base
}

// Forms is the URL of the forms fragment.
func (r Routes) Forms() string {
	return helpers.JoinPath(r.Base, "forms")
}

// Add is the URL that appends an entry to a collection.
func (r Routes) Add(t productform.FormType) string {
	return helpers.JoinPath(r.Base, string(t), "add")
}

// Upload is the URL an uploaded file is served from.
func (r Routes) Upload(key string) string {
	return helpers.JoinPath(r.Base, "uploads", url.PathEscape(key))
}

// FileURL resolves a file handle to its upload URL.
func (r Routes) FileURL(f productform.File) string {
	if f.Key == "" {
		return ""
	}
	return r.Upload(f.Key)
}

// Entry binds the endpoints of a single entry.
func (r Routes) Entry(t productform.FormType, id int64) EntryEndpoints {
	entry := helpers.JoinPath(r.Base, string(t), strconv.FormatInt(id, 10))
	return EntryEndpoints{
		ID:       id,
		FormType: t,
		Fields:   helpers.JoinPath(entry, "fields"),
		Apply:    helpers.JoinPath(entry, "apply"),
		Delete:   entry,
	}
}

// EntryEndpoints carries what a sub-form needs to address its own entry.
type EntryEndpoints struct {
	ID       int64
	FormType productform.FormType
	Fields   string
	Apply    string
	Delete   string
}

// DOMID returns the id of the entry's form element.
func (e EntryEndpoints) DOMID() string {
	return "entry-" + string(e.FormType) + "-" + strconv.FormatInt(e.ID, 10)
}

func (e EntryEndpoints) inputID(field string) string {
	return field + "_" + strconv.FormatInt(e.ID, 10)
}

// View configures how forms are rendered for one editor.
type View struct {
	Routes   Routes
	Features []catalog.FeatureOption
}

// ImageURL resolves an image field for display.
func (v View) ImageURL(value productform.Value) string {
	return productform.ResolveImage(value, v.Routes.FileURL)
}

// PageData drives the editor page.
type PageData struct {
	Title     string
	ProductID string
	Routes    Routes
	CSRFToken string
	Forms     Fragment
}

// HomeData feeds the product picker page.
type HomeData struct {
	BasePath  string
	Recent    []string
	CSRFToken string
}

// Fragment is a pre-rendered forms fragment.
type Fragment interface {
	HTML() string
}
