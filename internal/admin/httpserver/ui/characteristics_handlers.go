package ui

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"finitefield.org/catalog-admin/internal/admin/catalog"
	"finitefield.org/catalog-admin/internal/admin/editors"
	custommw "finitefield.org/catalog-admin/internal/admin/httpserver/middleware"
	"finitefield.org/catalog-admin/internal/admin/observability"
	"finitefield.org/catalog-admin/internal/admin/productform"
	"finitefield.org/catalog-admin/internal/admin/rbac"
	"finitefield.org/catalog-admin/internal/admin/uploads"
)

// AddEntry appends an empty entry to a collection when the collection is idle.
func (h *Handlers) AddEntry(w http.ResponseWriter, r *http.Request) {
	formType, err := productform.ParseFormType(chi.URLParam(r, "formType"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	editor, ok := h.openEditor(w, r)
	if !ok {
		return
	}

	editor.Lock()
	added := productform.AddField(editor.Store, formType)
	editor.Unlock()

	if !added {
		observability.FromContext(r.Context()).Debug("add rejected: collection busy",
			zap.String("product_id", editor.ProductID),
			zap.String("form_type", string(formType)),
		)
	}
	writeForms(w, editor)
}

// SetFields stores the values posted by an entry's inputs. The input that
// fired the request is named by HX-Trigger-Name; without it every known field
// present in the body is taken.
func (h *Handlers) SetFields(w http.ResponseWriter, r *http.Request) {
	logger := observability.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, "Файл слишком большой.", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	editor, formType, entry, ok := h.lookupEntry(w, r)
	if !ok {
		return
	}

	editor.Lock()
	defer editor.Unlock()

	// The entry may have left edit mode since the lookup.
	current, found := editor.Store.GetState().Find(formType, entry.ID)
	if !found || !current.IsEditing {
		writeForms(w, editor)
		return
	}

	names := formType.FieldNames()
	if trigger := custommw.HTMXInfoFromContext(r.Context()).TriggerName; trigger != "" {
		names = []string{trigger}
	}

	patch := make(productform.Fields, len(names))
	for _, name := range names {
		value, present, err := h.fieldValue(r, formType, name)
		if err != nil {
			logger.Error("store upload failed", zap.String("field", name), zap.Error(err))
			http.Error(w, "Не удалось сохранить файл.", http.StatusBadGateway)
			return
		}
		if present {
			patch[name] = value
		}
	}

	if len(patch) > 0 {
		editor.Store.Dispatch(productform.SetFormData(entry.ID, patch, formType))
	}
	writeForms(w, editor)
}

// fieldValue reads one field from the request. Unknown fields are ignored.
// Image fields accept a file part, stored in the upload store, or a text URL.
func (h *Handlers) fieldValue(r *http.Request, formType productform.FormType, name string) (productform.Value, bool, error) {
	if !knownField(formType, name) {
		return productform.Value{}, false, nil
	}

	if name == formType.ImageField() {
		if header := firstFile(r.MultipartForm, name); header != nil {
			if !custommw.HasCapability(r, rbac.CapCatalogUploads) {
				return productform.Value{}, false, nil
			}
			file, err := h.storeUpload(r, header)
			if err != nil {
				return productform.Value{}, false, err
			}
			return productform.FileValue(file), true, nil
		}
	}

	values, ok := postedValues(r, name)
	if !ok {
		return productform.Value{}, false, nil
	}
	// An empty file input arrives as an empty value and keeps the current image.
	if name == formType.ImageField() && values[0] == "" {
		return productform.Value{}, false, nil
	}
	return productform.Text(values[0]), true, nil
}

func (h *Handlers) storeUpload(r *http.Request, header *multipart.FileHeader) (productform.File, error) {
	src, err := header.Open()
	if err != nil {
		return productform.File{}, err
	}
	defer src.Close()

	contentType := header.Header.Get("Content-Type")
	obj, err := h.uploads.Put(r.Context(), header.Filename, contentType, src)
	if err != nil {
		return productform.File{}, err
	}
	h.metrics.UploadStored()
	observability.FromContext(r.Context()).Info("upload stored",
		zap.String("key", obj.Key),
		zap.String("content_type", obj.ContentType),
		zap.Int64("size", obj.Size),
	)
	return productform.File{
		Key:         obj.Key,
		Name:        obj.Name,
		ContentType: obj.ContentType,
		Size:        obj.Size,
	}, nil
}

// ApplyEntry toggles an entry between edit and display mode. Leaving edit
// mode requires a complete entry and submits it to the catalog backend; an
// incomplete entry stays in edit mode.
func (h *Handlers) ApplyEntry(w http.ResponseWriter, r *http.Request) {
	editor, formType, entry, ok := h.lookupEntry(w, r)
	if !ok {
		return
	}

	editor.Lock()
	defer editor.Unlock()

	current, found := editor.Store.GetState().Find(formType, entry.ID)
	if !found {
		http.NotFound(w, r)
		return
	}

	if current.IsEditing {
		if !productform.IsFilled(formType, current.Data, editor.Routes().FileURL) {
			writeForms(w, editor)
			return
		}
		token := ""
		if user, ok := custommw.UserFromContext(r.Context()); ok {
			token = user.Token
		}
		h.sender.Send(r.Context(), catalog.Submission{
			ProductID: editor.ProductID,
			FormType:  formType,
			EntryID:   current.ID,
			Fields:    current.Data,
			Token:     token,
		})
	}

	editor.Store.Dispatch(productform.SetFormIsEditing(current.ID, formType))
	writeForms(w, editor)
}

// DeleteEntry removes an entry.
func (h *Handlers) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	editor, formType, entry, ok := h.lookupEntry(w, r)
	if !ok {
		return
	}

	editor.Lock()
	editor.Store.Dispatch(productform.RemoveForm(entry.ID, formType))
	editor.Unlock()

	writeForms(w, editor)
}

// Upload serves a stored image file.
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if !uploads.ValidKey(key) {
		http.NotFound(w, r)
		return
	}

	body, obj, err := h.uploads.Open(r.Context(), key)
	if errors.Is(err, uploads.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		observability.FromContext(r.Context()).Error("open upload failed", zap.String("key", key), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	defer body.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	// Keys are never reused, so the content of a key never changes.
	w.Header().Set("Cache-Control", "private, max-age=31536000, immutable")
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	if _, err := io.Copy(w, body); err != nil {
		observability.FromContext(r.Context()).Warn("serve upload interrupted", zap.String("key", key), zap.Error(err))
	}
}

// lookupEntry resolves the form type, the editor and the entry named in the URL.
func (h *Handlers) lookupEntry(w http.ResponseWriter, r *http.Request) (*editors.Editor, productform.FormType, productform.Entry, bool) {
	formType, err := productform.ParseFormType(chi.URLParam(r, "formType"))
	if err != nil {
		http.NotFound(w, r)
		return nil, "", productform.Entry{}, false
	}
	entryID, err := strconv.ParseInt(chi.URLParam(r, "entryID"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return nil, "", productform.Entry{}, false
	}
	editor, ok := h.openEditor(w, r)
	if !ok {
		return nil, "", productform.Entry{}, false
	}
	entry, found := editor.Store.GetState().Find(formType, entryID)
	if !found {
		http.NotFound(w, r)
		return nil, "", productform.Entry{}, false
	}
	return editor, formType, entry, true
}

func knownField(formType productform.FormType, name string) bool {
	for _, field := range formType.FieldNames() {
		if field == name {
			return true
		}
	}
	return false
}

func postedValues(r *http.Request, name string) ([]string, bool) {
	if r.MultipartForm != nil {
		if values, ok := r.MultipartForm.Value[name]; ok && len(values) > 0 {
			return values, true
		}
	}
	if values, ok := r.PostForm[name]; ok && len(values) > 0 {
		return values, true
	}
	return nil, false
}

func firstFile(form *multipart.Form, name string) *multipart.FileHeader {
	if form == nil {
		return nil
	}
	if files := form.File[name]; len(files) > 0 {
		return files[0]
	}
	return nil
}
