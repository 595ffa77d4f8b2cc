package products

import (
	"github.com/a-h/templ"

	"finitefield.org/catalog-admin/internal/admin/productform"
	h "finitefield.org/catalog-admin/internal/admin/templates/helpers"
)

type section struct {
	formType    productform.FormType
	title       string
	containerID string
	buttonID    string
	buttonLabel string
}

var sections = []section{
	{productform.FormDescription, "Описание", "descriptions", "description__btn", "Добавить описание"},
	{productform.FormVariations, "Вариации", "variation", "variation__btn", "Добавить вариацию"},
	{productform.FormFeatures, "Характеристики", "characteristics", "features__btn", "Добавить характеристику"},
	{productform.FormImages, "Изображения", "images", "image__btn", "Добавить изображение"},
}

// Forms renders all four collections and their add buttons from state.
func Forms(state productform.State, view View) templ.Component {
	children := make([]templ.Component, 0, len(sections))
	for _, s := range sections {
		children = append(children, renderSection(state, view, s))
	}
	return h.Group(children...)
}

func renderSection(state productform.State, view View, s section) templ.Component {
	entries := state.Collection(s.formType)
	forms := make([]templ.Component, 0, len(entries))
	for _, entry := range entries {
		forms = append(forms, EntryForm(view, s.formType, entry))
	}
	return h.El("section", h.Attrs{h.A("class", "mb-10"), h.A("data-section", string(s.formType))},
		h.El("div", h.Attrs{h.A("class", "flex items-center justify-between gap-4")},
			h.El("h2", h.Attrs{h.A("class", "text-lg font-semibold text-gray-900 dark:text-white")}, h.Text(s.title)),
			AddButton(view.Routes, s.buttonID, s.buttonLabel, s.formType, productform.IsIdle(state, s.formType)),
		),
		h.El("div", h.Attrs{h.A("id", s.containerID)}, forms...),
	)
}

// AddButton renders a category's add button, blue when idle and grey otherwise.
func AddButton(routes Routes, id, text string, t productform.FormType, idle bool) templ.Component {
	attrs := h.Attrs{
		h.A("id", id),
		h.A("type", "button"),
		h.A("class", h.AddButtonClass(idle)),
		h.A("hx-post", routes.Add(t)),
	}.WithIf(!idle, h.A("aria-disabled", "true"))
	return h.El("button", attrs, h.Text(text))
}

// EntryForm wraps one entry in its own form element and picks the renderer
// matching its category and mode.
func EntryForm(view View, t productform.FormType, entry productform.Entry) templ.Component {
	ep := view.Routes.Entry(t, entry.ID)
	data := entry.Data

	var body templ.Component
	switch t {
	case productform.FormDescription:
		imageURL := view.ImageURL(data.Get(productform.FieldDescriptionImage))
		ru := data.Text(productform.FieldDescriptionRU)
		uz := data.Text(productform.FieldDescriptionUZ)
		if entry.IsEditing {
			body = DescriptionEdit(ep, imageURL, uz, ru)
		} else {
			body = DescriptionView(ep, imageURL, ru, uz)
		}
	case productform.FormVariations:
		imageURL := view.ImageURL(data.Get(productform.FieldVariationImage))
		ru := data.Text(productform.FieldNameRU)
		uz := data.Text(productform.FieldNameUZ)
		color := data.Text(productform.FieldVariationColor)
		if entry.IsEditing {
			body = VariationEdit(ep, ru, uz, color, imageURL)
		} else {
			body = VariationView(ep, ru, uz, color, imageURL)
		}
	case productform.FormFeatures:
		id := data.Text(productform.FieldFeatureID)
		name := data.Text(productform.FieldFeatureName)
		if entry.IsEditing {
			body = FeatureEdit(ep, view.Features, id, name)
		} else {
			body = FeatureView(ep, view.Features, id, name)
		}
	case productform.FormImages:
		body = ImageEdit(ep, view.ImageURL(data.Get(productform.FieldImage)))
	}

	attrs := h.Attrs{
		h.A("id", ep.DOMID()),
		h.A("class", "w-full mt-4"),
		h.A("enctype", "multipart/form-data"),
		h.A("data-entry-id", ep.DOMID()),
	}.WithIf(entry.IsEditing, h.A("data-editing", "true"))
	return h.El("form", attrs, body)
}
