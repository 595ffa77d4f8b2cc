package products

import (
	"github.com/a-h/templ"

	"finitefield.org/catalog-admin/internal/admin/catalog"
	"finitefield.org/catalog-admin/internal/admin/productform"
	h "finitefield.org/catalog-admin/internal/admin/templates/helpers"
)

const (
	textareaClass = "block p-2.5 w-full text-sm text-gray-900 bg-gray-50 rounded-lg border border-gray-300 focus:ring-blue-500 focus:border-blue-500 dark:bg-gray-700 dark:border-gray-600 dark:placeholder-gray-400 dark:text-white dark:focus:ring-blue-500 dark:focus:border-blue-500"
	readClass     = "block p-2.5 w-full text-sm text-gray-900 bg-gray-50 rounded-lg border border-gray-300 dark:bg-gray-700 dark:border-gray-600 dark:text-white"
	imageBoxStyle = "height: 250px;width: 300px;"

	placeholderOption = "Выберите характеристики"
)

// DescriptionEdit renders a description entry in edit mode.
func DescriptionEdit(ep EntryEndpoints, imageURL, descriptionUz, descriptionRu string) templ.Component {
	filled := productform.DescriptionFilled(imageURL, descriptionUz, descriptionRu)
	return h.Group(
		h.El("div", h.Attrs{h.A("class", "flex items-center gap-6 flex-wrap")},
			h.El("div", h.Attrs{h.A("class", "flex-1"), h.A("style", "min-width: 300px")},
				h.El("div", nil,
					label(ep.inputID(productform.FieldDescriptionRU), "Описание РУ"),
					textarea(ep, productform.FieldDescriptionRU, descriptionRu),
				),
				h.El("div", h.Attrs{h.A("class", "mt-4")},
					label(ep.inputID(productform.FieldDescriptionUZ), "Описание УЗ"),
					textarea(ep, productform.FieldDescriptionUZ, descriptionUz),
				),
			),
			imagePicker(ep, productform.FieldDescriptionImage, imageURL, "max-w-96", imageBoxStyle),
		),
		deleteButton(ep),
		applyButton(ep, filled),
	)
}

// DescriptionView renders a description entry in display mode. Texts are
// rendered as Markdown.
func DescriptionView(ep EntryEndpoints, imageURL, descriptionRu, descriptionUz string) templ.Component {
	return h.Group(
		h.El("div", h.Attrs{h.A("class", "flex items-center gap-6 flex-wrap")},
			h.El("div", h.Attrs{h.A("class", "flex-1"), h.A("style", "min-width: 300px")},
				h.El("div", nil,
					label("", "Описание РУ"),
					h.El("div", h.Attrs{h.A("class", h.Classes(readClass, "prose")), h.A("data-field", productform.FieldDescriptionRU)}, Markdown(descriptionRu)),
				),
				h.El("div", h.Attrs{h.A("class", "mt-4")},
					label("", "Описание УЗ"),
					h.El("div", h.Attrs{h.A("class", h.Classes(readClass, "prose")), h.A("data-field", productform.FieldDescriptionUZ)}, Markdown(descriptionUz)),
				),
			),
			h.El("div", h.Attrs{h.A("class", "max-w-96"), h.A("style", imageBoxStyle)},
				h.Void("img", h.Attrs{h.A("class", "w-full h-full object-cover"), h.A("src", imageURL), h.A("alt", "")}),
			),
		),
		editButton(ep),
	)
}

// VariationEdit renders a variation entry in edit mode.
func VariationEdit(ep EntryEndpoints, nameRu, nameUz, color, imageURL string) templ.Component {
	filled := productform.VariationFilled(nameRu, nameUz, color, imageURL)
	return h.Group(
		h.El("div", h.Attrs{h.A("class", "flex flex-wrap gap-6 w-full")},
			h.El("div", h.Attrs{h.A("class", "flex-1")},
				h.El("div", h.Attrs{h.A("class", "mb-5")},
					label(ep.inputID(productform.FieldNameRU), "Название РУ"),
					textInput(ep, productform.FieldNameRU, nameRu),
				),
				h.El("div", h.Attrs{h.A("class", "mb-5")},
					label(ep.inputID(productform.FieldNameUZ), "Название УЗ"),
					textInput(ep, productform.FieldNameUZ, nameUz),
				),
				h.El("div", nil,
					h.Void("input", fieldAttrs(ep, productform.FieldVariationColor).With(
						h.A("type", "color"),
						h.A("value", color),
					)),
				),
			),
			imagePicker(ep, productform.FieldVariationImage, imageURL, "max-w-96", imageBoxStyle),
		),
		deleteButton(ep),
		applyButton(ep, filled),
	)
}

// VariationView renders a variation entry in display mode.
func VariationView(ep EntryEndpoints, nameRu, nameUz, color, imageURL string) templ.Component {
	return h.Group(
		h.El("div", h.Attrs{h.A("class", "flex flex-wrap gap-6 w-full")},
			h.El("div", h.Attrs{h.A("class", "flex-1")},
				h.El("div", h.Attrs{h.A("class", "mb-5")},
					label("", "Название РУ"),
					h.El("p", h.Attrs{h.A("class", h.InputClass), h.A("data-field", productform.FieldNameRU)}, h.Text(nameRu)),
				),
				h.El("div", h.Attrs{h.A("class", "mb-5")},
					label("", "Название УЗ"),
					h.El("p", h.Attrs{h.A("class", h.InputClass), h.A("data-field", productform.FieldNameUZ)}, h.Text(nameUz)),
				),
				h.El("div", nil,
					h.Void("input", h.Attrs{
						h.A("name", productform.FieldVariationColor),
						h.A("type", "color"),
						h.A("value", color),
						h.Flag("disabled"),
					}),
				),
			),
			h.El("div", h.Attrs{h.A("class", "max-w-96"), h.A("style", imageBoxStyle)},
				h.Void("img", h.Attrs{
					h.A("class", "w-full h-full object-cover"),
					h.A("src", imageURL),
					h.A("alt", ep.inputID("image")),
				}),
			),
		),
		editButton(ep),
	)
}

// FeatureEdit renders a feature entry in edit mode.
func FeatureEdit(ep EntryEndpoints, options []catalog.FeatureOption, featureID, featureName string) templ.Component {
	filled := productform.FeatureFilled(featureID, featureName)
	return h.Group(
		h.El("div", h.Attrs{h.A("class", "flex gap-4 my-2")},
			featureSelect(ep, options, featureID, true),
			h.Void("input", fieldAttrs(ep, productform.FieldFeatureName).With(
				h.A("type", "text"),
				h.A("value", featureName),
				h.A("class", h.InputClass),
			)),
		),
		deleteButton(ep),
		applyButton(ep, filled),
	)
}

// FeatureView renders a feature entry in display mode.
func FeatureView(ep EntryEndpoints, options []catalog.FeatureOption, featureID, featureName string) templ.Component {
	return h.Group(
		h.El("div", h.Attrs{h.A("class", "flex gap-4 my-2")},
			featureSelect(ep, options, featureID, false),
			h.El("p", h.Attrs{h.A("class", h.InputClass), h.A("data-field", productform.FieldFeatureName)}, h.Text(featureName)),
		),
		editButton(ep),
	)
}

// ImageEdit renders an image entry. Images have no display mode.
func ImageEdit(ep EntryEndpoints, imageURL string) templ.Component {
	return h.Group(
		imagePicker(ep, productform.FieldImage, imageURL, "w-full max-w-96", "height: 250px;max-width: 400px;"),
		deleteButton(ep),
	)
}

func label(forID, text string) templ.Component {
	return h.El("label", h.Attrs{}.WithIf(forID != "", h.A("for", forID)).With(h.A("class", h.LabelClass)), h.Text(text))
}

// fieldAttrs makes an input post its own change to the entry's fields endpoint.
func fieldAttrs(ep EntryEndpoints, field string) h.Attrs {
	return h.Attrs{
		h.A("name", field),
		h.A("id", ep.inputID(field)),
		h.A("hx-post", ep.Fields),
		h.A("hx-trigger", "change"),
	}
}

func textarea(ep EntryEndpoints, field, value string) templ.Component {
	return h.El("textarea", fieldAttrs(ep, field).With(
		h.A("rows", "4"),
		h.A("class", textareaClass),
	), h.Text(value))
}

func textInput(ep EntryEndpoints, field, value string) templ.Component {
	return h.Void("input", fieldAttrs(ep, field).With(
		h.A("type", "text"),
		h.A("value", value),
		h.A("class", h.InputClass),
	))
}

func imagePicker(ep EntryEndpoints, field, imageURL, class, style string) templ.Component {
	return h.El("div", h.Attrs{h.A("class", class), h.A("style", style)},
		h.El("label", h.Attrs{h.A("for", ep.inputID(field))},
			h.Void("img", h.Attrs{
				h.A("class", "w-full h-full object-cover cursor-pointer"),
				h.A("src", imageURL),
				h.A("id", ep.inputID("image-preview")),
				h.A("alt", ""),
			}),
		),
		h.Void("input", fieldAttrs(ep, field).With(
			h.A("class", "hidden"),
			h.A("type", "file"),
			h.A("accept", "image/*"),
			h.A("hx-encoding", "multipart/form-data"),
		)),
	)
}

func featureSelect(ep EntryEndpoints, options []catalog.FeatureOption, selected string, editable bool) templ.Component {
	matched := false
	for _, opt := range options {
		if opt.Value == selected {
			matched = true
			break
		}
	}

	children := make([]templ.Component, 0, len(options)+1)
	children = append(children, h.El("option", h.Attrs{h.A("value", ""), h.Flag("disabled")}.WithIf(!matched, h.Flag("selected")), h.Text(placeholderOption)))
	for _, opt := range options {
		children = append(children, h.El("option", h.Attrs{h.A("value", opt.Value)}.WithIf(opt.Value == selected, h.Flag("selected")), h.Text(opt.Label)))
	}

	var attrs h.Attrs
	if editable {
		attrs = fieldAttrs(ep, productform.FieldFeatureID)
	} else {
		attrs = h.Attrs{h.A("name", productform.FieldFeatureID), h.Flag("disabled")}
	}
	return h.El("select", attrs.With(h.A("class", h.InputClass)), children...)
}

func deleteButton(ep EntryEndpoints) templ.Component {
	return h.El("button", h.Attrs{
		h.A("type", "button"),
		h.A("class", h.Classes("mt-4 me-2 mb-2", h.ButtonBase, h.ButtonDanger)),
		h.A("hx-delete", ep.Delete),
		h.A("hx-params", "none"),
		h.A("data-action", "delete"),
	}, h.Text("Удалить"))
}

func applyButton(ep EntryEndpoints, filled bool) templ.Component {
	return h.El("button", h.Attrs{
		h.A("type", "button"),
		h.A("class", h.Classes("apply-button me-2 mb-2", h.ApplyButtonClass(filled))),
		h.A("hx-post", ep.Apply),
		h.A("hx-params", "none"),
		h.A("data-action", "apply"),
	}.WithIf(!filled, h.A("aria-disabled", "true")), h.Text("Применить"))
}

func editButton(ep EntryEndpoints) templ.Component {
	return h.El("button", h.Attrs{
		h.A("type", "button"),
		h.A("class", h.Classes("edit-button me-2 mb-2", h.ButtonBase, h.ButtonActive)),
		h.A("hx-post", ep.Apply),
		h.A("hx-params", "none"),
		h.A("data-action", "edit"),
	}, h.Text("Редактировать"))
}
