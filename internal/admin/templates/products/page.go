package products

import (
	"encoding/json"

	"github.com/a-h/templ"

	h "finitefield.org/catalog-admin/internal/admin/templates/helpers"
	"finitefield.org/catalog-admin/internal/admin/templates/partials"
)

const htmxScript = "https://unpkg.com/htmx.org@1.9.12"

// Index renders the characteristics editor page.
func Index(data PageData) templ.Component {
	title := data.Title
	if title == "" {
		title = "Характеристики товара"
	}

	var forms templ.Component
	if data.Forms != nil {
		forms = h.Raw(data.Forms.HTML())
	}

	return document(title, data.CSRFToken,
		h.El("main", h.Attrs{h.A("class", "mx-auto max-w-5xl p-6"), h.A("data-product-id", data.ProductID)},
			h.El("div", h.Attrs{
				h.A("id", FormsContainerID),
				h.A("hx-target", "this"),
				h.A("hx-swap", "innerHTML"),
				h.A("hx-get", data.Routes.Forms()),
				h.A("hx-trigger", "forms:refresh from:body"),
			}, forms),
		),
	)
}

// Home renders the product picker with the session's recently edited products.
func Home(data HomeData) templ.Component {
	title := "Каталог"
	openAction := h.JoinPath(data.BasePath, "products")

	recent := make([]templ.Component, 0, len(data.Recent))
	for _, id := range data.Recent {
		routes := NewRoutes(data.BasePath, id)
		recent = append(recent, h.El("li", nil,
			h.El("a", h.Attrs{h.A("href", routes.Page()), h.A("class", "text-blue-600 hover:underline dark:text-blue-400"), h.A("data-recent-product", id)}, h.Text(id)),
		))
	}

	return document(title, data.CSRFToken,
		h.El("main", h.Attrs{h.A("class", "mx-auto max-w-5xl p-6")},
			h.El("form", h.Attrs{h.A("method", "get"), h.A("action", openAction), h.A("class", "flex gap-4 items-end"), h.A("data-open-product", "")},
				h.El("div", h.Attrs{h.A("class", "flex-1")},
					h.El("label", h.Attrs{h.A("for", "product_id"), h.A("class", h.LabelClass)}, h.Text("Артикул товара")),
					h.Void("input", h.Attrs{h.A("id", "product_id"), h.A("name", "product_id"), h.A("class", h.InputClass), h.Flag("required")}),
				),
				h.El("button", h.Attrs{h.A("type", "submit"), h.A("class", h.Classes(h.ButtonBase, h.ButtonActive))}, h.Text("Открыть")),
			),
			h.When(len(recent) > 0, h.El("section", h.Attrs{h.A("class", "mt-8")},
				h.El("h2", h.Attrs{h.A("class", "mb-2 text-lg font-semibold dark:text-white")}, h.Text("Недавние товары")),
				h.El("ul", h.Attrs{h.A("class", "list-disc pl-6")}, recent...),
			)),
		),
	)
}

func document(title, csrfToken string, main templ.Component) templ.Component {
	return h.Group(
		h.Raw("<!DOCTYPE html>"),
		h.El("html", h.Attrs{h.A("lang", "ru"), h.A("class", "dark")},
			h.El("head", nil,
				h.Void("meta", h.Attrs{h.A("charset", "utf-8")}),
				h.Void("meta", h.Attrs{h.A("name", "viewport"), h.A("content", "width=device-width, initial-scale=1")}),
				h.El("title", nil, h.Text(title)),
				h.Void("link", h.Attrs{h.A("rel", "stylesheet"), h.A("href", "/public/static/app.css")}),
				h.El("script", h.Attrs{h.A("src", htmxScript), h.Flag("defer")}),
			),
			h.El("body", h.Attrs{
				h.A("class", "bg-white dark:bg-gray-900"),
				h.A("hx-headers", csrfHeaders(csrfToken)),
			},
				partials.Topbar(title),
				main,
			),
		),
	)
}

func csrfHeaders(token string) string {
	if token == "" {
		return "{}"
	}
	payload, err := json.Marshal(map[string]string{"X-CSRF-Token": token})
	if err != nil {
		return "{}"
	}
	return string(payload)
}
