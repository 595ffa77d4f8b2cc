package auth

import (
	"github.com/a-h/templ"

	h "finitefield.org/catalog-admin/internal/admin/templates/helpers"
)

// LoginPage renders the sign-in form. The ID token is obtained by the Firebase
// client SDK and posted as id_token.
func LoginPage(data LoginPageData) templ.Component {
	return h.Group(
		h.Raw("<!DOCTYPE html>"),
		h.El("html", h.Attrs{h.A("lang", "ru"), h.A("class", "dark")},
			h.El("head", nil,
				h.Void("meta", h.Attrs{h.A("charset", "utf-8")}),
				h.El("title", nil, h.Text("Вход")),
				h.Void("link", h.Attrs{h.A("rel", "stylesheet"), h.A("href", "/public/static/app.css")}),
			),
			h.El("body", h.Attrs{h.A("class", "bg-white dark:bg-gray-900")},
				h.El("main", h.Attrs{h.A("class", "mx-auto max-w-md p-6")},
					h.El("h1", h.Attrs{h.A("class", "mb-4 text-xl font-semibold dark:text-white")}, h.Text("Вход в каталог")),
					h.When(data.Message != "", h.El("p", h.Attrs{h.A("data-login-message", ""), h.A("class", "mb-4 text-sm text-gray-600 dark:text-gray-300")}, h.Text(data.Message))),
					h.When(data.Error != "", h.El("p", h.Attrs{h.A("data-login-error", ""), h.A("role", "alert"), h.A("class", "mb-4 text-sm text-red-600")}, h.Text(data.Error))),
					h.El("form", h.Attrs{h.A("method", "post"), h.A("action", data.LoginPath), h.A("data-login-form", "")},
						h.Void("input", h.Attrs{h.A("type", "hidden"), h.A("name", "_csrf"), h.A("value", data.CSRFToken)}),
						h.Void("input", h.Attrs{h.A("type", "hidden"), h.A("name", "next"), h.A("value", data.Next)}),
						h.El("label", h.Attrs{h.A("for", "id_token"), h.A("class", h.LabelClass)}, h.Text("ID токен")),
						h.Void("input", h.Attrs{
							h.A("id", "id_token"),
							h.A("name", "id_token"),
							h.A("type", "password"),
							h.A("autocomplete", "off"),
							h.A("class", h.InputClass),
							h.Flag("required"),
						}),
						h.El("button", h.Attrs{h.A("type", "submit"), h.A("class", h.Classes(h.ButtonBase, h.ButtonActive, "mt-4"))}, h.Text("Войти")),
					),
				),
			),
		),
	)
}
