package partials

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"finitefield.org/catalog-admin/internal/admin/httpserver/middleware"
	"finitefield.org/catalog-admin/internal/admin/rbac"
	h "finitefield.org/catalog-admin/internal/admin/templates/helpers"
)

// Topbar renders the page header with the environment badge and the user menu.
// Identity, environment and CSRF token are read from the request context.
func Topbar(title string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		env := middleware.EnvironmentFromContext(ctx)
		user, _ := middleware.UserFromContext(ctx)

		header := h.El("header", h.Attrs{h.A("class", "flex items-center justify-between gap-4 border-b border-gray-200 px-6 py-3 dark:border-gray-700")},
			h.El("div", h.Attrs{h.A("class", "flex items-center gap-3")},
				h.El("h1", h.Attrs{h.A("class", "text-base font-semibold text-gray-900 dark:text-white")}, h.Text(title)),
				EnvironmentBadge(env),
			),
			h.When(user != nil, userMenu(ctx, user)),
		)
		return header.Render(ctx, w)
	})
}

// EnvironmentBadge renders the deployment label with a short code.
func EnvironmentBadge(env string) templ.Component {
	return h.El("span", h.Attrs{
		h.A("class", h.BadgeClass(environmentTone(env))),
		h.A("data-environment-badge", env),
		h.A("title", env),
	}, h.El("span", h.Attrs{h.A("aria-hidden", "true")}, h.Text(EnvironmentCode(env))))
}

// EnvironmentCode abbreviates an environment label.
func EnvironmentCode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "production", "prod", "prd":
		return "PRD"
	case "staging", "stage", "stg":
		return "STG"
	case "", "development", "dev":
		return "DEV"
	default:
		code := strings.ToUpper(strings.TrimSpace(env))
		if len(code) > 3 {
			code = code[:3]
		}
		return code
	}
}

func environmentTone(env string) string {
	switch EnvironmentCode(env) {
	case "PRD":
		return "warning"
	case "STG":
		return "success"
	default:
		return ""
	}
}

func userMenu(ctx context.Context, user *middleware.User) templ.Component {
	name := user.Email
	if name == "" {
		name = user.UID
	}
	role := "viewer"
	if rbac.HasCapability(user.Roles, rbac.CapCatalogManage) {
		role = "catalog"
	}
	return h.El("div", h.Attrs{h.A("class", "flex items-center gap-3"), h.A("data-user-menu", role)},
		h.El("span", h.Attrs{h.A("class", "truncate text-sm text-gray-700 dark:text-gray-300")}, h.Text(name)),
		h.El("form", h.Attrs{
			h.A("method", "post"),
			h.A("action", h.JoinPath(h.BasePath(ctx), "logout")),
			h.A("data-user-menu-logout", ""),
		},
			h.Void("input", h.Attrs{h.A("type", "hidden"), h.A("name", "_csrf"), h.A("value", middleware.CSRFTokenFromContext(ctx))}),
			h.El("button", h.Attrs{h.A("type", "submit"), h.A("class", "text-sm text-gray-500 hover:text-gray-900 dark:text-gray-400 dark:hover:text-white")}, h.Text("Выйти")),
		),
	)
}
