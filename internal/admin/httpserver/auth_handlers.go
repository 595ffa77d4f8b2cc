package httpserver

import (
	"errors"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"finitefield.org/catalog-admin/internal/admin/editors"
	custommw "finitefield.org/catalog-admin/internal/admin/httpserver/middleware"
	"finitefield.org/catalog-admin/internal/admin/observability"
	appsession "finitefield.org/catalog-admin/internal/admin/session"
	"finitefield.org/catalog-admin/internal/admin/templates/auth"
)

type authHandlers struct {
	authenticator custommw.Authenticator
	editors       *editors.Registry
	basePath      string
	loginPath     string
}

func newAuthHandlers(authenticator custommw.Authenticator, registry *editors.Registry, basePath, loginPath string) *authHandlers {
	if authenticator == nil {
		panic("auth: authenticator is required")
	}
	if strings.TrimSpace(basePath) == "" {
		basePath = "/"
	}
	if strings.TrimSpace(loginPath) == "" {
		loginPath = resolveLoginPath(basePath, "")
	}
	return &authHandlers{
		authenticator: authenticator,
		editors:       registry,
		basePath:      basePath,
		loginPath:     loginPath,
	}
}

func (h *authHandlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.isAuthenticated(r) && !forceLogin(r) {
		http.Redirect(w, r, h.redirectTarget(r.URL.Query().Get("next")), http.StatusFound)
		return
	}
	h.renderLoginPage(w, r, h.buildLoginPageData(r, nil), http.StatusOK)
}

func (h *authHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		state := &loginFormState{Error: "Не удалось отправить форму. Попробуйте ещё раз."}
		h.renderLoginPage(w, r, h.buildLoginPageData(r, state), http.StatusBadRequest)
		return
	}

	state := &loginFormState{Next: r.PostFormValue("next")}
	token := strings.TrimSpace(r.PostFormValue("id_token"))
	if token == "" {
		state.Error = "Введите ID токен."
		h.renderLoginPage(w, r, h.buildLoginPageData(r, state), http.StatusBadRequest)
		return
	}

	user, err := h.authenticator.Authenticate(r, token)
	if err != nil || user == nil {
		observability.FromContext(r.Context()).Info("admin login failed", zap.Error(err))
		state.Error = h.errorMessageFor(err)
		h.renderLoginPage(w, r, h.buildLoginPageData(r, state), http.StatusUnauthorized)
		return
	}

	if sess, ok := custommw.SessionFromContext(r.Context()); ok {
		sess.SetUser(&appsession.User{
			UID:   user.UID,
			Email: user.Email,
			Roles: append([]string(nil), user.Roles...),
		})
	}
	issued := token
	if user.Token != "" {
		issued = user.Token
	}
	h.setAuthCookie(w, r, issued)

	target := h.redirectTarget(state.Next)
	if custommw.IsHTMXRequest(r.Context()) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// Logout ends the session and drops the session's editors with any unapplied changes.
func (h *authHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := custommw.SessionFromContext(r.Context()); ok {
		if h.editors != nil {
			h.editors.Close(sess.ID())
		}
		sess.Destroy()
	}
	h.clearAuthCookie(w)

	redirect := h.loginURLWithParams(map[string]string{"status": "logged_out"})
	if custommw.IsHTMXRequest(r.Context()) {
		w.Header().Set("HX-Redirect", redirect)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

type loginFormState struct {
	Next  string
	Error string
}

func (h *authHandlers) buildLoginPageData(r *http.Request, state *loginFormState) auth.LoginPageData {
	q := url.Values{}
	if r.URL != nil {
		q = r.URL.Query()
	}

	data := auth.LoginPageData{
		Next:      h.normalizeNext(q.Get("next")),
		Message:   h.messageForQuery(q),
		LoginPath: h.loginPath,
		BasePath:  h.basePath,
		CSRFToken: custommw.CSRFTokenFromContext(r.Context()),
	}
	if state != nil {
		if state.Next != "" {
			data.Next = h.normalizeNext(state.Next)
		}
		data.Error = state.Error
	}
	return data
}

func (h *authHandlers) renderLoginPage(w http.ResponseWriter, r *http.Request, data auth.LoginPageData, status int) {
	templ.Handler(auth.LoginPage(data), templ.WithStatus(status)).ServeHTTP(w, r)
}

func (h *authHandlers) isAuthenticated(r *http.Request) bool {
	sess, ok := custommw.SessionFromContext(r.Context())
	if !ok {
		return false
	}
	user := sess.User()
	return user != nil && strings.TrimSpace(user.UID) != ""
}

func (h *authHandlers) errorMessageFor(err error) string {
	var authErr *custommw.AuthError
	if errors.As(err, &authErr) {
		switch authErr.Reason {
		case custommw.ReasonTokenExpired:
			return "Срок действия сессии истёк. Войдите снова."
		case custommw.ReasonMissingToken:
			return "Не хватает данных для входа."
		}
	}
	return "Не удалось войти. Проверьте данные и попробуйте снова."
}

func (h *authHandlers) messageForQuery(q url.Values) string {
	if q.Get("status") == "logged_out" {
		return "Вы вышли из системы."
	}
	switch q.Get("reason") {
	case custommw.ReasonTokenExpired, "expired":
		return "Срок действия сессии истёк. Войдите снова."
	case custommw.ReasonMissingToken:
		return "Необходимо войти."
	default:
		return ""
	}
}

func (h *authHandlers) redirectTarget(raw string) string {
	if next := h.normalizeNext(raw); next != "" {
		return next
	}
	return h.basePath
}

func (h *authHandlers) setAuthCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     custommw.AuthCookieName,
		Value:    url.QueryEscape("Bearer " + token),
		Path:     h.basePath,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *authHandlers) clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     custommw.AuthCookieName,
		Value:    "",
		Path:     h.basePath,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *authHandlers) loginURLWithParams(params map[string]string) string {
	parsed, err := url.Parse(h.loginPath)
	if err != nil {
		return h.loginPath
	}
	q := parsed.Query()
	for key, val := range params {
		if strings.TrimSpace(val) != "" {
			q.Set(key, val)
		}
	}
	parsed.RawQuery = q.Encode()
	return parsed.String()
}

func forceLogin(r *http.Request) bool {
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get("force"))) {
	case "1", "true", "yes", "force":
		return true
	default:
		return false
	}
}

func (h *authHandlers) normalizeNext(raw string) string {
	sanitized := sanitizeNextTarget(h.basePath, raw)
	if sanitized == "" {
		return ""
	}
	if h.loginPath != "" && normalizeBasePath(pathOnly(sanitized)) == normalizeBasePath(h.loginPath) {
		return ""
	}
	return sanitized
}

func sanitizeNextTarget(basePath, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if parsed.Scheme != "" || parsed.Host != "" {
		return ""
	}

	pathValue := parsed.Path
	if pathValue == "" {
		pathValue = "/"
	}

	unescaped, err := url.PathUnescape(pathValue)
	if err != nil {
		return ""
	}
	if strings.Contains(unescaped, "\\") {
		return ""
	}

	cleaned := path.Clean(unescaped)
	if !strings.HasPrefix(cleaned, "/") {
		cleaned = "/" + cleaned
	}
	if strings.HasPrefix(cleaned, "//") {
		return ""
	}

	normalisedBase := normalizeBasePath(basePath)
	if normalisedBase != "/" && !hasSafePrefix(cleaned, normalisedBase) {
		return ""
	}

	target := cleaned
	if parsed.RawQuery != "" {
		target += "?" + parsed.RawQuery
	}
	if parsed.Fragment != "" {
		target += "#" + parsed.Fragment
	}
	return target
}

func hasSafePrefix(pathValue, base string) bool {
	if base == "/" {
		return strings.HasPrefix(pathValue, "/")
	}
	if !strings.HasPrefix(pathValue, base) {
		return false
	}
	if len(pathValue) == len(base) {
		return true
	}
	return pathValue[len(base)] == '/'
}

func pathOnly(raw string) string {
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return parsed.Path
}
