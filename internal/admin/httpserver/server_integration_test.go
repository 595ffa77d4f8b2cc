package httpserver_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"finitefield.org/catalog-admin/internal/admin/catalog"
	"finitefield.org/catalog-admin/internal/admin/httpserver/middleware"
	"finitefield.org/catalog-admin/internal/admin/productform"
	"finitefield.org/catalog-admin/internal/admin/testutil"
)

const demoPage = "/admin/products/demo/characteristics"

func TestHomeRedirectsWithoutAuth(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)

	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.Get(ts.URL + "/admin")
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/admin/login?next=%2Fadmin", resp.Header.Get("Location"))
}

func TestLoginPageRendersWithoutAuth(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	resp, err := http.Get(ts.URL + "/admin/login?next=/admin/products/demo/characteristics")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := testutil.ParseBody(t, resp.Body)
	require.Equal(t, demoPage, doc.Find("input[name=next]").AttrOr("value", ""))
	require.Equal(t, 1, doc.Find("form[data-login-form] input[name=id_token]").Length())
}

func TestCharacteristicsPageRendersSeed(t *testing.T) {
	t.Parallel()

	auth := &tokenAuthenticator{Token: "test-token"}
	ts := testutil.NewServer(t, testutil.WithAuthenticator(auth))
	c := newAdminClient(t, ts, auth.Token)

	doc := c.page(demoPage)

	require.Equal(t, "Характеристики товара", doc.Find("title").First().Text())
	forms := doc.Find("#product-forms")
	require.Equal(t, demoPage+"/forms", forms.AttrOr("hx-get", ""))
	require.Equal(t, 1, forms.Find("#descriptions form").Length())
	require.Equal(t, 1, forms.Find("#variation form").Length())
	require.Equal(t, 1, forms.Find("#characteristics form").Length())
	require.Zero(t, forms.Find("form[data-editing]").Length(), "seeded entries start in display mode")
	require.Contains(t, doc.Find("body").AttrOr("hx-headers", ""), c.csrf)

	for _, id := range []string{"description__btn", "variation__btn", "features__btn", "image__btn"} {
		btn := forms.Find("#" + id)
		require.Equal(t, 1, btn.Length(), id)
		_, disabled := btn.Attr("aria-disabled")
		require.False(t, disabled, "%s should be idle", id)
	}
}

func TestFeatureEntryLifecycle(t *testing.T) {
	t.Parallel()

	submitter := &catalog.StaticSubmitter{}
	ts := testutil.NewServer(t, testutil.WithSubmitter(submitter))
	c := newAdminClient(t, ts, "editor:erin")
	c.page(demoPage)

	doc := c.post(demoPage+"/features/add", nil, "")
	editing := doc.Find("#characteristics form[data-editing]")
	require.Equal(t, 1, editing.Length())
	require.Equal(t, "true", doc.Find("#features__btn").AttrOr("aria-disabled", ""))

	// A second add is rejected while the entry is being edited.
	doc = c.post(demoPage+"/features/add", nil, "")
	require.Equal(t, 2, doc.Find("#characteristics form").Length())

	// Apply on an incomplete entry does nothing.
	applyURL := attr(t, doc, "#characteristics form[data-editing] [data-action=apply]", "hx-post")
	doc = c.post(applyURL, nil, "")
	require.Equal(t, 1, doc.Find("#characteristics form[data-editing]").Length())

	fieldsURL := attr(t, doc, "#characteristics form[data-editing] select[name=feature_id]", "hx-post")
	doc = c.post(fieldsURL, url.Values{"feature_id": {"US"}, "feature_name": {"ignored"}}, "feature_id")
	require.Equal(t, "US", doc.Find("#characteristics form[data-editing] select option[selected]").AttrOr("value", ""))
	require.Empty(t, doc.Find("#characteristics form[data-editing] input[name=feature_name]").AttrOr("value", "x"))

	doc = c.post(fieldsURL, url.Values{"feature_name": {"Страна"}}, "feature_name")
	require.Empty(t, doc.Find("#characteristics form[data-editing] [data-action=apply]").AttrOr("aria-disabled", ""))

	doc = c.post(applyURL, nil, "")
	require.Zero(t, doc.Find("#characteristics form[data-editing]").Length())
	require.Contains(t, doc.Find("#characteristics").Text(), "Страна")

	require.Eventually(t, func() bool { return len(submitter.Submissions()) == 1 }, time.Second, 10*time.Millisecond)
	sub := submitter.Submissions()[0]
	require.Equal(t, "demo", sub.ProductID)
	require.Equal(t, productform.FormFeatures, sub.FormType)
	require.Equal(t, "US", sub.Fields.Text(productform.FieldFeatureID))
	require.Equal(t, "Страна", sub.Fields.Text(productform.FieldFeatureName))
	require.Equal(t, "editor:erin", sub.Token)

	// Edit, then delete.
	doc = c.post(applyURL, nil, "")
	require.Equal(t, 1, doc.Find("#characteristics form[data-editing]").Length())
	deleteURL := attr(t, doc, "#characteristics form[data-editing] [data-action=delete]", "hx-delete")
	doc = c.do(http.MethodDelete, deleteURL, nil, "", "")
	require.Equal(t, 1, doc.Find("#characteristics form").Length())
	require.Len(t, submitter.Submissions(), 1)
}

func TestImageUploadIsServed(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	c := newAdminClient(t, ts, "editor:erin")
	c.page(demoPage)

	doc := c.post(demoPage+"/images/add", nil, "")
	require.Equal(t, productform.DefaultImagePath, attr(t, doc, "#images img", "src"))
	require.Equal(t, "true", doc.Find("#image__btn").AttrOr("aria-disabled", ""))

	fieldsURL := attr(t, doc, "#images input[name=image]", "hx-post")
	png := []byte("\x89PNG\r\n\x1a\nfake")
	doc = c.upload(fieldsURL, "image", "../photo.png", "image/png", png)

	src := attr(t, doc, "#images img", "src")
	require.True(t, strings.HasPrefix(src, demoPage+"/uploads/"), src)
	_, busy := doc.Find("#image__btn").Attr("aria-disabled")
	require.False(t, busy, "images become idle once every entry has an image")

	resp := c.raw(http.MethodGet, src, nil, "", "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, png, body)
}

func TestUploadsRequireUploadCapability(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	c := newAdminClient(t, ts, "marketing:mia")
	c.page(demoPage)

	doc := c.post(demoPage+"/images/add", nil, "")
	fieldsURL := attr(t, doc, "#images input[name=image]", "hx-post")
	doc = c.upload(fieldsURL, "image", "photo.png", "image/png", []byte("png"))
	require.Equal(t, productform.DefaultImagePath, attr(t, doc, "#images img", "src"))
}

func TestCharacteristicsRejections(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)

	t.Run("support role is forbidden", func(t *testing.T) {
		c := newAdminClient(t, ts, "support:sam")
		resp := c.raw(http.MethodGet, demoPage, nil, "", "")
		defer resp.Body.Close()
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("missing csrf header", func(t *testing.T) {
		c := newAdminClient(t, ts, "editor:erin")
		c.page(demoPage)
		c.csrf = ""
		resp := c.raw(http.MethodPost, demoPage+"/features/add", nil, "", "")
		defer resp.Body.Close()
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("unknown form type and entry", func(t *testing.T) {
		c := newAdminClient(t, ts, "editor:erin")
		c.page(demoPage)
		for _, path := range []string{
			demoPage + "/widgets/add",
			demoPage + "/features/12345/apply",
			demoPage + "/features/not-a-number/fields",
		} {
			resp := c.raw(http.MethodPost, path, nil, "", "")
			resp.Body.Close()
			require.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		}
	})

	t.Run("forms fragment requires htmx", func(t *testing.T) {
		c := newAdminClient(t, ts, "editor:erin")
		req, err := http.NewRequest(http.MethodGet, ts.URL+demoPage+"/forms", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+c.token)
		resp, err := c.http.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestLogoutDropsEditors(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	c := newAdminClient(t, ts, "editor:erin")
	c.page(demoPage)
	doc := c.post(demoPage+"/features/add", nil, "")
	require.Equal(t, 1, doc.Find("#characteristics form[data-editing]").Length())

	resp := c.raw(http.MethodPost, "/admin/logout", nil, "", "")
	resp.Body.Close()
	require.Equal(t, "/admin/login?status=logged_out", resp.Header.Get("HX-Redirect"))

	doc = c.page(demoPage)
	require.Zero(t, doc.Find("form[data-editing]").Length(), "a new session starts from the seed")
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	c := newAdminClient(t, ts, "editor:erin")
	c.page(demoPage)
	c.post(demoPage+"/descriptionForm/add", nil, "")

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `catalog_admin_productform_actions_total{type="ADD_FORM"} 1`)
	require.Contains(t, string(body), "catalog_admin_editors_open 1")
}

type adminClient struct {
	t     *testing.T
	ts    *httptest.Server
	http  *http.Client
	token string
	csrf  string
}

func newAdminClient(t *testing.T, ts *httptest.Server, token string) *adminClient {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &adminClient{t: t, ts: ts, http: &http.Client{Jar: jar}, token: token}
}

// page loads a full page and remembers the CSRF token it issued.
func (c *adminClient) page(path string) *goquery.Document {
	c.t.Helper()
	resp := c.raw(http.MethodGet, path, nil, "", "")
	defer resp.Body.Close()
	require.Equal(c.t, http.StatusOK, resp.StatusCode)
	if token := testutil.CSRFToken(resp); token != "" {
		c.csrf = token
	}
	return testutil.ParseBody(c.t, resp.Body)
}

func (c *adminClient) post(path string, form url.Values, trigger string) *goquery.Document {
	c.t.Helper()
	var body io.Reader
	contentType := ""
	if form != nil {
		body = strings.NewReader(form.Encode())
		contentType = "application/x-www-form-urlencoded"
	}
	return c.do(http.MethodPost, path, body, contentType, trigger)
}

func (c *adminClient) upload(path, field, filename, contentType string, content []byte) *goquery.Document {
	c.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(c.t, err)
	_, err = part.Write(content)
	require.NoError(c.t, err)
	require.NoError(c.t, mw.Close())
	return c.do(http.MethodPost, path, &buf, mw.FormDataContentType(), field)
}

func (c *adminClient) do(method, path string, body io.Reader, contentType, trigger string) *goquery.Document {
	c.t.Helper()
	resp := c.raw(method, path, body, contentType, trigger)
	defer resp.Body.Close()
	require.Equal(c.t, http.StatusOK, resp.StatusCode, "%s %s", method, path)
	return testutil.ParseBody(c.t, resp.Body)
}

func (c *adminClient) raw(method, path string, body io.Reader, contentType, trigger string) *http.Response {
	c.t.Helper()
	req, err := http.NewRequest(method, c.ts.URL+path, body)
	require.NoError(c.t, err)
	req.Header.Set("Authorization", "Bearer "+c.token)
	if method != http.MethodGet {
		req.Header.Set("HX-Request", "true")
		if c.csrf != "" {
			req.Header.Set(middleware.DefaultCSRFHeader, c.csrf)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if trigger != "" {
		req.Header.Set("HX-Trigger-Name", trigger)
	}
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	return resp
}

func attr(t *testing.T, doc *goquery.Document, selector, name string) string {
	t.Helper()
	return testutil.Attr(t, doc, selector, name)
}

type tokenAuthenticator struct {
	Token string
}

func (a *tokenAuthenticator) Authenticate(_ *http.Request, token string) (*middleware.User, error) {
	if token != a.Token {
		return nil, middleware.ErrUnauthorized
	}
	return &middleware.User{UID: "staff-1", Email: "staff@example.com", Roles: []string{"admin"}, Token: token}, nil
}
