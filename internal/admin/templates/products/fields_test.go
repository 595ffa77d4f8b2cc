package products

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/require"

	"finitefield.org/catalog-admin/internal/admin/catalog"
	"finitefield.org/catalog-admin/internal/admin/productform"
)

func render(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	return doc
}

func testRoutes() Routes {
	return NewRoutes("/admin", "sku-1")
}

func TestDescriptionEditApplyStyling(t *testing.T) {
	t.Parallel()

	ep := testRoutes().Entry(productform.FormDescription, 5)

	filled := render(t, DescriptionEdit(ep, "/img/a.jpg", "Tavsif", "Описание"))
	apply := filled.Find("button[data-action='apply']")
	require.Equal(t, 1, apply.Length())
	require.Contains(t, apply.AttrOr("class", ""), "dark:bg-green-600")
	_, disabled := apply.Attr("aria-disabled")
	require.False(t, disabled)
	require.Equal(t, "/admin/products/sku-1/characteristics/descriptionForm/5/apply", apply.AttrOr("hx-post", ""))
	require.Equal(t, "Описание", filled.Find("textarea[name='description_ru']").Text())
	require.Equal(t, "/img/a.jpg", filled.Find("img").AttrOr("src", ""))

	file := filled.Find("input[type='file'][name='description_image']")
	require.Equal(t, "/admin/products/sku-1/characteristics/descriptionForm/5/fields", file.AttrOr("hx-post", ""))
	require.Equal(t, "multipart/form-data", file.AttrOr("hx-encoding", ""))

	empty := render(t, DescriptionEdit(ep, productform.DefaultImagePath, "Tavsif", "Описание"))
	apply = empty.Find("button[data-action='apply']")
	require.Contains(t, apply.AttrOr("class", ""), "dark:bg-gray-600")
	require.Equal(t, "true", apply.AttrOr("aria-disabled", ""))

	del := empty.Find("button[data-action='delete']")
	require.Equal(t, "/admin/products/sku-1/characteristics/descriptionForm/5", del.AttrOr("hx-delete", ""))
	require.Equal(t, "Удалить", strings.TrimSpace(del.Text()))
}

func TestDescriptionViewRendersSanitisedMarkdown(t *testing.T) {
	t.Parallel()

	ep := testRoutes().Entry(productform.FormDescription, 5)
	doc := render(t, DescriptionView(ep, "/img/a.jpg", "**Крепкая** кружка<script>alert(1)</script>", "oddiy"))

	ru := doc.Find("[data-field='description_ru']")
	require.Equal(t, "Крепкая", ru.Find("strong").Text())
	require.Equal(t, 0, doc.Find("script").Length())
	require.Equal(t, 0, doc.Find("textarea").Length())
	require.Equal(t, "Редактировать", strings.TrimSpace(doc.Find("button[data-action='edit']").Text()))
}

func TestVariationRenderers(t *testing.T) {
	t.Parallel()

	ep := testRoutes().Entry(productform.FormVariations, 8)

	edit := render(t, VariationEdit(ep, "Синий", "Ko'k", "#1d4ed8", "/img/v.jpg"))
	require.Equal(t, "Синий", edit.Find("input[name='name_ru']").AttrOr("value", ""))
	require.Equal(t, "#1d4ed8", edit.Find("input[type='color']").AttrOr("value", ""))
	require.Equal(t, "change", edit.Find("input[name='name_uz']").AttrOr("hx-trigger", ""))
	require.Contains(t, edit.Find("button[data-action='apply']").AttrOr("class", ""), "dark:bg-green-600")

	missingColor := render(t, VariationEdit(ep, "Синий", "Ko'k", " ", "/img/v.jpg"))
	require.Contains(t, missingColor.Find("button[data-action='apply']").AttrOr("class", ""), "dark:bg-gray-600")

	view := render(t, VariationView(ep, "Синий", "Ko'k", "#1d4ed8", "/img/v.jpg"))
	_, disabled := view.Find("input[type='color']").Attr("disabled")
	require.True(t, disabled)
	require.Equal(t, "Ko'k", view.Find("[data-field='name_uz']").Text())
	require.Equal(t, 0, view.Find("button[data-action='delete']").Length())
}

func TestFeatureSelectPlaceholder(t *testing.T) {
	t.Parallel()

	ep := testRoutes().Entry(productform.FormFeatures, 3)
	options := catalog.DefaultFeatures()

	doc := render(t, FeatureEdit(ep, options, "", ""))
	selected := doc.Find("select[name='feature_id'] option[selected]")
	require.Equal(t, 1, selected.Length())
	require.Equal(t, "Выберите характеристики", selected.Text())
	require.Equal(t, 5, doc.Find("select option").Length())

	doc = render(t, FeatureEdit(ep, options, "FR", "Страна"))
	selected = doc.Find("select[name='feature_id'] option[selected]")
	require.Equal(t, 1, selected.Length())
	require.Equal(t, "FR", selected.AttrOr("value", ""))
	require.Contains(t, doc.Find("button[data-action='apply']").AttrOr("class", ""), "dark:bg-green-600")

	view := render(t, FeatureView(ep, options, "DE", "Made in"))
	_, disabled := view.Find("select").Attr("disabled")
	require.True(t, disabled)
	require.Equal(t, "Made in", view.Find("[data-field='feature_name']").Text())
}

func TestImageEditHasNoApply(t *testing.T) {
	t.Parallel()

	ep := testRoutes().Entry(productform.FormImages, 9)
	doc := render(t, ImageEdit(ep, productform.DefaultImagePath))

	require.Equal(t, productform.DefaultImagePath, doc.Find("img").AttrOr("src", ""))
	require.Equal(t, 0, doc.Find("button[data-action='apply']").Length())
	require.Equal(t, 1, doc.Find("button[data-action='delete']").Length())
	require.Equal(t, "image_9", doc.Find("input[type='file']").AttrOr("id", ""))
}

func TestRenderMarkdownEscapesRawHTML(t *testing.T) {
	t.Parallel()

	out := RenderMarkdown("<b onclick=\"x()\">hi</b> [link](https://example.com)")
	require.NotContains(t, out, "onclick")
	require.Contains(t, out, `rel="nofollow"`)
}
