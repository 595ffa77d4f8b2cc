package products

import (
	"bytes"
	"sync"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	h "finitefield.org/catalog-admin/internal/admin/templates/helpers"
)

var (
	markdownOnce   sync.Once
	markdownEngine goldmark.Markdown
	markdownPolicy *bluemonday.Policy
)

func markdown() (goldmark.Markdown, *bluemonday.Policy) {
	markdownOnce.Do(func() {
		markdownEngine = goldmark.New(
			goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		)
		markdownPolicy = newDescriptionPolicy()
	})
	return markdownEngine, markdownPolicy
}

// RenderMarkdown converts description text into sanitised HTML. Text that
// fails to convert is returned escaped.
func RenderMarkdown(source string) string {
	engine, policy := markdown()
	var buf bytes.Buffer
	if err := engine.Convert([]byte(source), &buf); err != nil {
		return templ.EscapeString(source)
	}
	return policy.Sanitize(buf.String())
}

// Markdown renders description text as sanitised Markdown.
func Markdown(source string) templ.Component {
	return h.Raw(RenderMarkdown(source))
}

func newDescriptionPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("p", "span")
	policy.RequireNoFollowOnLinks(true)
	return policy
}
