package testutil

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// ParseHTML parses the provided HTML payload into a goquery document for assertions.
func ParseHTML(t testing.TB, body []byte) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

// ParseBody reads and parses an HTML response body.
func ParseBody(t testing.TB, body io.Reader) *goquery.Document {
	t.Helper()

	payload, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return ParseHTML(t, payload)
}

// Attr returns the attribute of the first match, failing when the selector
// matches nothing.
func Attr(t testing.TB, doc *goquery.Document, selector, name string) string {
	t.Helper()

	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		t.Fatalf("selector %q matched nothing", selector)
	}
	value, ok := sel.Attr(name)
	if !ok {
		t.Fatalf("selector %q has no %s attribute", selector, name)
	}
	return strings.TrimSpace(value)
}
