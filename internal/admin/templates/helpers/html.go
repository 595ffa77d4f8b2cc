package helpers

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Attr is a single HTML attribute. An empty Value renders a bare attribute
// such as `selected`.
type Attr struct {
	Name  string
	Value string
}

// Attrs is an ordered attribute list.
type Attrs []Attr

// A builds an attribute.
func A(name, value string) Attr {
	return Attr{Name: name, Value: value}
}

// Flag builds a bare attribute.
func Flag(name string) Attr {
	return Attr{Name: name}
}

// With appends attributes.
func (a Attrs) With(attrs ...Attr) Attrs {
	out := make(Attrs, 0, len(a)+len(attrs))
	out = append(out, a...)
	return append(out, attrs...)
}

// WithIf appends attributes only when cond holds.
func (a Attrs) WithIf(cond bool, attrs ...Attr) Attrs {
	if !cond {
		return a
	}
	return a.With(attrs...)
}

func (a Attrs) write(w io.Writer) error {
	for _, attr := range a {
		if attr.Name == "" {
			continue
		}
		if _, err := io.WriteString(w, " "+attr.Name); err != nil {
			return err
		}
		if attr.Value == "" {
			continue
		}
		if _, err := io.WriteString(w, `="`+templ.EscapeString(attr.Value)+`"`); err != nil {
			return err
		}
	}
	return nil
}

// El renders an element with children.
func El(tag string, attrs Attrs, children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<"+tag); err != nil {
			return err
		}
		if err := attrs.write(w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, ">"); err != nil {
			return err
		}
		for _, child := range children {
			if child == nil {
				continue
			}
			if err := child.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</"+tag+">")
		return err
	})
}

// Void renders an element without a closing tag (input, img, meta).
func Void(tag string, attrs Attrs) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<"+tag); err != nil {
			return err
		}
		if err := attrs.write(w); err != nil {
			return err
		}
		_, err := io.WriteString(w, ">")
		return err
	})
}

// Text renders escaped text.
func Text(value string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, templ.EscapeString(value))
		return err
	})
}

// Raw renders trusted markup as is.
func Raw(markup string) templ.Component {
	return templ.Raw(markup)
}

// Group renders components one after another.
func Group(children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, child := range children {
			if child == nil {
				continue
			}
			if err := child.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// When returns c if cond holds and nil otherwise; nil children are skipped.
func When(cond bool, c templ.Component) templ.Component {
	if !cond {
		return nil
	}
	return c
}

// Classes joins the non-empty class names.
func Classes(names ...string) string {
	parts := make([]string, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, " ")
}

// RenderString renders c to a string.
func RenderString(ctx context.Context, c templ.Component) (string, error) {
	var sb strings.Builder
	if c == nil {
		return "", nil
	}
	if err := c.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}
