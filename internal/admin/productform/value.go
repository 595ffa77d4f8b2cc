package productform

// File is a handle to an uploaded file kept by the upload store.
type File struct {
	Key         string
	Name        string
	ContentType string
	Size        int64
}

type valueKind uint8

const (
	kindNull valueKind = iota
	kindText
	kindFile
)

// Value holds a single sub-form field: null, text, or a file handle.
type Value struct {
	kind valueKind
	text string
	file File
}

// Null returns the empty field value.
func Null() Value {
	return Value{}
}

// Text wraps a string field value.
func Text(s string) Value {
	return Value{kind: kindText, text: s}
}

// FileValue wraps an uploaded file handle.
func FileValue(f File) Value {
	return Value{kind: kindFile, file: f}
}

// IsNull reports whether the value is unset.
func (v Value) IsNull() bool { return v.kind == kindNull }

// IsText reports whether the value carries text.
func (v Value) IsText() bool { return v.kind == kindText }

// IsFile reports whether the value carries a file handle.
func (v Value) IsFile() bool { return v.kind == kindFile }

// String returns the text content. Null and file values yield "".
func (v Value) String() string {
	if v.kind != kindText {
		return ""
	}
	return v.text
}

// File returns the file handle when the value holds one.
func (v Value) File() (File, bool) {
	if v.kind != kindFile {
		return File{}, false
	}
	return v.file, true
}

// Equal reports whether both values hold the same content.
func (v Value) Equal(other Value) bool {
	return v == other
}

// Fields maps field names to values for a single entry.
type Fields map[string]Value

// Get returns the named value, or Null when absent.
func (f Fields) Get(name string) Value {
	if f == nil {
		return Null()
	}
	return f[name]
}

// Text returns the text content of the named field.
func (f Fields) Text(name string) string {
	return f.Get(name).String()
}

// Merge returns a new mapping with patch applied over f. Neither input is modified.
func (f Fields) Merge(patch Fields) Fields {
	out := make(Fields, len(f)+len(patch))
	for k, v := range f {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}
