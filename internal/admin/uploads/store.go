package uploads

import (
	"context"
	"crypto/rand"
	"errors"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ErrNotFound is returned when no object exists for a key.
var ErrNotFound = errors.New("uploads: object not found")

// Object describes a stored upload.
type Object struct {
	Key         string
	Name        string
	ContentType string
	Size        int64
}

// Store persists uploaded image files for the characteristics editor.
type Store interface {
	Put(ctx context.Context, name, contentType string, r io.Reader) (Object, error)
	Open(ctx context.Context, key string) (io.ReadCloser, Object, error)
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewKey returns a fresh, lexically sortable object key.
func NewKey(now time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), entropy).String()
}

// ValidKey reports whether key could have been issued by NewKey.
func ValidKey(key string) bool {
	_, err := ulid.ParseStrict(key)
	return err == nil
}

// CleanName reduces a client supplied file name to its base name.
func CleanName(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	base := path.Base(name)
	if base == "." || base == "/" {
		return ""
	}
	return base
}
